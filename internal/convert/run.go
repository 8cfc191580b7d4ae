package convert

// Run applies the flow to input, feeding each step the output of the one
// before it. The first step to fail aborts the run: later steps are not
// invoked and no partial output is returned. A converter without a
// transformer fails its step. An empty flow returns input unchanged.
func Run(input string, flow Flow) (string, error) {
	acc := input
	for idx, step := range flow.steps {
		if step.Transformer == nil {
			return "", &ConversionError{Step: idx, Converter: step.Ref(), Cause: ErrNoTransform}
		}
		out, err := step.Transform(acc)
		if err != nil {
			return "", &ConversionError{
				Step:      idx,
				Converter: step.Ref(),
				Cause:     err,
			}
		}
		acc = out
	}
	return acc, nil
}

// Forge is [Run] for presentation layers that report failure as text: it
// returns the output, or [Sentinel] if any step failed.
func Forge(input string, flow Flow) string {
	out, err := Run(input, flow)
	if err != nil {
		return Sentinel
	}
	return out
}
