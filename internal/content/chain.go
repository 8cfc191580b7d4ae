package content

// Chain chains together a set of transformers, failing fast if any transformer
// in the chain errors. Later transformers never see the input of a failed one.
func Chain(transformers ...Transformer) TransformerFunc {
	return func(input string) (string, error) {
		var err error
		for _, transformer := range transformers {
			input, err = transformer.Transform(input)
			if err != nil {
				return "", err
			}
		}
		return input, nil
	}
}
