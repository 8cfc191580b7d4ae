package convert

import "slices"

// Flow is an ordered sequence of converters. The zero value is an empty flow
// ready for use. Flows are plain values owned by the caller; nothing in this
// package retains them.
type Flow struct {
	steps []Converter
}

// NewFlow builds a flow from the given converters, in order.
func NewFlow(steps ...Converter) Flow {
	return Flow{steps: slices.Clone(steps)}
}

// ParseFlow builds a flow from step references (see [Resolve]). The first
// reference that does not resolve fails the whole flow.
func ParseFlow(refs ...string) (Flow, error) {
	var flow Flow
	for _, ref := range refs {
		if err := flow.AppendRef(ref); err != nil {
			return Flow{}, err
		}
	}
	return flow, nil
}

// Append adds converters to the end of the flow.
func (f *Flow) Append(steps ...Converter) {
	f.steps = append(slices.Clip(f.steps), steps...)
}

// AppendID adds the converter with the given ID from group to the end of the
// flow. An [ErrNotFound] is returned, and the flow left untouched, if the
// group has no such converter.
func (f *Flow) AppendID(group Group, id string) error {
	conv, err := Find(group, id)
	if err != nil {
		return err
	}
	f.Append(conv)
	return nil
}

// AppendRef resolves ref and adds the converter to the end of the flow.
func (f *Flow) AppendRef(ref string) error {
	conv, err := Resolve(ref)
	if err != nil {
		return err
	}
	f.Append(conv)
	return nil
}

// Remove deletes the step at index, shifting later steps down. An
// [ErrIndexOutOfRange] is returned for an index outside the flow.
func (f *Flow) Remove(index int) error {
	if index < 0 || index >= len(f.steps) {
		return ErrIndexOutOfRange
	}
	f.steps = slices.Delete(slices.Clone(f.steps), index, index+1)
	return nil
}

// Len returns the number of steps.
func (f Flow) Len() int { return len(f.steps) }

// Steps returns a copy of the flow's converters, in order.
func (f Flow) Steps() []Converter { return slices.Clone(f.steps) }

// Refs returns the fully qualified reference of each step, in order.
func (f Flow) Refs() []string {
	refs := make([]string, len(f.steps))
	for i, step := range f.steps {
		refs[i] = step.Ref()
	}
	return refs
}
