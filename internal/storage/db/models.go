package db

import (
	"strings"
	"time"
)

// stepSeparator joins step references in the steps column. References never
// contain whitespace.
const stepSeparator = " "

// Flow is a row of the flows table.
type Flow struct {
	ID         uint64
	Name       string
	Steps      string
	CreateTime time.Time
	UpdateTime time.Time
}

// StepRefs splits the stored steps column into step references.
func (f Flow) StepRefs() []string {
	return strings.Fields(f.Steps)
}

// JoinSteps encodes step references for the steps column.
func JoinSteps(refs []string) string {
	return strings.Join(refs, stepSeparator)
}
