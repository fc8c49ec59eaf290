// Package session holds the analyze wizard state and the reducer that moves it
// between steps.
package session

import (
	"errors"
	"fmt"

	"github.com/TFMV/schemaforge/pkg/codegen"
	"github.com/TFMV/schemaforge/pkg/schema"
	"github.com/TFMV/schemaforge/pkg/selection"
)

var (
	ErrInvalidTransition = errors.New("invalid step transition")
	ErrEmptySchema       = errors.New("schema has no fields")
	ErrNotArrayField     = errors.New("not an array field")
	ErrBusy              = errors.New("upload already in progress")
	ErrNotLoading        = errors.New("no upload in progress")
)

// Step is a wizard step.
type Step uint8

const (
	StepUpload Step = iota
	StepAnalyze
	StepGenerate
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepAnalyze:
		return "analyze"
	case StepGenerate:
		return "generate"
	}
	return fmt.Sprintf("Step(%d)", uint8(s))
}

// transitions lists the steps reachable from each step. Reset is allowed from
// every step and is not listed.
var transitions = map[Step][]Step{
	StepUpload:   {StepAnalyze},
	StepAnalyze:  {StepGenerate},
	StepGenerate: {StepGenerate},
}

// CanTransition reports whether the wizard may move from one step to another.
func CanTransition(from, to Step) bool {
	if to == StepUpload {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// State is the whole session. It is treated as immutable: Reduce returns a new
// value and never mutates its input.
type State struct {
	Step      Step
	FileName  string
	Fields    []schema.Field
	Selection selection.Set
	Table     string
	Loading   bool
	Pending   string // name of the file being uploaded
}

// Initial returns the state of a fresh session.
func Initial() State {
	return State{Step: StepUpload, Table: codegen.DefaultTable}
}

// Action is an event applied to the state.
type Action interface {
	action()
}

// UploadStarted marks the beginning of a file read.
type UploadStarted struct{ FileName string }

// UploadSucceeded carries the inferred schema of the pending upload.
type UploadSucceeded struct {
	FileName string
	Fields   []schema.Field
}

// UploadFailed ends a pending upload without changing the schema.
type UploadFailed struct{ Err error }

// Toggle selects or deselects an array field.
type Toggle struct {
	Name     string
	Selected bool
}

// SetTable changes the DataFrame name used in generated code.
type SetTable struct{ Table string }

// Generate moves to the generate step.
type Generate struct{}

// Reset clears the session.
type Reset struct{}

func (UploadStarted) action()   {}
func (UploadSucceeded) action() {}
func (UploadFailed) action()    {}
func (Toggle) action()          {}
func (SetTable) action()        {}
func (Generate) action()        {}
func (Reset) action()           {}

// Reduce applies a to s. On error the returned state equals s.
func Reduce(s State, a Action) (State, error) {
	switch act := a.(type) {
	case UploadStarted:
		if s.Loading {
			return s, ErrBusy
		}
		if s.Step != StepUpload {
			return s, fmt.Errorf("%w: upload from %s", ErrInvalidTransition, s.Step)
		}
		s.Loading = true
		s.Pending = act.FileName
		return s, nil

	case UploadSucceeded:
		if !s.Loading {
			return s, ErrNotLoading
		}
		if !CanTransition(s.Step, StepAnalyze) {
			return s, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s.Step, StepAnalyze)
		}
		s.Loading = false
		s.Pending = ""
		s.FileName = act.FileName
		s.Fields = act.Fields
		s.Selection = selection.Set{}
		s.Step = StepAnalyze
		return s, nil

	case UploadFailed:
		if !s.Loading {
			return s, ErrNotLoading
		}
		s.Loading = false
		s.Pending = ""
		return s, nil

	case Toggle:
		if s.Step != StepAnalyze {
			return s, fmt.Errorf("%w: toggle in %s", ErrInvalidTransition, s.Step)
		}
		if _, ok := schema.FindArray(s.Fields, act.Name); !ok {
			return s, fmt.Errorf("%w: %s", ErrNotArrayField, act.Name)
		}
		s.Selection = s.Selection.Toggle(act.Name, act.Selected)
		return s, nil

	case SetTable:
		s.Table = act.Table
		if s.Table == "" {
			s.Table = codegen.DefaultTable
		}
		return s, nil

	case Generate:
		if !CanTransition(s.Step, StepGenerate) {
			return s, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s.Step, StepGenerate)
		}
		if len(s.Fields) == 0 {
			return s, ErrEmptySchema
		}
		s.Step = StepGenerate
		return s, nil

	case Reset:
		table := s.Table
		s = Initial()
		s.Table = table
		return s, nil
	}
	return s, fmt.Errorf("unknown action %T", a)
}

// Code renders the generated blocks for the current state.
func (s State) Code() codegen.Code {
	return codegen.Generate(s.Fields, s.Selection, s.Table)
}
