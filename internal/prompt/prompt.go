// Package prompt asks the user for the inputs of scaffolding commands.
//
// A Prompter either drives an interactive terminal UI or replays answers
// supplied up front by flags or editor command arguments.
package prompt

import (
	"context"
	"fmt"
)

// Request identifiers shared by prompters and the scaffolder.
const (
	IDName      = "name"
	IDProperty  = "property"
	IDMore      = "more"
	IDOverwrite = "overwrite"
)

// Choice labels.
const (
	ChoiceYes         = "Yes"
	ChoiceNo          = "No"
	ChoiceAddProperty = "Add another property"
	ChoiceFinish      = "Finish"
)

// InputRequest describes a free-text question.
type InputRequest struct {
	ID          string
	Prompt      string
	Placeholder string
	Validate    Validator
}

// ChoiceRequest describes a pick-one question.
type ChoiceRequest struct {
	ID      string
	Message string
	Options []string
}

// Prompter asks questions. ok is false when the user declined to answer.
type Prompter interface {
	Input(ctx context.Context, req InputRequest) (value string, ok bool, err error)
	Choose(ctx context.Context, req ChoiceRequest) (choice string, ok bool, err error)
}

// ValidationError reports a rejected non-interactive answer.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// Answers is a non-interactive Prompter fed from flags or command arguments.
// Property descriptors are handed out in order, one per property request.
type Answers struct {
	Name       string
	Properties []string
	Overwrite  bool

	next int
}

var _ Prompter = (*Answers)(nil)

// Input answers name and property requests.
func (a *Answers) Input(ctx context.Context, req InputRequest) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var value string
	switch req.ID {
	case IDName:
		value = a.Name
	case IDProperty:
		if a.next < len(a.Properties) {
			value = a.Properties[a.next]
			a.next++
		}
	default:
		return "", false, fmt.Errorf("no answer for %q", req.ID)
	}

	if req.Validate != nil {
		if msg := req.Validate(value); msg != "" {
			return "", false, &ValidationError{Field: req.ID, Value: value, Message: msg}
		}
	}
	return value, true, nil
}

// Choose answers the add-more and overwrite questions.
func (a *Answers) Choose(ctx context.Context, req ChoiceRequest) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	switch req.ID {
	case IDMore:
		if a.next < len(a.Properties) {
			return ChoiceAddProperty, true, nil
		}
		return ChoiceFinish, true, nil
	case IDOverwrite:
		if a.Overwrite {
			return ChoiceYes, true, nil
		}
		return ChoiceNo, true, nil
	}
	return "", false, fmt.Errorf("no answer for %q", req.ID)
}
