package todos

import (
	"errors"
	"unicode/utf8"
)

// Name length bounds, counted in characters.
const (
	MinNameLength = 1
	MaxNameLength = 100
)

var (
	// ErrNameLength matches any ValidationError of kind LengthError.
	ErrNameLength = errors.New("name must be between 1 and 100 characters")

	// ErrNameTaken matches any ValidationError of kind DuplicateError.
	ErrNameTaken = errors.New("name already taken")
)

// ValidationKind classifies a failed name validation.
type ValidationKind int

const (
	LengthError ValidationKind = iota + 1
	DuplicateError
)

// Subject names what kind of entity a validated name belongs to. It only affects
// the user-facing message.
type Subject string

const (
	SubjectName Subject = ""
	SubjectList Subject = "list"
	SubjectTodo Subject = "todo"
)

// ValidationError describes why a list or todo name was rejected.
type ValidationError struct {
	Kind    ValidationKind
	Subject Subject
	Name    string
}

func (e *ValidationError) Error() string {
	switch e.Subject {
	case SubjectList:
		if e.Kind == LengthError {
			return "List name must be between 1 and 100 characters."
		}
		return "List name already taken."
	case SubjectTodo:
		if e.Kind == LengthError {
			return "Todo must be between 1 and 100 characters."
		}
		return "Todo is already listed."
	}
	if e.Kind == LengthError {
		return "Name must be between 1 and 100 characters."
	}
	return "Name already taken."
}

// Is lets errors.Is match a ValidationError against ErrNameLength and ErrNameTaken.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrNameLength:
		return e.Kind == LengthError
	case ErrNameTaken:
		return e.Kind == DuplicateError
	}
	return false
}

// ValidateName checks a name against the length bounds and its current siblings.
// A non-nil currentName equal to name skips the duplicate check, so renaming
// something to its own name always succeeds.
func ValidateName(name string, siblings []string, currentName *string) error {
	return validateName(SubjectName, name, siblings, currentName)
}

// ValidateListName validates a list name against every list in the collection.
// currentName is the list's existing name when renaming, nil when creating.
func ValidateListName(name string, c *Collection, currentName *string) error {
	return validateName(SubjectList, name, c.ListNames(), currentName)
}

// ValidateTodoName validates a todo name against the todos already in the list.
func ValidateTodoName(name string, l *List) error {
	return validateName(SubjectTodo, name, l.TodoNames(), nil)
}

func validateName(subject Subject, name string, siblings []string, currentName *string) error {
	length := utf8.RuneCountInString(name)
	if length < MinNameLength || length > MaxNameLength {
		return &ValidationError{Kind: LengthError, Subject: subject, Name: name}
	}

	if currentName != nil && *currentName == name {
		return nil
	}

	for _, sibling := range siblings {
		if sibling == name {
			return &ValidationError{Kind: DuplicateError, Subject: subject, Name: name}
		}
	}
	return nil
}
