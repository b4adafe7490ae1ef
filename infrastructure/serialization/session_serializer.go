package serialization

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todolists/domain/sessions"
	"todolists/domain/todos"
)

//go:embed session_schema.json
var sessionSchema []byte

const (
	schemaURL      = "session_schema.json"
	payloadVersion = 1
)

// ErrInvalidPayload wraps every failure to accept a stored session payload.
var ErrInvalidPayload = errors.New("invalid session payload")

// SessionPayload is the JSON document stored for a session.
type SessionPayload struct {
	Version int             `json:"version"`
	Lists   []*todos.List   `json:"lists"`
	Flash   *sessions.Flash `json:"flash,omitempty"`
}

// SessionSerializer converts session state to and from its stored JSON form,
// validating stored documents against the embedded JSON schema.
type SessionSerializer struct {
	schema *jsonschema.Schema
}

// NewSessionSerializer compiles the embedded schema.
func NewSessionSerializer() (*SessionSerializer, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(sessionSchema)); err != nil {
		return nil, fmt.Errorf("add session schema: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile session schema: %w", err)
	}

	return &SessionSerializer{schema: schema}, nil
}

// MustNewSessionSerializer is NewSessionSerializer for callers that cannot recover
// from a broken embedded schema.
func MustNewSessionSerializer() *SessionSerializer {
	s, err := NewSessionSerializer()
	if err != nil {
		panic(err)
	}
	return s
}

// Serialize converts the collection and pending flash of a session to JSON.
func (s *SessionSerializer) Serialize(state *sessions.State) (string, error) {
	lists := []*todos.List{}
	if state.Collection != nil && state.Collection.Lists != nil {
		lists = state.Collection.Lists
	}
	for _, list := range lists {
		if list.Todos == nil {
			list.Todos = []*todos.Todo{}
		}
	}

	data, err := json.Marshal(SessionPayload{
		Version: payloadVersion,
		Lists:   lists,
		Flash:   state.Flash,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session payload: %w", err)
	}
	return string(data), nil
}

// Deserialize validates a stored JSON document and fills the collection and flash of state.
// An empty document yields an empty collection.
func (s *SessionSerializer) Deserialize(jsonStr string, state *sessions.State) error {
	if jsonStr == "" {
		state.Collection = todos.NewCollection()
		state.Flash = nil
		return nil
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPayload, firstSchemaError(err))
	}

	var payload SessionPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := checkUniqueIDs(payload.Lists); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	state.Collection = &todos.Collection{Lists: payload.Lists}
	state.Flash = payload.Flash
	return nil
}

// checkUniqueIDs enforces the id invariants the schema cannot express: list ids unique
// in the collection, todo ids unique within their list.
func checkUniqueIDs(lists []*todos.List) error {
	listIDs := make(map[int64]bool, len(lists))
	for _, list := range lists {
		if listIDs[list.ID] {
			return fmt.Errorf("duplicate list id %d", list.ID)
		}
		listIDs[list.ID] = true

		todoIDs := make(map[int64]bool, len(list.Todos))
		for _, todo := range list.Todos {
			if todoIDs[todo.ID] {
				return fmt.Errorf("duplicate todo id %d in list %d", todo.ID, list.ID)
			}
			todoIDs[todo.ID] = true
		}
	}
	return nil
}

// firstSchemaError walks the validation error tree down to the first leaf cause.
func firstSchemaError(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	location := ve.InstanceLocation
	if location == "" {
		location = "/"
	}
	return fmt.Sprintf("%s: %s", location, ve.Message)
}
