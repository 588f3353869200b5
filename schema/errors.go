package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig is returned for invalid registrations or configuration files.
	ErrConfig = errors.New("schema: invalid configuration")
	// ErrSchemaNotFound is returned when an (element, property) pair is not registered.
	ErrSchemaNotFound = errors.New("schema: not found")
	// ErrUnregisteredSchema is returned when a declared (element, property, type)
	// triple is not accepted by the registry.
	ErrUnregisteredSchema = errors.New("schema: unregistered")
	// ErrElementNameMismatch is returned when a property is added under the wrong element.
	ErrElementNameMismatch = errors.New("schema: element name mismatch")
	// ErrDuplicateProperty is returned when a property name is added twice to one element.
	ErrDuplicateProperty = errors.New("schema: duplicate property")
)

// Error carries the names involved in a schema failure.
//
// The underlying sentinel can be matched with errors.Is.
type Error struct {
	Op       string
	Element  string
	Property string
	Type     string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	fmt.Fprintf(&b, " (element %q", e.Element)
	if e.Property != "" {
		fmt.Fprintf(&b, ", property %q", e.Property)
	}
	if e.Type != "" {
		fmt.Fprintf(&b, ", type %q", e.Type)
	}
	b.WriteString(")")
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }
