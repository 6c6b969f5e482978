package enquiry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMethodNotAllowed is returned for anything but POST
var ErrMethodNotAllowed = errors.New("method not allowed")

// ValidationError lists the fields that failed validation, keyed by their
// JSON name. Nothing has been sent when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "missing required fields: " + strings.Join(names, ", ")
}

// DeliveryError wraps a transport failure during one of the two sends
type DeliveryError struct {
	Stage string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to send %s email: %v", e.Stage, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
