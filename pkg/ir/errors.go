package ir

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// UnknownReferenceError is returned when a reference points at a name that
// is not registered.
type UnknownReferenceError struct {
	Name string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown reference %q", e.Name)
}

// CyclicReferenceError is returned when resolution revisits a name that is
// already on the current path. Path ends with the repeated name.
type CyclicReferenceError struct {
	Path []string
}

func (e *CyclicReferenceError) Error() string {
	return "cyclic reference: " + strings.Join(e.Path, " -> ")
}

// InvalidSchemaError reports a violated well-formedness rule
type InvalidSchemaError struct {
	Reason   string
	Location string
}

func (e *InvalidSchemaError) Error() string {
	if e.Location == "" {
		return "invalid schema: " + e.Reason
	}
	return fmt.Sprintf("invalid schema at %s: %s", e.Location, e.Reason)
}

// UnsupportedFeatureError reports a construct the target cannot express
type UnsupportedFeatureError struct {
	Feature  string
	Backend  string
	Location string
}

func (e *UnsupportedFeatureError) Error() string {
	msg := fmt.Sprintf("feature %q is not supported by backend %q", e.Feature, e.Backend)
	if e.Location != "" {
		msg += " (at " + e.Location + ")"
	}
	return msg
}

// UnknownReference returns an UnknownReferenceError with a stack trace
func UnknownReference(name string) error {
	return errors.WithStack(&UnknownReferenceError{Name: name})
}

// CyclicReference returns a CyclicReferenceError with a stack trace
func CyclicReference(path ...string) error {
	return errors.WithStack(&CyclicReferenceError{Path: path})
}

// InvalidSchema returns an InvalidSchemaError with a stack trace
func InvalidSchema(location, format string, args ...any) error {
	return errors.WithStack(&InvalidSchemaError{Reason: fmt.Sprintf(format, args...), Location: location})
}

// UnsupportedFeature returns an UnsupportedFeatureError with a stack trace
func UnsupportedFeature(feature, backend, location string) error {
	return errors.WithStack(&UnsupportedFeatureError{Feature: feature, Backend: backend, Location: location})
}
