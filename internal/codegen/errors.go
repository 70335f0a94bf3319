package codegen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput indicates the submitted product payload cannot be processed.
	ErrInvalidInput = errors.New("codegen: invalid input")
	// ErrPublishBlocked indicates the payload fails the pre-publish completeness checks.
	ErrPublishBlocked = errors.New("codegen: publish blocked")
)

// ValidationError reports a payload problem the caller has to fix. Fields
// lists the offending attributes in the order they were detected.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("codegen: missing %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// PublishError is returned by the publish guard with every missing
// requirement collected, not just the first.
type PublishError struct {
	Missing []string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("cannot publish product: missing %s", strings.Join(e.Missing, ", "))
}

func (e *PublishError) Unwrap() error {
	return ErrPublishBlocked
}
