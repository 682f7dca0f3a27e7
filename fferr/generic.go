package fferr

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

const ENABLE_STACK_TRACE = true

func NewGenericError(err error) GenericError {
	msg := err.Error()
	return GenericError{
		msg:     msg,
		err:     eris.New(msg),
		cause:   err,
		details: map[string]string{},
	}
}

// GenericError keeps the original error as its cause so errors.Is sees through a typed error to,
// for example, a context.Canceled returned by the AWS SDK.
type GenericError struct {
	msg     string
	err     error
	cause   error
	details map[string]string
}

func (e *GenericError) Error() string {
	if len(e.details) == 0 {
		return e.msg
	}
	keys := make([]string, 0, len(e.details))
	for key := range e.details {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(e.msg)
	sb.WriteString("\n")
	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(e.details[key])
		sb.WriteString("\n")
	}
	return sb.String()
}

func (e *GenericError) Unwrap() error {
	return e.cause
}

func (e *GenericError) Message() string {
	return e.msg
}

func (e *GenericError) Stack() JSONStackTrace {
	return eris.ToJSON(e.err, ENABLE_STACK_TRACE)
}

func (e *GenericError) Details() map[string]string {
	return e.details
}

// AddDetail normalizes keys to snake case: "Calculation Execution ID" is stored as calculation_execution_id.
func (e *GenericError) AddDetail(key, value string) {
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ToLower(key)
	e.details[key] = value
}
