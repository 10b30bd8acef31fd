package upload

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindInvalidFileFormat
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidFileFormat:
		return "invalid_file_format"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInvalidFileFormat = &Error{Kind: KindInvalidFileFormat}
	ErrIO                = &Error{Kind: KindIO}
)

// Error carries a Kind so callers can branch on errors.Is(err, ErrInvalidFileFormat)
// or KindOf(err) instead of matching messages.
type Error struct {
	Kind   Kind
	Op     string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch e.Kind {
	case KindValidation:
		b.WriteString("validation error")
	case KindInvalidFileFormat:
		b.WriteString("invalid file format")
	case KindIO:
		b.WriteString("i/o error")
	default:
		b.WriteString("error")
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "; %s: %s", k, e.Fields[k])
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func ValidationError(op string, fields map[string]string) error {
	return &Error{Kind: KindValidation, Op: op, Fields: fields}
}

// IOError wraps a database, cursor or storage failure. A nil err stays nil.
func IOError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindIO, Op: op, Err: err}
}
