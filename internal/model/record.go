package model

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// RecordKind identifies which variant a Record holds.
type RecordKind int

const (
	// RecordEmpty means the producing stage has not written the field.
	RecordEmpty RecordKind = iota
	// RecordValidated holds a value that passed its output contract.
	RecordValidated
	// RecordFailed holds only a failure reason (and optionally the raw text
	// that could not be validated).
	RecordFailed
)

func (k RecordKind) String() string {
	switch k {
	case RecordEmpty:
		return "empty"
	case RecordValidated:
		return "validated"
	case RecordFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record is a stage output: Empty, Validated(value) or Failed(reason).
// The zero value is Empty.
type Record[T any] struct {
	kind   RecordKind
	value  T
	reason string
	raw    string
}

// Empty returns an empty record.
func Empty[T any]() Record[T] {
	return Record[T]{}
}

// Validated wraps a contract-validated value.
func Validated[T any](v T) Record[T] {
	return Record[T]{kind: RecordValidated, value: v}
}

// Failed returns a record holding a failure reason. raw may be empty.
func Failed[T any](reason, raw string) Record[T] {
	return Record[T]{kind: RecordFailed, reason: reason, raw: raw}
}

// Kind reports the active variant.
func (r Record[T]) Kind() RecordKind { return r.kind }

// IsEmpty reports whether the record has never been written.
func (r Record[T]) IsEmpty() bool { return r.kind == RecordEmpty }

// Value returns the validated value and true, or the zero value and false.
func (r Record[T]) Value() (T, bool) {
	if r.kind != RecordValidated {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Reason returns the failure reason of a Failed record.
func (r Record[T]) Reason() string { return r.reason }

// RawOutput returns the unvalidated model text kept for diagnosis.
func (r Record[T]) RawOutput() string { return r.raw }

type failedJSON struct {
	Error     string `json:"error"`
	RawOutput string `json:"raw_output,omitempty"`
}

// MarshalJSON encodes Empty as {}, Validated as the value and Failed as
// {"error": reason, "raw_output": raw}.
func (r Record[T]) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case RecordValidated:
		return json.Marshal(r.value)
	case RecordFailed:
		return json.Marshal(failedJSON{Error: r.reason, RawOutput: r.raw})
	default:
		return []byte("{}"), nil
	}
}

// UnmarshalJSON reverses MarshalJSON. An object whose only keys are "error"
// and "raw_output" decodes as Failed.
func (r *Record[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = Record[T]{}
		return nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return eris.Wrap(err, "model: decode record")
	}
	if len(keys) == 0 {
		*r = Record[T]{}
		return nil
	}

	if _, ok := keys["error"]; ok && onlyFailureKeys(keys) {
		var f failedJSON
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return eris.Wrap(err, "model: decode failed record")
		}
		*r = Failed[T](f.Error, f.RawOutput)
		return nil
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return eris.Wrap(err, "model: decode validated record")
	}
	*r = Validated(v)
	return nil
}

func onlyFailureKeys(keys map[string]json.RawMessage) bool {
	for k := range keys {
		if k != "error" && k != "raw_output" {
			return false
		}
	}
	return true
}
