package api

import (
	"bytes"
	"encoding/json"
)

// Envelope is the {success, data, error} wrapper every endpoint returns.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody is the error member of a failed envelope.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// HasData reports whether data is present and not JSON null.
func (e *Envelope) HasData() bool {
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Result is a successful response.
type Result struct {
	Status    int
	RequestID string
	Envelope  Envelope
}

// DecodeList decodes data as a collection. Absent or null data becomes an
// empty, non-nil slice.
func DecodeList[T any](r *Result) ([]T, error) {
	if r == nil || !r.Envelope.HasData() {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(r.Envelope.Data, &items); err != nil {
		return nil, decodeError(r, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// DecodeObject decodes data as a single object. Null data returns nil
// without an error; callers decide what a missing object means.
func DecodeObject[T any](r *Result) (*T, error) {
	if r == nil || !r.Envelope.HasData() {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(r.Envelope.Data, &v); err != nil {
		return nil, decodeError(r, err)
	}
	return &v, nil
}

func decodeError(r *Result, cause error) *Error {
	env := r.Envelope
	return &Error{
		Kind:     KindParse,
		Status:   r.Status,
		Message:  MessageInvalidResponse,
		Envelope: &env,
		Cause:    cause,
	}
}
