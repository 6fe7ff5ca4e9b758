package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/api/validation"
	"github.com/hugh/go-planner/internal/apperr"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope every endpoint answers with. Data holds the
// resource itself; list endpoints put an array there.
type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func Success(message string, data interface{}) Response {
	return Response{Status: StatusSuccess, Message: message, Data: data}
}

func Error(message string, details map[string]string) Response {
	return Response{Status: StatusError, Message: message, Details: details}
}

// fieldErrors collects per-field problems while a request is turned into a
// service input.
type fieldErrors map[string]string

func (f fieldErrors) err() error {
	return apperr.InvalidFields(f)
}

func (f fieldErrors) required(field, value, label string) {
	if value == "" {
		f[field] = label + " is required"
	}
}

func (f fieldErrors) id(field, value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		f[field] = "Invalid ID format"
		return uuid.Nil
	}
	return id
}

func (f fieldErrors) optionalID(field string, value *string) *uuid.UUID {
	if value == nil {
		return nil
	}
	id := f.id(field, *value)
	return &id
}

func (f fieldErrors) date(field string, value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, err := validation.ParseTime(*value)
	if err != nil {
		f[field] = "Invalid date format"
		return nil
	}
	return &t
}

func (f fieldErrors) timestamp(field, value string) time.Time {
	if value == "" {
		f[field] = "Timestamp is required"
		return time.Time{}
	}
	t, err := validation.ParseTimestamp(value)
	if err != nil {
		f[field] = "Invalid timestamp, expected RFC 3339 with offset"
	}
	return t
}

func (f fieldErrors) nonNegative(field string, value *int) {
	if value != nil && *value < 0 {
		f[field] = "Must not be negative"
	}
}

// nullableID tells an absent key from an explicit null, so updates can clear
// an optional reference.
type nullableID struct {
	Set   bool
	Value *string
}

func (n *nullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.Value = nil
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// Null reports an explicit JSON null.
func (n nullableID) Null() bool {
	return n.Set && n.Value == nil
}

func sanitize(s string) string {
	return validation.SanitizeString(s)
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := validation.SanitizeString(*s)
	return &v
}
