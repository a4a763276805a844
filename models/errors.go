package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSource       = errors.New("invalid source")
	ErrUnsupportedLocation = errors.New("unsupported location")
	ErrMalformedDate       = errors.New("malformed date")
	ErrEmptyRecord         = errors.New("empty record")
)

// Field names reported in RecordError.Field.
const (
	FieldLocation       = "location"
	FieldSource         = "source"
	FieldSignupDate     = "signup_date"
	FieldInvestmentDate = "investment_date"
	FieldInvestmentTime = "investment_time"
	FieldRefundDate     = "refund_date"
	FieldRefundTime     = "refund_time"
	FieldRecord         = "record"
)

// RecordError reports why a single input record could not be evaluated.
type RecordError struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Field string `json:"field"`
	// Value is the raw input that failed, if any.
	Value string `json:"value,omitempty"`
	Err   error  `json:"-"`
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (%s): %s: %v", e.Index, e.Name, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
