package models

import (
	"fmt"
	"strings"
	"time"
)

// Location selects the date convention a customer's dates are written in.
type Location string

const (
	LocationUS     Location = "US"
	LocationEurope Location = "Europe"
)

// ParseLocation validates a raw location string into a Location.
func ParseLocation(raw string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "us":
		return LocationUS, nil
	case "europe":
		return LocationEurope, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLocation, raw)
}

// Source is the acquisition channel a customer signed up through.
type Source string

const (
	SourcePhone  Source = "phone"
	SourceWebApp Source = "web-app"
)

// ParseSource validates a raw source string into a Source.
func ParseSource(raw string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "phone":
		return SourcePhone, nil
	case "web-app":
		return SourceWebApp, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSource, raw)
}

// RawCustomer is a customer record exactly as it arrives from the input file.
// Dates are slash separated and ordered according to Location.
type RawCustomer struct {
	Name           string `csv:"name" yaml:"name" json:"name"`
	Location       string `csv:"location" yaml:"location" json:"location"`
	SignupDate     string `csv:"signup_date" yaml:"signup_date" json:"signup_date"`
	Source         string `csv:"source" yaml:"source" json:"source"`
	InvestmentDate string `csv:"investment_date" yaml:"investment_date" json:"investment_date"`
	InvestmentTime string `csv:"investment_time" yaml:"investment_time" json:"investment_time"`
	RefundDate     string `csv:"refund_date" yaml:"refund_date" json:"refund_date"`
	RefundTime     string `csv:"refund_time" yaml:"refund_time" json:"refund_time"`
}

// Customer is the normalized, locale independent form of a RawCustomer.
// Timestamps are literal wall-clock values stored in UTC; no zone conversion
// is ever applied to them.
type Customer struct {
	Name       string
	Location   Location
	Source     Source
	SignupAt   time.Time
	InvestedAt time.Time
	RefundedAt time.Time
}

// Evaluation is the verdict for a single customer.
type Evaluation struct {
	Customer

	ElapsedHours      float64
	RefundWindowHours int
	IsEligible        bool
}

// Verdict returns the display label for the evaluation.
func (e Evaluation) Verdict() string {
	if e.IsEligible {
		return "Valid"
	}
	return "Invalid"
}

// BatchResult holds the outcome of one batch run. Both slices keep input order.
type BatchResult struct {
	Evaluations []*Evaluation
	Failures    []*RecordError
}

// Summary holds aggregate figures over a batch result.
type Summary struct {
	TotalRecords   int
	Valid          int
	Invalid        int
	Failed         int
	BySource       map[Source]int
	ByLocation     map[Location]int
	LongestElapsed *Evaluation
}
