package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"refund-evaluator/models"
	"refund-evaluator/utils"
)

// DateLayout decomposes a slash separated date string written in one
// locale's convention.
type DateLayout interface {
	Decompose(date string) (year int, month time.Month, day int, err error)
}

// monthFirst reads dates as month/day/year.
type monthFirst struct{}

func (monthFirst) Decompose(date string) (int, time.Month, int, error) {
	parts, err := splitDate(date)
	if err != nil {
		return 0, 0, 0, err
	}
	return parts[2], time.Month(parts[0]), parts[1], nil
}

// dayFirst reads dates as day/month/year.
type dayFirst struct{}

func (dayFirst) Decompose(date string) (int, time.Month, int, error) {
	parts, err := splitDate(date)
	if err != nil {
		return 0, 0, 0, err
	}
	return parts[2], time.Month(parts[1]), parts[0], nil
}

// DefaultLayouts maps every supported location to its date convention.
func DefaultLayouts() map[models.Location]DateLayout {
	return map[models.Location]DateLayout{
		models.LocationUS:     monthFirst{},
		models.LocationEurope: dayFirst{},
	}
}

// Normalizer turns RawCustomers into locale independent Customers.
type Normalizer struct {
	logger  *utils.Logger
	layouts map[models.Location]DateLayout
}

// NewNormalizer creates a Normalizer using DefaultLayouts.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger, layouts: DefaultLayouts()}
}

// Normalize validates and converts a single raw record. index is the record's
// position in the input and is only used for error reporting.
func (n *Normalizer) Normalize(index int, raw *models.RawCustomer) (models.Customer, error) {
	if raw == nil {
		return models.Customer{}, &models.RecordError{Index: index, Field: models.FieldRecord, Err: models.ErrEmptyRecord}
	}

	fail := func(field, value string, err error) (models.Customer, error) {
		return models.Customer{}, &models.RecordError{Index: index, Name: raw.Name, Field: field, Value: value, Err: err}
	}

	location, err := models.ParseLocation(raw.Location)
	if err != nil {
		return fail(models.FieldLocation, raw.Location, err)
	}
	layout, ok := n.layouts[location]
	if !ok {
		return fail(models.FieldLocation, raw.Location, fmt.Errorf("%w: %q", models.ErrUnsupportedLocation, raw.Location))
	}

	source, err := models.ParseSource(raw.Source)
	if err != nil {
		return fail(models.FieldSource, raw.Source, err)
	}

	signupAt, err := calendarDate(layout, raw.SignupDate)
	if err != nil {
		return fail(models.FieldSignupDate, raw.SignupDate, err)
	}

	investedOn, err := calendarDate(layout, raw.InvestmentDate)
	if err != nil {
		return fail(models.FieldInvestmentDate, raw.InvestmentDate, err)
	}
	investedClock, err := clockOffset(raw.InvestmentTime)
	if err != nil {
		return fail(models.FieldInvestmentTime, raw.InvestmentTime, err)
	}

	refundedOn, err := calendarDate(layout, raw.RefundDate)
	if err != nil {
		return fail(models.FieldRefundDate, raw.RefundDate, err)
	}
	refundedClock, err := clockOffset(raw.RefundTime)
	if err != nil {
		return fail(models.FieldRefundTime, raw.RefundTime, err)
	}

	investedAt := investedOn.Add(investedClock)
	refundedAt := refundedOn.Add(refundedClock)

	customer := models.Customer{
		Name:       strings.TrimSpace(raw.Name),
		Location:   location,
		Source:     source,
		SignupAt:   signupAt,
		InvestedAt: investedAt,
		RefundedAt: refundedAt,
	}

	n.logger.Debug("[normalizer] %s: signup %s, invested %s, refunded %s",
		customer.Name,
		signupAt.Format("2006-01-02"),
		investedAt.Format("2006-01-02 15:04"),
		refundedAt.Format("2006-01-02 15:04"))

	return customer, nil
}

// calendarDate resolves a date string to midnight of that day.
func calendarDate(layout DateLayout, date string) (time.Time, error) {
	year, month, day, err := layout.Decompose(date)
	if err != nil {
		return time.Time{}, err
	}
	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("%w: %q has month %d", models.ErrMalformedDate, date, month)
	}
	if day < 1 || day > daysIn(year, month) {
		return time.Time{}, fmt.Errorf("%w: %q has day %d", models.ErrMalformedDate, date, day)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// clockOffset converts an "HH:MM" string into the time since midnight.
// An empty clock means midnight.
func clockOffset(clock string) (time.Duration, error) {
	if strings.TrimSpace(clock) == "" {
		return 0, nil
	}
	hour, minute, err := splitClock(clock)
	if err != nil {
		return 0, err
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}

func splitDate(date string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(strings.TrimSpace(date), "/")
	if len(parts) != 3 {
		return out, fmt.Errorf("%w: %q does not have three components", models.ErrMalformedDate, date)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return out, fmt.Errorf("%w: %q component %q is not a number", models.ErrMalformedDate, date, p)
		}
		out[i] = v
	}
	return out, nil
}

func splitClock(clock string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: time %q is not HH:MM", models.ErrMalformedDate, clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: time %q has invalid hour", models.ErrMalformedDate, clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: time %q has invalid minute", models.ErrMalformedDate, clock)
	}
	return hour, minute, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
