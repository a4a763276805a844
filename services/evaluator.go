package services

import (
	"fmt"
	"time"

	"refund-evaluator/models"
)

// DefaultTOSCutoff separates the old and new terms of service. Customers who
// signed up strictly before it get the shorter refund window.
var DefaultTOSCutoff = time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)

// refundWindows holds the window in hours per source, indexed by
// [signed up before cutoff, signed up on or after cutoff].
var refundWindows = map[models.Source][2]int{
	models.SourcePhone:  {4, 8},
	models.SourceWebApp: {8, 16},
}

// Evaluator applies the refund policy to normalized customers.
type Evaluator struct {
	cutoff time.Time
}

// NewEvaluator creates an Evaluator using the given terms-of-service cutoff.
func NewEvaluator(cutoff time.Time) *Evaluator {
	return &Evaluator{cutoff: cutoff}
}

// Cutoff returns the terms-of-service cutoff the evaluator was built with.
func (e *Evaluator) Cutoff() time.Time {
	return e.cutoff
}

// RefundWindow returns the allowed hours between investment and refund.
func (e *Evaluator) RefundWindow(source models.Source, signupAt time.Time) (int, error) {
	tiers, ok := refundWindows[source]
	if !ok {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidSource, source)
	}
	if signupAt.Before(e.cutoff) {
		return tiers[0], nil
	}
	return tiers[1], nil
}

// Evaluate computes the elapsed time and verdict for a customer.
func (e *Evaluator) Evaluate(c models.Customer) (models.Evaluation, error) {
	window, err := e.RefundWindow(c.Source, c.SignupAt)
	if err != nil {
		return models.Evaluation{}, err
	}

	elapsed := c.RefundedAt.Sub(c.InvestedAt).Hours()

	return models.Evaluation{
		Customer:          c,
		ElapsedHours:      elapsed,
		RefundWindowHours: window,
		IsEligible:        elapsed <= float64(window),
	}, nil
}
