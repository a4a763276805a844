package services

import (
	"errors"

	"github.com/sirupsen/logrus"

	"refund-evaluator/models"
	"refund-evaluator/utils"
)

// Processor runs a batch of raw records through normalization and evaluation.
type Processor struct {
	logger     *utils.Logger
	normalizer *Normalizer
	evaluator  *Evaluator
}

// NewProcessor creates a Processor from its two stages.
func NewProcessor(logger *utils.Logger, normalizer *Normalizer, evaluator *Evaluator) *Processor {
	return &Processor{logger: logger, normalizer: normalizer, evaluator: evaluator}
}

// Process evaluates every record in order. Records that fail are reported in
// Failures and left out of Evaluations; the rest of the batch still runs.
func (p *Processor) Process(raw []*models.RawCustomer) *models.BatchResult {
	result := &models.BatchResult{
		Evaluations: make([]*models.Evaluation, 0, len(raw)),
	}

	for i, r := range raw {
		if r == nil {
			continue
		}

		eval, err := p.processOne(i, r)
		if err != nil {
			recErr := asRecordError(i, r, err)
			p.logger.WithFields(logrus.Fields{
				"index": recErr.Index,
				"name":  recErr.Name,
				"field": recErr.Field,
			}).Warn("[processor] Skipping record: %v", recErr.Err)
			result.Failures = append(result.Failures, recErr)
			continue
		}
		result.Evaluations = append(result.Evaluations, eval)
	}

	p.logger.Info("[processor] Processed %d → %d evaluations (failed %d)",
		len(raw), len(result.Evaluations), len(result.Failures))
	return result
}

func (p *Processor) processOne(index int, raw *models.RawCustomer) (*models.Evaluation, error) {
	customer, err := p.normalizer.Normalize(index, raw)
	if err != nil {
		return nil, err
	}

	eval, err := p.evaluator.Evaluate(customer)
	if err != nil {
		return nil, &models.RecordError{Index: index, Name: raw.Name, Field: models.FieldSource, Value: string(customer.Source), Err: err}
	}
	return &eval, nil
}

func asRecordError(index int, raw *models.RawCustomer, err error) *models.RecordError {
	var recErr *models.RecordError
	if errors.As(err, &recErr) {
		return recErr
	}
	return &models.RecordError{Index: index, Name: raw.Name, Err: err}
}
