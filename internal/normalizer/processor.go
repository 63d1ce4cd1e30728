// Package normalizer converts heterogeneous upstream products into uniform catalog records.
package normalizer

import (
	"storefront/internal/logger"
	"storefront/internal/models"
)

// Processor handles batch validation and transformation.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	logger      *logger.Logger
}

// Report counts what happened to a batch.
type Report struct {
	Total     int `json:"total"`
	Kept      int `json:"kept"`
	Defaulted int `json:"defaulted"`
	Dropped   int `json:"dropped"`
}

// Batch is the result of processing one upstream fetch.
type Batch struct {
	Records []models.ProductRecord
	Report  Report
}

// NewProcessor creates a new processor instance with default settings.
func NewProcessor() *Processor {
	return NewProcessorWithThreshold(DefaultInternationalThreshold, nil)
}

// NewProcessorWithThreshold creates a processor with a custom international price threshold.
// A nil logger discards diagnostics.
func NewProcessorWithThreshold(threshold float64, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.NewNop()
	}

	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformerWithThreshold(threshold),
		logger:      log,
	}
}

// Normalize converts a single record. It never fails.
func (p *Processor) Normalize(raw models.RawProduct) models.ProductRecord {
	return p.transformer.Transform(raw)
}

// Process normalizes a batch, preserving order. Records without any identifier are
// dropped; every other record is kept, with defaults where fields were unusable.
func (p *Processor) Process(raws []models.RawProduct) *Batch {
	batch := &Batch{
		Records: make([]models.ProductRecord, 0, len(raws)),
		Report:  Report{Total: len(raws)},
	}

	for i := range raws {
		err := p.validator.Validate(&raws[i])

		if !Recoverable(err) {
			batch.Report.Dropped++
			p.logger.Warn("dropping upstream record", "index", i, "error", err)

			continue
		}

		if err != nil {
			batch.Report.Defaulted++
			p.logger.Debug("normalizing incomplete record", "index", i, "error", err)
		}

		batch.Records = append(batch.Records, p.transformer.Transform(raws[i]))
	}

	batch.Report.Kept = len(batch.Records)

	return batch
}

var defaultProcessor = NewProcessor()

// Normalize converts one raw product using the default settings.
func Normalize(raw models.RawProduct) models.ProductRecord {
	return defaultProcessor.Normalize(raw)
}

// NormalizeAll converts a batch using the default settings; see Processor.Process.
func NormalizeAll(raws []models.RawProduct) []models.ProductRecord {
	return defaultProcessor.Process(raws).Records
}
