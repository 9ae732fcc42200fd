package extract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mehanshivam/visitingcard/internal/arbiter"
	"github.com/mehanshivam/visitingcard/internal/fields"
	"github.com/mehanshivam/visitingcard/internal/recognize"
)

// ExtractionFailed is the terminal pipeline error. It still carries a record
// so callers get the extraction ID and diagnostics of the failed attempt.
type ExtractionFailed struct {
	Record *ContactRecord
	Err    error
}

func (e *ExtractionFailed) Error() string {
	return fmt.Sprintf("extraction %s failed: %v", e.Record.Diagnostics.ExtractionID, e.Err)
}

func (e *ExtractionFailed) Unwrap() error {
	return e.Err
}

// ExtractRequest is one card image plus its pre-screening verdict.
type ExtractRequest struct {
	Image recognize.CardImage

	// QualityAcceptable, when set to false, records the listed issues in the
	// diagnostics but never blocks the extraction attempt.
	QualityAcceptable *bool
	QualityIssues     []string
}

// ServiceConfig carries the service-level knobs.
type ServiceConfig struct {
	// MaxImageSize bounds the accepted input in bytes; zero means no bound.
	MaxImageSize int64

	// Floors override the arbitration minimums when non-zero.
	Floors arbiter.Floors
}

// Service is the extraction pipeline entry point.
type Service struct {
	config       ServiceConfig
	orchestrator *Orchestrator
	floors       arbiter.Floors
	logger       *log.Logger

	email   *fields.EmailExtractor
	phone   *fields.PhoneExtractor
	address *fields.AddressExtractor
	company *fields.CompanyExtractor
	name    *fields.NameExtractor
	title   *fields.TitleExtractor
}

// NewService creates the pipeline service.
func NewService(config ServiceConfig, orchestrator *Orchestrator, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	floors := config.Floors
	if floors == (arbiter.Floors{}) {
		floors = arbiter.DefaultFloors()
	}
	return &Service{
		config:       config,
		orchestrator: orchestrator,
		floors:       floors,
		logger:       logger,
		email:        fields.NewEmailExtractor(),
		phone:        fields.NewPhoneExtractor(),
		address:      fields.NewAddressExtractor(),
		company:      fields.NewCompanyExtractor(),
		name:         fields.NewNameExtractor(),
		title:        fields.NewTitleExtractor(),
	}
}

// Orchestrator exposes the underlying strategy orchestrator for the health
// and usage queries.
func (s *Service) Orchestrator() *Orchestrator {
	return s.orchestrator
}

// ExtractContact runs the whole pipeline for one card image. On recognition
// failure it returns an *ExtractionFailed wrapping an empty-field record so
// the caller still sees the diagnostics.
func (s *Service) ExtractContact(ctx context.Context, req ExtractRequest) (*ContactRecord, error) {
	extractionID := uuid.NewString()
	record := &ContactRecord{
		Diagnostics: Diagnostics{
			ExtractionID:  extractionID,
			QualityIssues: req.qualityIssues(),
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := req.Image.Validate(s.config.MaxImageSize); err != nil {
		return nil, &ExtractionFailed{Record: record, Err: err}
	}

	result, outcome, err := s.orchestrator.Recognize(ctx, req.Image, extractionID)
	record.Diagnostics.StrategyNote = outcome.Strategy.Reason
	record.Diagnostics.ElapsedMS = outcome.Elapsed.Milliseconds()
	record.Diagnostics.FallbackUsed = outcome.FallbackUsed
	if err != nil {
		return nil, &ExtractionFailed{Record: record, Err: err}
	}
	record.Diagnostics.Backend = outcome.Backend

	s.populate(record, result)
	record.Overall = overallConfidence(record)

	s.logger.Printf("extraction %s: backend=%s fallback=%v overall=%d",
		extractionID, outcome.Backend, outcome.FallbackUsed, record.Overall)
	return record, nil
}

// populate runs the extractors in dependency order over the recognized text
// and arbitrates the identity fields. Email and phone go first because the
// later extractors consult their results; name needs the company text and
// title needs both.
func (s *Service) populate(record *ContactRecord, result *recognize.RecognitionResult) {
	doc := fields.NewDocument(result)

	if email := s.email.Extract(doc); email != nil {
		record.Email = candidateValue(email.Candidate)
		record.Website = FieldValue{
			Text:       email.Website(),
			Confidence: email.Candidate.Confidence,
		}
	}

	if phone := s.phone.Extract(doc); phone != nil {
		record.Phone = candidateValue(phone.Candidate)
	}

	if addr := s.address.Extract(doc); addr != nil {
		record.Address = AddressValue{
			Street:     addr.Street,
			City:       addr.City,
			State:      addr.State,
			Zip:        addr.Zip,
			Full:       addr.Full,
			Confidence: addr.Score,
		}
	}

	company := s.company.Extract(doc)
	name := s.name.Extract(doc, candidateText(company))
	title := s.title.Extract(doc, candidateText(name), candidateText(company))

	arbitrated := arbiter.Resolve(arbiter.Input{
		Name:    name,
		Title:   title,
		Company: company,
	}, s.floors)

	record.Name = candidateValue(arbitrated.Name)
	record.Title = candidateValue(arbitrated.Title)
	record.Company = candidateValue(arbitrated.Company)

	if len(arbitrated.RulesFired) > 0 {
		s.logger.Printf("extraction %s: arbitration fired %v",
			record.Diagnostics.ExtractionID, arbitrated.RulesFired)
	}
}

// qualityIssues returns the recorded issues only when the screening verdict
// was negative.
func (r ExtractRequest) qualityIssues() []string {
	if r.QualityAcceptable != nil && !*r.QualityAcceptable {
		issues := make([]string, len(r.QualityIssues))
		copy(issues, r.QualityIssues)
		return issues
	}
	return nil
}

func candidateValue(c *fields.Candidate) FieldValue {
	if c == nil {
		return FieldValue{}
	}
	return FieldValue{Text: c.Text, Confidence: c.Confidence}
}

func candidateText(c *fields.Candidate) string {
	if c == nil {
		return ""
	}
	return c.Text
}

// IsExtractionFailed unwraps the pipeline's terminal error, if present.
func IsExtractionFailed(err error) (*ExtractionFailed, bool) {
	var ef *ExtractionFailed
	if errors.As(err, &ef) {
		return ef, true
	}
	return nil, false
}
