// Package extract contains the top-level pipeline: the recognition strategy
// orchestrator with its usage accounting, and the service that turns one card
// image into a ContactRecord.
package extract

import (
	"time"

	"github.com/mehanshivam/visitingcard/internal/recognize"
)

// FieldValue pairs an extracted text with its confidence. Zero value means
// the field is absent.
type FieldValue struct {
	Text       string `json:"text,omitempty"`
	Confidence int    `json:"confidence,omitempty"`
}

// IsSet reports whether the field carries a value.
func (f FieldValue) IsSet() bool {
	return f.Text != ""
}

// AddressValue is the structured postal address of the record.
type AddressValue struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Zip        string `json:"zip,omitempty"`
	Full       string `json:"full,omitempty"`
	Confidence int    `json:"confidence,omitempty"`
}

// Diagnostics describe how the record was produced.
type Diagnostics struct {
	ExtractionID  string                `json:"extraction_id"`
	Backend       recognize.BackendKind `json:"backend"`
	ElapsedMS     int64                 `json:"elapsed_ms"`
	FallbackUsed  bool                  `json:"fallback_used"`
	StrategyNote  string                `json:"strategy_note"`
	QualityIssues []string              `json:"quality_issues,omitempty"`
}

// ContactRecord is the pipeline's terminal output. It is created fresh per
// image and never mutated after arbitration finishes.
type ContactRecord struct {
	Name    FieldValue   `json:"name,omitempty"`
	Title   FieldValue   `json:"title,omitempty"`
	Company FieldValue   `json:"company,omitempty"`
	Phone   FieldValue   `json:"phone,omitempty"`
	Email   FieldValue   `json:"email,omitempty"`
	Website FieldValue   `json:"website,omitempty"`
	Address AddressValue `json:"address,omitempty"`

	Overall     int         `json:"overall_confidence"`
	Diagnostics Diagnostics `json:"diagnostics"`

	CreatedAt time.Time `json:"created_at"`
}

// overallConfidence averages the confidences of the populated fields.
func overallConfidence(r *ContactRecord) int {
	sum, n := 0, 0
	for _, f := range []FieldValue{r.Name, r.Title, r.Company, r.Phone, r.Email, r.Website} {
		if f.IsSet() {
			sum += f.Confidence
			n++
		}
	}
	if r.Address.Full != "" {
		sum += r.Address.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
