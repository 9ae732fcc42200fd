package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/mehanshivam/visitingcard/internal/recognize"
)

func newTestService(factory *fakeFactory) *Service {
	o := newTestOrchestrator(OrchestratorConfig{}, factory, true)
	return NewService(ServiceConfig{MaxImageSize: 1 << 20}, o, quietLogger())
}

func localOnlyFactory(text string) *fakeFactory {
	return &fakeFactory{creds: false, backends: map[recognize.BackendKind]*fakeBackend{
		recognize.BackendLocal: {kind: recognize.BackendLocal, result: textResult(recognize.BackendLocal, text)},
	}}
}

func TestExtractContactFullCard(t *testing.T) {
	factory := localOnlyFactory("CEO John Smith\nAcme Corp\n(555) 123-4567\njohn@acme.com")
	svc := newTestService(factory)

	record, err := svc.ExtractContact(context.Background(), ExtractRequest{Image: jpegImage()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Name.Text != "John Smith" {
		t.Errorf("expected name 'John Smith', got '%s'", record.Name.Text)
	}
	if record.Name.Confidence != 73 {
		t.Errorf("expected name confidence 73, got %d", record.Name.Confidence)
	}
	if record.Title.Text != "CEO" {
		t.Errorf("expected title 'CEO', got '%s'", record.Title.Text)
	}
	if record.Title.Confidence != 70 {
		t.Errorf("expected title confidence 70, got %d", record.Title.Confidence)
	}
	if record.Company.Text != "Acme Corp" {
		t.Errorf("expected company 'Acme Corp', got '%s'", record.Company.Text)
	}
	if record.Phone.Text != "(555) 123-4567" {
		t.Errorf("expected phone '(555) 123-4567', got '%s'", record.Phone.Text)
	}
	if record.Email.Text != "john@acme.com" {
		t.Errorf("expected email 'john@acme.com', got '%s'", record.Email.Text)
	}
	if record.Website.Text != "www.acme.com" {
		t.Errorf("expected derived website 'www.acme.com', got '%s'", record.Website.Text)
	}
	if record.Overall == 0 {
		t.Error("expected a populated overall confidence")
	}
	if record.Diagnostics.ExtractionID == "" {
		t.Error("expected a generated extraction ID")
	}
	if record.Diagnostics.Backend != recognize.BackendLocal {
		t.Errorf("expected local backend in diagnostics, got %s", record.Diagnostics.Backend)
	}
}

func TestExtractContactHonorificCard(t *testing.T) {
	factory := localOnlyFactory("Dr. Jane Lee\nChief Medical Officer\nHealth Solutions Inc\n(555) 987-6543")
	svc := newTestService(factory)

	record, err := svc.ExtractContact(context.Background(), ExtractRequest{Image: jpegImage()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Name.Text != "Jane Lee" {
		t.Errorf("expected name 'Jane Lee', got '%s'", record.Name.Text)
	}
	if record.Name.Confidence != 75 {
		t.Errorf("expected name confidence 75, got %d", record.Name.Confidence)
	}
	if record.Title.Text != "Chief Medical Officer" {
		t.Errorf("expected title 'Chief Medical Officer', got '%s'", record.Title.Text)
	}
	if record.Title.Confidence != 85 {
		t.Errorf("expected title confidence 85, got %d", record.Title.Confidence)
	}
	if record.Company.Text != "Health Solutions Inc" {
		t.Errorf("expected company 'Health Solutions Inc', got '%s'", record.Company.Text)
	}
	if record.Phone.Text != "(555) 987-6543" {
		t.Errorf("expected phone '(555) 987-6543', got '%s'", record.Phone.Text)
	}
}

func TestExtractContactArbitrationClearsWeakFields(t *testing.T) {
	// The only name-shaped line carries title vocabulary; arbitration must
	// leave the name empty rather than wrong.
	factory := localOnlyFactory("Director of Operations\ninfo@summit.com")
	svc := newTestService(factory)

	record, err := svc.ExtractContact(context.Background(), ExtractRequest{Image: jpegImage()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Name.IsSet() {
		t.Errorf("expected empty name, got '%s'", record.Name.Text)
	}
	if record.Email.Text != "info@summit.com" {
		t.Errorf("expected email to survive, got '%s'", record.Email.Text)
	}
}

func TestExtractContactAddress(t *testing.T) {
	factory := localOnlyFactory("Acme Corp\n123 Oak Street\nSpringfield, IL 62704")
	svc := newTestService(factory)

	record, err := svc.ExtractContact(context.Background(), ExtractRequest{Image: jpegImage()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Address.Full != "123 Oak Street, Springfield, IL 62704" {
		t.Errorf("unexpected address '%s'", record.Address.Full)
	}
	if record.Address.Zip != "62704" {
		t.Errorf("expected zip '62704', got '%s'", record.Address.Zip)
	}
}

func TestExtractContactValidationFailure(t *testing.T) {
	svc := newTestService(localOnlyFactory("anything"))

	_, err := svc.ExtractContact(context.Background(), ExtractRequest{
		Image: recognize.CardImage{Path: "empty.jpg", Format: "jpeg"},
	})

	failed, ok := IsExtractionFailed(err)
	if !ok {
		t.Fatalf("expected *ExtractionFailed, got %v", err)
	}
	if failed.Record == nil || failed.Record.Diagnostics.ExtractionID == "" {
		t.Error("expected a diagnostic record with an extraction ID")
	}
	if failed.Record.Name.IsSet() {
		t.Error("expected an empty-field record")
	}
}

func TestExtractContactBackendFailure(t *testing.T) {
	backendErr := recognize.NewBackendError(recognize.BackendLocal, recognize.ErrTimeout, "recognize", errors.New("deadline"))
	factory := &fakeFactory{creds: false, backends: map[recognize.BackendKind]*fakeBackend{
		recognize.BackendLocal: {kind: recognize.BackendLocal, err: backendErr},
	}}
	svc := newTestService(factory)

	_, err := svc.ExtractContact(context.Background(), ExtractRequest{Image: jpegImage()})

	failed, ok := IsExtractionFailed(err)
	if !ok {
		t.Fatalf("expected *ExtractionFailed, got %v", err)
	}
	if !errors.Is(failed, backendErr) {
		t.Errorf("expected the backend error in the chain, got %v", failed.Err)
	}
	if failed.Record.Diagnostics.StrategyNote == "" {
		t.Error("expected the strategy note to be recorded on failure")
	}
}

func TestExtractContactQualityIssuesRecorded(t *testing.T) {
	svc := newTestService(localOnlyFactory("John Smith"))

	notOK := false
	record, err := svc.ExtractContact(context.Background(), ExtractRequest{
		Image:             jpegImage(),
		QualityAcceptable: &notOK,
		QualityIssues:     []string{"glare", "blur"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(record.Diagnostics.QualityIssues) != 2 {
		t.Errorf("expected 2 recorded quality issues, got %v", record.Diagnostics.QualityIssues)
	}
}

func TestExtractContactAcceptableQualityRecordsNoIssues(t *testing.T) {
	svc := newTestService(localOnlyFactory("John Smith"))

	ok := true
	record, err := svc.ExtractContact(context.Background(), ExtractRequest{
		Image:             jpegImage(),
		QualityAcceptable: &ok,
		QualityIssues:     []string{"ignored"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(record.Diagnostics.QualityIssues) != 0 {
		t.Errorf("expected no recorded issues, got %v", record.Diagnostics.QualityIssues)
	}
}
