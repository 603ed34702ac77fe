package scoring

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kycvault/internal/domain"
	"kycvault/internal/platform/config"
	"kycvault/internal/platform/logger"
	dErrors "kycvault/pkg/domain-errors"
)

func newEngine(t *testing.T, baseURL string) *Engine {
	t.Helper()
	e, err := New(config.EngineConfig{BaseURL: baseURL, Timeout: 0}, logger.NewNop())
	if err != nil {
		t.Fatalf("failed to build engine client: %v", err)
	}
	return e
}

func TestClassifyDecodesAadhaarRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		if got := r.FormValue("userName"); got != "Asha Rao" {
			t.Errorf("expected userName form field, got %q", got)
		}
		if got := r.FormValue("userDob"); got != "1995-04-12" {
			t.Errorf("expected userDob form field, got %q", got)
		}
		if got := r.FormValue("userGender"); got != "Female" {
			t.Errorf("expected userGender form field, got %q", got)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected file part: %v", err)
		}
		defer file.Close()
		contents, _ := io.ReadAll(file)
		if string(contents) != "fake-image-bytes" {
			t.Errorf("file part corrupted: %q", contents)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Document Type": "Aadhaar",
			"Name": "Asha Rao",
			"DOB": "12/04/1995",
			"Gender": "Female",
			"Aadhaar Number": "1234 5678 9012",
			"fraudScore": 12,
			"riskLevel": "Low",
			"Reasons": []
		}`))
	}))
	defer srv.Close()

	rec, err := newEngine(t, srv.URL).Classify(context.Background(), Upload{
		FileName: "aadhaar.png",
		File:     strings.NewReader("fake-image-bytes"),
		Identity: domain.IdentityDraft{Name: "Asha Rao", DateOfBirth: "1995-04-12", Gender: domain.GenderFemale},
	})
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	if rec.DocumentType() != domain.DocumentAadhaar {
		t.Fatalf("expected Aadhaar tag, got %q", rec.DocumentType())
	}
	doc, ok := rec.Document.(domain.AadhaarDocument)
	if !ok {
		t.Fatalf("expected Aadhaar variant, got %T", rec.Document)
	}
	if doc.AadhaarNumber != "1234 5678 9012" {
		t.Fatalf("unexpected aadhaar number %q", doc.AadhaarNumber)
	}
	if rec.FraudScore != 12 || rec.RiskLevel != domain.RiskLow {
		t.Fatalf("unexpected score/risk: %d %q", rec.FraudScore, rec.RiskLevel)
	}
	if rec.UserName != "Asha Rao" {
		t.Fatalf("expected user name backfilled from draft, got %q", rec.UserName)
	}
}

func TestClassifyUnknownDocumentTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Document Type": "Unknown", "fraudScore": 70, "riskLevel": "High"}`))
	}))
	defer srv.Close()

	rec, err := newEngine(t, srv.URL).Classify(context.Background(), Upload{
		FileName: "blurry.png",
		File:     strings.NewReader("x"),
		Identity: domain.IdentityDraft{Name: "Asha Rao", DateOfBirth: "1995-04-12", Gender: domain.GenderFemale},
	})
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if _, ok := rec.Document.(domain.UnknownDocument); !ok {
		t.Fatalf("expected Unknown variant, got %T", rec.Document)
	}
	if rec.RiskLevel != domain.RiskHigh {
		t.Fatalf("expected High risk, got %q", rec.RiskLevel)
	}
}

func TestClassifyEngineFailureIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newEngine(t, srv.URL).Classify(context.Background(), Upload{
		FileName: "doc.png",
		File:     strings.NewReader("x"),
		Identity: domain.IdentityDraft{Name: "A", DateOfBirth: "2000-01-01", Gender: domain.GenderMale},
	})
	if !dErrors.HasCode(err, dErrors.CodeUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestRecordsDecodesPANAndDL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/records" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"Document Type": "PAN", "Name": "Ravi K", "Father's Name": "Mohan K", "PAN Number": "ABCDE1234F", "fraudScore": 40, "riskLevel": "Medium"},
			{"Document Type": "Driving License", "DL Number": "KA01 12345678901", "Valid Till": "2030-01-01", "fraudScore": 5, "riskLevel": "Low"}
		]`))
	}))
	defer srv.Close()

	records, err := newEngine(t, srv.URL).Records(context.Background())
	if err != nil {
		t.Fatalf("records failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	pan, ok := records[0].Document.(domain.PANDocument)
	if !ok {
		t.Fatalf("expected PAN variant, got %T", records[0].Document)
	}
	if pan.FathersName != "Mohan K" || pan.PANNumber != "ABCDE1234F" {
		t.Fatalf("PAN fields lost in normalization: %+v", pan)
	}

	dl, ok := records[1].Document.(domain.DrivingLicenseDocument)
	if !ok {
		t.Fatalf("expected DL variant, got %T", records[1].Document)
	}
	if dl.DLNumber != "KA01 12345678901" || dl.ValidTill != "2030-01-01" {
		t.Fatalf("DL fields lost in normalization: %+v", dl)
	}
}

func TestAllRecordsNormalizesRichShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/all-records" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"userName": "asha rao", "documents": [{"type": "Aadhaar"}], "overallFraudScore": 12, "overallRiskLevel": "Low", "finalStatus": "Approved"},
			{"userName": "ravi k", "documents": [], "overallFraudScore": 90, "overallRiskLevel": "High", "finalStatus": "Rejected"}
		]`))
	}))
	defer srv.Close()

	records, err := newEngine(t, srv.URL).AllRecords(context.Background())
	if err != nil {
		t.Fatalf("all-records failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].DocumentType() != domain.DocumentAadhaar {
		t.Fatalf("expected Aadhaar tag, got %q", records[0].DocumentType())
	}
	if records[0].FinalStatus != "Approved" || records[0].RiskLevel != domain.RiskLow {
		t.Fatalf("rich fields lost: %+v", records[0])
	}
	if records[1].DocumentType() != domain.DocumentUnknown {
		t.Fatalf("expected Unknown tag for empty documents, got %q", records[1].DocumentType())
	}
}

func TestExportCSVPassesCategoryThrough(t *testing.T) {
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export_csv" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotType = r.URL.Query().Get("type")
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("userName,riskLevel\n"))
	}))
	defer srv.Close()

	engine := newEngine(t, srv.URL)
	for i := 0; i < 2; i++ {
		stream, err := engine.ExportCSV(context.Background(), domain.ExportAlerts)
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		contents, _ := io.ReadAll(stream)
		stream.Close()
		if gotType != "alerts" {
			t.Fatalf("expected category token passed through unmodified, got %q", gotType)
		}
		if !strings.HasPrefix(string(contents), "userName") {
			t.Fatalf("expected opaque CSV stream, got %q", contents)
		}
	}
}

func TestExportCSVUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newEngine(t, srv.URL).ExportCSV(context.Background(), domain.ExportAll)
	if !dErrors.HasCode(err, dErrors.CodeUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
