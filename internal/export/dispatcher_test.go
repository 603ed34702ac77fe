package export

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"kycvault/internal/domain"
	"kycvault/internal/platform/logger"
	dErrors "kycvault/pkg/domain-errors"
)

type fakeExporter struct {
	categories []domain.ExportCategory
	err        error
}

func (f *fakeExporter) ExportCSV(_ context.Context, category domain.ExportCategory) (io.ReadCloser, error) {
	f.categories = append(f.categories, category)
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader("name,risk\nAsha Rao,Low\n")), nil
}

func TestDispatchPassesCategoryThrough(t *testing.T) {
	engine := &fakeExporter{}
	d := New(engine, logger.NewNop())
	ctx := context.Background()

	for _, raw := range []string{"all", "approved", "rejected", "alerts"} {
		stream, category, err := d.Dispatch(ctx, raw)
		if err != nil {
			t.Fatalf("Dispatch(%q): %v", raw, err)
		}
		if string(category) != raw {
			t.Fatalf("category token must pass through unmodified, got %q want %q", category, raw)
		}
		stream.Close()
	}
	if len(engine.categories) != 4 {
		t.Fatalf("expected 4 engine calls, got %d", len(engine.categories))
	}
}

func TestDispatchRejectsUnknownCategory(t *testing.T) {
	engine := &fakeExporter{}
	d := New(engine, logger.NewNop())

	_, _, err := d.Dispatch(context.Background(), "everything")
	if !dErrors.HasCode(err, dErrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(engine.categories) != 0 {
		t.Fatal("invalid category must never reach the engine")
	}
}

func TestDispatchIsRepeatable(t *testing.T) {
	engine := &fakeExporter{}
	d := New(engine, logger.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		stream, _, err := d.Dispatch(ctx, "approved")
		if err != nil {
			t.Fatalf("Dispatch #%d: %v", i+1, err)
		}
		body, _ := io.ReadAll(stream)
		stream.Close()
		if !strings.Contains(string(body), "Asha Rao") {
			t.Fatalf("unexpected stream contents: %q", body)
		}
	}
}

func TestDispatchSurfacesEngineFailure(t *testing.T) {
	engine := &fakeExporter{err: dErrors.New(dErrors.CodeUpstream, "scoring engine unreachable")}
	d := New(engine, logger.NewNop())

	_, _, err := d.Dispatch(context.Background(), "all")
	if !dErrors.HasCode(err, dErrors.CodeUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestFileNameEncodesCategoryAndDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	got := FileName(domain.ExportAlerts, now)
	want := "kyc_alerts_records_2026-09-01.csv"
	if got != want {
		t.Fatalf("FileName = %q, want %q", got, want)
	}
}
