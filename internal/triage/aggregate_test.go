package triage

import (
	"fmt"
	"math/rand"
	"testing"

	"kycvault/internal/domain"
)

func recordsWithLevels(levels ...domain.RiskLevel) []domain.VerificationRecord {
	out := make([]domain.VerificationRecord, 0, len(levels))
	for i, l := range levels {
		out = append(out, domain.VerificationRecord{
			UserName:  fmt.Sprintf("user-%d", i),
			Document:  domain.AadhaarDocument{Name: fmt.Sprintf("user-%d", i)},
			RiskLevel: l,
		})
	}
	return out
}

func TestAggregateBucketCounts(t *testing.T) {
	records := recordsWithLevels(domain.RiskLow, domain.RiskMedium, domain.RiskHigh, domain.RiskLow)

	got := Aggregate(records)

	want := RiskSummary{Low: 2, Medium: 1, High: 1, Verified: 2, Fraud: 2}
	if got != want {
		t.Fatalf("Aggregate = %+v, want %+v", got, want)
	}
}

func TestAggregateEmptySnapshot(t *testing.T) {
	if got := Aggregate(nil); got != (RiskSummary{}) {
		t.Fatalf("expected all-zero summary for empty snapshot, got %+v", got)
	}
}

// Every record lands in exactly one of the two splits: verified + fraud
// always equals the snapshot size, regardless of level distribution.
func TestAggregatePartitionInvariant(t *testing.T) {
	levels := []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh}
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 100; trial++ {
		n := rng.Intn(50)
		var picked []domain.RiskLevel
		for i := 0; i < n; i++ {
			picked = append(picked, levels[rng.Intn(len(levels))])
		}
		records := recordsWithLevels(picked...)

		s := Aggregate(records)
		if s.Verified+s.Fraud != len(records) {
			t.Fatalf("verified(%d) + fraud(%d) != %d records", s.Verified, s.Fraud, len(records))
		}
		if s.Verified != s.Low {
			t.Fatalf("verified(%d) must equal low(%d)", s.Verified, s.Low)
		}
		if s.Fraud != s.Medium+s.High {
			t.Fatalf("fraud(%d) must equal medium(%d)+high(%d)", s.Fraud, s.Medium, s.High)
		}
	}
}

func TestRecentReverseInsertionOrder(t *testing.T) {
	records := recordsWithLevels(
		domain.RiskLow, domain.RiskLow, domain.RiskMedium,
		domain.RiskHigh, domain.RiskLow, domain.RiskMedium,
		domain.RiskLow,
	)

	recent := Recent(records, DefaultRecentSize)

	if len(recent) != DefaultRecentSize {
		t.Fatalf("expected %d records, got %d", DefaultRecentSize, len(recent))
	}
	if recent[0].UserName != "user-6" {
		t.Fatalf("expected last-inserted record first, got %q", recent[0].UserName)
	}
	for i := range recent {
		want := fmt.Sprintf("user-%d", len(records)-1-i)
		if recent[i].UserName != want {
			t.Fatalf("recent[%d] = %q, want %q", i, recent[i].UserName, want)
		}
	}
}

func TestRecentSmallerSnapshot(t *testing.T) {
	records := recordsWithLevels(domain.RiskLow, domain.RiskHigh)

	recent := Recent(records, DefaultRecentSize)

	if len(recent) != 2 {
		t.Fatalf("expected all records when fewer than n, got %d", len(recent))
	}
	if recent[0].UserName != "user-1" || recent[1].UserName != "user-0" {
		t.Fatalf("expected reverse order, got %q then %q", recent[0].UserName, recent[1].UserName)
	}
}

func TestRecentDoesNotMutateSnapshot(t *testing.T) {
	records := recordsWithLevels(domain.RiskLow, domain.RiskMedium, domain.RiskHigh)

	_ = Recent(records, 2)

	for i, want := range []string{"user-0", "user-1", "user-2"} {
		if records[i].UserName != want {
			t.Fatalf("snapshot mutated at %d: %q", i, records[i].UserName)
		}
	}
}

func TestRecentZeroOrNegative(t *testing.T) {
	records := recordsWithLevels(domain.RiskLow)
	if got := Recent(records, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
	if got := Recent(records, -1); got != nil {
		t.Fatalf("expected nil for negative n, got %v", got)
	}
}

func TestAlertsKeepsOnlyFraudSplit(t *testing.T) {
	records := recordsWithLevels(domain.RiskLow, domain.RiskMedium, domain.RiskHigh, domain.RiskLow)

	alerts := Alerts(records)

	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].RiskLevel != domain.RiskMedium || alerts[1].RiskLevel != domain.RiskHigh {
		t.Fatalf("alerts should preserve insertion order, got %+v", alerts)
	}

	s := Aggregate(records)
	if len(alerts) != s.Fraud {
		t.Fatalf("alerts(%d) must match fraud split(%d)", len(alerts), s.Fraud)
	}
}
