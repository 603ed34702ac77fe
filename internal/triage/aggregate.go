// Package triage turns a record snapshot into the dashboard's risk view. The
// functions are pure so the rules stay centralized and testable.
package triage

import "kycvault/internal/domain"

// DefaultRecentSize bounds the dashboard's recent-activity view.
const DefaultRecentSize = 5

// RiskSummary is derived from a snapshot on every read and never persisted.
// Verified is exactly the Low bucket; Fraud is Medium plus High. The binary
// split is a product decision, not a statistical threshold, and must not be
// blended when new levels appear.
type RiskSummary struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`

	Verified int `json:"verified"`
	Fraud    int `json:"fraud"`
}

// Aggregate computes bucket counts from a snapshot. Buckets come verbatim
// from each record's risk level; the numeric score is never consulted.
func Aggregate(records []domain.VerificationRecord) RiskSummary {
	var s RiskSummary
	for _, r := range records {
		switch r.RiskLevel {
		case domain.RiskLow:
			s.Low++
		case domain.RiskMedium:
			s.Medium++
		case domain.RiskHigh:
			s.High++
		}
	}
	s.Verified = s.Low
	s.Fraud = s.Medium + s.High
	return s
}

// Recent returns the last n records, most recent first, without mutating the
// snapshot. Insertion order is the only ordering the record collection
// guarantees.
func Recent(records []domain.VerificationRecord, n int) []domain.VerificationRecord {
	if n <= 0 {
		return nil
	}
	if n > len(records) {
		n = len(records)
	}
	out := make([]domain.VerificationRecord, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		out = append(out, records[i])
	}
	return out
}

// Alerts returns only the records in the fraud split (Medium or High),
// preserving insertion order. Derived from the same bucketing rule as
// Aggregate so the two views cannot drift.
func Alerts(records []domain.VerificationRecord) []domain.VerificationRecord {
	var out []domain.VerificationRecord
	for _, r := range records {
		if r.RiskLevel == domain.RiskMedium || r.RiskLevel == domain.RiskHigh {
			out = append(out, r)
		}
	}
	return out
}
