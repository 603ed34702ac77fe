package handler

import (
	"kycvault/internal/audit"
	"kycvault/internal/domain"
	"kycvault/internal/triage"
)

// SummaryResponse is the dashboard's headline view: bucket counts over the
// per-user records plus the most recent activity.
type SummaryResponse struct {
	Summary triage.RiskSummary `json:"summary"`
	Total   int                `json:"total"`
	Recent  []RecordView       `json:"recent"`
}

// RecordsResponse carries both record views the engine maintains.
type RecordsResponse struct {
	Users     []RecordView `json:"users"`
	Documents []RecordView `json:"documents"`
}

// AlertsResponse lists the records in the fraud split.
type AlertsResponse struct {
	Alerts []RecordView `json:"alerts"`
	Count  int          `json:"count"`
}

// AuditResponse lists the most recent audit events, newest first.
type AuditResponse struct {
	Events []audit.Event `json:"events"`
	Count  int           `json:"count"`
}

// RecordView renders one verification record for the dashboard.
type RecordView struct {
	UserName     string       `json:"user_name"`
	DocumentType string       `json:"document_type"`
	Document     DocumentView `json:"document"`
	FraudScore   int          `json:"fraud_score"`
	RiskLevel    string       `json:"risk_level"`
	Reasons      []string     `json:"reasons,omitempty"`
	FinalStatus  string       `json:"final_status,omitempty"`
}

// DocumentView flattens the extracted document variant. Only the fields of
// the record's variant are populated.
type DocumentView struct {
	Name          string `json:"name,omitempty"`
	DOB           string `json:"dob,omitempty"`
	Gender        string `json:"gender,omitempty"`
	AadhaarNumber string `json:"aadhaar_number,omitempty"`
	FathersName   string `json:"fathers_name,omitempty"`
	PANNumber     string `json:"pan_number,omitempty"`
	DLNumber      string `json:"dl_number,omitempty"`
	ValidTill     string `json:"valid_till,omitempty"`
}

func recordViews(records []domain.VerificationRecord) []RecordView {
	out := make([]RecordView, 0, len(records))
	for _, r := range records {
		out = append(out, recordView(r))
	}
	return out
}

func recordView(rec domain.VerificationRecord) RecordView {
	return RecordView{
		UserName:     rec.UserName,
		DocumentType: string(rec.DocumentType()),
		Document:     documentView(rec.Document),
		FraudScore:   rec.FraudScore,
		RiskLevel:    string(rec.RiskLevel),
		Reasons:      rec.Reasons,
		FinalStatus:  rec.FinalStatus,
	}
}

func documentView(doc domain.ExtractedDocument) DocumentView {
	switch d := doc.(type) {
	case domain.AadhaarDocument:
		return DocumentView{
			Name:          d.Name,
			DOB:           d.DOB,
			Gender:        d.Gender,
			AadhaarNumber: d.AadhaarNumber,
		}
	case domain.PANDocument:
		return DocumentView{
			Name:        d.Name,
			FathersName: d.FathersName,
			PANNumber:   d.PANNumber,
		}
	case domain.DrivingLicenseDocument:
		return DocumentView{
			Name:      d.Name,
			DOB:       d.DOB,
			DLNumber:  d.DLNumber,
			ValidTill: d.ValidTill,
		}
	default:
		return DocumentView{}
	}
}
