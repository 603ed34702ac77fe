package handler

import (
	"kycvault/internal/domain"
	"kycvault/internal/workflow/models"
)

// SessionResponse is the workflow view returned by every verification
// endpoint: the current stage plus whatever that stage has produced.
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	State     models.State  `json:"state"`
	Identity  *IdentityView `json:"identity,omitempty"`
	Result    *ResultView   `json:"result,omitempty"`
}

// IdentityView echoes the stored draft back to the caller.
type IdentityView struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
}

// ResultView renders the classification held on a completed workflow.
type ResultView struct {
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

// FromSession builds the wire view of a workflow instance.
func FromSession(sess *models.Session) SessionResponse {
	resp := SessionResponse{
		SessionID: sess.ID,
		State:     sess.State,
	}
	if sess.Draft != (domain.IdentityDraft{}) {
		resp.Identity = &IdentityView{
			Name:        sess.Draft.Name,
			DateOfBirth: sess.Draft.DateOfBirth,
			Gender:      string(sess.Draft.Gender),
		}
	}
	if sess.Record != nil {
		rv := FromRecord(*sess.Record)
		resp.Result = &rv
	}
	return resp
}

// FromRecord renders one verification record.
func FromRecord(rec domain.VerificationRecord) ResultView {
	return ResultView{
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
