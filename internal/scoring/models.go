package scoring

import (
	"encoding/json"

	"kycvault/internal/domain"
	platformstrings "kycvault/pkg/platform/strings"
)

// wireRecord is the engine's per-document shape, returned by POST /upload and
// GET /records. Keys follow the engine's contract verbatim, including the
// spaced legacy names.
type wireRecord struct {
	DocumentType  string   `json:"Document Type"`
	Name          string   `json:"Name"`
	DOB           string   `json:"DOB"`
	Gender        string   `json:"Gender"`
	AadhaarNumber string   `json:"Aadhaar Number"`
	PANNumber     string   `json:"PAN Number"`
	FathersName   string   `json:"Father's Name"`
	DLNumber      string   `json:"DL Number"`
	ValidTill     string   `json:"Valid Till"`
	FraudScore    int      `json:"fraudScore"`
	RiskLevel     string   `json:"riskLevel"`
	Reasons       []string `json:"Reasons"`
	UserName      string   `json:"userName"`
	FinalStatus   string   `json:"finalStatus"`
}

// UnmarshalJSON decodes the engine payload. encoding/json silently ignores
// struct tags containing an apostrophe, so the "Father's Name" key is read
// from the raw object by hand.
func (w *wireRecord) UnmarshalJSON(data []byte) error {
	type plain wireRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["Father's Name"]; ok {
		if err := json.Unmarshal(v, &p.FathersName); err != nil {
			return err
		}
	}
	*w = wireRecord(p)
	return nil
}

// wireOverallRecord is the engine's per-user shape from GET /all-records.
type wireOverallRecord struct {
	UserName  string `json:"userName"`
	Documents []struct {
		Type string `json:"type"`
	} `json:"documents"`
	OverallFraudScore int    `json:"overallFraudScore"`
	OverallRiskLevel  string `json:"overallRiskLevel"`
	FinalStatus       string `json:"finalStatus"`
}

// toDomain normalizes a per-document wire record into the internal record
// shape. The document variant is selected by the type tag alone; unknown tags
// map to the Unknown variant so a new engine document type degrades safely.
func (w wireRecord) toDomain() domain.VerificationRecord {
	var doc domain.ExtractedDocument
	switch domain.DocumentType(w.DocumentType) {
	case domain.DocumentAadhaar:
		doc = domain.AadhaarDocument{
			Name:          w.Name,
			DOB:           w.DOB,
			Gender:        w.Gender,
			AadhaarNumber: w.AadhaarNumber,
		}
	case domain.DocumentPAN:
		doc = domain.PANDocument{
			Name:        w.Name,
			FathersName: w.FathersName,
			PANNumber:   w.PANNumber,
		}
	case domain.DocumentDrivingLicense:
		doc = domain.DrivingLicenseDocument{
			Name:      w.Name,
			DOB:       w.DOB,
			DLNumber:  w.DLNumber,
			ValidTill: w.ValidTill,
		}
	default:
		doc = domain.UnknownDocument{}
	}

	return domain.VerificationRecord{
		UserName:    w.UserName,
		Document:    doc,
		FraudScore:  w.FraudScore,
		RiskLevel:   normalizeRisk(w.RiskLevel),
		Reasons:     platformstrings.DedupeAndTrim(w.Reasons),
		FinalStatus: w.FinalStatus,
	}
}

// normalizeRisk maps the engine's risk level onto the closed set. A level
// outside the set is triaged as High so the record lands in the fraud bucket
// instead of vanishing from both summary counts.
func normalizeRisk(raw string) domain.RiskLevel {
	if level := domain.RiskLevel(raw); level.Valid() {
		return level
	}
	return domain.RiskHigh
}

// toDomain normalizes a per-user wire record. The rich shape carries no
// extracted fields, only document type tags; the first tag selects the
// variant so both dashboard views flow through one aggregation path.
func (w wireOverallRecord) toDomain() domain.VerificationRecord {
	doc := domain.ExtractedDocument(domain.UnknownDocument{})
	if len(w.Documents) > 0 {
		switch domain.DocumentType(w.Documents[0].Type) {
		case domain.DocumentAadhaar:
			doc = domain.AadhaarDocument{}
		case domain.DocumentPAN:
			doc = domain.PANDocument{}
		case domain.DocumentDrivingLicense:
			doc = domain.DrivingLicenseDocument{}
		}
	}

	return domain.VerificationRecord{
		UserName:    w.UserName,
		Document:    doc,
		FraudScore:  w.OverallFraudScore,
		RiskLevel:   normalizeRisk(w.OverallRiskLevel),
		FinalStatus: w.FinalStatus,
	}
}
