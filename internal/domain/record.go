package domain

import (
	"encoding/json"
	"fmt"
)

// RiskLevel is the categorical classification assigned by the scoring
// engine. It is authoritative: the gateway never recomputes risk from the
// numeric score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Valid reports whether the level is one the engine is allowed to assign.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// DocumentType tags the variant of an extracted document. Rendering and
// decoding branch on this tag, never on field presence.
type DocumentType string

const (
	DocumentAadhaar        DocumentType = "Aadhaar"
	DocumentPAN            DocumentType = "PAN"
	DocumentDrivingLicense DocumentType = "Driving License"
	// DocumentUnknown is what the engine emits when it cannot classify the
	// image. The record still carries a score and risk level.
	DocumentUnknown DocumentType = "Unknown"
)

// ExtractedDocument is a closed sum over document types: exactly one variant
// exists per record, selected by its type tag. The unexported method keeps
// the set of variants closed to this package.
type ExtractedDocument interface {
	Type() DocumentType
	sealed()
}

// AadhaarDocument carries the fields the engine extracts from an Aadhaar card.
type AadhaarDocument struct {
	Name          string `json:"name"`
	DOB           string `json:"dob"`
	Gender        string `json:"gender"`
	AadhaarNumber string `json:"aadhaar_number"`
}

func (AadhaarDocument) Type() DocumentType { return DocumentAadhaar }
func (AadhaarDocument) sealed()            {}

// PANDocument carries the fields the engine extracts from a PAN card.
type PANDocument struct {
	Name        string `json:"name"`
	FathersName string `json:"fathers_name"`
	PANNumber   string `json:"pan_number"`
}

func (PANDocument) Type() DocumentType { return DocumentPAN }
func (PANDocument) sealed()            {}

// DrivingLicenseDocument carries the fields the engine extracts from a
// driving license.
type DrivingLicenseDocument struct {
	Name      string `json:"name"`
	DOB       string `json:"dob"`
	DLNumber  string `json:"dl_number"`
	ValidTill string `json:"valid_till"`
}

func (DrivingLicenseDocument) Type() DocumentType { return DocumentDrivingLicense }
func (DrivingLicenseDocument) sealed()            {}

// UnknownDocument is the variant for images the engine could not classify.
type UnknownDocument struct{}

func (UnknownDocument) Type() DocumentType { return DocumentUnknown }
func (UnknownDocument) sealed()            {}

// VerificationRecord is one completed verification attempt as returned by the
// scoring engine. Immutable from the gateway's perspective; the collection of
// records is append-only and ordered by arrival.
type VerificationRecord struct {
	UserName    string
	Document    ExtractedDocument
	FraudScore  int
	RiskLevel   RiskLevel
	Reasons     []string
	FinalStatus string
}

// DocumentType returns the variant tag of the record's document.
func (r VerificationRecord) DocumentType() DocumentType {
	if r.Document == nil {
		return DocumentUnknown
	}
	return r.Document.Type()
}

// recordEnvelope is the serialized shape of a VerificationRecord. The
// document variant travels next to its type tag so decoding can rebuild the
// sum type; encoding/json cannot unmarshal into the interface field directly.
type recordEnvelope struct {
	UserName     string          `json:"user_name"`
	DocumentType DocumentType    `json:"document_type"`
	Document     json.RawMessage `json:"document,omitempty"`
	FraudScore   int             `json:"fraud_score"`
	RiskLevel    RiskLevel       `json:"risk_level"`
	Reasons      []string        `json:"reasons,omitempty"`
	FinalStatus  string          `json:"final_status,omitempty"`
}

func (r VerificationRecord) MarshalJSON() ([]byte, error) {
	env := recordEnvelope{
		UserName:     r.UserName,
		DocumentType: r.DocumentType(),
		FraudScore:   r.FraudScore,
		RiskLevel:    r.RiskLevel,
		Reasons:      r.Reasons,
		FinalStatus:  r.FinalStatus,
	}
	if r.Document != nil {
		doc, err := json.Marshal(r.Document)
		if err != nil {
			return nil, err
		}
		env.Document = doc
	}
	return json.Marshal(env)
}

func (r *VerificationRecord) UnmarshalJSON(data []byte) error {
	var env recordEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	doc, err := decodeDocument(env.DocumentType, env.Document)
	if err != nil {
		return fmt.Errorf("decode %s document: %w", env.DocumentType, err)
	}
	*r = VerificationRecord{
		UserName:    env.UserName,
		Document:    doc,
		FraudScore:  env.FraudScore,
		RiskLevel:   env.RiskLevel,
		Reasons:     env.Reasons,
		FinalStatus: env.FinalStatus,
	}
	return nil
}

// decodeDocument rebuilds the variant selected by the type tag. Tags outside
// the closed set decode as Unknown, matching how wire normalization treats
// new engine document types.
func decodeDocument(tag DocumentType, raw json.RawMessage) (ExtractedDocument, error) {
	switch tag {
	case DocumentAadhaar:
		var doc AadhaarDocument
		return doc, decodeVariant(raw, &doc)
	case DocumentPAN:
		var doc PANDocument
		return doc, decodeVariant(raw, &doc)
	case DocumentDrivingLicense:
		var doc DrivingLicenseDocument
		return doc, decodeVariant(raw, &doc)
	default:
		return UnknownDocument{}, nil
	}
}

func decodeVariant(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
