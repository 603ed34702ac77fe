package audit

import "time"

// Actions recorded on the audit trail. Keep these stable; downstream
// consumers key off the literal strings.
const (
	ActionVerificationClassified = "verification.classified"
	ActionUploadFailed           = "verification.upload_failed"
	ActionWorkflowReset          = "verification.reset"
	ActionAdminLogin             = "admin.login"
	ActionAdminLoginFailed       = "admin.login_failed"
	ActionAdminLogout            = "admin.logout"
	ActionExportRequested        = "admin.export_requested"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	SessionID    string    `json:"session_id,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	DocumentType string    `json:"document_type,omitempty"`
	RiskLevel    string    `json:"risk_level,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	ClientIP     string    `json:"client_ip,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	Device       string    `json:"device,omitempty"`
	RequestID    string    `json:"request_id,omitempty"`
}
