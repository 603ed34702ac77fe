package domain

import dErrors "kycvault/pkg/domain-errors"

// ExportCategory selects the filtered extract the engine produces. The
// category-to-record mapping is owned entirely by the engine; the gateway
// passes the token through unmodified.
type ExportCategory string

const (
	ExportAll      ExportCategory = "all"
	ExportApproved ExportCategory = "approved"
	ExportRejected ExportCategory = "rejected"
	ExportAlerts   ExportCategory = "alerts"
)

// ParseExportCategory validates a raw category token.
func ParseExportCategory(s string) (ExportCategory, error) {
	switch c := ExportCategory(s); c {
	case ExportAll, ExportApproved, ExportRejected, ExportAlerts:
		return c, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "export category must be one of all, approved, rejected, alerts")
}
