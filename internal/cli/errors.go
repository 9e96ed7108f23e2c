// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts and agents.
const (
	// Vault errors
	ErrVaultNotFound     = "VAULT_NOT_FOUND"
	ErrVaultNotSpecified = "VAULT_NOT_SPECIFIED"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// Run errors
	ErrScanFailed    = "SCAN_FAILED"
	ErrBackupFailed  = "BACKUP_FAILED"
	ErrReorgPartial  = "REORG_PARTIAL"
	ErrAuditFailed   = "AUDIT_FAILED"
	ErrDatabaseError = "DATABASE_ERROR"
	ErrNoRuns        = "NO_RUNS"

	// File errors
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnBackupSkipped  = "BACKUP_SKIPPED"
	WarnDocSkipped     = "DOC_SKIPPED"
	WarnHistoryFailed  = "HISTORY_WRITE_FAILED"
	WarnOracleFallback = "ORACLE_FALLBACK"
)
