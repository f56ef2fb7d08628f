package apperrors

// ErrorCode classifies application errors independently of HTTP status.
type ErrorCode string

const (
	// System and unknown errors
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Request validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Authentication
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"

	// Upload pipeline
	CodeConfigMissing     ErrorCode = "CONFIG_MISSING"
	CodeUploadFailed      ErrorCode = "UPLOAD_FAILED"
	CodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
)
