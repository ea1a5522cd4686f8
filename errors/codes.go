package errors

// ErrorCode represents a specific failure class of a search.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// CodeNotFound indicates the bucket or an object does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeForbidden indicates the credentials lack permission for the operation.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeInvalidConfig indicates a configuration error prevents the search.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeSchemaFailed indicates a storage response did not have the expected shape.
	CodeSchemaFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"

	// CodeRateLimit indicates the storage service throttled the request.
	CodeRateLimit ErrorCode = "RATE_LIMIT_EXCEEDED"

	// CodeTimeout indicates the search was cancelled or ran out of time.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeExecutionFailed indicates a general storage failure.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
