package errors

// Error codes returned to the console front-end.
// Format: CATEGORY_SPECIFIC_DETAIL. The front-end maps these to copy.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized   = "AUTH_UNAUTHORIZED"    // no bearer token
	AuthTokenInvalid   = "AUTH_TOKEN_INVALID"   // malformed Authorization header
	AuthSessionExpired = "AUTH_SESSION_EXPIRED" // upstream rejected the token; client must sign in again
	AuthForbidden      = "AUTH_FORBIDDEN"       // token valid, role insufficient

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // request body could not be bound
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // malformed path id
	ValidationRequired     = "VALIDATION_REQUIRED"      // required field blank
	ValidationInvalidValue = "VALIDATION_INVALID_VALUE" // value outside allowed set

	// ==================== Review (REVIEW_) ====================
	ReviewNotPending         = "REVIEW_NOT_PENDING"          // registration already reviewed
	ReviewInvalidAction      = "REVIEW_INVALID_ACTION"       // unknown decision
	ReviewReasonRequired     = "REVIEW_REASON_REQUIRED"      // reject / resubmission without reason
	ReviewSubmissionInFlight = "REVIEW_SUBMISSION_IN_FLIGHT" // same registration already being submitted

	// ==================== Registration (REGISTRATION_) ====================
	RegistrationNotFound = "REGISTRATION_NOT_FOUND" // not in the current list / upstream 404

	// ==================== Upstream (UPSTREAM_) ====================
	UpstreamUnavailable = "UPSTREAM_UNAVAILABLE" // network failure or timeout
	UpstreamError       = "UPSTREAM_ERROR"       // 5xx or unreadable response
	UpstreamRejected    = "UPSTREAM_REJECTED"    // 4xx business rule rejection

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalExportError = "INTERNAL_EXPORT_ERROR"
)
