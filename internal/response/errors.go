package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidDate    ErrCode = "INVALID_DATE"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	ErrNotFound ErrCode = "NOT_FOUND"

	ErrStoreUnavailable ErrCode = "STORE_UNAVAILABLE"
	ErrInternal         ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidDate:
		return "Invalid date. Expected YYYY-MM-DD."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrStoreUnavailable:
		return "The storage backend is not available."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
