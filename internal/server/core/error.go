package core

// Error codes
const (
	ErrUserNotFound      = "USER_NOT_FOUND"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInternalError     = "INTERNAL_ERROR"
	ErrUnauthorized      = "UNAUTHORIZED"
)

// ErrorResponse is the JSON body for protocol-level failures (401, 404, 4xx, 500).
// Domain-expected failures (duplicate signup, bad credentials) are reported via
// AuthResponse with Success=false instead.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
