package dto

// APIResponse is the envelope every endpoint answers with: quote previews,
// pledge intake, the public pool reads and the admin surface all wrap their
// payload in it
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail carries the machine-readable error code plus optional
// specifics; validation failures list the offending fields in Details
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}
