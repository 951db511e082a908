// Package accountapi is the wire contract between the TypeTutor client and
// the account server: the uniform result envelope, request/response DTOs and
// the gRPC service descriptor. Messages travel as google.protobuf.Struct, so
// no generated code is needed on either side.
package accountapi

// Outcome discriminates a successful envelope from a failed one.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// CodeUnauthenticated marks an error envelope produced because the server
// did not accept the caller's credential.
const CodeUnauthenticated = "unauthenticated"

// ValidationError names a single rejected input field.
type ValidationError struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

// Envelope is the uniform result of every account operation. A success
// envelope carries Payload; an error envelope may carry a user-facing Message
// and, for registration, per-field ValidationErrors.
type Envelope[T any] struct {
	Outcome          Outcome           `json:"outcome"`
	Payload          T                 `json:"payload"`
	Message          string            `json:"message,omitempty"`
	ValidationErrors []ValidationError `json:"validationErrors,omitempty"`
	Code             string            `json:"code,omitempty"`
}

func Success[T any](payload T) Envelope[T] {
	return Envelope[T]{Outcome: OutcomeSuccess, Payload: payload}
}

func Failure[T any](message string) Envelope[T] {
	return Envelope[T]{Outcome: OutcomeError, Message: message}
}

// Unauthorized builds an error envelope for a rejected credential.
func Unauthorized[T any](message string) Envelope[T] {
	return Envelope[T]{Outcome: OutcomeError, Message: message, Code: CodeUnauthenticated}
}

// Invalid builds an error envelope for rejected input.
func Invalid[T any](message string, errs []ValidationError) Envelope[T] {
	return Envelope[T]{Outcome: OutcomeError, Message: message, ValidationErrors: errs}
}

// OK reports whether e is a success envelope.
func (e Envelope[T]) OK() bool {
	return e.Outcome == OutcomeSuccess
}

// Unauthenticated reports whether e rejects the caller's credential.
func (e Envelope[T]) Unauthenticated() bool {
	return !e.OK() && e.Code == CodeUnauthenticated
}

// FirstValidationMessage returns the message of the first validation error,
// or "" when there is none.
func (e Envelope[T]) FirstValidationMessage() string {
	for _, v := range e.ValidationErrors {
		if v.Message != "" {
			return v.Message
		}
	}
	return ""
}
