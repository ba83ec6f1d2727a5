package v1

import (
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Envelope is the uniform success wrapper for data-carrying responses.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// MessageEnvelope is the success wrapper for message-only responses.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorEnvelope replaces huma's RFC 7807 error model so failures share the
// same envelope shape as successes.
type errorEnvelope struct {
	status  int
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (e *errorEnvelope) Error() string { return e.Message }

func (e *errorEnvelope) GetStatus() int { return e.status }

// ContentType overrides huma's application/problem+json default.
func (e *errorEnvelope) ContentType(string) string { return "application/json" }

func init() {
	huma.NewError = func(status int, message string, _ ...error) huma.StatusError {
		return &errorEnvelope{status: status, Success: false, Message: message}
	}
}

// dataEnvelope builds a success envelope around data.
func dataEnvelope[T any](message string, data T) Envelope[T] {
	return Envelope[T]{Success: true, Message: message, Data: data}
}

// parseDate parses a YYYY-MM-DD calendar date parameter.
func parseDate(name, value string) (t time.Time, err error) {
	t, err = time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date, expected YYYY-MM-DD", name)
	}
	return t, nil
}
