package elation

import "fmt"

// AuthenticationError is returned when the token endpoint rejects the client
// credentials. Code carries the provider's OAuth error code (for example
// "invalid_client") when one was supplied.
type AuthenticationError struct {
	Code string
}

func (e *AuthenticationError) Error() string {
	if e.Code == "" {
		return "elation: authentication failed"
	}
	return fmt.Sprintf("elation: authentication failed: %s", e.Code)
}

// HTTPError is returned for any non-2xx API response other than a credential
// rejection. The raw body is preserved for diagnostics.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("elation: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("elation: unexpected status %d: %s", e.StatusCode, e.Body)
}

// ProtocolError is returned when the API answered successfully but the
// payload does not have the expected shape.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "elation: " + e.Reason
}
