package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var (
	ErrStaleGeneration   = errors.New("catalog: result belongs to a superseded generation")
	ErrMalformedResponse = errors.New("catalog: malformed response body")
	ErrMissingBaseURL    = errors.New("catalog: API base URL is not configured")
)

// APIError is a failed call to the catalog API. Message is safe to show to
// the shopper.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

var statusOnly = regexp.MustCompile(`^\d{3}$`)

type errorBody struct {
	Type    string `json:"type"`
	Message any    `json:"message"`
	Error   any    `json:"error"`
	Errors  []struct {
		Field   string `json:"field"`
		Message any    `json:"message"`
	} `json:"errors"`
}

// NewAPIError derives the shopper-facing message for a non-2xx response.
// A descriptive body message wins, validation details are appended, and the
// status-based fallback carries a hint for the common codes.
func NewAPIError(endpoint string, status int, body []byte) *APIError {
	e := &APIError{Endpoint: endpoint, Status: status}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		e.Message = fmt.Sprintf("API request to %s failed with status %d: %s. Response was not JSON.",
			endpoint, status, http.StatusText(status))
		return e
	}

	apiMessage := firstText(parsed.Message, parsed.Error)

	var details []string
	for _, fe := range parsed.Errors {
		msg, ok := fe.Message.(string)
		if !ok {
			msg = "Invalid error structure"
		}
		if fe.Field != "" {
			msg = fe.Field + ": " + msg
		}
		details = append(details, msg)
	}
	validation := strings.Join(details, "; ")

	switch {
	case apiMessage != "" && !statusOnly.MatchString(apiMessage):
		e.Message = apiMessage
		if validation != "" {
			e.Message += ". Details: " + validation
		}
	case validation != "":
		e.Message = "Invalid input. Details: " + validation
	default:
		e.Message = statusMessage(endpoint, status)
	}
	return e
}

func statusMessage(endpoint string, status int) string {
	msg := fmt.Sprintf("Request to %s failed with status %d", endpoint, status)
	if text := http.StatusText(status); text != "" {
		msg += ": " + text
	}
	switch {
	case status == http.StatusBadRequest:
		msg += ". Please check the submitted data."
	case status == http.StatusUnauthorized:
		msg += ". Authentication required. Please log in."
	case status == http.StatusForbidden:
		msg += ". You do not have permission to perform this action."
	case status >= 500:
		msg += ". The server encountered an error. Please try again later."
	default:
		msg += ". Please try again."
	}
	return msg
}

func firstText(values ...any) string {
	for _, v := range values {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// Message returns the text to show the shopper for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// upstreamFault reports whether err says something about the health of the
// API rather than about the request.
func upstreamFault(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == http.StatusTooManyRequests
	}
	return !errors.Is(err, ErrMalformedResponse)
}
