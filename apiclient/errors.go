package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a failed backend call. Status is 0 when the request never got a
// response.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "api error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Status == 0 {
		return msg
	}
	return fmt.Sprintf("%s (status %d)", msg, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }

func parseError(status int, raw []byte, fallback string) error {
	var body struct {
		Message any    `json:"message"`
		Error   any    `json:"error"`
		Detail  string `json:"detail"`
	}
	msg := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		msg = firstMessage(body.Message)
		if msg == "" {
			msg = firstMessage(body.Error)
		}
		if msg == "" {
			msg = strings.TrimSpace(body.Detail)
		}
	}
	if msg == "" {
		msg = fallback
	}
	return &Error{Status: status, Message: msg}
}

// firstMessage handles the shapes the API uses: "text", ["text", ...] and
// {"message": "text"}.
func firstMessage(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if s := firstMessage(item); s != "" {
				return s
			}
		}
	case map[string]any:
		return firstMessage(t["message"])
	}
	return ""
}
