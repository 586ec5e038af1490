package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// UpstreamError is a non-2xx answer from the Backend Data Service
type UpstreamError struct {
	StatusCode int
	Detail     string
	Body       []byte
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// AsUpstreamError unwraps err into an *UpstreamError
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	ue, ok := AsUpstreamError(err)
	return ok && ue.StatusCode == http.StatusNotFound
}

// ExtractDetail pulls a human message out of an error body. The backend uses
// {"detail": "..."} for domain errors and {"detail": [{"msg": "..."}]} for
// validation errors; {"error"} and {"message"} are accepted as well.
func ExtractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, key := range []string{"detail", "error", "message"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(raw, &items); err == nil {
			for _, item := range items {
				if item.Msg != "" {
					return item.Msg
				}
			}
		}
	}
	return ""
}
