package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Response is the payload of a successful call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
	Duration   time.Duration
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
