package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/promptdeck/deckhand/internal/apierr"
)

// FileField is one file part of a multipart upload. Content is held as bytes
// so the body can be rebuilt if the request is re-issued after session
// renewal.
type FileField struct {
	FieldName string
	FileName  string
	Content   []byte
}

// Upload sends a multipart form. Uploads default to a single attempt so a
// half-transferred body is not silently re-sent; callers that can tolerate a
// full re-transmission opt back in with WithRetries.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, files []FileField, opts ...Option) (*Response, error) {
	body, contentType, err := buildMultipartBody(fields, files)
	if err != nil {
		o := c.newOptions(opts)
		ce := apierr.Wrap(apierr.KindUnknown, "failed to build upload form", err)
		return nil, c.surface(ctx, ce, o, http.MethodPost, "", c.BaseURL()+path, time.Now())
	}

	merged := append([]Option{
		WithSkipRetry(),
		WithHeader("Content-Type", contentType),
	}, opts...)

	return c.do(ctx, http.MethodPost, path, body, merged...)
}

// buildMultipartBody assembles the multipart payload once, up front.
func buildMultipartBody(fields map[string]string, files []FileField) ([]byte, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field '%s': %w", key, err)
		}
	}

	for _, file := range files {
		part, err := writer.CreateFormFile(file.FieldName, file.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file '%s': %w", file.FileName, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write form file '%s': %w", file.FileName, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize upload form: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
