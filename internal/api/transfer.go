package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/siagacs/siaga-admin/internal/telemetry"
)

// File is a downloaded binary body.
type File struct {
	// Name comes from Content-Disposition and may be empty.
	Name        string
	ContentType string
	Data        []byte
}

// Download fetches a binary endpoint such as a spreadsheet export. The
// envelope is only parsed on failure; 401/403 clears the session exactly as
// Do does.
func (c *Client) Download(ctx context.Context, path string, query url.Values) (*File, error) {
	x, err := c.send(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, nil, "application/json")
	if err != nil {
		return nil, err
	}
	defer x.span.End()
	resp := x.resp
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Kind: KindHTTP, Status: resp.StatusCode, Message: MessageDownloadFailed}
		var env Envelope
		if err == nil && json.Unmarshal(data, &env) == nil {
			apiErr.Envelope = &env
			if env.Error != nil {
				apiErr.Code = env.Error.Code
				if env.Error.Message != "" {
					apiErr.Message = env.Error.Message
				}
			}
		}
		return nil, c.fail(ctx, x, apiErr)
	}
	if err != nil {
		return nil, c.fail(ctx, x, &Error{Kind: KindTransport, Status: resp.StatusCode, Message: MessageDownloadFailed, Cause: err})
	}
	telemetry.RecordSuccess(x.span)

	return &File{
		Name:        attachmentName(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func attachmentName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// Upload sends r as a multipart form file under field and checks the
// envelope like Do.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader) (*Result, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	x, err := c.send(ctx, Request{Method: http.MethodPost, Path: path}, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer x.span.End()
	return c.readEnvelope(ctx, x)
}
