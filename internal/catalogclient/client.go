// Package catalogclient talks to a remote bookstore-admin API. It satisfies the
// submission pipeline's AssetUploader and RecordSubmitter ports over HTTP.
package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"bookstore-admin/internal/submission"
)

const defaultTimeout = 60 * time.Second

// maximum error body we bother reading.
const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog api: status %d", e.Status)
	}
	return fmt.Sprintf("catalog api: status %d: %s", e.Status, e.Message)
}

// UserMessage is the server-provided reason, if any.
func (e *APIError) UserMessage() string {
	return e.Message
}

// Options configure a Client.
type Options struct {
	BaseURL string
	// Token is sent as a bearer token. When empty, UserID and Role are sent
	// as X-User-Id/X-Role, which only non-production servers accept.
	Token   string
	UserID  string
	Role    string
	Timeout time.Duration
	// HTTPClient overrides the transport; Token is ignored when it is set.
	HTTPClient *http.Client
}

// Client uploads assets and creates books on a remote API.
type Client struct {
	baseURL string
	http    *http.Client
	header  http.Header
}

// New constructs a Client.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("catalog api base url is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := opts.HTTPClient
	if hc == nil {
		if opts.Token != "" {
			ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
			hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"}))
			hc.Timeout = timeout
		} else {
			hc = &http.Client{Timeout: timeout}
		}
	}

	header := http.Header{}
	if opts.Token == "" && opts.UserID != "" {
		header.Set("X-User-Id", opts.UserID)
		header.Set("X-Role", opts.Role)
	}
	return &Client{baseURL: base, http: hc, header: header}, nil
}

// Upload sends one attachment to the asset endpoint for its kind.
// Every failure is reported in the result.
func (c *Client) Upload(ctx context.Context, att submission.Attachment, kind submission.AssetKind) submission.AssetUploadResult {
	path := "/api/v1/assets/images"
	if kind == submission.AssetDocument {
		path = "/api/v1/assets/documents"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, att.FileName))
	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	partHeader.Set("Content-Type", contentType)
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return submission.AssetUploadResult{Err: fmt.Errorf("build upload: %w", err)}
	}
	if _, err := part.Write(att.Data); err != nil {
		return submission.AssetUploadResult{Err: fmt.Errorf("build upload: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return submission.AssetUploadResult{Err: fmt.Errorf("build upload: %w", err)}
	}

	var out struct {
		ID string `json:"id"`
		OK bool   `json:"ok"`
	}
	if err := c.do(ctx, http.MethodPost, path, writer.FormDataContentType(), body, &out); err != nil {
		return submission.AssetUploadResult{Err: err}
	}
	return submission.AssetUploadResult{ID: out.ID, OK: out.OK}
}

// Submit creates the catalog entry for the edition kind.
func (c *Client) Submit(ctx context.Context, kind submission.EditionKind, rec submission.CatalogRecord) (submission.Confirmation, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return submission.Confirmation{}, fmt.Errorf("encode record: %w", err)
	}

	var out submission.Confirmation
	if err := c.do(ctx, http.MethodPost, "/api/v1/books/"+string(kind), "application/json", bytes.NewReader(payload), &out); err != nil {
		return submission.Confirmation{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
