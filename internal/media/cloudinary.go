package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Client talks to the Cloudinary-compatible upload API. The zero
// http.Client default is replaced in tests with one pointed at a fake
// transport.
type Client struct {
	cfg          Config
	httpClient   *http.Client
	uploadPrefix string
}

var _ Uploader = (*Client)(nil)

// NewClient creates a media service client from explicit credentials.
func NewClient(cfg Config) *Client {
	prefix := cfg.UploadPrefix
	if prefix == "" {
		prefix = DefaultUploadPrefix
	}

	return &Client{
		cfg:          cfg,
		httpClient:   &http.Client{},
		uploadPrefix: strings.TrimSuffix(prefix, "/"),
	}
}

// SetHTTPClient replaces the underlying transport.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// OpenStream starts an upload session. The caller writes the payload
// to the returned stream, closes it, and waits on Result for the
// single terminal outcome. The transfer runs under ctx: cancelling it
// aborts the in-flight request and resolves the session.
func (c *Client) OpenStream(ctx context.Context, opts UploadOptions) *UploadStream {
	payloadR, payloadW := io.Pipe()
	stream := newUploadStream(payloadW)

	bodyR, bodyW := io.Pipe()
	mw := multipart.NewWriter(bodyW)

	// Producer: wraps the payload bytes into the signed multipart
	// request body as they arrive.
	go func() {
		err := c.writeRequestBody(mw, payloadR, opts)
		if err != nil {
			payloadR.CloseWithError(err)
		}
		bodyW.CloseWithError(err)
	}()

	// Transfer worker: performs the request and resolves the session.
	go func() {
		result, err := c.doUpload(ctx, opts, bodyR, mw.FormDataContentType())
		// Unblock a writer still pushing payload bytes; after the
		// session terminated there is nowhere for them to go.
		payloadR.CloseWithError(err)
		stream.complete(result, err)
	}()

	return stream
}

// Upload delivers a fully buffered payload in one call: open, write,
// end input, wait for the outcome.
func (c *Client) Upload(ctx context.Context, opts UploadOptions, data []byte) (*UploadResult, error) {
	stream := c.OpenStream(ctx, opts)
	if _, err := stream.Write(data); err == nil {
		stream.Close()
	}
	return stream.Result(ctx)
}

func (c *Client) writeRequestBody(mw *multipart.Writer, payload io.Reader, opts UploadOptions) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	params := map[string]string{
		"timestamp": timestamp,
	}
	if opts.Folder != "" {
		params["folder"] = opts.Folder
	}
	if len(opts.Transformations) > 0 {
		params["transformation"] = strings.Join(opts.Transformations, ",")
	}

	fields := map[string]string{
		"api_key":   c.cfg.APIKey,
		"signature": signParams(params, c.cfg.APISecret),
	}
	for k, v := range params {
		fields[k] = v
	}

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}

	filename := opts.Filename
	if filename == "" {
		filename = "file"
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, payload); err != nil {
		return fmt.Errorf("stream payload: %w", err)
	}

	return mw.Close()
}

func (c *Client) doUpload(ctx context.Context, opts UploadOptions, body io.ReadCloser, contentType string) (*UploadResult, error) {
	defer body.Close()

	resourceType := opts.ResourceType
	if resourceType == "" {
		resourceType = ResourceImage
	}
	url := fmt.Sprintf("%s/%s/%s/upload", c.uploadPrefix, c.cfg.CloudName, resourceType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload transport: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload rejected: %s", serviceError(resp.StatusCode, respBody))
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("upload response missing public_id")
	}

	// Keep uninterpreted service fields available to callers.
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(respBody, &raw); err == nil {
		result.Raw = raw
	}

	return &result, nil
}

// serviceError extracts the service's error message from a non-200
// response body, falling back to the status code.
func serviceError(status int, body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return fmt.Sprintf("%d: %s", status, payload.Error.Message)
	}
	return fmt.Sprintf("status %d", status)
}

// signParams produces the request signature the service expects: the
// sorted key=value pairs joined with '&', concatenated with the API
// secret, hashed with SHA-1.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
