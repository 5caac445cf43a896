// Package cloudinary provides a client for interacting with the Cloudinary
// upload API and for deriving delivery URLs from uploaded asset IDs.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// ErrMissingCredentials is returned before any network call is made when the
// client has no usable credentials configured.
var ErrMissingCredentials = errors.New("cloudinary credentials not found")

type Client struct {
	CloudName string
	APIKey    string
	APISecret string

	// Overridable for tests
	BaseURL string
	HTTP    *http.Client
}

// UploadOptions mirror the parameters of a single upload call.
type UploadOptions struct {
	// "video" or "image"
	ResourceType string
	Folder       string
	// Slash-separated transformation directive, e.g. "q_auto/f_mp4".
	// Empty means upload as-is
	Transformation string
}

// UploadResult is the subset of the upload response this app consumes.
type UploadResult struct {
	PublicID string  `json:"public_id"`
	Bytes    int64   `json:"bytes"`
	Duration float64 `json:"duration"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func New() (*Client, error) {
	c := &Client{
		CloudName: viper.GetString("cloudinary.cloud_name"),
		APIKey:    viper.GetString("cloudinary.api_key"),
		APISecret: viper.GetString("cloudinary.api_secret"),
		BaseURL:   defaultBaseURL,
		HTTP:      &http.Client{Timeout: 5 * time.Minute},
	}

	if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
		return nil, ErrMissingCredentials
	}

	return c, nil
}

// Upload performs a single signed upload round trip. The whole payload is
// read into memory first, there is no chunked transfer and no retry.
func (c *Client) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (*UploadResult, error) {
	if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
		return nil, ErrMissingCredentials
	}

	resourceType := opts.ResourceType
	if resourceType == "" {
		resourceType = "image"
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if opts.Folder != "" {
		params["folder"] = opts.Folder
	}
	if opts.Transformation != "" {
		params["transformation"] = opts.Transformation
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for k, val := range params {
		if err := mw.WriteField(k, val); err != nil {
			return nil, fmt.Errorf("failed to write form field, %w", err)
		}
	}
	if err := mw.WriteField("api_key", c.APIKey); err != nil {
		return nil, fmt.Errorf("failed to write form field, %w", err)
	}
	if err := mw.WriteField("signature", SignParams(params, c.APISecret)); err != nil {
		return nil, fmt.Errorf("failed to write form field, %w", err)
	}

	fw, err := mw.CreateFormFile("file", "file")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file, %w", err)
	}

	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("failed to buffer upload payload, %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body, %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/upload", c.BaseURL, c.CloudName, resourceType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed, %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("upload rejected, %s", errResp.Error.Message)
		}

		return nil, fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}

	var res UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to decode upload response, %w", err)
	}

	if res.PublicID == "" {
		return nil, errors.New("upload response is missing a public_id")
	}

	return &res, nil
}

// SignParams builds the request signature Cloudinary expects: the parameters
// sorted by key, joined as a query string, with the API secret appended,
// hashed with SHA-1.
func SignParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(params[k])
	}
	buf.WriteString(secret)

	sum := sha1.Sum(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
