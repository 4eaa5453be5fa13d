// Package api implements the low-level REST transport shared by all SDK
// operations: host resolution (including cname rewriting), default headers,
// form/JSON request helpers, and the response error taxonomy.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default hosts for the public service.
const (
	DefaultAPIHost     = "https://www.filestackapi.com"
	DefaultUploadHost  = "https://upload.filestackapi.com"
	DefaultCDNHost     = "https://cdn.filestackcontent.com"
	DefaultProcessHost = "https://process.filestackapi.com"
)

// Version is reported in the User-Agent and Filestack-Source headers.
const Version = "1.0.0"

// maximum bytes of an error response body retained for diagnostics
const errBodyLimit = 4096

// Doer is the subset of http.Client used by the SDK. It limits the API
// surface and enables efficient mocking in tests.
type Doer interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// Hosts is the set of service base URLs used by a client.
type Hosts struct {
	API     string
	Upload  string
	CDN     string
	Process string
}

// DefaultHosts returns the public service hosts.
func DefaultHosts() Hosts {
	return Hosts{
		API:     DefaultAPIHost,
		Upload:  DefaultUploadHost,
		CDN:     DefaultCDNHost,
		Process: DefaultProcessHost,
	}
}

// CnameHosts returns the service hosts for an account configured with a
// custom domain, e.g. "fs.example.com" yields "https://www.fs.example.com",
// "https://upload.fs.example.com", and so on.
func CnameHosts(cname string) Hosts {
	cname = strings.TrimSuffix(cname, "/")
	return Hosts{
		API:     "https://www." + cname,
		Upload:  "https://upload." + cname,
		CDN:     "https://cdn." + cname,
		Process: "https://process." + cname,
	}
}

// Client is the low-level REST client. The zero value is not usable; use
// NewClient.
type Client struct {
	doer         Doer
	hosts        Hosts
	sessionToken string
}

// NewClient returns a Client sending requests through doer against hosts.
// A nil doer falls back to a plain http.Client without a client-level
// timeout; transfer time is bounded by the request context instead, since
// part uploads may legitimately run for minutes.
func NewClient(doer Doer, hosts Hosts) *Client {
	if doer == nil {
		doer = &http.Client{}
	}
	if hosts == (Hosts{}) {
		hosts = DefaultHosts()
	}
	return &Client{doer: doer, hosts: hosts}
}

// Hosts returns the host set the client was built with.
func (c *Client) Hosts() Hosts {
	return c.hosts
}

// SetSessionToken attaches a picker session token to subsequent requests.
// An empty token detaches it.
func (c *Client) SetSessionToken(token string) {
	c.sessionToken = token
}

// Do sends req with default headers applied and maps non-2xx responses to
// *ResponseError. On success the caller owns the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "filestack-go/"+Version)
	req.Header.Set("Filestack-Source", "go-"+Version)
	req.Header.Set("Filestack-Trace-Id", uuid.NewString())
	if c.sessionToken != "" {
		req.Header.Set("Filestack-Session", c.sessionToken)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close() //nolint:errcheck
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			URL:        req.URL.String(),
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return resp, nil
}

// Get issues a GET and returns the raw response.
func (c *Client) Get(ctx context.Context, rawurl string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, rawurl string, out any) error {
	resp, err := c.Get(ctx, rawurl)
	if err != nil {
		return err
	}
	return decodeJSON(resp, rawurl, out)
}

// PostForm issues a form-encoded POST and decodes the JSON response into out
// when out is non-nil.
func (c *Client) PostForm(ctx context.Context, rawurl string, values url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return drain(resp)
	}
	return decodeJSON(resp, rawurl, out)
}

// PostFormStatus is PostForm for endpoints whose status code is meaningful on
// success (e.g. 202 "still assembling"). It returns the status code alongside
// the decoded body.
func (c *Client) PostFormStatus(ctx context.Context, rawurl string, values url.Values, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, strings.NewReader(values.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode == http.StatusAccepted || out == nil {
		return resp.StatusCode, drain(resp)
	}
	return resp.StatusCode, decodeJSON(resp, rawurl, out)
}

// Post issues a POST with the given body and content type and decodes the
// JSON response into out when out is non-nil.
func (c *Client) Post(ctx context.Context, rawurl, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return drain(resp)
	}
	return decodeJSON(resp, rawurl, out)
}

// Delete issues a DELETE and discards any response body.
func (c *Client) Delete(ctx context.Context, rawurl string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, rawurl, nil)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	return drain(resp)
}

// Put uploads body to a presigned URL with the given headers and returns the
// response ETag. This is the transfer leg of a multipart upload; the target
// is the storage provider's presigned endpoint, not a service host.
func (c *Client) Put(ctx context.Context, rawurl string, headers map[string]string, body io.Reader, size int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, rawurl, body)
	if err != nil {
		return "", err
	}
	req.ContentLength = size
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	if err := drain(resp); err != nil {
		return "", err
	}
	return strings.Trim(resp.Header.Get("ETag"), `"`), nil
}

// decodeJSON takes the request URL explicitly; responses produced by a
// caller-supplied Doer may carry a nil Request.
func decodeJSON(resp *http.Response, rawurl string, out any) error {
	defer resp.Body.Close() //nolint:errcheck
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", rawurl, err)
	}
	return nil
}

func drain(resp *http.Response) error {
	defer resp.Body.Close() //nolint:errcheck
	_, err := io.Copy(io.Discard, io.LimitReader(resp.Body, errBodyLimit))
	return err
}

// retryAfterCeiling guards against absurd Retry-After responses.
const retryAfterCeiling = time.Minute

// RetryAfter extracts a server-suggested delay from err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var respErr *ResponseError
	if !errors.As(err, &respErr) || respErr.RetryAfter <= 0 {
		return 0, false
	}
	if respErr.RetryAfter > retryAfterCeiling {
		return retryAfterCeiling, true
	}
	return respErr.RetryAfter, true
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
