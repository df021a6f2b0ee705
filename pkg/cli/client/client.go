/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package client provides a client for the remote Notes API and the data
// structures of its responses
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/notesync/notesync/pkg/cli/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var (
	// ErrNotFound is an error for a note that does not exist on the server
	ErrNotFound = errors.New("not found")
	// ErrPreconditionFailed is an error for an update rejected because the note changed on the server
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrContentTypeMismatch is an error for a response that is not JSON
	ErrContentTypeMismatch = errors.New("content type mismatch")
	// ErrMalformedResponse is an error for a response body that cannot be decoded
	ErrMalformedResponse = errors.New("malformed response")
)

// HTTPError represents an HTTP error response from the server
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// Is makes errors.Is match the sentinel errors to their status codes
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrPreconditionFailed:
		return e.StatusCode == http.StatusPreconditionFailed
	}

	return false
}

// NetworkError is an error for a request that never got a response
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.Err.Error())
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

// Client talks to a single account on a Notes server
type Client struct {
	// Endpoint is the root of the server, without a trailing slash
	Endpoint   string
	UserName   string
	Password   string
	HTTPClient *http.Client
	// Timeout bounds every call. Zero means no timeout.
	Timeout time.Duration
	// APIVersion selects the notes endpoints. The zero value uses the oldest supported version.
	APIVersion APIVersion
	// Version is sent as the user agent
	Version string
}

// New returns a client for the given server and credentials
func New(endpoint, user, password string) *Client {
	return &Client{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		UserName:   user,
		Password:   password,
		HTTPClient: NewRateLimitedHTTPClient(),
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return http.DefaultClient
}

// requestOptions contains options for requests
type requestOptions struct {
	Header http.Header
	// ExpectJSON makes a successful response fail unless it is JSON
	ExpectJSON bool
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}, options requestOptions) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshalling payload")
		}
		r = bytes.NewReader(b)
	}

	endpoint := fmt.Sprintf("%s%s", c.Endpoint, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.SetBasicAuth(c.UserName, c.Password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Version != "" {
		req.Header.Set("User-Agent", fmt.Sprintf("notesync/%s", c.Version))
	}
	for key, values := range options.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	return req, nil
}

// checkRespErr turns an error response into an *HTTPError
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    strings.TrimRight(string(body), "\n"),
	}
}

func checkContentType(res *http.Response) error {
	got := res.Header.Get("Content-Type")

	mediaType, _, err := mime.ParseMediaType(got)
	if err != nil || mediaType != "application/json" {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: 'application/json'. Did you configure your endpoint correctly?", got)
	}

	return nil
}

// result is a fully read response
type result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// do makes the request and reads the whole response. Error responses are
// returned as *HTTPError and transport failures as *NetworkError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, options requestOptions) (result, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, method, path, body, options)
	if err != nil {
		return result{}, err
	}

	log.Debug("HTTP %s %s\n", method, path)

	res, err := c.httpClient().Do(req)
	if err != nil {
		return result{}, &NetworkError{Err: err}
	}
	defer res.Body.Close()

	log.Debug("HTTP %s\n", res.Status)

	if err := checkRespErr(res); err != nil {
		return result{}, err
	}

	ret := result{StatusCode: res.StatusCode, Header: res.Header}
	if res.StatusCode == http.StatusNotModified {
		return ret, nil
	}

	if options.ExpectJSON {
		if err := checkContentType(res); err != nil {
			return result{}, err
		}
	}

	ret.Body, err = io.ReadAll(res.Body)
	if err != nil {
		return result{}, &NetworkError{Err: errors.Wrap(err, "reading the response body")}
	}

	return ret, nil
}

func decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(ErrMalformedResponse, err.Error())
	}

	return nil
}
