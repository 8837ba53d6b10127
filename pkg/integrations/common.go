package integrations

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	starerrors "github.com/matzehuels/starctl/pkg/errors"
)

const (
	httpTimeout       = 10 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = time.Second
	maxBodySize       = 10 << 20
)

var (
	// ErrNotFound is returned when the API answers 404. For check-style
	// endpoints (GET /user/starred/{owner}/{repo}) this is the negative
	// answer rather than a failure.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned for 401 responses: missing or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned for 403 responses that are not rate limiting,
	// typically a token lacking the required scope.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidRequest is returned when a request cannot be built.
	ErrInvalidRequest = errors.New("invalid request")
)

// RequestError records which request failed. It unwraps to one of the
// package sentinels (or a *errors.RateLimitedError), so callers match with
// errors.Is / errors.As rather than inspecting fields.
type RequestError struct {
	Method string
	Path   string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func wrapRequestError(method, path string, err error) error {
	return &RequestError{Method: method, Path: path, Err: err}
}

func rateLimited(header http.Header, msg string) *starerrors.RateLimitedError {
	return &starerrors.RateLimitedError{
		RetryAfter: retryAfter(header, time.Now()),
		Message:    msg,
	}
}

// Request describes a GET: the API path plus optional query parameters and
// media type. Paths are used verbatim; callers are responsible for any
// escaping.
type Request struct {
	Path   string
	Params url.Values
	Accept string
}

// URL renders the request against base. Query parameters are sorted by key.
func (r *Request) URL(base string) string {
	u := strings.TrimSuffix(base, "/") + r.Path
	if len(r.Params) > 0 {
		u += "?" + r.Params.Encode()
	}
	return u
}

// Response is a fully buffered successful response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var nextLinkPattern = regexp.MustCompile(`<[^>]*[?&]page=(\d+)[^>]*>;\s*rel="next"`)

// NextPage returns the page number of the rel="next" link in the response's
// Link header, or 0 when there is no further page.
func (r *Response) NextPage() int {
	m := nextLinkPattern.FindStringSubmatch(r.Header.Get("Link"))
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewHTTPClientWithTimeout creates an HTTP client with the given timeout.
// A non-positive timeout falls back to the default.
func NewHTTPClientWithTimeout(d time.Duration) *http.Client {
	if d <= 0 {
		d = httpTimeout
	}
	return &http.Client{Timeout: d}
}
