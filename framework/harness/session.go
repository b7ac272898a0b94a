package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/questlabs/api-test-harness/framework"
	o "github.com/questlabs/api-test-harness/framework/opt"
)

// RequestTimeout is the fixed per-request timeout for every case in a run.
const RequestTimeout = 10 * time.Second

// Session is the single reusable connection to the target API. It is opened once at the
// start of a run, shared by every case (the run is strictly sequential, so no locking is
// needed), and closed on every exit path.
type Session struct {
	baseURL string
	headers map[string]string
	client  *http.Client
	logger  framework.Logger
}

// NewSession creates a Session for the given base URL. The optional headers are added to
// every request; logger receives request/response debug output for traffic that is not
// attributed to a particular test scope.
func NewSession(baseURL string, headers map[string]string, logger framework.Logger) *Session {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Session{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
		client:  &http.Client{Timeout: RequestTimeout},
		logger:  logger,
	}
}

func (s *Session) BaseURL() string {
	return s.baseURL
}

// Close releases the session's network resources. Safe to call on any exit path.
func (s *Session) Close() {
	s.client.CloseIdleConnections()
}

// Ping is the connectivity pre-check: it issues a GET to the base URL with its own short
// timeout. Any HTTP response at all - including an error status - counts as reachable;
// only a transport-level failure is reported.
func (s *Session) Ping(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("target API is unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

// PostForm sends a form-encoded POST to <base URL>/<endpoint>. One attempt, no retries.
// A transport-level failure is reported inside the RequestResult, never as a panic or an
// error return; the caller decides whether that fails the case softly or hard.
func (s *Session) PostForm(endpoint string, form url.Values, logger framework.Logger) RequestResult {
	requestURL := s.endpointURL(endpoint)
	body := form.Encode()
	req, err := http.NewRequest(http.MethodPost, requestURL, strings.NewReader(body))
	if err != nil {
		return RequestResult{URL: requestURL, SentBody: body, TransportError: o.Some(err.Error())}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, body, logger)
}

// DoJSON sends a request with an optional JSON body to <base URL><route>. It is used by
// the alternate "endpoints" configuration shape, whose cases post JSON documents instead
// of form fields.
func (s *Session) DoJSON(method string, route string, payload ldvalue.Value, logger framework.Logger) RequestResult {
	requestURL := s.endpointURL(route)
	body := ""
	var bodyReader io.Reader
	if !payload.IsNull() {
		body = payload.JSONString()
		bodyReader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		return RequestResult{URL: requestURL, SentBody: body, TransportError: o.Some(err.Error())}
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.do(req, body, logger)
}

func (s *Session) do(req *http.Request, sentBody string, logger framework.Logger) RequestResult {
	if logger == nil {
		logger = s.logger
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	result := RequestResult{URL: req.URL.String(), SentBody: sentBody}
	logger.Printf("sending %s %s body=%q", req.Method, req.URL, sentBody)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		logger.Printf("transport failure: %s", err)
		result.TransportError = o.Some(err.Error())
		return result
	}
	elapsed := time.Since(start)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Printf("failed to read response body: %s", err)
		result.TransportError = o.Some(fmt.Sprintf("error reading response body: %s", err))
		return result
	}

	result.Status = o.Some(resp.StatusCode)
	result.Elapsed = o.Some(elapsed)
	result.ResponseText = o.Some(string(data))
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && json.Valid(trimmed) {
		result.ResponseJSON = o.Some(ldvalue.Parse(trimmed))
	}
	logger.Printf("received status %d in %s, body=%q", resp.StatusCode, elapsed, truncateForLog(string(data)))
	return result
}

func (s *Session) endpointURL(endpoint string) string {
	if strings.HasPrefix(endpoint, "/") {
		return s.baseURL + endpoint
	}
	return s.baseURL + "/" + endpoint
}

const maxLoggedBodyLength = 200

func truncateForLog(body string) string {
	if len(body) > maxLoggedBodyLength {
		return body[:maxLoggedBodyLength] + "..."
	}
	return body
}
