// Package client drives one screenshot scan against the analyze endpoint:
// it encodes the image, posts it, interprets the reply and tracks the
// idle/loading/result/error state a UI renders from.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/sozercan/rizziq/apimodels"
	"github.com/sozercan/rizziq/internal/interpreter"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateResult  State = "result"
	StateError   State = "error"
)

var (
	// ErrScanInProgress is returned when a scan is started while another one
	// on the same Scanner has not finished.
	ErrScanInProgress = errors.New("scan already in progress")
	ErrNoImage        = errors.New("no image selected")
)

// APIError is a non-200 reply from the endpoint.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

type Option func(*Scanner)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Scanner) {
		s.httpClient = c
	}
}

// WithPath overrides the analyze route, "/api/analyze" by default.
func WithPath(path string) Option {
	return func(s *Scanner) {
		s.path = path
	}
}

// Scanner runs at most one scan at a time.
type Scanner struct {
	baseURL    string
	path       string
	httpClient *http.Client
	inflight   *semaphore.Weighted

	mu     sync.Mutex
	state  State
	result interpreter.Result
	err    error
}

func New(baseURL string, opts ...Option) *Scanner {
	s := &Scanner{
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       "/api/analyze",
		httpClient: http.DefaultClient,
		inflight:   semaphore.NewWeighted(1),
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanFile reads an image from disk and scans it.
func (s *Scanner) ScanFile(ctx context.Context, path string) (interpreter.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return interpreter.Result{}, fmt.Errorf("read image: %w", err)
	}
	return s.Scan(ctx, data)
}

// Scan posts one image and returns the interpreted reply. Starting a scan
// discards the previous result.
func (s *Scanner) Scan(ctx context.Context, image []byte) (interpreter.Result, error) {
	if len(image) == 0 {
		return interpreter.Result{}, ErrNoImage
	}
	if !s.inflight.TryAcquire(1) {
		return interpreter.Result{}, ErrScanInProgress
	}
	defer s.inflight.Release(1)

	s.set(StateLoading, interpreter.Result{}, nil)

	result, err := s.post(ctx, base64.StdEncoding.EncodeToString(image))
	if err != nil {
		slog.Debug("Scan failed", "error", err)
		s.set(StateError, interpreter.Result{}, err)
		return interpreter.Result{}, err
	}

	s.set(StateResult, result, nil)
	return result, nil
}

func (s *Scanner) post(ctx context.Context, encoded string) (interpreter.Result, error) {
	body, err := json.Marshal(apimodels.NewAnalysisRequest(encoded))
	if err != nil {
		return interpreter.Result{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+s.path, bytes.NewReader(body))
	if err != nil {
		return interpreter.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return interpreter.Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return interpreter.Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp apimodels.ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			apiErr.Details = errResp.Details
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return interpreter.Result{}, apiErr
	}

	var out apimodels.AnalysisResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return interpreter.Result{}, fmt.Errorf("decode response: %w", err)
	}
	return out.Interpret(), nil
}

func (s *Scanner) set(state State, result interpreter.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.result = result
	s.err = err
}

func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the last successful result, if the scanner is in StateResult.
func (s *Scanner) Result() (interpreter.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.state == StateResult
}

// Err returns the failure of the last scan, if the scanner is in StateError.
func (s *Scanner) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Reset returns an idle scanner to StateIdle. It has no effect while a scan is running.
func (s *Scanner) Reset() {
	if !s.inflight.TryAcquire(1) {
		return
	}
	defer s.inflight.Release(1)
	s.set(StateIdle, interpreter.Result{}, nil)
}
