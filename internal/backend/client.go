package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/MikeSquared-Agency/Rankboard/internal/metrics"
)

type Client interface {
	ListCriteria(ctx context.Context) ([]Criterion, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListMethods(ctx context.Context) ([]Method, error)
	ListScores(ctx context.Context, runID int64) ([]ScoreRecord, error)
	ListFinalScores(ctx context.Context, runID int64) ([]FinalScoreRecord, error)
	ListCriteriaScores(ctx context.Context) ([]ScoreRecord, error)
	Compute(ctx context.Context, runID int64, method string) (*ComputeResult, error)
	SaveFinalScores(ctx context.Context, runID int64) error
	ComputeCriteriaScores(ctx context.Context) error
	RecomputeCriteriaScores(ctx context.Context) error
	Report(ctx context.Context, runID int64, period string) ([]ReportRow, error)
}

// StatusError is returned when the backend answers with a status >= 400.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.Code, e.Body)
}

type tokenKey struct{}

// WithToken attaches a caller bearer token to ctx. It takes precedence over
// the client's configured token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the caller token stored by WithToken.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path, endpoint string, body io.Reader, contentType string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if tok := TokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	} else if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestErrors.WithLabelValues(endpoint, "transport").Inc()
		return nil, fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		metrics.UpstreamRequestErrors.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// getList fetches path and decodes a JSON array into T. Anything other than
// an array decodes to an empty list.
func getList[T any](ctx context.Context, c *HTTPClient, path, endpoint string) ([]T, error) {
	data, err := c.doReq(ctx, http.MethodGet, path, endpoint, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[T](data, path, c.logger)
}

func decodeList[T any](data []byte, path string, logger *slog.Logger) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if logger != nil {
			logger.Warn("backend returned non-array body, treating as empty", "path", path)
		}
		return []T{}, nil
	}
	out := []T{}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

func (c *HTTPClient) ListCriteria(ctx context.Context) ([]Criterion, error) {
	return getList[Criterion](ctx, c, "/criterias", "criterias")
}

func (c *HTTPClient) ListProducts(ctx context.Context) ([]Product, error) {
	return getList[Product](ctx, c, "/products", "products")
}

func (c *HTTPClient) ListMethods(ctx context.Context) ([]Method, error) {
	return getList[Method](ctx, c, "/methods", "methods")
}

func (c *HTTPClient) ListScores(ctx context.Context, runID int64) ([]ScoreRecord, error) {
	return getList[ScoreRecord](ctx, c, "/scores/"+strconv.FormatInt(runID, 10), "scores")
}

func (c *HTTPClient) ListFinalScores(ctx context.Context, runID int64) ([]FinalScoreRecord, error) {
	return getList[FinalScoreRecord](ctx, c, "/final_scores/"+strconv.FormatInt(runID, 10), "final_scores")
}

func (c *HTTPClient) ListCriteriaScores(ctx context.Context) ([]ScoreRecord, error) {
	return getList[ScoreRecord](ctx, c, "/criteria_scores", "criteria_scores")
}

func (c *HTTPClient) Compute(ctx context.Context, runID int64, method string) (*ComputeResult, error) {
	path := "/scores/" + strconv.FormatInt(runID, 10) + "/" + method
	data, err := c.doReq(ctx, http.MethodPost, path, "compute", bytes.NewReader([]byte("{}")), "application/json")
	if err != nil {
		return nil, err
	}
	var res ComputeResult
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return &res, nil
}

func (c *HTTPClient) SaveFinalScores(ctx context.Context, runID int64) error {
	_, err := c.doReq(ctx, http.MethodPost, "/final_scores/"+strconv.FormatInt(runID, 10), "save_final_scores",
		bytes.NewReader([]byte("{}")), "application/json")
	return err
}

func (c *HTTPClient) ComputeCriteriaScores(ctx context.Context) error {
	_, err := c.doReq(ctx, http.MethodPost, "/criteria_scores", "compute_criteria_scores",
		bytes.NewReader([]byte("{}")), "application/json")
	return err
}

func (c *HTTPClient) RecomputeCriteriaScores(ctx context.Context) error {
	_, err := c.doReq(ctx, http.MethodPut, "/criteria_scores", "recompute_criteria_scores",
		bytes.NewReader([]byte("{}")), "application/json")
	return err
}

// Report posts the period as a multipart form, the way the report endpoint
// expects it.
func (c *HTTPClient) Report(ctx context.Context, runID int64, period string) ([]ReportRow, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("period", period); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	path := "/reports/" + strconv.FormatInt(runID, 10)
	data, err := c.doReq(ctx, http.MethodPost, path, "reports", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return decodeList[ReportRow](data, path, c.logger)
}
