// Package backend is the HTTP client for the question-answering and
// case-asset APIs.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/casedesk/internal/config"
	"github.com/jask/casedesk/internal/model"
)

// ErrEmptyCaseID is returned for requests that need a case but got none.
var ErrEmptyCaseID = errors.New("backend: case id is empty")

// StatusError is a non-2xx response.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}

// Answer is the Ask response.
type Answer struct {
	Text      string
	Citations []model.Chunk
}

// Client talks to the backend over JSON/HTTP.
type Client struct {
	base       *url.URL
	http       *http.Client
	topK       int
	timeAnchor string
	log        *zap.Logger
}

// New builds a client from backend settings.
func New(cfg config.BackendConfig, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:       base,
		http:       &http.Client{Timeout: timeout},
		topK:       cfg.TopK,
		timeAnchor: strings.TrimSpace(cfg.TimeAnchor),
		log:        log.Named("backend"),
	}, nil
}

type askRequest struct {
	CaseID     string `json:"case_id"`
	Question   string `json:"question"`
	TopK       int    `json:"top_k,omitempty"`
	TimeAnchor string `json:"time_anchor,omitempty"`
}

type askResponse struct {
	Answer    string        `json:"answer"`
	Citations []model.Chunk `json:"citations"`
}

type listAssetsResponse struct {
	Assets []model.Asset `json:"assets"`
}

// Ask sends a question for caseID and returns the answer with its citations
// in the order the backend produced them.
func (c *Client) Ask(ctx context.Context, caseID, question string) (Answer, error) {
	body, err := json.Marshal(askRequest{
		CaseID:     caseID,
		Question:   question,
		TopK:       c.topK,
		TimeAnchor: c.timeAnchor,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("backend: marshal ask: %w", err)
	}
	var out askResponse
	if err := c.do(ctx, "ask", http.MethodPost, "qa/ask", bytes.NewReader(body), &out); err != nil {
		return Answer{}, err
	}
	return Answer{Text: out.Answer, Citations: out.Citations}, nil
}

// ListAssets returns the asset catalog for caseID. Relative asset URLs are
// resolved against the backend base URL.
func (c *Client) ListAssets(ctx context.Context, caseID string) ([]model.Asset, error) {
	if caseID == "" {
		return nil, ErrEmptyCaseID
	}
	var out listAssetsResponse
	ref := "case/" + url.PathEscape(caseID) + "/assets/list"
	if err := c.do(ctx, "list assets", http.MethodGet, ref, nil, &out); err != nil {
		return nil, err
	}
	assets := make([]model.Asset, 0, len(out.Assets))
	for _, a := range out.Assets {
		a.URL = c.resolve(a.URL)
		assets = append(assets, a)
	}
	return assets, nil
}

func (c *Client) resolve(raw string) string {
	ref, err := url.Parse(raw)
	if err != nil || raw == "" {
		return raw
	}
	return c.base.ResolveReference(ref).String()
}

func (c *Client) do(ctx context.Context, op, method, ref string, body io.Reader, out any) error {
	rel, err := url.Parse(ref)
	if err != nil {
		return fmt.Errorf("backend: %s: %w", op, err)
	}
	endpoint := c.base.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("backend: %s: creating request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("op", op), zap.String("request_id", reqID), zap.Error(err))
		return fmt.Errorf("backend: %s: %w", op, err)
	}
	defer resp.Body.Close()
	c.log.Debug("request done",
		zap.String("op", op), zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: %s: decoding response: %w", op, err)
	}
	return nil
}
