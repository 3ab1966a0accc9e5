package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/session"
)

// HTTPClient implements LeadClient over the HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ LeadClient = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the server at baseURL
// (e.g. "http://localhost:8080"). A non-empty token is sent as a bearer
// token on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func (c *HTTPClient) GetLeads(ctx context.Context) ([]model.Lead, error) {
	var leads []model.Lead
	if err := c.doJSON(ctx, http.MethodGet, "/get_leads", nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (c *HTTPClient) Filter(ctx context.Context, req *FilterRequest) (*session.View, error) {
	var v session.View
	if err := c.doJSON(ctx, http.MethodPost, "/v1/filter", req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *HTTPClient) BuildGraph(ctx context.Context, req *GraphRequest) (*model.Graph, error) {
	var g model.Graph
	if err := c.doJSON(ctx, http.MethodPost, "/v1/graph", req, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *HTTPClient) RunPipeline(ctx context.Context, op string, leads []model.Lead) ([]model.Lead, error) {
	path, ok := pipelinePaths[op]
	if !ok {
		return nil, fmt.Errorf("unknown pipeline operation %q", op)
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	var out []model.Lead
	if err := c.doJSON(ctx, http.MethodPost, path, leads, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MapRelationships asks the server to infer relationships for leads.
func (c *HTTPClient) MapRelationships(ctx context.Context, leads []model.Lead) (model.RelationshipMap, error) {
	if leads == nil {
		leads = []model.Lead{}
	}
	var rels model.RelationshipMap
	if err := c.doJSON(ctx, http.MethodPost, "/map_relationships", leads, &rels); err != nil {
		return nil, err
	}
	return rels, nil
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- event stream ---

// StreamEvent is one event read from the server's SSE stream.
type StreamEvent struct {
	ID    uint64
	Topic string
	Data  json.RawMessage
}

// StreamEvents follows GET /v1/events/stream, calling fn for every event
// until ctx is done, the server closes the stream, or fn returns an error.
// topics narrows the stream; lastID resumes after a known event.
func (c *HTTPClient) StreamEvents(ctx context.Context, topics []string, lastID uint64, fn func(StreamEvent) error) error {
	path := "/v1/events/stream"
	if len(topics) > 0 {
		path += "?" + url.Values{"topics": {strings.Join(topics, ",")}}.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if lastID > 0 {
		req.Header.Set("Last-Event-ID", strconv.FormatUint(lastID, 10))
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return apiError(resp.StatusCode, body)
	}

	var evt StreamEvent
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4<<20)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if evt.Topic != "" {
				if err := fn(evt); err != nil {
					return err
				}
			}
			evt = StreamEvent{}
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		case strings.HasPrefix(line, "id:"):
			evt.ID, _ = strconv.ParseUint(strings.TrimPrefix(line, "id:"), 10, 64)
		case strings.HasPrefix(line, "event:"):
			evt.Topic = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:"):
			evt.Data = json.RawMessage(strings.TrimPrefix(line, "data:"))
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("reading event stream: %w", err)
	}
	return nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func apiError(status int, body []byte) *APIError {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &APIError{StatusCode: status, Message: errResp.Error}
	}
	return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// doJSON performs an HTTP request with optional JSON body and decodes the
// JSON response. Numbers decode as json.Number so integer lead ids keep
// their form. If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, respBody)
	}

	if result != nil {
		dec := json.NewDecoder(bytes.NewReader(respBody))
		dec.UseNumber()
		if err := dec.Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
