package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

const healthQuery = "{ __typename }"

// Client issues authenticated GraphQL requests against a single endpoint.
// One instance is shared by a whole test session; tests run sequentially,
// so it is never used concurrently.
type Client struct {
	endpoint string
	http     *http.Client
	tokens   TokenProvider
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithInsecureTLS disables certificate verification, matching endpoints that
// sit behind self-signed test gateways.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(endpoint string, tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		tokens:   tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result carries what the runner needs from one exchange.
type Result struct {
	Status    int
	Envelope  Envelope
	LatencyMS int64
}

type requestEnvelope struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Execute POSTs {query, variables} and returns the parsed envelope.
// Status 400 with a JSON body containing errors is a valid GraphQL error
// response, not a transport failure. Any other non-2xx status is a
// *TransportError; a non-JSON body is a *DecodeError.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (Result, error) {
	status, raw, latency, err := c.post(ctx, query, variables)
	res := Result{Status: status, LatencyMS: latency}
	if err != nil {
		return res, err
	}

	switch {
	case status >= 200 && status <= 299:
		env, perr := ParseEnvelope(raw)
		if perr != nil {
			return res, perr
		}
		res.Envelope = env
		return res, nil
	case status == http.StatusBadRequest:
		env, perr := ParseEnvelope(raw)
		if perr == nil && env.HasErrors() {
			log.Printf("client.execute: 400 with graphql errors count=%d", len(env.Errors))
			res.Envelope = env
			return res, nil
		}
		return res, &TransportError{Status: status, Body: string(raw)}
	default:
		return res, &TransportError{Status: status, Body: string(raw)}
	}
}

// Health sends a minimal introspection probe before the session starts.
// Both 200 and 400 mean the endpoint speaks GraphQL.
func (c *Client) Health(ctx context.Context) error {
	status, _, _, err := c.post(ctx, healthQuery, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusBadRequest {
		return &TransportError{Status: status, Body: "health probe rejected"}
	}
	log.Printf("client.health: endpoint healthy status=%d", status)
	return nil
}

func (c *Client) post(ctx context.Context, query string, variables map[string]any) (int, []byte, int64, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, nil, 0, err
	}

	payload, err := json.Marshal(requestEnvelope{Query: query, Variables: variables})
	if err != nil {
		return 0, nil, 0, fmt.Errorf("marshal request envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, 0, fmt.Errorf("NewRequest: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	log.Printf("client.execute: sending url=%s bytes=%d authorization=<token-hidden>", c.endpoint, len(payload))
	resp, err := c.http.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return 0, nil, latency, fmt.Errorf("Do: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, latency, fmt.Errorf("read body: %w", err)
	}
	log.Printf("client.execute: received url=%s status=%d latency_ms=%d bytes=%d", c.endpoint, resp.StatusCode, latency, len(raw))
	return resp.StatusCode, raw, latency, nil
}
