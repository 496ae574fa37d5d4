package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/easyfin/internal/table"
)

// maxAPIResponse caps how much of an upstream response is read.
const maxAPIResponse = 64 << 20

// APISource fetches rows from the Easyfin backend API: GET <base>/<endpoint>.
type APISource struct {
	base   *url.URL
	client *http.Client
	token  string
}

// NewAPISource creates a source for baseURL. token is sent when the
// request's session carries none.
func NewAPISource(baseURL, token string, timeout time.Duration) (*APISource, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https: %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &APISource{
		base:   u,
		client: &http.Client{Timeout: timeout},
		token:  token,
	}, nil
}

// Rows fetches the table's endpoint and decodes a JSON array of rows.
func (s *APISource) Rows(ctx context.Context, info TableInfo) ([]table.Row, error) {
	ref, err := url.Parse(strings.TrimLeft(info.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("endpoint %q: %w", info.Endpoint, err)
	}
	target := s.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	token := s.token
	if sess, ok := SessionFromContext(ctx); ok && sess.Token != "" {
		token = sess.Token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", target.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("get %s: unexpected status %d", target.Path, resp.StatusCode)
	}

	return DecodeRows(io.LimitReader(resp.Body, maxAPIResponse))
}
