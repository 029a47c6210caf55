// Package api is a thin wrapper over the school portal REST API.
//
// It resolves endpoint paths against the configured base URL, authenticates every request with the bearer token
// kept in the keyring and decodes JSON replies. Domain packages adapt the decoded backend shapes.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/auth"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/constant"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/network"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ErrUnauthorized matches replies with status 401.
var ErrUnauthorized = errors.New("unauthorized (token might be expired, run `edifice login`)")

// TokenSource provides the bearer token of the current account.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource always returning the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// StatusError is returned for replies with a status of 400 or above.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.Code)
}

// Is makes errors.Is(err, ErrUnauthorized) hold for 401 replies.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// Client talks to the portal API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	userAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// New builds a Client for baseURL.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   base,
		http:      network.Client,
		tokens:    tokens,
		userAgent: constant.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FromConfig builds a Client from the api.* settings, authenticated with the keyring token of auth.login.
func FromConfig() (*Client, error) {
	timeout := time.Duration(viper.GetInt(key.APITimeout)) * time.Second
	return New(
		viper.GetString(key.APIURL),
		auth.Keyring{Login: viper.GetString(key.AuthLogin)},
		WithHTTPClient(network.New(timeout)),
	)
}

// BaseURL returns the portal root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get decodes the reply of a GET request into dest.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, dest)
}

// Post sends body as JSON and decodes the reply into dest.
func (c *Client) Post(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, dest)
}

// Put sends body as JSON and decodes the reply into dest.
func (c *Client) Put(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, dest)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, dest any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, dest)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	if c == nil {
		return errors.New("client is nil")
	}

	rel := &url.URL{Path: strings.TrimPrefix(path, "/"), RawQuery: query.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	entry := log.WithFields(logrus.Fields{
		"method":     method,
		"path":       rel.Path,
		"request_id": requestID,
	})

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).Error("request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	entry.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"elapsed": time.Since(started).String(),
	}).Debug("request done")

	if resp.StatusCode >= 400 {
		return &StatusError{Method: method, Path: "/" + rel.Path, Code: resp.StatusCode}
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", rel.Path, err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("portal url is empty, set it with `edifice config set api.url <url>`")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse portal url %q: %w", raw, err)
	}

	// Keep a path prefix (portals mounted under a sub-path) and make it a directory for ResolveReference.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
