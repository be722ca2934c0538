package tradier_api

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

	"gotradier/go_src/trade_exceptions"

	"github.com/sirupsen/logrus"
)

const defaultTimeoutSeconds = 10

// Document is a decoded JSON object as returned by the API. Numbers are kept
// as json.Number so that money values are not rounded through float64.
type Document map[string]interface{}

// Dispatcher performs one authenticated API call and returns the decoded body.
type Dispatcher interface {
	Fetch(ctx context.Context, method, path string, payload url.Values) (Document, error)
}

// Client is the base request dispatcher. One attempt per call; callers that
// want retries wrap it themselves.
type Client struct {
	httpClient     *http.Client
	session        *Session
	apiBaseURL     string
	rateLimiter    *RateLimiter
	defaultHeaders http.Header
}

func NewClient(session *Session, clientTimeout time.Duration) (*Client, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	if clientTimeout <= 0 {
		clientTimeout = time.Duration(defaultTimeoutSeconds) * time.Second
	}

	client := &Client{
		httpClient:     &http.Client{Timeout: clientTimeout},
		session:        session,
		apiBaseURL:     session.Endpoint().BaseURL(),
		rateLimiter:    NewRateLimiter(DefaultLowRequestsThreshold),
		defaultHeaders: make(http.Header),
	}
	client.defaultHeaders.Set("Accept", "application/json")
	client.defaultHeaders.Set("Cache-Control", "no-cache")
	return client, nil
}

// SetAPIBaseURL points the client at another server, e.g. an httptest server.
func (c *Client) SetAPIBaseURL(baseURL string) {
	c.apiBaseURL = baseURL
}

// SetHTTPClient replaces the underlying transport client.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	if httpClient != nil {
		c.httpClient = httpClient
	}
}

func (c *Client) buildURL(path string) (*url.URL, error) {
	fullURL, err := url.Parse(c.apiBaseURL)
	if err != nil {
		return nil, &trade_exceptions.ConfigurationError{Message: fmt.Sprintf("invalid base API URL: %v", err), Key: c.apiBaseURL}
	}
	fullURL.Path = strings.TrimRight(fullURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return fullURL, nil
}

// Fetch issues method against path. GET payloads go in the query string,
// anything else is sent as a form body.
func (c *Client) Fetch(ctx context.Context, method, path string, payload url.Values) (Document, error) {
	method = strings.ToUpper(method)
	fullURL, err := c.buildURL(path)
	if err != nil {
		return nil, err
	}

	var requestBody io.Reader
	if method == http.MethodGet || method == http.MethodDelete {
		if len(payload) > 0 {
			fullURL.RawQuery = payload.Encode()
		}
	} else if payload != nil {
		requestBody = strings.NewReader(payload.Encode())
	}

	if err := c.rateLimiter.WaitIfNeeded(ctx); err != nil {
		return nil, &trade_exceptions.NetworkError{Method: method, URL: fullURL.String(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL.String(), requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request for %s %s: %w", method, fullURL.String(), err)
	}
	for key, values := range c.defaultHeaders {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token())
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	logrus.Debugf("Tradier API Request: %s %s", method, req.URL.String())

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &trade_exceptions.NetworkError{Method: method, URL: fullURL.String(), Err: err}
	}
	defer httpResp.Body.Close()

	c.rateLimiter.UpdateLimits(httpResp.Header)

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &trade_exceptions.NetworkError{Method: method, URL: fullURL.String(), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	logrus.Debugf("Tradier API Response: %s %s -> %d (%d bytes)", method, req.URL.String(), httpResp.StatusCode, len(bodyBytes))

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return nil, &trade_exceptions.AuthError{StatusCode: httpResp.StatusCode, URL: fullURL.String(), Body: string(bodyBytes)}
	case httpResp.StatusCode < 200 || httpResp.StatusCode >= 300:
		return nil, &trade_exceptions.ApiError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			URL:        fullURL.String(),
			Body:       string(bodyBytes),
		}
	}

	doc, err := decodeDocument(bodyBytes)
	if err != nil {
		return nil, &trade_exceptions.ApiError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			URL:        fullURL.String(),
			Body:       string(bodyBytes),
			Err:        err,
		}
	}
	return doc, nil
}

func decodeDocument(body []byte) (Document, error) {
	doc := Document{}
	if len(bytes.TrimSpace(body)) == 0 {
		return doc, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response JSON object: %w", err)
	}
	return doc, nil
}
