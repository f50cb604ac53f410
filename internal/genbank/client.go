package genbank

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the NCBI E-utilities root.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

const maxRecordBytes = 64 << 20

var accessionRe = regexp.MustCompile(`^[A-Za-z]{1,6}_?[0-9]+(\.[0-9]+)?$`)

// ErrInvalidAccession is returned before any request for malformed identifiers.
var ErrInvalidAccession = errors.New("invalid accession")

// Client fetches GenBank flat files. Each Fetch is a single request; there is
// no retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	email      string
	tool       string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another E-utilities root (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithIdentity sets the api_key/email/tool parameters NCBI asks callers to send.
func WithIdentity(apiKey, email, tool string) Option {
	return func(c *Client) {
		c.apiKey, c.email, c.tool = apiKey, email, tool
	}
}

// NewClient returns a client whose requests are bounded by timeout.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    DefaultBaseURL,
		tool:       "biotab",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchRaw returns the GenBank flat file for accession.
func (c *Client) FetchRaw(ctx context.Context, accession string) (string, error) {
	accession = strings.TrimSpace(accession)
	if !accessionRe.MatchString(accession) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccession, accession)
	}
	q := url.Values{}
	q.Set("db", "nuccore")
	q.Set("id", accession)
	q.Set("rettype", "gb")
	q.Set("retmode", "text")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	if c.email != "" {
		q.Set("email", c.email)
	}
	if c.tool != "" {
		q.Set("tool", c.tool)
	}
	endpoint := c.baseURL + "/efetch.fcgi?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &UnreachableError{Host: req.URL.Host, Err: err}
	}
	defer resp.Body.Close()
	logrus.WithFields(logrus.Fields{
		"accession": accession,
		"status":    resp.StatusCode,
		"elapsed":   time.Since(start).Round(time.Millisecond),
	}).Debug("efetch")

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRecordBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: firstLine(string(body))}
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
			return "", &NotFoundError{Accession: accession, APIError: apiErr}
		}
		return "", apiErr
	}
	text := string(body)
	// efetch answers unknown ids with 200 and an error line instead of a record.
	if !strings.HasPrefix(strings.TrimLeft(text, "\r\n "), "LOCUS") {
		return "", &NotFoundError{Accession: accession, APIError: &APIError{StatusCode: resp.StatusCode, Message: firstLine(text)}}
	}
	return text, nil
}

// Fetch downloads and parses one record.
func (c *Client) Fetch(ctx context.Context, accession string) (*Record, error) {
	raw, err := c.FetchRaw(ctx, accession)
	if err != nil {
		return nil, err
	}
	rec, err := Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", accession, err)
	}
	return rec, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return strings.TrimSpace(s)
}
