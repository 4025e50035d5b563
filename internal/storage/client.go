package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/pkg/httpclient"
	"github.com/utafrali/gearcatalog/pkg/tracing"
)

const (
	serviceName = "storage"
	tracerName  = "github.com/utafrali/gearcatalog/internal/storage"

	// APIKeyHeader carries the storage service credential.
	APIKeyHeader = "X-API-Key"
)

// Rendition query strings understood by the media endpoint.
const (
	ThumbParams   = "?width=400&format=webp&quality=75"
	PreviewParams = "?width=1200&format=webp&quality=85"
)

// VariantQuery asks for the asset linked to LinkID.
type VariantQuery struct {
	LinkID string `json:"link_id"`
	Role   string `json:"role,omitempty"`
}

// Asset is the storage service's description of a linked media asset.
type Asset struct {
	ID               int64                 `json:"id"`
	Type             string                `json:"type"`
	Role             string                `json:"role"`
	Width            *int                  `json:"width"`
	Height           *int                  `json:"height"`
	AspectRatio      *float64              `json:"aspectRatio"`
	Variants         *domain.ImageVariants `json:"variants"`
	Video            *domain.VideoVariants `json:"video"`
	OriginalFilename string                `json:"original_filename"`
	MimeType         string                `json:"mime_type"`
	FileSizeBytes    *int64                `json:"file_size_bytes"`
}

// Client talks to the storage service.
type Client struct {
	baseURL string
	apiKey  string
	http    httpclient.Doer
	logger  *slog.Logger
}

// NewClient creates a storage client. doer is normally a circuit breaker
// wrapped httpclient.Client.
func NewClient(baseURL, apiKey string, doer httpclient.Doer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    doer,
		logger:  logger,
	}
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// MediaURL returns the delivery URL of a storage object. params is a query
// string such as ThumbParams, or "" for the original.
func (c *Client) MediaURL(id int64, params string) string {
	return c.baseURL + "/storage/media/" + strconv.FormatInt(id, 10) + params
}

// BatchVariants resolves many link ids in one call. Link ids unknown to the
// service are absent from the result.
func (c *Client) BatchVariants(ctx context.Context, queries []VariantQuery) (result map[string]Asset, err error) {
	if len(queries) == 0 {
		return map[string]Asset{}, nil
	}

	ctx, span := tracing.Start(ctx, tracerName, "storage.BatchVariants",
		attribute.Int("storage.query_count", len(queries)),
	)
	defer func() { tracing.End(span, err) }()

	body, err := json.Marshal(struct {
		Queries []VariantQuery `json:"queries"`
	}{Queries: queries})
	if err != nil {
		return nil, fmt.Errorf("marshal batch request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/storage/asset-refs/batch", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var payload struct {
		Results map[string]Asset `json:"results"`
	}
	if err := c.doJSON(ctx, req, &payload); err != nil {
		return nil, fmt.Errorf("batch variants: %w", err)
	}
	if payload.Results == nil {
		payload.Results = map[string]Asset{}
	}
	return payload.Results, nil
}

// GetObject fetches one storage object.
func (c *Client) GetObject(ctx context.Context, id int64) (obj *Object, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "storage.GetObject",
		attribute.Int64("storage.object_id", id),
	)
	defer func() { tracing.End(span, err) }()

	req, err := c.newRequest(ctx, http.MethodGet, "/storage/objects/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.doRaw(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("get object %d: %w", id, err)
	}
	return ParseObject(raw)
}

// ListObjects returns one page of the tenant's storage objects.
func (c *Client) ListObjects(ctx context.Context, limit, offset int) (page *ObjectPage, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "storage.ListObjects",
		attribute.Int("storage.limit", limit),
		attribute.Int("storage.offset", offset),
	)
	defer func() { tracing.End(span, err) }()

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("mine", "false")

	req, err := c.newRequest(ctx, http.MethodGet, "/storage/list?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.doRaw(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	return ParseObjectPage(raw)
}

// FetchMedia downloads a rendition of a storage object and returns its size.
// The content is discarded.
func (c *Client) FetchMedia(ctx context.Context, id int64, params string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.MediaURL(id, params), http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create media request: %w", err)
	}
	req.Header.Set(APIKeyHeader, c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("fetch media %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch media %d: %w", id, httpclient.ParseResponseError(resp, serviceName))
	}
	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read media %d: %w", id, err)
	}
	return n, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create storage request: %w", err)
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doRaw(ctx context.Context, req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

func (c *Client) doJSON(ctx context.Context, req *http.Request, v any) error {
	raw, err := c.doRaw(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
