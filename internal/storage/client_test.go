package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/gearcatalog/pkg/errors"
	"github.com/utafrali/gearcatalog/pkg/httpclient"
)

const testAPIKey = "test-key"

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	hc := httpclient.New(httpclient.Config{
		Name:            "storage-test",
		Timeout:         2 * time.Second,
		MaxConnsPerHost: 4,
	})
	return NewClient(srv.URL+"/", testAPIKey, hc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMediaURL(t *testing.T) {
	c := NewClient("https://storage.example/", "k", nil, nil)

	assert.Equal(t, "https://storage.example", c.BaseURL())
	assert.Equal(t, "https://storage.example/storage/media/42", c.MediaURL(42, ""))
	assert.Equal(t, "https://storage.example/storage/media/42?width=400&format=webp&quality=75", c.MediaURL(42, ThumbParams))
	assert.Equal(t, "https://storage.example/storage/media/42?width=1200&format=webp&quality=85", c.MediaURL(42, PreviewParams))
}

func TestBatchVariants_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/asset-refs/batch", r.URL.Path)
		assert.Equal(t, testAPIKey, r.Header.Get(APIKeyHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Queries []VariantQuery `json:"queries"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []VariantQuery{
			{LinkID: "mx-1-hero", Role: "hero"},
			{LinkID: "mx-1-detail"},
		}, body.Queries)

		_, _ = w.Write([]byte(`{"results":{"mx-1-hero":{
			"id": 7, "type": "image", "role": "hero", "width": 1600, "height": 900,
			"variants": {"thumb": "https://s/7?w=400", "preview": "https://s/7?w=1200", "print": "https://s/7"},
			"mime_type": "image/jpeg"
		}}}`))
	})

	got, err := c.BatchVariants(context.Background(), []VariantQuery{
		{LinkID: "mx-1-hero", Role: "hero"},
		{LinkID: "mx-1-detail"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	asset := got["mx-1-hero"]
	assert.Equal(t, int64(7), asset.ID)
	assert.Equal(t, "image", asset.Type)
	require.NotNil(t, asset.Width)
	assert.Equal(t, 1600, *asset.Width)
	require.NotNil(t, asset.Variants)
	assert.Equal(t, "https://s/7?w=1200", asset.Variants.Preview)
	assert.Equal(t, "image/jpeg", asset.MimeType)
	_, ok := got["mx-1-detail"]
	assert.False(t, ok)
}

func TestBatchVariants_EmptyQueriesSkipsCall(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	got, err := c.BatchVariants(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBatchVariants_NullResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":null}`))
	})

	got, err := c.BatchVariants(context.Background(), []VariantQuery{{LinkID: "a"}})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBatchVariants_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid API key"}`))
	})

	_, err := c.BatchVariants(context.Background(), []VariantQuery{{LinkID: "a"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestBatchVariants_BadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.BatchVariants(context.Background(), []VariantQuery{{LinkID: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestGetObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/objects/12", r.URL.Path)
		assert.Equal(t, testAPIKey, r.Header.Get(APIKeyHeader))
		_, _ = w.Write([]byte(`{"id":12,"link_id":"mtb-1","context":"oneal_product_mtb-1",
			"external_uri":"https://cdn.example/a.jpg","ai_tags":["red"]}`))
	})

	obj, err := c.GetObject(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, int64(12), obj.ID)
	assert.Equal(t, "mtb-1", obj.LinkID)
	assert.Equal(t, "oneal_product_mtb-1", obj.Context)
	assert.Equal(t, "https://cdn.example/a.jpg", obj.ExternalURI)
	assert.Contains(t, string(obj.Raw), "ai_tags")
}

func TestGetObject_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Object not found"}`))
	})

	_, err := c.GetObject(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestListObjects(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/list", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "100", r.URL.Query().Get("offset"))
		assert.Equal(t, "false", r.URL.Query().Get("mine"))
		_, _ = w.Write([]byte(`{"items":[{"id":1,"link_id":"a"},"junk",{"id":2,"external_uri":"https://x/y.png"}],"total":152}`))
	})

	page, err := c.ListObjects(context.Background(), 50, 100)
	require.NoError(t, err)
	assert.Equal(t, 152, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a", page.Items[0].LinkID)
	assert.Equal(t, "https://x/y.png", page.Items[1].ExternalURI)
}

func TestRegisterExternal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "oneal", r.FormValue("tenant_id"))
		assert.Equal(t, "oneal_product", r.FormValue("context"))
		assert.Equal(t, "oneal_catalog", r.FormValue("collection_id"))
		assert.Equal(t, "mx-0001-helmet", r.FormValue("link_id"))
		assert.Equal(t, "mx-0001-helmet-hero", r.FormValue("title"))
		assert.Equal(t, "external", r.FormValue("storage_mode"))
		assert.Equal(t, "https://cdn.example/h.jpg", r.FormValue("external_uri"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "mx-0001-helmet-hero.png", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, placeholderPNG, data)

		_, _ = w.Write([]byte(`{"id":314,"status":"stored"}`))
	})

	id, err := c.RegisterExternal(context.Background(), ExternalObject{
		LinkID:      "mx-0001-helmet",
		Title:       "mx-0001-helmet-hero",
		ExternalURI: "https://cdn.example/h.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(314), id)
}

func TestRegisterExternal_MissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"stored"}`))
	})

	_, err := c.RegisterExternal(context.Background(), ExternalObject{LinkID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
}

func TestFetchMedia(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/media/5", r.URL.Path)
		assert.Equal(t, "400", r.URL.Query().Get("width"))
		_, _ = w.Write(make([]byte, 2048))
	})

	n, err := c.FetchMedia(context.Background(), 5, ThumbParams)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), n)
}

func TestFetchMedia_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.FetchMedia(context.Background(), 5, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch media 5")
}

func TestParseObject_Invalid(t *testing.T) {
	_, err := ParseObject([]byte(`[1,2]`))
	assert.ErrorIs(t, err, ErrInvalidObject)

	_, err = ParseObject([]byte(`{`))
	assert.ErrorIs(t, err, ErrInvalidObject)
}
