package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/gearcatalog/pkg/tracing"
)

// Upload defaults for catalog media registered as external objects.
const (
	DefaultTenantID     = "oneal"
	DefaultContext      = "oneal_product"
	DefaultCollectionID = "oneal_catalog"
	StorageModeExternal = "external"
)

// placeholderPNG is a 1x1 transparent PNG sent as the file part of external
// registrations. The storage service serves ExternalURI instead.
var placeholderPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==",
)

// ExternalObject describes a remote file to register with the storage
// service without copying its bytes.
type ExternalObject struct {
	LinkID       string
	Title        string
	ExternalURI  string
	TenantID     string
	Context      string
	CollectionID string
}

func (o ExternalObject) fields() [][2]string {
	tenant, ctxName, collection := o.TenantID, o.Context, o.CollectionID
	if tenant == "" {
		tenant = DefaultTenantID
	}
	if ctxName == "" {
		ctxName = DefaultContext
	}
	if collection == "" {
		collection = DefaultCollectionID
	}
	return [][2]string{
		{"tenant_id", tenant},
		{"context", ctxName},
		{"collection_id", collection},
		{"link_id", o.LinkID},
		{"title", o.Title},
		{"storage_mode", StorageModeExternal},
		{"external_uri", o.ExternalURI},
	}
}

// RegisterExternal uploads a placeholder file carrying obj's metadata and
// returns the id of the new storage object.
func (c *Client) RegisterExternal(ctx context.Context, obj ExternalObject) (id int64, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "storage.RegisterExternal",
		attribute.String("storage.link_id", obj.LinkID),
	)
	defer func() { tracing.End(span, err) }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	filename := obj.Title
	if filename == "" {
		filename = "placeholder"
	}
	part, err := mw.CreateFormFile("file", filename+".png")
	if err != nil {
		return 0, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(placeholderPNG); err != nil {
		return 0, fmt.Errorf("write file part: %w", err)
	}
	for _, f := range obj.fields() {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return 0, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/storage/upload", &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	raw, err := c.doRaw(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("register external %s: %w", obj.LinkID, err)
	}

	res := gjson.GetBytes(raw, "id")
	if !res.Exists() {
		return 0, fmt.Errorf("register external %s: response has no id", obj.LinkID)
	}
	return res.Int(), nil
}
