package storage

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidObject is returned for payloads that are not a JSON object.
var ErrInvalidObject = errors.New("invalid storage object payload")

// Object is a storage object. Raw keeps the full payload for callers that
// need nested metadata.
type Object struct {
	ID          int64
	LinkID      string
	Context     string
	ExternalURI string
	Raw         []byte
}

// ObjectPage is one page of a storage object listing.
type ObjectPage struct {
	Items []Object
	Total int
}

// ParseObject reads the identifying fields of a storage object payload.
func ParseObject(raw []byte) (*Object, error) {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, ErrInvalidObject
	}
	obj := objectFromResult(gjson.ParseBytes(raw))
	obj.Raw = raw
	return &obj, nil
}

// ParseObjectPage reads a listing payload of the form {"items": [...],
// "total": n}.
func ParseObjectPage(raw []byte) (*ObjectPage, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("parse object page: %w", ErrInvalidObject)
	}
	doc := gjson.ParseBytes(raw)

	page := &ObjectPage{Total: int(doc.Get("total").Int())}
	doc.Get("items").ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		obj := objectFromResult(item)
		obj.Raw = []byte(item.Raw)
		page.Items = append(page.Items, obj)
		return true
	})
	return page, nil
}

func objectFromResult(r gjson.Result) Object {
	return Object{
		ID:          r.Get("id").Int(),
		LinkID:      r.Get("link_id").String(),
		Context:     r.Get("context").String(),
		ExternalURI: r.Get("external_uri").String(),
	}
}
