package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extra holds JSON members a type does not model. They survive a decode and
// encode round trip untouched.
type Extra map[string]json.RawMessage

var knownFieldsCache sync.Map // reflect.Type -> map[string]struct{}

func knownFields(t reflect.Type) map[string]struct{} {
	if v, ok := knownFieldsCache.Load(t); ok {
		return v.(map[string]struct{})
	}
	fields := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = struct{}{}
	}
	knownFieldsCache.Store(t, fields)
	return fields
}

// decodeWithExtra decodes data into alias (a pointer to a struct without
// custom JSON methods) and returns the members alias does not declare. Only
// exact-case member names fill declared fields; a member that differs from a
// field name only in case is kept verbatim as extra.
func decodeWithExtra(data []byte, alias any) (Extra, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, json.Unmarshal(data, alias)
	}

	known := knownFields(reflect.TypeOf(alias).Elem())
	declared := make(map[string]json.RawMessage, len(known))
	for name, value := range raw {
		if _, ok := known[name]; ok {
			declared[name] = value
			delete(raw, name)
		}
	}

	fields, err := json.Marshal(declared)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fields, alias); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// encodeWithExtra encodes alias and merges extra into the resulting object.
// Declared fields win over extra members of the same name.
func encodeWithExtra(alias any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(alias)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	known := knownFields(reflect.TypeOf(alias).Elem())
	for k, v := range extra {
		if _, ok := known[k]; ok {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}
