package cms

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/contentdex/internal/domain/record"
)

type listResponse struct {
	Data []map[string]any `json:"data"`
}

// decodeList parses a collection response. Both flat entries and
// {id, attributes} envelopes are accepted; envelopes are flattened.
func decodeList(r io.Reader) ([]record.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var resp listResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := make([]record.Record, 0, len(resp.Data))
	for _, item := range resp.Data {
		out = append(out, record.Record(flattenEntry(item)))
	}
	return out, nil
}

func flattenEntry(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	if attrs, ok := m["attributes"].(map[string]any); ok {
		for k, v := range attrs {
			out[k] = flattenValue(v)
		}
		if id, ok := m["id"]; ok {
			out["id"] = id
		}
		return out
	}
	for k, v := range m {
		out[k] = flattenValue(v)
	}
	return out
}

// flattenValue unwraps relation envelopes of the form {data: ...}.
func flattenValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if data, ok := t["data"]; ok && len(t) == 1 {
			return flattenValue(data)
		}
		return flattenEntry(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = flattenValue(item)
		}
		return out
	default:
		return v
	}
}
