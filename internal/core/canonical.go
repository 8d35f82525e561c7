package core

import (
	"bytes"
	"encoding/json"
	"sort"
)

// MarshalCanonical encodes v as compact JSON with object keys sorted at every
// level and without HTML escaping, so equal values always produce equal text.
func MarshalCanonical(v any) ([]byte, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return sortedJSON(raw), nil
	}
	b, err := encode(v)
	if err != nil {
		return nil, err
	}
	return sortedJSON(b), nil
}

// sortedJSON recursively sorts JSON object keys.
func sortedJSON(data json.RawMessage) []byte {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err == nil && obj != nil {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result := []byte("{")
		for i, k := range keys {
			if i > 0 {
				result = append(result, ',')
			}
			kb, _ := encode(k)
			result = append(result, kb...)
			result = append(result, ':')
			result = append(result, sortedJSON(obj[k])...)
		}
		return append(result, '}')
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil && arr != nil {
		result := []byte("[")
		for i, el := range arr {
			if i > 0 {
				result = append(result, ',')
			}
			result = append(result, sortedJSON(el)...)
		}
		return append(result, ']')
	}

	// Scalar: re-encode compactly.
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return data
	}
	b, err := encode(v)
	if err != nil {
		return data
	}
	return b
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
