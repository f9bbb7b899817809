// Package json is the JSON codec used for debug state dumps.
package json

import jsoniter "github.com/json-iterator/go"

var handler = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalIndent encodes v with each nested level indented.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return handler.MarshalIndent(v, prefix, indent)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	return handler.Unmarshal(data, v)
}
