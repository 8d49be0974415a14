//go:build stdjson

package jsoncompat

import (
	"encoding/json"
	"io"
)

// Marshal proxies to the standard library json.Marshal when the stdjson build tag is present.
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal proxies to the standard library json.Unmarshal when the stdjson build tag is present.
func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func NewDecoder(r io.Reader) Decoder { return json.NewDecoder(r) }

func NewEncoder(w io.Writer) Encoder { return json.NewEncoder(w) }
