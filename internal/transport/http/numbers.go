package http

import (
	"encoding/json"
	"strconv"
)

// coerceNumber turns a raw JSON value into a float64 the way lenient clients
// expect: numbers pass through, numeric strings parse, and anything absent or
// malformed becomes zero instead of failing the request.
func coerceNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			return parsed
		}
	}
	return 0
}
