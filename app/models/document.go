package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
)

// Document is a schemaless record as stored in and returned from a
// collection. Tools, orders, reviews and user profiles are all documents:
// the server stores what the client sent and echoes back what the store
// returns.
type Document = bson.M

// FieldID is the store-assigned identifier field.
const FieldID = "_id"

// Normalize converts a decoded JSON body into a storable document:
// json.Number values become int64 or float64, recursively. A nil input
// yields an empty document.
func Normalize(in map[string]any) Document {
	out := make(Document, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		return Normalize(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
