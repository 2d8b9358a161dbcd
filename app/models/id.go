package models

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrMalformedID is returned when a client-supplied identifier is not a
// well-formed store key.
var ErrMalformedID = errors.New("malformed identifier")

// ParseID turns a path-supplied id into a store key.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrMalformedID, raw)
	}
	return id, nil
}
