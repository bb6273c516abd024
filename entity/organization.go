package entity

import (
	"bytes"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Organization struct {
	ID   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string        `bson:"name,omitempty" json:"name"`
}

// OrganizationsIntersect reports whether the two id sets share at least
// one element: concatenate, sort, scan adjacent pairs. Order-insensitive,
// exact identity only.
func OrganizationsIntersect(a, b []bson.ObjectID) bool {
	combined := make([]bson.ObjectID, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)

	slices.SortFunc(combined, func(x, y bson.ObjectID) int {
		return bytes.Compare(x[:], y[:])
	})

	for i := 1; i < len(combined); i++ {
		if combined[i-1] == combined[i] {
			return true
		}
	}
	return false
}
