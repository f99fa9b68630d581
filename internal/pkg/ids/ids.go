// Package ids generates the identifiers shared by the metadata store and
// the vector store. An asset id correlates one row in each store and is
// never reused after deletion.
package ids

import "github.com/google/uuid"

func New() string {
	return uuid.NewString()
}

func NewThreadID() string {
	return uuid.NewString()
}
