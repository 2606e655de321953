package idgen

import (
	"github.com/teris-io/shortid"
)

var sid, _ = shortid.New(1, shortid.DEFAULT_ABC, 7381)

// GenerateID creates a random short ID, used for tagging workload runs
func GenerateID() (id string, err error) {
	return sid.Generate()
}
