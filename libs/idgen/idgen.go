// Package idgen generates random 64-bit identifiers for data models.
package idgen

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/bitmap357/hospital-test/libs/errors"
)

// NewID returns a new random non-zero 64-bit ID. The top bit is cleared so
// the value also fits in a signed BIGINT column.
func NewID() (uint64, error) {
	var b [8]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return 0, errors.Trace(err)
		}
		id := binary.BigEndian.Uint64(b[:]) &^ (uint64(1) << 63)
		if id != 0 {
			return id, nil
		}
	}
}
