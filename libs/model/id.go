// Package model provides shared building blocks for data model types.
package model

import (
	"database/sql/driver"
	"encoding/base32"
	"encoding/binary"
	"strconv"

	"github.com/bitmap357/hospital-test/libs/errors"
)

const base32EncodedUint64Len = 13 // length of 8 bytes as base32 with '=' stripped

// ErrInvalidID is returned when unmarshalling a malformed or wrongly prefixed ID.
var ErrInvalidID = errors.New("model: invalid ID")

// ObjectID is a prefixed 64-bit ID used by data models. The string form is
// the prefix followed by the base32 (hex alphabet) encoding of the value.
type ObjectID struct {
	Prefix  string
	Val     uint64
	IsValid bool
}

// MarshalText implements encoding.TextMarshaler
func (id ObjectID) MarshalText() ([]byte, error) {
	if !id.IsValid {
		return nil, nil
	}
	b := make([]byte, len(id.Prefix)+base32EncodedUint64Len+3+8) // +3 for padding, +8 for scratch area
	ib := b[len(b)-8:]
	b = b[:len(b)-8]
	copy(b, id.Prefix)
	binary.BigEndian.PutUint64(ib, id.Val)
	base32.HexEncoding.Encode(b[len(id.Prefix):], ib)
	return b[:len(b)-3], nil // -3 remove padding
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *ObjectID) UnmarshalText(text []byte) error {
	id.Val = 0
	id.IsValid = false
	if len(text) == 0 {
		return nil
	}
	if len(text) != len(id.Prefix)+base32EncodedUint64Len {
		return errors.Trace(ErrInvalidID)
	}
	s := string(text)
	if s[:len(id.Prefix)] != id.Prefix {
		return errors.Trace(ErrInvalidID)
	}
	b, err := base32.HexEncoding.DecodeString(s[len(id.Prefix):] + "===") // repad for decoding
	if err != nil {
		return errors.Trace(ErrInvalidID)
	}
	id.Val = binary.BigEndian.Uint64(b)
	id.IsValid = true
	return nil
}

// Scan implements sql.Scanner and expects src to be nil or of type uint64, int64, []byte, or string
func (id *ObjectID) Scan(src interface{}) error {
	id.Val = 0
	id.IsValid = false
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case uint64:
		id.Val = v
	case int64:
		id.Val = uint64(v)
	case []byte:
		var err error
		id.Val, err = strconv.ParseUint(string(v), 10, 64)
		if err != nil {
			return errors.Trace(errors.Errorf("model: failed to scan ObjectID string '%s': %s", v, err))
		}
	case string:
		var err error
		id.Val, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Trace(errors.Errorf("model: failed to scan ObjectID string '%s': %s", v, err))
		}
	default:
		return errors.Trace(errors.Errorf("model: unsupported type for ObjectID.Scan: %T", src))
	}
	id.IsValid = true
	return nil
}

// Value implements sql/driver.Valuer to allow an ObjectID to be used in an sql query
func (id ObjectID) Value() (driver.Value, error) {
	if !id.IsValid {
		return nil, nil
	}
	// int64 because uint64 isn't supported by the sql/driver.Valuer interface
	return int64(id.Val), nil
}

// String implements fmt.Stringer to provide a string representation of the ID
func (id ObjectID) String() string {
	b, _ := id.MarshalText()
	return string(b)
}
