package valueobjects

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"strings"
)

// dataIDLength is the length of a hex encoded SHA-1 digest.
const dataIDLength = 40

// DataID identifies a dataset by the SHA-1 digest of its numeric content, so
// uploading the same titration twice resolves to the same record.
type DataID struct {
	value string
}

// NewDataIDFromRows hashes a row-major matrix as little-endian float64 words.
func NewDataIDFromRows(rows [][]float64) DataID {
	h := sha1.New()
	var buf [8]byte
	for _, row := range rows {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return DataID{value: hex.EncodeToString(h.Sum(nil))}
}

// NewDataIDFromString parses a hex digest
func NewDataIDFromString(id string) (DataID, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return DataID{}, errors.New("data ID cannot be empty")
	}
	if len(id) != dataIDLength {
		return DataID{}, errors.New("data ID must be a 40 character hex digest")
	}
	if _, err := hex.DecodeString(id); err != nil {
		return DataID{}, errors.New("data ID must be hexadecimal")
	}
	return DataID{value: id}, nil
}

// String returns the hex digest
func (id DataID) String() string {
	return id.value
}

// Equals checks if two DataIDs are equal
func (id DataID) Equals(other DataID) bool {
	return id.value == other.value
}

// IsZero checks if the DataID is the zero value
func (id DataID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id DataID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *DataID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("DataID must be a string")
	}
	parsed, err := NewDataIDFromString(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
