package valueobjects

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// FitID is a value object representing a saved fit.
type FitID struct {
	value string
}

// NewFitID creates a new random FitID
func NewFitID() FitID {
	return FitID{value: uuid.New().String()}
}

// NewFitIDFromString creates a FitID from an existing string
func NewFitIDFromString(id string) (FitID, error) {
	if id == "" {
		return FitID{}, errors.New("fit ID cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return FitID{}, errors.New("fit ID must be a valid UUID")
	}
	return FitID{value: parsed.String()}, nil
}

// String returns the string representation of the FitID
func (id FitID) String() string {
	return id.value
}

// Equals checks if two FitIDs are equal
func (id FitID) Equals(other FitID) bool {
	return id.value == other.value
}

// IsZero checks if the FitID is the zero value
func (id FitID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id FitID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *FitID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("FitID must be a string")
	}
	parsed, err := NewFitIDFromString(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
