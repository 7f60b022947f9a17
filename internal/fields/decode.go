package fields

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrEmptyBody = errors.New("empty payload")

// Decode parses a JSON document keeping numbers as json.Number so that
// product ids like 12345678901234567 keep their digits.
func Decode(data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyBody
	}

	dec := jsonAPI.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return v, nil
}

// Marshal encodes v with the same configuration used for decoding.
func Marshal(v any) ([]byte, error) {
	return jsonAPI.Marshal(v)
}

// MarshalIndent encodes v for human readers.
func MarshalIndent(v any) ([]byte, error) {
	return jsonAPI.MarshalIndent(v, "", "  ")
}

// ToRecord round-trips a typed value into a generic Record.
func ToRecord(v any) (Record, error) {
	data, err := jsonAPI.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		return nil, err
	}
	rec, ok := AsRecord(decoded)
	if !ok {
		return nil, fmt.Errorf("value is not an object")
	}
	return rec, nil
}

// Unmarshal decodes data into a typed value.
func Unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyBody
	}
	if err := jsonAPI.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
