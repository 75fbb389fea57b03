package dto

import (
	"bytes"
	"encoding/json"
)

// NullableID distinguishes an absent field from an explicit null in PATCH payloads.
type NullableID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON marks the field as present and decodes a number or null.
func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}
