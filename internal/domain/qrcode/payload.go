// Package qrcode validates the JSON envelope printed in resident QR codes.
package qrcode

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

// Envelope constants.
const (
	PayloadType    = "nagacare_resident"
	PayloadVersion = 1
)

// Canonical 8-4-4-4-12 form, version nibble 1-5, variant nibble 8/9/a/b.
var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// ResidentPayload is the identity envelope carried by a resident QR code.
type ResidentPayload struct {
	Type string `json:"type"`
	V    int    `json:"v"`
	ID   string `json:"id"`
}

// NewResidentPayload builds the envelope for a resident id.
func NewResidentPayload(residentID string) ResidentPayload {
	return ResidentPayload{Type: PayloadType, V: PayloadVersion, ID: residentID}
}

// ParseAndValidate returns the payload encoded in raw, or nil if raw is not a recognized
// resident identity code. The cause of a rejection is deliberately not reported.
func ParseAndValidate(raw string) *ResidentPayload {
	value, ok := decodeSingleValue(raw)
	if !ok {
		return nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	if typ, ok := obj["type"].(string); !ok || typ != PayloadType {
		return nil
	}
	num, ok := obj["v"].(json.Number)
	if !ok {
		return nil
	}
	if v, err := num.Float64(); err != nil || v != PayloadVersion {
		return nil
	}
	id, ok := obj["id"].(string)
	if !ok || !uuidPattern.MatchString(id) {
		return nil
	}
	return &ResidentPayload{Type: PayloadType, V: PayloadVersion, ID: id}
}

// decodeSingleValue parses raw as exactly one JSON value; trailing data is rejected.
func decodeSingleValue(raw string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return value, true
}
