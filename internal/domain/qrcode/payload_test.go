package qrcode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleID = "3fa85f64-5717-4562-b3fc-2c963f66afa6"

func TestParseAndValidate_RoundTrip(t *testing.T) {
	original := NewResidentPayload(sampleID)
	raw, err := json.Marshal(original)
	require.NoError(t, err)

	got := ParseAndValidate(string(raw))
	require.NotNil(t, got)
	assert.Equal(t, original, *got)
}

func TestParseAndValidate_AcceptsVariants(t *testing.T) {
	accepted := []string{
		`{"type":"nagacare_resident","v":1,"id":"3fa85f64-5717-4562-b3fc-2c963f66afa6"}`,
		`  {"id":"3FA85F64-5717-4562-B3FC-2C963F66AFA6","v":1,"type":"nagacare_resident","extra":true}  `,
		`{"type":"nagacare_resident","v":1.0,"id":"3fa85f64-5717-1562-8bfc-2c963f66afa6"}`,
	}
	for _, raw := range accepted {
		assert.NotNil(t, ParseAndValidate(raw), raw)
	}
}

func TestParseAndValidate_RejectsCorruption(t *testing.T) {
	rejected := map[string]string{
		"wrong type":        `{"type":"other_resident","v":1,"id":"3fa85f64-5717-4562-b3fc-2c963f66afa6"}`,
		"version 2":         `{"type":"nagacare_resident","v":2,"id":"3fa85f64-5717-4562-b3fc-2c963f66afa6"}`,
		"version as string": `{"type":"nagacare_resident","v":"1","id":"3fa85f64-5717-4562-b3fc-2c963f66afa6"}`,
		"missing version":   `{"type":"nagacare_resident","id":"3fa85f64-5717-4562-b3fc-2c963f66afa6"}`,
		"non uuid id":       `{"type":"nagacare_resident","v":1,"id":"resident-42"}`,
		"numeric id":        `{"type":"nagacare_resident","v":1,"id":42}`,
		"version nibble 0":  `{"type":"nagacare_resident","v":1,"id":"3fa85f64-5717-0562-b3fc-2c963f66afa6"}`,
		"version nibble 6":  `{"type":"nagacare_resident","v":1,"id":"3fa85f64-5717-6562-b3fc-2c963f66afa6"}`,
		"variant nibble c":  `{"type":"nagacare_resident","v":1,"id":"3fa85f64-5717-4562-c3fc-2c963f66afa6"}`,
		"braced uuid":       `{"type":"nagacare_resident","v":1,"id":"{3fa85f64-5717-4562-b3fc-2c963f66afa6}"}`,
		"truncated json":    `{"type":"nagacare_resident","v":1,"id":"3fa85f64-5717-4562-b3fc`,
		"array":             `[{"type":"nagacare_resident","v":1,"id":"3fa85f64-5717-4562-b3fc-2c963f66afa6"}]`,
		"scalar":            `"nagacare_resident"`,
		"null":              `null`,
		"empty":             ``,
		"plain text":        `3fa85f64-5717-4562-b3fc-2c963f66afa6`,
		"trailing value":    `{"type":"nagacare_resident","v":1,"id":"3fa85f64-5717-4562-b3fc-2c963f66afa6"} {}`,
	}
	for name, raw := range rejected {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, ParseAndValidate(raw))
		})
	}
}
