package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questionSchema = `{
	"type": "object",
	"required": ["question"],
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"siteId": {"type": ["integer", "null"]}
	}
}`

func TestSchema_ValidateBytes(t *testing.T) {
	s := MustCompile("question", questionSchema)

	tests := []struct {
		name  string
		doc   string
		valid bool
		code  string
	}{
		{"valid", `{"question":"where is workstation 1","siteId":4}`, true, ""},
		{"null site", `{"question":"q","siteId":null}`, true, ""},
		{"missing question", `{"siteId":4}`, false, "REQUIRED"},
		{"empty question", `{"question":""}`, false, "STRING_GTE"},
		{"wrong type", `{"question":"q","siteId":"four"}`, false, "INVALID_TYPE"},
		{"not json", `{"question":`, false, "INVALID_JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.ValidateBytes([]byte(tt.doc))
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				require.NotEmpty(t, res.Errors)
				assert.Equal(t, tt.code, res.Errors[0].Code)
				assert.NotEmpty(t, res.Error())
			}
		})
	}
}

func TestSchema_ValidateValue(t *testing.T) {
	s := MustCompile("question", questionSchema)

	assert.True(t, s.ValidateValue(map[string]interface{}{"question": "q"}).Valid)
	assert.False(t, s.ValidateValue(map[string]interface{}{}).Valid)
	assert.Equal(t, "question", s.Name())
}

func TestCompile_RejectsBadSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile("broken", `{`) })
}
