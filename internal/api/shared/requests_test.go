package shared

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type machinePayload struct {
		Name       string `json:"name"`
		Department string `json:"department"`
	}

	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
	}{
		{
			name:        "valid_json",
			requestBody: `{"name": "Hydraulic Press", "department": "Stamping"}`,
		},
		{
			name:        "malformed_json",
			requestBody: `{"name": "Hydraulic Press",}`,
			wantErr:     true,
		},
		{
			name:        "empty_body",
			requestBody: "",
			wantErr:     true,
		},
		{
			name:        "unknown_field_rejected",
			requestBody: `{"name": "Hydraulic Press", "serial": "X1"}`,
			wantErr:     true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(
				http.MethodPost, "/test", bytes.NewBufferString(tc.requestBody))

			var target machinePayload
			err := DecodeJSON(req, &target)

			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Hydraulic Press", target.Name)
			assert.Equal(t, "Stamping", target.Department)
		})
	}
}
