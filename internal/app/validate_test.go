package app

import (
	"strings"
	"testing"

	"rk-textiles/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest(t *testing.T) {
	require.NoError(t, validateRequest(RegisterCustomerRequest{Name: "Sri Textiles", Phone: "9876543211"}))

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{"missing name", RegisterCustomerRequest{Phone: "1"}, "name", "is required"},
		{"phone too long", RegisterCustomerRequest{Name: "x", Phone: strings.Repeat("9", 21)}, "phone", "must be at most 20 characters"},
		{"bad status", UpdateOrderRequest{Status: ptr("Shipped")}, "status", "must be one of: Pending Completed"},
		{"empty color", UpdateInventoryRequest{FabricColor: ptr("")}, "fabric_color", "must be at least 1 characters"},
		{"missing order", GenerateBillRequest{}, "order_id", "is required"},
		{"negative customer", GenerateBillRequest{OrderID: 1, CustomerID: -1}, "customer_id", "must be at least 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ve *core.ValidationError
			require.ErrorAs(t, validateRequest(tt.req), &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Equal(t, tt.wantMsg, ve.Message)
		})
	}
}

func TestValidationDetails(t *testing.T) {
	err := validateRequest(SendToMillRequest{})
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "mill_id", ve.Field)
	assert.Equal(t, map[string]string{"mill_id": "is required", "material_type": "is required"}, ValidationDetails(err))

	assert.Nil(t, ValidationDetails(nil))
	assert.Nil(t, ValidationDetails(&core.ValidationError{Field: "gst_rate", Message: "cannot exceed 100"}))
}

func ptr(s string) *string { return &s }

func TestNormalizePhone(t *testing.T) {
	tests := []struct{ in, want string }{
		{"9876543210", "+919876543210"},
		{" +91-98765 43210 ", "+919876543210"},
		{"+1 650-253-0000", "+16502530000"},
		{"12", "12"},
		{"  call me ", "call me"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePhone(tt.in), tt.in)
	}
}
