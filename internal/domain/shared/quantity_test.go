package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantErr  bool
	}{
		{"one piece", 1, false},
		{"at the limit", MaxQuantity, false},
		{"zero", 0, true},
		{"negative", -4, true},
		{"over the limit", MaxQuantity + 1, true},
		{"beyond 32 bits", 3_000_000_000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckQuantity(tt.quantity)
			if tt.wantErr {
				assert.ErrorIs(t, err, NewDomainError("INVALID_QUANTITY", ""))
				return
			}
			assert.NoError(t, err)
		})
	}
}
