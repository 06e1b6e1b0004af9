package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservation_ApplyPrice(t *testing.T) {
	tests := []struct {
		name     string
		initial  int64
		newPrice int64
		want     int64
	}{
		{name: "price drop applies", initial: 500, newPrice: 300, want: 300},
		{name: "price rise ignored", initial: 500, newPrice: 700, want: 500},
		{name: "same price", initial: 500, newPrice: 500, want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReservation(1, tt.initial, 2)
			r.ApplyPrice(tt.newPrice)
			assert.Equal(t, tt.want, r.PriceInPence)
			assert.Equal(t, tt.want*2, r.Value())
		})
	}
}

func TestSale_Value(t *testing.T) {
	assert.Equal(t, int64(750), Sale{PriceInPence: 250, Quantity: 3}.Value())
}
