package boombucks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBoombucks(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency Currency
		expected int
	}{
		{"rub direct", 100, RUB, 1},
		{"rub floors", 199, RUB, 1},
		{"rub large", 5000, RUB, 50},
		{"usd rate", 100, USD, 95},
		{"usd fractional", 1.05, USD, 0},
		{"eur rate", 100, EUR, 105},
		{"kzt rate", 50000, KZT, 100},
		{"kzt small", 400, KZT, 0},
		{"usdt rate", 10, USDT, 9},
		{"phone like rub", 1000, Phone, 10},
		{"memecoin rate", 500, Memecoin, 5},
		{"memecoin floors", 199, Memecoin, 1},
		{"zero", 0, RUB, 0},
		{"negative", -50, RUB, 0},
		{"unknown currency", 100, Currency("XYZ"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToBoombucks(tt.amount, tt.currency))
		})
	}
}

func TestToBoombucks_NonFinite(t *testing.T) {
	assert.Equal(t, 0, ToBoombucks(math.NaN(), RUB))
	assert.Equal(t, 0, ToBoombucks(math.Inf(1), RUB))
	assert.Equal(t, 0, ToBoombucks(math.Inf(-1), RUB))
}

func TestToBoombucks_MonotonicInAmount(t *testing.T) {
	for _, c := range []Currency{USD, EUR, KZT, RUB, USDT, Phone, Memecoin} {
		prev := 0
		for amount := 1.0; amount <= 10000; amount += 37.5 {
			bb := ToBoombucks(amount, c)
			assert.GreaterOrEqual(t, bb, prev, "currency %s amount %f", c, amount)
			prev = bb
		}
	}
}

func TestWithdrawalSplit(t *testing.T) {
	tests := []struct {
		bb          int
		expectedNet int
		expectedFee int
	}{
		{1, 70, 30},
		{10, 700, 300},
		{100, 7000, 3000},
		{333, 23310, 9990},
		{0, 0, 0},
	}

	for _, tt := range tests {
		net, fee := WithdrawalSplit(tt.bb)
		assert.Equal(t, tt.expectedNet, net, "net for %d BB", tt.bb)
		assert.Equal(t, tt.expectedFee, fee, "fee for %d BB", tt.bb)
	}
}

func TestWithdrawalSplit_Conservation(t *testing.T) {
	// fee + net must reconstruct gross exactly for every amount
	for bb := 0; bb <= 10000; bb++ {
		net, fee := WithdrawalSplit(bb)
		assert.Equal(t, GrossRubles(bb), net+fee, "conservation for %d BB", bb)
		assert.Equal(t, int(math.Floor(float64(bb)*100*0.7)), net, "net formula for %d BB", bb)
	}
}

func TestLookup(t *testing.T) {
	info, ok := Lookup(USD)
	assert.True(t, ok)
	assert.Equal(t, int64(9500), info.KopecksPerUnit)
	assert.NotEmpty(t, info.Label)
	assert.NotEmpty(t, info.Presets)

	_, ok = Lookup(Currency("DOGE"))
	assert.False(t, ok)
}

func TestLookup_QuickAmountPresets(t *testing.T) {
	// Served verbatim by the payment-info endpoint, so the buy dialog's
	// quick-amount buttons come straight from here.
	tests := []struct {
		currency Currency
		presets  []int
	}{
		{RUB, []int{100, 500, 1000, 5000}},
		{USDT, []int{1, 5, 10, 50}},
		{Phone, []int{100, 300, 500, 1000}},
		{Memecoin, []int{100, 300, 500, 1000}},
	}
	for _, tt := range tests {
		info, ok := Lookup(tt.currency)
		assert.True(t, ok)
		assert.Equal(t, tt.presets, info.Presets, "presets for %s", tt.currency)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(RUB))
	assert.True(t, Valid(Memecoin))
	assert.False(t, Valid(Currency("")))
}
