package boombucks

import "math"

// Currency is a payment unit accepted for Boombucks purchases.
type Currency string

const (
	USD      Currency = "USD"
	EUR      Currency = "EUR"
	KZT      Currency = "KZT"
	RUB      Currency = "RUB"
	USDT     Currency = "USDT"
	Phone    Currency = "PHONE"
	Memecoin Currency = "MEMECOIN"
)

const (
	// RublesPerBoombuck is the reference rate: 1 BB = 100 rubles.
	RublesPerBoombuck = 100

	// CoinsPerBoombuck is the memecoin rate: 100 coins = 1 BB.
	CoinsPerBoombuck = 100

	// kopecksPerBoombuck keeps conversions in integer kopecks to avoid
	// penny drift from float arithmetic.
	kopecksPerBoombuck = RublesPerBoombuck * 100

	// WithdrawalFeePercent is retained by the platform on every payout.
	WithdrawalFeePercent = 30
)

// Info describes a currency for client display.
type Info struct {
	KopecksPerUnit int64
	Label          string
	Presets        []int
}

var currencies = map[Currency]Info{
	USD:      {KopecksPerUnit: 9500, Label: "US Dollar", Presets: []int{10, 25, 50, 100}},
	EUR:      {KopecksPerUnit: 10500, Label: "Euro", Presets: []int{10, 25, 50, 100}},
	KZT:      {KopecksPerUnit: 20, Label: "Kazakhstani Tenge", Presets: []int{5000, 10000, 25000}},
	RUB:      {KopecksPerUnit: 100, Label: "Russian Ruble", Presets: []int{100, 500, 1000, 5000}},
	USDT:     {KopecksPerUnit: 9500, Label: "USDT (TON Network)", Presets: []int{1, 5, 10, 50}},
	Phone:    {KopecksPerUnit: 100, Label: "Phone Transfer", Presets: []int{100, 300, 500, 1000}},
	Memecoin: {Label: "Memecoin", Presets: []int{100, 300, 500, 1000}},
}

// Lookup returns display info for a currency.
func Lookup(c Currency) (Info, bool) {
	info, ok := currencies[c]
	return info, ok
}

// Valid reports whether c is a supported currency.
func Valid(c Currency) bool {
	_, ok := currencies[c]
	return ok
}

// ToBoombucks converts an external currency amount to whole Boombucks,
// floored. Non-positive or non-finite amounts convert to 0: there is
// nothing to credit, not an error.
func ToBoombucks(amount float64, c Currency) int {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0
	}

	if c == Memecoin {
		return int(math.Floor(amount / CoinsPerBoombuck))
	}

	info, ok := currencies[c]
	if !ok {
		return 0
	}

	kopecks := int64(math.Floor(amount * float64(info.KopecksPerUnit)))
	return int(kopecks / kopecksPerBoombuck)
}

// GrossRubles is the ruble value of a Boombuck amount before fees.
func GrossRubles(bb int) int {
	return bb * RublesPerBoombuck
}

// WithdrawalSplit returns the net ruble payout and the platform fee for
// a withdrawal of bb Boombucks. net+fee always reconstructs the gross
// ruble value exactly.
func WithdrawalSplit(bb int) (net, fee int) {
	gross := GrossRubles(bb)
	net = gross * (100 - WithdrawalFeePercent) / 100
	fee = gross - net
	return net, fee
}
