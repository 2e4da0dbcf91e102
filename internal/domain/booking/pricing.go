package booking

// NightlyRate is the price per occupant per night.
const NightlyRate = 50.0

// DefaultEuroRate converts house currency to euro.
const DefaultEuroRate = 0.8

// PricingStrategy defines the interface for calculating booking prices.
type PricingStrategy interface {
	// Calculate returns the price of the stay described by req.
	Calculate(req BookingRequest) (float64, error)
}

// NightlyPricingStrategy charges a flat rate per occupant per night.
type NightlyPricingStrategy struct {
	rate float64
}

// NewNightlyPricingStrategy creates a NightlyPricingStrategy using NightlyRate.
func NewNightlyPricingStrategy() *NightlyPricingStrategy {
	return &NightlyPricingStrategy{rate: NightlyRate}
}

// Calculate computes nights * occupants * rate.
func (s *NightlyPricingStrategy) Calculate(req BookingRequest) (float64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	return float64(req.Nights()) * float64(req.Occupants) * s.rate, nil
}

// CurrencyConverter converts an amount from house currency to another currency.
type CurrencyConverter func(amount float64) float64

// NewEuroConverter returns a CurrencyConverter applying the given exchange rate.
func NewEuroConverter(rate float64) CurrencyConverter {
	return func(amount float64) float64 {
		return amount * rate
	}
}

// ToEuro converts using DefaultEuroRate.
func ToEuro(amount float64) float64 {
	return amount * DefaultEuroRate
}
