package commission_fee

// ZeroCommissionFee implements CommissionFee for spread-only brokers.
type ZeroCommissionFee struct{}

// NewZeroCommissionFee creates a new zero commission fee.
func NewZeroCommissionFee() CommissionFee {
	return &ZeroCommissionFee{}
}

// Calculate returns 0 for any position.
func (c *ZeroCommissionFee) Calculate(contractSize float64, price float64) float64 {
	return 0.0
}
