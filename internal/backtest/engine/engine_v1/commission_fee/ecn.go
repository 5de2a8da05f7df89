package commission_fee

// ECNCommissionFee is the raw-spread account model: a fixed 3.50 per lot on
// each side.
type ECNCommissionFee struct{}

func NewECNCommissionFee() CommissionFee {
	return &ECNCommissionFee{}
}

func (c *ECNCommissionFee) Calculate(contractSize float64, price float64) float64 {
	if contractSize <= 0 {
		return 0
	}

	return 2 * 3.5 * contractSize
}
