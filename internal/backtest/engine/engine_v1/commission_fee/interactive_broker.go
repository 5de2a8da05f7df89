package commission_fee

// InteractiveBrokerCommissionFee charges 0.2 basis points of the traded
// notional on each side, with a 2.00 minimum per side.
type InteractiveBrokerCommissionFee struct {
}

func NewInteractiveBrokerCommissionFee() CommissionFee {
	return &InteractiveBrokerCommissionFee{}
}

func (c *InteractiveBrokerCommissionFee) Calculate(contractSize float64, price float64) float64 {
	fee := 0.00002 * contractSize * LotUnits * price
	if fee < 2.0 {
		fee = 2.0
	}

	return 2 * fee
}
