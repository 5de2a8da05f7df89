package commission_fee

// CommissionFee prices the round-turn commission of an FX position in the
// account currency.
type CommissionFee interface {
	// Calculate returns the commission for contractSize lots opened at price.
	Calculate(contractSize float64, price float64) float64
}

type Broker string

const (
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerECN               Broker = "ecn"
	BrokerZero              Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerInteractiveBroker,
	BrokerECN,
	BrokerZero,
}

// LotUnits is the number of base currency units in one standard lot.
const LotUnits = 100000

func GetCommissionFeeHandler(broker Broker) CommissionFee {
	switch broker {
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerECN:
		return NewECNCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}
