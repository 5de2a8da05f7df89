package types

// OrderDirection is the side of an order.
type OrderDirection string

// OrderType selects how an order's entry price is reached.
type OrderType string

// OrderStatus moves one way, from OPEN to CLOSE.
type OrderStatus string

// FillStatus moves one way, from UNFILLED to FILLED.
type FillStatus string

const (
	OrderDirectionBuy  OrderDirection = "BUY"
	OrderDirectionSell OrderDirection = "SELL"
)

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeStop   OrderType = "STOP"
	OrderTypeLimit  OrderType = "LIMIT"
)

const (
	OrderStatusOpen  OrderStatus = "OPEN"
	OrderStatusClose OrderStatus = "CLOSE"
)

const (
	FillStatusUnfilled FillStatus = "UNFILLED"
	FillStatusFilled   FillStatus = "FILLED"
)

// Opposite returns the other side.
func (d OrderDirection) Opposite() OrderDirection {
	if d == OrderDirectionBuy {
		return OrderDirectionSell
	}

	return OrderDirectionBuy
}
