package exchange

const (
	Buy  = "BUY"
	Sell = "SELL"

	// типы ордеров
	Limit  = "LIMIT"
	Market = "MARKET"

	// статусы ордеров
	New             = "NEW"
	PartiallyFilled = "PARTIALLY_FILLED"
	Filled          = "FILLED"
	Canceled        = "CANCELED"
	Expired         = "EXPIRED"
)

// SideLabel - направление в человекочитаемом виде
func SideLabel(side string) string {
	if side == Sell {
		return "шорт"
	}
	return "лонг"
}

// StatusLabel - статус ордера в человекочитаемом виде
func StatusLabel(status string) string {
	switch status {
	case New:
		return "размещён"
	case PartiallyFilled:
		return "частично исполнен"
	case Filled:
		return "исполнен"
	case Canceled:
		return "отменён"
	case Expired:
		return "истёк"
	default:
		return status
	}
}

// TypeLabel - тип ордера в человекочитаемом виде
func TypeLabel(orderType string) string {
	switch orderType {
	case Limit:
		return "лимитный"
	case Market:
		return "рыночный"
	case "STOP", "STOP_MARKET":
		return "стоп"
	case "TAKE_PROFIT", "TAKE_PROFIT_MARKET":
		return "тейк-профит"
	default:
		return orderType
	}
}
