package models

import "time"

type OrderSide string

const (
	OrderSideBid OrderSide = "bid" // покупка
	OrderSideAsk OrderSide = "ask" // продажа
)

const OrdTypeLimit = "limit"

// Order строится гейтвеем непосредственно перед отправкой.
// Статус после ответа биржи не отслеживается.
type Order struct {
	Market  string
	Side    OrderSide
	Price   float64
	Volume  float64
	OrdType string
}

// OrderResult — подтверждение биржи плюс сырое тело ответа.
type OrderResult struct {
	UUID      string
	Side      OrderSide
	OrdType   string
	Price     string
	Volume    string
	State     string
	Market    string
	CreatedAt time.Time
	Raw       []byte
}

// AccountBalance — строка из /v1/accounts. Не кешируется.
type AccountBalance struct {
	Currency     string
	Balance      float64
	Locked       float64
	AvgBuyPrice  float64
	UnitCurrency string
}

// MarketTicker — одно обновление тикера из WebSocket.
type MarketTicker struct {
	Code           string
	TradePrice     float64
	AccTradeVolume float64
}

// MarketVolume — строка рейтинга по объёму.
type MarketVolume struct {
	Market string
	Volume float64
}
