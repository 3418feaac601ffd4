package models

import "github.com/samber/lo"

// ExchangeInfo 交易所信息
type ExchangeInfo struct {
	Symbols []Symbol `json:"symbols"`
}

// Symbol 交易对信息
type Symbol struct {
	Symbol     string   `json:"symbol"`
	Status     string   `json:"status"`
	BaseAsset  string   `json:"baseAsset"`
	QuoteAsset string   `json:"quoteAsset"`
	Filters    []Filter `json:"filters,omitempty"` // 交易对过滤器
}

// Filter 交易对过滤器
type Filter struct {
	FilterType string `json:"filterType"`         // LOT_SIZE, PRICE_FILTER
	MinQty     string `json:"minQty,omitempty"`   // 最小交易量
	StepSize   string `json:"stepSize,omitempty"` // 数量步进值
	TickSize   string `json:"tickSize,omitempty"` // 价格步进值
}

const (
	FilterLotSize = "LOT_SIZE"
	FilterPrice   = "PRICE_FILTER"

	StatusTrading = "TRADING"
)

// Filter 按类型查找过滤器
func (s Symbol) Filter(filterType string) (Filter, bool) {
	return lo.Find(s.Filters, func(f Filter) bool { return f.FilterType == filterType })
}

// Find 按名称查找交易对
func (info ExchangeInfo) Find(symbol string) (Symbol, bool) {
	return lo.Find(info.Symbols, func(s Symbol) bool { return s.Symbol == symbol })
}
