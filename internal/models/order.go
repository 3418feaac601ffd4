package models

import (
	"fmt"

	"exchange_sdk/sdk"
)

// OrderRequest 下单请求
type OrderRequest struct {
	Symbol      string `json:"symbol"`                // 交易对
	Side        string `json:"side"`                  // 买卖方向 BUY/SELL
	Type        string `json:"type"`                  // 订单类型 LIMIT/MARKET
	TimeInForce string `json:"timeInForce,omitempty"` // 有效方式 GTC/IOC/FOK，留空由交易所决定
	Quantity    string `json:"quantity"`              // 数量
	Price       string `json:"price,omitempty"`       // 价格（仅限价单）
	PostOnly    *bool  `json:"postOnly,omitempty"`    // 只挂单（仅限价单）
}

// NewOrderRequest 由订单构造请求
func NewOrderRequest(symbol string, order sdk.Order) OrderRequest {
	req := OrderRequest{Symbol: symbol}
	switch o := order.(type) {
	case sdk.LimitOrder:
		req.Side = string(o.Side)
		req.Type = string(sdk.TypeLimit)
		req.TimeInForce = string(o.TimeInForce)
		req.Quantity = o.Qty
		req.Price = o.Price
		req.PostOnly = o.PostOnly
	case sdk.MarketOrder:
		req.Side = string(o.Side)
		req.Type = string(sdk.TypeMarket)
		req.TimeInForce = string(o.TimeInForce)
		req.Quantity = o.Qty
	}
	return req
}

// ToOrder 将请求还原为订单。市价单不允许携带价格和只挂单标识。
func (r OrderRequest) ToOrder() (sdk.Order, sdk.AuthedError) {
	side := sdk.Side(r.Side)
	tif := sdk.TimeInForce(r.TimeInForce)
	switch sdk.OrderType(r.Type) {
	case sdk.TypeLimit:
		return sdk.LimitOrder{Side: side, Qty: r.Quantity, Price: r.Price, TimeInForce: tif, PostOnly: r.PostOnly}, nil
	case sdk.TypeMarket:
		if r.Price != "" {
			return nil, sdk.InvalidParams{Detail: "market orders carry no price"}
		}
		if r.PostOnly != nil {
			return nil, sdk.InvalidParams{Detail: "post_only applies to limit orders only"}
		}
		return sdk.MarketOrder{Side: side, Qty: r.Quantity, TimeInForce: tif}, nil
	}
	return nil, sdk.InvalidParams{Detail: fmt.Sprintf("unknown order type %q", r.Type)}
}

// OrderResponse 下单/查单响应
type OrderResponse struct {
	OrderID     string `json:"orderId"`
	Symbol      string `json:"symbol"`
	Status      string `json:"status,omitempty"`
	ExecutedQty string `json:"executedQty,omitempty"`
}

// BalanceResponse 余额响应
type BalanceResponse struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// WithdrawRequest 提币请求
type WithdrawRequest struct {
	Coin    string `json:"coin"`
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Network string `json:"network,omitempty"` // 留空使用默认网络
}

// DepositAddressResponse 充值地址响应
type DepositAddressResponse struct {
	Coin    string `json:"coin"`
	Network string `json:"network,omitempty"`
	Address string `json:"address"`
}

// ErrorResponse API错误响应，Code 为错误类别
type ErrorResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
