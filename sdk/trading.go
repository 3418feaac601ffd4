package sdk

import (
	"context"
	"fmt"
	"sync"
)

// OrderType 订单类型
type OrderType string

const (
	TypeLimit  OrderType = "LIMIT"
	TypeMarket OrderType = "MARKET"
)

// Order 订单，只能是 LimitOrder 或 MarketOrder。
// 限价单一定带价格，市价单没有价格字段。
type Order interface {
	Type() OrderType
	OrderSide() Side
	Quantity() string
	sealedOrder()
}

// LimitOrder 限价单。PostOnly 仅对限价单有意义，nil 表示未指定。
type LimitOrder struct {
	Side        Side
	Qty         string
	Price       string
	TimeInForce TimeInForce
	PostOnly    *bool
}

// MarketOrder 市价单
type MarketOrder struct {
	Side        Side
	Qty         string
	TimeInForce TimeInForce
}

func (LimitOrder) Type() OrderType    { return TypeLimit }
func (o LimitOrder) OrderSide() Side  { return o.Side }
func (o LimitOrder) Quantity() string { return o.Qty }
func (LimitOrder) sealedOrder()       {}

// IsPostOnly PostOnly 是否被显式设置为 true
func (o LimitOrder) IsPostOnly() bool { return o.PostOnly != nil && *o.PostOnly }

func (MarketOrder) Type() OrderType    { return TypeMarket }
func (o MarketOrder) OrderSide() Side  { return o.Side }
func (o MarketOrder) Quantity() string { return o.Qty }
func (MarketOrder) sealedOrder()       {}

// OrderStatus 订单状态，由交易所维护，这里只做上报
type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
)

// Terminal 是否为终态
func (s OrderStatus) Terminal() bool {
	return s == StatusFilled || s == StatusCanceled
}

// Valid 是否为已知状态
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusPartiallyFilled, StatusFilled, StatusCanceled:
		return true
	}
	return false
}

// PlaceOrderResponse 下单响应
type PlaceOrderResponse struct {
	OrderID string `json:"order_id"`
}

// QueryOrderResponse 订单查询快照
type QueryOrderResponse struct {
	Status      OrderStatus `json:"status"`
	ExecutedQty string      `json:"executed_qty"`
}

// Balance 余额快照，Free 和 Locked 均不小于0
type Balance struct {
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// Trading 交易能力，需要认证
type Trading interface {
	PlaceOrder(ctx context.Context, symbol string, order Order) (PlaceOrderResponse, AuthedError)
	// CancelOrder 撤销单个订单。对已成交/已撤销订单的处理由实现方说明。
	CancelOrder(ctx context.Context, symbol, orderID string) AuthedError
	CancelAllOrders(ctx context.Context, symbol string) AuthedError
	QueryOrder(ctx context.Context, symbol, orderID string) (QueryOrderResponse, AuthedError)
	GetBalance(ctx context.Context, currency string) (Balance, AuthedError)
}

// ValidateOrder 在提交前校验订单字段，不合法时返回 InvalidParams
func ValidateOrder(order Order) AuthedError {
	switch o := order.(type) {
	case LimitOrder:
		if err := validateCommon(o.Side, o.Qty, o.TimeInForce); err != nil {
			return err
		}
		if _, err := ParsePositive("price", o.Price); err != nil {
			return err
		}
		if o.IsPostOnly() && (o.TimeInForce == IOC || o.TimeInForce == FOK) {
			return InvalidParams{Detail: fmt.Sprintf("post_only cannot be combined with %s", o.TimeInForce)}
		}
		return nil
	case MarketOrder:
		return validateCommon(o.Side, o.Qty, o.TimeInForce)
	case nil:
		return InvalidParams{Detail: "order is required"}
	}
	return InvalidParams{Detail: fmt.Sprintf("unsupported order type %T", order)}
}

func validateCommon(side Side, qty string, tif TimeInForce) AuthedError {
	if !side.Valid() {
		return InvalidParams{Detail: fmt.Sprintf("unknown side %q", side)}
	}
	if !tif.Valid() {
		return InvalidParams{Detail: fmt.Sprintf("unknown time_in_force %q", tif)}
	}
	_, err := ParsePositive("qty", qty)
	return err
}

// GetBalances 并发查询多个币种的余额。
// 任一查询失败时返回按参数顺序最靠前的错误。
func GetBalances(ctx context.Context, t Trading, currencies ...string) (map[string]Balance, AuthedError) {
	balances := make([]Balance, len(currencies))
	errs := make([]AuthedError, len(currencies))

	var wg sync.WaitGroup
	for i, currency := range currencies {
		wg.Add(1)
		go func(i int, currency string) {
			defer wg.Done()
			balances[i], errs[i] = t.GetBalance(ctx, currency)
		}(i, currency)
	}
	wg.Wait()

	out := make(map[string]Balance, len(currencies))
	for i, currency := range currencies {
		if errs[i] != nil {
			return nil, errs[i]
		}
		out[currency] = balances[i]
	}
	return out, nil
}
