package service

import (
	"context"
	"time"

	"exchange_sdk/sdk"
)

// Session 网关上绑定到单个密钥的会话，实现全部能力契约
type Session struct {
	g       *Gateway
	backend Backend
}

var _ Backend = (*Session)(nil)

func (s *Session) OrderBook(ctx context.Context, symbol string, limit int) (sdk.OrderBook, sdk.UnauthedError) {
	return s.g.OrderBook(ctx, symbol, limit)
}

func (s *Session) Trades(ctx context.Context, symbol string, limit int) ([]sdk.Trade, sdk.UnauthedError) {
	return s.g.Trades(ctx, symbol, limit)
}

func (s *Session) AggTrades(ctx context.Context, symbol string, params sdk.AggTradeParams) ([]sdk.Trade, sdk.UnauthedError) {
	return s.g.AggTrades(ctx, symbol, params)
}

// PlaceOrder 校验订单后转发
func (s *Session) PlaceOrder(ctx context.Context, symbol string, order sdk.Order) (sdk.PlaceOrderResponse, sdk.AuthedError) {
	start := time.Now()
	err := s.check("symbol", symbol)
	if err == nil {
		err = sdk.ValidateOrder(order)
	}
	if err != nil {
		s.g.trace("placeOrder", symbol, start, err)
		return sdk.PlaceOrderResponse{}, err
	}
	resp, err := s.backend.PlaceOrder(ctx, symbol, order)
	if err == nil && resp.OrderID == "" {
		err = sdk.InvalidResponse{Detail: "order accepted without an order id"}
	}
	s.g.trace("placeOrder", symbol, start, err)
	if err != nil {
		return sdk.PlaceOrderResponse{}, err
	}
	return resp, nil
}

func (s *Session) CancelOrder(ctx context.Context, symbol, orderID string) sdk.AuthedError {
	start := time.Now()
	err := s.check("symbol", symbol, "order_id", orderID)
	if err == nil {
		err = s.backend.CancelOrder(ctx, symbol, orderID)
	}
	s.g.trace("cancelOrder", symbol, start, err)
	return err
}

func (s *Session) CancelAllOrders(ctx context.Context, symbol string) sdk.AuthedError {
	start := time.Now()
	err := s.check("symbol", symbol)
	if err == nil {
		err = s.backend.CancelAllOrders(ctx, symbol)
	}
	s.g.trace("cancelAllOrders", symbol, start, err)
	return err
}

// QueryOrder 转发查询，并校验返回的状态和数量
func (s *Session) QueryOrder(ctx context.Context, symbol, orderID string) (sdk.QueryOrderResponse, sdk.AuthedError) {
	start := time.Now()
	err := s.check("symbol", symbol, "order_id", orderID)
	var resp sdk.QueryOrderResponse
	if err == nil {
		resp, err = s.backend.QueryOrder(ctx, symbol, orderID)
	}
	if err == nil {
		err = checkQueryResponse(resp)
	}
	s.g.trace("queryOrder", symbol, start, err)
	if err != nil {
		return sdk.QueryOrderResponse{}, err
	}
	return resp, nil
}

func checkQueryResponse(resp sdk.QueryOrderResponse) sdk.AuthedError {
	if !resp.Status.Valid() {
		return sdk.InvalidResponse{Detail: "unknown order status " + string(resp.Status)}
	}
	qty, err := sdk.ParseDecimal("executed_qty", resp.ExecutedQty)
	if err != nil || qty.IsNegative() {
		return sdk.InvalidResponse{Detail: "malformed executed_qty " + resp.ExecutedQty}
	}
	return nil
}

func (s *Session) GetBalance(ctx context.Context, currency string) (sdk.Balance, sdk.AuthedError) {
	start := time.Now()
	err := s.check("currency", currency)
	var b sdk.Balance
	if err == nil {
		b, err = s.backend.GetBalance(ctx, currency)
	}
	s.g.trace("getBalance", currency, start, err)
	return b, err
}

// Withdraw 提币不可撤回，转发前先校验地址和数量
func (s *Session) Withdraw(ctx context.Context, currency, address, amount, network string) sdk.AuthedError {
	start := time.Now()
	err := s.check("currency", currency, "address", address)
	if err == nil {
		_, err = sdk.ParsePositive("amount", amount)
	}
	if err == nil {
		err = s.backend.Withdraw(ctx, currency, address, amount, network)
	}
	s.g.trace("withdraw", currency, start, err)
	return err
}

func (s *Session) GetDepositAddress(ctx context.Context, currency, network string) (string, sdk.AuthedError) {
	start := time.Now()
	err := s.check("currency", currency)
	var addr string
	if err == nil {
		addr, err = s.backend.GetDepositAddress(ctx, currency, network)
	}
	s.g.trace("getDepositAddress", currency, start, err)
	return addr, err
}

func (s *Session) GetWithdrawalMethods(ctx context.Context, currency string) ([]sdk.WithdrawalMethod, sdk.AuthedError) {
	start := time.Now()
	err := s.check("currency", currency)
	var methods []sdk.WithdrawalMethod
	if err == nil {
		methods, err = s.backend.GetWithdrawalMethods(ctx, currency)
	}
	s.g.trace("getWithdrawalMethods", currency, start, err)
	return methods, err
}

func (s *Session) UserTrades(ctx context.Context, symbol string, params sdk.UserTradeParams) ([]sdk.UserTrade, sdk.AuthedError) {
	start := time.Now()
	err := s.check("symbol", symbol)
	if err == nil {
		err = sdk.Authed(sdk.ValidateLimit(params.Limit))
	}
	var trades []sdk.UserTrade
	if err == nil {
		trades, err = s.backend.UserTrades(ctx, symbol, params)
	}
	s.g.trace("userTrades", symbol, start, err)
	return trades, err
}

// check 校验成对给出的字段名和值均非空
func (s *Session) check(pairs ...string) sdk.AuthedError {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := sdk.ValidateSymbol(pairs[i], pairs[i+1]); err != nil {
			return sdk.Authed(err)
		}
	}
	return nil
}
