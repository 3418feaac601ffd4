package paper

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"exchange_sdk/internal/logger"
	"exchange_sdk/sdk"
)

// Client 绑定到单个 API 密钥的模拟交易所客户端
type Client struct {
	ex     *Exchange
	apiKey string
}

var (
	_ sdk.MarketData = (*Client)(nil)
	_ sdk.Trading    = (*Client)(nil)
	_ sdk.Wallet     = (*Client)(nil)
	_ sdk.UserData   = (*Client)(nil)
)

// begin 校验上下文和密钥
func (c *Client) begin(ctx context.Context) (*account, sdk.AuthedError) {
	if err := checkCtx(ctx); err != nil {
		return nil, sdk.Authed(err)
	}
	return c.ex.authenticate(c.apiKey)
}

func (c *Client) OrderBook(ctx context.Context, symbol string, limit int) (sdk.OrderBook, sdk.UnauthedError) {
	return c.ex.OrderBook(ctx, symbol, limit)
}

func (c *Client) Trades(ctx context.Context, symbol string, limit int) ([]sdk.Trade, sdk.UnauthedError) {
	return c.ex.Trades(ctx, symbol, limit)
}

func (c *Client) AggTrades(ctx context.Context, symbol string, params sdk.AggTradeParams) ([]sdk.Trade, sdk.UnauthedError) {
	return c.ex.AggTrades(ctx, symbol, params)
}

// PlaceOrder 下单并立即撮合
func (c *Client) PlaceOrder(ctx context.Context, symbol string, o sdk.Order) (sdk.PlaceOrderResponse, sdk.AuthedError) {
	c.ex.mu.Lock()
	defer c.ex.mu.Unlock()

	acct, err := c.begin(ctx)
	if err != nil {
		return sdk.PlaceOrderResponse{}, err
	}
	ord, err := c.ex.place(acct, symbol, o)
	if err != nil {
		return sdk.PlaceOrderResponse{}, err
	}
	logger.WithFields(logger.Fields{
		"order_id": ord.id,
		"symbol":   symbol,
		"side":     ord.side,
		"type":     ord.typ,
		"status":   ord.status,
	}).Debug("模拟下单")
	return sdk.PlaceOrderResponse{OrderID: ord.id}, nil
}

// CancelOrder 撤单。已成交或已撤销的订单直接返回成功。
func (c *Client) CancelOrder(ctx context.Context, symbol, orderID string) sdk.AuthedError {
	c.ex.mu.Lock()
	defer c.ex.mu.Unlock()

	acct, err := c.begin(ctx)
	if err != nil {
		return err
	}
	ord, err := c.ex.lookup(acct, symbol, orderID)
	if err != nil {
		return err
	}
	c.ex.cancel(acct, ord)
	return nil
}

// CancelAllOrders 撤销该交易对下的全部挂单
func (c *Client) CancelAllOrders(ctx context.Context, symbol string) sdk.AuthedError {
	c.ex.mu.Lock()
	defer c.ex.mu.Unlock()

	acct, err := c.begin(ctx)
	if err != nil {
		return err
	}
	if _, uerr := c.ex.market(symbol); uerr != nil {
		return sdk.Authed(uerr)
	}
	n := 0
	for _, ord := range c.ex.orders {
		if ord.account == acct.key && ord.symbol == symbol && !ord.status.Terminal() {
			c.ex.cancel(acct, ord)
			n++
		}
	}
	logger.Debugf("撤销 %s 全部挂单: %d 笔", symbol, n)
	return nil
}

// QueryOrder 查询订单状态
func (c *Client) QueryOrder(ctx context.Context, symbol, orderID string) (sdk.QueryOrderResponse, sdk.AuthedError) {
	c.ex.mu.RLock()
	defer c.ex.mu.RUnlock()

	acct, err := c.begin(ctx)
	if err != nil {
		return sdk.QueryOrderResponse{}, err
	}
	ord, err := c.ex.lookup(acct, symbol, orderID)
	if err != nil {
		return sdk.QueryOrderResponse{}, err
	}
	return sdk.QueryOrderResponse{Status: ord.status, ExecutedQty: ord.executed.String()}, nil
}

// GetBalance 查询余额，未持有的币种返回0
func (c *Client) GetBalance(ctx context.Context, currency string) (sdk.Balance, sdk.AuthedError) {
	c.ex.mu.RLock()
	defer c.ex.mu.RUnlock()

	acct, err := c.begin(ctx)
	if err != nil {
		return sdk.Balance{}, err
	}
	if uerr := sdk.ValidateSymbol("currency", currency); uerr != nil {
		return sdk.Balance{}, sdk.Authed(uerr)
	}
	b, ok := acct.balances[currency]
	if !ok {
		return sdk.Balance{Free: "0", Locked: "0"}, nil
	}
	return sdk.Balance{Free: b.free.String(), Locked: b.locked.String()}, nil
}

// Withdraw 提币，从可用余额中扣除数量和手续费
func (c *Client) Withdraw(ctx context.Context, currency, address, amount, network string) sdk.AuthedError {
	c.ex.mu.Lock()
	defer c.ex.mu.Unlock()

	acct, err := c.begin(ctx)
	if err != nil {
		return err
	}
	if uerr := sdk.ValidateSymbol("address", address); uerr != nil {
		return sdk.Authed(uerr)
	}
	qty, err := sdk.ParsePositive("amount", amount)
	if err != nil {
		return err
	}
	method, err := c.ex.method(currency, network)
	if err != nil {
		return err
	}
	if method.MinAmount != "" {
		if minAmount, perr := decimal.NewFromString(method.MinAmount); perr == nil && qty.LessThan(minAmount) {
			return sdk.InvalidParams{Detail: fmt.Sprintf("amount %s below min_amount %s for %s/%s", qty, minAmount, currency, method.Network)}
		}
	}
	fee, _ := decimal.NewFromString(method.Fee)
	total := qty.Add(fee)

	b := acct.balance(currency)
	if b.free.LessThan(total) {
		return sdk.InvalidParams{Detail: fmt.Sprintf("insufficient %s balance: free %s, required %s", currency, b.free, total)}
	}
	b.free = b.free.Sub(total)

	logger.WithFields(logger.Fields{
		"currency": currency,
		"network":  method.Network,
		"amount":   qty.String(),
		"fee":      method.Fee,
		"address":  address,
	}).Info("模拟提币已受理")
	return nil
}

// GetDepositAddress 充值地址，同一账户、币种、网络总是返回同一地址
func (c *Client) GetDepositAddress(ctx context.Context, currency, network string) (string, sdk.AuthedError) {
	c.ex.mu.RLock()
	defer c.ex.mu.RUnlock()

	acct, err := c.begin(ctx)
	if err != nil {
		return "", err
	}
	method, err := c.ex.method(currency, network)
	if err != nil {
		return "", err
	}
	return depositAddress(acct.key, currency, method.Network), nil
}

// GetWithdrawalMethods 该币种支持的提币网络
func (c *Client) GetWithdrawalMethods(ctx context.Context, currency string) ([]sdk.WithdrawalMethod, sdk.AuthedError) {
	c.ex.mu.RLock()
	defer c.ex.mu.RUnlock()

	if _, err := c.begin(ctx); err != nil {
		return nil, err
	}
	if uerr := sdk.ValidateSymbol("currency", currency); uerr != nil {
		return nil, sdk.Authed(uerr)
	}
	methods, ok := c.ex.networks[currency]
	if !ok {
		return nil, sdk.InvalidParams{Detail: fmt.Sprintf("unknown currency %q", currency)}
	}
	return append([]sdk.WithdrawalMethod(nil), methods...), nil
}

// UserTrades 账户在该交易对上的成交
func (c *Client) UserTrades(ctx context.Context, symbol string, params sdk.UserTradeParams) ([]sdk.UserTrade, sdk.AuthedError) {
	c.ex.mu.RLock()
	defer c.ex.mu.RUnlock()

	acct, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}
	if _, uerr := c.ex.market(symbol); uerr != nil {
		return nil, sdk.Authed(uerr)
	}
	return c.ex.userTradesOf(acct, symbol, params)
}
