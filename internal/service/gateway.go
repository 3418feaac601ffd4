package service

import (
	"context"
	"time"

	"exchange_sdk/internal/logger"
	"exchange_sdk/internal/models"
	"exchange_sdk/sdk"
)

// Account 需要认证的能力
type Account interface {
	sdk.Trading
	sdk.Wallet
	sdk.UserData
}

// Backend 绑定到单个密钥的完整能力集合
type Backend interface {
	sdk.MarketData
	Account
}

// Venue 一个可接入的交易所
type Venue interface {
	sdk.MarketData
	ExchangeInfo(ctx context.Context) (models.ExchangeInfo, sdk.UnauthedError)
	// Session 返回绑定到 apiKey 的会话，密钥在调用时校验
	Session(apiKey string) Backend
}

// Gateway 在交易所实现之前做参数校验，并为每次调用记录日志
type Gateway struct {
	name  string
	venue Venue
}

var _ sdk.MarketData = (*Gateway)(nil)

// NewGateway 创建网关，name 用于日志中区分交易所
func NewGateway(name string, venue Venue) *Gateway {
	return &Gateway{name: name, venue: venue}
}

// Name 交易所名称
func (g *Gateway) Name() string { return g.name }

// Session 返回绑定到 apiKey 的会话
func (g *Gateway) Session(apiKey string) *Session {
	return &Session{g: g, backend: g.venue.Session(apiKey)}
}

func (g *Gateway) ExchangeInfo(ctx context.Context) (models.ExchangeInfo, sdk.UnauthedError) {
	start := time.Now()
	info, err := g.venue.ExchangeInfo(ctx)
	g.trace("exchangeInfo", "", start, err)
	return info, err
}

func (g *Gateway) OrderBook(ctx context.Context, symbol string, limit int) (sdk.OrderBook, sdk.UnauthedError) {
	start := time.Now()
	if err := checkQuery(symbol, limit); err != nil {
		g.trace("orderBook", symbol, start, err)
		return sdk.OrderBook{}, err
	}
	book, err := g.venue.OrderBook(ctx, symbol, limit)
	g.trace("orderBook", symbol, start, err)
	return book, err
}

func (g *Gateway) Trades(ctx context.Context, symbol string, limit int) ([]sdk.Trade, sdk.UnauthedError) {
	start := time.Now()
	if err := checkQuery(symbol, limit); err != nil {
		g.trace("trades", symbol, start, err)
		return nil, err
	}
	trades, err := g.venue.Trades(ctx, symbol, limit)
	g.trace("trades", symbol, start, err)
	return trades, err
}

func (g *Gateway) AggTrades(ctx context.Context, symbol string, params sdk.AggTradeParams) ([]sdk.Trade, sdk.UnauthedError) {
	start := time.Now()
	if err := checkQuery(symbol, params.Limit); err != nil {
		g.trace("aggTrades", symbol, start, err)
		return nil, err
	}
	trades, err := g.venue.AggTrades(ctx, symbol, params)
	g.trace("aggTrades", symbol, start, err)
	return trades, err
}

func checkQuery(symbol string, limit int) sdk.UnauthedError {
	if err := sdk.ValidateSymbol("symbol", symbol); err != nil {
		return err
	}
	return sdk.ValidateLimit(limit)
}

// trace 成功的调用记为 Debug，失败的调用按类别记为 Warn
func (g *Gateway) trace(op, symbol string, start time.Time, err error) {
	fields := logger.Fields{
		"venue":   g.name,
		"op":      op,
		"latency": time.Since(start).String(),
	}
	if symbol != "" {
		fields["symbol"] = symbol
	}
	entry := logger.WithFields(fields)
	if kind := sdk.KindOf(err); kind != "" {
		entry.WithField("kind", kind).Warnf("调用失败: %s", sdk.Detail(err))
		return
	}
	entry.Debug("调用完成")
}
