package client

import (
	"context"
	"net/url"
	"strconv"

	"exchange_sdk/internal/models"
	"exchange_sdk/sdk"
)

// ExchangeInfo 获取交易对规则
func (c *Client) ExchangeInfo(ctx context.Context) (models.ExchangeInfo, sdk.UnauthedError) {
	var info models.ExchangeInfo
	if err := c.get(ctx, models.ExchangeInfoEndpoint, nil, &info); err != nil {
		return models.ExchangeInfo{}, err
	}
	return info, nil
}

// GetSymbolInfo 获取单个交易对信息
func (c *Client) GetSymbolInfo(ctx context.Context, symbol string) (*models.Symbol, sdk.UnauthedError) {
	info, err := c.ExchangeInfo(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := info.Find(symbol)
	if !ok {
		return nil, sdk.InvalidParams{Detail: "交易对不存在: " + symbol}
	}
	return &s, nil
}

func (c *Client) OrderBook(ctx context.Context, symbol string, limit int) (sdk.OrderBook, sdk.UnauthedError) {
	q := url.Values{models.ParamSymbol: {symbol}}
	if limit != 0 {
		q.Set(models.ParamLimit, strconv.Itoa(limit))
	}
	var book sdk.OrderBook
	if err := c.get(ctx, models.DepthEndpoint, q, &book); err != nil {
		return sdk.OrderBook{}, err
	}
	return book, nil
}

func (c *Client) Trades(ctx context.Context, symbol string, limit int) ([]sdk.Trade, sdk.UnauthedError) {
	q := url.Values{models.ParamSymbol: {symbol}}
	if limit != 0 {
		q.Set(models.ParamLimit, strconv.Itoa(limit))
	}
	var trades []sdk.Trade
	if err := c.get(ctx, models.TradesEndpoint, q, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

func (c *Client) AggTrades(ctx context.Context, symbol string, params sdk.AggTradeParams) ([]sdk.Trade, sdk.UnauthedError) {
	q := historyQuery(symbol, params.Limit, params.Start, params.End, params.StartID)
	var trades []sdk.Trade
	if err := c.get(ctx, models.AggTradesEndpoint, q, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}
