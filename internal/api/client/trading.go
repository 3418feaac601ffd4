package client

import (
	"context"
	"net/http"
	"net/url"

	"exchange_sdk/internal/models"
	"exchange_sdk/sdk"
)

var (
	_ sdk.Trading  = (*Client)(nil)
	_ sdk.Wallet   = (*Client)(nil)
	_ sdk.UserData = (*Client)(nil)
)

// PlaceOrder 下单。下单请求不会自动重试，网络失败时订单状态未知，需要先查询。
func (c *Client) PlaceOrder(ctx context.Context, symbol string, order sdk.Order) (sdk.PlaceOrderResponse, sdk.AuthedError) {
	var resp models.OrderResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   models.OrderEndpoint,
		body:   models.NewOrderRequest(symbol, order),
		authed: true,
	}, &resp)
	if err != nil {
		return sdk.PlaceOrderResponse{}, err
	}
	if resp.OrderID == "" {
		return sdk.PlaceOrderResponse{}, sdk.InvalidResponse{Detail: "响应缺少 orderId"}
	}
	return sdk.PlaceOrderResponse{OrderID: resp.OrderID}, nil
}

func (c *Client) CancelOrder(ctx context.Context, symbol, orderID string) sdk.AuthedError {
	var resp models.OrderResponse
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   models.OrderEndpoint,
		query:  url.Values{models.ParamSymbol: {symbol}, models.ParamOrderID: {orderID}},
		authed: true,
	}, &resp)
}

func (c *Client) CancelAllOrders(ctx context.Context, symbol string) sdk.AuthedError {
	var resp map[string]interface{}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   models.OpenOrdersEndpoint,
		query:  url.Values{models.ParamSymbol: {symbol}},
		authed: true,
	}, &resp)
}

func (c *Client) QueryOrder(ctx context.Context, symbol, orderID string) (sdk.QueryOrderResponse, sdk.AuthedError) {
	var resp models.OrderResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   models.OrderEndpoint,
		query:  url.Values{models.ParamSymbol: {symbol}, models.ParamOrderID: {orderID}},
		authed: true,
	}, &resp)
	if err != nil {
		return sdk.QueryOrderResponse{}, err
	}
	status := sdk.OrderStatus(resp.Status)
	if !status.Valid() {
		return sdk.QueryOrderResponse{}, sdk.InvalidResponse{Detail: "未知订单状态: " + resp.Status}
	}
	return sdk.QueryOrderResponse{Status: status, ExecutedQty: resp.ExecutedQty}, nil
}

func (c *Client) GetBalance(ctx context.Context, currency string) (sdk.Balance, sdk.AuthedError) {
	var resp models.BalanceResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   models.BalanceEndpoint,
		query:  url.Values{models.ParamAsset: {currency}},
		authed: true,
	}, &resp)
	if err != nil {
		return sdk.Balance{}, err
	}
	return sdk.Balance{Free: resp.Free, Locked: resp.Locked}, nil
}

func (c *Client) UserTrades(ctx context.Context, symbol string, params sdk.UserTradeParams) ([]sdk.UserTrade, sdk.AuthedError) {
	var trades []sdk.UserTrade
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   models.MyTradesEndpoint,
		query:  historyQuery(symbol, params.Limit, params.Start, params.End, params.StartID),
		authed: true,
	}, &trades)
	if err != nil {
		return nil, err
	}
	return trades, nil
}
