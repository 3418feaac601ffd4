package client

import (
	"context"
	"net/http"
	"net/url"

	"exchange_sdk/internal/models"
	"exchange_sdk/sdk"
)

// Withdraw 提币，不会自动重试
func (c *Client) Withdraw(ctx context.Context, currency, address, amount, network string) sdk.AuthedError {
	var resp struct {
		Success bool `json:"success"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   models.WithdrawEndpoint,
		body: models.WithdrawRequest{
			Coin:    currency,
			Address: address,
			Amount:  amount,
			Network: network,
		},
		authed: true,
	}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return sdk.InvalidResponse{Detail: "提币未被确认"}
	}
	return nil
}

func (c *Client) GetDepositAddress(ctx context.Context, currency, network string) (string, sdk.AuthedError) {
	q := url.Values{models.ParamCoin: {currency}}
	if network != "" {
		q.Set(models.ParamNetwork, network)
	}
	var resp models.DepositAddressResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   models.DepositAddressEndpoint,
		query:  q,
		authed: true,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Address == "" {
		return "", sdk.InvalidResponse{Detail: "响应缺少 address"}
	}
	return resp.Address, nil
}

func (c *Client) GetWithdrawalMethods(ctx context.Context, currency string) ([]sdk.WithdrawalMethod, sdk.AuthedError) {
	var methods []sdk.WithdrawalMethod
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   models.WithdrawalMethodsEndpoint,
		query:  url.Values{models.ParamCoin: {currency}},
		authed: true,
	}, &methods)
	if err != nil {
		return nil, err
	}
	return methods, nil
}
