package paper

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"exchange_sdk/sdk"
)

// lookup 查找属于该账户和交易对的订单
func (e *Exchange) lookup(acct *account, symbol, orderID string) (*order, sdk.AuthedError) {
	if _, err := e.market(symbol); err != nil {
		return nil, sdk.Authed(err)
	}
	if err := sdk.ValidateSymbol("order_id", orderID); err != nil {
		return nil, sdk.Authed(err)
	}
	ord, ok := e.orders[orderID]
	if !ok || ord.account != acct.key || ord.symbol != symbol {
		return nil, sdk.InvalidParams{Detail: fmt.Sprintf("unknown order %q on %s", orderID, symbol)}
	}
	return ord, nil
}

// cancel 撤销挂单并解冻剩余资金，终态订单不做处理
func (e *Exchange) cancel(acct *account, ord *order) {
	if ord.status.Terminal() {
		return
	}
	e.books[ord.symbol].remove(ord)
	e.release(acct, e.markets[ord.symbol], ord)
	ord.status = sdk.StatusCanceled
}

// method 查找提币网络，network 为空时取该币种配置的第一个网络
func (e *Exchange) method(currency, network string) (sdk.WithdrawalMethod, sdk.AuthedError) {
	if err := sdk.ValidateSymbol("currency", currency); err != nil {
		return sdk.WithdrawalMethod{}, sdk.Authed(err)
	}
	methods, ok := e.networks[currency]
	if !ok || len(methods) == 0 {
		return sdk.WithdrawalMethod{}, sdk.InvalidParams{Detail: fmt.Sprintf("unknown currency %q", currency)}
	}
	if network == "" {
		return methods[0], nil
	}
	for _, m := range methods {
		if m.Network == network {
			return m, nil
		}
	}
	return sdk.WithdrawalMethod{}, sdk.InvalidParams{Detail: fmt.Sprintf("network %q not supported for %s", network, currency)}
}

func depositAddress(apiKey, currency, network string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(apiKey+"/"+currency+"/"+network))
	return strings.ToLower(currency) + strings.ReplaceAll(id.String(), "-", "")
}
