package models

import (
	"testing"

	"github.com/samber/lo"

	"exchange_sdk/sdk"
)

func TestOrderRequestToOrder(t *testing.T) {
	limit := sdk.LimitOrder{Side: sdk.Sell, Qty: "0.001", Price: "65000.00", PostOnly: lo.ToPtr(true)}
	got, err := NewOrderRequest("BTCUSDT", limit).ToOrder()
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	back, ok := got.(sdk.LimitOrder)
	if !ok {
		t.Fatalf("应还原为限价单, got %T", got)
	}
	if back.Price != "65000.00" || back.Qty != "0.001" || !back.IsPostOnly() {
		t.Errorf("限价单字段丢失: %+v", back)
	}

	market, err := NewOrderRequest("BTCUSDT", sdk.MarketOrder{Side: sdk.Buy, Qty: "1", TimeInForce: sdk.IOC}).ToOrder()
	if err != nil {
		t.Fatalf("转换失败: %v", err)
	}
	if m, ok := market.(sdk.MarketOrder); !ok || m.TimeInForce != sdk.IOC {
		t.Errorf("市价单还原错误: %#v", market)
	}
}

func TestOrderRequestRejectsInconsistentShape(t *testing.T) {
	cases := []struct {
		name string
		req  OrderRequest
	}{
		{"市价单带价格", OrderRequest{Type: "MARKET", Side: "BUY", Quantity: "1", Price: "100"}},
		{"市价单带只挂单", OrderRequest{Type: "MARKET", Side: "BUY", Quantity: "1", PostOnly: lo.ToPtr(false)}},
		{"未知类型", OrderRequest{Type: "STOP_MARKET", Side: "BUY", Quantity: "1"}},
		{"类型为空", OrderRequest{Side: "BUY", Quantity: "1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := tc.req.ToOrder()
			if o != nil || sdk.KindOf(err) != sdk.KindInvalidParams {
				t.Errorf("ToOrder() = %v, %v; want InvalidParams", o, err)
			}
		})
	}
}

func TestExchangeInfoLookup(t *testing.T) {
	info := ExchangeInfo{Symbols: []Symbol{{
		Symbol: "BTCUSDT",
		Filters: []Filter{
			{FilterType: FilterPrice, TickSize: "0.01"},
			{FilterType: FilterLotSize, StepSize: "0.00001", MinQty: "0.00001"},
		},
	}}}

	s, ok := info.Find("BTCUSDT")
	if !ok {
		t.Fatal("未找到 BTCUSDT")
	}
	if f, ok := s.Filter(FilterLotSize); !ok || f.StepSize != "0.00001" {
		t.Errorf("LOT_SIZE 过滤器 = %+v, %v", f, ok)
	}
	if _, ok := info.Find("ETHUSDT"); ok {
		t.Error("不应找到 ETHUSDT")
	}
}
