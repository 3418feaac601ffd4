package service

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"exchange_sdk/internal/config"
	"exchange_sdk/internal/logger"
	"exchange_sdk/internal/models"
	"exchange_sdk/internal/paper"
	"exchange_sdk/sdk"
	"exchange_sdk/sdk/sdktest"
)

const demoKey = "paper-demo-key"

func newPaperGateway(t *testing.T) *Gateway {
	t.Helper()
	ex, err := paper.New(config.GetDefaultConfig().Paper)
	if err != nil {
		t.Fatalf("创建模拟交易所失败: %v", err)
	}
	return NewGateway("paper", NewPaperVenue(ex))
}

// stubVenue 记录转发次数，返回预设结果
type stubVenue struct {
	calls    int
	orderID  string
	status   sdk.OrderStatus
	executed string
}

func (v *stubVenue) ExchangeInfo(context.Context) (models.ExchangeInfo, sdk.UnauthedError) {
	v.calls++
	return models.ExchangeInfo{}, nil
}

func (v *stubVenue) Session(string) Backend { return v }

func (v *stubVenue) OrderBook(context.Context, string, int) (sdk.OrderBook, sdk.UnauthedError) {
	v.calls++
	return sdk.OrderBook{}, nil
}

func (v *stubVenue) Trades(context.Context, string, int) ([]sdk.Trade, sdk.UnauthedError) {
	v.calls++
	return nil, nil
}

func (v *stubVenue) AggTrades(context.Context, string, sdk.AggTradeParams) ([]sdk.Trade, sdk.UnauthedError) {
	v.calls++
	return nil, nil
}

func (v *stubVenue) PlaceOrder(context.Context, string, sdk.Order) (sdk.PlaceOrderResponse, sdk.AuthedError) {
	v.calls++
	return sdk.PlaceOrderResponse{OrderID: v.orderID}, nil
}

func (v *stubVenue) CancelOrder(context.Context, string, string) sdk.AuthedError {
	v.calls++
	return nil
}

func (v *stubVenue) CancelAllOrders(context.Context, string) sdk.AuthedError {
	v.calls++
	return nil
}

func (v *stubVenue) QueryOrder(context.Context, string, string) (sdk.QueryOrderResponse, sdk.AuthedError) {
	v.calls++
	return sdk.QueryOrderResponse{Status: v.status, ExecutedQty: v.executed}, nil
}

func (v *stubVenue) GetBalance(context.Context, string) (sdk.Balance, sdk.AuthedError) {
	v.calls++
	return sdk.Balance{Free: "0", Locked: "0"}, nil
}

func (v *stubVenue) Withdraw(context.Context, string, string, string, string) sdk.AuthedError {
	v.calls++
	return nil
}

func (v *stubVenue) GetDepositAddress(context.Context, string, string) (string, sdk.AuthedError) {
	v.calls++
	return "addr", nil
}

func (v *stubVenue) GetWithdrawalMethods(context.Context, string) ([]sdk.WithdrawalMethod, sdk.AuthedError) {
	v.calls++
	return nil, nil
}

func (v *stubVenue) UserTrades(context.Context, string, sdk.UserTradeParams) ([]sdk.UserTrade, sdk.AuthedError) {
	v.calls++
	return nil, nil
}

func TestGatewayConformanceOverPaper(t *testing.T) {
	g := newPaperGateway(t)
	s := g.Session(demoKey)

	sdktest.CheckOrderBook(t, s, "BTCUSDT", 0, true)
	sdktest.CheckOrderBook(t, s, "ETHUSDT", 5, true)

	resp, err := sdktest.CheckPlaceOrder(t, s, "BTCUSDT", sdk.LimitOrder{Side: sdk.Sell, Qty: "0.001", Price: "65000.00"})
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	if err := sdktest.CheckCancelIdempotent(t, s, "BTCUSDT", resp.OrderID); err != nil {
		t.Errorf("重复撤单应当成功: %v", err)
	}

	info, uerr := g.ExchangeInfo(context.Background())
	if uerr != nil {
		t.Fatalf("获取交易所信息失败: %v", uerr)
	}
	btc, ok := info.Find("BTCUSDT")
	if !ok || btc.BaseAsset != "BTC" || btc.Status != models.StatusTrading {
		t.Fatalf("BTCUSDT 信息 = %+v", btc)
	}
	if f, ok := btc.Filter(models.FilterPrice); !ok || f.TickSize != "0.01" {
		t.Errorf("PRICE_FILTER = %+v", f)
	}

	_, err = g.Session("unknown").GetBalance(context.Background(), "USDT")
	if sdk.KindOf(err) != sdk.KindInvalidAuth {
		t.Errorf("未知密钥应返回 InvalidAuth, got %v", err)
	}
}

func TestGatewayValidatesBeforeForwarding(t *testing.T) {
	stub := &stubVenue{orderID: "1"}
	g := NewGateway("stub", stub)
	s := g.Session("key")
	ctx := context.Background()

	var errs []error
	var err error
	_, err = g.OrderBook(ctx, "", 0)
	errs = append(errs, err)
	_, err = g.Trades(ctx, "BTCUSDT", -5)
	errs = append(errs, err)
	_, err = g.AggTrades(ctx, "BTCUSDT", sdk.AggTradeParams{Limit: -1})
	errs = append(errs, err)
	_, err = s.PlaceOrder(ctx, "BTCUSDT", sdk.LimitOrder{Side: sdk.Buy, Qty: "1", Price: "-1"})
	errs = append(errs, err)
	_, err = s.PlaceOrder(ctx, "BTCUSDT", nil)
	errs = append(errs, err)
	errs = append(errs, s.CancelOrder(ctx, "BTCUSDT", ""))
	errs = append(errs, s.CancelAllOrders(ctx, ""))
	_, err = s.QueryOrder(ctx, "", "1")
	errs = append(errs, err)
	_, err = s.GetBalance(ctx, "")
	errs = append(errs, err)
	errs = append(errs, s.Withdraw(ctx, "USDT", "", "10", ""))
	errs = append(errs, s.Withdraw(ctx, "USDT", "addr", "0", ""))
	_, err = s.GetDepositAddress(ctx, "", "")
	errs = append(errs, err)
	_, err = s.GetWithdrawalMethods(ctx, "")
	errs = append(errs, err)
	_, err = s.UserTrades(ctx, "BTCUSDT", sdk.UserTradeParams{Limit: -1})
	errs = append(errs, err)

	for i, err := range errs {
		if sdk.KindOf(err) != sdk.KindInvalidParams {
			t.Errorf("第%d个调用应返回 InvalidParams, got %v", i, err)
		}
	}
	if stub.calls != 0 {
		t.Errorf("参数非法时不应转发, 转发了 %d 次", stub.calls)
	}
}

func TestGatewayRejectsMalformedBackendResults(t *testing.T) {
	ctx := context.Background()

	s := NewGateway("stub", &stubVenue{}).Session("key")
	_, err := s.PlaceOrder(ctx, "BTCUSDT", sdk.MarketOrder{Side: sdk.Buy, Qty: "1"})
	if sdk.KindOf(err) != sdk.KindInvalidResponse {
		t.Errorf("空订单号应返回 InvalidResponse, got %v", err)
	}

	cases := []struct {
		name     string
		status   sdk.OrderStatus
		executed string
	}{
		{"未知状态", "EXPIRED", "0"},
		{"数量非法", sdk.StatusFilled, "abc"},
		{"数量为负", sdk.StatusFilled, "-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewGateway("stub", &stubVenue{status: tc.status, executed: tc.executed}).Session("key")
			resp, err := s.QueryOrder(ctx, "BTCUSDT", "1")
			if sdk.KindOf(err) != sdk.KindInvalidResponse {
				t.Errorf("应返回 InvalidResponse, got %+v, %v", resp, err)
			}
		})
	}
}

func TestGatewayLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	g := newPaperGateway(t)
	_, err := g.Session(demoKey).PlaceOrder(context.Background(), "DOGEUSDT", sdk.MarketOrder{Side: sdk.Buy, Qty: "1"})
	if err == nil {
		t.Fatal("未知交易对应当下单失败")
	}

	out := buf.String()
	for _, want := range []string{"op=placeOrder", "venue=paper", "symbol=DOGEUSDT", "kind=INVALID_PARAMS"} {
		if !strings.Contains(out, want) {
			t.Errorf("日志缺少 %q: %s", want, out)
		}
	}
}
