// Package sdktest 提供契约一致性检查，任何实现方都可以在自己的测试中调用。
package sdktest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"exchange_sdk/sdk"
)

// CheckOrderBook 校验盘口：每侧不超过 limit 档，卖盘价格升序，买盘价格降序。
// wantLiquid 为 true 时要求两侧都不为空。
func CheckOrderBook(t testing.TB, md sdk.MarketData, symbol string, limit int, wantLiquid bool) sdk.OrderBook {
	t.Helper()

	book, err := md.OrderBook(context.Background(), symbol, limit)
	if err != nil {
		t.Fatalf("OrderBook(%s, %d) 失败: %v", symbol, limit, err)
	}
	if limit > 0 {
		if len(book.Asks) > limit || len(book.Bids) > limit {
			t.Errorf("盘口深度超过限制 %d: asks=%d bids=%d", limit, len(book.Asks), len(book.Bids))
		}
	}
	if wantLiquid && (len(book.Asks) == 0 || len(book.Bids) == 0) {
		t.Errorf("活跃市场的盘口两侧都应非空: asks=%d bids=%d", len(book.Asks), len(book.Bids))
	}
	checkSorted(t, "asks", book.Asks, 1)
	checkSorted(t, "bids", book.Bids, -1)
	return book
}

func checkSorted(t testing.TB, name string, entries []sdk.BookEntry, dir int) {
	t.Helper()
	var prev decimal.Decimal
	for i, e := range entries {
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			t.Errorf("%s[%d] 价格不是十进制数: %q", name, i, e.Price)
			return
		}
		if _, err := decimal.NewFromString(e.Amount); err != nil {
			t.Errorf("%s[%d] 数量不是十进制数: %q", name, i, e.Amount)
		}
		if i > 0 && price.Cmp(prev) != dir {
			t.Errorf("%s 未按约定排序: [%d]=%s, [%d]=%s", name, i-1, prev, i, price)
		}
		prev = price
	}
}

// CheckTrades 校验最近成交按时间不递减，且条数不超过 limit
func CheckTrades(t testing.TB, md sdk.MarketData, symbol string, limit int) []sdk.Trade {
	t.Helper()

	trades, err := md.Trades(context.Background(), symbol, limit)
	if err != nil {
		t.Fatalf("Trades(%s, %d) 失败: %v", symbol, limit, err)
	}
	if limit > 0 && len(trades) > limit {
		t.Errorf("成交条数 %d 超过限制 %d", len(trades), limit)
	}
	CheckChronological(t, trades)
	return trades
}

// CheckAggTrades 校验归集成交按时间不递减
func CheckAggTrades(t testing.TB, md sdk.MarketData, symbol string, params sdk.AggTradeParams) []sdk.Trade {
	t.Helper()

	trades, err := md.AggTrades(context.Background(), symbol, params)
	if err != nil {
		t.Fatalf("AggTrades(%s, %+v) 失败: %v", symbol, params, err)
	}
	if params.Limit > 0 && len(trades) > params.Limit {
		t.Errorf("归集成交条数 %d 超过限制 %d", len(trades), params.Limit)
	}
	CheckChronological(t, trades)
	return trades
}

// CheckChronological 校验成交时间不递减
func CheckChronological(t testing.TB, trades []sdk.Trade) {
	t.Helper()
	for i := 1; i < len(trades); i++ {
		if trades[i].Time.Before(trades[i-1].Time) {
			t.Errorf("成交时间倒退: [%d]=%s, [%d]=%s", i-1, trades[i-1].Time, i, trades[i].Time)
		}
	}
}

// CheckPlaceOrder 下单：成功时订单号非空，失败时只返回错误，二者不会同时出现
func CheckPlaceOrder(t testing.TB, tr sdk.Trading, symbol string, order sdk.Order) (sdk.PlaceOrderResponse, sdk.AuthedError) {
	t.Helper()

	resp, err := tr.PlaceOrder(context.Background(), symbol, order)
	switch {
	case err == nil && resp.OrderID == "":
		t.Errorf("下单成功但订单号为空")
	case err != nil && resp.OrderID != "":
		t.Errorf("下单失败却返回了订单号 %q: %v", resp.OrderID, err)
	case err != nil && err.Kind() == "":
		t.Errorf("错误不属于错误模型: %v", err)
	}
	return resp, err
}

// CheckCancelIdempotent 先撤单一次使订单进入终态，再对其撤单两次，
// 后两次结果必须一致：都成功，或都以同一类别失败。返回后两次的结果。
func CheckCancelIdempotent(t testing.TB, tr sdk.Trading, symbol, orderID string) sdk.AuthedError {
	t.Helper()

	ctx := context.Background()
	if err := tr.CancelOrder(ctx, symbol, orderID); err != nil {
		t.Logf("首次撤单返回 %v", err)
	}
	second := tr.CancelOrder(ctx, symbol, orderID)
	third := tr.CancelOrder(ctx, symbol, orderID)
	if kindOf(second) != kindOf(third) {
		t.Errorf("已撤销订单重复撤单结果不一致: 第一次=%v, 第二次=%v", second, third)
	}
	return second
}

func kindOf(err sdk.AuthedError) sdk.Kind {
	if err == nil {
		return ""
	}
	return err.Kind()
}
