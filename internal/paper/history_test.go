package paper

import (
	"context"
	"testing"
	"time"

	"exchange_sdk/sdk"
	"exchange_sdk/sdk/sdktest"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// newTapeExchange 按30分钟间隔产生4笔成交，归集成交ID为1到4
func newTapeExchange(t *testing.T) (*Exchange, *Client) {
	t.Helper()

	ex := newTestExchange(t, WithClock(&stepClock{t: t0, step: 30 * time.Minute}))
	c := ex.Client(demoKey)
	for i := 0; i < 4; i++ {
		if _, err := c.PlaceOrder(context.Background(), "BTCUSDT", sdk.MarketOrder{Side: sdk.Buy, Qty: "0.1"}); err != nil {
			t.Fatalf("下单失败: %v", err)
		}
	}
	return ex, c
}

func TestAggTradesFilters(t *testing.T) {
	ex, _ := newTapeExchange(t)

	cases := []struct {
		name   string
		params sdk.AggTradeParams
		want   []time.Time
	}{
		{"无条件", sdk.AggTradeParams{}, []time.Time{t0, t0.Add(30 * time.Minute), t0.Add(time.Hour), t0.Add(90 * time.Minute)}},
		{"Start", sdk.AggTradeParams{Start: t0.Add(30 * time.Minute)}, []time.Time{t0.Add(30 * time.Minute), t0.Add(time.Hour), t0.Add(90 * time.Minute)}},
		{"End包含边界", sdk.AggTradeParams{End: t0.Add(time.Hour)}, []time.Time{t0, t0.Add(30 * time.Minute), t0.Add(time.Hour)}},
		{"StartID", sdk.AggTradeParams{StartID: "3"}, []time.Time{t0.Add(time.Hour), t0.Add(90 * time.Minute)}},
		{"Limit取最近", sdk.AggTradeParams{Limit: 2}, []time.Time{t0.Add(time.Hour), t0.Add(90 * time.Minute)}},
		{"Limit配合Start取最早", sdk.AggTradeParams{Limit: 2, Start: t0}, []time.Time{t0, t0.Add(30 * time.Minute)}},
		{"范围外", sdk.AggTradeParams{Start: t0.Add(2 * time.Hour)}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sdktest.CheckAggTrades(t, ex, "BTCUSDT", tc.params)
			if len(got) != len(tc.want) {
				t.Fatalf("归集成交数 = %d, want %d", len(got), len(tc.want))
			}
			for i, tr := range got {
				if !tr.Time.Equal(tc.want[i]) {
					t.Errorf("第%d笔时间 = %s, want %s", i, tr.Time, tc.want[i])
				}
				if tr.Time.Location() != time.UTC {
					t.Errorf("成交时间应为UTC: %s", tr.Time)
				}
			}
		})
	}
}

func TestAggTradesMergeSamePrice(t *testing.T) {
	ex := newTestExchange(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := ex.Seed("ETHUSDT", sdk.Sell, "3500.50", "1"); err != nil {
			t.Fatalf("挂单失败: %v", err)
		}
	}
	if _, err := ex.Client(demoKey).PlaceOrder(ctx, "ETHUSDT", sdk.MarketOrder{Side: sdk.Buy, Qty: "2.5"}); err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	if trades := sdktest.CheckTrades(t, ex, "ETHUSDT", 0); len(trades) != 3 {
		t.Errorf("逐笔成交数 = %d, want 3", len(trades))
	}
	aggs := sdktest.CheckAggTrades(t, ex, "ETHUSDT", sdk.AggTradeParams{})
	if len(aggs) != 1 {
		t.Fatalf("归集成交数 = %d, want 1", len(aggs))
	}
	assertDecimal(t, "agg qty", aggs[0].Quantity, "2.5")
	assertDecimal(t, "agg price", aggs[0].Price, "3500.5")
}

func TestTradesLimit(t *testing.T) {
	ex, _ := newTapeExchange(t)

	got := sdktest.CheckTrades(t, ex, "BTCUSDT", 3)
	if len(got) != 3 {
		t.Fatalf("成交数 = %d, want 3", len(got))
	}
	if !got[2].Time.Equal(t0.Add(90 * time.Minute)) {
		t.Errorf("最后一笔应为最新成交, got %s", got[2].Time)
	}
	if got := sdktest.CheckTrades(t, ex, "ETHUSDT", 0); len(got) != 0 {
		t.Errorf("ETHUSDT 不应有成交, got %d", len(got))
	}
}

func TestAggTradesPagedOverExchange(t *testing.T) {
	ex, _ := newTapeExchange(t)

	var all []sdk.Trade
	err := sdk.AggTradesPaged(context.Background(), ex, "BTCUSDT", t0, t0.Add(2*time.Hour), func(page []sdk.Trade) bool {
		all = append(all, page...)
		return true
	})
	if err != nil {
		t.Fatalf("分页拉取失败: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("归集成交数 = %d, want 4", len(all))
	}
	sdktest.CheckChronological(t, all)
}

func TestAggTradesPagedHalfOpen(t *testing.T) {
	ex, _ := newTapeExchange(t)

	// t0+1h 上的成交属于下一段
	var first, second []sdk.Trade
	collect := func(dst *[]sdk.Trade) func([]sdk.Trade) bool {
		return func(page []sdk.Trade) bool {
			*dst = append(*dst, page...)
			return true
		}
	}
	if err := sdk.AggTradesPaged(context.Background(), ex, "BTCUSDT", t0, t0.Add(time.Hour), collect(&first)); err != nil {
		t.Fatalf("分页拉取失败: %v", err)
	}
	if err := sdk.AggTradesPaged(context.Background(), ex, "BTCUSDT", t0.Add(time.Hour), t0.Add(2*time.Hour), collect(&second)); err != nil {
		t.Fatalf("分页拉取失败: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("两段成交数 = %d/%d, want 2/2", len(first), len(second))
	}
	if !first[1].Time.Equal(t0.Add(30 * time.Minute)) {
		t.Errorf("第一段最后一笔时间 = %s", first[1].Time)
	}
	if !second[0].Time.Equal(t0.Add(time.Hour)) {
		t.Errorf("第二段第一笔时间 = %s", second[0].Time)
	}
}

func TestUserTrades(t *testing.T) {
	ex := newTestExchange(t)
	demo, other := ex.Client(demoKey), ex.Client(otherKey)
	ctx := context.Background()

	if _, err := demo.PlaceOrder(ctx, "BTCUSDT", sdk.LimitOrder{Side: sdk.Sell, Qty: "0.1", Price: "65000"}); err != nil {
		t.Fatalf("挂单失败: %v", err)
	}
	if _, err := other.PlaceOrder(ctx, "BTCUSDT", sdk.LimitOrder{Side: sdk.Buy, Qty: "0.1", Price: "65000"}); err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	mine, err := demo.UserTrades(ctx, "BTCUSDT", sdk.UserTradeParams{})
	if err != nil {
		t.Fatalf("查询成交失败: %v", err)
	}
	if len(mine) != 1 || mine[0].Buyer || !mine[0].Maker {
		t.Fatalf("挂单方成交 = %+v", mine)
	}
	assertDecimal(t, "price", mine[0].Price, "65000")

	theirs, err := other.UserTrades(ctx, "BTCUSDT", sdk.UserTradeParams{})
	if err != nil {
		t.Fatalf("查询成交失败: %v", err)
	}
	if len(theirs) != 1 || !theirs[0].Buyer || theirs[0].Maker {
		t.Fatalf("吃单方成交 = %+v", theirs)
	}
	if theirs[0].ID == mine[0].ID {
		t.Errorf("双方成交记录的ID不应相同")
	}

	assertBalance(t, demo, "BTC", "1.9", "0")
	assertBalance(t, demo, "USDT", "106500", "0")
	assertBalance(t, other, "USDT", "93500", "0")
	assertBalance(t, other, "BTC", "1.1", "0")

	if eth, _ := demo.UserTrades(ctx, "ETHUSDT", sdk.UserTradeParams{}); len(eth) != 0 {
		t.Errorf("ETHUSDT 不应有成交")
	}
	_, err = demo.UserTrades(ctx, "BTCUSDT", sdk.UserTradeParams{StartID: "-1"})
	assertKind(t, err, sdk.KindInvalidParams)
	_, err = ex.Client("unknown").UserTrades(ctx, "BTCUSDT", sdk.UserTradeParams{})
	assertKind(t, err, sdk.KindInvalidAuth)
}

func TestUserTradesPagedOverExchange(t *testing.T) {
	_, c := newTapeExchange(t)

	var got []sdk.UserTrade
	err := sdk.UserTradesPaged(context.Background(), c, "BTCUSDT", 2, t0, t0.Add(3*time.Hour), func(page []sdk.UserTrade) bool {
		got = append(got, page...)
		return true
	})
	if err != nil {
		t.Fatalf("分页拉取失败: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("成交数 = %d, want 4", len(got))
	}
	for _, tr := range got {
		if !tr.Buyer || tr.Maker {
			t.Errorf("市价买单的成交应为吃单买方: %+v", tr)
		}
	}
}

func TestUserTradesPagedSameInstant(t *testing.T) {
	ex := newTestExchange(t, WithClock(&stepClock{t: t0, step: time.Minute}))
	c := ex.Client(demoKey)
	ctx := context.Background()

	if err := ex.Seed("ETHUSDT", sdk.Sell, "3500.00", "1"); err != nil {
		t.Fatalf("做市挂单失败: %v", err)
	}
	// 一笔市价单吃掉两档，两条成交时间相同
	if _, err := c.PlaceOrder(ctx, "ETHUSDT", sdk.MarketOrder{Side: sdk.Buy, Qty: "2"}); err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	var got []sdk.UserTrade
	err := sdk.UserTradesPaged(ctx, c, "ETHUSDT", 1, t0.Add(-time.Hour), t0.Add(time.Hour), func(page []sdk.UserTrade) bool {
		got = append(got, page...)
		return true
	})
	if err != nil {
		t.Fatalf("分页拉取失败: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("成交数 = %d, want 2", len(got))
	}
	if !got[0].Time.Equal(got[1].Time) {
		t.Errorf("两条成交时间应相同: %s / %s", got[0].Time, got[1].Time)
	}
	assertDecimal(t, "first price", got[0].Price, "3500")
	assertDecimal(t, "second price", got[1].Price, "3501")
}
