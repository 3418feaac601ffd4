package sdk

import (
	"context"
	"strconv"
	"testing"
	"time"
)

// tapeMarket 按时间顺序保存成交，AggTrades 返回 [Start, End) 内最早的 Limit 条，
// inclusiveEnd 时返回 [Start, End]
type tapeMarket struct {
	MarketData
	tape         []Trade
	calls        []AggTradeParams
	inclusiveEnd bool
}

func (m *tapeMarket) AggTrades(_ context.Context, _ string, p AggTradeParams) ([]Trade, UnauthedError) {
	m.calls = append(m.calls, p)
	var out []Trade
	for _, tr := range m.tape {
		if !p.Start.IsZero() && tr.Time.Before(p.Start) {
			continue
		}
		if !p.End.IsZero() && tr.Time.After(p.End) {
			continue
		}
		if !p.End.IsZero() && !m.inclusiveEnd && tr.Time.Equal(p.End) {
			continue
		}
		out = append(out, tr)
		if p.Limit > 0 && len(out) == p.Limit {
			break
		}
	}
	return out, nil
}

func TestAggTradeParamsOnlyEnd(t *testing.T) {
	p := AggTradeParams{End: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if !p.Start.IsZero() || p.StartID != "" || p.Limit != 0 {
		t.Errorf("未设置的字段应为零值: %+v", p)
	}
	m := &tapeMarket{}
	if _, err := m.AggTrades(context.Background(), "BTCUSDT", p); err != nil {
		t.Errorf("只设置 End 时调用失败: %v", err)
	}
}

func TestAggTradesPagedWalksAllWindows(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m := &tapeMarket{}
	// 第一小时 2500 条，其中最后 1200 条落在同一毫秒；第三小时 1 条
	for i := 0; i < 1300; i++ {
		m.tape = append(m.tape, Trade{Price: strconv.Itoa(i), Time: start.Add(time.Duration(i) * time.Second)})
	}
	same := start.Add(30 * time.Minute)
	for i := 0; i < 1200; i++ {
		m.tape = append(m.tape, Trade{Price: "same-" + strconv.Itoa(i), Time: same})
	}
	m.tape = append(m.tape, Trade{Price: "late", Time: start.Add(150 * time.Minute)})

	var got []Trade
	err := AggTradesPaged(context.Background(), m, "BTCUSDT", start, start.Add(3*time.Hour), func(page []Trade) bool {
		got = append(got, page...)
		return true
	})
	if err != nil {
		t.Fatalf("分页失败: %v", err)
	}

	seen := make(map[string]bool)
	for i, tr := range got {
		if seen[tr.Price] {
			t.Fatalf("成交 %s 被重复返回", tr.Price)
		}
		seen[tr.Price] = true
		if i > 0 && tr.Time.Before(got[i-1].Time) {
			t.Fatalf("第 %d 条成交时间倒退", i)
		}
	}
	if !seen["late"] {
		t.Error("空窗口之后的成交没有被拉取")
	}
	if !seen["1299"] || !seen["same-999"] {
		t.Error("页边界上的成交丢失")
	}
	for _, p := range m.calls {
		if p.Limit != aggPageLimit || p.End.Sub(p.Start) > aggPageWindow {
			t.Errorf("分页参数不正确: %+v", p)
		}
	}
}

func TestAggTradesPagedExcludesEnd(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	m := &tapeMarket{inclusiveEnd: true}
	for i := 0; i < 4; i++ {
		m.tape = append(m.tape, Trade{Price: strconv.Itoa(i), Time: start.Add(time.Duration(i) * 30 * time.Minute)})
	}
	m.tape = append(m.tape, Trade{Price: "3-bis", Time: end})

	var got []string
	err := AggTradesPaged(context.Background(), m, "BTCUSDT", start, end, func(page []Trade) bool {
		for _, tr := range page {
			if !tr.Time.Before(end) {
				t.Errorf("成交 %s 落在 end 上", tr.Price)
			}
			got = append(got, tr.Price)
		}
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != "0" || got[2] != "2" {
		t.Errorf("期望 [0 1 2], 实际 %v", got)
	}
}

func TestAggTradesPagedStopsWhenYieldFalse(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m := &tapeMarket{}
	for i := 0; i < 5; i++ {
		m.tape = append(m.tape, Trade{Price: strconv.Itoa(i), Time: start.Add(time.Duration(i) * time.Hour)})
	}
	pages := 0
	err := AggTradesPaged(context.Background(), m, "BTCUSDT", start, start.Add(5*time.Hour), func([]Trade) bool {
		pages++
		return pages < 2
	})
	if err != nil {
		t.Fatal(err)
	}
	if pages != 2 {
		t.Errorf("yield 返回 false 后应停止, 实际调用 %d 次", pages)
	}
}

func TestAggTradesPagedCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := AggTradesPaged(ctx, &tapeMarket{}, "BTCUSDT", start, start.Add(time.Hour), func([]Trade) bool { return true })
	if err == nil || err.Kind() != KindNetworkFailure {
		t.Errorf("期望 NETWORK_FAILURE, 实际 %v", err)
	}
}
