package sdk

import (
	"context"
	"strconv"
	"testing"
	"time"
)

type fixedUserData struct {
	trades []UserTrade
}

// UserTrades 返回 [Start, End) 内、ID 不小于 StartID 的最早 Limit 条
func (f *fixedUserData) UserTrades(_ context.Context, _ string, p UserTradeParams) ([]UserTrade, AuthedError) {
	from := -1
	if p.StartID != "" {
		from, _ = strconv.Atoi(p.StartID)
	}
	var out []UserTrade
	for _, tr := range f.trades {
		if tr.Time.Before(p.Start) || !tr.Time.Before(p.End) {
			continue
		}
		if id, err := strconv.Atoi(tr.ID); err == nil && id < from {
			continue
		}
		out = append(out, tr)
		if p.Limit > 0 && len(out) == p.Limit {
			break
		}
	}
	return out, nil
}

func TestUserTradesPagedDedupes(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ud := &fixedUserData{}
	for i := 0; i < 7; i++ {
		ud.trades = append(ud.trades, UserTrade{ID: strconv.Itoa(i), Time: start.Add(time.Duration(i) * time.Minute)})
	}

	var ids []string
	err := UserTradesPaged(context.Background(), ud, "BTCUSDT", 3, start, start.Add(time.Hour), func(page []UserTrade) bool {
		for _, tr := range page {
			ids = append(ids, tr.ID)
		}
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 7 {
		t.Fatalf("期望 7 条成交, 实际 %v", ids)
	}
	for i, id := range ids {
		if id != strconv.Itoa(i) {
			t.Errorf("第 %d 条为 %s", i, id)
		}
	}
}

func TestUserTradesPagedSameInstant(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ud := &fixedUserData{}
	for i := 10; i < 15; i++ {
		ud.trades = append(ud.trades, UserTrade{ID: strconv.Itoa(i), Time: at})
	}
	ud.trades = append(ud.trades, UserTrade{ID: "15", Time: at.Add(time.Second)})

	var ids []string
	err := UserTradesPaged(context.Background(), ud, "BTCUSDT", 2, at.Add(-time.Minute), at.Add(time.Minute), func(page []UserTrade) bool {
		for _, tr := range page {
			ids = append(ids, tr.ID)
		}
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 6 {
		t.Fatalf("同一时间点超过一页的成交丢失: %v", ids)
	}
	for i, id := range ids {
		if id != strconv.Itoa(10+i) {
			t.Errorf("第 %d 条为 %s", i, id)
		}
	}
}

func TestNextTradeID(t *testing.T) {
	if id, ok := nextTradeID("41"); !ok || id != "42" {
		t.Errorf("nextTradeID(41) = %s, %v", id, ok)
	}
	for _, bad := range []string{"", "abc", "-1"} {
		if _, ok := nextTradeID(bad); ok {
			t.Errorf("nextTradeID(%q) 应返回 false", bad)
		}
	}
}
