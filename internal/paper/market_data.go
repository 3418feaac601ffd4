package paper

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"

	"exchange_sdk/sdk"
)

var _ sdk.MarketData = (*Exchange)(nil)

// OrderBook 盘口快照，limit 为0时每侧最多 100 档
func (e *Exchange) OrderBook(ctx context.Context, symbol string, limit int) (sdk.OrderBook, sdk.UnauthedError) {
	if err := checkCtx(ctx); err != nil {
		return sdk.OrderBook{}, err
	}
	if err := sdk.ValidateLimit(limit); err != nil {
		return sdk.OrderBook{}, err
	}
	if limit == 0 {
		limit = defaultDepth
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.market(symbol); err != nil {
		return sdk.OrderBook{}, err
	}
	return e.books[symbol].snapshot(limit), nil
}

// Trades 最近成交，limit 为0时返回 500 条，最多 1000 条
func (e *Exchange) Trades(ctx context.Context, symbol string, limit int) ([]sdk.Trade, sdk.UnauthedError) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	limit, err := tradeLimit(limit)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.market(symbol); err != nil {
		return nil, err
	}
	return window(e.trades[symbol], limit, false), nil
}

// AggTrades 归集成交。指定 Start 或 StartID 时从最早的符合条件的成交开始返回，
// 否则返回最近的成交。End 包含在内。
func (e *Exchange) AggTrades(ctx context.Context, symbol string, params sdk.AggTradeParams) ([]sdk.Trade, sdk.UnauthedError) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	limit, err := tradeLimit(params.Limit)
	if err != nil {
		return nil, err
	}
	fromID, err := parseStartID(params.StartID)
	if err != nil {
		return nil, err
	}
	if err := checkRange(params.Start, params.End); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.market(symbol); err != nil {
		return nil, err
	}
	matched := lo.Filter(e.aggTrades[symbol], func(a aggTrade, _ int) bool {
		return a.id >= fromID && inRange(a.trade.Time, params.Start, params.End)
	})
	fromStart := params.StartID != "" || !params.Start.IsZero()
	return lo.Map(window(matched, limit, fromStart), func(a aggTrade, _ int) sdk.Trade {
		return a.trade
	}), nil
}

func (e *Exchange) userTradesOf(acct *account, symbol string, params sdk.UserTradeParams) ([]sdk.UserTrade, sdk.AuthedError) {
	limit, err := tradeLimit(params.Limit)
	if err != nil {
		return nil, sdk.Authed(err)
	}
	fromID, err := parseStartID(params.StartID)
	if err != nil {
		return nil, sdk.Authed(err)
	}
	if err := checkRange(params.Start, params.End); err != nil {
		return nil, sdk.Authed(err)
	}
	matched := lo.FilterMap(e.userTrades, func(u userTrade, _ int) (sdk.UserTrade, bool) {
		if u.account != acct.key || u.symbol != symbol || !inRange(u.trade.Time, params.Start, params.End) {
			return sdk.UserTrade{}, false
		}
		id, _ := strconv.ParseInt(u.trade.ID, 10, 64)
		return u.trade, id >= fromID
	})
	fromStart := params.StartID != "" || !params.Start.IsZero()
	return window(matched, limit, fromStart), nil
}

func tradeLimit(limit int) (int, sdk.UnauthedError) {
	if err := sdk.ValidateLimit(limit); err != nil {
		return 0, err
	}
	if limit == 0 {
		return defaultTradeSize, nil
	}
	return min(limit, maxTradeSize), nil
}

func parseStartID(s string) (int64, sdk.UnauthedError) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, sdk.InvalidParams{Detail: fmt.Sprintf("start_id must be a non-negative integer, got %q", s)}
	}
	return id, nil
}

func checkRange(start, end time.Time) sdk.UnauthedError {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return sdk.InvalidParams{Detail: "end must not be before start"}
	}
	return nil
}

func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

// window 取最早或最近的 limit 条，结果保持时间递增并且与内部存储不共享底层数组
func window[T any](items []T, limit int, fromStart bool) []T {
	if len(items) > limit {
		if fromStart {
			items = items[:limit]
		} else {
			items = items[len(items)-limit:]
		}
	}
	return append(make([]T, 0, len(items)), items...)
}
