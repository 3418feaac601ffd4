package sdk

import (
	"context"
	"time"
)

// BookEntry 盘口档位
type BookEntry struct {
	Amount string `json:"amount"`
	Price  string `json:"price"`
}

// OrderBook 盘口快照。卖盘按价格升序，买盘按价格降序。
type OrderBook struct {
	Asks []BookEntry `json:"asks"`
	Bids []BookEntry `json:"bids"`
}

// Trade 公开成交。Time 统一为UTC。
type Trade struct {
	Price      string    `json:"price"`
	Quantity   string    `json:"quantity"`
	Time       time.Time `json:"time"`
	BuyerMaker bool      `json:"buyer_maker"`
}

// AggTradeParams 归集成交查询条件，所有字段相互独立且可选（零值表示未设置）
type AggTradeParams struct {
	Limit   int
	Start   time.Time
	StartID string
	End     time.Time
}

// MarketData 行情能力，无需认证，永远不会返回 InvalidAuth
type MarketData interface {
	// OrderBook 盘口深度，limit 为每侧最大档数，0 表示实现方默认深度
	OrderBook(ctx context.Context, symbol string, limit int) (OrderBook, UnauthedError)
	// Trades 最近成交，按时间递增排序（最新的在最后）
	Trades(ctx context.Context, symbol string, limit int) ([]Trade, UnauthedError)
	// AggTrades 归集成交，按时间递增排序（最新的在最后）
	AggTrades(ctx context.Context, symbol string, params AggTradeParams) ([]Trade, UnauthedError)
}

const (
	aggPageWindow = time.Hour
	aggPageLimit  = 1000
)

// AggTradesPaged 按一小时窗口分页拉取 [start, end) 内的全部归集成交。
// 每个非空页调用一次 yield，yield 返回 false 时停止。
// 页边界上已返回过的成交不会重复返回。
func AggTradesPaged(ctx context.Context, md MarketData, symbol string, start, end time.Time, yield func([]Trade) bool) UnauthedError {
	last := start
	var boundary time.Time
	seenAtBoundary := 0

	for last.Before(end) {
		if err := ctx.Err(); err != nil {
			return NetworkFailure{Detail: "paging interrupted", Cause: err}
		}
		windowEnd := last.Add(aggPageWindow)
		if windowEnd.After(end) {
			windowEnd = end
		}
		page, err := md.AggTrades(ctx, symbol, AggTradeParams{Limit: aggPageLimit, Start: last, End: windowEnd})
		if err != nil {
			return err
		}
		full := len(page) >= aggPageLimit

		// 去掉上一页末尾时间点上已经返回过的成交
		skip := 0
		for skip < len(page) && skip < seenAtBoundary && page[skip].Time.Equal(boundary) {
			skip++
		}
		fresh := page[skip:]

		// 实现方的 End 可能包含在内，去掉恰好落在 end 上的成交。
		// 页内按时间递增，出现 end 上的成交说明 [last, end) 已经取完。
		cut := len(fresh)
		for cut > 0 && !fresh[cut-1].Time.Before(end) {
			cut--
		}
		reachedEnd := cut < len(fresh)
		fresh = fresh[:cut]

		if len(fresh) > 0 {
			if !yield(fresh) {
				return nil
			}
			tail := fresh[len(fresh)-1].Time
			if tail.Equal(boundary) {
				seenAtBoundary += countAt(fresh, tail)
			} else {
				boundary = tail
				seenAtBoundary = countAt(fresh, tail)
			}
		}
		if reachedEnd {
			return nil
		}

		switch {
		case !full:
			last = windowEnd
		case len(fresh) == 0 || !boundary.After(last):
			// 整页都落在同一时间点，无法继续推进
			last = last.Add(time.Millisecond)
		default:
			last = boundary
		}
	}
	return nil
}

func countAt(trades []Trade, t time.Time) int {
	n := 0
	for i := len(trades) - 1; i >= 0 && trades[i].Time.Equal(t); i-- {
		n++
	}
	return n
}
