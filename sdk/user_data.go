package sdk

import (
	"context"
	"strconv"
	"time"
)

// UserTrade 账户自己的成交
type UserTrade struct {
	ID       string    `json:"id"`
	Price    string    `json:"price"`
	Quantity string    `json:"quantity"`
	Time     time.Time `json:"time"`
	Buyer    bool      `json:"buyer"`
	Maker    bool      `json:"maker"`
}

// UserTradeParams 账户成交查询条件，零值表示未设置
type UserTradeParams struct {
	Limit   int
	Start   time.Time
	End     time.Time
	StartID string
}

// UserData 账户数据能力，需要认证
type UserData interface {
	// UserTrades 账户成交，按时间递增排序
	UserTrades(ctx context.Context, symbol string, params UserTradeParams) ([]UserTrade, AuthedError)
}

// UserTradesPaged 从 start 开始分页拉取账户成交直到 end，按 ID 去重。
// limit 为每页条数，0 表示实现方默认值。成交ID为整数时下一页从上一页末尾的
// 下一个ID开始，同一时间点上超过一页的成交也不会丢失；否则只能按时间推进。
func UserTradesPaged(ctx context.Context, ud UserData, symbol string, limit int, start, end time.Time, yield func([]UserTrade) bool) AuthedError {
	seen := make(map[string]struct{})
	params := UserTradeParams{Limit: limit, Start: start, End: end}
	for !params.Start.After(end) {
		if err := ctx.Err(); err != nil {
			return NetworkFailure{Detail: "paging interrupted", Cause: err}
		}
		page, err := ud.UserTrades(ctx, symbol, params)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		fresh := make([]UserTrade, 0, len(page))
		for _, t := range page {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			fresh = append(fresh, t)
		}
		if len(fresh) > 0 && !yield(fresh) {
			return nil
		}

		tail := page[len(page)-1]
		next := UserTradeParams{Limit: limit, Start: tail.Time, End: end}
		if id, ok := nextTradeID(tail.ID); ok {
			next.StartID = id
		}
		if len(fresh) == 0 && next.StartID == params.StartID && next.Start.Equal(params.Start) {
			// 整页都已返回过且无法按ID推进，跳过该时间点
			next.Start = tail.Time.Add(time.Millisecond)
			next.StartID = ""
		}
		params = next
	}
	return nil
}

func nextTradeID(id string) (string, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n < 0 {
		return "", false
	}
	return strconv.FormatInt(n+1, 10), true
}
