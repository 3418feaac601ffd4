package paper

import (
	rbt "github.com/emirpasic/gods/trees/redblacktree"
	"github.com/shopspring/decimal"

	"exchange_sdk/sdk"
)

// level 同一价格上的挂单，按时间先后排队
type level struct {
	price  decimal.Decimal
	orders []*order
}

func (l *level) amount() decimal.Decimal {
	total := decimal.Zero
	for _, o := range l.orders {
		total = total.Add(o.remaining())
	}
	return total
}

// book 单个交易对的盘口。树的迭代顺序即盘口顺序：卖盘升序，买盘降序。
type book struct {
	asks *rbt.Tree
	bids *rbt.Tree
}

func newBook() *book {
	return &book{
		asks: rbt.NewWith(askComparator),
		bids: rbt.NewWith(bidComparator),
	}
}

func (b *book) side(s sdk.Side) *rbt.Tree {
	if s == sdk.Buy {
		return b.bids
	}
	return b.asks
}

// best 指定方向的最优档位
func (b *book) best(s sdk.Side) *level {
	node := b.side(s).Left()
	if node == nil {
		return nil
	}
	return node.Value.(*level)
}

func (b *book) add(o *order) {
	tree := b.side(o.side)
	if v, found := tree.Get(o.price); found {
		lv := v.(*level)
		lv.orders = append(lv.orders, o)
		return
	}
	tree.Put(o.price, &level{price: o.price, orders: []*order{o}})
}

func (b *book) remove(o *order) {
	tree := b.side(o.side)
	v, found := tree.Get(o.price)
	if !found {
		return
	}
	lv := v.(*level)
	for i, resting := range lv.orders {
		if resting == o {
			lv.orders = append(lv.orders[:i], lv.orders[i+1:]...)
			break
		}
	}
	if len(lv.orders) == 0 {
		tree.Remove(o.price)
	}
}

// crosses 价格为 price 的 side 方向订单是否会立即成交
func (b *book) crosses(s sdk.Side, price decimal.Decimal) bool {
	opp := b.best(s.Opposite())
	if opp == nil {
		return false
	}
	if s == sdk.Buy {
		return price.GreaterThanOrEqual(opp.price)
	}
	return price.LessThanOrEqual(opp.price)
}

// fillable 在价格限制内对手盘可成交的数量和所需计价币金额，limit 为 nil 表示市价
func (b *book) fillable(s sdk.Side, limit *decimal.Decimal, want decimal.Decimal) (qty, notional decimal.Decimal) {
	it := b.side(s.Opposite()).Iterator()
	for it.Next() && qty.LessThan(want) {
		lv := it.Value().(*level)
		if limit != nil && !priceAcceptable(s, lv.price, *limit) {
			break
		}
		q := decimal.Min(lv.amount(), want.Sub(qty))
		qty = qty.Add(q)
		notional = notional.Add(q.Mul(lv.price))
	}
	return qty, notional
}

func priceAcceptable(taker sdk.Side, makerPrice, limit decimal.Decimal) bool {
	if taker == sdk.Buy {
		return makerPrice.LessThanOrEqual(limit)
	}
	return makerPrice.GreaterThanOrEqual(limit)
}

// snapshot 每侧最多 depth 档的盘口快照
func (b *book) snapshot(depth int) sdk.OrderBook {
	return sdk.OrderBook{
		Asks: levels(b.asks, depth),
		Bids: levels(b.bids, depth),
	}
}

func levels(tree *rbt.Tree, depth int) []sdk.BookEntry {
	out := make([]sdk.BookEntry, 0, min(depth, tree.Size()))
	it := tree.Iterator()
	for it.Next() && len(out) < depth {
		lv := it.Value().(*level)
		out = append(out, sdk.BookEntry{Amount: lv.amount().String(), Price: lv.price.String()})
	}
	return out
}

// askComparator 卖盘按价格升序
func askComparator(a, b interface{}) int {
	return a.(decimal.Decimal).Cmp(b.(decimal.Decimal))
}

// bidComparator 买盘按价格降序
func bidComparator(a, b interface{}) int {
	return b.(decimal.Decimal).Cmp(a.(decimal.Decimal))
}
