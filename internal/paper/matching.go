package paper

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"exchange_sdk/internal/logger"
	"exchange_sdk/sdk"
)

// fill 一笔撮合结果
type fill struct {
	maker *order
	price decimal.Decimal
	qty   decimal.Decimal
}

// place 校验、冻结资金、撮合并挂出剩余部分。调用方持有写锁。
func (e *Exchange) place(acct *account, symbol string, o sdk.Order) (*order, sdk.AuthedError) {
	m, uerr := e.market(symbol)
	if uerr != nil {
		return nil, sdk.Authed(uerr)
	}
	if err := sdk.ValidateOrder(o); err != nil {
		return nil, err
	}
	bk := e.books[symbol]

	ord := &order{
		id:      uuid.NewString(),
		account: acct.key,
		symbol:  symbol,
		side:    o.OrderSide(),
		typ:     o.Type(),
		status:  sdk.StatusNew,
	}
	ord.qty, _ = decimal.NewFromString(o.Quantity())
	if err := m.checkQty(ord.qty); err != nil {
		return nil, err
	}

	var (
		limit *decimal.Decimal
		tif   sdk.TimeInForce
	)
	switch v := o.(type) {
	case sdk.LimitOrder:
		ord.price, _ = decimal.NewFromString(v.Price)
		if err := m.checkPrice(ord.price); err != nil {
			return nil, err
		}
		limit = &ord.price
		tif = v.TimeInForce
		if tif == "" {
			tif = sdk.GTC
		}
		if v.IsPostOnly() && bk.crosses(ord.side, ord.price) {
			return nil, sdk.InvalidParams{Detail: "post_only order would immediately match"}
		}
	case sdk.MarketOrder:
		tif = v.TimeInForce
		if tif == sdk.GTC {
			return nil, sdk.InvalidParams{Detail: "market orders do not support GTC"}
		}
	}

	fillQty, notional := bk.fillable(ord.side, limit, ord.qty)
	if ord.typ == sdk.TypeMarket && fillQty.IsZero() {
		return nil, sdk.InvalidParams{Detail: fmt.Sprintf("no liquidity for market order on %s", symbol)}
	}
	if err := e.reserve(acct, m, ord, notional); err != nil {
		return nil, err
	}

	e.orders[ord.id] = ord
	if tif == sdk.FOK && fillQty.LessThan(ord.qty) {
		e.release(acct, m, ord)
		ord.status = sdk.StatusCanceled
		return ord, nil
	}

	e.match(acct, m, bk, ord, limit)

	switch {
	case ord.remaining().IsZero():
		ord.status = sdk.StatusFilled
	case ord.typ == sdk.TypeLimit && tif == sdk.GTC:
		bk.add(ord)
	default:
		// IOC、FOK 及市价单未成交部分直接撤销
		e.release(acct, m, ord)
		ord.status = sdk.StatusCanceled
	}
	return ord, nil
}

// reserve 检查并冻结资金。限价买单按价格冻结全部数量，市价买单冻结可成交部分的金额。
func (e *Exchange) reserve(acct *account, m *market, ord *order, notional decimal.Decimal) sdk.AuthedError {
	if acct.house() {
		return nil
	}
	switch {
	case ord.side == sdk.Buy && ord.typ == sdk.TypeLimit:
		return lock(acct.balance(m.quote), m.quote, ord.qty.Mul(ord.price))
	case ord.side == sdk.Buy:
		if err := lock(acct.balance(m.quote), m.quote, notional); err != nil {
			return err
		}
		ord.reserved = notional
		return nil
	default:
		return lock(acct.balance(m.base), m.base, ord.qty)
	}
}

func lock(b *balance, currency string, amount decimal.Decimal) sdk.AuthedError {
	if b.free.LessThan(amount) {
		return sdk.InvalidParams{Detail: fmt.Sprintf("insufficient %s balance: free %s, required %s", currency, b.free, amount)}
	}
	b.free = b.free.Sub(amount)
	b.locked = b.locked.Add(amount)
	return nil
}

// release 解冻订单剩余部分占用的资金
func (e *Exchange) release(acct *account, m *market, ord *order) {
	if acct.house() {
		return
	}
	if ord.side == sdk.Sell {
		unlock(acct.balance(m.base), ord.remaining())
		return
	}
	b := acct.balance(m.quote)
	if ord.typ == sdk.TypeLimit {
		unlock(b, ord.remaining().Mul(ord.price))
		return
	}
	// 市价买单退回本单冻结后未花费的部分
	unlock(b, ord.reserved)
	ord.reserved = decimal.Zero
}

func unlock(b *balance, amount decimal.Decimal) {
	if amount.GreaterThan(b.locked) {
		amount = b.locked
	}
	if !amount.IsPositive() {
		return
	}
	b.locked = b.locked.Sub(amount)
	b.free = b.free.Add(amount)
}

// match 按价格优先、时间优先与对手盘撮合
func (e *Exchange) match(taker *account, m *market, bk *book, ord *order, limit *decimal.Decimal) {
	var fills []fill
	for ord.remaining().IsPositive() {
		lv := bk.best(ord.side.Opposite())
		if lv == nil || (limit != nil && !priceAcceptable(ord.side, lv.price, *limit)) {
			break
		}
		maker := lv.orders[0]
		qty := decimal.Min(ord.remaining(), maker.remaining())
		fills = append(fills, fill{maker: maker, price: lv.price, qty: qty})

		ord.executed = ord.executed.Add(qty)
		maker.executed = maker.executed.Add(qty)
		if maker.remaining().IsZero() {
			maker.status = sdk.StatusFilled
			bk.remove(maker)
		} else {
			maker.status = sdk.StatusPartiallyFilled
		}
		if ord.remaining().IsPositive() {
			ord.status = sdk.StatusPartiallyFilled
		}
	}
	if len(fills) > 0 {
		e.record(taker, m, ord, fills)
	}
}

// record 结算并记录成交。同一笔吃单在同一价格上的成交归集为一条归集成交。
func (e *Exchange) record(taker *account, m *market, ord *order, fills []fill) {
	now := e.now()
	buyerMaker := ord.side == sdk.Sell

	for i, f := range fills {
		e.settle(taker, m, ord, f.price, f.qty)
		e.settle(e.accounts[f.maker.account], m, f.maker, f.price, f.qty)

		trade := sdk.Trade{Price: f.price.String(), Quantity: f.qty.String(), Time: now, BuyerMaker: buyerMaker}
		e.trades[m.symbol] = append(e.trades[m.symbol], trade)

		aggs := e.aggTrades[m.symbol]
		if i > 0 && fills[i-1].price.Equal(f.price) {
			last := &aggs[len(aggs)-1]
			prev, _ := decimal.NewFromString(last.trade.Quantity)
			last.trade.Quantity = prev.Add(f.qty).String()
		} else {
			e.aggTrades[m.symbol] = append(aggs, aggTrade{id: e.nextAggID, trade: trade})
			e.nextAggID++
		}

		e.recordUser(taker, m.symbol, ord, f, now, false)
		e.recordUser(e.accounts[f.maker.account], m.symbol, f.maker, f, now, true)

		logger.WithFields(logger.Fields{
			"symbol": m.symbol,
			"price":  trade.Price,
			"qty":    trade.Quantity,
			"taker":  ord.id,
			"maker":  f.maker.id,
		}).Debug("模拟成交")
	}
}

func (e *Exchange) recordUser(acct *account, symbol string, o *order, f fill, now time.Time, maker bool) {
	if acct.house() {
		return
	}
	e.userTrades = append(e.userTrades, userTrade{
		account: acct.key,
		symbol:  symbol,
		trade: sdk.UserTrade{
			ID:       strconv.FormatInt(e.nextFillID, 10),
			Price:    f.price.String(),
			Quantity: f.qty.String(),
			Time:     now,
			Buyer:    o.side == sdk.Buy,
			Maker:    maker,
		},
	})
	e.nextFillID++
}

// settle 成交后的资金变动
func (e *Exchange) settle(acct *account, m *market, o *order, price, qty decimal.Decimal) {
	if acct.house() {
		return
	}
	base, quote := acct.balance(m.base), acct.balance(m.quote)
	notional := price.Mul(qty)
	if o.side == sdk.Buy {
		reserved := notional
		if o.typ == sdk.TypeLimit {
			// 限价买单按挂单价冻结，以更优价格成交时退回差额
			reserved = o.price.Mul(qty)
		} else {
			o.reserved = o.reserved.Sub(notional)
		}
		quote.locked = quote.locked.Sub(reserved)
		quote.free = quote.free.Add(reserved.Sub(notional))
		base.free = base.free.Add(qty)
		return
	}
	base.locked = base.locked.Sub(qty)
	quote.free = quote.free.Add(notional)
}
