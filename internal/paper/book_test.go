package paper

import (
	"testing"

	"github.com/shopspring/decimal"

	"exchange_sdk/sdk"
)

func TestBookOrdering(t *testing.T) {
	bk := newBook()
	for _, p := range []string{"101", "99.5", "100", "102"} {
		price := decimal.RequireFromString(p)
		bk.add(&order{side: sdk.Sell, price: price, qty: decimal.NewFromInt(1)})
		bk.add(&order{side: sdk.Buy, price: price.Sub(decimal.NewFromInt(10)), qty: decimal.NewFromInt(1)})
	}

	assertDecimal(t, "best ask", bk.best(sdk.Sell).price.String(), "99.5")
	assertDecimal(t, "best bid", bk.best(sdk.Buy).price.String(), "92")

	ob := bk.snapshot(10)
	for i := 1; i < len(ob.Asks); i++ {
		prev, cur := decimal.RequireFromString(ob.Asks[i-1].Price), decimal.RequireFromString(ob.Asks[i].Price)
		if !prev.LessThan(cur) {
			t.Errorf("卖盘应按价格升序: %v", ob.Asks)
		}
	}
	for i := 1; i < len(ob.Bids); i++ {
		prev, cur := decimal.RequireFromString(ob.Bids[i-1].Price), decimal.RequireFromString(ob.Bids[i].Price)
		if !prev.GreaterThan(cur) {
			t.Errorf("买盘应按价格降序: %v", ob.Bids)
		}
	}

	// 数值相等但精度不同的价格落在同一档
	if askComparator(decimal.RequireFromString("100"), decimal.RequireFromString("100.00")) != 0 {
		t.Error("100 与 100.00 应视为同一价格")
	}
	if bidComparator(decimal.RequireFromString("99"), decimal.RequireFromString("100")) <= 0 {
		t.Error("买盘中较低价格应排在后面")
	}
}
