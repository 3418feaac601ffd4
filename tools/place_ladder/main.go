package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"exchange_sdk/internal/api/client"
	"exchange_sdk/internal/config"
	"exchange_sdk/internal/service"
	"exchange_sdk/sdk"
)

// LadderResult 挂单结果
type LadderResult struct {
	Symbol   string                 `json:"symbol"`
	Side     sdk.Side               `json:"side"`
	OrderIDs []string               `json:"order_ids"`
	Balances map[string]sdk.Balance `json:"balances"`
}

// 按固定价差挂出一组只挂单限价单，输出订单号和挂单后的余额
func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	symbol := flag.String("symbol", "BTCUSDT", "交易对")
	side := flag.String("side", "BUY", "买卖方向 BUY/SELL")
	start := flag.String("price", "64000", "起始价格")
	step := flag.String("step", "10", "相邻两档的价差")
	qty := flag.String("qty", "0.01", "每档数量")
	levels := flag.Int("levels", 5, "档数")
	flag.Parse()

	cfg, err := config.LoadConfigOrCreateDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	config.ApplyEnv(cfg, ".env")

	price, perr := decimal.NewFromString(*start)
	gap, serr := decimal.NewFromString(*step)
	if perr != nil || serr != nil {
		fmt.Fprintf(os.Stderr, "价格参数不合法: price=%s step=%s\n", *start, *step)
		os.Exit(1)
	}
	s := sdk.Side(*side)
	if !s.Valid() {
		fmt.Fprintf(os.Stderr, "买卖方向不合法: %s\n", *side)
		os.Exit(1)
	}
	// 买单向下、卖单向上展开
	if s == sdk.Buy {
		gap = gap.Neg()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gw := service.NewGateway("http", client.NewClientWithConfig(cfg.Client))
	session := gw.Session(cfg.Client.APIKey)

	postOnly := true
	result := LadderResult{Symbol: *symbol, Side: s}
	for i := 0; i < *levels; i++ {
		resp, err := session.PlaceOrder(ctx, *symbol, sdk.LimitOrder{
			Side:     s,
			Qty:      *qty,
			Price:    price.Add(gap.Mul(decimal.NewFromInt(int64(i)))).String(),
			PostOnly: &postOnly,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "第 %d 档下单失败: %v\n", i+1, err)
			os.Exit(1)
		}
		result.OrderIDs = append(result.OrderIDs, resp.OrderID)
	}

	info, uerr := gw.ExchangeInfo(ctx)
	if uerr != nil {
		fmt.Fprintf(os.Stderr, "获取交易所信息失败: %v\n", uerr)
		os.Exit(1)
	}
	market, ok := info.Find(*symbol)
	if !ok {
		fmt.Fprintf(os.Stderr, "交易对不存在: %s\n", *symbol)
		os.Exit(1)
	}
	balances, berr := sdk.GetBalances(ctx, session, market.BaseAsset, market.QuoteAsset)
	if berr != nil {
		fmt.Fprintf(os.Stderr, "查询余额失败: %v\n", berr)
		os.Exit(1)
	}
	result.Balances = balances

	// 输出JSON格式
	jsonData, jerr := json.MarshalIndent(result, "", "  ")
	if jerr != nil {
		fmt.Fprintf(os.Stderr, "生成JSON失败: %v\n", jerr)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}
