package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"exchange_sdk/internal/api/client"
	"exchange_sdk/internal/config"
	"exchange_sdk/internal/models"
	"exchange_sdk/internal/service"
	"exchange_sdk/sdk"
)

// SymbolInfo 交易对概览（用于排序和输出）
type SymbolInfo struct {
	Symbol   string
	TickSize string
	StepSize string
	BestBid  string
	BestAsk  string
	Trades   int
}

func main() {
	defaults := config.GetDefaultConfig().Client
	baseURL := flag.String("url", defaults.BaseURL, "服务地址")
	window := flag.Duration("window", time.Hour, "统计最近多长时间的归集成交")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gw := service.NewGateway("http", client.NewClient(*baseURL))

	// 获取交易所信息
	info, err := gw.ExchangeInfo(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取交易所信息失败: %v\n", err)
		os.Exit(1)
	}

	// 收集所有TRADING状态的交易对
	var symbols []SymbolInfo
	for _, s := range info.Symbols {
		if s.Status != models.StatusTrading {
			continue
		}
		row := SymbolInfo{Symbol: s.Symbol}
		if f, ok := s.Filter(models.FilterPrice); ok {
			row.TickSize = f.TickSize
		}
		if f, ok := s.Filter(models.FilterLotSize); ok {
			row.StepSize = f.StepSize
		}

		book, err := gw.OrderBook(ctx, s.Symbol, 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "获取 %s 盘口失败: %v\n", s.Symbol, err)
			os.Exit(1)
		}
		row.BestBid, row.BestAsk = top(book.Bids), top(book.Asks)

		end := time.Now()
		err = sdk.AggTradesPaged(ctx, gw, s.Symbol, end.Add(-*window), end, func(page []sdk.Trade) bool {
			row.Trades += len(page)
			return true
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "获取 %s 归集成交失败: %v\n", s.Symbol, err)
			os.Exit(1)
		}
		symbols = append(symbols, row)
	}

	// 按成交笔数倒序排序（最活跃的在前）
	sort.Slice(symbols, func(i, j int) bool {
		if symbols[i].Trades != symbols[j].Trades {
			return symbols[i].Trades > symbols[j].Trades
		}
		return symbols[i].Symbol < symbols[j].Symbol
	})

	fmt.Printf("%-12s %-10s %-10s %-14s %-14s %s\n", "SYMBOL", "TICK", "STEP", "BID", "ASK", "TRADES")
	for _, s := range symbols {
		fmt.Printf("%-12s %-10s %-10s %-14s %-14s %d\n", s.Symbol, s.TickSize, s.StepSize, s.BestBid, s.BestAsk, s.Trades)
	}
}

func top(entries []sdk.BookEntry) string {
	if len(entries) == 0 {
		return "-"
	}
	return entries[0].Amount + "@" + entries[0].Price
}
