// Package paper 是一个内存撮合的模拟交易所，实现了 sdk 中的全部能力契约。
//
// 约定：
//   - 盘口卖盘按价格升序、买盘按价格降序；成交时间为UTC且不递减。
//   - 撤销已成交或已撤销的订单视为成功的空操作；撤销不存在的订单返回 InvalidParams。
//   - 只挂单（post_only）若会立即成交则拒绝（InvalidParams）。
//   - FOK 订单无法全部成交时直接撤销；IOC 订单未成交部分撤销；市价单不接受 GTC。
//   - 不收取交易手续费。
package paper

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"exchange_sdk/internal/config"
	"exchange_sdk/internal/logger"
	"exchange_sdk/sdk"
)

const (
	houseAccount     = "__house__"
	defaultDepth     = 100
	defaultTradeSize = 500
	maxTradeSize     = 1000
)

// Clock 时间源
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Option 构造选项
type Option func(*Exchange)

// WithClock 替换时间源
func WithClock(c Clock) Option {
	return func(e *Exchange) { e.clock = c }
}

type order struct {
	id       string
	account  string
	symbol   string
	side     sdk.Side
	typ      sdk.OrderType
	price    decimal.Decimal // 限价单价格，市价单为0
	qty      decimal.Decimal
	executed decimal.Decimal
	reserved decimal.Decimal // 市价买单尚未花费的冻结金额
	status   sdk.OrderStatus
}

func (o *order) remaining() decimal.Decimal {
	return o.qty.Sub(o.executed)
}

type balance struct {
	free   decimal.Decimal
	locked decimal.Decimal
}

type account struct {
	key      string
	balances map[string]*balance
}

func (a *account) house() bool { return a.key == houseAccount }

func (a *account) balance(currency string) *balance {
	b, ok := a.balances[currency]
	if !ok {
		b = &balance{}
		a.balances[currency] = b
	}
	return b
}

type aggTrade struct {
	id    int64
	trade sdk.Trade
}

type userTrade struct {
	account string
	symbol  string
	trade   sdk.UserTrade
}

// Exchange 模拟交易所
type Exchange struct {
	mu       sync.RWMutex
	clock    Clock
	lastTime time.Time

	markets  map[string]*market
	books    map[string]*book
	accounts map[string]*account
	orders   map[string]*order
	networks map[string][]sdk.WithdrawalMethod

	trades     map[string][]sdk.Trade
	aggTrades  map[string][]aggTrade
	userTrades []userTrade
	nextAggID  int64
	nextFillID int64
}

// New 根据配置创建模拟交易所，并挂出配置中的初始流动性
func New(cfg config.PaperConfig, opts ...Option) (*Exchange, error) {
	e := &Exchange{
		clock:      realClock{},
		markets:    make(map[string]*market),
		books:      make(map[string]*book),
		accounts:   make(map[string]*account),
		orders:     make(map[string]*order),
		networks:   make(map[string][]sdk.WithdrawalMethod),
		trades:     make(map[string][]sdk.Trade),
		aggTrades:  make(map[string][]aggTrade),
		nextAggID:  1,
		nextFillID: 1,
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, mc := range cfg.Markets {
		m, err := newMarket(mc)
		if err != nil {
			return nil, err
		}
		e.markets[m.symbol] = m
		e.books[m.symbol] = newBook()
	}

	e.accounts[houseAccount] = &account{key: houseAccount, balances: map[string]*balance{}}
	for _, ac := range cfg.Accounts {
		if ac.APIKey == "" || ac.APIKey == houseAccount {
			return nil, fmt.Errorf("无效的API密钥: %q", ac.APIKey)
		}
		acct := &account{key: ac.APIKey, balances: map[string]*balance{}}
		for currency, amount := range ac.Balances {
			free, err := decimal.NewFromString(amount)
			if err != nil || free.IsNegative() {
				return nil, fmt.Errorf("账户 %s 的 %s 余额无效: %q", ac.APIKey, currency, amount)
			}
			acct.balance(currency).free = free
		}
		e.accounts[ac.APIKey] = acct
	}

	for _, nc := range cfg.Networks {
		if _, err := decimal.NewFromString(nc.Fee); err != nil {
			return nil, fmt.Errorf("%s/%s 手续费无效: %w", nc.Currency, nc.Network, err)
		}
		e.networks[nc.Currency] = append(e.networks[nc.Currency], sdk.WithdrawalMethod{
			Network:   nc.Network,
			Fee:       nc.Fee,
			MinAmount: nc.MinAmount,
		})
	}

	for _, lc := range cfg.Liquidity {
		if err := e.Seed(lc.Symbol, sdk.Side(lc.Side), lc.Price, lc.Qty); err != nil {
			return nil, fmt.Errorf("挂出初始流动性失败: %w", err)
		}
	}

	logger.Infof("模拟交易所已创建: %d 个交易对, %d 个账户", len(e.markets), len(cfg.Accounts))
	return e, nil
}

// Seed 由做市账户挂出一笔限价单，不检查余额
func (e *Exchange) Seed(symbol string, side sdk.Side, price, qty string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.place(e.accounts[houseAccount], symbol, sdk.LimitOrder{Side: side, Qty: qty, Price: price, TimeInForce: sdk.GTC})
	if err != nil {
		return err
	}
	return nil
}

// Markets 全部交易对规则，按交易对名称排序
func (e *Exchange) Markets() []MarketInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]MarketInfo, 0, len(e.markets))
	for _, m := range e.markets {
		out = append(out, m.info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Client 返回绑定到 apiKey 的客户端。密钥在每次调用时校验，未知密钥返回 InvalidAuth。
func (e *Exchange) Client(apiKey string) *Client {
	return &Client{ex: e, apiKey: apiKey}
}

func (e *Exchange) authenticate(apiKey string) (*account, sdk.AuthedError) {
	if apiKey == "" {
		return nil, sdk.InvalidAuth{Detail: "missing api key"}
	}
	acct, ok := e.accounts[apiKey]
	if !ok || acct.house() {
		return nil, sdk.InvalidAuth{Detail: "unknown api key"}
	}
	return acct, nil
}

func (e *Exchange) market(symbol string) (*market, sdk.UnauthedError) {
	if err := sdk.ValidateSymbol("symbol", symbol); err != nil {
		return nil, err
	}
	m, ok := e.markets[symbol]
	if !ok {
		return nil, sdk.InvalidParams{Detail: fmt.Sprintf("unknown symbol %q", symbol)}
	}
	return m, nil
}

// now 返回不早于上一笔成交的UTC时间
func (e *Exchange) now() time.Time {
	t := e.clock.Now().UTC()
	if t.Before(e.lastTime) {
		t = e.lastTime
	}
	e.lastTime = t
	return t
}

func checkCtx(ctx context.Context) sdk.UnauthedError {
	if err := ctx.Err(); err != nil {
		return sdk.NetworkFailure{Detail: "request aborted", Cause: err}
	}
	return nil
}
