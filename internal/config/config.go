package config

// Config 应用配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Paper  PaperConfig  `yaml:"paper"`
	Client ClientConfig `yaml:"client"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`  // 秒
	WriteTimeout int    `yaml:"write_timeout"` // 秒
}

// PaperConfig 模拟交易所配置
type PaperConfig struct {
	Markets   []MarketConfig    `yaml:"markets"`
	Accounts  []AccountConfig   `yaml:"accounts"`
	Networks  []NetworkConfig   `yaml:"networks"`
	Liquidity []LiquidityConfig `yaml:"liquidity"` // 启动时由做市账户挂出的初始流动性
}

// MarketConfig 交易对及其规则
type MarketConfig struct {
	Symbol   string `yaml:"symbol"`
	Base     string `yaml:"base"`
	Quote    string `yaml:"quote"`
	TickSize string `yaml:"tick_size,omitempty"` // 价格步进值，留空不限制
	StepSize string `yaml:"step_size,omitempty"` // 数量步进值，留空不限制
	MinQty   string `yaml:"min_qty,omitempty"`   // 最小下单数量
}

// AccountConfig 账户及初始余额
type AccountConfig struct {
	APIKey   string            `yaml:"api_key"`
	Secret   string            `yaml:"secret,omitempty"` // 配置后该账户的请求必须签名
	Balances map[string]string `yaml:"balances"`
}

// Secrets 配置了签名密钥的账户
func (c PaperConfig) Secrets() map[string]string {
	secrets := make(map[string]string)
	for _, a := range c.Accounts {
		if a.Secret != "" {
			secrets[a.APIKey] = a.Secret
		}
	}
	return secrets
}

// NetworkConfig 某币种的一条提币网络
type NetworkConfig struct {
	Currency  string `yaml:"currency"`
	Network   string `yaml:"network"`
	Fee       string `yaml:"fee"`
	MinAmount string `yaml:"min_amount,omitempty"`
}

// LiquidityConfig 初始挂单
type LiquidityConfig struct {
	Symbol string `yaml:"symbol"`
	Side   string `yaml:"side"` // BUY/SELL
	Price  string `yaml:"price"`
	Qty    string `yaml:"qty"`
}

// ClientConfig HTTP客户端配置
type ClientConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Secret     string `yaml:"secret,omitempty"`
	Timeout    int    `yaml:"timeout"`     // 秒
	MaxRetries int    `yaml:"max_retries"` // 只读请求网络失败时的最大尝试次数
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `yaml:"level"`    // 日志级别: trace, debug, info, warn, error, fatal, panic
	Format   string `yaml:"format"`   // text 或 json
	File     string `yaml:"file"`     // 日志文件路径，留空则只输出到控制台
	MaxSize  int    `yaml:"max_size"` // 单个日志文件最大大小(MB)，0表示不限制
	MaxAge   int    `yaml:"max_age"`  // 日志文件保留天数，0表示不删除
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}
