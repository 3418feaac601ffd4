package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig 加载配置文件，文件中缺少的部分使用默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := GetDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return config, nil
}

// LoadConfigOrCreateDefault 加载配置文件，如果不存在则创建默认配置
func LoadConfigOrCreateDefault(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			defaultConfig := GetDefaultConfig()
			if err := SaveConfig(path, defaultConfig); err != nil {
				return nil, fmt.Errorf("创建默认配置文件失败: %w", err)
			}
			return defaultConfig, nil
		}
		return nil, err
	}
	return config, nil
}

// ApplyEnv 用 .env 文件和环境变量覆盖配置。优先级: 环境变量 > .env 文件 > 配置文件
func ApplyEnv(cfg *Config, envPath string) {
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if file, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.Log.File = file
	}
	if url := os.Getenv("PAPER_BASE_URL"); url != "" {
		cfg.Client.BaseURL = url
	}
	// PAPER_API_KEY 追加一个账户，初始余额复制第一个账户，客户端也使用该账户
	if key := os.Getenv("PAPER_API_KEY"); key != "" {
		secret := os.Getenv("PAPER_API_SECRET")
		cfg.Client.APIKey, cfg.Client.Secret = key, secret
		if cfg.hasAccount(key) {
			return
		}
		acct := AccountConfig{APIKey: key, Secret: secret, Balances: map[string]string{}}
		if len(cfg.Paper.Accounts) > 0 {
			for currency, amount := range cfg.Paper.Accounts[0].Balances {
				acct.Balances[currency] = amount
			}
		}
		cfg.Paper.Accounts = append(cfg.Paper.Accounts, acct)
	}
}

func (c *Config) hasAccount(key string) bool {
	for _, a := range c.Paper.Accounts {
		if a.APIKey == key {
			return true
		}
	}
	return false
}

// SaveConfig 保存配置文件
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// GetDefaultConfig 获取默认配置
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8081",
			ReadTimeout:  10,
			WriteTimeout: 10,
		},
		Client: ClientConfig{
			BaseURL:    "http://127.0.0.1:8081",
			APIKey:     "paper-demo-key",
			Timeout:    30,
			MaxRetries: 3,
		},
		Paper: PaperConfig{
			Markets: []MarketConfig{
				{Symbol: "BTCUSDT", Base: "BTC", Quote: "USDT", TickSize: "0.01", StepSize: "0.00001", MinQty: "0.00001"},
				{Symbol: "ETHUSDT", Base: "ETH", Quote: "USDT", TickSize: "0.01", StepSize: "0.0001", MinQty: "0.0001"},
			},
			Accounts: []AccountConfig{
				{APIKey: "paper-demo-key", Balances: map[string]string{"USDT": "100000", "BTC": "2", "ETH": "20"}},
			},
			Networks: []NetworkConfig{
				{Currency: "USDT", Network: "TRC20", Fee: "1", MinAmount: "10"},
				{Currency: "USDT", Network: "ERC20", Fee: "5", MinAmount: "20"},
				{Currency: "BTC", Network: "BTC", Fee: "0.0002", MinAmount: "0.001"},
				{Currency: "ETH", Network: "ERC20", Fee: "0.002"},
			},
			Liquidity: []LiquidityConfig{
				{Symbol: "BTCUSDT", Side: "SELL", Price: "65010.00", Qty: "0.5"},
				{Symbol: "BTCUSDT", Side: "SELL", Price: "65020.00", Qty: "1"},
				{Symbol: "BTCUSDT", Side: "BUY", Price: "64990.00", Qty: "0.5"},
				{Symbol: "BTCUSDT", Side: "BUY", Price: "64980.00", Qty: "1"},
				{Symbol: "ETHUSDT", Side: "SELL", Price: "3501.00", Qty: "5"},
				{Symbol: "ETHUSDT", Side: "BUY", Price: "3499.00", Qty: "5"},
			},
		},
		Log: LogConfig{
			Level:    "info",         // 默认info级别
			Format:   "text",         // 默认文本格式
			File:     "logs/app.log", // 默认日志文件路径
			MaxSize:  100,            // 100MB
			MaxAge:   7,              // 保留7天
			Compress: true,           // 压缩旧日志
		},
	}
}
