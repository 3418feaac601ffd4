package models

// HTTP 接口路径，服务端和客户端共用
const (
	HealthEndpoint            = "/health"
	ExchangeInfoEndpoint      = "/api/v1/exchangeInfo"
	DepthEndpoint             = "/api/v1/depth"
	TradesEndpoint            = "/api/v1/trades"
	AggTradesEndpoint         = "/api/v1/aggTrades"
	OrderEndpoint             = "/api/v1/order"
	OpenOrdersEndpoint        = "/api/v1/openOrders"
	BalanceEndpoint           = "/api/v1/balance"
	MyTradesEndpoint          = "/api/v1/myTrades"
	WithdrawEndpoint          = "/api/v1/withdraw"
	DepositAddressEndpoint    = "/api/v1/depositAddress"
	WithdrawalMethodsEndpoint = "/api/v1/withdrawalMethods"

	// APIKeyHeader 认证请求头
	APIKeyHeader = "X-API-KEY"
)

// 查询参数
const (
	ParamSymbol    = "symbol"
	ParamLimit     = "limit"
	ParamFromID    = "fromId"
	ParamStartTime = "startTime" // RFC3339，纳秒精度
	ParamEndTime   = "endTime"   // RFC3339，纳秒精度，包含在内
	ParamOrderID   = "orderId"
	ParamAsset     = "asset"
	ParamCoin      = "coin"
	ParamNetwork   = "network"
)
