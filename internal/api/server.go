package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"exchange_sdk/internal/config"
	"exchange_sdk/internal/logger"
	"exchange_sdk/internal/models"
	"exchange_sdk/internal/service"
	"exchange_sdk/internal/signing"
	"exchange_sdk/sdk"
)

// Server HTTP服务器
type Server struct {
	gateway *service.Gateway
	cfg     config.ServerConfig
	secrets map[string]string // API密钥 -> 签名密钥
	engine  *gin.Engine
	srv     *http.Server
}

// NewServer 创建新的HTTP服务器。secrets 中出现的密钥，其请求必须带有效签名。
func NewServer(cfg config.ServerConfig, gateway *service.Gateway, secrets map[string]string) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), corsMiddleware())

	server := &Server{
		gateway: gateway,
		cfg:     cfg,
		secrets: secrets,
		engine:  engine,
	}
	server.srv = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}

	// 注册路由
	server.registerRoutes()

	return server
}

// corsMiddleware CORS中间件，预检请求直接返回204
func corsMiddleware() gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", models.APIKeyHeader, signing.SignatureHeader, signing.TimestampHeader},
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}

// requestLogger 请求日志
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logger.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("HTTP请求")
	}
}

// registerRoutes 注册路由
func (s *Server) registerRoutes() {
	r := s.engine

	// 行情，无需认证
	r.GET(models.ExchangeInfoEndpoint, s.handleExchangeInfo)
	r.GET(models.DepthEndpoint, s.handleDepth)
	r.GET(models.TradesEndpoint, s.handleTrades)
	r.GET(models.AggTradesEndpoint, s.handleAggTrades)

	authed := r.Group("", s.verifySignature())
	{
		// 交易
		authed.POST(models.OrderEndpoint, s.handlePlaceOrder)
		authed.GET(models.OrderEndpoint, s.handleQueryOrder)
		authed.DELETE(models.OrderEndpoint, s.handleCancelOrder)
		authed.DELETE(models.OpenOrdersEndpoint, s.handleCancelAll)
		authed.GET(models.BalanceEndpoint, s.handleBalance)
		authed.GET(models.MyTradesEndpoint, s.handleMyTrades)

		// 钱包
		authed.POST(models.WithdrawEndpoint, s.handleWithdraw)
		authed.GET(models.DepositAddressEndpoint, s.handleDepositAddress)
		authed.GET(models.WithdrawalMethodsEndpoint, s.handleWithdrawalMethods)
	}

	// 健康检查
	s.engine.GET(models.HealthEndpoint, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "venue": s.gateway.Name()})
	})
}

// Handler 返回HTTP处理器，测试中配合 httptest 使用
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start 启动HTTP服务器，阻塞直到服务器关闭
func (s *Server) Start() error {
	logger.Infof("HTTP服务器启动在端口 %s", s.cfg.Port)
	logger.Info("API接口:")
	logger.Info("  GET    " + models.DepthEndpoint + " - 盘口深度")
	logger.Info("  GET    " + models.AggTradesEndpoint + " - 归集成交")
	logger.Info("  POST   " + models.OrderEndpoint + " - 下单 (需要 " + models.APIKeyHeader + ")")
	logger.Info("  DELETE " + models.OrderEndpoint + " - 撤单")
	logger.Info("  POST   " + models.WithdrawEndpoint + " - 提币")
	logger.Info("  GET    " + models.HealthEndpoint + " - 健康检查")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭，可以与 Start 并发调用，先于 Start 调用时 Start 直接返回
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// writeError 按错误类别写出错误响应
func writeError(c *gin.Context, err error) {
	kind := sdk.KindOf(err)
	if kind == "" {
		kind = sdk.KindInvalidResponse
	}
	c.JSON(statusOf(kind), models.ErrorResponse{Code: string(kind), Msg: sdk.Detail(err)})
}

func statusOf(kind sdk.Kind) int {
	switch kind {
	case sdk.KindInvalidParams:
		return http.StatusBadRequest
	case sdk.KindInvalidAuth:
		return http.StatusUnauthorized
	case sdk.KindNetworkFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) session(c *gin.Context) *service.Session {
	return s.gateway.Session(c.GetHeader(models.APIKeyHeader))
}

// queryLimit 解析 limit 参数，缺省为0
func queryLimit(c *gin.Context) (int, sdk.UnauthedError) {
	raw := c.Query(models.ParamLimit)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, sdk.InvalidParams{Detail: fmt.Sprintf("limit must be an integer, got %q", raw), Cause: err}
	}
	return n, nil
}

// queryTime 解析时间参数，缺省为零值
func queryTime(c *gin.Context, key string) (time.Time, sdk.UnauthedError) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, sdk.InvalidParams{Detail: fmt.Sprintf("%s must be RFC3339, got %q", key, raw), Cause: err}
	}
	return t.UTC(), nil
}

// historyParams 解析成交查询的公共参数
func historyParams(c *gin.Context) (limit int, start, end time.Time, err sdk.UnauthedError) {
	if limit, err = queryLimit(c); err != nil {
		return
	}
	if start, err = queryTime(c, models.ParamStartTime); err != nil {
		return
	}
	end, err = queryTime(c, models.ParamEndTime)
	return
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
