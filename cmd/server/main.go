package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exchange_sdk/internal/api"
	"exchange_sdk/internal/config"
	"exchange_sdk/internal/logger"
	"exchange_sdk/internal/paper"
	"exchange_sdk/internal/service"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	envPath := flag.String("env", ".env", "环境变量文件路径")
	port := flag.String("port", "", "HTTP服务端口，留空使用配置文件")
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfigOrCreateDefault(*configPath)
	if err != nil {
		logger.Fatalf("加载配置失败: %v", err)
	}
	config.ApplyEnv(cfg, *envPath)
	if *port != "" {
		cfg.Server.Port = *port
	}

	// 初始化日志
	if err := logger.Init(cfg.Log); err != nil {
		logger.Fatalf("初始化日志失败: %v", err)
	}

	logger.Info("配置加载成功")
	logger.Infof("日志级别: %s, 日志文件: %s", cfg.Log.Level, cfg.Log.File)

	// 创建模拟交易所
	ex, err := paper.New(cfg.Paper)
	if err != nil {
		logger.Fatalf("创建模拟交易所失败: %v", err)
	}
	logger.Infof("模拟交易所启动成功，交易对数量: %d，账户数量: %d", len(ex.Markets()), len(cfg.Paper.Accounts))

	gateway := service.NewGateway("paper", service.NewPaperVenue(ex))
	httpServer := api.NewServer(cfg.Server, gateway, cfg.Paper.Secrets())

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatalf("HTTP服务器启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("关闭HTTP服务器失败: %v", err)
	}
	logger.Info("服务已退出")
}
