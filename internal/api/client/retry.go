package client

import (
	"context"
	"time"

	"exchange_sdk/internal/logger"
	"exchange_sdk/sdk"
)

// RetryConfig 重试配置
type RetryConfig struct {
	MaxRetries   int           // 最大尝试次数
	InitialDelay time.Duration // 初始延迟时间
	MaxDelay     time.Duration // 最大延迟时间
}

// DefaultRetryConfig 默认重试配置
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
	}
}

// retryWithBackoff 带退避的重试。只有网络失败会重试，其余错误类别直接返回。
// 上下文结束时立即返回最后一次的错误。
func retryWithBackoff(ctx context.Context, fn func() sdk.AuthedError, config RetryConfig) sdk.AuthedError {
	var lastErr sdk.AuthedError
	delay := config.InitialDelay

	for i := 0; i < config.MaxRetries || i == 0; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if err.Kind() != sdk.KindNetworkFailure || i >= config.MaxRetries-1 {
			return err
		}

		logger.Warnf("请求失败，%v后重试: %v", delay, err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
		delay *= 2
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return lastErr
}
