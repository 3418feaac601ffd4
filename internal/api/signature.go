package api

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"exchange_sdk/internal/logger"
	"exchange_sdk/internal/models"
	"exchange_sdk/internal/signing"
	"exchange_sdk/sdk"
)

// verifySignature 配置了签名密钥的账户必须携带有效的时间戳和签名，其余账户只校验API密钥
func (s *Server) verifySignature() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(models.APIKeyHeader)
		secret, ok := s.secrets[apiKey]
		if !ok {
			c.Next()
			return
		}

		ts, err := strconv.ParseInt(c.GetHeader(signing.TimestampHeader), 10, 64)
		if err != nil {
			s.rejectSignature(c, apiKey, "missing or malformed "+signing.TimestampHeader)
			return
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			writeError(c, sdk.NetworkFailure{Detail: "读取请求体失败", Cause: err})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		payload := signing.Payload(ts, c.Request.Method, c.Request.URL.Path, c.Request.URL.RawQuery, body)
		if err := signing.Verify(payload, c.GetHeader(signing.SignatureHeader), secret, ts, time.Now()); err != nil {
			s.rejectSignature(c, apiKey, err.Error())
			return
		}
		c.Next()
	}
}

func (s *Server) rejectSignature(c *gin.Context, apiKey, reason string) {
	logger.WithFields(logger.Fields{
		"path":    c.Request.URL.Path,
		"api_key": apiKey,
	}).Warnf("签名校验失败: %s", reason)
	writeError(c, sdk.InvalidAuth{Detail: "signature rejected: " + reason})
	c.Abort()
}
