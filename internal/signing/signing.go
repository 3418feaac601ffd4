// Package signing 对HTTP请求做 HMAC SHA256 签名
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SignatureHeader 签名请求头
	SignatureHeader = "X-SIGNATURE"
	// TimestampHeader 时间戳请求头（毫秒）
	TimestampHeader = "X-TIMESTAMP"

	// RecvWindow 允许的时间偏差
	RecvWindow = 10 * time.Second
)

// Payload 待签名的字符串：时间戳、方法、路径、查询串、请求体，用换行连接
func Payload(timestamp int64, method, path, rawQuery string, body []byte) string {
	return strings.Join([]string{
		strconv.FormatInt(timestamp, 10),
		strings.ToUpper(method),
		path,
		rawQuery,
		string(body),
	}, "\n")
}

// Sign 对签名串进行HMAC SHA256签名
func Sign(payload, secretKey string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify 校验时间戳在接收窗口内且签名一致
func Verify(payload, signature, secretKey string, timestamp int64, now time.Time) error {
	skew := now.Sub(time.UnixMilli(timestamp))
	if skew < -RecvWindow || skew > RecvWindow {
		return fmt.Errorf("时间戳超出接收窗口: 偏差 %s", skew)
	}
	expected := Sign(payload, secretKey)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return fmt.Errorf("签名不匹配")
	}
	return nil
}

// GetTimestamp 获取当前时间戳（毫秒）
func GetTimestamp() int64 {
	return time.Now().UnixMilli()
}
