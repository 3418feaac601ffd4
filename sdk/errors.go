package sdk

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind 错误类别
type Kind string

const (
	KindNetworkFailure  Kind = "NETWORK_FAILURE"
	KindInvalidParams   Kind = "INVALID_PARAMS"
	KindInvalidResponse Kind = "INVALID_RESPONSE"
	KindInvalidAuth     Kind = "INVALID_AUTH"
)

// UnauthedError 无需认证的接口（行情）可能返回的错误。
// 只有 NetworkFailure、InvalidParams、InvalidResponse 实现了该接口，
// InvalidAuth 无法作为 UnauthedError 返回。
type UnauthedError interface {
	error
	Kind() Kind
	unauthed()
}

// AuthedError 需要认证的接口（交易、钱包）可能返回的错误，包含全部四种类别。
type AuthedError interface {
	error
	Kind() Kind
	authed()
}

// NetworkFailure 网络/连接失败（超时、连接重置、DNS）
type NetworkFailure struct {
	Detail string
	Cause  error
}

// InvalidParams 调用方参数被拒绝
type InvalidParams struct {
	Detail string
	Cause  error
}

// InvalidResponse 远端有响应但无法解析为有效结果
type InvalidResponse struct {
	Detail string
	Cause  error
}

// InvalidAuth 凭证缺失、过期或被拒绝
type InvalidAuth struct {
	Detail string
	Cause  error
}

func (e NetworkFailure) Error() string  { return format(KindNetworkFailure, e.Detail, e.Cause) }
func (e InvalidParams) Error() string   { return format(KindInvalidParams, e.Detail, e.Cause) }
func (e InvalidResponse) Error() string { return format(KindInvalidResponse, e.Detail, e.Cause) }
func (e InvalidAuth) Error() string     { return format(KindInvalidAuth, e.Detail, e.Cause) }

func (e NetworkFailure) Unwrap() error  { return e.Cause }
func (e InvalidParams) Unwrap() error   { return e.Cause }
func (e InvalidResponse) Unwrap() error { return e.Cause }
func (e InvalidAuth) Unwrap() error     { return e.Cause }

func (NetworkFailure) Kind() Kind  { return KindNetworkFailure }
func (InvalidParams) Kind() Kind   { return KindInvalidParams }
func (InvalidResponse) Kind() Kind { return KindInvalidResponse }
func (InvalidAuth) Kind() Kind     { return KindInvalidAuth }

func (NetworkFailure) unauthed()  {}
func (InvalidParams) unauthed()   {}
func (InvalidResponse) unauthed() {}

func (NetworkFailure) authed()  {}
func (InvalidParams) authed()   {}
func (InvalidResponse) authed() {}
func (InvalidAuth) authed()     {}

func format(kind Kind, detail string, cause error) string {
	switch {
	case detail == "" && cause == nil:
		return string(kind)
	case cause == nil:
		return fmt.Sprintf("%s: %s", kind, detail)
	case detail == "":
		return fmt.Sprintf("%s: %v", kind, cause)
	default:
		return fmt.Sprintf("%s: %s: %v", kind, detail, cause)
	}
}

// NewError 根据类别构造错误，常用于从错误码还原错误（例如HTTP响应体中的code）。
// 未知类别按 InvalidResponse 处理。
func NewError(kind Kind, detail string) AuthedError {
	switch kind {
	case KindNetworkFailure:
		return NetworkFailure{Detail: detail}
	case KindInvalidParams:
		return InvalidParams{Detail: detail}
	case KindInvalidAuth:
		return InvalidAuth{Detail: detail}
	case KindInvalidResponse:
		return InvalidResponse{Detail: detail}
	default:
		return InvalidResponse{Detail: fmt.Sprintf("unknown error kind %q: %s", kind, detail)}
	}
}

// KindOf 返回错误类别，err 不属于错误模型时返回空字符串
func KindOf(err error) Kind {
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}

// Detail 返回诊断信息，仅用于日志
func Detail(err error) string {
	var (
		nf NetworkFailure
		ip InvalidParams
		ir InvalidResponse
		ia InvalidAuth
	)
	switch {
	case errors.As(err, &nf):
		return nf.Detail
	case errors.As(err, &ip):
		return ip.Detail
	case errors.As(err, &ir):
		return ir.Detail
	case errors.As(err, &ia):
		return ia.Detail
	case err != nil:
		return err.Error()
	}
	return ""
}

// Authed 将 UnauthedError 提升为 AuthedError
func Authed(err UnauthedError) AuthedError {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case NetworkFailure:
		return e
	case InvalidParams:
		return e
	case InvalidResponse:
		return e
	}
	return InvalidResponse{Detail: "unexpected unauthed error", Cause: err}
}

// AsUnauthed 将任意错误映射到 UnauthedError。
// 已属于该集合的错误原样返回；InvalidAuth 被映射为 InvalidResponse
// （行情接口不允许暴露认证失败）；网络及上下文错误映射为 NetworkFailure；
// 其余映射为 InvalidResponse。
func AsUnauthed(err error) UnauthedError {
	if err == nil {
		return nil
	}
	var u UnauthedError
	if errors.As(err, &u) {
		return u
	}
	var ia InvalidAuth
	if errors.As(err, &ia) {
		return InvalidResponse{Detail: "endpoint unexpectedly required credentials", Cause: err}
	}
	if isNetwork(err) {
		return NetworkFailure{Detail: err.Error(), Cause: err}
	}
	return InvalidResponse{Detail: err.Error(), Cause: err}
}

// AsAuthed 将任意错误映射到 AuthedError，规则同 AsUnauthed，但保留 InvalidAuth。
func AsAuthed(err error) AuthedError {
	if err == nil {
		return nil
	}
	var a AuthedError
	if errors.As(err, &a) {
		return a
	}
	if isNetwork(err) {
		return NetworkFailure{Detail: err.Error(), Cause: err}
	}
	return InvalidResponse{Detail: err.Error(), Cause: err}
}

func isNetwork(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
