package sdk

import "context"

// WithdrawalMethod 某币种支持的一条提币网络。MinAmount 为空表示没有最小值或未知。
type WithdrawalMethod struct {
	Network   string `json:"network"`
	Fee       string `json:"fee"`
	MinAmount string `json:"min_amount,omitempty"`
}

// Wallet 资金划转能力，需要认证。network 为空时由实现方选择默认网络。
type Wallet interface {
	// Withdraw 发起提币。一旦被远端接受即不可撤回。
	Withdraw(ctx context.Context, currency, address, amount, network string) AuthedError
	GetDepositAddress(ctx context.Context, currency, network string) (string, AuthedError)
	GetWithdrawalMethods(ctx context.Context, currency string) ([]WithdrawalMethod, AuthedError)
}
