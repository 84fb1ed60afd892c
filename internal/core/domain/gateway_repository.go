package domain

import "context"

// SupportedCurrency is a currency the gateway mediates, with its fixed
// withdrawal fee.
type SupportedCurrency struct {
	Currency      CurrencyId
	WithdrawalFee uint64
}

// GatewayRepository stores the gateway configuration: admin capability
// grants, supported currencies with their withdrawal fee, per currency
// deposit address metadata and the deposit index upper bound.
type GatewayRepository interface {
	GetAuths(ctx context.Context, account string) (Auths, error)
	SetAuths(ctx context.Context, account string, auths Auths) error

	// GetSupportedCurrency returns nil if the currency is not supported.
	GetSupportedCurrency(
		ctx context.Context, currency CurrencyId,
	) (*SupportedCurrency, error)
	AddSupportedCurrency(ctx context.Context, supported SupportedCurrency) error
	RemoveSupportedCurrency(ctx context.Context, currency CurrencyId) error
	UpdateWithdrawalFee(
		ctx context.Context, currency CurrencyId, fee uint64,
	) error

	GetDepositAddrInfo(
		ctx context.Context, currency CurrencyId,
	) (*DepositAddrInfo, error)
	SetDepositAddrInfo(
		ctx context.Context, currency CurrencyId, info DepositAddrInfo,
	) error

	GetMaxDepositIndex(ctx context.Context) (uint64, error)
	SetMaxDepositIndex(ctx context.Context, max uint64) error
}
