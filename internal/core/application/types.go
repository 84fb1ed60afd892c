package application

import (
	"context"
	"encoding/hex"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/RioDefi/riochain/internal/core/domain"
)

// WithdrawItem is the read API view of an active withdrawal, keyed by its
// id. Address and memo are rendered as UTF-8 when printable, hex
// otherwise; amounts are additionally formatted with the asset decimals.
type WithdrawItem struct {
	Currency       domain.CurrencyId `json:"currencyId"`
	Applicant      string            `json:"applicant"`
	Value          uint64            `json:"value"`
	ValueFormatted string            `json:"valueFormatted"`
	Address        string            `json:"addr"`
	Memo           string            `json:"memo"`
	State          string            `json:"state"`
	TxHash         domain.TxHash     `json:"txHash,omitempty"`
	Fee            uint64            `json:"fee"`
	FeeFormatted   string            `json:"feeFormatted"`
}

func (s *gatewayService) WithdrawList(
	ctx context.Context,
) (map[uint64]WithdrawItem, error) {
	records, err := s.repoManager.WithdrawalRepository().ListWithdrawals(ctx)
	if err != nil {
		return nil, err
	}

	items := make(map[uint64]WithdrawItem, len(records))
	for _, record := range records {
		decimals := s.assetDecimals(ctx, record.Withdrawal.Currency)
		items[record.Withdrawal.ID] = WithdrawItem{
			Currency:       record.Withdrawal.Currency,
			Applicant:      record.Withdrawal.Applicant,
			Value:          record.Withdrawal.Value,
			ValueFormatted: formatAmount(record.Withdrawal.Value, decimals),
			Address:        tryHexOrStr(record.Withdrawal.Address),
			Memo:           record.Withdrawal.Memo,
			State:          record.State.Kind.String(),
			TxHash:         record.State.TxHash,
			Fee:            record.Fee,
			FeeFormatted:   formatAmount(record.Fee, decimals),
		}
	}
	return items, nil
}

func (s *gatewayService) PendingWithdrawList(
	ctx context.Context,
) (map[uint64]WithdrawItem, error) {
	items, err := s.WithdrawList(ctx)
	if err != nil {
		return nil, err
	}
	for id, item := range items {
		if item.State != domain.WithdrawStatePending.String() {
			delete(items, id)
		}
	}
	return items, nil
}

// assetDecimals returns the decimals of a currency, 0 when the registry
// has no entry. The read API tolerates offline assets.
func (s *gatewayService) assetDecimals(
	ctx context.Context, currency domain.CurrencyId,
) uint8 {
	asset, err := s.repoManager.AssetRepository().GetAsset(ctx, currency)
	if err != nil || asset == nil {
		return 0
	}
	return asset.Info.Decimals
}

// tryHexOrStr returns src unchanged when it is printable ASCII, its
// 0x-prefixed hex encoding otherwise.
func tryHexOrStr(src string) string {
	for i := 0; i < len(src); i++ {
		if src[i] < '!' || src[i] > '~' {
			return "0x" + hex.EncodeToString([]byte(src))
		}
	}
	return src
}

// formatAmount renders a raw balance using the asset decimals, e.g.
// 1500000 with 6 decimals becomes "1.5".
func formatAmount(value uint64, decimals uint8) string {
	return decimal.NewFromBigInt(
		new(big.Int).SetUint64(value), -int32(decimals),
	).String()
}
