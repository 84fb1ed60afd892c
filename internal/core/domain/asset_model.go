package domain

// CurrencyId identifies a fungible asset tracked by the ledger.
type CurrencyId uint32

// Chain is the origin chain of an asset.
type Chain int

const (
	ChainRio Chain = iota
	ChainBitcoin
	ChainLitecoin
	ChainEthereum
	ChainEOS
	ChainPolkadot
	ChainKusama
	ChainChainX
)

func (c Chain) String() string {
	switch c {
	case ChainRio:
		return "Rio"
	case ChainBitcoin:
		return "Bitcoin"
	case ChainLitecoin:
		return "Litecoin"
	case ChainEthereum:
		return "Ethereum"
	case ChainEOS:
		return "EOS"
	case ChainPolkadot:
		return "Polkadot"
	case ChainKusama:
		return "Kusama"
	case ChainChainX:
		return "ChainX"
	default:
		return "Unknown"
	}
}

// AssetInfo holds the immutable metadata of an asset. It can only be
// replaced as a whole by an admin update.
type AssetInfo struct {
	Chain    Chain
	Symbol   string
	Name     string
	Decimals uint8
	Desc     string
}

// Validate checks the text length bounds and that decimals is nonzero.
func (a AssetInfo) Validate() error {
	if len(a.Symbol) > MaxSymbolLen ||
		len(a.Name) > MaxNameLen ||
		len(a.Desc) > MaxDescLen {
		return ErrInvalidAssetInfo
	}
	if a.Decimals == 0 {
		return ErrInvalidAssetInfo
	}
	return nil
}

// Restriction is a single forbidden action. A set bit in a Restrictions
// mask forbids the corresponding ledger operation.
type Restriction uint32

const (
	RestrictionTransferable Restriction = 1 << iota
	RestrictionDepositable
	RestrictionWithdrawable
	RestrictionSlashable
	RestrictionReservable
	RestrictionUnreservable
)

func (r Restriction) String() string {
	switch r {
	case RestrictionTransferable:
		return "Transferable"
	case RestrictionDepositable:
		return "Depositable"
	case RestrictionWithdrawable:
		return "Withdrawable"
	case RestrictionSlashable:
		return "Slashable"
	case RestrictionReservable:
		return "Reservable"
	case RestrictionUnreservable:
		return "Unreservable"
	default:
		return "Unknown"
	}
}

// Restrictions is the per-asset bitmask of forbidden actions. The zero
// value permits everything.
type Restrictions uint32

// RestrictionsNone permits every action.
const RestrictionsNone Restrictions = 0

func (r Restrictions) Contains(restriction Restriction) bool {
	return uint32(r)&uint32(restriction) != 0
}

func (r Restrictions) Add(restriction Restriction) Restrictions {
	return Restrictions(uint32(r) | uint32(restriction))
}

// Asset pairs the metadata of a registered currency with its mutable
// registry flags.
type Asset struct {
	Currency     CurrencyId
	Info         AssetInfo
	Online       bool
	Restrictions Restrictions
}

// TotalAssetInfo is the full registry view of an asset, including its
// current total issuance.
type TotalAssetInfo struct {
	Info         AssetInfo
	Balance      uint64
	IsOnline     bool
	Restrictions Restrictions
}
