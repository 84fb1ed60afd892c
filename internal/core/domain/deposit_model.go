package domain

// TxHash is the hex encoded hash of an external chain transaction.
type TxHash = string

// Deposit records an external chain deposit credited to the ledger. One
// record exists per (currency, tx hash) forever, never mutated nor
// deleted. This is the replay protection for operator reported deposits.
type Deposit struct {
	Currency CurrencyId
	TxHash   TxHash
	// Account is the on-chain account credited with Amount.
	Account string
	Amount  uint64
}

// DepositKey is the unique identifier of a Deposit.
type DepositKey struct {
	Currency CurrencyId
	TxHash   TxHash
}

func (d Deposit) Key() DepositKey {
	return DepositKey{
		Currency: d.Currency,
		TxHash:   d.TxHash,
	}
}

// DepositAddrKind discriminates the two supported deposit address
// derivation schemes.
type DepositAddrKind int

const (
	// DepositAddrBip32 derives child addresses from an extended public key
	// and a path prefix plus the account's deposit index.
	DepositAddrBip32 DepositAddrKind = iota
	// DepositAddrCreate2 derives contract vault addresses from creator,
	// implementation and vault addresses plus the account's deposit index
	// as salt.
	DepositAddrCreate2
)

// Bip32 holds the xpub and path prefix for bip32 style derivation. The
// full path of an account is Path + its deposit index, e.g. "m/" + "0".
type Bip32 struct {
	XPub string
	Path string
}

// Create2 holds the parameters for CREATE2 style contract address
// derivation.
type Create2 struct {
	CreatorAddress        string
	ImplementationAddress string
	VaultAddress          string
}

// DepositAddrInfo is the admin configured, per currency deposit address
// metadata. The core only stores these parameters; off-chain tooling
// combines them with an account's deposit index to derive the address.
type DepositAddrInfo struct {
	Kind    DepositAddrKind
	Bip32   *Bip32
	Create2 *Create2
}
