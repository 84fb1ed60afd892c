package domain

const (
	// MaxSymbolLen is the max byte length for an asset symbol.
	MaxSymbolLen = 24
	// MaxNameLen is the max byte length for an asset name.
	MaxNameLen = 48
	// MaxDescLen is the max byte length for an asset description.
	MaxDescLen = 128

	// MaxAddressLen is the max byte length for an external chain address
	// attached to a withdrawal request.
	MaxAddressLen = 80
	// MaxMemoLen is the max byte length for a withdrawal memo.
	MaxMemoLen = 80
)
