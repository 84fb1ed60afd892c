package domain

// WithdrawStateKind enumerates the phases of a withdrawal request.
type WithdrawStateKind int

const (
	WithdrawStatePending WithdrawStateKind = iota
	WithdrawStateCancelled
	WithdrawStateRejected
	WithdrawStateApproved
	WithdrawStateSuccess
	WithdrawStateReBroadcasted
)

func (k WithdrawStateKind) String() string {
	switch k {
	case WithdrawStatePending:
		return "Pending"
	case WithdrawStateCancelled:
		return "Cancelled"
	case WithdrawStateRejected:
		return "Rejected"
	case WithdrawStateApproved:
		return "Approved"
	case WithdrawStateSuccess:
		return "Success"
	case WithdrawStateReBroadcasted:
		return "ReBroadcasted"
	default:
		return "Unknown"
	}
}

// WithdrawState is the current state of a withdrawal. TxHash is set only
// for Success and ReBroadcasted.
type WithdrawState struct {
	Kind   WithdrawStateKind
	TxHash TxHash
}

// IsTerminal reports whether the state purges the withdrawal record.
func (s WithdrawState) IsTerminal() bool {
	switch s.Kind {
	case WithdrawStateCancelled, WithdrawStateRejected, WithdrawStateSuccess:
		return true
	default:
		return false
	}
}

// Withdrawal is an outgoing withdrawal request. Immutable once created,
// addressable by its id while Pending or Approved, purged on reaching a
// terminal state.
type Withdrawal struct {
	ID       uint64
	Currency CurrencyId
	// Applicant is the account whose funds are reserved for this request.
	Applicant string
	Value     uint64
	// Address is the destination address on the external chain.
	Address string
	Memo    string
}

// Validate checks the destination address and memo length bounds.
func (w Withdrawal) Validate() error {
	if len(w.Address) > MaxAddressLen {
		return ErrInvalidWithdraw
	}
	if len(w.Memo) > MaxMemoLen {
		return ErrInvalidWithdraw
	}
	return nil
}

// WithdrawalRecord is a withdrawal with its lifecycle companions: the fee
// consumed at creation, retained until terminal, and the current state.
type WithdrawalRecord struct {
	Withdrawal Withdrawal
	Fee        uint64
	State      WithdrawState
}
