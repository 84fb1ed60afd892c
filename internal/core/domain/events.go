package domain

import "github.com/google/uuid"

// Event types emitted by the ledger and the gateway. Operations return
// the ordered list of events they produced; the caller publishes them
// only after the enclosing transaction has committed.
const (
	EventAssetCreated            = "asset.created"
	EventAssetInfoUpdated        = "asset.info_updated"
	EventAssetRestrictionUpdated = "asset.restriction_updated"
	EventAssetOnline             = "asset.online"
	EventAssetOffline            = "asset.offline"

	EventTransferred = "ledger.transferred"
	EventDeposited   = "ledger.deposited"
	EventWithdrawn   = "ledger.withdrawn"
	EventReserved    = "ledger.reserved"
	EventUnreserved  = "ledger.unreserved"
	EventSlashed     = "ledger.slashed"
	EventRepatriated = "ledger.repatriated"
	EventLockSet     = "ledger.lock_set"
	EventLockRemoved = "ledger.lock_removed"

	EventAuthChanged            = "gateway.auth_changed"
	EventSupportedAssetAdded    = "gateway.supported_asset_added"
	EventSupportedAssetRemoved  = "gateway.supported_asset_removed"
	EventWithdrawalFeeSet       = "gateway.withdrawal_fee_set"
	EventDepositAddrInfoSet     = "gateway.deposit_addr_info_set"
	EventNewDepositIndex        = "gateway.new_deposit_index"
	EventMaxDepositIndexSet     = "gateway.max_deposit_index_set"
	EventDepositRecorded        = "gateway.deposit_recorded"
	EventWithdrawRequested      = "gateway.withdraw_requested"
	EventWithdrawStateChanged   = "gateway.withdraw_state_changed"
	EventWithdrawRebroadcasted  = "gateway.withdraw_rebroadcasted"
	EventUnsafeWithdrawStateSet = "gateway.unsafe_withdraw_state_set"
	EventUnsafeWithdrawRemoved  = "gateway.unsafe_withdraw_removed"
)

// Event is a notification of a committed state transition.
type Event struct {
	ID         string
	Type       string
	Attributes map[string]interface{}
}

// NewEvent returns an event of the given type with a fresh unique id.
func NewEvent(eventType string, attributes map[string]interface{}) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Attributes: attributes,
	}
}
