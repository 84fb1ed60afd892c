package domain

import "errors"

var (
	// ErrBalanceTooLow is thrown when the free balance cannot cover an amount
	ErrBalanceTooLow = errors.New("balance too low")
	// ErrTotalIssuanceOverflow is thrown when a deposit would overflow the total issuance
	ErrTotalIssuanceOverflow = errors.New("total issuance overflow")
	// ErrAmountIntoBalanceFailed is thrown when a signed amount cannot be converted to a balance
	ErrAmountIntoBalanceFailed = errors.New("cannot convert amount into balance")
	// ErrLiquidityRestrictions is thrown when a withdrawal would drop free below the frozen floor
	ErrLiquidityRestrictions = errors.New("liquidity restrictions due to locking")
	// ErrExistedAsset is thrown when creating an asset with an id already registered
	ErrExistedAsset = errors.New("asset already exists")
	// ErrNotExistedAsset is thrown when referring to an unregistered asset
	ErrNotExistedAsset = errors.New("asset does not exist")
	// ErrInvalidAsset is thrown when referring to an offline asset
	ErrInvalidAsset = errors.New("asset is not valid")
	// ErrInvalidAssetInfo is thrown when asset metadata fails validation
	ErrInvalidAssetInfo = errors.New("invalid asset info")
	// ErrRestrictedAction is thrown when an action is forbidden by the asset restrictions
	ErrRestrictedAction = errors.New("action is restricted for this asset")
	// ErrAssetExisted is thrown when adding an already supported gateway currency
	ErrAssetExisted = errors.New("asset already supported")
	// ErrAssetNotSupported is thrown when the gateway does not support a currency
	ErrAssetNotSupported = errors.New("asset not supported")
	// ErrUnAuthorized is thrown when the operator lacks the required authority
	ErrUnAuthorized = errors.New("unauthorized operation")
	// ErrTransactionRepeated is thrown when a deposit tx hash was already credited
	ErrTransactionRepeated = errors.New("transaction repeated")
	// ErrWithdrawalRecordNotExisted is thrown when no withdrawal record matches the given id
	ErrWithdrawalRecordNotExisted = errors.New("withdrawal record does not exist")
	// ErrInvalidWithdrawalState is thrown on a transition not allowed by the current state
	ErrInvalidWithdrawalState = errors.New("invalid withdrawal state")
	// ErrCanNotCancelOtherWithdrawals is thrown when cancelling a withdrawal of another account
	ErrCanNotCancelOtherWithdrawals = errors.New("cannot cancel other's withdrawal")
	// ErrAlreadyAppliedIndex is thrown when an account applies for a second deposit index
	ErrAlreadyAppliedIndex = errors.New("already applied for deposit index")
	// ErrCanNotAssignIndex is thrown when the deposit index space is exhausted
	ErrCanNotAssignIndex = errors.New("cannot assign a deposit index now")
	// ErrInvalidWithdraw is thrown when a withdrawal request fails validation
	ErrInvalidWithdraw = errors.New("invalid withdraw request")
)
