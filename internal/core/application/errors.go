package application

import "errors"

var (
	// ErrMaxDepositIndexTooLow is thrown when lowering the deposit index bound
	ErrMaxDepositIndexTooLow = errors.New("new max deposit index must be larger than current")
	// ErrGenesisAlreadyApplied is thrown when bootstrapping a non-empty store
	ErrGenesisAlreadyApplied = errors.New("genesis config already applied")
)
