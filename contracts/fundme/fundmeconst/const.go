// Package fundmeconst contains FundMe contract constants shared by on-chain
// and off-chain code.
package fundmeconst

// Exception messages thrown by the FundMe contract.
const (
	// ErrInvalidPriceFeed is thrown on deployment when price feed address is
	// malformed or there is no contract deployed at it.
	ErrInvalidPriceFeed = "invalid price feed"
	// ErrInvalidPrice is thrown when price feed returns non-positive answer
	// or round which has not been completed.
	ErrInvalidPrice = "invalid price"
	// ErrNotEnoughFunds is thrown when contribution converted to USD is below
	// MinimumUSD.
	ErrNotEnoughFunds = "didn't send enough GAS"
	// ErrOnlyGAS is thrown when a token other than native GAS is sent.
	ErrOnlyGAS = "only GAS is accepted"
	// ErrNegativeAmount is thrown for negative contribution amounts.
	ErrNegativeAmount = "negative amount"
	// ErrNotOwner is thrown when withdrawal is requested without owner witness.
	ErrNotOwner = "not owner"
	// ErrTransferFailed is thrown when GAS can't be transferred to the owner.
	ErrTransferFailed = "transfer failed"
	// ErrIndexOutOfRange is thrown by contributor lookups with invalid index.
	ErrIndexOutOfRange = "index out of range"
)

// Fixed-point parameters of the contribution threshold.
const (
	// GASDecimals is the precision of native GAS amounts.
	GASDecimals = 8
	// USDDecimals is the precision of USD values produced by conversion.
	USDDecimals = 18
	// MinimumUSD is the minimal contribution value in whole dollars. Contract
	// compares converted amounts with MinimumUSD * 10^USDDecimals.
	MinimumUSD = 50
)
