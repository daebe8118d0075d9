package fundme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/fundme-contract/contracts/fundme/fundmeconst"
)

// Errors of the FundMe contract operations. They're returned wrapped by
// MapError and can be checked with errors.Is.
var (
	// ErrConfiguration is returned when the contract is deployed with
	// an invalid price feed.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrPriceFeed is returned when the price feed reports an invalid price.
	ErrPriceFeed = errors.New("price feed failure")

	// ErrInsufficientContribution is returned when the contribution is worth
	// less than the minimum.
	ErrInsufficientContribution = errors.New("insufficient contribution")

	// ErrInvalidPayment is returned for payments in assets other than GAS
	// and for negative amounts.
	ErrInvalidPayment = errors.New("invalid payment")

	// ErrNotOwner is returned when the withdrawal is not witnessed by the owner.
	ErrNotOwner = errors.New("caller is not the owner")

	// ErrTransferFailed is returned when the GAS transfer fails.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrIndexOutOfRange is returned for contributor index outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")
)

var exceptions = []struct {
	msg string
	err error
}{
	{fundmeconst.ErrInvalidPriceFeed, ErrConfiguration},
	{fundmeconst.ErrInvalidPrice, ErrPriceFeed},
	{fundmeconst.ErrNotEnoughFunds, ErrInsufficientContribution},
	{fundmeconst.ErrOnlyGAS, ErrInvalidPayment},
	{fundmeconst.ErrNegativeAmount, ErrInvalidPayment},
	{fundmeconst.ErrNotOwner, ErrNotOwner},
	{fundmeconst.ErrTransferFailed, ErrTransferFailed},
	{fundmeconst.ErrIndexOutOfRange, ErrIndexOutOfRange},
}

// MapError converts error of a contract invocation into one of the package
// errors if it's caused by a known contract exception. The original error is
// kept in the chain. Other errors are returned as is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	for _, e := range exceptions {
		if strings.Contains(err.Error(), e.msg) {
			return fmt.Errorf("%w: %w", e.err, err)
		}
	}

	return err
}

// FaultError converts fault exception of the executed transaction into an
// error. Known contract exceptions are mapped like in MapError.
func FaultError(exception string) error {
	return MapError(errors.New(exception))
}
