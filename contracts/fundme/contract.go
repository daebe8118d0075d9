package fundme

import (
	"github.com/nspcc-dev/fundme-contract/common"
	"github.com/nspcc-dev/fundme-contract/contracts/fundme/fundmeconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/math"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	ownerKey        = 'o'
	priceFeedKey    = 'p'
	contributorsKey = 'f'

	contributionPrefix = 'c'
)

// roundData is a copy of github.com/nspcc-dev/fundme-contract/contracts/pricefeed.RoundData
// to prevent cross-contract imports that may fail due to internal `_deploy` calls.
type roundData struct {
	RoundID         int
	Answer          int
	StartedAt       int
	UpdatedAt       int
	AnsweredInRound int
}

// nolint:unused
func _deploy(data any, isUpdate bool) {
	args := data.([]any)
	if isUpdate {
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if len(args) == 0 {
		panic(fundmeconst.ErrInvalidPriceFeed)
	}

	feed := args[0].(interop.Hash160)
	if len(feed) != interop.Hash160Len || management.GetContract(feed) == nil {
		panic(fundmeconst.ErrInvalidPriceFeed)
	}

	owner := runtime.GetScriptContainer().Sender
	if len(args) > 1 && args[1] != nil {
		owner = args[1].(interop.Hash160)
		if len(owner) != interop.Hash160Len {
			panic("invalid owner")
		}
	}

	ctx := storage.GetContext()
	storage.Put(ctx, ownerKey, owner)
	storage.Put(ctx, priceFeedKey, feed)

	runtime.Log("fundme contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(common.ErrUpdateAccessDenied)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("fundme contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract. It
// accepts contribution of the sender if its value converted with the current
// price is not less than MinimumUSD.
//
// It produces Funded notification.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if !runtime.GetCallingScriptHash().Equals(gas.Hash) {
		panic(fundmeconst.ErrOnlyGAS)
	}

	if amount < 0 {
		panic(fundmeconst.ErrNegativeAmount)
	}

	if ConversionRate(amount) < MinimumUSD() {
		panic(fundmeconst.ErrNotEnoughFunds)
	}

	ctx := storage.GetContext()
	key := append([]byte{contributionPrefix}, from...)

	total := common.GetInt(ctx, key)
	if total == 0 {
		contributors := getContributors(ctx)
		contributors = append(contributors, from)
		common.SetSerialized(ctx, contributorsKey, contributors)
	}

	total += amount
	storage.Put(ctx, key, total)

	runtime.Notify("Funded", from, amount, total)
}

// Fund transfers GAS of the given account to the contract. It must be
// witnessed by the account.
//
// Contribution is processed by OnNEP17Payment, so Fund produces Funded
// notification.
func Fund(from interop.Hash160, amount int) {
	common.CheckWitness(from)

	if !gas.Transfer(from, runtime.GetExecutingScriptHash(), amount, nil) {
		panic(fundmeconst.ErrTransferFailed)
	}
}

// Withdraw transfers all contributed GAS to the owner and resets all
// contributions. It can be invoked only by the owner.
//
// Contract state is reset before the transfer, so the owner receiving GAS
// observes an empty ledger. Any failure aborts the whole transaction.
//
// It produces Withdrawn notification.
func Withdraw() {
	ctx := storage.GetContext()

	owner := storage.Get(ctx, ownerKey).(interop.Hash160)
	common.CheckWitnessWithPanic(owner, fundmeconst.ErrNotOwner)

	self := runtime.GetExecutingScriptHash()
	amount := gas.BalanceOf(self)

	contributors := getContributors(ctx)
	for i := range contributors {
		storage.Delete(ctx, append([]byte{contributionPrefix}, contributors[i]...))
	}
	storage.Delete(ctx, contributorsKey)

	runtime.Notify("Withdrawn", owner, amount, len(contributors))

	if amount == 0 {
		return
	}

	if !gas.Transfer(self, owner, amount, nil) {
		panic(fundmeconst.ErrTransferFailed)
	}
}

// Owner returns the account allowed to withdraw funds.
func Owner() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), ownerKey).(interop.Hash160)
}

// PriceFeed returns address of the price feed contract.
func PriceFeed() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), priceFeedKey).(interop.Hash160)
}

// ContributionOf returns cumulative contribution of the account since the
// last withdrawal.
func ContributionOf(addr interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, append([]byte{contributionPrefix}, addr...))
}

// ContributorAt returns contributor by its index in the order of the first
// contributions.
func ContributorAt(index int) interop.Hash160 {
	contributors := getContributors(storage.GetReadOnlyContext())
	if index < 0 || index >= len(contributors) {
		panic(fundmeconst.ErrIndexOutOfRange)
	}

	return contributors[index]
}

// ContributorsCount returns number of distinct contributors.
func ContributorsCount() int {
	return len(getContributors(storage.GetReadOnlyContext()))
}

// Contributors returns iterator over contributors and their contributions.
// Keys are contributor addresses, values are amounts.
func Contributors() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{contributionPrefix},
		storage.RemovePrefix)
}

// HeldValue returns amount of GAS held by the contract.
func HeldValue() int {
	return gas.BalanceOf(runtime.GetExecutingScriptHash())
}

// Price returns current price of GAS in USD and its decimals as reported by
// the price feed.
func Price() []int {
	feed := storage.Get(storage.GetReadOnlyContext(), priceFeedKey).(interop.Hash160)

	round := contract.Call(feed, "latestRoundData", contract.ReadOnly).(roundData)
	if round.Answer <= 0 || round.UpdatedAt == 0 {
		panic(fundmeconst.ErrInvalidPrice)
	}

	decimals := contract.Call(feed, "decimals", contract.ReadOnly).(int)

	return []int{round.Answer, decimals}
}

// ConversionRate returns USD value of the GAS amount with USDDecimals
// precision.
func ConversionRate(amount int) int {
	p := Price()
	price, decimals := p[0], p[1]

	usd := amount * price
	if decimals <= fundmeconst.USDDecimals {
		usd = usd * math.Pow(10, fundmeconst.USDDecimals-decimals)
	} else {
		usd = usd / math.Pow(10, decimals-fundmeconst.USDDecimals)
	}

	return usd / math.Pow(10, fundmeconst.GASDecimals)
}

// MinimumUSD returns minimal contribution in USD with USDDecimals precision.
func MinimumUSD() int {
	return fundmeconst.MinimumUSD * math.Pow(10, fundmeconst.USDDecimals)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getContributors(ctx storage.Context) []interop.Hash160 {
	list := common.GetSerialized(ctx, contributorsKey)
	if list == nil {
		return []interop.Hash160{}
	}

	return list.([]interop.Hash160)
}
