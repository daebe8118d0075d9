// Package payee contains contract owning FundMe in tests. It records what it
// observes while receiving withdrawn GAS and optionally calls FundMe back.
package payee

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Reactions to the withdrawn GAS.
const (
	ModeAccept = iota
	ModeReenterWithdraw
	ModeReenterFund
	ModeReject
)

// Observation is what the contract saw while receiving GAS from FundMe.
type Observation struct {
	Calls             int
	Received          int
	HeldValue         int
	ContributorsCount int
}

const (
	targetKey      = "target"
	modeKey        = "mode"
	observationKey = "observation"
)

// SetUp sets FundMe contract address and the reaction to its payments.
func SetUp(target interop.Hash160, mode int) {
	ctx := storage.GetContext()
	storage.Put(ctx, targetKey, target)
	storage.Put(ctx, modeKey, mode)
}

// Withdraw withdraws FundMe funds on behalf of the contract.
func Withdraw() {
	target := storage.Get(storage.GetReadOnlyContext(), targetKey).(interop.Hash160)
	contract.Call(target, "withdraw", contract.All)
}

// OnNEP17Payment records the payment and FundMe state if GAS comes from
// FundMe, then reacts to it according to the mode set.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()

	target := storage.Get(ctx, targetKey).(interop.Hash160)
	if !from.Equals(target) {
		return
	}

	obs := Observed()
	// Increments of struct fields leave a value on the stack when compiled.
	obs.Calls = obs.Calls + 1
	obs.Received = obs.Received + amount
	obs.HeldValue = contract.Call(target, "heldValue", contract.ReadOnly).(int)
	obs.ContributorsCount = contract.Call(target, "contributorsCount", contract.ReadOnly).(int)
	storage.Put(ctx, observationKey, std.Serialize(obs))

	switch storage.Get(ctx, modeKey).(int) {
	case ModeReenterWithdraw:
		contract.Call(target, "withdraw", contract.All)
	case ModeReenterFund:
		if !gas.Transfer(runtime.GetExecutingScriptHash(), target, amount, nil) {
			panic("can't fund back")
		}
	case ModeReject:
		panic("payment rejected")
	}
}

// Observed returns the last observation. It is empty if FundMe has never paid
// to the contract.
func Observed() Observation {
	val := storage.Get(storage.GetReadOnlyContext(), observationKey)
	if val == nil {
		return Observation{}
	}
	return std.Deserialize(val.([]byte)).(Observation)
}
