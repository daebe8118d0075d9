package pricefeed

import (
	"github.com/nspcc-dev/fundme-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// RoundData describes single price round. Field order matches the result of
// the aggregator `latestRoundData` method.
type RoundData struct {
	RoundID         int
	Answer          int
	StartedAt       int
	UpdatedAt       int
	AnsweredInRound int
}

const (
	ownerKey       = 'o'
	decimalsKey    = 'd'
	latestRoundKey = 'r'
	roundPrefix    = 'a'

	description = "GAS / USD"

	// ErrNoData is thrown for rounds that were never reported.
	ErrNoData = "no data present"
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	args := data.([]any)
	if isUpdate {
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if len(args) < 2 {
		panic("invalid deploy arguments")
	}

	decimals := args[0].(int)
	if decimals < 0 {
		panic("negative decimals")
	}

	ctx := storage.GetContext()
	tx := runtime.GetScriptContainer()

	storage.Put(ctx, ownerKey, tx.Sender)
	storage.Put(ctx, decimalsKey, decimals)
	setAnswer(ctx, args[1].(int))

	runtime.Log("price feed initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(common.ErrUpdateAccessDenied)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("price feed contract updated")
}

// Decimals returns precision of the reported answers.
func Decimals() int {
	return common.GetInt(storage.GetReadOnlyContext(), decimalsKey)
}

// Description returns human-readable name of the reported pair.
func Description() string {
	return description
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// LatestRound returns identifier of the last reported round.
func LatestRound() int {
	return common.GetInt(storage.GetReadOnlyContext(), latestRoundKey)
}

// LatestAnswer returns the price reported in the last round.
func LatestAnswer() int {
	return LatestRoundData().Answer
}

// LatestTimestamp returns time of the last report in milliseconds.
func LatestTimestamp() int {
	return LatestRoundData().UpdatedAt
}

// LatestRoundData returns the last reported round.
func LatestRoundData() RoundData {
	ctx := storage.GetReadOnlyContext()
	return getRound(ctx, common.GetInt(ctx, latestRoundKey))
}

// GetRoundData returns round with the given identifier. It panics if the
// round was never reported.
func GetRoundData(roundID int) RoundData {
	return getRound(storage.GetReadOnlyContext(), roundID)
}

// UpdateAnswer starts a new round with the given price. It can be invoked
// only by the feed owner.
//
// It produces AnswerUpdated notification.
func UpdateAnswer(answer int) {
	ctx := storage.GetContext()

	owner := storage.Get(ctx, ownerKey).(interop.Hash160)
	common.CheckWitness(owner)

	setAnswer(ctx, answer)
}

func setAnswer(ctx storage.Context, answer int) {
	round := common.GetInt(ctx, latestRoundKey) + 1
	now := runtime.GetTime()

	common.SetSerialized(ctx, roundKey(round), RoundData{
		RoundID:         round,
		Answer:          answer,
		StartedAt:       now,
		UpdatedAt:       now,
		AnsweredInRound: round,
	})
	storage.Put(ctx, latestRoundKey, round)

	runtime.Notify("AnswerUpdated", answer, round, now)
}

func getRound(ctx storage.Context, roundID int) RoundData {
	if roundID <= 0 {
		panic(ErrNoData)
	}

	r := common.GetSerialized(ctx, roundKey(roundID))
	if r == nil {
		panic(ErrNoData)
	}

	return r.(RoundData)
}

func roundKey(roundID int) []byte {
	return append([]byte{roundPrefix}, convert.ToBytes(roundID)...)
}
