package tests

import (
	"encoding/json"
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/fundme-contract/common"
	"github.com/nspcc-dev/fundme-contract/contracts/fundme/fundmeconst"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type fundMe struct {
	e     *neotest.Executor
	owner neotest.Signer
	feed  util.Uint160
	hash  util.Uint160
	c     *neotest.ContractInvoker // signed by the owner
}

func compileFundMe(t *testing.T, e *neotest.Executor) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, fundmePath, path.Join(fundmePath, "config.yml"))
}

func newFundMe(t *testing.T) *fundMe {
	return newFundMeWithPrice(t, feedDecimals, big.NewInt(gasPrice))
}

func newFundMeWithPrice(t *testing.T, decimals int, answer *big.Int) *fundMe {
	e := newExecutor(t)
	feed := deployPriceFeed(t, e, decimals, answer)
	owner := e.NewAccount(t, deployerGAS)
	h := deployBy(t, e, owner, compileFundMe(t, e), []any{feed})

	return &fundMe{
		e:     e,
		owner: owner,
		feed:  feed,
		hash:  h,
		c:     e.NewInvoker(h, owner),
	}
}

func (f *fundMe) fund(t *testing.T, from neotest.Signer, amount int64) {
	gasInvoker(t, f.e, from).Invoke(t, true, "transfer", from.ScriptHash(), f.hash, amount, nil)
}

func (f *fundMe) fundFail(t *testing.T, from neotest.Signer, amount int64, msg string) {
	gasInvoker(t, f.e, from).InvokeFail(t, msg, "transfer", from.ScriptHash(), f.hash, amount, nil)
}

func (f *fundMe) checkHeld(t *testing.T, expected int64) {
	f.e.CheckGASBalance(t, f.hash, big.NewInt(expected))
	f.c.Invoke(t, expected, "heldValue")
}

func (f *fundMe) checkContributors(t *testing.T, expected ...neotest.Signer) {
	f.c.Invoke(t, len(expected), "contributorsCount")
	for i := range expected {
		f.c.Invoke(t, stackitem.NewByteArray(expected[i].ScriptHash().BytesBE()), "contributorAt", i)
	}
	f.c.InvokeFail(t, fundmeconst.ErrIndexOutOfRange, "contributorAt", len(expected))
}

func TestFundMe_Deploy(t *testing.T) {
	t.Run("default owner", func(t *testing.T) {
		f := newFundMe(t)

		f.c.Invoke(t, stackitem.NewBuffer(f.feed.BytesBE()), "priceFeed")
		f.c.Invoke(t, stackitem.NewBuffer(f.owner.ScriptHash().BytesBE()), "owner")
		f.c.Invoke(t, common.Version, "version")
		f.c.Invoke(t, 0, "contributorsCount")
		f.c.InvokeFail(t, fundmeconst.ErrIndexOutOfRange, "contributorAt", 0)
		f.checkHeld(t, 0)
	})

	t.Run("explicit owner", func(t *testing.T) {
		e := newExecutor(t)
		feed := deployPriceFeed(t, e, feedDecimals, big.NewInt(gasPrice))
		owner := e.NewAccount(t)
		ctr := compileFundMe(t, e)

		e.DeployContract(t, ctr, []any{feed, owner.ScriptHash()})
		e.CommitteeInvoker(ctr.Hash).Invoke(t, stackitem.NewBuffer(owner.ScriptHash().BytesBE()), "owner")
	})

	t.Run("invalid price feed", func(t *testing.T) {
		e := newExecutor(t)
		ctr := compileFundMe(t, e)

		e.DeployContractCheckFAULT(t, ctr, []any{}, fundmeconst.ErrInvalidPriceFeed)
		e.DeployContractCheckFAULT(t, ctr, []any{[]byte{1, 2, 3}}, fundmeconst.ErrInvalidPriceFeed)
		e.DeployContractCheckFAULT(t, ctr, []any{util.Uint160{1, 2, 3}}, fundmeconst.ErrInvalidPriceFeed)
	})
}

func TestFundMe_Fund(t *testing.T) {
	f := newFundMe(t)

	acc1 := f.e.NewAccount(t)
	acc2 := f.e.NewAccount(t)

	t.Run("not enough", func(t *testing.T) {
		f.fundFail(t, acc1, minimumGAS-1, fundmeconst.ErrNotEnoughFunds)
		f.fundFail(t, acc1, 0, fundmeconst.ErrNotEnoughFunds)

		f.c.Invoke(t, 0, "contributionOf", acc1.ScriptHash())
		f.checkContributors(t)
		f.checkHeld(t, 0)
	})

	f.fund(t, acc1, minimumGAS)
	f.c.Invoke(t, minimumGAS, "contributionOf", acc1.ScriptHash())
	f.checkContributors(t, acc1)
	f.checkHeld(t, minimumGAS)

	f.fund(t, acc2, 1_0000_0000)
	f.fund(t, acc1, 2_0000_0000)

	f.c.Invoke(t, minimumGAS+2_0000_0000, "contributionOf", acc1.ScriptHash())
	f.c.Invoke(t, 1_0000_0000, "contributionOf", acc2.ScriptHash())
	f.c.Invoke(t, 0, "contributionOf", f.owner.ScriptHash())
	f.checkContributors(t, acc1, acc2)
	f.checkHeld(t, minimumGAS+3_0000_0000)

	t.Run("fund method", func(t *testing.T) {
		acc3 := f.e.NewAccount(t)

		f.e.NewInvoker(f.hash, acc2).InvokeFail(t, common.ErrWitnessFailed, "fund", acc3.ScriptHash(), 1_0000_0000)

		c := f.e.NewInvoker(f.hash, acc3)
		c.InvokeFail(t, fundmeconst.ErrNotEnoughFunds, "fund", acc3.ScriptHash(), minimumGAS-1)
		c.Invoke(t, stackitem.Null{}, "fund", acc3.ScriptHash(), 1_0000_0000)

		f.c.Invoke(t, 1_0000_0000, "contributionOf", acc3.ScriptHash())
		f.checkContributors(t, acc1, acc2, acc3)
		f.checkHeld(t, minimumGAS+4_0000_0000)
	})

	t.Run("only GAS", func(t *testing.T) {
		neo := f.e.CommitteeInvoker(f.e.NativeHash(t, nativenames.Neo))
		neo.InvokeFail(t, fundmeconst.ErrOnlyGAS, "transfer", f.e.CommitteeHash, f.hash, 1, nil)
	})

	t.Run("notification", func(t *testing.T) {
		h := gasInvoker(t, f.e, acc2).Invoke(t, true, "transfer", acc2.ScriptHash(), f.hash, 1_0000_0000, nil)

		aer := f.e.CheckHalt(t, h)
		var found bool
		for _, ev := range aer.Events {
			if ev.ScriptHash != f.hash || ev.Name != "Funded" {
				continue
			}
			found = true

			items := ev.Item.Value().([]stackitem.Item)
			require.Len(t, items, 3)

			from, err := items[0].TryBytes()
			require.NoError(t, err)
			require.Equal(t, acc2.ScriptHash().BytesBE(), from)

			amount, err := items[1].TryInteger()
			require.NoError(t, err)
			require.EqualValues(t, 1_0000_0000, amount.Int64())

			total, err := items[2].TryInteger()
			require.NoError(t, err)
			require.EqualValues(t, 2_0000_0000, total.Int64())
		}
		require.True(t, found)
	})
}

func TestFundMe_FundThreshold(t *testing.T) {
	for _, tc := range []struct {
		name     string
		decimals int
		answer   *big.Int
	}{
		{name: "8 decimals", decimals: 8, answer: big.NewInt(gasPrice)},
		{name: "18 decimals", decimals: 18, answer: new(big.Int).Mul(big.NewInt(2000), pow10(18))},
		{name: "20 decimals", decimals: 20, answer: new(big.Int).Mul(big.NewInt(2000), pow10(20))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFundMeWithPrice(t, tc.decimals, tc.answer)

			f.c.Invoke(t, usd(50), "minimumUSD")
			f.c.Invoke(t, usd(2000), "conversionRate", 1_0000_0000)
			f.c.Invoke(t, usd(50), "conversionRate", minimumGAS)
			f.c.Invoke(t, usd(10), "conversionRate", 50_0000)

			acc := f.e.NewAccount(t)

			// 10 USD worth of GAS.
			f.fundFail(t, acc, 50_0000, fundmeconst.ErrNotEnoughFunds)
			f.checkHeld(t, 0)
			f.checkContributors(t)

			f.fund(t, acc, minimumGAS)
			f.checkHeld(t, minimumGAS)
		})
	}
}

func TestFundMe_PriceChange(t *testing.T) {
	f := newFundMe(t)
	feed := f.e.CommitteeInvoker(f.feed)
	acc := f.e.NewAccount(t)

	s, err := f.c.TestInvoke(t, "price")
	require.NoError(t, err)
	price := s.Pop().Array()
	require.Len(t, price, 2)
	require.EqualValues(t, gasPrice, price[0].Value().(*big.Int).Int64())
	require.EqualValues(t, feedDecimals, price[1].Value().(*big.Int).Int64())

	feed.Invoke(t, stackitem.Null{}, "updateAnswer", gasPrice/2)

	f.fundFail(t, acc, minimumGAS, fundmeconst.ErrNotEnoughFunds)
	f.fund(t, acc, 2*minimumGAS)
	f.checkHeld(t, 2*minimumGAS)

	t.Run("invalid price", func(t *testing.T) {
		feed.Invoke(t, stackitem.Null{}, "updateAnswer", 0)

		f.c.InvokeFail(t, fundmeconst.ErrInvalidPrice, "price")
		f.fundFail(t, acc, 1_0000_0000, fundmeconst.ErrInvalidPrice)

		feed.Invoke(t, stackitem.Null{}, "updateAnswer", -1)
		f.fundFail(t, acc, 1_0000_0000, fundmeconst.ErrInvalidPrice)

		f.checkHeld(t, 2*minimumGAS)
	})
}

func TestFundMe_Withdraw(t *testing.T) {
	t.Run("not owner", func(t *testing.T) {
		f := newFundMe(t)
		acc := f.e.NewAccount(t)
		f.fund(t, acc, 1_0000_0000)

		f.e.NewInvoker(f.hash, acc).InvokeFail(t, fundmeconst.ErrNotOwner, "withdraw")
		f.e.CommitteeInvoker(f.hash).InvokeFail(t, fundmeconst.ErrNotOwner, "withdraw")

		f.c.Invoke(t, 1_0000_0000, "contributionOf", acc.ScriptHash())
		f.checkContributors(t, acc)
		f.checkHeld(t, 1_0000_0000)
	})

	t.Run("single funder", func(t *testing.T) {
		f := newFundMe(t)
		acc := f.e.NewAccount(t)
		f.fund(t, acc, 1_0000_0000)

		ownerBalance := f.e.Chain.GetUtilityTokenBalance(f.owner.ScriptHash())

		h := f.c.Invoke(t, stackitem.Null{}, "withdraw")
		checkWithdrawn(t, f, h, ownerBalance, 1_0000_0000, 1)

		f.c.Invoke(t, 0, "contributionOf", acc.ScriptHash())
		f.checkContributors(t)
		f.checkHeld(t, 0)
	})

	t.Run("empty ledger", func(t *testing.T) {
		f := newFundMe(t)

		ownerBalance := f.e.Chain.GetUtilityTokenBalance(f.owner.ScriptHash())

		h := f.c.Invoke(t, stackitem.Null{}, "withdraw")
		checkWithdrawn(t, f, h, ownerBalance, 0, 0)
		f.checkHeld(t, 0)
	})

	t.Run("multiple funders", func(t *testing.T) {
		f := newFundMe(t)

		funders := make([]neotest.Signer, 5)
		for i := range funders {
			funders[i] = f.e.NewAccount(t)
			f.fund(t, funders[i], 1_0000_0000)
		}

		f.checkContributors(t, funders...)
		f.checkHeld(t, 5_0000_0000)

		ownerBalance := f.e.Chain.GetUtilityTokenBalance(f.owner.ScriptHash())

		h := f.c.Invoke(t, stackitem.Null{}, "withdraw")
		checkWithdrawn(t, f, h, ownerBalance, 5_0000_0000, 5)

		f.checkHeld(t, 0)
		for i := range funders {
			f.c.Invoke(t, 0, "contributionOf", funders[i].ScriptHash())
			f.c.InvokeFail(t, fundmeconst.ErrIndexOutOfRange, "contributorAt", i)
		}

		t.Run("fund again", func(t *testing.T) {
			f.fund(t, funders[3], minimumGAS)
			f.fund(t, funders[1], minimumGAS)

			f.c.Invoke(t, minimumGAS, "contributionOf", funders[3].ScriptHash())
			f.c.Invoke(t, 0, "contributionOf", funders[0].ScriptHash())
			f.checkContributors(t, funders[3], funders[1])
			f.checkHeld(t, 2*minimumGAS)
		})
	})
}

func TestFundMe_Conservation(t *testing.T) {
	f := newFundMe(t)

	funders := []neotest.Signer{f.e.NewAccount(t), f.owner, f.e.NewAccount(t)}
	contributions := make([]int64, len(funders))

	var held int64
	for round := int64(1); round <= 3; round++ {
		for i := range funders {
			amount := minimumGAS*round + int64(i)
			f.fund(t, funders[i], amount)

			contributions[i] += amount
			held += amount
		}

		for i := range funders {
			f.c.Invoke(t, contributions[i], "contributionOf", funders[i].ScriptHash())
		}
		f.checkHeld(t, held)
		f.checkContributors(t, funders...)
	}

	f.c.InvokeFail(t, fundmeconst.ErrIndexOutOfRange, "contributorAt", -1)

	ownerBalance := f.e.Chain.GetUtilityTokenBalance(f.owner.ScriptHash())

	h := f.c.Invoke(t, stackitem.Null{}, "withdraw")
	checkWithdrawn(t, f, h, ownerBalance, held, int64(len(funders)))

	f.checkHeld(t, 0)
	f.checkContributors(t)
	for i := range funders {
		f.c.Invoke(t, 0, "contributionOf", funders[i].ScriptHash())
	}
}

// checkWithdrawn checks Withdrawn notification of the transaction and GAS
// balance of the owner who also paid for the transaction.
func checkWithdrawn(t *testing.T, f *fundMe, h util.Uint256, ownerBefore *big.Int, amount int64, contributors int64) {
	aer := f.e.CheckHalt(t, h)

	var found bool
	for _, ev := range aer.Events {
		if ev.ScriptHash != f.hash || ev.Name != "Withdrawn" {
			continue
		}
		found = true

		items := ev.Item.Value().([]stackitem.Item)
		require.Len(t, items, 3)

		owner, err := items[0].TryBytes()
		require.NoError(t, err)
		require.Equal(t, f.owner.ScriptHash().BytesBE(), owner)

		withdrawn, err := items[1].TryInteger()
		require.NoError(t, err)
		require.EqualValues(t, amount, withdrawn.Int64())

		n, err := items[2].TryInteger()
		require.NoError(t, err)
		require.EqualValues(t, contributors, n.Int64())
	}
	require.True(t, found)

	tx, _ := f.e.GetTransaction(t, h)

	expected := new(big.Int).Add(ownerBefore, big.NewInt(amount))
	expected.Sub(expected, big.NewInt(tx.SystemFee+tx.NetworkFee))
	f.e.CheckGASBalance(t, f.owner.ScriptHash(), expected)
}

func TestFundMe_Update(t *testing.T) {
	f := newFundMe(t)
	ctr := compileFundMe(t, f.e)

	rawNEF, err := ctr.NEF.Bytes()
	require.NoError(t, err)

	rawManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	f.c.InvokeFail(t, common.ErrUpdateAccessDenied, "update", rawNEF, rawManifest, nil)
	f.e.CommitteeInvoker(f.hash).InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, nil)
}
