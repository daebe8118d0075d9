package tests

import (
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const (
	fundmePath    = "../contracts/fundme"
	pricefeedPath = "../contracts/pricefeed"
	payeePath     = "../internal/testcontracts/payee"

	feedDecimals = 8
	gasPrice     = 2000_0000_0000 // 2000 USD per GAS.

	// minimumGAS is 50 USD worth of GAS at gasPrice.
	minimumGAS = 250_0000

	// deployerGAS is enough to deploy FundMe from a fresh account.
	deployerGAS = 1000_0000_0000
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func deployPriceFeed(t *testing.T, e *neotest.Executor, decimals int, answer *big.Int) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, pricefeedPath, path.Join(pricefeedPath, "config.yml"))
	e.DeployContract(t, c, []any{decimals, answer})
	return c.Hash
}

// deployBy deploys compiled contract from the signer's account. Compiled
// contracts are cached by path, so the hash is recalculated for the sender.
func deployBy(t *testing.T, e *neotest.Executor, signer neotest.Signer, c *neotest.Contract, data any) util.Uint160 {
	ctr := &neotest.Contract{
		Hash:     state.CreateContractHash(signer.ScriptHash(), c.NEF.Checksum, c.Manifest.Name),
		NEF:      c.NEF,
		Manifest: c.Manifest,
	}
	e.DeployContractBy(t, signer, ctr, data)
	return ctr.Hash
}

func gasInvoker(t *testing.T, e *neotest.Executor, signer neotest.Signer) *neotest.ContractInvoker {
	return e.CommitteeInvoker(e.NativeHash(t, nativenames.Gas)).WithSigners(signer)
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

// usd returns whole dollars with 18 decimals.
func usd(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), pow10(18))
}
