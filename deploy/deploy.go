package deploy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/nspcc-dev/fundme-contract/rpc/fundme"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for FundMe deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// MockFeedPrm groups deployment parameters of the mock price feed contract.
type MockFeedPrm struct {
	Common CommonDeployPrm

	// Number of decimals in the price answers.
	Decimals int64

	// Initial price of one GAS in USD with Decimals precision.
	Answer *big.Int
}

// FundMePrm groups deployment parameters of the FundMe contract.
type FundMePrm struct {
	Common CommonDeployPrm

	// Owner of the contract. Zero value means the local account.
	Owner util.Uint160
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	LocalAccount *wallet.Account

	// Address of the price feed contract deployed in the network. Zero value
	// means the mock price feed should be deployed and used instead.
	PriceFeed util.Uint160

	MockFeed MockFeedPrm
	FundMe   FundMePrm
}

// Result groups addresses of the deployed contracts.
type Result struct {
	// Price feed used by the FundMe contract.
	PriceFeed util.Uint160

	// FundMe contract.
	FundMe util.Uint160

	// Set if the mock price feed was used.
	MockFeed bool
}

// Deploy deploys FundMe contract to the Neo network represented by given
// Prm.Blockchain. Price feed is taken from Prm.PriceFeed, if it's not set
// the mock price feed is deployed first (that's what local networks need).
//
// Contract address is a function of the sender, NEF checksum and name. Contracts
// already deployed at the expected addresses are reused, so Deploy can be
// safely repeated.
//
// Deploy waits for each transaction and aborts by context.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	act, err := actor.NewTuned(prm.Blockchain, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account: prm.LocalAccount.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: prm.LocalAccount,
	}}, actor.Options{
		CheckerModifier: deploymentTransactionModifier(prm.Blockchain.GetBlockCount),
	})
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	syncPrm := syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		actor:      act,
		deployer:   prm.LocalAccount.ScriptHash(),
	}

	if prm.PriceFeed.Equals(util.Uint160{}) {
		syncPrm.common = prm.MockFeed.Common
		syncPrm.deployArgs = []any{prm.MockFeed.Decimals, prm.MockFeed.Answer}

		prm.Logger.Info("synchronizing mock price feed contract with the chain...",
			zap.Int64("decimals", prm.MockFeed.Decimals), zap.Stringer("answer", prm.MockFeed.Answer))

		res.PriceFeed, err = syncContract(ctx, syncPrm)
		if err != nil {
			return res, fmt.Errorf("sync mock price feed contract with the chain: %w", err)
		}

		res.MockFeed = true

		prm.Logger.Info("mock price feed contract successfully synchronized", zap.Stringer("address", res.PriceFeed))
	} else {
		_, err = prm.Blockchain.GetContractStateByHash(prm.PriceFeed)
		if err != nil {
			if isErrContractNotFound(err) {
				return res, fmt.Errorf("%w: no contract at %s", fundme.ErrConfiguration, prm.PriceFeed.StringLE())
			}
			return res, fmt.Errorf("get price feed contract state: %w", err)
		}

		res.PriceFeed = prm.PriceFeed

		prm.Logger.Info("using price feed contract of the network", zap.Stringer("address", res.PriceFeed))
	}

	syncPrm.common = prm.FundMe.Common
	syncPrm.deployArgs = []any{res.PriceFeed}
	if !prm.FundMe.Owner.Equals(util.Uint160{}) {
		syncPrm.deployArgs = append(syncPrm.deployArgs, prm.FundMe.Owner)
	}

	prm.Logger.Info("synchronizing FundMe contract with the chain...")

	res.FundMe, err = syncContract(ctx, syncPrm)
	if err != nil {
		return res, fmt.Errorf("sync FundMe contract with the chain: %w", fundme.MapError(err))
	}

	prm.Logger.Info("FundMe contract successfully synchronized", zap.Stringer("address", res.FundMe))

	return res, nil
}

type syncContractPrm struct {
	logger     *zap.Logger
	blockchain Blockchain
	actor      *actor.Actor
	deployer   util.Uint160

	common     CommonDeployPrm
	deployArgs []any
}

// syncContract deploys the contract unless it is already deployed at the
// expected address. Returns the address of the contract.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	addr := state.CreateContractHash(prm.deployer, prm.common.NEF.Checksum, prm.common.Manifest.Name)
	l := prm.logger.With(zap.String("contract", prm.common.Manifest.Name), zap.Stringer("address", addr))

	onChain, err := prm.blockchain.GetContractStateByHash(addr)
	if err == nil {
		if onChain.NEF.Checksum != prm.common.NEF.Checksum {
			l.Warn("on-chain contract differs from the local one, it needs to be updated by the committee",
				zap.Uint32("on-chain checksum", onChain.NEF.Checksum), zap.Uint32("local checksum", prm.common.NEF.Checksum))
		} else {
			l.Info("contract is already deployed")
		}
		return addr, nil
	}
	if !isErrContractNotFound(err) {
		return addr, fmt.Errorf("get contract state: %w", err)
	}

	l.Info("contract is missing on the chain, deploying...")

	txHash, vub, err := management.New(prm.actor).Deploy(&prm.common.NEF, &prm.common.Manifest, prm.deployArgs)
	if err != nil {
		return addr, fmt.Errorf("send deployment transaction: %w", err)
	}

	l.Info("deployment transaction sent, waiting for it to be accepted...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	res, err := prm.actor.WaitAny(ctx, vub, txHash)
	if err != nil {
		return addr, fmt.Errorf("wait for deployment transaction %s: %w", txHash.StringLE(), err)
	}
	if res.VMState != vmstate.Halt {
		return addr, fmt.Errorf("deployment transaction %s failed: %w", txHash.StringLE(), errors.New(res.FaultException))
	}

	l.Info("contract successfully deployed", zap.Stringer("tx", txHash))

	return addr, nil
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

// returns actor.TransactionCheckerModifier which checks that invocation
// finished with 'HALT' state and, if so, sets transaction's nonce and
// ValidUntilBlock to 100*N and 100*(N+1) correspondingly, where
// 100*N <= current height < 100*(N+1). Repeated deployments within the
// same span produce the same transaction.
func deploymentTransactionModifier(getBlockchainHeight func() (uint32, error)) actor.TransactionCheckerModifier {
	return func(r *result.Invoke, tx *transaction.Transaction) error {
		err := actor.DefaultCheckerModifier(r, tx)
		if err != nil {
			return err
		}

		curHeight, err := getBlockchainHeight()
		if err != nil {
			return fmt.Errorf("get blockchain height: %w", err)
		}

		const span = 100
		n := curHeight / span

		tx.Nonce = n * span

		if math.MaxUint32-span > tx.Nonce {
			tx.ValidUntilBlock = tx.Nonce + span
		} else {
			tx.ValidUntilBlock = math.MaxUint32
		}

		return nil
	}
}
