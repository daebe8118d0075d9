package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nspcc-dev/fundme-contract/rpc/fundme"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// walletPasswordEnv is an environment variable holding password of the
// wallet account.
const walletPasswordEnv = "FUNDME_WALLET_PASSWORD"

// wrapper over Neo RPC providing blockchain services needed for commands.
type remoteBlockchain struct {
	rpc *rpcclient.Client
	inv *invoker.Invoker

	// Set only when the account is provided.
	actor *actor.Actor
}

// newRemoteBlockchain dials Neo RPC server and returns remoteBlockchain based
// on the opened connection. Connection and all requests are done within 15s
// timeout. Nil account makes read-only remoteBlockchain.
func newRemoteBlockchain(ctx context.Context, endpoint string, acc *wallet.Account) (*remoteBlockchain, error) {
	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	b := &remoteBlockchain{
		rpc: c,
		inv: invoker.New(c, nil),
	}

	if acc != nil {
		b.actor, err = actor.NewSimple(c, acc)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init actor: %w", err)
		}
	}

	return b, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// wait waits for the transaction sent by the actor and checks it's been
// successfully executed. Contract exceptions are mapped to fundme errors.
func (x *remoteBlockchain) wait(ctx context.Context, h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", fundme.MapError(err))
	}

	res, err := x.actor.WaitAny(ctx, vub, h)
	if err != nil {
		return nil, fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return nil, fmt.Errorf("transaction %s failed: %w", h.StringLE(), fundme.FaultError(res.FaultException))
	}

	return res, nil
}

// iterateContractStorage iterates over all storage items of the Neo smart
// contract referenced by given address and passes them into f.
// iterateContractStorage breaks on any f's error and returns it.
func (x *remoteBlockchain) iterateContractStorage(contract util.Uint160, f func(key, value []byte) error) error {
	nLatestBlock, err := x.rpc.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get number of the latest block: %w", err)
	}

	stateRoot, err := x.rpc.GetStateRootByHeight(nLatestBlock - 1)
	if err != nil {
		return fmt.Errorf("get state root at penult block #%d: %w", nLatestBlock-1, err)
	}

	var start []byte

	for {
		res, err := x.rpc.FindStates(stateRoot.Root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get historical storage items of the requested contract at state root '%s': %w", stateRoot.Root, err)
		}

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}

// openAccount opens wallet account with the given address or the default one.
// Password is read from FUNDME_WALLET_PASSWORD.
func openAccount(walletPath, addr string) (*wallet.Account, error) {
	if walletPath == "" {
		return nil, errors.New("missing wallet")
	}

	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var h util.Uint160
	if addr == "" {
		h = w.GetChangeAddress()
	} else {
		h, err = address.StringToUint160(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet", address.Uint160ToString(h))
	}

	err = acc.Decrypt(os.Getenv(walletPasswordEnv), w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}

// applicationLog wraps transaction execution result to read contract events.
func applicationLog(res *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:     res.Container,
		IsTransaction: true,
		Executions:    []state.Execution{res.Execution},
	}
}
