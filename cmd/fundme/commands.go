package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/fundme-contract/contracts"
	"github.com/nspcc-dev/fundme-contract/deploy"
	"github.com/nspcc-dev/fundme-contract/rpc/fundme"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	walletFlag = cli.StringFlag{
		Name:  "wallet, w",
		Usage: "Path to the NEP-6 wallet (password is read from " + walletPasswordEnv + ")",
	}
	addressFlag = cli.StringFlag{
		Name:  "address, a",
		Usage: "Wallet account to use, default one if not set",
	}
	contractFlag = cli.StringFlag{
		Name:  "contract",
		Usage: "FundMe contract address, overrides network configuration",
	}
)

func commands() []cli.Command {
	return []cli.Command{
		{
			Name:   "deploy",
			Usage:  "Deploy FundMe contract (and the mock price feed if network has no price feed)",
			Flags:  []cli.Flag{walletFlag, addressFlag, cli.StringFlag{Name: "artifacts", Usage: "Directory with compiled contracts", Value: "."}, cli.StringFlag{Name: "owner", Usage: "FundMe owner address, deploying account if not set"}},
			Action: action(deployCmd),
		},
		{
			Name:   "fund",
			Usage:  "Contribute GAS",
			Flags:  []cli.Flag{walletFlag, addressFlag, contractFlag, cli.StringFlag{Name: "amount", Usage: "Amount of GAS, e.g. 0.1"}},
			Action: action(fundCmd),
		},
		{
			Name:   "withdraw",
			Usage:  "Withdraw all contributed GAS to the owner",
			Flags:  []cli.Flag{walletFlag, addressFlag, contractFlag},
			Action: action(withdrawCmd),
		},
		{
			Name:   "status",
			Usage:  "Show contract state",
			Flags:  []cli.Flag{contractFlag},
			Action: action(statusCmd),
		},
		{
			Name:   "contributors",
			Usage:  "List contributors in order of their first contribution",
			Flags:  []cli.Flag{contractFlag},
			Action: action(contributorsCmd),
		},
		{
			Name:   "storage",
			Usage:  "Dump raw contract storage, keys and values are base58-encoded",
			Flags:  []cli.Flag{contractFlag},
			Action: action(storageCmd),
		},
	}
}

func deployCmd(ctx context.Context, c *cli.Context, e *env) error {
	acc, err := openAccount(c.String("wallet"), c.String("address"))
	if err != nil {
		return err
	}

	feed, err := e.network.priceFeed()
	if err != nil {
		return err
	}

	var owner util.Uint160
	if s := c.String("owner"); s != "" {
		owner, err = address.StringToUint160(s)
		if err != nil {
			return fmt.Errorf("%w: invalid owner: %w", fundme.ErrConfiguration, err)
		}
	}

	artifacts := os.DirFS(c.String("artifacts"))

	fundMeContract, err := contracts.Read(artifacts, contracts.FundMeDir)
	if err != nil {
		return err
	}

	prm := deploy.Prm{
		Logger:       e.log,
		LocalAccount: acc,
		PriceFeed:    feed,
		FundMe: deploy.FundMePrm{
			Common: deploy.CommonDeployPrm{NEF: fundMeContract.NEF, Manifest: fundMeContract.Manifest},
			Owner:  owner,
		},
	}

	if feed.Equals(util.Uint160{}) {
		feedContract, err := contracts.Read(artifacts, contracts.PriceFeedDir)
		if err != nil {
			return err
		}

		prm.MockFeed = deploy.MockFeedPrm{
			Common:   deploy.CommonDeployPrm{NEF: feedContract.NEF, Manifest: feedContract.Manifest},
			Decimals: e.network.MockFeed.Decimals,
			Answer:   e.network.MockFeed.Answer,
		}
	}

	b, err := newRemoteBlockchain(ctx, e.network.RPC, acc)
	if err != nil {
		return err
	}
	defer b.close()

	prm.Blockchain = b.rpc

	res, err := deploy.Deploy(ctx, prm)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Price feed: %s (%s)\n", address.Uint160ToString(res.PriceFeed), res.PriceFeed.StringLE())
	fmt.Fprintf(c.App.Writer, "FundMe:     %s (%s)\n", address.Uint160ToString(res.FundMe), res.FundMe.StringLE())

	return nil
}

func fundCmd(ctx context.Context, c *cli.Context, e *env) error {
	amount, err := parseGAS(c.String("amount"))
	if err != nil {
		return err
	}

	h, err := e.contract(c)
	if err != nil {
		return err
	}

	acc, err := openAccount(c.String("wallet"), c.String("address"))
	if err != nil {
		return err
	}

	b, err := newRemoteBlockchain(ctx, e.network.RPC, acc)
	if err != nil {
		return err
	}
	defer b.close()

	e.log.Info("funding...", zap.Stringer("amount", amount), zap.String("from", acc.Address))

	txHash, vub, err := gas.New(b.actor).Transfer(acc.ScriptHash(), h, amount, nil)
	res, err := b.wait(ctx, txHash, vub, err)
	if err != nil {
		return err
	}

	events, err := fundme.FundedEventsFromApplicationLog(applicationLog(res))
	if err != nil {
		return fmt.Errorf("read Funded events: %w", err)
	}

	for _, ev := range events {
		fmt.Fprintf(c.App.Writer, "Funded %s by %s, total contribution %s\n",
			formatGAS(ev.Amount), address.Uint160ToString(ev.From), formatGAS(ev.Total))
	}

	return nil
}

func withdrawCmd(ctx context.Context, c *cli.Context, e *env) error {
	h, err := e.contract(c)
	if err != nil {
		return err
	}

	acc, err := openAccount(c.String("wallet"), c.String("address"))
	if err != nil {
		return err
	}

	b, err := newRemoteBlockchain(ctx, e.network.RPC, acc)
	if err != nil {
		return err
	}
	defer b.close()

	e.log.Info("withdrawing...", zap.String("owner", acc.Address))

	txHash, vub, err := fundme.New(b.actor, h).Withdraw()
	res, err := b.wait(ctx, txHash, vub, err)
	if err != nil {
		return err
	}

	events, err := fundme.WithdrawnEventsFromApplicationLog(applicationLog(res))
	if err != nil {
		return fmt.Errorf("read Withdrawn events: %w", err)
	}

	for _, ev := range events {
		fmt.Fprintf(c.App.Writer, "Withdrawn %s from %s contributors to %s\n",
			formatGAS(ev.Amount), ev.Contributors, address.Uint160ToString(ev.Owner))
	}

	return nil
}

func statusCmd(ctx context.Context, c *cli.Context, e *env) error {
	h, err := e.contract(c)
	if err != nil {
		return err
	}

	b, err := newRemoteBlockchain(ctx, e.network.RPC, nil)
	if err != nil {
		return err
	}
	defer b.close()

	r := fundme.NewReader(b.inv, h)

	owner, err := r.Owner()
	if err != nil {
		return fmt.Errorf("get owner: %w", err)
	}

	feed, err := r.PriceFeed()
	if err != nil {
		return fmt.Errorf("get price feed: %w", err)
	}

	held, err := r.HeldValue()
	if err != nil {
		return fmt.Errorf("get held value: %w", err)
	}

	count, err := r.ContributorsCount()
	if err != nil {
		return fmt.Errorf("get number of contributors: %w", err)
	}

	minimum, err := r.MinimumUSD()
	if err != nil {
		return fmt.Errorf("get minimum contribution: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Owner:        %s\n", address.Uint160ToString(owner))
	fmt.Fprintf(w, "Price feed:   %s\n", address.Uint160ToString(feed))
	fmt.Fprintf(w, "Minimum:      %s\n", formatUSD(minimum))
	fmt.Fprintf(w, "Contributors: %s\n", count)

	price, err := r.Price()
	if err != nil {
		// Price feed failure doesn't prevent showing the rest.
		fmt.Fprintf(w, "Held value:   %s\n", formatGAS(held))
		return fmt.Errorf("get price: %w", fundme.MapError(err))
	}

	usd, err := r.ConversionRate(held)
	if err != nil {
		return fmt.Errorf("convert held value: %w", fundme.MapError(err))
	}

	fmt.Fprintf(w, "Price:        %s\n", formatPrice(price[0], price[1].Int64()))
	fmt.Fprintf(w, "Held value:   %s (%s)\n", formatGAS(held), formatUSD(usd))

	return nil
}

func contributorsCmd(ctx context.Context, c *cli.Context, e *env) error {
	h, err := e.contract(c)
	if err != nil {
		return err
	}

	b, err := newRemoteBlockchain(ctx, e.network.RPC, nil)
	if err != nil {
		return err
	}
	defer b.close()

	r := fundme.NewReader(b.inv, h)

	count, err := r.ContributorsCount()
	if err != nil {
		return fmt.Errorf("get number of contributors: %w", err)
	}

	for i := int64(0); i < count.Int64(); i++ {
		addr, err := r.ContributorAt(big.NewInt(i))
		if err != nil {
			return fmt.Errorf("get contributor #%d: %w", i, fundme.MapError(err))
		}

		amount, err := r.ContributionOf(addr)
		if err != nil {
			return fmt.Errorf("get contribution of %s: %w", address.Uint160ToString(addr), err)
		}

		fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", i, address.Uint160ToString(addr), formatGAS(amount))
	}

	return nil
}

func storageCmd(ctx context.Context, c *cli.Context, e *env) error {
	h, err := e.contract(c)
	if err != nil {
		return err
	}

	b, err := newRemoteBlockchain(ctx, e.network.RPC, nil)
	if err != nil {
		return err
	}
	defer b.close()

	return b.iterateContractStorage(h, func(key, value []byte) error {
		_, err := fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n",
			base58.Encode(key), base58.Encode(value), describeStorageItem(key, value))
		return err
	})
}

// contract returns FundMe address from the flag or network configuration.
func (e *env) contract(c *cli.Context) (util.Uint160, error) {
	s := c.String("contract")
	if s == "" {
		s = e.network.FundMe
	}
	if s == "" {
		return util.Uint160{}, fmt.Errorf("%w: %w", fundme.ErrConfiguration, errors.New("FundMe address is not set"))
	}

	h, err := parseContractAddress(s)
	if err != nil {
		return h, fmt.Errorf("%w: %w", fundme.ErrConfiguration, err)
	}

	return h, nil
}
