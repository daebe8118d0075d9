// Command fundme deploys FundMe contract and interacts with it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/nspcc-dev/fundme-contract/rpc/fundme"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Wallet password may be kept in the local .env file.
	_ = godotenv.Load()

	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "fundme"
	app.Usage = "Deploy and use FundMe crowdfunding contract"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML file with network configuration",
			Value: "fundme.yml",
		},
		cli.StringFlag{
			Name:  "network, n",
			Usage: "Network from the configuration to work with",
			Value: "privnet",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "Enable debug logging",
		},
	}
	app.Commands = commands()
	app.ErrWriter = os.Stderr

	return app
}

// env groups global settings of the command.
type env struct {
	log     *zap.Logger
	network Network
}

func newEnv(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}

	n, err := cfg.network(c.GlobalString("network"))
	if err != nil {
		return nil, err
	}

	l, err := newLogger(c.GlobalBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return &env{log: l, network: n}, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return cfg.Build()
}

// action runs command handler and reports its failure by kind.
func action(f func(ctx context.Context, c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := newEnv(c)
		if err == nil {
			defer func() { _ = e.log.Sync() }()
			err = f(context.Background(), c, e)
		}
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("%s: %v", errorKind(err), err), 1)
		}
		return nil
	}
}

// errorKind returns short description of the error cause.
func errorKind(err error) string {
	for _, k := range []struct {
		err  error
		kind string
	}{
		{fundme.ErrConfiguration, "configuration error"},
		{fundme.ErrPriceFeed, "price feed error"},
		{fundme.ErrInsufficientContribution, "insufficient contribution"},
		{fundme.ErrInvalidPayment, "invalid payment"},
		{fundme.ErrNotOwner, "not owner"},
		{fundme.ErrTransferFailed, "transfer failed"},
		{fundme.ErrIndexOutOfRange, "index out of range"},
		{errInvalidAmount, "invalid amount"},
	} {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "error"
}
