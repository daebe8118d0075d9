package main

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/nspcc-dev/fundme-contract/rpc/fundme"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"gopkg.in/yaml.v3"
)

// Config is a set of networks the tool can work with.
type Config struct {
	Networks map[string]Network `yaml:"networks"`
}

// Network describes a particular Neo network.
type Network struct {
	// Neo RPC server endpoint.
	RPC string `yaml:"rpc"`

	// Address of the price feed contract, either Neo address or LE hex.
	PriceFeed string `yaml:"price_feed"`

	// Mock price feed parameters, used when PriceFeed is empty.
	MockFeed MockFeed `yaml:"mock_feed"`

	// Address of the deployed FundMe contract, optional.
	FundMe string `yaml:"fundme"`
}

// MockFeed groups initial state of the mock price feed. Answer is an integer
// of any size, so feeds with many decimals can be configured.
type MockFeed struct {
	Decimals int64    `yaml:"decimals"`
	Answer   *big.Int `yaml:"answer"`
}

// Default mock price feed state: 2000 USD per GAS with 8 decimals.
const (
	defaultMockDecimals = 8
	defaultMockAnswer   = 2000_0000_0000
)

var errUnknownNetwork = errors.New("unknown network")

// loadConfig reads YAML configuration from the given file.
func loadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("%w: decode config file %s: %w", fundme.ErrConfiguration, path, err)
	}

	return cfg, nil
}

// network returns validated description of the named network.
func (c Config) network(name string) (Network, error) {
	n, ok := c.Networks[name]
	if !ok {
		return n, fmt.Errorf("%w: %w %q", fundme.ErrConfiguration, errUnknownNetwork, name)
	}

	if n.RPC == "" {
		return n, fmt.Errorf("%w: missing RPC endpoint of network %q", fundme.ErrConfiguration, name)
	}

	if n.PriceFeed == "" {
		if n.MockFeed.Decimals == 0 && n.MockFeed.Answer == nil {
			n.MockFeed = MockFeed{Decimals: defaultMockDecimals, Answer: big.NewInt(defaultMockAnswer)}
		}
		if n.MockFeed.Decimals < 0 || n.MockFeed.Answer == nil || n.MockFeed.Answer.Sign() <= 0 {
			return n, fmt.Errorf("%w: invalid mock price feed of network %q", fundme.ErrConfiguration, name)
		}
	} else if _, err := parseContractAddress(n.PriceFeed); err != nil {
		return n, fmt.Errorf("%w: price feed of network %q: %w", fundme.ErrConfiguration, name, err)
	}

	return n, nil
}

// priceFeed returns configured price feed address, zero if the mock feed
// should be used.
func (n Network) priceFeed() (util.Uint160, error) {
	if n.PriceFeed == "" {
		return util.Uint160{}, nil
	}
	return parseContractAddress(n.PriceFeed)
}

// parseContractAddress accepts both Neo address and LE hex string of the
// script hash.
func parseContractAddress(s string) (util.Uint160, error) {
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	h, err := util.Uint160DecodeStringLE(s)
	if err != nil {
		return h, fmt.Errorf("invalid contract address %q", s)
	}

	return h, nil
}
