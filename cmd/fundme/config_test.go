package main

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/fundme-contract/rpc/fundme"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

const testConfig = `
networks:
  privnet:
    rpc: http://localhost:30333
    mock_feed: {decimals: 18, answer: 2000000000000000000000}
  localnet:
    rpc: http://localhost:20331
  testnet:
    rpc: https://rpc.t5.n3.nspcc.ru:20331
    price_feed: %[1]s
    fundme: 0102030405060708090a0b0c0d0e0f1011121314
  broken:
    rpc: http://localhost:30333
    price_feed: not an address
  norpc:
    price_feed: %[1]s
  noanswer:
    rpc: http://localhost:30333
    mock_feed: {decimals: 8}
  negative:
    rpc: http://localhost:30333
    mock_feed: {decimals: 8, answer: -1}
`

func writeConfig(t *testing.T, data string) string {
	p := filepath.Join(t.TempDir(), "fundme.yml")
	require.NoError(t, os.WriteFile(p, []byte(data), 0600))
	return p
}

func TestLoadConfig(t *testing.T) {
	feedHash := util.Uint160{5, 6, 7}
	feedAddr := address.Uint160ToString(feedHash)

	cfg, err := loadConfig(writeConfig(t, fmt.Sprintf(testConfig, feedAddr)))
	require.NoError(t, err)

	t.Run("mock feed", func(t *testing.T) {
		n, err := cfg.network("privnet")
		require.NoError(t, err)
		require.Equal(t, "http://localhost:30333", n.RPC)
		require.EqualValues(t, 18, n.MockFeed.Decimals)
		require.Equal(t, "2000000000000000000000", n.MockFeed.Answer.String())

		feed, err := n.priceFeed()
		require.NoError(t, err)
		require.True(t, feed.Equals(util.Uint160{}))
	})

	t.Run("default mock feed", func(t *testing.T) {
		n, err := cfg.network("localnet")
		require.NoError(t, err)
		require.EqualValues(t, defaultMockDecimals, n.MockFeed.Decimals)
		require.Zero(t, n.MockFeed.Answer.Cmp(big.NewInt(defaultMockAnswer)))
	})

	t.Run("price feed", func(t *testing.T) {
		n, err := cfg.network("testnet")
		require.NoError(t, err)

		feed, err := n.priceFeed()
		require.NoError(t, err)

		require.Equal(t, feedHash, feed)

		h, err := parseContractAddress(n.FundMe)
		require.NoError(t, err)
		require.Equal(t, "0102030405060708090a0b0c0d0e0f1011121314", h.StringLE())
	})

	for _, name := range []string{"broken", "norpc", "noanswer", "negative", "mainnet"} {
		t.Run("invalid "+name, func(t *testing.T) {
			_, err := cfg.network(name)
			require.ErrorIs(t, err, fundme.ErrConfiguration)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
	})

	t.Run("invalid file", func(t *testing.T) {
		_, err := loadConfig(writeConfig(t, "networks: [1, 2"))
		require.ErrorIs(t, err, fundme.ErrConfiguration)

		_, err = loadConfig(writeConfig(t, "networks: {privnet: {mock_feed: {answer: 12.5}}}"))
		require.ErrorIs(t, err, fundme.ErrConfiguration)
	})
}
