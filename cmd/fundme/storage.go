package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Storage layout of the FundMe contract.
const (
	ownerKey           = 'o'
	priceFeedKey       = 'p'
	contributorsKey    = 'f'
	contributionPrefix = 'c'
)

// describeStorageItem returns human-readable meaning of the FundMe storage item.
func describeStorageItem(key, value []byte) string {
	switch {
	case len(key) == 1 && key[0] == ownerKey:
		return "owner " + describeAddress(value)
	case len(key) == 1 && key[0] == priceFeedKey:
		return "price feed " + describeAddress(value)
	case len(key) == 1 && key[0] == contributorsKey:
		item, err := stackitem.Deserialize(value)
		if err != nil {
			return "contributors (invalid)"
		}
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return "contributors (invalid)"
		}
		return fmt.Sprintf("contributors list of %d", len(arr))
	case len(key) == 1+util.Uint160Size && key[0] == contributionPrefix:
		return fmt.Sprintf("contribution of %s: %s", describeAddress(key[1:]), formatGAS(bigint.FromBytes(value)))
	}

	return "unknown"
}

func describeAddress(b []byte) string {
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return "(invalid)"
	}
	return address.Uint160ToString(u)
}
