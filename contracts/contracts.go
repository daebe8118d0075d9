/*
Package contracts reads compiled FundMe contracts and provides access to them.

Compiled contracts are expected to be laid out in the same way as their
sources: every contract has its own directory holding contract.nef and
manifest.json files.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	// PriceFeedDir is a directory of the mock price feed contract.
	PriceFeedDir = "pricefeed"
	// FundMeDir is a directory of the FundMe contract.
	FundMeDir = "fundme"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract stored in the file system.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	allContracts = []string{
		PriceFeedDir,
		FundMeDir,
	}
)

// ReadAll returns all contracts from the file system. They're returned in the
// order they're supposed to be deployed starting from the price feed.
func ReadAll(fsys fs.FS) ([]Contract, error) {
	var res = make([]Contract, 0, len(allContracts))

	for i := range allContracts {
		c, err := Read(fsys, allContracts[i])
		if err != nil {
			return nil, err
		}

		res = append(res, c)
	}

	return res, nil
}

// Read returns contract stored in the named directory of the file system.
func Read(fsys fs.FS, dir string) (Contract, error) {
	c, err := readContractFromDir(fsys, dir)
	if err != nil {
		return c, fmt.Errorf("read contract %s: %w", dir, err)
	}

	return c, nil
}

func readContractFromDir(fsys fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths use "/" on every platform, so filepath.Join() is not
	// applicable.
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
