package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nspcc-dev/fundme-contract/rpc/fundme"
	"github.com/stretchr/testify/require"
)

func TestErrorKind(t *testing.T) {
	require.Equal(t, "error", errorKind(errors.New("any")))
	require.Equal(t, "not owner", errorKind(fmt.Errorf("send transaction: %w", fundme.ErrNotOwner)))
	require.Equal(t, "insufficient contribution",
		errorKind(fundme.MapError(errors.New("unhandled exception: \"didn't send enough GAS\""))))
	require.Equal(t, "invalid amount", errorKind(fmt.Errorf("%w: must be positive", errInvalidAmount)))
}

func TestApp(t *testing.T) {
	app := newApp()

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	require.ElementsMatch(t, []string{"deploy", "fund", "withdraw", "status", "contributors", "storage"}, names)
}
