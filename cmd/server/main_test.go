package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ColuLocalNetwork/inventory-manager/internal/configuration"
	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

func TestOpeningBalances(t *testing.T) {
	balances, err := openingBalances([]configuration.SeedBalance{
		{Address: "0xW1", Currency: "C", Amount: "100.25"},
		{Address: "0xW2", Currency: "C", Amount: ""},
	})

	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, "100.25", balances[0].Amount.String())
	assert.True(t, balances[1].Amount.IsZero())

	_, err = openingBalances([]configuration.SeedBalance{{Address: "0xW1", Currency: "C", Amount: "lots"}})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestOpenStores_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := configuration.Default()

	st, err := openStores(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = st.wallets.Apply(ctx, domain.EnsureEntry("0xW1", "C"))
	require.NoError(t, err)
	_, err = st.wallets.Get(ctx, "0xW1")
	assert.NoError(t, err)
	assert.NoError(t, st.close(ctx))
}
