package simapp

import (
	"testing"

	"cosmossdk.io/log"
	"github.com/cometbft/cometbft/crypto/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

// Setup initializes a new App. A Nop logger is set in App.
func Setup(t testing.TB) *SimApp {
	t.Helper()
	app, err := NewSimApp(log.NewNopLogger())
	require.NoError(t, err, "NewSimApp")
	return app
}

// CreateAndFundAccount creates a new account address and funds it with coins.
func (app *SimApp) CreateAndFundAccount(t testing.TB, ctx sdk.Context, coins ...sdk.Coin) sdk.AccAddress {
	t.Helper()
	addr := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())
	if len(coins) > 0 {
		require.NoError(t, app.FundAccount(ctx, addr, sdk.NewCoins(coins...)), "FundAccount(%s)", addr)
	}
	return addr
}
