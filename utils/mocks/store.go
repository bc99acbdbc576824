package mocks

import (
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/header"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// NewStoreContext returns a context over a fresh in-memory store for storeKey
// and a schema builder bound to it. The caller builds the schema after
// declaring its collections.
func NewStoreContext(t testing.TB, storeKey string) (sdk.Context, *collections.SchemaBuilder) {
	key := storetypes.NewKVStoreKey(storeKey)
	tkey := storetypes.NewTransientStoreKey(fmt.Sprintf("transient_%s", storeKey))
	wrapper := testutil.DefaultContextWithDB(t, key, tkey)

	builder := collections.NewSchemaBuilder(runtime.NewKVStoreService(key))
	ctx := wrapper.Ctx.WithHeaderInfo(header.Info{Time: time.Now().UTC()})
	return ctx, builder
}
