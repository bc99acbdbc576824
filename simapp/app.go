// Package simapp wires the sundial keeper to in-memory auth, bank, oracle and reserve
// keepers for tests and scenario simulation.
package simapp

import (
	"fmt"
	"time"

	"cosmossdk.io/core/header"
	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	codectestutil "github.com/cosmos/cosmos-sdk/codec/testutil"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/provlabs/sundial/keeper"
	"github.com/provlabs/sundial/metrics"
	"github.com/provlabs/sundial/oracle"
	"github.com/provlabs/sundial/reserve"
	"github.com/provlabs/sundial/types"
)

// Bech32Prefix is the account address prefix used by the app.
const Bech32Prefix = "cosmos"

// GenesisTime is the block time of the first block.
var GenesisTime = time.Unix(1_700_000_000, 0).UTC()

// module account permissions
var maccPerms = map[string][]string{
	minttypes.ModuleName:   {authtypes.Minter},
	types.ModuleName:       {authtypes.Minter, authtypes.Burner},
	types.FeeCollectorName: nil,
	reserve.ModuleName:     {authtypes.Minter, authtypes.Burner},
}

// EncodingConfig holds the codecs used by the app.
type EncodingConfig struct {
	InterfaceRegistry codectypes.InterfaceRegistry
	Codec             codec.Codec
}

// MakeTestEncodingConfig registers the auth and bank interfaces on a fresh registry.
func MakeTestEncodingConfig() EncodingConfig {
	registry := codectestutil.CodecOptions{AccAddressPrefix: Bech32Prefix}.NewInterfaceRegistry()
	std.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	return EncodingConfig{
		InterfaceRegistry: registry,
		Codec:             codec.NewProtoCodec(registry),
	}
}

// SimApp is a minimal application holding the sundial keeper and its dependencies.
type SimApp struct {
	logger log.Logger
	cms    storetypes.CommitMultiStore
	keys   map[string]*storetypes.KVStoreKey

	height int64
	time   time.Time

	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	AccountKeeper authkeeper.AccountKeeper
	BankKeeper    bankkeeper.BaseKeeper
	OracleKeeper  *oracle.Keeper
	ReserveKeeper *reserve.Keeper
	SundialKeeper *keeper.Keeper
}

// NewSimApp builds the app over an in-memory database and initializes module params.
func NewSimApp(logger log.Logger) (*SimApp, error) {
	keys := storetypes.NewKVStoreKeys(authtypes.StoreKey, banktypes.StoreKey, oracle.StoreKey, reserve.StoreKey, types.StoreKey)

	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, storemetrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}

	encCfg := MakeTestEncodingConfig()
	addrCodec := addresscodec.NewBech32Codec(Bech32Prefix)
	authority := authtypes.NewModuleAddress(types.GovModuleName)

	app := &SimApp{
		logger:   logger,
		cms:      cms,
		keys:     keys,
		height:   1,
		time:     GenesisTime,
		Registry: prometheus.NewRegistry(),
	}
	app.Metrics = metrics.NewMetrics(app.Registry)

	app.AccountKeeper = authkeeper.NewAccountKeeper(
		encCfg.Codec,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		maccPerms,
		addrCodec,
		Bech32Prefix,
		authority.String(),
	)
	app.BankKeeper = bankkeeper.NewBaseKeeper(
		encCfg.Codec,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		app.AccountKeeper,
		map[string]bool{},
		authority.String(),
		logger,
	)
	app.OracleKeeper = oracle.NewKeeper(runtime.NewKVStoreService(keys[oracle.StoreKey]))
	app.ReserveKeeper = reserve.NewKeeper(runtime.NewKVStoreService(keys[reserve.StoreKey]), app.BankKeeper)
	app.SundialKeeper = keeper.NewKeeper(
		runtime.NewKVStoreService(keys[types.StoreKey]),
		runtime.EventService{},
		addrCodec,
		authority,
		app.AccountKeeper,
		app.BankKeeper,
		app.ReserveKeeper,
		app.OracleKeeper,
		app.Metrics,
	)

	ctx := app.NewContext(false)
	if err := app.AccountKeeper.Params.Set(ctx, authtypes.DefaultParams()); err != nil {
		return nil, fmt.Errorf("failed to set auth params: %w", err)
	}
	if err := app.BankKeeper.SetParams(ctx, banktypes.DefaultParams()); err != nil {
		return nil, fmt.Errorf("failed to set bank params: %w", err)
	}
	app.SundialKeeper.InitGenesis(ctx, types.DefaultGenesisState())
	return app, nil
}

// Authority returns the module authority address.
func (app *SimApp) Authority() sdk.AccAddress {
	return sdk.AccAddress(app.SundialKeeper.GetAuthority())
}

// NewContext returns a context for the current block.
func (app *SimApp) NewContext(isCheckTx bool) sdk.Context {
	ctx := sdk.NewContext(app.cms, cmtproto.Header{
		ChainID: "sundial-sim",
		Height:  app.height,
		Time:    app.time,
	}, isCheckTx, app.logger)
	return ctx.WithHeaderInfo(header.Info{
		ChainID: "sundial-sim",
		Height:  app.height,
		Time:    app.time,
	})
}

// NextBlock advances one slot and d of block time, runs the sundial begin blocker and
// returns the new block's context.
func (app *SimApp) NextBlock(d time.Duration) (sdk.Context, error) {
	app.height++
	app.time = app.time.Add(d)
	ctx := app.NewContext(false)
	if err := app.SundialKeeper.BeginBlocker(ctx); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// KVStoreService returns the store service over one of the app's stores.
func (app *SimApp) KVStoreService(storeKey string) corestore.KVStoreService {
	return runtime.NewKVStoreService(app.keys[storeKey])
}

// Height returns the current slot.
func (app *SimApp) Height() int64 {
	return app.height
}

// BlockTime returns the current block time.
func (app *SimApp) BlockTime() time.Time {
	return app.time
}

// FundAccount mints amounts and sends them to addr.
func (app *SimApp) FundAccount(ctx sdk.Context, addr sdk.AccAddress, amounts sdk.Coins) error {
	if err := app.BankKeeper.MintCoins(ctx, minttypes.ModuleName, amounts); err != nil {
		return err
	}
	return app.BankKeeper.SendCoinsFromModuleToAccount(ctx, minttypes.ModuleName, addr, amounts)
}

// RegisterDenom records bank metadata for denom at the given precision.
func (app *SimApp) RegisterDenom(ctx sdk.Context, denom string, decimals uint32) {
	app.BankKeeper.SetDenomMetaData(ctx, types.NewMetadata(denom, denom+"-display", "", decimals))
}
