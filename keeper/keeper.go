package keeper

import (
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/event"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/container"
	"github.com/provlabs/sundial/metrics"
	"github.com/provlabs/sundial/types"
)

type Keeper struct {
	schema       collections.Schema
	eventService event.Service
	addressCodec address.Codec
	authority    []byte
	metrics      *metrics.Metrics

	AccountKeeper types.AccountKeeper
	BankKeeper    types.BankKeeper
	ReserveKeeper types.ReserveKeeper
	OracleKeeper  types.OracleKeeper

	Params         collections.Item[types.Params]
	Markets        collections.Map[string, types.Market]
	Sundials       *container.SundialStore
	Collaterals    collections.Map[string, types.SundialCollateral]
	Profiles       collections.Map[collections.Pair[string, sdk.AccAddress], types.SundialProfile]
	YieldPositions collections.Map[collections.Pair[string, sdk.AccAddress], types.YieldPosition]
	MaturityQueue  *container.MaturityQueue
}

func NewKeeper(
	storeService store.KVStoreService,
	eventService event.Service,
	addressCodec address.Codec,
	authority []byte,
	accountKeeper types.AccountKeeper,
	bankKeeper types.BankKeeper,
	reserveKeeper types.ReserveKeeper,
	oracleKeeper types.OracleKeeper,
	m *metrics.Metrics,
) *Keeper {
	if _, err := addressCodec.BytesToString(authority); err != nil {
		panic(fmt.Sprintf("invalid authority address %s: %s", authority, err))
	}

	builder := collections.NewSchemaBuilder(storeService)

	keeper := &Keeper{
		eventService:  eventService,
		addressCodec:  addressCodec,
		authority:     authority,
		metrics:       m,
		AccountKeeper: accountKeeper,
		BankKeeper:    bankKeeper,
		ReserveKeeper: reserveKeeper,
		OracleKeeper:  oracleKeeper,
		Params:        collections.NewItem(builder, types.ParamsKeyPrefix, types.ParamsName, types.JSONValue[types.Params](types.ParamsName)),
		Markets:       collections.NewMap(builder, types.MarketsKeyPrefix, types.MarketsName, collections.StringKey, types.JSONValue[types.Market](types.MarketsName)),
		Sundials:      container.NewSundialStore(builder),
		Collaterals:   collections.NewMap(builder, types.CollateralsKeyPrefix, types.CollateralsName, collections.StringKey, types.JSONValue[types.SundialCollateral](types.CollateralsName)),
		Profiles: collections.NewMap(builder, types.ProfilesKeyPrefix, types.ProfilesName,
			collections.PairKeyCodec(collections.StringKey, sdk.AccAddressKey), types.JSONValue[types.SundialProfile](types.ProfilesName)),
		YieldPositions: collections.NewMap(builder, types.YieldPositionsKeyPrefix, types.YieldPositionsName,
			collections.PairKeyCodec(collections.StringKey, sdk.AccAddressKey), types.JSONValue[types.YieldPosition](types.YieldPositionsName)),
		MaturityQueue: container.NewMaturityQueue(builder),
	}

	schema, err := builder.Build()
	if err != nil {
		panic(err)
	}

	keeper.schema = schema
	return keeper
}

// GetAuthority returns the module's authority.
func (k Keeper) GetAuthority() []byte {
	return k.authority
}

// isAuthority reports whether addr is the module authority.
func (k Keeper) isAuthority(addr string) bool {
	bz, err := k.addressCodec.StringToBytes(addr)
	if err != nil {
		return false
	}
	return sdk.AccAddress(bz).Equals(sdk.AccAddress(k.authority))
}

// GetParams returns the module params, falling back to the defaults before genesis.
func (k Keeper) GetParams(ctx sdk.Context) (types.Params, error) {
	params, err := k.Params.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.DefaultParams(), nil
	}
	return params, err
}

// getLogger returns a logger with sundial module context.
func (k Keeper) getLogger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// emitEvent publishes e through the event service.
func (k Keeper) emitEvent(ctx sdk.Context, e sdk.Event) {
	attrs := make([]event.Attribute, 0, len(e.Attributes))
	for _, a := range e.Attributes {
		attrs = append(attrs, event.Attribute{Key: a.Key, Value: a.Value})
	}
	if err := k.eventService.EventManager(ctx).EmitKV(ctx, e.Type, attrs...); err != nil {
		k.getLogger(ctx).Error("failed to emit event", "type", e.Type, "error", err)
	}
}
