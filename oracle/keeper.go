// Package oracle stores price snapshots published by a price writer and serves
// them to the sundial module.
package oracle

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/core/store"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
)

const (
	// StoreKey is the store key of the oracle keeper.
	StoreKey = "oracle"
)

var (
	// PricesKeyPrefix is the prefix of the price snapshot collection.
	PricesKeyPrefix = collections.NewPrefix(0)
)

// Keeper holds the latest snapshot per oracle.
type Keeper struct {
	schema collections.Schema

	Prices collections.Map[string, types.OracleSnapshot]
}

var _ types.OracleKeeper = (*Keeper)(nil)

// NewKeeper returns an oracle keeper over its own store.
func NewKeeper(storeService store.KVStoreService) *Keeper {
	builder := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		Prices: collections.NewMap(builder, PricesKeyPrefix, "prices", collections.StringKey, types.JSONValue[types.OracleSnapshot]("oracle_snapshot")),
	}
	schema, err := builder.Build()
	if err != nil {
		panic(err)
	}
	k.schema = schema
	return k
}

// GetPrice returns the latest snapshot of an oracle.
func (k Keeper) GetPrice(ctx context.Context, oracleID string) (types.OracleSnapshot, error) {
	snap, err := k.Prices.Get(ctx, oracleID)
	if errors.Is(err, collections.ErrNotFound) {
		return types.OracleSnapshot{}, errorsmod.Wrapf(types.ErrNotFound, "oracle %s", oracleID)
	}
	if err != nil {
		return types.OracleSnapshot{}, fmt.Errorf("failed to get oracle %s: %w", oracleID, err)
	}
	return snap, nil
}

// SetPrice stores a snapshot as published.
func (k Keeper) SetPrice(ctx context.Context, snap types.OracleSnapshot) error {
	if snap.OracleID == "" {
		return errorsmod.Wrap(types.ErrInvalidRequest, "oracle id must not be empty")
	}
	if snap.Price < 0 {
		return errorsmod.Wrapf(types.ErrInvalidOraclePrice, "negative price %d", snap.Price)
	}
	return k.Prices.Set(ctx, snap.OracleID, snap)
}

// WritePrice publishes price * 10^expo for oracleID at the current slot and block time.
func (k Keeper) WritePrice(ctx sdk.Context, oracleID string, price int64, expo int32) error {
	return k.SetPrice(ctx, types.OracleSnapshot{
		OracleID:    oracleID,
		Price:       price,
		Expo:        expo,
		AsOfSlot:    ctx.BlockHeight(),
		PublishTime: ctx.BlockTime().Unix(),
	})
}
