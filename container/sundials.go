package container

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/collections/indexes"

	"github.com/provlabs/sundial/types"
)

// SundialIndexes defines the secondary indexes over stored sundials.
type SundialIndexes struct {
	ByMarket *indexes.Multi[string, string, types.Sundial]
}

// IndexesList returns the list of indexes for the sundial store.
func (i SundialIndexes) IndexesList() []collections.Index[string, types.Sundial] {
	return []collections.Index[string, types.Sundial]{i.ByMarket}
}

// NewSundialIndexes creates a new SundialIndexes object.
func NewSundialIndexes(sb *collections.SchemaBuilder) SundialIndexes {
	return SundialIndexes{
		ByMarket: indexes.NewMulti(
			sb,
			types.SundialsByMarketIndexPrefix,
			types.SundialsByMarketIndexName,
			collections.StringKey,
			collections.StringKey,
			func(_ string, s types.Sundial) (string, error) {
				return s.MarketID, nil
			},
		),
	}
}

// SundialStore keeps sundials by id with a market index.
type SundialStore struct {
	// IndexedMap is the indexed map of sundials keyed by sundial id.
	IndexedMap *collections.IndexedMap[string, types.Sundial, SundialIndexes]
}

// NewSundialStore creates a new SundialStore.
func NewSundialStore(builder *collections.SchemaBuilder) *SundialStore {
	return &SundialStore{
		IndexedMap: collections.NewIndexedMap(
			builder,
			types.SundialsKeyPrefix,
			types.SundialsName,
			collections.StringKey,
			types.JSONValue[types.Sundial](types.SundialsName),
			NewSundialIndexes(builder),
		),
	}
}

func (s *SundialStore) Get(ctx context.Context, id string) (types.Sundial, error) {
	return s.IndexedMap.Get(ctx, id)
}

func (s *SundialStore) Has(ctx context.Context, id string) (bool, error) {
	return s.IndexedMap.Has(ctx, id)
}

func (s *SundialStore) Set(ctx context.Context, sundial types.Sundial) error {
	return s.IndexedMap.Set(ctx, sundial.ID, sundial)
}

// Walk iterates over every sundial in id order.
func (s *SundialStore) Walk(ctx context.Context, fn func(sundial types.Sundial) (stop bool, err error)) error {
	return s.IndexedMap.Walk(ctx, nil, func(_ string, value types.Sundial) (bool, error) {
		return fn(value)
	})
}

// WalkByMarket iterates over all sundials of a market.
// Iteration stops when the callback returns stop=true or an error.
func (s *SundialStore) WalkByMarket(ctx context.Context, marketID string, fn func(sundial types.Sundial) (stop bool, err error)) error {
	iter, err := s.IndexedMap.Indexes.ByMarket.MatchExact(ctx, marketID)
	if err != nil {
		return err
	}
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		pk, err := iter.PrimaryKey()
		if err != nil {
			return err
		}
		sundial, err := s.IndexedMap.Get(ctx, pk)
		if err != nil {
			return err
		}
		if stop, err := fn(sundial); stop || err != nil {
			return err
		}
	}
	return nil
}
