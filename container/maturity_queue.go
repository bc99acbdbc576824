package container

import (
	"context"

	"cosmossdk.io/collections"

	"github.com/provlabs/sundial/types"
)

// Maturity is a scheduled sundial end.
type Maturity struct {
	EndTimestamp int64
	SundialID    string
}

// MaturityQueue holds open sundials keyed by (end timestamp, id), so the
// sundials due at a block are a prefix of the key space.
type MaturityQueue struct {
	keys collections.KeySet[collections.Pair[uint64, string]]
}

func NewMaturityQueue(builder *collections.SchemaBuilder) *MaturityQueue {
	return &MaturityQueue{
		keys: collections.NewKeySet(builder, types.MaturityQueuePrefix, types.MaturityQueueName,
			collections.PairKeyCodec(collections.Uint64Key, collections.StringKey)),
	}
}

// Schedule records that the sundial matures at endTimestamp.
func (q *MaturityQueue) Schedule(ctx context.Context, endTimestamp int64, sundialID string) error {
	return q.keys.Set(ctx, maturityKey(endTimestamp, sundialID))
}

// IsScheduled reports whether the sundial still awaits its maturity at endTimestamp.
func (q *MaturityQueue) IsScheduled(ctx context.Context, endTimestamp int64, sundialID string) (bool, error) {
	return q.keys.Has(ctx, maturityKey(endTimestamp, sundialID))
}

// Matured lists the sundials ending at or before now, earliest first.
func (q *MaturityQueue) Matured(ctx context.Context, now int64) ([]Maturity, error) {
	if now < 0 {
		return nil, nil
	}
	it, err := q.keys.Iterate(ctx, collections.NewPrefixUntilPairRange[uint64, string](uint64(now)))
	if err != nil {
		return nil, err
	}
	keys, err := it.Keys()
	if err != nil {
		return nil, err
	}
	matured := make([]Maturity, 0, len(keys))
	for _, key := range keys {
		matured = append(matured, Maturity{EndTimestamp: int64(key.K1()), SundialID: key.K2()})
	}
	return matured, nil
}

// PopMatured removes and returns the sundials ending at or before now.
func (q *MaturityQueue) PopMatured(ctx context.Context, now int64) ([]Maturity, error) {
	matured, err := q.Matured(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, m := range matured {
		if err := q.keys.Remove(ctx, maturityKey(m.EndTimestamp, m.SundialID)); err != nil {
			return nil, err
		}
	}
	return matured, nil
}

func maturityKey(endTimestamp int64, sundialID string) collections.Pair[uint64, string] {
	return collections.Join(uint64(endTimestamp), sundialID)
}
