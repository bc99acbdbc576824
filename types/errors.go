package types

import "cosmossdk.io/errors"

var (
	ErrInvalidRequest         = errors.Register(ModuleName, 2, "invalid request")
	ErrNotFound               = errors.Register(ModuleName, 3, "not found")
	ErrUnauthorized           = errors.Register(ModuleName, 4, "unauthorized")
	ErrMarketMismatch         = errors.Register(ModuleName, 5, "component belongs to a different market")
	ErrStaleOracle            = errors.Register(ModuleName, 6, "oracle price is stale")
	ErrStaleSource            = errors.Register(ModuleName, 7, "dependent refresh missing at current slot")
	ErrInsufficientCollateral = errors.Register(ModuleName, 8, "insufficient collateral")
	ErrMarketMatured          = errors.Register(ModuleName, 9, "sundial has matured")
	ErrMarketNotMatured       = errors.Register(ModuleName, 10, "sundial has not matured")
	ErrCapacityExceeded       = errors.Register(ModuleName, 11, "capacity exceeded")
	ErrArithmeticOverflow     = errors.Register(ModuleName, 12, "arithmetic overflow")
	ErrInsufficientLiquidity  = errors.Register(ModuleName, 13, "insufficient pooled liquidity")
	ErrInvalidOraclePrice     = errors.Register(ModuleName, 14, "invalid oracle price")
	ErrInvalidDenomMetadata   = errors.Register(ModuleName, 15, "invalid denom metadata")
	ErrNotLiquidatable        = errors.Register(ModuleName, 16, "profile is not liquidatable")
	ErrReserveNotRedeemed     = errors.Register(ModuleName, 17, "sundial reserve has not been redeemed")
	ErrAlreadyExists          = errors.Register(ModuleName, 18, "already exists")
)

// OverflowErr wraps a fixed-point or integer math failure as ErrArithmeticOverflow.
func OverflowErr(op string, err error) error {
	return errors.Wrapf(ErrArithmeticOverflow, "%s: %s", op, err)
}
