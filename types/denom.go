package types

import (
	"cosmossdk.io/errors"

	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// DecimalsFromMetadata returns the precision of a denom: the exponent of its display unit.
func DecimalsFromMetadata(md banktypes.Metadata) (uint32, error) {
	if md.Display == "" {
		return 0, errors.Wrapf(ErrInvalidDenomMetadata, "denom %s has no display unit", md.Base)
	}
	for _, unit := range md.DenomUnits {
		if unit != nil && unit.Denom == md.Display {
			return unit.Exponent, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidDenomMetadata, "denom %s lists no unit for display %s", md.Base, md.Display)
}

// NewMetadata builds metadata for base with a display unit at the given precision.
func NewMetadata(base, display, description string, decimals uint32) banktypes.Metadata {
	units := []*banktypes.DenomUnit{{Denom: base, Exponent: 0}}
	if decimals > 0 {
		units = append(units, &banktypes.DenomUnit{Denom: display, Exponent: decimals})
	} else {
		display = base
	}
	return banktypes.Metadata{
		Description: description,
		DenomUnits:  units,
		Base:        base,
		Display:     display,
		Name:        display,
		Symbol:      display,
	}
}
