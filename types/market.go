package types

import (
	fmt "fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Market is the namespace that scopes a set of Sundials, SundialCollaterals and SundialProfiles.
type Market struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
}

// Validate performs stateless validation of the market.
func (m Market) Validate() error {
	if err := ValidateMarketID(m.ID); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(m.Owner); err != nil {
		return fmt.Errorf("invalid market owner %q: %w", m.Owner, err)
	}
	return nil
}

// IsOwner reports whether addr administers the market.
func (m Market) IsOwner(addr string) bool {
	return m.Owner == addr
}

// ValidateMarketID checks that a market identifier is usable as a denom path segment.
func ValidateMarketID(id string) error {
	if len(id) == 0 || len(id) > 64 {
		return fmt.Errorf("market id must be 1-64 characters, got %d", len(id))
	}
	for _, c := range id {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' || c == '_') {
			return fmt.Errorf("invalid character %q in market id %q", c, id)
		}
	}
	return nil
}
