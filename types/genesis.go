package types

import (
	fmt "fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisYieldPosition is a YieldPosition together with its key.
type GenesisYieldPosition struct {
	SundialID string        `json:"sundial_id"`
	Owner     string        `json:"owner"`
	Position  YieldPosition `json:"position"`
}

// GenesisState is the module's exported state.
type GenesisState struct {
	Params         Params                 `json:"params"`
	Markets        []Market               `json:"markets"`
	Sundials       []Sundial              `json:"sundials"`
	Collaterals    []SundialCollateral    `json:"collaterals"`
	Profiles       []SundialProfile       `json:"profiles"`
	YieldPositions []GenesisYieldPosition `json:"yield_positions"`
}

// DefaultGenesisState returns the default genesis state
func DefaultGenesisState() *GenesisState {
	return &GenesisState{Params: DefaultParams()}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	markets := make(map[string]bool, len(gs.Markets))
	for _, m := range gs.Markets {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("invalid market %q: %w", m.ID, err)
		}
		if markets[m.ID] {
			return fmt.Errorf("duplicate market %q", m.ID)
		}
		markets[m.ID] = true
	}

	sundials := make(map[string]bool, len(gs.Sundials))
	for _, s := range gs.Sundials {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid sundial %q: %w", s.ID, err)
		}
		if !markets[s.MarketID] {
			return fmt.Errorf("sundial %q references unknown market %q", s.ID, s.MarketID)
		}
		if sundials[s.ID] {
			return fmt.Errorf("duplicate sundial %q", s.ID)
		}
		sundials[s.ID] = true
	}

	collaterals := make(map[string]bool, len(gs.Collaterals))
	for _, c := range gs.Collaterals {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid collateral %q: %w", c.ID, err)
		}
		if !markets[c.MarketID] {
			return fmt.Errorf("collateral %q references unknown market %q", c.ID, c.MarketID)
		}
		if collaterals[c.ID] {
			return fmt.Errorf("duplicate collateral %q", c.ID)
		}
		collaterals[c.ID] = true
	}

	profiles := make(map[string]bool, len(gs.Profiles))
	for _, p := range gs.Profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid profile %s/%s: %w", p.MarketID, p.Owner, err)
		}
		key := p.MarketID + "/" + p.Owner
		if profiles[key] {
			return fmt.Errorf("duplicate profile %s", key)
		}
		profiles[key] = true
		for _, e := range p.Collaterals {
			if !collaterals[e.CollateralID] {
				return fmt.Errorf("profile %s references unknown collateral %q", key, e.CollateralID)
			}
		}
		for _, e := range p.Loans {
			if !sundials[e.SundialID] {
				return fmt.Errorf("profile %s references unknown sundial %q", key, e.SundialID)
			}
		}
	}

	for _, y := range gs.YieldPositions {
		if !sundials[y.SundialID] {
			return fmt.Errorf("yield position references unknown sundial %q", y.SundialID)
		}
		if _, err := sdk.AccAddressFromBech32(y.Owner); err != nil {
			return fmt.Errorf("invalid yield position owner %q: %w", y.Owner, err)
		}
		if y.Position.Amount.IsNil() || y.Position.Weight.IsNil() || y.Position.Amount.IsNegative() || y.Position.Weight.IsNegative() {
			return fmt.Errorf("yield position %s/%s must hold non-negative integers", y.SundialID, y.Owner)
		}
	}
	return nil
}
