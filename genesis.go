package sundial

import (
	"encoding/json"
	"fmt"

	"github.com/provlabs/sundial/types"
)

// unmarshalGenesis decodes and validates raw genesis bytes. Empty input yields the default state.
func unmarshalGenesis(bz json.RawMessage) (*types.GenesisState, error) {
	if len(bz) == 0 {
		return types.DefaultGenesisState(), nil
	}
	var genesis types.GenesisState
	if err := json.Unmarshal(bz, &genesis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s genesis state: %w", types.ModuleName, err)
	}
	if err := genesis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s genesis state: %w", types.ModuleName, err)
	}
	return &genesis, nil
}

// marshalGenesis encodes a genesis state, panicking on failure as genesis export cannot recover.
func marshalGenesis(genesis *types.GenesisState) json.RawMessage {
	bz, err := json.Marshal(genesis)
	if err != nil {
		panic(fmt.Errorf("failed to marshal %s genesis state: %w", types.ModuleName, err))
	}
	return bz
}
