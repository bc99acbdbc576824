package simulation

import (
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/provlabs/sundial/types"
)

const (
	MaxNumMarkets          = 3
	MaxSundialsPerMarket   = 4
	MaxDurationSeconds     = 90 * 24 * 60 * 60
	MaxFeeBips             = 500
	ChanceOfLiquidityCap   = 2 // 1 in X
	MaxLiquidityCap        = 1_000_000_000_000
	ChanceOfCollateral     = 2 // 1 in X
	MaxOracleStalenessLags = 5
)

// RandomizedGenState generates a random GenesisState for the sundial module
func RandomizedGenState(simState *module.SimulationState) {
	params := types.Params{
		MaxOracleStalenessSlots: uint64(simState.Rand.Intn(MaxOracleStalenessLags)),
		MaxCollateralEntries:    uint32(simState.Rand.Intn(int(types.DefaultMaxCollateralEntries)) + 1),
		MaxLoanEntries:          uint32(simState.Rand.Intn(int(types.DefaultMaxLoanEntries)) + 1),
	}
	markets := randomMarkets(simState)

	sundialGenesis := types.GenesisState{
		Params:      params,
		Markets:     markets,
		Sundials:    randomSundials(simState, markets),
		Collaterals: randomCollaterals(simState, markets),
	}

	bz, err := json.MarshalIndent(&sundialGenesis, "", " ")
	if err != nil {
		panic(err)
	}
	fmt.Printf("Selected randomly generated sundial parameters: %s\n", bz)

	simState.GenState[types.ModuleName] = bz
}

func randomMarkets(simState *module.SimulationState) []types.Market {
	admin := simState.Accounts[0].Address.String()
	var markets []types.Market
	for i := 0; i < simState.Rand.Intn(MaxNumMarkets)+1; i++ {
		markets = append(markets, types.Market{ID: fmt.Sprintf("market-%d", i), Owner: admin})
	}
	return markets
}

func randomSundials(simState *module.SimulationState, markets []types.Market) []types.Sundial {
	now := simState.GenTimestamp.Unix()
	var sundials []types.Sundial
	for _, m := range markets {
		liquidityDenom := randomDenom(simState.Rand, "u")
		reserveID := fmt.Sprintf("%s-%s", m.ID, liquidityDenom)
		for j := 0; j < simState.Rand.Intn(MaxSundialsPerMarket); j++ {
			// Distinct maturities keep sundial ids unique within a market.
			end := now + int64(j+1)*MaxDurationSeconds/MaxSundialsPerMarket + randomInt63(simState.Rand, 3600)
			liquidityCap := sdkmath.ZeroInt()
			if simState.Rand.Intn(ChanceOfLiquidityCap) == 0 {
				liquidityCap = sdkmath.NewInt(randomInt63(simState.Rand, MaxLiquidityCap) + 1)
			}
			sundials = append(sundials, types.NewSundial(
				m.ID,
				reserveID,
				"oracle-"+liquidityDenom,
				liquidityDenom,
				"reserve/"+reserveID+"/receipt",
				now,
				end,
				randomBips(simState.Rand, MaxFeeBips),
				randomBips(simState.Rand, MaxFeeBips),
				liquidityCap,
			))
		}
	}
	return sundials
}

func randomCollaterals(simState *module.SimulationState, markets []types.Market) []types.SundialCollateral {
	var collaterals []types.SundialCollateral
	for _, m := range markets {
		if simState.Rand.Intn(ChanceOfCollateral) != 0 {
			continue
		}
		denom := randomDenom(simState.Rand, "u")
		reserveID := fmt.Sprintf("%s-%s", m.ID, denom)
		ltv := uint32(simState.Rand.Intn(80) + 1)
		threshold := ltv + uint32(simState.Rand.Intn(int(100-ltv))) + 1
		if threshold > 100 {
			threshold = 100
		}
		c := types.NewSundialCollateral(m.ID, reserveID, "oracle-"+denom, "reserve/"+reserveID+"/receipt", types.CollateralConfig{
			LTV:                  ltv,
			LiquidationThreshold: threshold,
			LiquidationPenalty:   uint32(simState.Rand.Intn(20)),
			LiquidityCap:         sdkmath.ZeroInt(),
		})
		c.Decimals = uint32(simState.Rand.Intn(19))
		collaterals = append(collaterals, c)
	}
	return collaterals
}
