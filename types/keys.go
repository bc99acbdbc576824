package types

import (
	"encoding/hex"
	fmt "fmt"
	"strconv"
	"strings"

	"cosmossdk.io/collections"
	"github.com/cometbft/cometbft/crypto"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "sundial"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// FeeCollectorName is the module account that receives lending and borrowing fees.
	FeeCollectorName = "sundial_fee_collector"

	// GovModuleName duplicates the gov module's name to avoid a dependency with x/gov.
	// It should be synced with the gov module's name if it is ever changed.
	// See: https://github.com/cosmos/cosmos-sdk/blob/v0.52.0-beta.2/x/gov/types/keys.go#L9
	GovModuleName = "gov"
)

var (
	// ParamsKeyPrefix is the prefix to retrieve all Params
	ParamsKeyPrefix = collections.NewPrefix(0)
	// ParamsName is a human-readable name for the params collection.
	ParamsName = "params"
	// MarketsKeyPrefix is the prefix to retrieve all Markets
	MarketsKeyPrefix = collections.NewPrefix(1)
	// MarketsName is a human-readable name for the markets collection.
	MarketsName = "markets"
	// SundialsKeyPrefix is the prefix to retrieve all Sundials
	SundialsKeyPrefix = collections.NewPrefix(2)
	// SundialsName is a human-readable name for the sundials collection.
	SundialsName = "sundials"
	// SundialsByMarketIndexPrefix is the prefix of the market index over Sundials.
	SundialsByMarketIndexPrefix = collections.NewPrefix(3)
	// SundialsByMarketIndexName is a human-readable name for the market index over Sundials.
	SundialsByMarketIndexName = "sundials_by_market"
	// CollateralsKeyPrefix is the prefix to retrieve all SundialCollaterals
	CollateralsKeyPrefix = collections.NewPrefix(4)
	// CollateralsName is a human-readable name for the collaterals collection.
	CollateralsName = "collaterals"
	// ProfilesKeyPrefix is the prefix to retrieve all SundialProfiles
	ProfilesKeyPrefix = collections.NewPrefix(5)
	// ProfilesName is a human-readable name for the profiles collection.
	ProfilesName = "profiles"
	// YieldPositionsKeyPrefix is the prefix to retrieve all YieldPositions
	YieldPositionsKeyPrefix = collections.NewPrefix(6)
	// YieldPositionsName is a human-readable name for the yield positions collection.
	YieldPositionsName = "yield_positions"
	// MaturityQueuePrefix is the prefix of the Sundial maturity queue.
	MaturityQueuePrefix = collections.NewPrefix(7)
	// MaturityQueueName is a human-readable name for the maturity queue.
	MaturityQueueName = "maturity_queue"
)

// SundialID derives the identifier of the Sundial for an asset and maturity within a market.
func SundialID(marketID, liquidityDenom string, endTimestamp int64) string {
	return deriveID("sundial", marketID, liquidityDenom, strconv.FormatInt(endTimestamp, 10))
}

// CollateralID derives the identifier of the SundialCollateral for a collateral denom within a market.
func CollateralID(marketID, collateralDenom string) string {
	return deriveID("collateral", marketID, collateralDenom)
}

func deriveID(parts ...string) string {
	return hex.EncodeToString(crypto.AddressHash([]byte(strings.Join(parts, "/"))))
}

// GetSundialAddress returns the account holding a Sundial's reserve receipts and pooled liquidity.
func GetSundialAddress(sundialID string) sdk.AccAddress {
	return sdk.AccAddress(crypto.AddressHash([]byte(fmt.Sprintf("%s/sundial/%s", ModuleName, sundialID))))
}

// GetCollateralVaultAddress returns the account holding the deposits of a SundialCollateral.
func GetCollateralVaultAddress(collateralID string) sdk.AccAddress {
	return sdk.AccAddress(crypto.AddressHash([]byte(fmt.Sprintf("%s/collateral/%s", ModuleName, collateralID))))
}

// PrincipalDenom returns the denom of a Sundial's principal token.
func PrincipalDenom(sundialID string) string {
	return fmt.Sprintf("%s/%s/principal", ModuleName, sundialID)
}

// YieldDenom returns the denom of a Sundial's yield token.
func YieldDenom(sundialID string) string {
	return fmt.Sprintf("%s/%s/yield", ModuleName, sundialID)
}
