package types

import (
	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/query"
)

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryMarketRequest struct {
	MarketID string `json:"market_id"`
}

type QueryMarketResponse struct {
	Market Market `json:"market"`
}

type QuerySundialRequest struct {
	SundialID string `json:"sundial_id"`
}

type QuerySundialResponse struct {
	Sundial Sundial `json:"sundial"`
	// Matured reports whether the block time has reached the sundial's end timestamp.
	Matured bool `json:"matured"`
}

// QuerySundialsRequest lists sundials, optionally restricted to one market.
type QuerySundialsRequest struct {
	MarketID   string             `json:"market_id,omitempty"`
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QuerySundialsResponse struct {
	Sundials   []Sundial           `json:"sundials"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

type QuerySundialCollateralRequest struct {
	CollateralID string `json:"collateral_id"`
}

type QuerySundialCollateralResponse struct {
	Collateral SundialCollateral `json:"collateral"`
	// Fresh reports whether the collateral can be used by dependent operations in the current slot.
	Fresh bool `json:"fresh"`
}

type QuerySundialProfileRequest struct {
	Owner    string `json:"owner"`
	MarketID string `json:"market_id"`
}

type QuerySundialProfileResponse struct {
	Profile SundialProfile `json:"profile"`
}

type QueryProfileHealthRequest struct {
	Owner    string `json:"owner"`
	MarketID string `json:"market_id"`
}

// QueryProfileHealthResponse is computed from the values stored at the last profile refresh.
type QueryProfileHealthResponse struct {
	Health          ProfileHealth `json:"health"`
	CanBorrow       bool          `json:"can_borrow"`
	Liquidatable    bool          `json:"liquidatable"`
	LastUpdatedSlot int64         `json:"last_updated_slot"`
}

type QueryYieldPositionRequest struct {
	SundialID string `json:"sundial_id"`
	Owner     string `json:"owner"`
}

type QueryYieldPositionResponse struct {
	Position YieldPosition `json:"position"`
	// EstimatedPayout is what redeeming the whole position would pay now. Zero before the reserve is redeemed.
	EstimatedPayout math.Int `json:"estimated_payout"`
}
