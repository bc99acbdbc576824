package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/math"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/provlabs/sundial/types"
	"github.com/provlabs/sundial/utils"
)

var _ types.QueryServer = &queryServer{}

type queryServer struct {
	*Keeper
}

// NewQueryServer creates a new QueryServer for the module.
func NewQueryServer(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

// Params returns the module params.
func (k queryServer) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	params, err := k.GetParams(sdk.UnwrapSDKContext(goCtx))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

// Market returns a market by id.
func (k queryServer) Market(goCtx context.Context, req *types.QueryMarketRequest) (*types.QueryMarketResponse, error) {
	if req == nil || req.MarketID == "" {
		return nil, status.Error(codes.InvalidArgument, "market_id must be provided")
	}
	market, err := k.GetMarket(sdk.UnwrapSDKContext(goCtx), req.MarketID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryMarketResponse{Market: market}, nil
}

// Sundial returns a sundial and whether it has matured.
func (k queryServer) Sundial(goCtx context.Context, req *types.QuerySundialRequest) (*types.QuerySundialResponse, error) {
	if req == nil || req.SundialID == "" {
		return nil, status.Error(codes.InvalidArgument, "sundial_id must be provided")
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	s, err := k.GetSundial(ctx, req.SundialID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QuerySundialResponse{Sundial: s, Matured: s.IsMatured(ctx.BlockTime().Unix())}, nil
}

// Sundials returns a paginated list of sundials, optionally within one market.
func (k queryServer) Sundials(goCtx context.Context, req *types.QuerySundialsRequest) (*types.QuerySundialsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	ctx := sdk.UnwrapSDKContext(goCtx)

	sundials, pageRes, err := query.CollectionFilteredPaginate(
		ctx,
		k.Keeper.Sundials.IndexedMap,
		req.Pagination,
		func(_ string, s types.Sundial) (bool, error) {
			return req.MarketID == "" || s.MarketID == req.MarketID, nil
		},
		func(_ string, s types.Sundial) (types.Sundial, error) {
			return s, nil
		},
	)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if sundials == nil {
		sundials = []types.Sundial{}
	}

	return &types.QuerySundialsResponse{
		Sundials:   sundials,
		Pagination: pageRes,
	}, nil
}

// SundialCollateral returns a collateral and whether it is fresh at the current slot.
func (k queryServer) SundialCollateral(goCtx context.Context, req *types.QuerySundialCollateralRequest) (*types.QuerySundialCollateralResponse, error) {
	if req == nil || req.CollateralID == "" {
		return nil, status.Error(codes.InvalidArgument, "collateral_id must be provided")
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	c, err := k.GetCollateral(ctx, req.CollateralID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QuerySundialCollateralResponse{Collateral: c, Fresh: c.IsFresh(ctx.BlockHeight())}, nil
}

// SundialProfile returns a borrower's profile.
func (k queryServer) SundialProfile(goCtx context.Context, req *types.QuerySundialProfileRequest) (*types.QuerySundialProfileResponse, error) {
	if req == nil || req.Owner == "" || req.MarketID == "" {
		return nil, status.Error(codes.InvalidArgument, "owner and market_id must be provided")
	}
	owner, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid owner: %v", err)
	}
	p, err := k.GetProfile(sdk.UnwrapSDKContext(goCtx), req.MarketID, owner)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QuerySundialProfileResponse{Profile: p}, nil
}

// ProfileHealth returns the health of a profile as of its last refresh.
func (k queryServer) ProfileHealth(goCtx context.Context, req *types.QueryProfileHealthRequest) (*types.QueryProfileHealthResponse, error) {
	if req == nil || req.Owner == "" || req.MarketID == "" {
		return nil, status.Error(codes.InvalidArgument, "owner and market_id must be provided")
	}
	owner, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid owner: %v", err)
	}
	p, health, err := k.GetProfileHealth(sdk.UnwrapSDKContext(goCtx), req.MarketID, owner)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryProfileHealthResponse{
		Health:          health,
		CanBorrow:       health.CanBorrow(),
		Liquidatable:    health.IsLiquidatable(),
		LastUpdatedSlot: p.LastUpdatedSlot,
	}, nil
}

// YieldPosition returns an owner's yield position and what redeeming all of it would pay.
func (k queryServer) YieldPosition(goCtx context.Context, req *types.QueryYieldPositionRequest) (*types.QueryYieldPositionResponse, error) {
	if req == nil || req.SundialID == "" || req.Owner == "" {
		return nil, status.Error(codes.InvalidArgument, "sundial_id and owner must be provided")
	}
	owner, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid owner: %v", err)
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	s, err := k.GetSundial(ctx, req.SundialID)
	if err != nil {
		return nil, toStatus(err)
	}
	pos, err := k.GetYieldPosition(ctx, s.ID, owner)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	estimate := math.ZeroInt()
	if s.ReserveRedeemed {
		estimate, err = utils.CalculateYieldPayout(pos.Weight, s.RemainingYieldWeight, s.RemainingYield)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
	}
	return &types.QueryYieldPositionResponse{Position: pos, EstimatedPayout: estimate}, nil
}

// toStatus maps keeper errors onto grpc status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, collections.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, types.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
