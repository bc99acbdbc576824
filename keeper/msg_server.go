package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
)

var _ types.MsgServer = &msgServer{}

type msgServer struct {
	*Keeper
}

func NewMsgServer(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// CreateMarket registers a new market.
func (k msgServer) CreateMarket(goCtx context.Context, msg *types.MsgCreateMarketRequest) (*types.MsgCreateMarketResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	err = k.atomically(ctx, "create_market", func(ctx sdk.Context) error {
		_, err := k.Keeper.CreateMarket(ctx, owner, msg.MarketID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateMarketResponse{}, nil
}

// CreateSundial creates a sundial in a market.
func (k msgServer) CreateSundial(goCtx context.Context, msg *types.MsgCreateSundialRequest) (*types.MsgCreateSundialResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	var s types.Sundial
	err := k.atomically(ctx, "create_sundial", func(ctx sdk.Context) (err error) {
		s, err = k.Keeper.CreateSundial(ctx, *msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateSundialResponse{SundialID: s.ID}, nil
}

// MintPrincipalAndYield deposits liquidity and mints principal and yield tokens.
func (k msgServer) MintPrincipalAndYield(goCtx context.Context, msg *types.MsgMintPrincipalAndYieldRequest) (*types.MsgMintPrincipalAndYieldResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	resp := &types.MsgMintPrincipalAndYieldResponse{}
	err = k.atomically(ctx, "mint_principal_and_yield", func(ctx sdk.Context) (err error) {
		resp.Principal, resp.Yield, resp.Fee, err = k.Keeper.MintPrincipalAndYield(ctx, owner, msg.SundialID, msg.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RedeemReserve redeems a matured sundial's reserve receipts. Anyone may call it.
func (k msgServer) RedeemReserve(goCtx context.Context, msg *types.MsgRedeemReserveRequest) (*types.MsgRedeemReserveResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	var s types.Sundial
	err := k.atomically(ctx, "redeem_reserve", func(ctx sdk.Context) (err error) {
		s, err = k.Keeper.RedeemReserve(ctx, msg.SundialID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgRedeemReserveResponse{FinalLiquidity: s.FinalLiquidity, TotalYieldAccrued: s.TotalYieldAccrued}, nil
}

// RedeemPrincipal burns principal tokens for liquidity.
func (k msgServer) RedeemPrincipal(goCtx context.Context, msg *types.MsgRedeemPrincipalRequest) (*types.MsgRedeemPrincipalResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	resp := &types.MsgRedeemPrincipalResponse{}
	err = k.atomically(ctx, "redeem_principal", func(ctx sdk.Context) (err error) {
		resp.Payout, err = k.Keeper.RedeemPrincipal(ctx, owner, msg.SundialID, msg.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RedeemYield burns yield tokens for their share of accrued yield.
func (k msgServer) RedeemYield(goCtx context.Context, msg *types.MsgRedeemYieldRequest) (*types.MsgRedeemYieldResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	resp := &types.MsgRedeemYieldResponse{}
	err = k.atomically(ctx, "redeem_yield", func(ctx sdk.Context) (err error) {
		resp.Payout, err = k.Keeper.RedeemYield(ctx, owner, msg.SundialID, msg.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// TransferYieldPosition moves yield tokens and their weight to another account.
func (k msgServer) TransferYieldPosition(goCtx context.Context, msg *types.MsgTransferYieldPositionRequest) (*types.MsgTransferYieldPositionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	recipient, err := k.parseAddress("recipient", msg.Recipient)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	err = k.atomically(ctx, "transfer_yield_position", func(ctx sdk.Context) error {
		return k.Keeper.TransferYieldPosition(ctx, owner, recipient, msg.SundialID, msg.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgTransferYieldPositionResponse{}, nil
}

// CreateSundialCollateral registers a collateral in a market.
func (k msgServer) CreateSundialCollateral(goCtx context.Context, msg *types.MsgCreateSundialCollateralRequest) (*types.MsgCreateSundialCollateralResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	var c types.SundialCollateral
	err := k.atomically(ctx, "create_collateral", func(ctx sdk.Context) (err error) {
		c, err = k.Keeper.CreateSundialCollateral(ctx, *msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateSundialCollateralResponse{CollateralID: c.ID}, nil
}

// RefreshSundialCollateral reprices a collateral at the current slot. Anyone may call it.
func (k msgServer) RefreshSundialCollateral(goCtx context.Context, msg *types.MsgRefreshSundialCollateralRequest) (*types.MsgRefreshSundialCollateralResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	var c types.SundialCollateral
	err := k.atomically(ctx, "refresh_collateral", func(ctx sdk.Context) (err error) {
		c, err = k.Keeper.RefreshSundialCollateral(ctx, msg.CollateralID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgRefreshSundialCollateralResponse{LastPrice: c.LastPrice.String()}, nil
}

// ChangeSundialCollateralConfig replaces a collateral's risk parameters.
func (k msgServer) ChangeSundialCollateralConfig(goCtx context.Context, msg *types.MsgChangeSundialCollateralConfigRequest) (*types.MsgChangeSundialCollateralConfigResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	var c types.SundialCollateral
	err := k.atomically(ctx, "change_collateral_config", func(ctx sdk.Context) (err error) {
		c, err = k.Keeper.ChangeSundialCollateralConfig(ctx, msg.Authority, msg.CollateralID, msg.Config)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgChangeSundialCollateralConfigResponse{ConfigVersion: c.ConfigVersion}, nil
}

// CreateSundialProfile opens a borrowing profile.
func (k msgServer) CreateSundialProfile(goCtx context.Context, msg *types.MsgCreateSundialProfileRequest) (*types.MsgCreateSundialProfileResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	err = k.atomically(ctx, "create_profile", func(ctx sdk.Context) error {
		_, err := k.Keeper.CreateSundialProfile(ctx, owner, msg.MarketID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateSundialProfileResponse{}, nil
}

// RefreshSundialProfile revalues a profile at the current slot. Anyone may call it.
func (k msgServer) RefreshSundialProfile(goCtx context.Context, msg *types.MsgRefreshSundialProfileRequest) (*types.MsgRefreshSundialProfileResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	resp := &types.MsgRefreshSundialProfileResponse{}
	err = k.atomically(ctx, "refresh_profile", func(ctx sdk.Context) (err error) {
		resp.Health, err = k.Keeper.RefreshSundialProfile(ctx, owner, msg.MarketID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// DepositCollateral deposits collateral into a profile.
func (k msgServer) DepositCollateral(goCtx context.Context, msg *types.MsgDepositCollateralRequest) (*types.MsgDepositCollateralResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	err = k.atomically(ctx, "deposit_collateral", func(ctx sdk.Context) error {
		return k.Keeper.DepositCollateral(ctx, owner, msg.MarketID, msg.CollateralID, msg.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgDepositCollateralResponse{}, nil
}

// WithdrawCollateral withdraws collateral from a profile.
func (k msgServer) WithdrawCollateral(goCtx context.Context, msg *types.MsgWithdrawCollateralRequest) (*types.MsgWithdrawCollateralResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	err = k.atomically(ctx, "withdraw_collateral", func(ctx sdk.Context) error {
		return k.Keeper.WithdrawCollateral(ctx, owner, msg.MarketID, msg.CollateralID, msg.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawCollateralResponse{}, nil
}

// MintWithCollateral borrows principal against a profile.
func (k msgServer) MintWithCollateral(goCtx context.Context, msg *types.MsgMintWithCollateralRequest) (*types.MsgMintWithCollateralResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	resp := &types.MsgMintWithCollateralResponse{}
	err = k.atomically(ctx, "mint_with_collateral", func(ctx sdk.Context) (err error) {
		resp.Principal, resp.Fee, err = k.Keeper.MintWithCollateral(ctx, owner, msg.MarketID, msg.SundialID, msg.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RepayLoan repays a profile's loan.
func (k msgServer) RepayLoan(goCtx context.Context, msg *types.MsgRepayLoanRequest) (*types.MsgRepayLoanResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	owner, err := k.parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	err = k.atomically(ctx, "repay_loan", func(ctx sdk.Context) error {
		_, err := k.Keeper.RepayLoan(ctx, owner, msg.MarketID, msg.SundialID, msg.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgRepayLoanResponse{}, nil
}

// Liquidate repays an unhealthy profile's loan in exchange for its collateral.
func (k msgServer) Liquidate(goCtx context.Context, msg *types.MsgLiquidateRequest) (*types.MsgLiquidateResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	liquidator, err := k.parseAddress("liquidator", msg.Liquidator)
	if err != nil {
		return nil, err
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	resp := &types.MsgLiquidateResponse{}
	err = k.atomically(ctx, "liquidate", func(ctx sdk.Context) (err error) {
		resp.Repaid, resp.Seized, err = k.Keeper.Liquidate(ctx, liquidator, *msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateParams updates the params for the module.
func (k msgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParamsRequest) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	if !k.isAuthority(msg.Authority) {
		return nil, errorsmod.Wrapf(types.ErrUnauthorized, "expected authority, got %s", msg.Authority)
	}
	ctx := sdk.UnwrapSDKContext(goCtx)
	err := k.atomically(ctx, "update_params", func(ctx sdk.Context) error {
		return k.Params.Set(ctx, msg.Params)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}

// dispatch routes a batched message to its handler.
func (k msgServer) dispatch(ctx sdk.Context, msg types.Msg) (any, error) {
	switch m := msg.(type) {
	case types.MsgCreateMarketRequest:
		return k.CreateMarket(ctx, &m)
	case types.MsgCreateSundialRequest:
		return k.CreateSundial(ctx, &m)
	case types.MsgMintPrincipalAndYieldRequest:
		return k.MintPrincipalAndYield(ctx, &m)
	case types.MsgRedeemReserveRequest:
		return k.RedeemReserve(ctx, &m)
	case types.MsgRedeemPrincipalRequest:
		return k.RedeemPrincipal(ctx, &m)
	case types.MsgRedeemYieldRequest:
		return k.RedeemYield(ctx, &m)
	case types.MsgTransferYieldPositionRequest:
		return k.TransferYieldPosition(ctx, &m)
	case types.MsgCreateSundialCollateralRequest:
		return k.CreateSundialCollateral(ctx, &m)
	case types.MsgRefreshSundialCollateralRequest:
		return k.RefreshSundialCollateral(ctx, &m)
	case types.MsgChangeSundialCollateralConfigRequest:
		return k.ChangeSundialCollateralConfig(ctx, &m)
	case types.MsgCreateSundialProfileRequest:
		return k.CreateSundialProfile(ctx, &m)
	case types.MsgRefreshSundialProfileRequest:
		return k.RefreshSundialProfile(ctx, &m)
	case types.MsgDepositCollateralRequest:
		return k.DepositCollateral(ctx, &m)
	case types.MsgWithdrawCollateralRequest:
		return k.WithdrawCollateral(ctx, &m)
	case types.MsgMintWithCollateralRequest:
		return k.MintWithCollateral(ctx, &m)
	case types.MsgRepayLoanRequest:
		return k.RepayLoan(ctx, &m)
	case types.MsgLiquidateRequest:
		return k.Liquidate(ctx, &m)
	case types.MsgUpdateParamsRequest:
		return k.UpdateParams(ctx, &m)
	default:
		return nil, errorsmod.Wrapf(types.ErrInvalidRequest, "unsupported message %T", msg)
	}
}

// parseAddress decodes a bech32 address field of a message.
func (k msgServer) parseAddress(field, addr string) (sdk.AccAddress, error) {
	bz, err := k.addressCodec.StringToBytes(addr)
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrInvalidRequest, fmt.Sprintf("invalid %s address %q: %s", field, addr, err))
	}
	return bz, nil
}
