package types

import "context"

// MsgServer is the set of state transitions exposed by the module.
type MsgServer interface {
	CreateMarket(context.Context, *MsgCreateMarketRequest) (*MsgCreateMarketResponse, error)
	CreateSundial(context.Context, *MsgCreateSundialRequest) (*MsgCreateSundialResponse, error)
	MintPrincipalAndYield(context.Context, *MsgMintPrincipalAndYieldRequest) (*MsgMintPrincipalAndYieldResponse, error)
	RedeemReserve(context.Context, *MsgRedeemReserveRequest) (*MsgRedeemReserveResponse, error)
	RedeemPrincipal(context.Context, *MsgRedeemPrincipalRequest) (*MsgRedeemPrincipalResponse, error)
	RedeemYield(context.Context, *MsgRedeemYieldRequest) (*MsgRedeemYieldResponse, error)
	TransferYieldPosition(context.Context, *MsgTransferYieldPositionRequest) (*MsgTransferYieldPositionResponse, error)
	CreateSundialCollateral(context.Context, *MsgCreateSundialCollateralRequest) (*MsgCreateSundialCollateralResponse, error)
	RefreshSundialCollateral(context.Context, *MsgRefreshSundialCollateralRequest) (*MsgRefreshSundialCollateralResponse, error)
	ChangeSundialCollateralConfig(context.Context, *MsgChangeSundialCollateralConfigRequest) (*MsgChangeSundialCollateralConfigResponse, error)
	CreateSundialProfile(context.Context, *MsgCreateSundialProfileRequest) (*MsgCreateSundialProfileResponse, error)
	RefreshSundialProfile(context.Context, *MsgRefreshSundialProfileRequest) (*MsgRefreshSundialProfileResponse, error)
	DepositCollateral(context.Context, *MsgDepositCollateralRequest) (*MsgDepositCollateralResponse, error)
	WithdrawCollateral(context.Context, *MsgWithdrawCollateralRequest) (*MsgWithdrawCollateralResponse, error)
	MintWithCollateral(context.Context, *MsgMintWithCollateralRequest) (*MsgMintWithCollateralResponse, error)
	RepayLoan(context.Context, *MsgRepayLoanRequest) (*MsgRepayLoanResponse, error)
	Liquidate(context.Context, *MsgLiquidateRequest) (*MsgLiquidateResponse, error)
	UpdateParams(context.Context, *MsgUpdateParamsRequest) (*MsgUpdateParamsResponse, error)
}

// QueryServer is the set of read-only queries exposed by the module.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Market(context.Context, *QueryMarketRequest) (*QueryMarketResponse, error)
	Sundial(context.Context, *QuerySundialRequest) (*QuerySundialResponse, error)
	Sundials(context.Context, *QuerySundialsRequest) (*QuerySundialsResponse, error)
	SundialCollateral(context.Context, *QuerySundialCollateralRequest) (*QuerySundialCollateralResponse, error)
	SundialProfile(context.Context, *QuerySundialProfileRequest) (*QuerySundialProfileResponse, error)
	ProfileHealth(context.Context, *QueryProfileHealthRequest) (*QueryProfileHealthResponse, error)
	YieldPosition(context.Context, *QueryYieldPositionRequest) (*QueryYieldPositionResponse, error)
}
