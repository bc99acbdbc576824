package keeper_test

import (
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
	"github.com/provlabs/sundial/utils"
)

func (s *TestSuite) borrow(owner sdk.AccAddress, sundialID string, amount int64) {
	_, err := s.ms.MintWithCollateral(s.ctx, &types.MsgMintWithCollateralRequest{
		Owner:     owner.String(),
		MarketID:  testMarketID,
		SundialID: sundialID,
		Amount:    sdkmath.NewInt(amount),
	})
	s.Require().NoError(err, "MintWithCollateral(%d)", amount)
}

func (s *TestSuite) assertWad(expected string, actual utils.Wad, msg string) {
	s.T().Helper()
	s.Assert().Equal(utils.MustParseWad(expected).String(), actual.String(), msg)
}

func (s *TestSuite) TestMsgServer_CreateSundialProfile() {
	s.setupMarket()
	owner := s.CreateAndFundAccount()

	testDef := msgServerTestDef[types.MsgCreateSundialProfileRequest, types.MsgCreateSundialProfileResponse]{
		endpointName: "CreateSundialProfile",
		endpoint:     s.ms.CreateSundialProfile,
		postCheck: func(msg *types.MsgCreateSundialProfileRequest, _ *types.MsgCreateSundialProfileResponse) {
			p, err := s.k.GetProfile(s.ctx, testMarketID, owner)
			s.Require().NoError(err, "GetProfile")
			s.Assert().Equal(owner.String(), p.Owner, "profile owner")
			s.Assert().Empty(p.Collaterals, "collateral entries")
			s.Assert().Empty(p.Loans, "loan entries")
		},
	}

	tests := []msgServerTestCase[types.MsgCreateSundialProfileRequest]{
		{
			name:           "happy path",
			msg:            types.MsgCreateSundialProfileRequest{Owner: owner.String(), MarketID: testMarketID},
			expectedEvents: []string{types.EventTypeProfileCreated},
		},
		{
			name:               "unknown market",
			msg:                types.MsgCreateSundialProfileRequest{Owner: owner.String(), MarketID: "market-b"},
			expectedErrSubstrs: []string{"market-b", "not found"},
		},
		{
			name:               "invalid owner",
			msg:                types.MsgCreateSundialProfileRequest{Owner: "not-an-address", MarketID: testMarketID},
			expectedErrSubstrs: []string{"invalid owner address"},
		},
		{
			name: "opened twice",
			setup: func() {
				_, err := s.ms.CreateSundialProfile(s.ctx, &types.MsgCreateSundialProfileRequest{Owner: owner.String(), MarketID: testMarketID})
				s.Require().NoError(err, "first CreateSundialProfile")
			},
			msg:                types.MsgCreateSundialProfileRequest{Owner: owner.String(), MarketID: testMarketID},
			expectedErrSubstrs: []string{"already exists"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			runMsgServerTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestRefreshSundialProfile_Health() {
	owner, _, _ := s.setupBorrower(1_000*unit, 1, 10)

	health := s.refreshProfile(owner)
	s.assertWad("10000", health.CollateralValue, "1000 tokens at 10")
	s.assertWad("5000", health.BorrowCapacity, "ltv 50")
	s.assertWad("8000", health.LiquidationCapacity, "threshold 80")
	s.assertWad("0", health.LoanValue, "no loans")
	s.Assert().True(health.CanBorrow(), "empty profile can borrow")
	s.Assert().False(health.IsLiquidatable(), "empty profile is not liquidatable")
}

func (s *TestSuite) TestRefreshSundialProfile_RequiresFreshCollateral() {
	owner, _, c := s.setupBorrower(1_000*unit, 1, 10)

	s.advance(time.Minute, 1, 10)
	_, err := s.ms.RefreshSundialProfile(s.ctx, &types.MsgRefreshSundialProfileRequest{Owner: owner.String(), MarketID: testMarketID})
	s.Require().ErrorIs(err, types.ErrStaleSource, "profile refresh before its collateral")

	p, err := s.k.GetProfile(s.ctx, testMarketID, owner)
	s.Require().NoError(err, "GetProfile")
	s.Assert().Equal(s.ctx.BlockHeight()-1, p.LastUpdatedSlot, "failed refresh keeps the previous slot")

	s.refreshCollateral(c.ID)
	s.refreshProfile(owner)
}

func (s *TestSuite) TestMsgServer_MintWithCollateral() {
	owner, sundial, _ := s.setupBorrower(1_000*unit, 1, 10)
	other := s.CreateAndFundAccount()

	testDef := msgServerTestDef[types.MsgMintWithCollateralRequest, types.MsgMintWithCollateralResponse]{
		endpointName: "MintWithCollateral",
		endpoint:     s.ms.MintWithCollateral,
		postCheck: func(msg *types.MsgMintWithCollateralRequest, resp *types.MsgMintWithCollateralResponse) {
			s.Assert().Equal(sdk.NewInt64Coin(sundial.PrincipalDenom, 4_000*unit).String(), resp.Principal.String(), "borrowed principal")
			s.assertBalance(owner, sundial.PrincipalDenom, sdkmath.NewInt(4_000*unit))

			p, health, err := s.k.GetProfileHealth(s.ctx, testMarketID, owner)
			s.Require().NoError(err, "GetProfileHealth")
			s.Require().Len(p.Loans, 1, "loan entries")
			s.Assert().Equal(sundial.EndTimestamp, p.Loans[0].MaturityTimestamp, "loan maturity")
			s.Assert().Equal(liquidityOracle, p.Loans[0].OracleID, "loan oracle")
			s.assertWad("4000", health.LoanValue, "loan value")

			updated, err := s.k.GetSundial(s.ctx, sundial.ID)
			s.Require().NoError(err, "GetSundial")
			s.Assert().Equal(sdkmath.NewInt(4_000*unit).String(), updated.TotalLoanPrincipalIssued.String(), "loan principal issued")
			s.Assert().True(updated.TotalYieldIssued.IsZero(), "borrowing mints no yield")
		},
	}

	tests := []msgServerTestCase[types.MsgMintWithCollateralRequest]{
		{
			name:           "within borrow capacity",
			msg:            types.MsgMintWithCollateralRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(4_000 * unit)},
			expectedEvents: []string{types.EventTypeLoanMinted},
		},
		{
			name:               "above borrow capacity",
			msg:                types.MsgMintWithCollateralRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(6_000 * unit)},
			expectedErrSubstrs: []string{"insufficient collateral"},
		},
		{
			name:               "without a profile",
			msg:                types.MsgMintWithCollateralRequest{Owner: other.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(unit)},
			expectedErrSubstrs: []string{"profile of", "not found"},
		},
		{
			name:               "unknown sundial",
			msg:                types.MsgMintWithCollateralRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: "missing", Amount: sdkmath.NewInt(unit)},
			expectedErrSubstrs: []string{"not found"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			runMsgServerTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestMintWithCollateral_RequiresRefreshInTheSameSlot() {
	owner, sundial, c := s.setupBorrower(1_000*unit, 1, 10)

	s.advance(time.Minute, 1, 10)
	_, err := s.ms.MintWithCollateral(s.ctx, &types.MsgMintWithCollateralRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(unit)})
	s.Require().ErrorIs(err, types.ErrStaleSource, "borrowing against last slot's valuation")

	s.refreshCollateral(c.ID)
	_, err = s.ms.MintWithCollateral(s.ctx, &types.MsgMintWithCollateralRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(unit)})
	s.Require().ErrorIs(err, types.ErrStaleSource, "collateral refreshed but not the profile")

	s.refreshProfile(owner)
	s.borrow(owner, sundial.ID, unit)
}

func (s *TestSuite) TestMintWithCollateral_ConfigChangeInvalidatesValuation() {
	owner, sundial, c := s.setupBorrower(1_000*unit, 1, 10)
	s.borrow(owner, sundial.ID, 2_000*unit)

	_, err := s.ms.ChangeSundialCollateralConfig(s.ctx, &types.MsgChangeSundialCollateralConfigRequest{
		Authority:    s.adminAddr.String(),
		CollateralID: c.ID,
		Config:       types.CollateralConfig{LTV: 30, LiquidationThreshold: 80, LiquidationPenalty: 10, LiquidityCap: sdkmath.ZeroInt()},
	})
	s.Require().NoError(err, "ChangeSundialCollateralConfig")

	_, err = s.ms.MintWithCollateral(s.ctx, &types.MsgMintWithCollateralRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(unit)})
	s.Require().ErrorIs(err, types.ErrStaleSource, "borrowing under the old config")
	_, err = s.ms.RefreshSundialProfile(s.ctx, &types.MsgRefreshSundialProfileRequest{Owner: owner.String(), MarketID: testMarketID})
	s.Require().ErrorIs(err, types.ErrStaleSource, "profile refresh from a reconfigured collateral")

	s.refreshCollateral(c.ID)
	health := s.refreshProfile(owner)
	s.assertWad("3000", health.BorrowCapacity, "ltv 30 of 10000")

	_, err = s.ms.MintWithCollateral(s.ctx, &types.MsgMintWithCollateralRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(1_001 * unit)})
	s.Require().ErrorIs(err, types.ErrInsufficientCollateral, "borrowing past the reduced capacity")
	s.borrow(owner, sundial.ID, 1_000*unit)
}

func (s *TestSuite) TestWithdrawCollateral() {
	owner, sundial, c := s.setupBorrower(1_000*unit, 1, 10)

	s.advance(time.Minute, 1, 10)
	_, err := s.ms.WithdrawCollateral(s.ctx, &types.MsgWithdrawCollateralRequest{Owner: owner.String(), MarketID: testMarketID, CollateralID: c.ID, Amount: sdkmath.NewInt(100 * unit)})
	s.Require().NoError(err, "withdrawing without loans needs no refresh")
	s.assertBalance(owner, c.CollateralDenom, sdkmath.NewInt(100*unit))

	s.refreshCollateral(c.ID)
	s.refreshProfile(owner)
	s.borrow(owner, sundial.ID, 4_000*unit)

	// 900 tokens at 10 with ltv 50 support 4500 of loans.
	_, err = s.ms.WithdrawCollateral(s.ctx, &types.MsgWithdrawCollateralRequest{Owner: owner.String(), MarketID: testMarketID, CollateralID: c.ID, Amount: sdkmath.NewInt(101 * unit)})
	s.Require().ErrorIs(err, types.ErrInsufficientCollateral, "withdrawing below the loans")
	_, err = s.ms.WithdrawCollateral(s.ctx, &types.MsgWithdrawCollateralRequest{Owner: owner.String(), MarketID: testMarketID, CollateralID: c.ID, Amount: sdkmath.NewInt(100 * unit)})
	s.Require().NoError(err, "withdrawing down to the loans")
	s.assertBalance(owner, c.CollateralDenom, sdkmath.NewInt(200*unit))

	s.advance(time.Minute, 1, 10)
	_, err = s.ms.WithdrawCollateral(s.ctx, &types.MsgWithdrawCollateralRequest{Owner: owner.String(), MarketID: testMarketID, CollateralID: c.ID, Amount: sdkmath.NewInt(unit)})
	s.Require().ErrorIs(err, types.ErrStaleSource, "withdrawing with loans from a stale profile")

	_, err = s.ms.WithdrawCollateral(s.ctx, &types.MsgWithdrawCollateralRequest{Owner: owner.String(), MarketID: testMarketID, CollateralID: c.ID, Amount: sdkmath.NewInt(900 * unit)})
	s.Require().ErrorIs(err, types.ErrInvalidRequest, "withdrawing more than deposited")
}

func (s *TestSuite) TestRepayLoan() {
	owner, sundial, _ := s.setupBorrower(1_000*unit, 1, 10)
	s.borrow(owner, sundial.ID, 4_000*unit)
	s.Require().NoError(s.simApp.FundAccount(s.ctx, owner, sdk.NewCoins(sdk.NewInt64Coin(liquidityDenom, 5_000*unit))), "FundAccount")

	_, err := s.ms.RepayLoan(s.ctx, &types.MsgRepayLoanRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(1_000 * unit)})
	s.Require().NoError(err, "partial repay")
	p, health, err := s.k.GetProfileHealth(s.ctx, testMarketID, owner)
	s.Require().NoError(err, "GetProfileHealth")
	s.Require().Len(p.Loans, 1, "loan entries")
	s.Assert().Equal(sdkmath.NewInt(3_000*unit).String(), p.Loans[0].Amount.String(), "outstanding loan")
	s.assertWad("3000", health.LoanValue, "loan value scales with the repayment")

	_, err = s.ms.RepayLoan(s.ctx, &types.MsgRepayLoanRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(10_000 * unit)})
	s.Require().NoError(err, "overpaying repay")
	p, err = s.k.GetProfile(s.ctx, testMarketID, owner)
	s.Require().NoError(err, "GetProfile")
	s.Assert().Empty(p.Loans, "repaid loan is removed")
	s.assertBalance(owner, liquidityDenom, sdkmath.NewInt(1_000*unit))
	s.assertBalance(sundial.Address(), liquidityDenom, sdkmath.NewInt(4_000*unit))

	_, err = s.ms.RepayLoan(s.ctx, &types.MsgRepayLoanRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(unit)})
	s.Require().ErrorIs(err, types.ErrNotFound, "repaying a closed loan")
}

func (s *TestSuite) TestMsgServer_Liquidate() {
	owner, sundial, c := s.setupBorrower(1_000*unit, 1, 10)
	s.borrow(owner, sundial.ID, 4_000*unit)
	liquidator := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 2_000*unit))

	_, err := s.ms.Liquidate(s.ctx, &types.MsgLiquidateRequest{
		Liquidator: liquidator.String(), Owner: owner.String(), MarketID: testMarketID,
		SundialID: sundial.ID, CollateralID: c.ID, RepayAmount: sdkmath.NewInt(1_000 * unit),
	})
	s.Require().ErrorIs(err, types.ErrNotLiquidatable, "healthy profile")

	// At 4 the collateral is worth 4000 against a liquidation capacity of 3200.
	s.advance(time.Minute, 1, 4)
	valid := types.MsgLiquidateRequest{
		Liquidator:   liquidator.String(),
		Owner:        owner.String(),
		MarketID:     testMarketID,
		SundialID:    sundial.ID,
		CollateralID: c.ID,
		RepayAmount:  sdkmath.NewInt(1_000 * unit),
	}
	_, err = s.ms.Liquidate(s.ctx, &valid)
	s.Require().ErrorIs(err, types.ErrStaleSource, "liquidating an unrefreshed profile")

	s.refreshCollateral(c.ID)
	health := s.refreshProfile(owner)
	s.Require().True(health.IsLiquidatable(), "profile is liquidatable after the price drop")

	testDef := msgServerTestDef[types.MsgLiquidateRequest, types.MsgLiquidateResponse]{
		endpointName: "Liquidate",
		endpoint:     s.ms.Liquidate,
		postCheck: func(msg *types.MsgLiquidateRequest, resp *types.MsgLiquidateResponse) {
			// 1000 repaid plus a 10% penalty is 1100 of value, 275 tokens at 4.
			s.Assert().Equal(sdk.NewInt64Coin(liquidityDenom, 1_000*unit).String(), resp.Repaid.String(), "repaid")
			s.Assert().Equal(sdk.NewInt64Coin(c.CollateralDenom, 275*unit).String(), resp.Seized.String(), "seized")
			s.assertBalance(liquidator, c.CollateralDenom, sdkmath.NewInt(275*unit))
			s.assertBalance(liquidator, liquidityDenom, sdkmath.NewInt(1_000*unit))
			s.assertBalance(c.VaultAddress(), c.CollateralDenom, sdkmath.NewInt(725*unit))

			p, health, err := s.k.GetProfileHealth(s.ctx, testMarketID, owner)
			s.Require().NoError(err, "GetProfileHealth")
			s.Assert().Equal(sdkmath.NewInt(3_000*unit).String(), p.Loans[0].Amount.String(), "outstanding loan")
			s.Assert().Equal(sdkmath.NewInt(725*unit).String(), p.Collaterals[0].Amount.String(), "remaining collateral")
			s.assertWad("2900", health.CollateralValue, "725 tokens at 4")
			s.assertWad("3000", health.LoanValue, "loan value")
		},
	}

	wrongCollateral := valid
	wrongCollateral.CollateralID = "missing"

	tests := []msgServerTestCase[types.MsgLiquidateRequest]{
		{
			name:           "seizes collateral with penalty",
			msg:            valid,
			expectedEvents: []string{types.EventTypeLiquidated},
		},
		{
			name:               "collateral not held",
			msg:                wrongCollateral,
			expectedErrSubstrs: []string{"profile holds no collateral"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			runMsgServerTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestLiquidate_MaturedLoan() {
	owner, sundial, c := s.setupBorrower(1_000*unit, 1, 10)
	s.borrow(owner, sundial.ID, 1_000*unit)
	liquidator := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 500*unit))

	s.advance(time.Hour, 1, 10)
	s.refreshCollateral(c.ID)
	health := s.refreshProfile(owner)
	s.Require().True(health.CanBorrow(), "loan is well within capacity")
	s.Require().True(health.HasMaturedLoan, "loan is past maturity")
	s.Require().True(health.IsLiquidatable(), "an overdue loan is liquidatable")

	resp, err := s.ms.Liquidate(s.ctx, &types.MsgLiquidateRequest{
		Liquidator:   liquidator.String(),
		Owner:        owner.String(),
		MarketID:     testMarketID,
		SundialID:    sundial.ID,
		CollateralID: c.ID,
		RepayAmount:  sdkmath.NewInt(500 * unit),
	})
	s.Require().NoError(err, "Liquidate")
	s.Assert().Equal(sdk.NewInt64Coin(c.CollateralDenom, 55*unit).String(), resp.Seized.String(), "550 of value at 10")
}
