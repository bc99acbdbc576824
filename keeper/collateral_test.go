package keeper_test

import (
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/reserve"
	"github.com/provlabs/sundial/types"
	"github.com/provlabs/sundial/utils"
)

func (s *TestSuite) TestMsgServer_CreateSundialCollateral() {
	s.setupMarket()
	s.simApp.RegisterDenom(s.ctx, collateralAsset, 6)
	_, err := s.simApp.ReserveKeeper.CreateReserve(s.ctx, collateralReserve, collateralAsset, 0)
	s.Require().NoError(err, "CreateReserve(collateral)")
	outsider := s.CreateAndFundAccount()
	receiptDenom := reserve.ReceiptDenomFor(collateralReserve)

	testDef := msgServerTestDef[types.MsgCreateSundialCollateralRequest, types.MsgCreateSundialCollateralResponse]{
		endpointName: "CreateSundialCollateral",
		endpoint:     s.ms.CreateSundialCollateral,
		postCheck: func(msg *types.MsgCreateSundialCollateralRequest, resp *types.MsgCreateSundialCollateralResponse) {
			s.Require().Equal(types.CollateralID(testMarketID, receiptDenom), resp.CollateralID, "collateral id")
			c, err := s.k.GetCollateral(s.ctx, resp.CollateralID)
			s.Require().NoError(err, "GetCollateral")
			s.Assert().Equal(receiptDenom, c.CollateralDenom, "collateral denom is the reserve receipt")
			s.Assert().Equal(uint32(6), c.Decimals, "decimals from receipt metadata")
			s.Assert().Equal(uint64(1), c.ConfigVersion, "initial config version")
			s.Assert().True(c.Stale, "new collateral starts stale")
			s.Assert().False(c.IsFresh(s.ctx.BlockHeight()), "new collateral is not fresh")
		},
	}

	valid := types.MsgCreateSundialCollateralRequest{
		Authority: s.adminAddr.String(),
		MarketID:  testMarketID,
		ReserveID: collateralReserve,
		OracleID:  collateralOracle,
		Config:    defaultCollateralConfig(),
	}
	notAdmin := valid
	notAdmin.Authority = outsider.String()
	badConfig := valid
	badConfig.Config.LTV = 80
	unknownReserve := valid
	unknownReserve.ReserveID = "missing-reserve"

	tests := []msgServerTestCase[types.MsgCreateSundialCollateralRequest]{
		{
			name:           "happy path",
			msg:            valid,
			expectedEvents: []string{types.EventTypeCollateralCreated},
		},
		{
			name:               "not the market owner",
			msg:                notAdmin,
			expectedErrSubstrs: []string{"does not administer market", "unauthorized"},
		},
		{
			name:               "ltv at the liquidation threshold",
			msg:                badConfig,
			expectedErrSubstrs: []string{"must be positive and below liquidation threshold"},
		},
		{
			name:               "unknown reserve",
			msg:                unknownReserve,
			expectedErrSubstrs: []string{"failed to resolve reserve"},
		},
		{
			name: "registered twice",
			setup: func() {
				_, err := s.ms.CreateSundialCollateral(s.ctx, &valid)
				s.Require().NoError(err, "first CreateSundialCollateral")
			},
			msg:                valid,
			expectedErrSubstrs: []string{"already exists"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			runMsgServerTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestRefreshSundialCollateral() {
	s.setupMarket()
	s.writePrices(1, 10)
	c := s.setupCollateral(defaultCollateralConfig())

	s.Assert().True(c.IsFresh(s.ctx.BlockHeight()), "refreshed in this slot")
	s.Assert().Equal(utils.MustParseWad("10").String(), c.LastPrice.String(), "price of one whole receipt at an exchange rate of one")

	s.advance(time.Minute, 1, 12)
	c, err := s.k.GetCollateral(s.ctx, c.ID)
	s.Require().NoError(err, "GetCollateral")
	s.Assert().False(c.IsFresh(s.ctx.BlockHeight()), "a refresh only lasts for its slot")

	resp, err := s.ms.RefreshSundialCollateral(s.ctx, &types.MsgRefreshSundialCollateralRequest{CollateralID: c.ID})
	s.Require().NoError(err, "RefreshSundialCollateral")
	s.Assert().Equal(utils.MustParseWad("12").String(), resp.LastPrice, "refreshed price")
}

func (s *TestSuite) TestRefreshSundialCollateral_StaleOracle() {
	s.setupMarket()
	s.writePrices(1, 10)
	c := s.setupCollateral(defaultCollateralConfig())

	// The default bound accepts a price from the previous slot only.
	ctx, err := s.simApp.NextBlock(time.Minute)
	s.Require().NoError(err, "NextBlock")
	s.ctx = ctx
	s.refreshCollateral(c.ID)

	ctx, err = s.simApp.NextBlock(time.Minute)
	s.Require().NoError(err, "NextBlock")
	s.ctx = ctx
	_, err = s.ms.RefreshSundialCollateral(s.ctx, &types.MsgRefreshSundialCollateralRequest{CollateralID: c.ID})
	s.Require().ErrorIs(err, types.ErrStaleOracle, "refresh two slots after the last price")

	stored, err := s.k.GetCollateral(s.ctx, c.ID)
	s.Require().NoError(err, "GetCollateral")
	s.Assert().Equal(s.ctx.BlockHeight()-1, stored.LastUpdatedSlot, "failed refresh leaves the collateral untouched")
}

func (s *TestSuite) TestRefreshSundialCollateral_ReceiptAppreciation() {
	s.setupMarket()
	s.simApp.RegisterDenom(s.ctx, collateralAsset, 6)
	_, err := s.simApp.ReserveKeeper.CreateReserve(s.ctx, collateralReserve, collateralAsset, 2_000)
	s.Require().NoError(err, "CreateReserve(collateral)")
	depositor := s.CreateAndFundAccount(sdk.NewInt64Coin(collateralAsset, 100*unit))
	_, err = s.simApp.ReserveKeeper.DepositLiquidity(s.ctx, collateralReserve, depositor, sdkmath.NewInt(100*unit))
	s.Require().NoError(err, "DepositLiquidity")
	s.Require().NoError(s.simApp.ReserveKeeper.Borrow(s.ctx, collateralReserve, s.CreateAndFundAccount(), sdkmath.NewInt(50*unit)), "Borrow")

	s.advance(365*24*time.Hour, 1, 10)
	created, err := s.ms.CreateSundialCollateral(s.ctx, &types.MsgCreateSundialCollateralRequest{
		Authority: s.adminAddr.String(),
		MarketID:  testMarketID,
		ReserveID: collateralReserve,
		OracleID:  collateralOracle,
		Config:    defaultCollateralConfig(),
	})
	s.Require().NoError(err, "CreateSundialCollateral")
	s.refreshCollateral(created.CollateralID)

	rate, err := s.simApp.ReserveKeeper.ExchangeRate(s.ctx, collateralReserve)
	s.Require().NoError(err, "ExchangeRate")
	s.Require().True(rate.GT(sdkmath.LegacyOneDec()), "receipts appreciated, rate %s", rate)
	rateWad, err := utils.NewWadFromLegacyDec(rate)
	s.Require().NoError(err, "NewWadFromLegacyDec")
	expected, err := utils.MustParseWad("10").Mul(rateWad)
	s.Require().NoError(err, "expected price")

	c, err := s.k.GetCollateral(s.ctx, created.CollateralID)
	s.Require().NoError(err, "GetCollateral")
	s.Assert().Equal(expected.String(), c.LastPrice.String(), "price is oracle price times exchange rate")
}

func (s *TestSuite) TestMsgServer_ChangeSundialCollateralConfig() {
	s.setupMarket()
	s.writePrices(1, 10)
	c := s.setupCollateral(defaultCollateralConfig())
	outsider := s.CreateAndFundAccount()

	newConfig := types.CollateralConfig{LTV: 30, LiquidationThreshold: 60, LiquidationPenalty: 5, LiquidityCap: sdkmath.NewInt(1_000 * unit)}

	testDef := msgServerTestDef[types.MsgChangeSundialCollateralConfigRequest, types.MsgChangeSundialCollateralConfigResponse]{
		endpointName: "ChangeSundialCollateralConfig",
		endpoint:     s.ms.ChangeSundialCollateralConfig,
		postCheck: func(msg *types.MsgChangeSundialCollateralConfigRequest, resp *types.MsgChangeSundialCollateralConfigResponse) {
			s.Assert().Equal(uint64(2), resp.ConfigVersion, "config version")
			updated, err := s.k.GetCollateral(s.ctx, c.ID)
			s.Require().NoError(err, "GetCollateral")
			s.Assert().Equal(newConfig.LTV, updated.Config.LTV, "ltv")
			s.Assert().Equal(newConfig.LiquidityCap.String(), updated.Config.LiquidityCap.String(), "liquidity cap")
			s.Assert().True(updated.Stale, "reconfigured collateral is stale")
			s.Assert().False(updated.IsFresh(s.ctx.BlockHeight()), "stale even within the refresh slot")

			s.refreshCollateral(c.ID)
			refreshed, err := s.k.GetCollateral(s.ctx, c.ID)
			s.Require().NoError(err, "GetCollateral")
			s.Assert().True(refreshed.IsFresh(s.ctx.BlockHeight()), "a refresh clears the stale flag")
		},
	}

	tests := []msgServerTestCase[types.MsgChangeSundialCollateralConfigRequest]{
		{
			name:           "happy path",
			msg:            types.MsgChangeSundialCollateralConfigRequest{Authority: s.adminAddr.String(), CollateralID: c.ID, Config: newConfig},
			expectedEvents: []string{types.EventTypeCollateralConfigChanged},
		},
		{
			name:               "not the market owner",
			msg:                types.MsgChangeSundialCollateralConfigRequest{Authority: outsider.String(), CollateralID: c.ID, Config: newConfig},
			expectedErrSubstrs: []string{"unauthorized"},
		},
		{
			name: "threshold above one hundred",
			msg: types.MsgChangeSundialCollateralConfigRequest{
				Authority:    s.adminAddr.String(),
				CollateralID: c.ID,
				Config:       types.CollateralConfig{LTV: 50, LiquidationThreshold: 101, LiquidityCap: sdkmath.ZeroInt()},
			},
			expectedErrSubstrs: []string{"liquidation threshold 101 exceeds 100"},
		},
		{
			name:               "unknown collateral",
			msg:                types.MsgChangeSundialCollateralConfigRequest{Authority: s.adminAddr.String(), CollateralID: "missing", Config: newConfig},
			expectedErrSubstrs: []string{"not found"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			runMsgServerTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestDepositCollateral_Cap() {
	s.setupMarket()
	s.writePrices(1, 10)
	config := defaultCollateralConfig()
	config.LiquidityCap = sdkmath.NewInt(500 * unit)
	c := s.setupCollateral(config)
	owner := s.fundCollateral(600 * unit)

	_, err := s.ms.DepositCollateral(s.ctx, &types.MsgDepositCollateralRequest{Owner: owner.String(), MarketID: testMarketID, CollateralID: c.ID, Amount: sdkmath.NewInt(500 * unit)})
	s.Require().NoError(err, "deposit up to the cap")
	_, err = s.ms.DepositCollateral(s.ctx, &types.MsgDepositCollateralRequest{Owner: owner.String(), MarketID: testMarketID, CollateralID: c.ID, Amount: sdkmath.NewInt(1)})
	s.Require().ErrorIs(err, types.ErrCapacityExceeded, "deposit above the cap")

	stored, err := s.k.GetCollateral(s.ctx, c.ID)
	s.Require().NoError(err, "GetCollateral")
	s.Assert().Equal(sdkmath.NewInt(500*unit).String(), stored.TotalDeposited.String(), "total deposited")
	s.assertBalance(c.VaultAddress(), c.CollateralDenom, sdkmath.NewInt(500*unit))
}

func (s *TestSuite) TestDepositCollateral_StaleCollateralAwaitsRefresh() {
	s.setupMarket()
	s.writePrices(1, 10)
	c := s.setupCollateral(defaultCollateralConfig())
	owner := s.fundCollateral(100 * unit)

	s.advance(time.Minute, 1, 10)
	_, err := s.ms.DepositCollateral(s.ctx, &types.MsgDepositCollateralRequest{Owner: owner.String(), MarketID: testMarketID, CollateralID: c.ID, Amount: sdkmath.NewInt(100 * unit)})
	s.Require().NoError(err, "DepositCollateral")

	p, err := s.k.GetProfile(s.ctx, testMarketID, owner)
	s.Require().NoError(err, "GetProfile")
	s.Require().Len(p.Collaterals, 1, "collateral entries")
	s.Assert().Equal(int64(0), p.Collaterals[0].ValuedAtSlot, "entry is not valued from a stale collateral")

	s.refreshCollateral(c.ID)
	health := s.refreshProfile(owner)
	s.Assert().Equal(utils.MustParseWad("1000").String(), health.CollateralValue.String(), "100 tokens at 10")
}

func (s *TestSuite) TestDepositCollateral_StaleTopUpDropsThePreviousValuation() {
	s.setupMarket()
	s.writePrices(1, 10)
	c := s.setupCollateral(defaultCollateralConfig())
	owner := s.fundCollateral(100 * unit)

	_, err := s.ms.DepositCollateral(s.ctx, &types.MsgDepositCollateralRequest{Owner: owner.String(), MarketID: testMarketID, CollateralID: c.ID, Amount: sdkmath.NewInt(50 * unit)})
	s.Require().NoError(err, "DepositCollateral while fresh")
	p, err := s.k.GetProfile(s.ctx, testMarketID, owner)
	s.Require().NoError(err, "GetProfile")
	s.Require().Len(p.Collaterals, 1, "collateral entries")
	s.Assert().Equal(utils.MustParseWad("500").String(), p.Collaterals[0].TotalValue.String(), "50 tokens at 10")

	s.advance(time.Minute, 1, 10)
	_, err = s.ms.DepositCollateral(s.ctx, &types.MsgDepositCollateralRequest{Owner: owner.String(), MarketID: testMarketID, CollateralID: c.ID, Amount: sdkmath.NewInt(50 * unit)})
	s.Require().NoError(err, "DepositCollateral while stale")

	p, err = s.k.GetProfile(s.ctx, testMarketID, owner)
	s.Require().NoError(err, "GetProfile after stale deposit")
	entry := p.Collaterals[0]
	s.Assert().Equal(sdkmath.NewInt(100*unit).String(), entry.Amount.String(), "deposited amount")
	s.Assert().Equal(utils.ZeroWad().String(), entry.TotalValue.String(), "value priced on the old amount is dropped")
	s.Assert().Equal(int64(0), entry.ValuedAtSlot, "entry awaits a refresh")

	s.refreshCollateral(c.ID)
	health := s.refreshProfile(owner)
	s.Assert().Equal(utils.MustParseWad("1000").String(), health.CollateralValue.String(), "100 tokens at 10")
}
