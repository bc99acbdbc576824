package keeper_test

import (
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/provlabs/sundial/keeper"
	"github.com/provlabs/sundial/reserve"
	"github.com/provlabs/sundial/types"
	"github.com/provlabs/sundial/utils"
)

// setupYieldSundial creates a one hour sundial over a reserve whose borrowers pay 10% a year.
func (s *TestSuite) setupYieldSundial(lendingFeeBips uint32, liquidityCap sdkmath.Int) types.Sundial {
	s.setupMarket()
	s.setupLiquidityReserve(1_000, 1_000*unit, 800*unit)
	s.writePrices(1, 10)
	return s.setupSundial(time.Hour, lendingFeeBips, 0, liquidityCap)
}

func (s *TestSuite) mint(owner sdk.AccAddress, sundialID string, amount int64) *types.MsgMintPrincipalAndYieldResponse {
	resp, err := s.ms.MintPrincipalAndYield(s.ctx, &types.MsgMintPrincipalAndYieldRequest{
		Owner:     owner.String(),
		SundialID: sundialID,
		Amount:    sdkmath.NewInt(amount),
	})
	s.Require().NoError(err, "MintPrincipalAndYield(%s)", owner)
	return resp
}

func (s *TestSuite) redeemYield(owner sdk.AccAddress, sundialID string, amount sdkmath.Int) sdkmath.Int {
	resp, err := s.ms.RedeemYield(s.ctx, &types.MsgRedeemYieldRequest{Owner: owner.String(), SundialID: sundialID, Amount: amount})
	s.Require().NoError(err, "RedeemYield(%s)", owner)
	return resp.Payout.Amount
}

func (s *TestSuite) TestMsgServer_CreateSundial() {
	s.setupMarket()
	s.setupLiquidityReserve(0, 0, 0)
	outsider := s.CreateAndFundAccount()
	end := s.ctx.BlockTime().Unix() + 3600
	expectedID := types.SundialID(testMarketID, liquidityDenom, end)

	testDef := msgServerTestDef[types.MsgCreateSundialRequest, types.MsgCreateSundialResponse]{
		endpointName: "CreateSundial",
		endpoint:     s.ms.CreateSundial,
		postCheck: func(msg *types.MsgCreateSundialRequest, resp *types.MsgCreateSundialResponse) {
			s.Require().Equal(expectedID, resp.SundialID, "sundial id")
			sundial, err := s.k.GetSundial(s.ctx, resp.SundialID)
			s.Require().NoError(err, "GetSundial")
			s.Assert().Equal(end, sundial.EndTimestamp, "end timestamp")
			s.Assert().Equal(reserve.ReceiptDenomFor(liquidityReserve), sundial.ReceiptDenom, "receipt denom")

			for _, denom := range []string{sundial.PrincipalDenom, sundial.YieldDenom} {
				md, found := s.simApp.BankKeeper.GetDenomMetaData(s.ctx, denom)
				s.Require().True(found, "metadata of %s", denom)
				decimals, err := types.DecimalsFromMetadata(md)
				s.Require().NoError(err, "DecimalsFromMetadata(%s)", denom)
				s.Assert().Equal(uint32(6), decimals, "%s inherits the liquidity precision", denom)
			}

			queued, err := s.k.MaturityQueue.IsScheduled(s.ctx, end, resp.SundialID)
			s.Require().NoError(err, "MaturityQueue.IsScheduled")
			s.Assert().True(queued, "sundial is scheduled for maturity")
		},
	}

	valid := types.MsgCreateSundialRequest{
		Authority:       s.adminAddr.String(),
		MarketID:        testMarketID,
		ReserveID:       liquidityReserve,
		OracleID:        liquidityOracle,
		DurationSeconds: 3600,
	}
	withAuthority := valid
	withAuthority.Authority = outsider.String()
	unknownReserve := valid
	unknownReserve.ReserveID = "missing-reserve"
	unknownMarket := valid
	unknownMarket.MarketID = "market-b"
	zeroDuration := valid
	zeroDuration.DurationSeconds = 0

	tests := []msgServerTestCase[types.MsgCreateSundialRequest]{
		{
			name:           "happy path",
			msg:            valid,
			expectedEvents: []string{types.EventTypeSundialCreated},
		},
		{
			name:               "not the market owner",
			msg:                withAuthority,
			expectedErrSubstrs: []string{"unauthorized"},
		},
		{
			name:               "unknown reserve",
			msg:                unknownReserve,
			expectedErrSubstrs: []string{"failed to resolve reserve", "missing-reserve"},
		},
		{
			name:               "unknown market",
			msg:                unknownMarket,
			expectedErrSubstrs: []string{"market-b", "not found"},
		},
		{
			name:               "zero duration",
			msg:                zeroDuration,
			expectedErrSubstrs: []string{"duration must be positive"},
		},
		{
			name: "same maturity twice",
			setup: func() {
				_, err := s.ms.CreateSundial(s.ctx, &valid)
				s.Require().NoError(err, "first CreateSundial")
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

func (s *TestSuite) TestMsgServer_MintPrincipalAndYield() {
	sundial := s.setupYieldSundial(100, sdkmath.NewInt(150*unit))
	owner := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 200*unit))
	feeCollector := s.simApp.AccountKeeper.GetModuleAddress(types.FeeCollectorName)

	testDef := msgServerTestDef[types.MsgMintPrincipalAndYieldRequest, types.MsgMintPrincipalAndYieldResponse]{
		endpointName: "MintPrincipalAndYield",
		endpoint:     s.ms.MintPrincipalAndYield,
		postCheck: func(msg *types.MsgMintPrincipalAndYieldRequest, resp *types.MsgMintPrincipalAndYieldResponse) {
			s.Assert().Equal(sdk.NewInt64Coin(sundial.PrincipalDenom, 99*unit).String(), resp.Principal.String(), "principal net of the 1% fee")
			s.Assert().Equal(sdk.NewInt64Coin(sundial.YieldDenom, 100*unit).String(), resp.Yield.String(), "yield is not charged a fee")
			s.Assert().Equal(sdk.NewInt64Coin(sundial.PrincipalDenom, unit).String(), resp.Fee.String(), "fee")

			s.assertBalance(owner, liquidityDenom, sdkmath.NewInt(100*unit))
			s.assertBalance(owner, sundial.PrincipalDenom, sdkmath.NewInt(99*unit))
			s.assertBalance(owner, sundial.YieldDenom, sdkmath.NewInt(100*unit))
			s.assertBalance(feeCollector, sundial.PrincipalDenom, sdkmath.NewInt(unit))

			pos, err := s.k.GetYieldPosition(s.ctx, sundial.ID, owner)
			s.Require().NoError(err, "GetYieldPosition")
			s.Assert().Equal(sdkmath.NewInt(100*unit).String(), pos.Amount.String(), "position amount")
			s.Assert().Equal(sdkmath.NewInt(100*unit*3600).String(), pos.Weight.String(), "position weight is amount times seconds to maturity")

			updated, err := s.k.GetSundial(s.ctx, sundial.ID)
			s.Require().NoError(err, "GetSundial")
			s.Assert().Equal(sdkmath.NewInt(100*unit).String(), updated.TotalPrincipalIssued.String(), "total principal issued")
			s.Assert().Equal(updated.TotalPrincipalIssued.String(), updated.TotalYieldIssued.String(), "principal and yield issued in lock-step")
			s.Assert().Equal(pos.Weight.String(), updated.TotalYieldWeight.String(), "total yield weight")
			s.Assert().True(updated.ReceiptBalance.IsPositive(), "sundial holds reserve receipts")
			s.assertBalance(updated.Address(), updated.ReceiptDenom, updated.ReceiptBalance)
		},
	}

	tests := []msgServerTestCase[types.MsgMintPrincipalAndYieldRequest]{
		{
			name:           "happy path",
			msg:            types.MsgMintPrincipalAndYieldRequest{Owner: owner.String(), SundialID: sundial.ID, Amount: sdkmath.NewInt(100 * unit)},
			expectedEvents: []string{types.EventTypeMintPrincipalAndYield},
		},
		{
			name:               "zero amount",
			msg:                types.MsgMintPrincipalAndYieldRequest{Owner: owner.String(), SundialID: sundial.ID, Amount: sdkmath.ZeroInt()},
			expectedErrSubstrs: []string{"amount must be positive"},
		},
		{
			name:               "unknown sundial",
			msg:                types.MsgMintPrincipalAndYieldRequest{Owner: owner.String(), SundialID: "missing", Amount: sdkmath.NewInt(unit)},
			expectedErrSubstrs: []string{"not found"},
		},
		{
			name:               "above liquidity cap",
			msg:                types.MsgMintPrincipalAndYieldRequest{Owner: owner.String(), SundialID: sundial.ID, Amount: sdkmath.NewInt(151 * unit)},
			expectedErrSubstrs: []string{"capacity exceeded"},
		},
		{
			name:               "insufficient liquidity balance",
			msg:                types.MsgMintPrincipalAndYieldRequest{Owner: s.CreateAndFundAccount().String(), SundialID: sundial.ID, Amount: sdkmath.NewInt(unit)},
			expectedErrSubstrs: []string{"failed to collect liquidity"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			runMsgServerTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestMintPrincipalAndYield_AfterMaturity() {
	sundial := s.setupYieldSundial(0, sdkmath.ZeroInt())
	owner := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 10*unit))

	s.advance(time.Hour, 1, 10)
	_, err := s.ms.MintPrincipalAndYield(s.ctx, &types.MsgMintPrincipalAndYieldRequest{
		Owner:     owner.String(),
		SundialID: sundial.ID,
		Amount:    sdkmath.NewInt(unit),
	})
	s.Require().ErrorIs(err, types.ErrMarketMatured, "minting at the end timestamp")
	s.assertBalance(owner, liquidityDenom, sdkmath.NewInt(10*unit))
}

func (s *TestSuite) TestYield_LateMinterEarnsProportionallyLess() {
	sundial := s.setupYieldSundial(0, sdkmath.ZeroInt())
	early := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 100*unit))
	late := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 100*unit))

	s.mint(early, sundial.ID, 100*unit)
	s.advance(50*time.Minute, 1, 10)
	s.mint(late, sundial.ID, 100*unit)

	earlyPos, err := s.k.GetYieldPosition(s.ctx, sundial.ID, early)
	s.Require().NoError(err, "GetYieldPosition(early)")
	latePos, err := s.k.GetYieldPosition(s.ctx, sundial.ID, late)
	s.Require().NoError(err, "GetYieldPosition(late)")
	s.Assert().Equal(earlyPos.Weight.String(), latePos.Weight.MulRaw(6).String(), "3600 seconds of weight against 600")

	s.advance(10*time.Minute, 1, 10)
	redeemed, err := s.ms.RedeemReserve(s.ctx, &types.MsgRedeemReserveRequest{Caller: early.String(), SundialID: sundial.ID})
	s.Require().NoError(err, "RedeemReserve")
	s.Require().True(redeemed.TotalYieldAccrued.IsPositive(), "reserve interest accrued to the sundial")

	earlyPaid := s.redeemYield(early, sundial.ID, sdkmath.NewInt(100*unit))
	latePaid := s.redeemYield(late, sundial.ID, sdkmath.NewInt(100*unit))

	s.Assert().Equal(redeemed.TotalYieldAccrued.String(), earlyPaid.Add(latePaid).String(), "payouts sum to the accrued yield")
	s.Assert().True(earlyPaid.GTE(latePaid.MulRaw(5)), "early payout %s should be at least 5x late payout %s", earlyPaid, latePaid)

	final, err := s.k.GetSundial(s.ctx, sundial.ID)
	s.Require().NoError(err, "GetSundial")
	s.Assert().True(final.RemainingYield.IsZero(), "no yield left undistributed")
	s.Assert().True(final.RemainingYieldWeight.IsZero(), "no weight left undistributed")

	for _, owner := range []sdk.AccAddress{early, late} {
		_, err := s.ms.RedeemPrincipal(s.ctx, &types.MsgRedeemPrincipalRequest{Owner: owner.String(), SundialID: sundial.ID, Amount: sdkmath.NewInt(100 * unit)})
		s.Require().NoError(err, "RedeemPrincipal(%s)", owner)
		s.assertBalance(owner, sundial.PrincipalDenom, sdkmath.ZeroInt())
		s.assertBalance(owner, sundial.YieldDenom, sdkmath.ZeroInt())
	}
	s.assertBalance(early, liquidityDenom, sdkmath.NewInt(100*unit).Add(earlyPaid))
	s.assertBalance(late, liquidityDenom, sdkmath.NewInt(100*unit).Add(latePaid))
	s.assertBalance(sundial.Address(), liquidityDenom, sdkmath.ZeroInt())
}

func (s *TestSuite) TestYield_PartialRedemptionsKeepTheSameRate() {
	sundial := s.setupYieldSundial(0, sdkmath.ZeroInt())
	owner := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 100*unit))
	other := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 100*unit))
	s.mint(owner, sundial.ID, 100*unit)
	s.mint(other, sundial.ID, 100*unit)

	s.advance(time.Hour, 1, 10)
	redeemed, err := s.ms.RedeemReserve(s.ctx, &types.MsgRedeemReserveRequest{Caller: owner.String(), SundialID: sundial.ID})
	s.Require().NoError(err, "RedeemReserve")

	first := s.redeemYield(owner, sundial.ID, sdkmath.NewInt(30*unit))
	second := s.redeemYield(owner, sundial.ID, sdkmath.NewInt(70*unit))
	otherPaid := s.redeemYield(other, sundial.ID, sdkmath.NewInt(100*unit))

	s.Assert().Equal(redeemed.TotalYieldAccrued.String(), first.Add(second).Add(otherPaid).String(), "payouts sum to the accrued yield")
	diff := first.Add(second).Sub(otherPaid).Abs()
	s.Assert().True(diff.LTE(sdkmath.NewInt(2)), "equal positions are paid equally up to rounding, got %s and %s", first.Add(second), otherPaid)

	pos, err := s.k.GetYieldPosition(s.ctx, sundial.ID, owner)
	s.Require().NoError(err, "GetYieldPosition")
	s.Assert().True(pos.IsEmpty(), "fully redeemed position is empty")
}

func (s *TestSuite) TestRedeemReserve() {
	sundial := s.setupYieldSundial(0, sdkmath.ZeroInt())
	owner := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 100*unit))
	s.mint(owner, sundial.ID, 100*unit)

	_, err := s.ms.RedeemReserve(s.ctx, &types.MsgRedeemReserveRequest{Caller: owner.String(), SundialID: sundial.ID})
	s.Require().ErrorIs(err, types.ErrMarketNotMatured, "RedeemReserve before maturity")

	s.advance(time.Hour, 1, 10)
	_, err = s.ms.RedeemYield(s.ctx, &types.MsgRedeemYieldRequest{Owner: owner.String(), SundialID: sundial.ID, Amount: sdkmath.NewInt(unit)})
	s.Require().ErrorIs(err, types.ErrReserveNotRedeemed, "RedeemYield before the reserve is redeemed")
	_, err = s.ms.RedeemPrincipal(s.ctx, &types.MsgRedeemPrincipalRequest{Owner: owner.String(), SundialID: sundial.ID, Amount: sdkmath.NewInt(unit)})
	s.Require().ErrorIs(err, types.ErrReserveNotRedeemed, "RedeemPrincipal before the reserve is redeemed")

	first, err := s.ms.RedeemReserve(s.ctx, &types.MsgRedeemReserveRequest{Caller: owner.String(), SundialID: sundial.ID})
	s.Require().NoError(err, "first RedeemReserve")
	s.Assert().Equal(sdkmath.NewInt(100*unit).Add(first.TotalYieldAccrued).String(), first.FinalLiquidity.String(), "final liquidity is principal plus yield")
	s.assertBalance(sundial.Address(), liquidityDenom, first.FinalLiquidity)
	s.assertBalance(sundial.Address(), sundial.ReceiptDenom, sdkmath.ZeroInt())

	s.advance(time.Minute, 1, 10)
	second, err := s.ms.RedeemReserve(s.ctx, &types.MsgRedeemReserveRequest{Caller: owner.String(), SundialID: sundial.ID})
	s.Require().NoError(err, "second RedeemReserve")
	s.Assert().Equal(first.FinalLiquidity.String(), second.FinalLiquidity.String(), "final liquidity is fixed")
	s.Assert().Equal(first.TotalYieldAccrued.String(), second.TotalYieldAccrued.String(), "accrued yield is fixed")
	s.assertBalance(sundial.Address(), liquidityDenom, first.FinalLiquidity)
}

func (s *TestSuite) TestRedeemPrincipal_ReservesLiquidityForYield() {
	sundial := s.setupYieldSundial(0, sdkmath.ZeroInt())
	owner := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 100*unit))
	s.mint(owner, sundial.ID, 100*unit)

	s.advance(time.Hour, 1, 10)
	redeemed, err := s.ms.RedeemReserve(s.ctx, &types.MsgRedeemReserveRequest{Caller: owner.String(), SundialID: sundial.ID})
	s.Require().NoError(err, "RedeemReserve")
	s.Require().True(redeemed.TotalYieldAccrued.IsPositive(), "yield accrued")

	// Only the principal is available until the yield holders redeem.
	_, err = s.ms.RedeemPrincipal(s.ctx, &types.MsgRedeemPrincipalRequest{
		Owner:     owner.String(),
		SundialID: sundial.ID,
		Amount:    sdkmath.NewInt(100 * unit).Add(redeemed.TotalYieldAccrued),
	})
	s.Require().ErrorIs(err, types.ErrInsufficientLiquidity, "redeeming into the yield reserve")

	paid := s.redeemYield(owner, sundial.ID, sdkmath.NewInt(100*unit))
	s.Assert().Equal(redeemed.TotalYieldAccrued.String(), paid.String(), "sole yield holder takes all yield")
}

func (s *TestSuite) TestTransferYieldPosition() {
	sundial := s.setupYieldSundial(0, sdkmath.ZeroInt())
	owner := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 100*unit))
	recipient := s.CreateAndFundAccount()
	bystander := s.CreateAndFundAccount()
	s.mint(owner, sundial.ID, 100*unit)
	before, err := s.k.GetYieldPosition(s.ctx, sundial.ID, owner)
	s.Require().NoError(err, "GetYieldPosition(owner)")

	testDef := msgServerTestDef[types.MsgTransferYieldPositionRequest, types.MsgTransferYieldPositionResponse]{
		endpointName: "TransferYieldPosition",
		endpoint:     s.ms.TransferYieldPosition,
		postCheck: func(msg *types.MsgTransferYieldPositionRequest, _ *types.MsgTransferYieldPositionResponse) {
			from, err := s.k.GetYieldPosition(s.ctx, sundial.ID, owner)
			s.Require().NoError(err, "GetYieldPosition(owner)")
			to, err := s.k.GetYieldPosition(s.ctx, sundial.ID, recipient)
			s.Require().NoError(err, "GetYieldPosition(recipient)")

			s.Assert().Equal(sdkmath.NewInt(75*unit).String(), from.Amount.String(), "owner amount")
			s.Assert().Equal(sdkmath.NewInt(25*unit).String(), to.Amount.String(), "recipient amount")
			s.Assert().Equal(before.Weight.QuoRaw(4).String(), to.Weight.String(), "weight moves with the tokens")
			s.Assert().Equal(before.Weight.String(), from.Weight.Add(to.Weight).String(), "weight is conserved")
			s.assertBalance(recipient, sundial.YieldDenom, sdkmath.NewInt(25*unit))
		},
	}

	tests := []msgServerTestCase[types.MsgTransferYieldPositionRequest]{
		{
			name:           "quarter of the position",
			msg:            types.MsgTransferYieldPositionRequest{Owner: owner.String(), Recipient: recipient.String(), SundialID: sundial.ID, Amount: sdkmath.NewInt(25 * unit)},
			expectedEvents: []string{types.EventTypeYieldPositionTransferred},
		},
		{
			name:               "to self",
			msg:                types.MsgTransferYieldPositionRequest{Owner: owner.String(), Recipient: owner.String(), SundialID: sundial.ID, Amount: sdkmath.NewInt(unit)},
			expectedErrSubstrs: []string{"recipient must differ from owner"},
		},
		{
			name:               "more than the position",
			msg:                types.MsgTransferYieldPositionRequest{Owner: owner.String(), Recipient: recipient.String(), SundialID: sundial.ID, Amount: sdkmath.NewInt(101 * unit)},
			expectedErrSubstrs: []string{"exceeds yield position"},
		},
		{
			name:               "without a position",
			msg:                types.MsgTransferYieldPositionRequest{Owner: bystander.String(), Recipient: recipient.String(), SundialID: sundial.ID, Amount: sdkmath.NewInt(unit)},
			expectedErrSubstrs: []string{"exceeds yield position"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			runMsgServerTestCase(s, testDef, tc)
		})
	}
}

func (s *TestSuite) TestYieldTokens_OnlyMoveWithTheirPosition() {
	sundial := s.setupYieldSundial(0, sdkmath.ZeroInt())
	owner := s.CreateAndFundAccount(sdk.NewInt64Coin(liquidityDenom, 100*unit))
	holder := s.CreateAndFundAccount()
	s.mint(owner, sundial.ID, 100*unit)
	bankMsgs := bankkeeper.NewMsgServerImpl(s.simApp.BankKeeper)

	_, err := bankMsgs.Send(s.ctx, banktypes.NewMsgSend(owner, holder, sdk.NewCoins(sdk.NewInt64Coin(sundial.YieldDenom, 10*unit))))
	s.Require().ErrorIs(err, banktypes.ErrSendDisabled, "bank send of yield tokens")
	s.assertBalance(holder, sundial.YieldDenom, sdkmath.ZeroInt())

	_, err = bankMsgs.Send(s.ctx, banktypes.NewMsgSend(owner, holder, sdk.NewCoins(sdk.NewInt64Coin(sundial.PrincipalDenom, unit))))
	s.Require().NoError(err, "principal tokens stay transferable")

	_, err = s.ms.TransferYieldPosition(s.ctx, &types.MsgTransferYieldPositionRequest{
		Owner:     owner.String(),
		Recipient: holder.String(),
		SundialID: sundial.ID,
		Amount:    sdkmath.NewInt(10 * unit),
	})
	s.Require().NoError(err, "TransferYieldPosition")

	s.advance(time.Hour, 1, 10)
	_, err = s.ms.RedeemReserve(s.ctx, &types.MsgRedeemReserveRequest{Caller: owner.String(), SundialID: sundial.ID})
	s.Require().NoError(err, "RedeemReserve")
	redeemed, err := s.k.GetSundial(s.ctx, sundial.ID)
	s.Require().NoError(err, "GetSundial after RedeemReserve")
	s.Require().True(redeemed.RemainingYield.IsPositive(), "accrued yield %s", redeemed.RemainingYield)

	ownerPaid := s.redeemYield(owner, sundial.ID, sdkmath.NewInt(90*unit))
	holderPaid := s.redeemYield(holder, sundial.ID, sdkmath.NewInt(10*unit))
	s.Assert().Equal(redeemed.RemainingYield.String(), ownerPaid.Add(holderPaid).String(), "every yield token redeems and the pool is paid out")

	final, err := s.k.GetSundial(s.ctx, sundial.ID)
	s.Require().NoError(err, "GetSundial after yield redemption")
	s.Assert().True(final.RemainingYield.IsZero(), "remaining yield %s", final.RemainingYield)
	s.Assert().True(final.RemainingYieldWeight.IsZero(), "remaining yield weight %s", final.RemainingYieldWeight)
}

func (s *TestSuite) TestNormalizedValue() {
	tests := []struct {
		name     string
		amount   sdkmath.Int
		price    string
		decimals uint32
		expected string
	}{
		{name: "six decimals", amount: sdkmath.NewInt(20_000_000), price: "5", decimals: 6, expected: "100"},
		{name: "three decimals", amount: sdkmath.NewInt(1_000), price: "100", decimals: 3, expected: "100"},
		{name: "zero decimals", amount: sdkmath.NewInt(4), price: "25", decimals: 0, expected: "100"},
		{name: "fractional holding", amount: sdkmath.NewInt(1), price: "2", decimals: 6, expected: "0.000002"},
		{name: "zero amount", amount: sdkmath.ZeroInt(), price: "7", decimals: 6, expected: "0"},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			price, err := utils.ParseWad(tc.price)
			s.Require().NoError(err, "ParseWad(%s)", tc.price)
			v, err := keeper.NormalizedValue(tc.amount, price, tc.decimals)
			s.Require().NoError(err, "NormalizedValue")
			expected, err := utils.ParseWad(tc.expected)
			s.Require().NoError(err, "ParseWad(%s)", tc.expected)
			s.Assert().Equal(expected.String(), v.String(), "normalized value")
		})
	}
}
