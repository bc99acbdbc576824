package keeper_test

import (
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/sundial/types"
)

func (s *TestSuite) TestExecuteBatch_RefreshAndBorrowInOneSlot() {
	owner, sundial, c := s.setupBorrower(1_000*unit, 1, 10)
	s.advance(time.Minute, 1, 10)

	responses, err := s.k.ExecuteBatch(s.ctx,
		types.MsgRefreshSundialCollateralRequest{CollateralID: c.ID},
		types.MsgRefreshSundialProfileRequest{Owner: owner.String(), MarketID: testMarketID},
		types.MsgMintWithCollateralRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(4_000 * unit)},
	)
	s.Require().NoError(err, "ExecuteBatch")
	s.Require().Len(responses, 3, "one response per message")

	minted, ok := responses[2].(*types.MsgMintWithCollateralResponse)
	s.Require().True(ok, "third response type %T", responses[2])
	s.Assert().Equal(sdkmath.NewInt(4_000*unit).String(), minted.Principal.Amount.String(), "borrowed principal")
	s.assertBalance(owner, sundial.PrincipalDenom, sdkmath.NewInt(4_000*unit))
	s.assertEventTypes(s.ctx.EventManager().Events(),
		types.EventTypeCollateralRefreshed,
		types.EventTypeProfileRefreshed,
		types.EventTypeLoanMinted,
	)
}

func (s *TestSuite) TestExecuteBatch_FailureRollsBackEveryMessage() {
	owner, sundial, c := s.setupBorrower(1_000*unit, 1, 10)
	s.advance(time.Minute, 1, 10)
	before, err := s.k.GetCollateral(s.ctx, c.ID)
	s.Require().NoError(err, "GetCollateral")

	_, err = s.k.ExecuteBatch(s.ctx,
		types.MsgRefreshSundialCollateralRequest{CollateralID: c.ID},
		types.MsgRefreshSundialProfileRequest{Owner: owner.String(), MarketID: testMarketID},
		types.MsgMintWithCollateralRequest{Owner: owner.String(), MarketID: testMarketID, SundialID: sundial.ID, Amount: sdkmath.NewInt(6_000 * unit)},
	)
	s.Require().ErrorIs(err, types.ErrInsufficientCollateral, "ExecuteBatch")
	s.Assert().Contains(err.Error(), "message 2", "error names the failing message")

	after, err := s.k.GetCollateral(s.ctx, c.ID)
	s.Require().NoError(err, "GetCollateral")
	s.Assert().Equal(before.LastUpdatedSlot, after.LastUpdatedSlot, "collateral refresh was rolled back")
	p, err := s.k.GetProfile(s.ctx, testMarketID, owner)
	s.Require().NoError(err, "GetProfile")
	s.Assert().Equal(s.ctx.BlockHeight()-1, p.LastUpdatedSlot, "profile refresh was rolled back")
	s.assertBalance(owner, sundial.PrincipalDenom, sdkmath.ZeroInt())
	s.Assert().Empty(s.ctx.EventManager().Events(), "no events from a rolled back batch")
}

func (s *TestSuite) TestExecuteBatch_UnsupportedMessage() {
	s.setupMarket()
	_, err := s.k.ExecuteBatch(s.ctx,
		types.MsgCreateSundialProfileRequest{Owner: s.CreateAndFundAccount().String(), MarketID: testMarketID},
		&types.MsgCreateMarketRequest{Owner: s.adminAddr.String(), MarketID: "market-b"},
	)
	s.Require().ErrorIs(err, types.ErrInvalidRequest, "ExecuteBatch")
	s.Assert().Contains(err.Error(), "message 1", "error names the failing message")
	s.Assert().Contains(err.Error(), "unsupported message", "ExecuteBatch error")
}
