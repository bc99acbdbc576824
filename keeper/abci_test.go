package keeper_test

import (
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/sundial/types"
)

func (s *TestSuite) TestBeginBlocker_AnnouncesMaturity() {
	sundial := s.setupYieldSundial(0, sdkmath.ZeroInt())

	s.advance(59*time.Minute, 1, 10)
	for _, e := range s.ctx.EventManager().Events() {
		s.Assert().NotEqual(types.EventTypeSundialMatured, e.Type, "matured before its end timestamp")
	}
	queued, err := s.k.MaturityQueue.IsScheduled(s.ctx, sundial.EndTimestamp, sundial.ID)
	s.Require().NoError(err, "MaturityQueue.IsScheduled")
	s.Assert().True(queued, "still waiting to mature")

	s.advance(time.Minute, 1, 10)
	s.assertEventTypes(s.ctx.EventManager().Events(), types.EventTypeSundialMatured)
	queued, err = s.k.MaturityQueue.IsScheduled(s.ctx, sundial.EndTimestamp, sundial.ID)
	s.Require().NoError(err, "MaturityQueue.IsScheduled")
	s.Assert().False(queued, "matured sundial leaves the queue")

	s.advance(time.Minute, 1, 10)
	for _, e := range s.ctx.EventManager().Events() {
		s.Assert().NotEqual(types.EventTypeSundialMatured, e.Type, "maturity is announced once")
	}
}
