// Package query holds table-driven helpers for exercising QueryServer endpoints.
package query

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuiter is the part of a testify suite the helpers need.
type TestSuiter interface {
	Context() sdk.Context
	SetContext(ctx sdk.Context)
	Require() *require.Assertions
	Assert() *assert.Assertions
}

// TestDef describes the QueryServer endpoint shared by a table of cases.
// R is the request type and S the response type.
type TestDef[R any, S any] struct {
	QueryName string
	Query     func(goCtx context.Context, req *R) (*S, error)
	// ManualEquality replaces the deep equality check. Responses holding math.Int or
	// fixed-point values should compare their string forms here.
	ManualEquality func(s TestSuiter, expected, actual *S)
}

// TestCase is a single QueryServer case.
type TestCase[R any, S any] struct {
	Name string
	// Setup runs against the cached context of the case, so its state does not leak.
	Setup              func()
	Req                *R
	ExpectedResp       *S
	ExpectedErrSubstrs []string
}

// RunTestCase runs tc against a cached branch of the suite context.
func RunTestCase[R any, S any](s TestSuiter, td TestDef[R, S], tc TestCase[R, S]) {
	origCtx := s.Context()
	defer s.SetContext(origCtx)
	ctx, _ := origCtx.CacheContext()
	s.SetContext(ctx)

	if tc.Setup != nil {
		tc.Setup()
	}

	var resp *S
	var err error
	s.Require().NotPanics(func() {
		resp, err = td.Query(s.Context(), tc.Req)
	}, td.QueryName)

	if len(tc.ExpectedErrSubstrs) > 0 {
		s.Require().Errorf(err, "%s error", td.QueryName)
		for _, substr := range tc.ExpectedErrSubstrs {
			s.Assert().Containsf(err.Error(), substr, "%s error missing expected substring", td.QueryName)
		}
		return
	}

	s.Require().NoErrorf(err, "%s error", td.QueryName)
	if td.ManualEquality != nil {
		s.Require().NotNil(resp, "%s response", td.QueryName)
		td.ManualEquality(s, tc.ExpectedResp, resp)
		return
	}
	s.Assert().Equalf(tc.ExpectedResp, resp, "%s response", td.QueryName)
}
