package simulation

import (
	"fmt"
	"time"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/provlabs/sundial/keeper"
	"github.com/provlabs/sundial/simapp"
	"github.com/provlabs/sundial/types"
	"github.com/provlabs/sundial/utils"
)

const scenarioMarketID = "sim"

// YieldPayout is what one named depositor minted and was paid at maturity.
type YieldPayout struct {
	Name      string         `json:"name"`
	Minted    math.Int       `json:"minted"`
	Principal math.Int       `json:"principal"`
	Yield     math.Int       `json:"yield"`
	PerUnit   math.LegacyDec `json:"per_unit"`
}

// YieldResult summarizes a yield scenario.
type YieldResult struct {
	SundialID string        `json:"sundial_id"`
	Accrued   math.Int      `json:"accrued"`
	TotalPaid math.Int      `json:"total_paid"`
	Payouts   []YieldPayout `json:"payouts"`
}

// Payout returns the payout recorded for name.
func (r YieldResult) Payout(name string) (YieldPayout, bool) {
	i := utils.IndexOf(r.Payouts, func(p YieldPayout) bool { return p.Name == name })
	if i < 0 {
		return YieldPayout{}, false
	}
	return r.Payouts[i], true
}

// AssetValue is the normalized value of one deposited collateral asset.
type AssetValue struct {
	Denom        string    `json:"denom"`
	CollateralID string    `json:"collateral_id"`
	Amount       math.Int  `json:"amount"`
	Price        utils.Wad `json:"price"`
	Value        utils.Wad `json:"value"`
}

// ValuationResult summarizes a valuation scenario.
type ValuationResult struct {
	Assets []AssetValue        `json:"assets"`
	Health types.ProfileHealth `json:"health"`
}

// scenarioAccount derives a deterministic account for a scenario actor.
func scenarioAccount(name string) sdk.AccAddress {
	return address.Module("sundialsim", []byte(name))
}

// RunYield executes a yield scenario on app and redeems every position at maturity.
func RunYield(app *simapp.SimApp, cfg YieldScenario) (YieldResult, error) {
	if err := cfg.validate(); err != nil {
		return YieldResult{}, err
	}
	ms := keeper.NewMsgServer(app.SundialKeeper)
	ctx := app.NewContext(false)
	admin := scenarioAccount("admin")
	lender := scenarioAccount("lender")
	borrower := scenarioAccount("borrower")
	reserveID := "sim-" + cfg.LiquidityDenom
	oracleID := "oracle-" + cfg.LiquidityDenom

	app.RegisterDenom(ctx, cfg.LiquidityDenom, cfg.Decimals)
	if _, err := app.ReserveKeeper.CreateReserve(ctx, reserveID, cfg.LiquidityDenom, cfg.BorrowRateBips); err != nil {
		return YieldResult{}, fmt.Errorf("failed to create reserve: %w", err)
	}
	if err := fund(app, ctx, lender, cfg.LiquidityDenom, cfg.ReserveDeposit); err != nil {
		return YieldResult{}, err
	}
	if _, err := app.ReserveKeeper.DepositLiquidity(ctx, reserveID, lender, math.NewInt(cfg.ReserveDeposit)); err != nil {
		return YieldResult{}, fmt.Errorf("failed to seed reserve: %w", err)
	}
	if cfg.Borrow > 0 {
		if err := app.ReserveKeeper.Borrow(ctx, reserveID, borrower, math.NewInt(cfg.Borrow)); err != nil {
			return YieldResult{}, fmt.Errorf("failed to borrow from reserve: %w", err)
		}
	}
	if err := app.OracleKeeper.WritePrice(ctx, oracleID, 1, 0); err != nil {
		return YieldResult{}, err
	}

	if _, err := ms.CreateMarket(ctx, &types.MsgCreateMarketRequest{Owner: admin.String(), MarketID: scenarioMarketID}); err != nil {
		return YieldResult{}, fmt.Errorf("failed to create market: %w", err)
	}
	created, err := ms.CreateSundial(ctx, &types.MsgCreateSundialRequest{
		Authority:       admin.String(),
		MarketID:        scenarioMarketID,
		ReserveID:       reserveID,
		OracleID:        oracleID,
		DurationSeconds: cfg.DurationSeconds,
		LendingFeeBips:  cfg.LendingFeeBips,
	})
	if err != nil {
		return YieldResult{}, fmt.Errorf("failed to create sundial: %w", err)
	}
	sundialID := created.SundialID

	elapsed := int64(0)
	advanceTo := func(second int64) error {
		if second <= elapsed {
			return nil
		}
		var err error
		ctx, err = app.NextBlock(time.Duration(second-elapsed) * time.Second)
		elapsed = second
		return err
	}

	payouts := make([]YieldPayout, 0, len(cfg.Mints))
	for _, m := range cfg.Mints {
		if err := advanceTo(m.AtSecond); err != nil {
			return YieldResult{}, err
		}
		owner := scenarioAccount(m.Name)
		if err := fund(app, ctx, owner, cfg.LiquidityDenom, m.Amount); err != nil {
			return YieldResult{}, err
		}
		resp, err := ms.MintPrincipalAndYield(ctx, &types.MsgMintPrincipalAndYieldRequest{
			Owner:     owner.String(),
			SundialID: sundialID,
			Amount:    math.NewInt(m.Amount),
		})
		if err != nil {
			return YieldResult{}, fmt.Errorf("mint for %s failed: %w", m.Name, err)
		}
		payouts = append(payouts, YieldPayout{
			Name:      m.Name,
			Minted:    resp.Yield.Amount,
			Principal: resp.Principal.Amount,
		})
	}

	if err := advanceTo(cfg.RedeemAfterSeconds); err != nil {
		return YieldResult{}, err
	}
	redeemed, err := ms.RedeemReserve(ctx, &types.MsgRedeemReserveRequest{Caller: admin.String(), SundialID: sundialID})
	if err != nil {
		return YieldResult{}, fmt.Errorf("failed to redeem reserve: %w", err)
	}

	totalPaid := math.ZeroInt()
	for i := range payouts {
		p := &payouts[i]
		owner := scenarioAccount(p.Name)
		y, err := ms.RedeemYield(ctx, &types.MsgRedeemYieldRequest{Owner: owner.String(), SundialID: sundialID, Amount: p.Minted})
		if err != nil {
			return YieldResult{}, fmt.Errorf("yield redemption for %s failed: %w", p.Name, err)
		}
		if _, err := ms.RedeemPrincipal(ctx, &types.MsgRedeemPrincipalRequest{Owner: owner.String(), SundialID: sundialID, Amount: p.Principal}); err != nil {
			return YieldResult{}, fmt.Errorf("principal redemption for %s failed: %w", p.Name, err)
		}
		p.Yield = y.Payout.Amount
		p.PerUnit = math.LegacyNewDecFromInt(p.Yield).QuoInt(p.Minted)
		totalPaid = totalPaid.Add(p.Yield)
	}

	return YieldResult{
		SundialID: sundialID,
		Accrued:   redeemed.TotalYieldAccrued,
		TotalPaid: totalPaid,
		Payouts:   payouts,
	}, nil
}

// RunValuation deposits every asset of cfg into one profile and reports the normalized values.
func RunValuation(app *simapp.SimApp, cfg ValuationScenario) (ValuationResult, error) {
	if err := cfg.validate(); err != nil {
		return ValuationResult{}, err
	}
	ms := keeper.NewMsgServer(app.SundialKeeper)
	ctx := app.NewContext(false)
	admin := scenarioAccount("admin")
	holder := scenarioAccount("holder")

	if _, err := ms.CreateMarket(ctx, &types.MsgCreateMarketRequest{Owner: admin.String(), MarketID: scenarioMarketID}); err != nil {
		return ValuationResult{}, fmt.Errorf("failed to create market: %w", err)
	}
	if _, err := ms.CreateSundialProfile(ctx, &types.MsgCreateSundialProfileRequest{Owner: holder.String(), MarketID: scenarioMarketID}); err != nil {
		return ValuationResult{}, fmt.Errorf("failed to create profile: %w", err)
	}

	config := types.CollateralConfig{
		LTV:                  cfg.LTV,
		LiquidationThreshold: cfg.LiquidationThreshold,
		LiquidationPenalty:   cfg.LiquidationPenalty,
		LiquidityCap:         math.ZeroInt(),
	}
	assets := make([]AssetValue, 0, len(cfg.Assets))
	for _, a := range cfg.Assets {
		reserveID := "sim-" + a.Denom
		oracleID := "oracle-" + a.Denom
		amount := math.NewInt(a.Amount)

		app.RegisterDenom(ctx, a.Denom, a.Decimals)
		if _, err := app.ReserveKeeper.CreateReserve(ctx, reserveID, a.Denom, 0); err != nil {
			return ValuationResult{}, fmt.Errorf("failed to create reserve for %s: %w", a.Denom, err)
		}
		if err := fund(app, ctx, holder, a.Denom, a.Amount); err != nil {
			return ValuationResult{}, err
		}
		receipts, err := app.ReserveKeeper.DepositLiquidity(ctx, reserveID, holder, amount)
		if err != nil {
			return ValuationResult{}, fmt.Errorf("failed to deposit %s: %w", a.Denom, err)
		}
		if err := app.OracleKeeper.WritePrice(ctx, oracleID, a.Price, a.Expo); err != nil {
			return ValuationResult{}, err
		}

		created, err := ms.CreateSundialCollateral(ctx, &types.MsgCreateSundialCollateralRequest{
			Authority: admin.String(),
			MarketID:  scenarioMarketID,
			ReserveID: reserveID,
			OracleID:  oracleID,
			Config:    config,
		})
		if err != nil {
			return ValuationResult{}, fmt.Errorf("failed to create collateral for %s: %w", a.Denom, err)
		}
		if _, err := ms.RefreshSundialCollateral(ctx, &types.MsgRefreshSundialCollateralRequest{CollateralID: created.CollateralID}); err != nil {
			return ValuationResult{}, fmt.Errorf("failed to refresh collateral for %s: %w", a.Denom, err)
		}
		if _, err := ms.DepositCollateral(ctx, &types.MsgDepositCollateralRequest{
			Owner:        holder.String(),
			MarketID:     scenarioMarketID,
			CollateralID: created.CollateralID,
			Amount:       receipts,
		}); err != nil {
			return ValuationResult{}, fmt.Errorf("failed to deposit collateral %s: %w", a.Denom, err)
		}
		assets = append(assets, AssetValue{Denom: a.Denom, CollateralID: created.CollateralID, Amount: receipts})
	}

	refreshed, err := ms.RefreshSundialProfile(ctx, &types.MsgRefreshSundialProfileRequest{Owner: holder.String(), MarketID: scenarioMarketID})
	if err != nil {
		return ValuationResult{}, fmt.Errorf("failed to refresh profile: %w", err)
	}
	profile, err := app.SundialKeeper.GetProfile(ctx, scenarioMarketID, holder)
	if err != nil {
		return ValuationResult{}, err
	}
	for i := range assets {
		c, err := app.SundialKeeper.GetCollateral(ctx, assets[i].CollateralID)
		if err != nil {
			return ValuationResult{}, err
		}
		assets[i].Price = c.LastPrice
		if idx := profile.CollateralIndex(assets[i].CollateralID); idx >= 0 {
			assets[i].Value = profile.Collaterals[idx].TotalValue
		}
	}
	return ValuationResult{Assets: assets, Health: refreshed.Health}, nil
}

func fund(app *simapp.SimApp, ctx sdk.Context, addr sdk.AccAddress, denom string, amount int64) error {
	if err := app.FundAccount(ctx, addr, sdk.NewCoins(sdk.NewInt64Coin(denom, amount))); err != nil {
		return fmt.Errorf("failed to fund %s with %d%s: %w", addr, amount, denom, err)
	}
	return nil
}
