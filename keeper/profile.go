package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
	"github.com/provlabs/sundial/utils"
)

// CreateSundialProfile opens an empty borrowing profile for owner in a market.
func (k *Keeper) CreateSundialProfile(ctx sdk.Context, owner sdk.AccAddress, marketID string) (types.SundialProfile, error) {
	if _, err := k.GetMarket(ctx, marketID); err != nil {
		return types.SundialProfile{}, err
	}
	has, err := k.Profiles.Has(ctx, collections.Join(marketID, owner))
	if err != nil {
		return types.SundialProfile{}, err
	}
	if has {
		return types.SundialProfile{}, errorsmod.Wrapf(types.ErrAlreadyExists, "profile of %s in market %q", owner, marketID)
	}

	p := types.NewSundialProfile(owner, marketID)
	if err := k.SetProfile(ctx, p); err != nil {
		return types.SundialProfile{}, err
	}

	k.emitEvent(ctx, types.NewEventProfileCreated(marketID, p.Owner))
	return p, nil
}

// RefreshSundialProfile revalues every entry of a profile at the current slot. Each referenced
// collateral must itself have been refreshed in this slot and every loan oracle must be fresh.
func (k *Keeper) RefreshSundialProfile(ctx sdk.Context, owner sdk.AccAddress, marketID string) (types.ProfileHealth, error) {
	p, err := k.GetProfile(ctx, marketID, owner)
	if err != nil {
		return types.ProfileHealth{}, err
	}

	for i := range p.Collaterals {
		c, err := k.GetCollateral(ctx, p.Collaterals[i].CollateralID)
		if err != nil {
			return types.ProfileHealth{}, err
		}
		if err := requireSameMarket(p.MarketID, c.MarketID, "collateral "+c.ID); err != nil {
			return types.ProfileHealth{}, err
		}
		if err := k.valueCollateralEntry(ctx, c, &p.Collaterals[i]); err != nil {
			return types.ProfileHealth{}, err
		}
	}
	for i := range p.Loans {
		s, err := k.GetSundial(ctx, p.Loans[i].SundialID)
		if err != nil {
			return types.ProfileHealth{}, err
		}
		if err := requireSameMarket(p.MarketID, s.MarketID, "sundial "+s.ID); err != nil {
			return types.ProfileHealth{}, err
		}
		if err := k.valueLoanEntry(ctx, s, &p.Loans[i]); err != nil {
			return types.ProfileHealth{}, err
		}
	}

	p.LastUpdatedSlot = ctx.BlockHeight()
	if err := k.SetProfile(ctx, p); err != nil {
		return types.ProfileHealth{}, err
	}
	health, err := p.Health(ctx.BlockTime().Unix())
	if err != nil {
		return types.ProfileHealth{}, err
	}

	k.observeUtilization(marketID, health)
	k.emitEvent(ctx, types.NewEventProfileRefreshed(marketID, p.Owner, health, p.LastUpdatedSlot))
	return health, nil
}

// DepositCollateral moves collateral from owner into the collateral vault and credits the profile.
// The entry is valued immediately when the collateral is fresh, otherwise it awaits a refresh.
func (k *Keeper) DepositCollateral(ctx sdk.Context, owner sdk.AccAddress, marketID, collateralID string, amount math.Int) error {
	if !amount.IsPositive() {
		return errorsmod.Wrapf(types.ErrInvalidRequest, "deposit amount %s must be positive", amount)
	}
	p, err := k.GetProfile(ctx, marketID, owner)
	if err != nil {
		return err
	}
	c, err := k.GetCollateral(ctx, collateralID)
	if err != nil {
		return err
	}
	if err := requireSameMarket(p.MarketID, c.MarketID, "collateral "+c.ID); err != nil {
		return err
	}
	if !c.WithinCap(amount) {
		return errorsmod.Wrapf(types.ErrCapacityExceeded, "depositing %s exceeds collateral cap %s", amount, c.Config.LiquidityCap)
	}

	idx := p.CollateralIndex(c.ID)
	if idx < 0 {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if uint32(len(p.Collaterals)) >= params.MaxCollateralEntries {
			return errorsmod.Wrapf(types.ErrCapacityExceeded, "profile already holds %d collateral entries", len(p.Collaterals))
		}
		p.Collaterals = append(p.Collaterals, types.CollateralEntry{CollateralID: c.ID, Amount: math.ZeroInt()})
		idx = len(p.Collaterals) - 1
	}

	if err := k.BankKeeper.SendCoins(ctx, owner, c.VaultAddress(), sdk.NewCoins(sdk.NewCoin(c.CollateralDenom, amount))); err != nil {
		return fmt.Errorf("failed to deposit collateral: %w", err)
	}

	entry := &p.Collaterals[idx]
	entry.Amount = entry.Amount.Add(amount)
	if c.IsFresh(ctx.BlockHeight()) {
		if err := k.valueCollateralEntry(ctx, c, entry); err != nil {
			return err
		}
	} else {
		entry.Config = c.Config
		entry.ConfigVersion = c.ConfigVersion
		entry.TotalValue = utils.ZeroWad()
		entry.ValuedAtSlot = 0
	}
	if err := k.SetProfile(ctx, p); err != nil {
		return err
	}

	c.TotalDeposited = c.TotalDeposited.Add(amount)
	if err := k.Collaterals.Set(ctx, c.ID, c); err != nil {
		return err
	}

	k.emitEvent(ctx, types.NewEventCollateralDeposited(c.ID, p.Owner, amount))
	return nil
}

// WithdrawCollateral returns collateral to owner. A profile with loans must stay within its
// borrow capacity afterwards, so it has to be fresh at the current slot.
func (k *Keeper) WithdrawCollateral(ctx sdk.Context, owner sdk.AccAddress, marketID, collateralID string, amount math.Int) error {
	if !amount.IsPositive() {
		return errorsmod.Wrapf(types.ErrInvalidRequest, "withdraw amount %s must be positive", amount)
	}
	p, err := k.GetProfile(ctx, marketID, owner)
	if err != nil {
		return err
	}
	idx := p.CollateralIndex(collateralID)
	if idx < 0 {
		return errorsmod.Wrapf(types.ErrNotFound, "profile holds no collateral %s", collateralID)
	}
	entry := &p.Collaterals[idx]
	if amount.GT(entry.Amount) {
		return errorsmod.Wrapf(types.ErrInvalidRequest, "withdraw %s exceeds deposit %s", amount, entry.Amount)
	}
	c, err := k.GetCollateral(ctx, collateralID)
	if err != nil {
		return err
	}

	if len(p.Loans) > 0 {
		if err := k.requireFreshProfile(ctx, p); err != nil {
			return err
		}
	}

	entry.Amount = entry.Amount.Sub(amount)
	if c.IsFresh(ctx.BlockHeight()) {
		if err := k.valueCollateralEntry(ctx, c, entry); err != nil {
			return err
		}
	} else {
		entry.TotalValue = utils.ZeroWad()
		entry.ValuedAtSlot = 0
	}

	if len(p.Loans) > 0 {
		health, err := p.Health(ctx.BlockTime().Unix())
		if err != nil {
			return err
		}
		if !health.CanBorrow() || health.IsLiquidatable() {
			return errorsmod.Wrapf(types.ErrInsufficientCollateral, "loans %s would exceed capacity %s", health.LoanValue, health.BorrowCapacity)
		}
	}

	if err := k.BankKeeper.SendCoins(ctx, c.VaultAddress(), owner, sdk.NewCoins(sdk.NewCoin(c.CollateralDenom, amount))); err != nil {
		return fmt.Errorf("failed to withdraw collateral: %w", err)
	}
	if err := k.SetProfile(ctx, p); err != nil {
		return err
	}
	c.TotalDeposited = c.TotalDeposited.Sub(amount)
	if err := k.Collaterals.Set(ctx, c.ID, c); err != nil {
		return err
	}

	k.emitEvent(ctx, types.NewEventCollateralWithdrawn(c.ID, p.Owner, amount))
	return nil
}

// MintWithCollateral borrows amount principal of a sundial against the profile's collateral.
// The profile must be fresh at the current slot and stay within its borrow capacity.
func (k *Keeper) MintWithCollateral(ctx sdk.Context, owner sdk.AccAddress, marketID, sundialID string, amount math.Int) (principal, fee sdk.Coin, err error) {
	if !amount.IsPositive() {
		return principal, fee, errorsmod.Wrapf(types.ErrInvalidRequest, "borrow amount %s must be positive", amount)
	}
	p, err := k.GetProfile(ctx, marketID, owner)
	if err != nil {
		return principal, fee, err
	}
	s, err := k.GetSundial(ctx, sundialID)
	if err != nil {
		return principal, fee, err
	}
	if err := requireSameMarket(p.MarketID, s.MarketID, "sundial "+s.ID); err != nil {
		return principal, fee, err
	}
	if s.IsMatured(ctx.BlockTime().Unix()) {
		return principal, fee, errorsmod.Wrapf(types.ErrMarketMatured, "sundial %s matured at %d", s.ID, s.EndTimestamp)
	}
	if err := k.requireFreshProfile(ctx, p); err != nil {
		return principal, fee, err
	}

	idx := p.LoanIndex(s.ID)
	if idx < 0 {
		params, err := k.GetParams(ctx)
		if err != nil {
			return principal, fee, err
		}
		if uint32(len(p.Loans)) >= params.MaxLoanEntries {
			return principal, fee, errorsmod.Wrapf(types.ErrCapacityExceeded, "profile already holds %d loans", len(p.Loans))
		}
		p.Loans = append(p.Loans, types.LoanEntry{SundialID: s.ID, Amount: math.ZeroInt()})
		idx = len(p.Loans) - 1
	}
	entry := &p.Loans[idx]
	entry.Amount = entry.Amount.Add(amount)
	if err := k.valueLoanEntry(ctx, s, entry); err != nil {
		return principal, fee, err
	}

	health, err := p.Health(ctx.BlockTime().Unix())
	if err != nil {
		return principal, fee, err
	}
	if !health.CanBorrow() || health.IsLiquidatable() {
		return principal, fee, errorsmod.Wrapf(types.ErrInsufficientCollateral, "loans %s would exceed capacity %s", health.LoanValue, health.BorrowCapacity)
	}

	principal, fee, err = k.mintLoanPrincipal(ctx, &s, owner, amount)
	if err != nil {
		return principal, fee, err
	}
	if err := k.SetProfile(ctx, p); err != nil {
		return principal, fee, err
	}

	k.observeUtilization(marketID, health)
	k.emitEvent(ctx, types.NewEventLoanMinted(s.ID, p.Owner, amount, fee.Amount))
	return principal, fee, nil
}

// RepayLoan pays liquidity into the sundial pool against a loan. Amounts above the
// outstanding loan are capped. It returns the amount repaid.
func (k *Keeper) RepayLoan(ctx sdk.Context, owner sdk.AccAddress, marketID, sundialID string, amount math.Int) (math.Int, error) {
	if !amount.IsPositive() {
		return math.Int{}, errorsmod.Wrapf(types.ErrInvalidRequest, "repay amount %s must be positive", amount)
	}
	p, err := k.GetProfile(ctx, marketID, owner)
	if err != nil {
		return math.Int{}, err
	}
	idx := p.LoanIndex(sundialID)
	if idx < 0 {
		return math.Int{}, errorsmod.Wrapf(types.ErrNotFound, "profile holds no loan in sundial %s", sundialID)
	}
	s, err := k.GetSundial(ctx, sundialID)
	if err != nil {
		return math.Int{}, err
	}

	entry := &p.Loans[idx]
	repay := math.MinInt(amount, entry.Amount)
	if err := k.BankKeeper.SendCoins(ctx, owner, s.Address(), sdk.NewCoins(sdk.NewCoin(s.LiquidityDenom, repay))); err != nil {
		return math.Int{}, fmt.Errorf("failed to repay loan: %w", err)
	}
	if err := reduceLoan(entry, repay); err != nil {
		return math.Int{}, err
	}
	if err := k.SetProfile(ctx, p); err != nil {
		return math.Int{}, err
	}

	k.emitEvent(ctx, types.NewEventLoanRepaid(s.ID, p.Owner, repay))
	return repay, nil
}

// Liquidate repays part of an unhealthy profile's loan on its behalf and seizes collateral
// worth the repaid value plus the collateral's liquidation penalty.
func (k *Keeper) Liquidate(ctx sdk.Context, liquidator sdk.AccAddress, msg types.MsgLiquidateRequest) (repaid, seized sdk.Coin, err error) {
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return repaid, seized, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	if !msg.RepayAmount.IsPositive() {
		return repaid, seized, errorsmod.Wrapf(types.ErrInvalidRequest, "repay amount %s must be positive", msg.RepayAmount)
	}
	p, err := k.GetProfile(ctx, msg.MarketID, owner)
	if err != nil {
		return repaid, seized, err
	}
	if err := k.requireFreshProfile(ctx, p); err != nil {
		return repaid, seized, err
	}
	health, err := p.Health(ctx.BlockTime().Unix())
	if err != nil {
		return repaid, seized, err
	}
	if !health.IsLiquidatable() {
		return repaid, seized, errorsmod.Wrapf(types.ErrNotLiquidatable, "loans %s within liquidation capacity %s", health.LoanValue, health.LiquidationCapacity)
	}

	loanIdx := p.LoanIndex(msg.SundialID)
	if loanIdx < 0 {
		return repaid, seized, errorsmod.Wrapf(types.ErrNotFound, "profile holds no loan in sundial %s", msg.SundialID)
	}
	collIdx := p.CollateralIndex(msg.CollateralID)
	if collIdx < 0 {
		return repaid, seized, errorsmod.Wrapf(types.ErrNotFound, "profile holds no collateral %s", msg.CollateralID)
	}
	s, err := k.GetSundial(ctx, msg.SundialID)
	if err != nil {
		return repaid, seized, err
	}
	c, err := k.GetCollateral(ctx, msg.CollateralID)
	if err != nil {
		return repaid, seized, err
	}

	loan := &p.Loans[loanIdx]
	coll := &p.Collaterals[collIdx]
	repay := math.MinInt(msg.RepayAmount, loan.Amount)

	price, err := k.freshOraclePrice(ctx, s.OracleID)
	if err != nil {
		return repaid, seized, err
	}
	decimals, err := k.denomDecimals(ctx, s.LiquidityDenom)
	if err != nil {
		return repaid, seized, err
	}
	repayValue, err := NormalizedValue(repay, price, decimals)
	if err != nil {
		return repaid, seized, err
	}
	seizeValue, err := repayValue.MulPercent(100 + c.Config.LiquidationPenalty)
	if err != nil {
		return repaid, seized, types.OverflowErr("seize value", err)
	}
	seize, err := seizeValue.AmountAt(c.LastPrice, c.Decimals)
	if err != nil {
		return repaid, seized, types.OverflowErr("seize amount", err)
	}
	seize = math.MinInt(seize, coll.Amount)

	repaid = sdk.NewCoin(s.LiquidityDenom, repay)
	seized = sdk.NewCoin(c.CollateralDenom, seize)
	if err := k.BankKeeper.SendCoins(ctx, liquidator, s.Address(), sdk.NewCoins(repaid)); err != nil {
		return repaid, seized, fmt.Errorf("failed to repay loan: %w", err)
	}
	if seize.IsPositive() {
		if err := k.BankKeeper.SendCoins(ctx, c.VaultAddress(), liquidator, sdk.NewCoins(seized)); err != nil {
			return repaid, seized, fmt.Errorf("failed to seize collateral: %w", err)
		}
	}

	if err := reduceLoan(loan, repay); err != nil {
		return repaid, seized, err
	}
	coll.Amount = coll.Amount.Sub(seize)
	if err := k.valueCollateralEntry(ctx, c, coll); err != nil {
		return repaid, seized, err
	}
	if err := k.SetProfile(ctx, p); err != nil {
		return repaid, seized, err
	}
	c.TotalDeposited = c.TotalDeposited.Sub(seize)
	if err := k.Collaterals.Set(ctx, c.ID, c); err != nil {
		return repaid, seized, err
	}

	k.metrics.IncLiquidations()
	k.getLogger(ctx).Info("profile liquidated", "market", p.MarketID, "owner", p.Owner, "repaid", repaid.String(), "seized", seized.String())
	k.emitEvent(ctx, types.NewEventLiquidated(s.ID, c.ID, p.Owner, liquidator.String(), repay, seize))
	return repaid, seized, nil
}

// GetProfileHealth returns the health of a profile from its stored values.
func (k Keeper) GetProfileHealth(ctx sdk.Context, marketID string, owner sdk.AccAddress) (types.SundialProfile, types.ProfileHealth, error) {
	p, err := k.GetProfile(ctx, marketID, owner)
	if err != nil {
		return types.SundialProfile{}, types.ProfileHealth{}, err
	}
	health, err := p.Health(ctx.BlockTime().Unix())
	return p, health, err
}

// requireFreshProfile checks that the profile and every entry were valued at the current slot
// under the current config of a collateral that is itself fresh.
func (k Keeper) requireFreshProfile(ctx sdk.Context, p types.SundialProfile) error {
	slot := ctx.BlockHeight()
	if p.LastUpdatedSlot != slot {
		return errorsmod.Wrapf(types.ErrStaleSource, "profile refreshed at slot %d, current slot %d", p.LastUpdatedSlot, slot)
	}
	for _, e := range p.Collaterals {
		if e.ValuedAtSlot != slot {
			return errorsmod.Wrapf(types.ErrStaleSource, "collateral entry %s valued at slot %d", e.CollateralID, e.ValuedAtSlot)
		}
		c, err := k.GetCollateral(ctx, e.CollateralID)
		if err != nil {
			return err
		}
		if !c.IsFresh(slot) {
			return errorsmod.Wrapf(types.ErrStaleSource, "collateral %s not refreshed at slot %d", c.ID, slot)
		}
		if e.ConfigVersion != c.ConfigVersion {
			return errorsmod.Wrapf(types.ErrStaleSource, "collateral entry %s valued under config version %d, current %d", c.ID, e.ConfigVersion, c.ConfigVersion)
		}
	}
	for _, e := range p.Loans {
		if e.ValuedAtSlot != slot {
			return errorsmod.Wrapf(types.ErrStaleSource, "loan entry %s valued at slot %d", e.SundialID, e.ValuedAtSlot)
		}
	}
	return nil
}

// valueCollateralEntry revalues an entry from a collateral fresh at the current slot.
func (k Keeper) valueCollateralEntry(ctx sdk.Context, c types.SundialCollateral, e *types.CollateralEntry) error {
	if !c.IsFresh(ctx.BlockHeight()) {
		return errorsmod.Wrapf(types.ErrStaleSource, "collateral %s last refreshed at slot %d", c.ID, c.LastUpdatedSlot)
	}
	value, err := NormalizedValue(e.Amount, c.LastPrice, c.Decimals)
	if err != nil {
		return err
	}
	e.TotalValue = value
	e.Config = c.Config
	e.ConfigVersion = c.ConfigVersion
	e.ValuedAtSlot = ctx.BlockHeight()
	return nil
}

// valueLoanEntry revalues a loan at the sundial's oracle price. Principal shares the liquidity precision.
func (k Keeper) valueLoanEntry(ctx sdk.Context, s types.Sundial, e *types.LoanEntry) error {
	price, err := k.freshOraclePrice(ctx, s.OracleID)
	if err != nil {
		return err
	}
	decimals, err := k.denomDecimals(ctx, s.LiquidityDenom)
	if err != nil {
		return err
	}
	value, err := NormalizedValue(e.Amount, price, decimals)
	if err != nil {
		return err
	}
	e.TotalValue = value
	e.MaturityTimestamp = s.EndTimestamp
	e.OracleID = s.OracleID
	e.ValuedAtSlot = ctx.BlockHeight()
	return nil
}

// reduceLoan lowers a loan by repay and scales its stored value proportionally.
func reduceLoan(e *types.LoanEntry, repay math.Int) error {
	remaining := e.Amount.Sub(repay)
	if e.Amount.IsPositive() {
		value, err := e.TotalValue.MulRatio(remaining, e.Amount)
		if err != nil {
			return types.OverflowErr("loan value", err)
		}
		e.TotalValue = value
	}
	e.Amount = remaining
	return nil
}

func (k Keeper) observeUtilization(marketID string, h types.ProfileHealth) {
	if h.BorrowCapacity.IsZero() {
		return
	}
	ratio, err := h.LoanValue.Quo(h.BorrowCapacity)
	if err != nil {
		return
	}
	k.metrics.SetProfileUtilization(marketID, wadToFloat(ratio))
}

// walkProfiles iterates over every profile.
func (k Keeper) walkProfiles(ctx sdk.Context, fn func(types.SundialProfile) (bool, error)) error {
	return k.Profiles.Walk(ctx, nil, func(_ collections.Pair[string, sdk.AccAddress], p types.SundialProfile) (bool, error) {
		return fn(p)
	})
}
