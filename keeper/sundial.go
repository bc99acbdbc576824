package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sundial/types"
	"github.com/provlabs/sundial/utils"
)

// CreateSundial creates a sundial over a reserve maturing DurationSeconds after the current block time.
//
// It performs the following steps:
//  1. Checks that the creator administers the market.
//  2. Resolves the reserve's liquidity and receipt denoms.
//  3. Derives the sundial id from the market, liquidity denom and maturity.
//  4. Registers principal and yield denom metadata with the liquidity precision.
//  5. Disables bank sends of the yield denom. Yield tokens only move with their
//     weight through TransferYieldPosition.
//  6. Stores the sundial and schedules its maturity.
func (k *Keeper) CreateSundial(ctx sdk.Context, msg types.MsgCreateSundialRequest) (types.Sundial, error) {
	if _, err := k.requireMarketAdmin(ctx, msg.MarketID, msg.Authority); err != nil {
		return types.Sundial{}, err
	}

	liquidityDenom, receiptDenom, err := k.ReserveKeeper.GetReserveDenoms(ctx, msg.ReserveID)
	if err != nil {
		return types.Sundial{}, fmt.Errorf("failed to resolve reserve %q: %w", msg.ReserveID, err)
	}
	decimals, err := k.denomDecimals(ctx, liquidityDenom)
	if err != nil {
		return types.Sundial{}, err
	}

	start := ctx.BlockTime().Unix()
	s := types.NewSundial(msg.MarketID, msg.ReserveID, msg.OracleID, liquidityDenom, receiptDenom,
		start, start+msg.DurationSeconds, msg.LendingFeeBips, msg.BorrowingFeeBips, msg.LiquidityCap)
	if err := s.Validate(); err != nil {
		return types.Sundial{}, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}

	has, err := k.Sundials.Has(ctx, s.ID)
	if err != nil {
		return types.Sundial{}, err
	}
	if has {
		return types.Sundial{}, errorsmod.Wrapf(types.ErrAlreadyExists, "sundial %s for %s maturing at %d", s.ID, liquidityDenom, s.EndTimestamp)
	}

	k.BankKeeper.SetDenomMetaData(ctx, types.NewMetadata(s.PrincipalDenom, s.PrincipalDenom+"-display",
		fmt.Sprintf("principal of %s maturing at %d", liquidityDenom, s.EndTimestamp), decimals))
	k.BankKeeper.SetDenomMetaData(ctx, types.NewMetadata(s.YieldDenom, s.YieldDenom+"-display",
		fmt.Sprintf("yield of %s maturing at %d", liquidityDenom, s.EndTimestamp), decimals))
	k.BankKeeper.SetSendEnabled(ctx, s.YieldDenom, false)

	if err := k.Sundials.Set(ctx, s); err != nil {
		return types.Sundial{}, fmt.Errorf("failed to store sundial: %w", err)
	}
	if err := k.MaturityQueue.Schedule(ctx, s.EndTimestamp, s.ID); err != nil {
		return types.Sundial{}, fmt.Errorf("failed to schedule maturity: %w", err)
	}

	k.metrics.IncOpenSundials()
	k.getLogger(ctx).Info("sundial created", "id", s.ID, "market", s.MarketID, "end", s.EndTimestamp)
	k.emitEvent(ctx, types.NewEventSundialCreated(s))
	return s, nil
}

// MintPrincipalAndYield deposits amount of liquidity into the sundial's reserve and
// mints amount principal and amount yield tokens to the depositor. The lending fee is
// taken from the principal. The yield position records amount * (end - now) of weight.
func (k *Keeper) MintPrincipalAndYield(ctx sdk.Context, owner sdk.AccAddress, sundialID string, amount math.Int) (principal, yield, fee sdk.Coin, err error) {
	s, err := k.GetSundial(ctx, sundialID)
	if err != nil {
		return principal, yield, fee, err
	}
	now := ctx.BlockTime().Unix()
	if s.IsMatured(now) {
		return principal, yield, fee, errorsmod.Wrapf(types.ErrMarketMatured, "sundial %s matured at %d", s.ID, s.EndTimestamp)
	}
	if !amount.IsPositive() {
		return principal, yield, fee, errorsmod.Wrapf(types.ErrInvalidRequest, "mint amount %s must be positive", amount)
	}
	if !s.WithinCap(amount) {
		return principal, yield, fee, errorsmod.Wrapf(types.ErrCapacityExceeded, "minting %s exceeds liquidity cap %s", amount, s.LiquidityCap)
	}

	weight, err := utils.YieldWeight(amount, now, s.EndTimestamp)
	if err != nil {
		return principal, yield, fee, types.OverflowErr("yield weight", err)
	}
	feeAmt, userAmt, err := utils.ApplyBips(amount, s.LendingFeeBips)
	if err != nil {
		return principal, yield, fee, types.OverflowErr("lending fee", err)
	}

	sundialAddr := s.Address()
	if err := k.BankKeeper.SendCoins(ctx, owner, sundialAddr, sdk.NewCoins(sdk.NewCoin(s.LiquidityDenom, amount))); err != nil {
		return principal, yield, fee, fmt.Errorf("failed to collect liquidity: %w", err)
	}
	receipts, err := k.ReserveKeeper.DepositLiquidity(ctx, s.ReserveID, sundialAddr, amount)
	if err != nil {
		return principal, yield, fee, fmt.Errorf("failed to deposit into reserve: %w", err)
	}

	principal = sdk.NewCoin(s.PrincipalDenom, userAmt)
	yield = sdk.NewCoin(s.YieldDenom, amount)
	fee = sdk.NewCoin(s.PrincipalDenom, feeAmt)
	if err := k.BankKeeper.MintCoins(ctx, types.ModuleName, sdk.NewCoins(sdk.NewCoin(s.PrincipalDenom, amount), yield)); err != nil {
		return principal, yield, fee, fmt.Errorf("failed to mint principal and yield: %w", err)
	}
	if err := k.BankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, owner, sdk.NewCoins(principal, yield)); err != nil {
		return principal, yield, fee, fmt.Errorf("failed to send principal and yield: %w", err)
	}
	if feeAmt.IsPositive() {
		if err := k.BankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, types.FeeCollectorName, sdk.NewCoins(fee)); err != nil {
			return principal, yield, fee, fmt.Errorf("failed to collect lending fee: %w", err)
		}
	}

	pos, err := k.GetYieldPosition(ctx, s.ID, owner)
	if err != nil {
		return principal, yield, fee, err
	}
	pos.Amount = pos.Amount.Add(amount)
	pos.Weight = pos.Weight.Add(weight)
	if err := k.SetYieldPosition(ctx, s.ID, owner, pos); err != nil {
		return principal, yield, fee, err
	}

	s.TotalPrincipalIssued = s.TotalPrincipalIssued.Add(amount)
	s.TotalYieldIssued = s.TotalYieldIssued.Add(amount)
	s.TotalYieldWeight = s.TotalYieldWeight.Add(weight)
	s.ReceiptBalance = s.ReceiptBalance.Add(receipts)
	if err := k.Sundials.Set(ctx, s); err != nil {
		return principal, yield, fee, err
	}

	k.emitEvent(ctx, types.NewEventMintPrincipalAndYield(s.ID, owner.String(), amount, feeAmt, receipts, weight))
	return principal, yield, fee, nil
}

// RedeemReserve redeems every receipt held for a matured sundial and fixes the
// accrued yield. Calls after the first return the recorded figures unchanged.
func (k *Keeper) RedeemReserve(ctx sdk.Context, sundialID string) (types.Sundial, error) {
	s, err := k.GetSundial(ctx, sundialID)
	if err != nil {
		return types.Sundial{}, err
	}
	if !s.IsMatured(ctx.BlockTime().Unix()) {
		return types.Sundial{}, errorsmod.Wrapf(types.ErrMarketNotMatured, "sundial %s matures at %d", s.ID, s.EndTimestamp)
	}
	if s.ReserveRedeemed {
		return s, nil
	}

	liquidity := math.ZeroInt()
	if s.ReceiptBalance.IsPositive() {
		liquidity, err = k.ReserveKeeper.RedeemReceipts(ctx, s.ReserveID, s.Address(), s.ReceiptBalance)
		if err != nil {
			return types.Sundial{}, fmt.Errorf("failed to redeem reserve receipts: %w", err)
		}
	}

	accrued := math.ZeroInt()
	if liquidity.GT(s.TotalPrincipalIssued) {
		accrued = liquidity.Sub(s.TotalPrincipalIssued)
	}

	redeemed := s.ReceiptBalance
	s.ReserveRedeemed = true
	s.ReceiptBalance = math.ZeroInt()
	s.FinalLiquidity = liquidity
	s.TotalYieldAccrued = accrued
	s.RemainingYield = accrued
	s.RemainingYieldWeight = s.TotalYieldWeight
	if err := k.Sundials.Set(ctx, s); err != nil {
		return types.Sundial{}, err
	}

	k.getLogger(ctx).Info("sundial reserve redeemed", "id", s.ID, "liquidity", liquidity.String(), "yield", accrued.String())
	k.emitEvent(ctx, types.NewEventReserveRedeemed(s.ID, redeemed, liquidity, accrued))
	return s, nil
}

// requireRedeemable returns the sundial once it has matured and its reserve was redeemed.
func (k Keeper) requireRedeemable(ctx sdk.Context, sundialID string) (types.Sundial, error) {
	s, err := k.GetSundial(ctx, sundialID)
	if err != nil {
		return types.Sundial{}, err
	}
	if !s.IsMatured(ctx.BlockTime().Unix()) {
		return types.Sundial{}, errorsmod.Wrapf(types.ErrMarketNotMatured, "sundial %s matures at %d", s.ID, s.EndTimestamp)
	}
	if !s.ReserveRedeemed {
		return types.Sundial{}, errorsmod.Wrapf(types.ErrReserveNotRedeemed, "sundial %s", s.ID)
	}
	return s, nil
}

// RedeemPrincipal burns amount principal tokens of owner and pays the same amount of liquidity
// from the sundial pool. Liquidity set aside for unredeemed yield is never paid out.
func (k *Keeper) RedeemPrincipal(ctx sdk.Context, owner sdk.AccAddress, sundialID string, amount math.Int) (sdk.Coin, error) {
	s, err := k.requireRedeemable(ctx, sundialID)
	if err != nil {
		return sdk.Coin{}, err
	}
	if !amount.IsPositive() {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidRequest, "redeem amount %s must be positive", amount)
	}

	sundialAddr := s.Address()
	pooled := k.BankKeeper.GetBalance(ctx, sundialAddr, s.LiquidityDenom).Amount
	available := math.ZeroInt()
	if pooled.GT(s.RemainingYield) {
		available = pooled.Sub(s.RemainingYield)
	}
	if amount.GT(available) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInsufficientLiquidity, "redeem %s, available %s", amount, available)
	}

	burn := sdk.NewCoins(sdk.NewCoin(s.PrincipalDenom, amount))
	if err := k.BankKeeper.SendCoinsFromAccountToModule(ctx, owner, types.ModuleName, burn); err != nil {
		return sdk.Coin{}, fmt.Errorf("failed to collect principal tokens: %w", err)
	}
	if err := k.BankKeeper.BurnCoins(ctx, types.ModuleName, burn); err != nil {
		return sdk.Coin{}, fmt.Errorf("failed to burn principal tokens: %w", err)
	}
	payout := sdk.NewCoin(s.LiquidityDenom, amount)
	if err := k.BankKeeper.SendCoins(ctx, sundialAddr, owner, sdk.NewCoins(payout)); err != nil {
		return sdk.Coin{}, fmt.Errorf("failed to pay principal: %w", err)
	}

	k.emitEvent(ctx, types.NewEventPrincipalRedeemed(s.ID, owner.String(), amount))
	return payout, nil
}

// RedeemYield burns amount yield tokens of owner and pays their time-weighted share of the
// remaining accrued yield:
//
//	w      = positionWeight * amount / positionAmount
//	payout = w * remainingYield / remainingWeight
func (k *Keeper) RedeemYield(ctx sdk.Context, owner sdk.AccAddress, sundialID string, amount math.Int) (sdk.Coin, error) {
	s, err := k.requireRedeemable(ctx, sundialID)
	if err != nil {
		return sdk.Coin{}, err
	}
	if !amount.IsPositive() {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidRequest, "redeem amount %s must be positive", amount)
	}

	pos, err := k.GetYieldPosition(ctx, s.ID, owner)
	if err != nil {
		return sdk.Coin{}, err
	}
	if amount.GT(pos.Amount) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidRequest, "redeem %s exceeds yield position %s", amount, pos.Amount)
	}

	weight, err := utils.WeightForAmount(amount, pos.Amount, pos.Weight)
	if err != nil {
		return sdk.Coin{}, types.OverflowErr("yield weight", err)
	}
	paid, err := utils.CalculateYieldPayout(weight, s.RemainingYieldWeight, s.RemainingYield)
	if err != nil {
		return sdk.Coin{}, types.OverflowErr("yield payout", err)
	}

	burn := sdk.NewCoins(sdk.NewCoin(s.YieldDenom, amount))
	if err := k.BankKeeper.SendCoinsFromAccountToModule(ctx, owner, types.ModuleName, burn); err != nil {
		return sdk.Coin{}, fmt.Errorf("failed to collect yield tokens: %w", err)
	}
	if err := k.BankKeeper.BurnCoins(ctx, types.ModuleName, burn); err != nil {
		return sdk.Coin{}, fmt.Errorf("failed to burn yield tokens: %w", err)
	}
	payout := sdk.NewCoin(s.LiquidityDenom, paid)
	if paid.IsPositive() {
		if err := k.BankKeeper.SendCoins(ctx, s.Address(), owner, sdk.NewCoins(payout)); err != nil {
			return sdk.Coin{}, fmt.Errorf("failed to pay yield: %w", err)
		}
	}

	pos.Amount = pos.Amount.Sub(amount)
	pos.Weight = pos.Weight.Sub(weight)
	if err := k.SetYieldPosition(ctx, s.ID, owner, pos); err != nil {
		return sdk.Coin{}, err
	}
	s.RemainingYield = s.RemainingYield.Sub(paid)
	s.RemainingYieldWeight = s.RemainingYieldWeight.Sub(weight)
	if err := k.Sundials.Set(ctx, s); err != nil {
		return sdk.Coin{}, err
	}

	if f, err := paid.ToLegacyDec().Float64(); err == nil {
		k.metrics.AddYieldPaid(s.LiquidityDenom, f)
	}
	k.emitEvent(ctx, types.NewEventYieldRedeemed(s.ID, owner.String(), amount, weight, paid))
	return payout, nil
}

// TransferYieldPosition moves amount yield tokens from owner to recipient together with
// the share of time weight they carry.
func (k *Keeper) TransferYieldPosition(ctx sdk.Context, owner, recipient sdk.AccAddress, sundialID string, amount math.Int) error {
	s, err := k.GetSundial(ctx, sundialID)
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errorsmod.Wrapf(types.ErrInvalidRequest, "transfer amount %s must be positive", amount)
	}
	if owner.Equals(recipient) {
		return errorsmod.Wrap(types.ErrInvalidRequest, "recipient must differ from owner")
	}

	from, err := k.GetYieldPosition(ctx, s.ID, owner)
	if err != nil {
		return err
	}
	if amount.GT(from.Amount) {
		return errorsmod.Wrapf(types.ErrInvalidRequest, "transfer %s exceeds yield position %s", amount, from.Amount)
	}
	weight, err := utils.WeightForAmount(amount, from.Amount, from.Weight)
	if err != nil {
		return types.OverflowErr("yield weight", err)
	}

	if err := k.BankKeeper.SendCoins(ctx, owner, recipient, sdk.NewCoins(sdk.NewCoin(s.YieldDenom, amount))); err != nil {
		return fmt.Errorf("failed to transfer yield tokens: %w", err)
	}

	to, err := k.GetYieldPosition(ctx, s.ID, recipient)
	if err != nil {
		return err
	}
	from.Amount = from.Amount.Sub(amount)
	from.Weight = from.Weight.Sub(weight)
	to.Amount = to.Amount.Add(amount)
	to.Weight = to.Weight.Add(weight)
	if err := k.SetYieldPosition(ctx, s.ID, owner, from); err != nil {
		return err
	}
	if err := k.SetYieldPosition(ctx, s.ID, recipient, to); err != nil {
		return err
	}

	k.emitEvent(ctx, types.NewEventYieldPositionTransferred(s.ID, owner.String(), recipient.String(), amount, weight))
	return nil
}

// mintLoanPrincipal mints amount principal tokens to a borrower. The borrowing fee is
// taken from the minted principal.
func (k *Keeper) mintLoanPrincipal(ctx sdk.Context, s *types.Sundial, borrower sdk.AccAddress, amount math.Int) (principal, fee sdk.Coin, err error) {
	if s.IsMatured(ctx.BlockTime().Unix()) {
		return principal, fee, errorsmod.Wrapf(types.ErrMarketMatured, "sundial %s matured at %d", s.ID, s.EndTimestamp)
	}
	if !s.WithinCap(amount) {
		return principal, fee, errorsmod.Wrapf(types.ErrCapacityExceeded, "borrowing %s exceeds liquidity cap %s", amount, s.LiquidityCap)
	}
	feeAmt, userAmt, err := utils.ApplyBips(amount, s.BorrowingFeeBips)
	if err != nil {
		return principal, fee, types.OverflowErr("borrowing fee", err)
	}

	principal = sdk.NewCoin(s.PrincipalDenom, userAmt)
	fee = sdk.NewCoin(s.PrincipalDenom, feeAmt)
	if err := k.BankKeeper.MintCoins(ctx, types.ModuleName, sdk.NewCoins(sdk.NewCoin(s.PrincipalDenom, amount))); err != nil {
		return principal, fee, fmt.Errorf("failed to mint loan principal: %w", err)
	}
	if userAmt.IsPositive() {
		if err := k.BankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, borrower, sdk.NewCoins(principal)); err != nil {
			return principal, fee, fmt.Errorf("failed to send loan principal: %w", err)
		}
	}
	if feeAmt.IsPositive() {
		if err := k.BankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, types.FeeCollectorName, sdk.NewCoins(fee)); err != nil {
			return principal, fee, fmt.Errorf("failed to collect borrowing fee: %w", err)
		}
	}

	s.TotalLoanPrincipalIssued = s.TotalLoanPrincipalIssued.Add(amount)
	return principal, fee, k.Sundials.Set(ctx, *s)
}
