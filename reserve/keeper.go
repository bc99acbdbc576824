// Package reserve is a minimal yield-bearing lending reserve: depositors
// receive receipt tokens whose exchange rate grows as borrowers accrue interest.
package reserve

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/provlabs/sundial/interest"
	"github.com/provlabs/sundial/types"
)

const (
	// ModuleName is the module account holding reserve liquidity and minting receipts.
	ModuleName = "reserve"
	// StoreKey is the store key of the reserve keeper.
	StoreKey = ModuleName
)

var (
	// ReservesKeyPrefix is the prefix of the reserve collection.
	ReservesKeyPrefix = collections.NewPrefix(0)

	ErrReserveNotFound       = errorsmod.Register(ModuleName, 2, "reserve not found")
	ErrInsufficientLiquidity = errorsmod.Register(ModuleName, 3, "insufficient reserve liquidity")
	ErrInvalidAmount         = errorsmod.Register(ModuleName, 4, "invalid amount")
)

// BankKeeper is the token ledger used by the reserve.
type BankKeeper interface {
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	GetDenomMetaData(ctx context.Context, denom string) (banktypes.Metadata, bool)
	SetDenomMetaData(ctx context.Context, denomMetaData banktypes.Metadata)
}

// Keeper manages reserves.
type Keeper struct {
	schema collections.Schema
	bank   BankKeeper

	Reserves collections.Map[string, Reserve]
}

var _ types.ReserveKeeper = (*Keeper)(nil)

// NewKeeper returns a reserve keeper over its own store.
func NewKeeper(storeService store.KVStoreService, bank BankKeeper) *Keeper {
	builder := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		bank:     bank,
		Reserves: collections.NewMap(builder, ReservesKeyPrefix, "reserves", collections.StringKey, types.JSONValue[Reserve]("reserve")),
	}
	schema, err := builder.Build()
	if err != nil {
		panic(err)
	}
	k.schema = schema
	return k
}

// CreateReserve registers a reserve lending liquidityDenom at a fixed annual rate.
// The receipt denom inherits the liquidity precision.
func (k Keeper) CreateReserve(ctx sdk.Context, reserveID, liquidityDenom string, borrowRateBips uint32) (Reserve, error) {
	if has, err := k.Reserves.Has(ctx, reserveID); err != nil {
		return Reserve{}, err
	} else if has {
		return Reserve{}, errorsmod.Wrapf(types.ErrAlreadyExists, "reserve %s", reserveID)
	}
	md, found := k.bank.GetDenomMetaData(ctx, liquidityDenom)
	if !found {
		return Reserve{}, errorsmod.Wrapf(types.ErrInvalidDenomMetadata, "no metadata for %s", liquidityDenom)
	}
	decimals, err := types.DecimalsFromMetadata(md)
	if err != nil {
		return Reserve{}, err
	}

	r := Reserve{
		ID:                 reserveID,
		LiquidityDenom:     liquidityDenom,
		ReceiptDenom:       ReceiptDenomFor(reserveID),
		BorrowRateBips:     borrowRateBips,
		AvailableLiquidity: math.ZeroInt(),
		BorrowedAmount:     math.LegacyZeroDec(),
		ReceiptSupply:      math.ZeroInt(),
		LastUpdateTime:     ctx.BlockTime().Unix(),
		LastUpdateSlot:     ctx.BlockHeight(),
	}
	if err := r.Validate(); err != nil {
		return Reserve{}, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	if err := sdk.ValidateDenom(r.ReceiptDenom); err != nil {
		return Reserve{}, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	k.bank.SetDenomMetaData(ctx, types.NewMetadata(r.ReceiptDenom, r.ReceiptDenom+"-display", "receipt of reserve "+reserveID, decimals))
	return r, k.Reserves.Set(ctx, reserveID, r)
}

// GetReserve returns a reserve after accruing interest up to the current block time.
func (k Keeper) GetReserve(ctx context.Context, reserveID string) (Reserve, error) {
	r, err := k.Reserves.Get(ctx, reserveID)
	if errors.Is(err, collections.ErrNotFound) {
		return Reserve{}, errorsmod.Wrapf(ErrReserveNotFound, "reserve %s", reserveID)
	}
	if err != nil {
		return Reserve{}, fmt.Errorf("failed to get reserve %s: %w", reserveID, err)
	}
	return k.accrue(ctx, r)
}

// Refresh accrues interest and persists the reserve.
func (k Keeper) Refresh(ctx context.Context, reserveID string) (Reserve, error) {
	r, err := k.GetReserve(ctx, reserveID)
	if err != nil {
		return Reserve{}, err
	}
	return r, k.Reserves.Set(ctx, reserveID, r)
}

// GetReserveDenoms returns the liquidity and receipt denoms of a reserve.
func (k Keeper) GetReserveDenoms(ctx context.Context, reserveID string) (string, string, error) {
	r, err := k.Reserves.Get(ctx, reserveID)
	if errors.Is(err, collections.ErrNotFound) {
		return "", "", errorsmod.Wrapf(ErrReserveNotFound, "reserve %s", reserveID)
	}
	if err != nil {
		return "", "", err
	}
	return r.LiquidityDenom, r.ReceiptDenom, nil
}

// ExchangeRate returns the current liquidity per receipt.
func (k Keeper) ExchangeRate(ctx context.Context, reserveID string) (math.LegacyDec, error) {
	r, err := k.Refresh(ctx, reserveID)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return r.ExchangeRate(), nil
}

// DepositLiquidity moves amount of liquidity from depositor into the reserve and mints receipts to it.
func (k Keeper) DepositLiquidity(ctx context.Context, reserveID string, depositor sdk.AccAddress, amount math.Int) (math.Int, error) {
	if !amount.IsPositive() {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidAmount, "deposit %s", amount)
	}
	r, err := k.GetReserve(ctx, reserveID)
	if err != nil {
		return math.Int{}, err
	}
	receipts := r.ReceiptsForLiquidity(amount)
	if !receipts.IsPositive() {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidAmount, "deposit %s is worth no receipts", amount)
	}

	if err := k.bank.SendCoinsFromAccountToModule(ctx, depositor, ModuleName, sdk.NewCoins(sdk.NewCoin(r.LiquidityDenom, amount))); err != nil {
		return math.Int{}, fmt.Errorf("failed to collect deposit: %w", err)
	}
	receiptCoins := sdk.NewCoins(sdk.NewCoin(r.ReceiptDenom, receipts))
	if err := k.bank.MintCoins(ctx, ModuleName, receiptCoins); err != nil {
		return math.Int{}, fmt.Errorf("failed to mint receipts: %w", err)
	}
	if err := k.bank.SendCoinsFromModuleToAccount(ctx, ModuleName, depositor, receiptCoins); err != nil {
		return math.Int{}, fmt.Errorf("failed to send receipts: %w", err)
	}

	r.AvailableLiquidity = r.AvailableLiquidity.Add(amount)
	r.ReceiptSupply = r.ReceiptSupply.Add(receipts)
	return receipts, k.Reserves.Set(ctx, reserveID, r)
}

// RedeemReceipts burns receipts held by owner and pays out the liquidity they represent.
func (k Keeper) RedeemReceipts(ctx context.Context, reserveID string, owner sdk.AccAddress, receipts math.Int) (math.Int, error) {
	if !receipts.IsPositive() {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidAmount, "redeem %s", receipts)
	}
	r, err := k.GetReserve(ctx, reserveID)
	if err != nil {
		return math.Int{}, err
	}
	if receipts.GT(r.ReceiptSupply) {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidAmount, "redeem %s exceeds supply %s", receipts, r.ReceiptSupply)
	}
	liquidity := r.LiquidityForReceipts(receipts)
	if liquidity.GT(r.AvailableLiquidity) {
		return math.Int{}, errorsmod.Wrapf(ErrInsufficientLiquidity, "need %s, have %s", liquidity, r.AvailableLiquidity)
	}

	receiptCoins := sdk.NewCoins(sdk.NewCoin(r.ReceiptDenom, receipts))
	if err := k.bank.SendCoinsFromAccountToModule(ctx, owner, ModuleName, receiptCoins); err != nil {
		return math.Int{}, fmt.Errorf("failed to collect receipts: %w", err)
	}
	if err := k.bank.BurnCoins(ctx, ModuleName, receiptCoins); err != nil {
		return math.Int{}, fmt.Errorf("failed to burn receipts: %w", err)
	}
	if liquidity.IsPositive() {
		if err := k.bank.SendCoinsFromModuleToAccount(ctx, ModuleName, owner, sdk.NewCoins(sdk.NewCoin(r.LiquidityDenom, liquidity))); err != nil {
			return math.Int{}, fmt.Errorf("failed to pay out liquidity: %w", err)
		}
	}

	r.AvailableLiquidity = r.AvailableLiquidity.Sub(liquidity)
	r.ReceiptSupply = r.ReceiptSupply.Sub(receipts)
	return liquidity, k.Reserves.Set(ctx, reserveID, r)
}

// Borrow lends amount of available liquidity to borrower.
func (k Keeper) Borrow(ctx context.Context, reserveID string, borrower sdk.AccAddress, amount math.Int) error {
	if !amount.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "borrow %s", amount)
	}
	r, err := k.GetReserve(ctx, reserveID)
	if err != nil {
		return err
	}
	if amount.GT(r.AvailableLiquidity) {
		return errorsmod.Wrapf(ErrInsufficientLiquidity, "borrow %s, available %s", amount, r.AvailableLiquidity)
	}
	if err := k.bank.SendCoinsFromModuleToAccount(ctx, ModuleName, borrower, sdk.NewCoins(sdk.NewCoin(r.LiquidityDenom, amount))); err != nil {
		return fmt.Errorf("failed to send borrowed liquidity: %w", err)
	}
	r.AvailableLiquidity = r.AvailableLiquidity.Sub(amount)
	r.BorrowedAmount = r.BorrowedAmount.Add(math.LegacyNewDecFromInt(amount))
	return k.Reserves.Set(ctx, reserveID, r)
}

// Repay returns up to amount of borrowed liquidity from payer and reports how much was applied.
func (k Keeper) Repay(ctx context.Context, reserveID string, payer sdk.AccAddress, amount math.Int) (math.Int, error) {
	if !amount.IsPositive() {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidAmount, "repay %s", amount)
	}
	r, err := k.GetReserve(ctx, reserveID)
	if err != nil {
		return math.Int{}, err
	}
	owed := r.BorrowedAmount.Ceil().TruncateInt()
	if amount.GT(owed) {
		amount = owed
	}
	if amount.IsZero() {
		return amount, nil
	}
	if err := k.bank.SendCoinsFromAccountToModule(ctx, payer, ModuleName, sdk.NewCoins(sdk.NewCoin(r.LiquidityDenom, amount))); err != nil {
		return math.Int{}, fmt.Errorf("failed to collect repayment: %w", err)
	}
	r.AvailableLiquidity = r.AvailableLiquidity.Add(amount)
	r.BorrowedAmount = r.BorrowedAmount.Sub(math.LegacyNewDecFromInt(amount))
	if r.BorrowedAmount.IsNegative() {
		r.BorrowedAmount = math.LegacyZeroDec()
	}
	return amount, k.Reserves.Set(ctx, reserveID, r)
}

func (k Keeper) accrue(ctx context.Context, r Reserve) (Reserve, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	now := sdkCtx.BlockTime().Unix()
	elapsed := now - r.LastUpdateTime
	if elapsed < 0 {
		elapsed = 0
	}
	borrowed, err := interest.AccrueBorrowed(r.BorrowedAmount, r.BorrowRateBips, elapsed)
	if err != nil {
		return Reserve{}, fmt.Errorf("failed to accrue reserve %s: %w", r.ID, err)
	}
	r.BorrowedAmount = borrowed
	if now > r.LastUpdateTime {
		r.LastUpdateTime = now
	}
	r.LastUpdateSlot = sdkCtx.BlockHeight()
	return r, nil
}
