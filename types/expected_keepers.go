package types

import (
	context "context"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// AccountKeeper defines the account functionality needed by the sundial module.
type AccountKeeper interface {
	GetModuleAddress(moduleName string) sdk.AccAddress
}

// BankKeeper defines the token ledger functionality needed by the sundial module.
type BankKeeper interface {
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoins(ctx context.Context, fromAddr sdk.AccAddress, toAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetSupply(ctx context.Context, denom string) sdk.Coin
	GetDenomMetaData(ctx context.Context, denom string) (banktypes.Metadata, bool)
	SetDenomMetaData(ctx context.Context, denomMetaData banktypes.Metadata)
	SetSendEnabled(ctx context.Context, denom string, value bool)
}

// ReserveKeeper is the yield-bearing lending reserve the module deposits into.
type ReserveKeeper interface {
	// GetReserveDenoms returns the liquidity and receipt denoms of a reserve.
	GetReserveDenoms(ctx context.Context, reserveID string) (liquidityDenom, receiptDenom string, err error)
	// ExchangeRate returns the liquidity redeemable per receipt after accruing interest.
	ExchangeRate(ctx context.Context, reserveID string) (math.LegacyDec, error)
	DepositLiquidity(ctx context.Context, reserveID string, depositor sdk.AccAddress, amount math.Int) (math.Int, error)
	RedeemReceipts(ctx context.Context, reserveID string, owner sdk.AccAddress, receipts math.Int) (math.Int, error)
}

// OracleKeeper provides price snapshots.
type OracleKeeper interface {
	GetPrice(ctx context.Context, oracleID string) (OracleSnapshot, error)
}
