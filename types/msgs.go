package types

import (
	"errors"
	fmt "fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Msg is implemented by every request accepted by the msg server.
type Msg interface {
	ValidateBasic() error
}

var (
	_ Msg = MsgCreateMarketRequest{}
	_ Msg = MsgCreateSundialRequest{}
	_ Msg = MsgMintPrincipalAndYieldRequest{}
	_ Msg = MsgRedeemReserveRequest{}
	_ Msg = MsgRedeemPrincipalRequest{}
	_ Msg = MsgRedeemYieldRequest{}
	_ Msg = MsgTransferYieldPositionRequest{}
	_ Msg = MsgCreateSundialCollateralRequest{}
	_ Msg = MsgRefreshSundialCollateralRequest{}
	_ Msg = MsgChangeSundialCollateralConfigRequest{}
	_ Msg = MsgCreateSundialProfileRequest{}
	_ Msg = MsgRefreshSundialProfileRequest{}
	_ Msg = MsgDepositCollateralRequest{}
	_ Msg = MsgWithdrawCollateralRequest{}
	_ Msg = MsgMintWithCollateralRequest{}
	_ Msg = MsgRepayLoanRequest{}
	_ Msg = MsgLiquidateRequest{}
	_ Msg = MsgUpdateParamsRequest{}
)

type MsgCreateMarketRequest struct {
	Owner    string `json:"owner"`
	MarketID string `json:"market_id"`
}

type MsgCreateMarketResponse struct{}

type MsgCreateSundialRequest struct {
	Authority        string   `json:"authority"`
	MarketID         string   `json:"market_id"`
	ReserveID        string   `json:"reserve_id"`
	OracleID         string   `json:"oracle_id"`
	DurationSeconds  int64    `json:"duration_seconds"`
	LendingFeeBips   uint32   `json:"lending_fee_bips"`
	BorrowingFeeBips uint32   `json:"borrowing_fee_bips"`
	LiquidityCap     math.Int `json:"liquidity_cap"`
}

type MsgCreateSundialResponse struct {
	SundialID string `json:"sundial_id"`
}

type MsgMintPrincipalAndYieldRequest struct {
	Owner     string   `json:"owner"`
	SundialID string   `json:"sundial_id"`
	Amount    math.Int `json:"amount"`
}

type MsgMintPrincipalAndYieldResponse struct {
	Principal sdk.Coin `json:"principal"`
	Yield     sdk.Coin `json:"yield"`
	Fee       sdk.Coin `json:"fee"`
}

type MsgRedeemReserveRequest struct {
	Caller    string `json:"caller"`
	SundialID string `json:"sundial_id"`
}

type MsgRedeemReserveResponse struct {
	FinalLiquidity    math.Int `json:"final_liquidity"`
	TotalYieldAccrued math.Int `json:"total_yield_accrued"`
}

type MsgRedeemPrincipalRequest struct {
	Owner     string   `json:"owner"`
	SundialID string   `json:"sundial_id"`
	Amount    math.Int `json:"amount"`
}

type MsgRedeemPrincipalResponse struct {
	Payout sdk.Coin `json:"payout"`
}

type MsgRedeemYieldRequest struct {
	Owner     string   `json:"owner"`
	SundialID string   `json:"sundial_id"`
	Amount    math.Int `json:"amount"`
}

type MsgRedeemYieldResponse struct {
	Payout sdk.Coin `json:"payout"`
}

type MsgTransferYieldPositionRequest struct {
	Owner     string   `json:"owner"`
	Recipient string   `json:"recipient"`
	SundialID string   `json:"sundial_id"`
	Amount    math.Int `json:"amount"`
}

type MsgTransferYieldPositionResponse struct{}

type MsgCreateSundialCollateralRequest struct {
	Authority string           `json:"authority"`
	MarketID  string           `json:"market_id"`
	ReserveID string           `json:"reserve_id"`
	OracleID  string           `json:"oracle_id"`
	Config    CollateralConfig `json:"config"`
}

type MsgCreateSundialCollateralResponse struct {
	CollateralID string `json:"collateral_id"`
}

type MsgRefreshSundialCollateralRequest struct {
	CollateralID string `json:"collateral_id"`
}

type MsgRefreshSundialCollateralResponse struct {
	LastPrice string `json:"last_price"`
}

type MsgChangeSundialCollateralConfigRequest struct {
	Authority    string           `json:"authority"`
	CollateralID string           `json:"collateral_id"`
	Config       CollateralConfig `json:"config"`
}

type MsgChangeSundialCollateralConfigResponse struct {
	ConfigVersion uint64 `json:"config_version"`
}

type MsgCreateSundialProfileRequest struct {
	Owner    string `json:"owner"`
	MarketID string `json:"market_id"`
}

type MsgCreateSundialProfileResponse struct{}

type MsgRefreshSundialProfileRequest struct {
	Owner    string `json:"owner"`
	MarketID string `json:"market_id"`
}

type MsgRefreshSundialProfileResponse struct {
	Health ProfileHealth `json:"health"`
}

type MsgDepositCollateralRequest struct {
	Owner        string   `json:"owner"`
	MarketID     string   `json:"market_id"`
	CollateralID string   `json:"collateral_id"`
	Amount       math.Int `json:"amount"`
}

type MsgDepositCollateralResponse struct{}

type MsgWithdrawCollateralRequest struct {
	Owner        string   `json:"owner"`
	MarketID     string   `json:"market_id"`
	CollateralID string   `json:"collateral_id"`
	Amount       math.Int `json:"amount"`
}

type MsgWithdrawCollateralResponse struct{}

type MsgMintWithCollateralRequest struct {
	Owner     string   `json:"owner"`
	MarketID  string   `json:"market_id"`
	SundialID string   `json:"sundial_id"`
	Amount    math.Int `json:"amount"`
}

type MsgMintWithCollateralResponse struct {
	Principal sdk.Coin `json:"principal"`
	Fee       sdk.Coin `json:"fee"`
}

type MsgRepayLoanRequest struct {
	Owner     string   `json:"owner"`
	MarketID  string   `json:"market_id"`
	SundialID string   `json:"sundial_id"`
	Amount    math.Int `json:"amount"`
}

type MsgRepayLoanResponse struct{}

type MsgLiquidateRequest struct {
	Liquidator   string   `json:"liquidator"`
	Owner        string   `json:"owner"`
	MarketID     string   `json:"market_id"`
	SundialID    string   `json:"sundial_id"`
	CollateralID string   `json:"collateral_id"`
	RepayAmount  math.Int `json:"repay_amount"`
}

type MsgLiquidateResponse struct {
	Repaid sdk.Coin `json:"repaid"`
	Seized sdk.Coin `json:"seized"`
}

type MsgUpdateParamsRequest struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// ValidateBasic performs stateless validation of MsgCreateMarketRequest.
func (m MsgCreateMarketRequest) ValidateBasic() error {
	if err := validateAddress("owner", m.Owner); err != nil {
		return err
	}
	return ValidateMarketID(m.MarketID)
}

// ValidateBasic performs stateless validation of MsgCreateSundialRequest.
func (m MsgCreateSundialRequest) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	if err := ValidateMarketID(m.MarketID); err != nil {
		return err
	}
	if m.ReserveID == "" || m.OracleID == "" {
		return errors.New("reserve and oracle ids must not be empty")
	}
	if m.DurationSeconds <= 0 {
		return fmt.Errorf("duration must be positive, got %d", m.DurationSeconds)
	}
	if m.LendingFeeBips > 10_000 || m.BorrowingFeeBips > 10_000 {
		return errors.New("fees must not exceed 10000 bips")
	}
	if !m.LiquidityCap.IsNil() && m.LiquidityCap.IsNegative() {
		return errors.New("liquidity cap must not be negative")
	}
	return nil
}

// ValidateBasic performs stateless validation of MsgMintPrincipalAndYieldRequest.
func (m MsgMintPrincipalAndYieldRequest) ValidateBasic() error {
	return validateOwnerAmount(m.Owner, m.SundialID, m.Amount)
}

// ValidateBasic performs stateless validation of MsgRedeemReserveRequest.
func (m MsgRedeemReserveRequest) ValidateBasic() error {
	if err := validateAddress("caller", m.Caller); err != nil {
		return err
	}
	if m.SundialID == "" {
		return errors.New("sundial id must not be empty")
	}
	return nil
}

// ValidateBasic performs stateless validation of MsgRedeemPrincipalRequest.
func (m MsgRedeemPrincipalRequest) ValidateBasic() error {
	return validateOwnerAmount(m.Owner, m.SundialID, m.Amount)
}

// ValidateBasic performs stateless validation of MsgRedeemYieldRequest.
func (m MsgRedeemYieldRequest) ValidateBasic() error {
	return validateOwnerAmount(m.Owner, m.SundialID, m.Amount)
}

// ValidateBasic performs stateless validation of MsgTransferYieldPositionRequest.
func (m MsgTransferYieldPositionRequest) ValidateBasic() error {
	if err := validateAddress("recipient", m.Recipient); err != nil {
		return err
	}
	if m.Owner == m.Recipient {
		return errors.New("recipient must differ from owner")
	}
	return validateOwnerAmount(m.Owner, m.SundialID, m.Amount)
}

// ValidateBasic performs stateless validation of MsgCreateSundialCollateralRequest.
func (m MsgCreateSundialCollateralRequest) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	if err := ValidateMarketID(m.MarketID); err != nil {
		return err
	}
	if m.ReserveID == "" || m.OracleID == "" {
		return errors.New("reserve and oracle ids must not be empty")
	}
	return m.Config.Validate()
}

// ValidateBasic performs stateless validation of MsgRefreshSundialCollateralRequest.
func (m MsgRefreshSundialCollateralRequest) ValidateBasic() error {
	if m.CollateralID == "" {
		return errors.New("collateral id must not be empty")
	}
	return nil
}

// ValidateBasic performs stateless validation of MsgChangeSundialCollateralConfigRequest.
func (m MsgChangeSundialCollateralConfigRequest) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	if m.CollateralID == "" {
		return errors.New("collateral id must not be empty")
	}
	return m.Config.Validate()
}

// ValidateBasic performs stateless validation of MsgCreateSundialProfileRequest.
func (m MsgCreateSundialProfileRequest) ValidateBasic() error {
	if err := validateAddress("owner", m.Owner); err != nil {
		return err
	}
	return ValidateMarketID(m.MarketID)
}

// ValidateBasic performs stateless validation of MsgRefreshSundialProfileRequest.
func (m MsgRefreshSundialProfileRequest) ValidateBasic() error {
	if err := validateAddress("owner", m.Owner); err != nil {
		return err
	}
	return ValidateMarketID(m.MarketID)
}

// ValidateBasic performs stateless validation of MsgDepositCollateralRequest.
func (m MsgDepositCollateralRequest) ValidateBasic() error {
	if err := ValidateMarketID(m.MarketID); err != nil {
		return err
	}
	return validateOwnerAmount(m.Owner, m.CollateralID, m.Amount)
}

// ValidateBasic performs stateless validation of MsgWithdrawCollateralRequest.
func (m MsgWithdrawCollateralRequest) ValidateBasic() error {
	if err := ValidateMarketID(m.MarketID); err != nil {
		return err
	}
	return validateOwnerAmount(m.Owner, m.CollateralID, m.Amount)
}

// ValidateBasic performs stateless validation of MsgMintWithCollateralRequest.
func (m MsgMintWithCollateralRequest) ValidateBasic() error {
	if err := ValidateMarketID(m.MarketID); err != nil {
		return err
	}
	return validateOwnerAmount(m.Owner, m.SundialID, m.Amount)
}

// ValidateBasic performs stateless validation of MsgRepayLoanRequest.
func (m MsgRepayLoanRequest) ValidateBasic() error {
	if err := ValidateMarketID(m.MarketID); err != nil {
		return err
	}
	return validateOwnerAmount(m.Owner, m.SundialID, m.Amount)
}

// ValidateBasic performs stateless validation of MsgLiquidateRequest.
func (m MsgLiquidateRequest) ValidateBasic() error {
	if err := validateAddress("liquidator", m.Liquidator); err != nil {
		return err
	}
	if err := ValidateMarketID(m.MarketID); err != nil {
		return err
	}
	if m.CollateralID == "" {
		return errors.New("collateral id must not be empty")
	}
	return validateOwnerAmount(m.Owner, m.SundialID, m.RepayAmount)
}

// ValidateBasic performs stateless validation of MsgUpdateParamsRequest.
func (m MsgUpdateParamsRequest) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	return m.Params.Validate()
}

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return fmt.Errorf("invalid %s address: %q: %w", field, addr, err)
	}
	return nil
}

func validateOwnerAmount(owner, ref string, amount math.Int) error {
	if err := validateAddress("owner", owner); err != nil {
		return err
	}
	if ref == "" {
		return errors.New("component id must not be empty")
	}
	if amount.IsNil() || !amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}
