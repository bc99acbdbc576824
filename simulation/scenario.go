package simulation

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/BurntSushi/toml"
)

//go:embed scenarios/*.toml
var builtinScenarios embed.FS

// Scenario is a scripted run against a fresh app, read from TOML.
type Scenario struct {
	Name      string             `toml:"name"`
	Yield     *YieldScenario     `toml:"yield"`
	Valuation *ValuationScenario `toml:"valuation"`
}

// YieldScenario splits liquidity of a reserve that earns borrow interest and
// records what each depositor's yield tokens pay out at maturity.
type YieldScenario struct {
	LiquidityDenom     string       `toml:"liquidity_denom"`
	Decimals           uint32       `toml:"decimals"`
	ReserveDeposit     int64        `toml:"reserve_deposit"`
	BorrowRateBips     uint32       `toml:"borrow_rate_bips"`
	Borrow             int64        `toml:"borrow"`
	DurationSeconds    int64        `toml:"duration_seconds"`
	LendingFeeBips     uint32       `toml:"lending_fee_bips"`
	RedeemAfterSeconds int64        `toml:"redeem_after_seconds"`
	Mints              []MintAction `toml:"mints"`
}

// MintAction mints principal and yield for a named depositor at an offset from sundial creation.
type MintAction struct {
	Name     string `toml:"name"`
	Amount   int64  `toml:"amount"`
	AtSecond int64  `toml:"at_second"`
}

// ValuationScenario deposits each asset as collateral into one profile and records its value.
type ValuationScenario struct {
	LTV                  uint32       `toml:"ltv"`
	LiquidationThreshold uint32       `toml:"liquidation_threshold"`
	LiquidationPenalty   uint32       `toml:"liquidation_penalty"`
	Assets               []AssetInput `toml:"assets"`
}

// AssetInput is a collateral asset, its oracle price as price * 10^expo, and the deposit in base units.
type AssetInput struct {
	Denom    string `toml:"denom"`
	Decimals uint32 `toml:"decimals"`
	Price    int64  `toml:"price"`
	Expo     int32  `toml:"expo"`
	Amount   int64  `toml:"amount"`
}

// Validate checks that the scenario describes exactly one runnable kind.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario name must not be empty")
	}
	switch {
	case s.Yield != nil && s.Valuation != nil:
		return fmt.Errorf("scenario %q must define either yield or valuation, not both", s.Name)
	case s.Yield != nil:
		return s.Yield.validate()
	case s.Valuation != nil:
		return s.Valuation.validate()
	default:
		return fmt.Errorf("scenario %q defines nothing to run", s.Name)
	}
}

func (y YieldScenario) validate() error {
	if y.LiquidityDenom == "" {
		return errors.New("liquidity_denom must not be empty")
	}
	if y.ReserveDeposit <= 0 || y.Borrow < 0 || y.Borrow > y.ReserveDeposit {
		return fmt.Errorf("borrow %d must be within reserve deposit %d", y.Borrow, y.ReserveDeposit)
	}
	if y.DurationSeconds <= 0 {
		return fmt.Errorf("duration_seconds must be positive, got %d", y.DurationSeconds)
	}
	if y.RedeemAfterSeconds < y.DurationSeconds {
		return fmt.Errorf("redeem_after_seconds %d is before maturity %d", y.RedeemAfterSeconds, y.DurationSeconds)
	}
	if len(y.Mints) == 0 {
		return errors.New("at least one mint is required")
	}
	names := make(map[string]bool, len(y.Mints))
	last := int64(0)
	for _, m := range y.Mints {
		if m.Name == "" || names[m.Name] {
			return fmt.Errorf("mint names must be unique and non-empty, got %q", m.Name)
		}
		names[m.Name] = true
		if m.Amount <= 0 {
			return fmt.Errorf("mint %q amount must be positive", m.Name)
		}
		if m.AtSecond < last || m.AtSecond >= y.DurationSeconds {
			return fmt.Errorf("mint %q at second %d must be ordered and before maturity", m.Name, m.AtSecond)
		}
		last = m.AtSecond
	}
	return nil
}

func (v ValuationScenario) validate() error {
	if len(v.Assets) == 0 {
		return errors.New("at least one asset is required")
	}
	for _, a := range v.Assets {
		if a.Denom == "" || a.Price <= 0 || a.Amount <= 0 {
			return fmt.Errorf("asset %q needs a denom, a positive price and a positive amount", a.Denom)
		}
	}
	return nil
}

// ParseScenario decodes a TOML scenario and validates it.
func ParseScenario(data []byte) (Scenario, error) {
	var s Scenario
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Scenario{}, fmt.Errorf("unknown scenario keys: %v", undecoded)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// LoadScenarioFile reads and parses a TOML scenario from disk.
func LoadScenarioFile(fsys fs.FS, name string) (Scenario, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Scenario{}, err
	}
	s, err := ParseScenario(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// BuiltinScenarios returns the scenarios shipped with the binary, ordered by file name.
func BuiltinScenarios() ([]Scenario, error) {
	entries, err := fs.ReadDir(builtinScenarios, "scenarios")
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	scenarios := make([]Scenario, 0, len(entries))
	for _, e := range entries {
		s, err := LoadScenarioFile(builtinScenarios, path.Join("scenarios", e.Name()))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
