package sundial

import (
	"context"
	"encoding/json"

	"cosmossdk.io/core/address"
	"cosmossdk.io/core/appmodule"
	"cosmossdk.io/core/event"
	"cosmossdk.io/core/store"
	"cosmossdk.io/depinject"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/provlabs/sundial/keeper"
	"github.com/provlabs/sundial/metrics"
	"github.com/provlabs/sundial/simulation"
	"github.com/provlabs/sundial/types"
)

// ConsensusVersion defines the current x/sundial module consensus version.
const ConsensusVersion = 1

var (
	_ appmodule.AppModule        = AppModule{}
	_ appmodule.HasBeginBlocker  = AppModule{}
	_ module.HasName             = AppModule{}
	_ module.HasConsensusVersion = AppModule{}
	_ module.HasGenesis          = AppModule{}
	_ module.HasGenesisBasics    = AppModule{}
)

// AppModule wires the sundial keeper into an application.
type AppModule struct {
	keeper       *keeper.Keeper
	addressCodec address.Codec
}

// NewAppModule creates a new AppModule instance.
func NewAppModule(keeper *keeper.Keeper, addressCodec address.Codec) AppModule {
	return AppModule{
		keeper:       keeper,
		addressCodec: addressCodec,
	}
}

// Name returns the sundial module name.
func (AppModule) Name() string { return types.ModuleName }

// IsOnePerModuleType asserts one module per type.
func (AppModule) IsOnePerModuleType() {}

// IsAppModule asserts this is an app module.
func (AppModule) IsAppModule() {}

// ConsensusVersion returns the module consensus version.
func (AppModule) ConsensusVersion() uint64 { return ConsensusVersion }

// DefaultGenesis returns default genesis state as raw bytes.
func (AppModule) DefaultGenesis(_ codec.JSONCodec) json.RawMessage {
	return marshalGenesis(types.DefaultGenesisState())
}

// ValidateGenesis validates the sundial genesis state.
func (AppModule) ValidateGenesis(_ codec.JSONCodec, _ client.TxEncodingConfig, bz json.RawMessage) error {
	_, err := unmarshalGenesis(bz)
	return err
}

// InitGenesis initializes the module's state from genesis.
func (m AppModule) InitGenesis(ctx sdk.Context, _ codec.JSONCodec, bz json.RawMessage) {
	genesis, err := unmarshalGenesis(bz)
	if err != nil {
		panic(err)
	}
	m.keeper.InitGenesis(ctx, genesis)
}

// ExportGenesis exports the module's state to genesis.
func (m AppModule) ExportGenesis(ctx sdk.Context, _ codec.JSONCodec) json.RawMessage {
	return marshalGenesis(m.keeper.ExportGenesis(ctx))
}

// BeginBlock settles sundials that reached maturity.
func (m AppModule) BeginBlock(ctx context.Context) error {
	return m.keeper.BeginBlocker(ctx)
}

// GenerateGenesisState creates a randomized genesis state for simulations.
func (AppModule) GenerateGenesisState(simState *module.SimulationState) {
	simulation.RandomizedGenState(simState)
}

// MsgServer returns the message handlers of the module.
func (m AppModule) MsgServer() types.MsgServer {
	return keeper.NewMsgServer(m.keeper)
}

// QueryServer returns the query handlers of the module.
func (m AppModule) QueryServer() types.QueryServer {
	return keeper.NewQueryServer(m.keeper)
}

// ModuleInputs defines the inputs required to initialize the sundial module.
type ModuleInputs struct {
	depinject.In
	StoreService  store.KVStoreService
	EventService  event.Service
	AddressCodec  address.Codec
	AccountKeeper types.AccountKeeper
	BankKeeper    types.BankKeeper
	ReserveKeeper types.ReserveKeeper
	OracleKeeper  types.OracleKeeper
	Metrics       *metrics.Metrics `optional:"true"`
}

// ModuleOutputs defines the outputs of the sundial module provider.
type ModuleOutputs struct {
	depinject.Out
	Keeper *keeper.Keeper
}

// ProvideModule builds the sundial keeper from its dependencies. The authority is the gov module account.
func ProvideModule(in ModuleInputs) ModuleOutputs {
	k := keeper.NewKeeper(
		in.StoreService,
		in.EventService,
		in.AddressCodec,
		authtypes.NewModuleAddress(types.GovModuleName),
		in.AccountKeeper,
		in.BankKeeper,
		in.ReserveKeeper,
		in.OracleKeeper,
		in.Metrics,
	)
	return ModuleOutputs{Keeper: k}
}
