package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/provlabs/sundial/simapp"
	"github.com/provlabs/sundial/simulation"
)

const (
	flagVerbose = "verbose"
	envPrefix   = "SUNDIALSIM"
)

// NewRootCmd creates the root command of the scenario runner.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:          "sundialsim",
		Short:        "Run scripted sundial scenarios against an in-memory chain",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
	}
	rootCmd.PersistentFlags().Bool(flagVerbose, false, "log module output to stderr")

	rootCmd.AddCommand(
		listCmd(),
		runCmd(v),
	)
	return rootCmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenarios, err := simulation.BuiltinScenarios()
			if err != nil {
				return err
			}
			for _, s := range scenarios {
				kind := "valuation"
				if s.Yield != nil {
					kind = "yield"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Name, kind)
			}
			return nil
		},
	}
}

func runCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run [scenario.toml...]",
		Short: "Run scenario files, or every built-in scenario when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			var scenarios []simulation.Scenario
			if len(args) == 0 {
				builtin, err := simulation.BuiltinScenarios()
				if err != nil {
					return err
				}
				scenarios = builtin
			}
			for _, file := range args {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				s, err := simulation.ParseScenario(data)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				scenarios = append(scenarios, s)
			}

			logger := log.NewNopLogger()
			if v.GetBool(flagVerbose) {
				logger = log.NewLogger(cmd.ErrOrStderr())
			}
			for _, s := range scenarios {
				if err := runScenario(cmd.OutOrStdout(), logger, s); err != nil {
					return fmt.Errorf("scenario %q: %w", s.Name, err)
				}
			}
			return nil
		},
	}
}

func runScenario(out io.Writer, logger log.Logger, s simulation.Scenario) error {
	app, err := simapp.NewSimApp(logger)
	if err != nil {
		return err
	}

	var result any
	switch {
	case s.Yield != nil:
		result, err = simulation.RunYield(app, *s.Yield)
	case s.Valuation != nil:
		result, err = simulation.RunValuation(app, *s.Valuation)
	}
	if err != nil {
		return err
	}

	bz, err := json.MarshalIndent(map[string]any{"scenario": s.Name, "result": result}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(bz))
	return err
}
