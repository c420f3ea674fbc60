package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/steward-sh/steward/pkg/log"
	"github.com/steward-sh/steward/pkg/stack"
	"github.com/steward-sh/steward/pkg/state"
	"github.com/steward-sh/steward/pkg/storage"
	"github.com/steward-sh/steward/pkg/upgrade"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "steward-upgrade",
	Short: "Steward upgrade tool - migrates persisted control-plane state between releases",
	Long: `steward-upgrade runs the versioned upgrade catalogs that migrate
Steward's persisted schema and configuration state from one release to the
next. It operates directly on the state database and must be run while the
control plane is stopped.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Steward upgrade tool %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("data-dir", "/var/lib/steward", "Steward data directory")
	rootCmd.PersistentFlags().String("stack-dir", "/var/lib/steward/stacks", "Stack definitions directory")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit JSON logs")

	viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("stack-dir", rootCmd.PersistentFlags().Lookup("stack-dir"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("log-json"))

	viper.SetEnvPrefix("STEWARD")
	viper.AutomaticEnv()

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}

func initLogging() {
	log.Init(log.Config{
		Level:      log.Level(viper.GetString("log-level")),
		JSONOutput: viper.GetBool("log-json"),
	})
}

func newExecutor() (*upgrade.Executor, func() error, error) {
	store, err := storage.NewBoltStore(viper.GetString("data-dir"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}

	stacks := stack.NewLibrary(viper.GetString("stack-dir"))
	deps := upgrade.Dependencies{
		Store:    store,
		Clusters: state.NewClusters(store),
		Configs:  state.NewConfigHelper(store, stacks),
		Stacks:   stacks,
	}
	return upgrade.NewExecutor(deps), store.Close, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run pending upgrade catalogs",
	Long: `Run every upgrade catalog between the source and target versions, in
order. Catalogs check current state before mutating, so re-running after a
failure converges to the same end state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogging()

		sourceVersion, _ := cmd.Flags().GetString("from")
		targetVersion, _ := cmd.Flags().GetString("to")

		executor, closeStore, err := newExecutor()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := executor.Run(sourceVersion, targetVersion); err != nil {
			return err
		}

		fmt.Printf("✓ Upgraded %s -> %s\n", sourceVersion, targetVersion)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalogs that would run for an upgrade",
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogging()

		sourceVersion, _ := cmd.Flags().GetString("from")
		targetVersion, _ := cmd.Flags().GetString("to")

		executor, closeStore, err := newExecutor()
		if err != nil {
			return err
		}
		defer closeStore()

		pending := executor.Pending(sourceVersion, targetVersion)
		if len(pending) == 0 {
			fmt.Printf("No catalogs to run for %s -> %s\n", sourceVersion, targetVersion)
			return nil
		}

		fmt.Printf("Catalogs for %s -> %s:\n", sourceVersion, targetVersion)
		for _, catalog := range pending {
			fmt.Printf("  %s -> %s\n", catalog.SourceVersion(), catalog.TargetVersion())
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, listCmd} {
		cmd.Flags().String("from", "", "Source release version (required)")
		cmd.Flags().String("to", "", "Target release version (required)")
		cmd.MarkFlagRequired("from")
		cmd.MarkFlagRequired("to")
	}
}
