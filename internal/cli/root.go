// Package cli provides the command-line interface for votestack.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/votestack/internal/cli/commands"
	"github.com/leapstack-labs/votestack/internal/cli/config"
	intconfig "github.com/leapstack-labs/votestack/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "votestack",
		Short: "votestack - county vote results as a printable 3D model",
		Long: `votestack turns county-level presidential results and county boundaries
into one binary STL model.

Every county is extruded from its projected outline and stacked in one of
two columns, so the height of each column is the vote count of its side.
Counties without a majority form their own layers on the left.

Run without a subcommand to build the model.`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cfg)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.RunBuild(cmd, false)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./votestack.yaml)")
	flags.String("votes-path", "", "Path to the county results CSV")
	flags.String("shapes-path", "", "Path to the county boundary shapefile")
	flags.String("output-path", "", "Path of the STL file to write")
	flags.String("id-field", "", "Shapefile attribute holding the county FIPS code")
	flags.String("left-candidate", "", "Candidate code stacked in the left column")
	flags.String("right-candidate", "", "Candidate code stacked in the right column")
	flags.Float64("thickness-divisor", 0, "Votes per model unit of thickness")
	flags.Float64("bias-scale", 0, "Projected distance between the columns")
	flags.Float64("anchor-precision", 0, "Precision of the county anchor search, in degrees")
	flags.String("source-proj", "", "Boundary spatial reference (proj4)")
	flags.String("target-proj", "", "Model spatial reference (proj4)")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.StringP("output", "o", "", "Output format (text|markdown|csv|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{intconfig.OutputText, intconfig.OutputMarkdown, intconfig.OutputCSV, intconfig.OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewPlanCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for votestack.

Bash:
  $ source <(votestack completion bash)

Zsh:
  $ votestack completion zsh > "${fpath[1]}/_votestack"

Fish:
  $ votestack completion fish | source

PowerShell:
  PS> votestack completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
