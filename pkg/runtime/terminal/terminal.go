package terminal

import (
	"io"
	"os"

	"github.com/de-tools/spot-stats/pkg/runtime/terminal/commands"
	"github.com/de-tools/spot-stats/pkg/runtime/terminal/export"
	"github.com/de-tools/spot-stats/pkg/services/workflow"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	deps       workflow.Dependencies
	output     io.Writer
	errOutput  io.Writer
	configPath string
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	// Dependencies replaces the AWS clients, leave empty to use the SDK.
	Dependencies workflow.Dependencies
	Output       io.Writer
	ErrOutput    io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}

	cli := &CLI{
		deps:      opts.Dependencies,
		output:    opts.Output,
		errOutput: opts.ErrOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides os.Args, used in tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	env := commands.Env{
		ConfigPath: &cli.configPath,
		Deps:       cli.deps,
		Progress:   export.NewProgressReporter(cli.output),
		Table:      export.NewTableReporter(cli.output),
		Logs:       cli.errOutput,
	}

	collect := commands.NewCollectCmd(env)

	cmd := &cobra.Command{
		Use:           "spotstats",
		Short:         "Collect EC2 spot pricing statistics",
		Long:          "Collects spot prices of every EC2 region, scores each offer and writes stats.json.\nRunning without a subcommand is the same as `spotstats collect`.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          collect.RunE,
	}
	cmd.SetOut(cli.output)
	cmd.SetErr(cli.errOutput)
	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a config file (yaml, json or toml)")
	commands.AddCollectFlags(cmd)

	cmd.AddCommand(collect)
	cmd.AddCommand(commands.NewQueryCmd(env))

	return cmd
}
