package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sha1n/analyzer-lab/internal/app"
	"github.com/sha1n/analyzer-lab/internal/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "analyzer-lab"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params := app.DefaultRunParams()

	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Search analyzer lab",
		Long: "Compare how search analyzers tokenize index and query text.\n\n" +
			"Without a subcommand the interactive terminal UI starts.",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunTUIWithDeps(cmd.Context(), params, cmd.Flags())
		},
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	app.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newTUICommand(params),
		newAnalyzeCommand(params),
		newAnalyzersCommand(params),
		newMCPCommand(params, version),
		newEngineCommand(params, version),
	)
	rootCmd.SetArgs(args)

	return rootCmd.ExecuteContext(ctx)
}

func newTUICommand(params app.RunParams) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunTUIWithDeps(cmd.Context(), params, cmd.Flags())
		},
	}
}

func newAnalyzeCommand(params app.RunParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze index and query text once and print the tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := analyzeInputs(cmd.Flags())
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")
			return app.RunAnalyzeWithDeps(cmd.Context(), params, cmd.Flags(), inputs, output)
		},
	}

	flags := cmd.Flags()
	flags.StringP("index-text", "i", "", "Text to index")
	flags.StringP("query-text", "q", "", "Text to query")
	flags.String("index-analyzer", "", "Predefined index analyzer (default: default-analyzer)")
	flags.String("query-analyzer", "", "Predefined query analyzer (default: default-analyzer)")
	flags.String("index-custom", "", "Custom index analyzer definition (JSON)")
	flags.String("query-custom", "", "Custom query analyzer definition (JSON)")
	flags.Bool("autocomplete", false, "Expand index tokens into n-grams")
	flags.String("autocomplete-type", "edgeGram", "Autocomplete tokenization: edgeGram or nGram")
	flags.Int("min-grams", 3, "Smallest n-gram")
	flags.Int("max-grams", 15, "Largest n-gram")
	flags.StringP("output", "o", app.OutputText, "Output format: text or json")

	return cmd
}

func analyzeInputs(flags *pflag.FlagSet) (workflow.Inputs, error) {
	var in workflow.Inputs
	var err error

	strs := map[string]*string{
		"index-text":        &in.IndexText,
		"query-text":        &in.QueryText,
		"index-analyzer":    &in.IndexAnalyzer,
		"query-analyzer":    &in.QueryAnalyzer,
		"index-custom":      &in.IndexCustom,
		"query-custom":      &in.QueryCustom,
		"autocomplete-type": &in.AutocompleteType,
	}
	for name, dst := range strs {
		if *dst, err = flags.GetString(name); err != nil {
			return in, err
		}
	}

	in.IndexCustomMode = flags.Changed("index-custom")
	in.QueryCustomMode = flags.Changed("query-custom")

	if in.Autocomplete, err = flags.GetBool("autocomplete"); err != nil {
		return in, err
	}
	if in.MinGrams, err = flags.GetInt("min-grams"); err != nil {
		return in, err
	}
	if in.MaxGrams, err = flags.GetInt("max-grams"); err != nil {
		return in, err
	}
	return in, nil
}

func newAnalyzersCommand(params app.RunParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyzers",
		Short: "List the analyzers the engine offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return app.RunAnalyzersWithDeps(cmd.Context(), params, cmd.Flags(), output)
		},
	}
	cmd.Flags().StringP("output", "o", app.OutputText, "Output format: text or json")
	return cmd
}

func newMCPCommand(params app.RunParams, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analyzer tools over MCP (stdio or SSE)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunWithDeps(cmd.Context(), params, cmd.Flags(), version)
		},
	}
}

func newEngineCommand(params app.RunParams, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "engine",
		Short: "Serve the analysis engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunEngineServerWithDeps(cmd.Context(), params, cmd.Flags(), version)
		},
	}
}
