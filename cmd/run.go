package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cvfuse/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run <file|->",
	Short: "Run the full pipeline over résumé text",
	Long: `Run the full pipeline over résumé text.

The text is parsed heuristically. A primary candidate is taken from --primary
or, when ai.enabled is set, extracted by the configured AI provider. Both are
fused and the result is checked against the record schema.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("primary", "p", "", "a JSON document used as the primary candidate")
}

func run(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger, config := setup()

	logger.Info("starting the cvfuse pipeline", zap.String("version", version))

	text, err := readText(path)
	if err != nil {
		logger.Fatal("reading the resume text", zap.Error(err))
	}

	state := &pipeline.State{Text: text, Source: path}
	deps := pipeline.Deps{}

	if primaryPath, _ := cmd.Flags().GetString("primary"); primaryPath != "" {
		primary, err := readJSON(primaryPath)
		if err != nil {
			logger.Fatal("reading the primary document", zap.Error(err))
		}
		state.Primary = primary
	} else if config.AI.Enabled {
		extractor, err := newExtractor(ctx, config.AI, config.Locale, logger)
		if err != nil {
			logger.Fatal("building the ai extractor", zap.Error(err))
		}
		deps.Extractor = extractor
	}

	emit(logger, config, runPipeline(ctx, logger, config, deps, state))
}
