package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Parse plain résumé text into a canonical record",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		logger, config := setup()

		text, err := readText(args[0])
		if err != nil {
			logger.Fatal("reading the resume text", zap.Error(err))
		}

		rec := newNormalizer(config).Normalize(text)
		logger.Debug("parsed resume",
			zap.String("source", args[0]),
			zap.Int("experience", len(rec.Experience)),
			zap.Int("skills", len(rec.Skills)),
		)

		emit(logger, config, rec)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
