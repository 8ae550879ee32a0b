package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fuseCmd = &cobra.Command{
	Use:   "fuse <primary.json> <assist.json>",
	Short: "Normalize two résumé documents and fuse them into one record",
	Long: `Normalize two résumé documents and fuse them into one record.

The primary document wins on scalar conflicts. Lists from both documents are
merged and experience entries describing the same job are combined.`,
	Args: cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		logger, config := setup()

		normalizer := newNormalizer(config)

		primary, err := readJSON(args[0])
		if err != nil {
			logger.Fatal("reading the primary document", zap.Error(err))
		}
		assist, err := readJSON(args[1])
		if err != nil {
			logger.Fatal("reading the assist document", zap.Error(err))
		}

		rec := newFuser(config).Fuse(normalizer.Normalize(primary), normalizer.Normalize(assist))
		emit(logger, config, rec)
	},
}

func init() {
	rootCmd.AddCommand(fuseCmd)
}
