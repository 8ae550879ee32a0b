package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file.json|->",
	Short: "Map an arbitrarily shaped JSON résumé onto the canonical record",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		logger, config := setup()

		doc, err := readJSON(args[0])
		if err != nil {
			logger.Fatal("reading the document", zap.Error(err))
		}

		emit(logger, config, newNormalizer(config).Normalize(doc))
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}
