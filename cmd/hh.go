package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cvfuse/internal/headhunter"
	"github.com/spigell/cvfuse/internal/pipeline"
	"github.com/spigell/cvfuse/internal/secrets"
)

var hhCmd = &cobra.Command{
	Use:   "hh",
	Short: "Use one of your hh.ru résumés as the primary candidate",
	Long: `Use one of your hh.ru résumés as the primary candidate.

The résumé is chosen by --resume or interactively. With --text the given
plain-text résumé is parsed and fused with it.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		runHH(cmd)
	},
}

func init() {
	rootCmd.AddCommand(hhCmd)

	hhCmd.Flags().StringP("resume", "r", "", "title of the hh.ru resume to use")
	hhCmd.Flags().StringP("text", "t", "", "a plain-text resume fused with the hh.ru one")
	hhCmd.Flags().String("user-agent", "", "user agent sent to the hh.ru API")

	viper.BindPFlag("headhunter.user-agent", hhCmd.Flags().Lookup("user-agent"))
}

func runHH(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := setup()

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading headhunter token",
			zap.Error(err),
			zap.String("hint", "set HH_TOKEN_FILE environment variable or the 'headhunter.token-file' key in the configuration file"),
		)
	}

	hh := headhunter.New(ctx, logger, token)
	if config.Headhunter.UserAgent != "" {
		hh.UserAgent = config.Headhunter.UserAgent
	}

	resumes, err := hh.GetMineResumes()
	if err != nil {
		logger.Fatal("getting mine resumes", zap.Error(err))
	}

	logger.Info("getting mine resumes", zap.Int("count", resumes.Len()))

	if resumes.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes found"))
		return
	}

	title, _ := cmd.Flags().GetString("resume")
	selected, err := selectResume(resumes, title)
	if err != nil {
		logger.Fatal("choosing a resume", zap.Error(err))
	}
	if selected == nil {
		logger.Fatal("resume with given title not found",
			zap.Any("existed resumes titles", resumes.Titles()),
			zap.String("resume title", title),
		)
	}

	details, err := hh.GetResumeDetails(selected.ID)
	if err != nil {
		logger.Fatal("getting resume details", zap.Error(err), zap.String("resume_id", selected.ID))
	}

	state := &pipeline.State{
		Primary: details.Primary(),
		Source:  headhunter.Source + ":" + selected.Title,
	}

	if path, _ := cmd.Flags().GetString("text"); path != "" {
		text, err := readText(path)
		if err != nil {
			logger.Fatal("reading the resume text", zap.Error(err))
		}
		state.Text = text
	}

	emit(logger, config, runPipeline(ctx, logger, config, pipeline.Deps{}, state))
}

func selectResume(resumes *headhunter.Resumes, title string) (*headhunter.Resume, error) {
	if title = strings.TrimSpace(title); title != "" {
		return resumes.FindByTitle(title), nil
	}
	if resumes.Len() == 1 {
		return resumes.Items[0], nil
	}

	prompt := promptui.Select{
		Label: "Choose a resume and press ENTER",
		Items: resumes.Titles(),
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	return resumes.Items[idx], nil
}

func resolveToken(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	tokenFile := strings.TrimSpace(config.Headhunter.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("headhunter.token-file"))
	}

	return secrets.Load(secrets.Source{
		Name: "headhunter token",
		File: tokenFile,
		Env:  "HH_TOKEN",
	})
}
