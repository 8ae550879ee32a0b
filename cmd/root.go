package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/cvfuse/internal/dedupe"
	"github.com/spigell/cvfuse/internal/fuse"
	"github.com/spigell/cvfuse/internal/normalize"
)

const (
	app = "cvfuse"
)

type Config struct {
	Locale     string            `mapstructure:"locale"`
	Fuse       fuse.Config       `mapstructure:"fuse"`
	Normalize  normalize.Config  `mapstructure:"normalize"`
	AI         *AIConfig         `mapstructure:"ai"`
	Headhunter *HeadhunterConfig `mapstructure:"headhunter"`
	Output     string            `mapstructure:"output"`
}

type AIConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Provider         string        `mapstructure:"provider"`
	UserInstructions string        `mapstructure:"user-instructions"`
	Gemini           *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type HeadhunterConfig struct {
	TokenFile string `mapstructure:"token-file"`
	UserAgent string `mapstructure:"user-agent"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cvfuse extracts, normalizes and fuses résumé data into one canonical JSON record",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "CVFUSE_GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding CVFUSE_GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("headhunter.token-file", "HH_TOKEN_FILE"); err != nil {
		log.Fatalf("binding HH_TOKEN_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cvfuse.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("output", "o", "", "write the record to a file instead of stdout")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "overwrite the output file without asking")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("yes", rootCmd.PersistentFlags().Lookup("yes"))
}

func setDefaults() {
	viper.SetDefault("locale", "en")

	viper.SetDefault("fuse.date-window-years", fuse.DefaultDateWindowYears)
	viper.SetDefault("fuse.skill-cap", dedupe.DefaultSkillCap)
	viper.SetDefault("fuse.bullet-cap", dedupe.DefaultBulletCap)

	viper.SetDefault("normalize.max-depth", normalize.DefaultMaxDepth)
	viper.SetDefault("normalize.skill-cap", dedupe.DefaultSkillCap)
	viper.SetDefault("normalize.bullet-cap", dedupe.DefaultBulletCap)

	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The offline commands work without a config file, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Normalize.Locale == "" {
		config.Normalize.Locale = config.Locale
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Headhunter == nil {
		config.Headhunter = &HeadhunterConfig{}
	}

	return config, nil
}
