package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "applicant-sync"
)

type Config struct {
	Airtable *AirtableConfig `mapstructure:"airtable"`
	AI       *AIConfig       `mapstructure:"ai"`
	LogFile  string          `mapstructure:"log-file"`
}

type AirtableConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseID     string `mapstructure:"base-id"`
}

type AIConfig struct {
	Gemini         *GeminiConfig `mapstructure:"gemini"`
	MaxRetries     int           `mapstructure:"max-retries"`
	InitialBackoff time.Duration `mapstructure:"initial-backoff"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxTokens  int32  `mapstructure:"max-tokens"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "applicant-sync keeps airtable applicant records, their compressed profile, and LLM reviews in sync",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	bindings := [][2]string{
		{"airtable.api-key", "AIRTABLE_API_KEY"},
		{"airtable.api-key-file", "AIRTABLE_API_KEY_FILE"},
		{"airtable.base-id", "AIRTABLE_BASE_ID"},
		{"ai.gemini.api-key", "GEMINI_API_KEY"},
		{"ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"},
		{"ai.gemini.model", "GEMINI_MODEL"},
		{"ai.gemini.max-tokens", "LLM_MAX_TOKENS"},
		{"ai.max-retries", "LLM_MAX_RETRIES"},
		{"ai.initial-backoff", "LLM_INITIAL_BACKOFF"},
	}
	for _, binding := range bindings {
		if err := viper.BindEnv(binding[0], binding[1]); err != nil {
			log.Fatalf("binding %s environment variable: %v", binding[1], err)
		}
	}

	viper.SetDefault("ai.max-retries", 3)
	viper.SetDefault("ai.initial-backoff", time.Second)
	viper.SetDefault("ai.gemini.max-tokens", 1000)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is applicant-sync.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-file", "", "append logs to this file in addition to stdout")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	// Config is not needed for the version command.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless one was named explicitly; the
	// environment can carry everything.
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
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	return config, nil
}
