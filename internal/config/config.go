package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the conversion defaults. Byte-valued settings are strings
// here; the CLI layer validates and narrows them.
type Config struct {
	Quote              string `mapstructure:"quote"`
	CSVDelim           string `mapstructure:"csv_delim"`
	TSVDelim           string `mapstructure:"tsv_delim"`
	DelimReplacement   string `mapstructure:"delim_replacement"`
	NewlineReplacement string `mapstructure:"newline_replacement"`
	Header             bool   `mapstructure:"header"`
	ChunkSize          int    `mapstructure:"chunk_size"`
}

// Load resolves defaults from, in increasing precedence: built-ins, an
// optional csv2tsv.yaml in the working directory or ~/.csv2tsv, and
// CSV2TSV_* environment variables (a .env file is honored when present).
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	viper.SetConfigName("csv2tsv")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.csv2tsv")

	viper.SetDefault("quote", `"`)
	viper.SetDefault("csv_delim", ",")
	viper.SetDefault("tsv_delim", "\t")
	viper.SetDefault("delim_replacement", " ")
	viper.SetDefault("newline_replacement", " ")
	viper.SetDefault("header", false)
	viper.SetDefault("chunk_size", 32*1024)

	viper.SetEnvPrefix("CSV2TSV")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
