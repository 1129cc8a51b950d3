package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tsvkit/csv2tsv"
	"github.com/tsvkit/csv2tsv/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "csv2tsv [file...]",
	Short: "Convert CSV text to escape-free TSV",
	Long: `Convert CSV text to TSV with no escape syntax: quotes are resolved,
embedded delimiters and newlines are replaced, and every record ends in a
single LF. Reads the named files in order, or standard input when no file
(or "-") is given, and writes to standard output.`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runConvert,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "csv2tsv: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("header", "H", false, "treat the first line of each file as a header, emitting it once")
	rootCmd.Flags().StringP("quote", "q", `"`, "CSV quote character")
	rootCmd.Flags().StringP("csv-delim", "c", ",", "input field delimiter")
	rootCmd.Flags().StringP("tsv-delim", "t", `\t`, "output field delimiter")
	rootCmd.Flags().StringP("replacement", "r", "", "replacement for both delimiters and newlines found in field data")
	rootCmd.Flags().String("delim-replacement", " ", "replacement for the output delimiter found in field data")
	rootCmd.Flags().String("newline-replacement", " ", "replacement for newlines found in quoted fields")
	rootCmd.Flags().StringP("output", "o", "", "write to file instead of standard output")
	rootCmd.Flags().Int("chunk-size", 0, "read chunk size in bytes")
}

func runConvert(cmd *cobra.Command, args []string) error {
	quote, err := byteFlag(cmd, "quote", cfg.Quote)
	if err != nil {
		return err
	}
	csvDelim, err := byteFlag(cmd, "csv-delim", cfg.CSVDelim)
	if err != nil {
		return err
	}
	tsvDelim, err := byteFlag(cmd, "tsv-delim", cfg.TSVDelim)
	if err != nil {
		return err
	}

	delimRepl := stringFlag(cmd, "delim-replacement", cfg.DelimReplacement)
	newlineRepl := stringFlag(cmd, "newline-replacement", cfg.NewlineReplacement)
	if cmd.Flags().Changed("replacement") {
		repl, _ := cmd.Flags().GetString("replacement")
		delimRepl, newlineRepl = repl, repl
	}

	header := cfg.Header
	if cmd.Flags().Changed("header") {
		header, _ = cmd.Flags().GetBool("header")
	}

	chunkSize := cfg.ChunkSize
	if cmd.Flags().Changed("chunk-size") {
		chunkSize, _ = cmd.Flags().GetInt("chunk-size")
	}

	t := csv2tsv.NewTranscoder(
		csv2tsv.WithQuote(quote),
		csv2tsv.WithCSVDelimiter(csvDelim),
		csv2tsv.WithTSVDelimiter(tsvDelim),
		csv2tsv.WithDelimiterReplacement(delimRepl),
		csv2tsv.WithNewlineReplacement(newlineRepl),
		csv2tsv.WithHeader(header),
		csv2tsv.WithChunkSize(chunkSize),
	)
	if err := t.Validate(); err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	return t.Run(out, args)
}

// byteFlag resolves a single-byte setting, preferring an explicitly set flag
// over the configured default. `\t` is accepted as a spelling of TAB.
func byteFlag(cmd *cobra.Command, name, configured string) (byte, error) {
	s := configured
	if cmd.Flags().Changed(name) {
		s, _ = cmd.Flags().GetString(name)
	}
	if s == `\t` {
		return '\t', nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("--%s must be a single character, got %q", name, s)
	}
	return s[0], nil
}

func stringFlag(cmd *cobra.Command, name, configured string) string {
	if cmd.Flags().Changed(name) {
		s, _ := cmd.Flags().GetString(name)
		return s
	}
	return configured
}
