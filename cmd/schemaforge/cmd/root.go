package cmd

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/schemaforge/pkg/analyzer"
	"github.com/TFMV/schemaforge/pkg/codegen"
	"github.com/TFMV/schemaforge/pkg/logging"
	"github.com/TFMV/schemaforge/pkg/parquet"
)

var (
	cfgFile    string
	verbose    bool
	closeLog   = func() error { return nil }
	configRead bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "schemaforge",
	Short: "Infer schemas from JSON and Parquet files and generate Spark code",
	Long: `Schemaforge reads a JSON or Parquet file, infers a field-level schema
(including nested objects and arrays) and generates PySpark snippets for
exploding array fields and cleaning the remaining columns.

Parquet files are served a mock schema unless parquet.reader is set to "arrow".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := logging.Config{
			Level:      viper.GetString("log.level"),
			FilePath:   viper.GetString("log.file"),
			MaxSizeMB:  viper.GetInt("log.max_size_mb"),
			MaxBackups: viper.GetInt("log.max_backups"),
			MaxAgeDays: viper.GetInt("log.max_age_days"),
			Compress:   viper.GetBool("log.compress"),
		}
		if verbose {
			cfg.Level = "debug"
		}

		closer, err := logging.Setup(cfg, os.Stderr)
		if err != nil {
			return err
		}
		closeLog = closer

		if configRead {
			log.Debug().Str("config", viper.ConfigFileUsed()).Msg("Using config file")
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.schemaforge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("table", codegen.DefaultTable, "DataFrame name used in generated code")
	rootCmd.PersistentFlags().String("parquet-reader", "stub", "Parquet schema reader (stub, arrow)")

	bindFlag("verbose", "verbose")
	bindFlag("table", "table")
	bindFlag("parquet.reader", "parquet-reader")

	defaults := logging.DefaultConfig()
	viper.SetDefault("table", codegen.DefaultTable)
	viper.SetDefault("parquet.reader", "stub")
	viper.SetDefault("cache.size", 128)
	viper.SetDefault("log.level", defaults.Level)
	viper.SetDefault("log.max_size_mb", defaults.MaxSizeMB)
	viper.SetDefault("log.max_backups", defaults.MaxBackups)
	viper.SetDefault("log.max_age_days", defaults.MaxAgeDays)
	viper.SetDefault("log.compress", defaults.Compress)
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		log.Fatal().Err(err).Str("flag", flag).Msg("Failed to bind flag")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".schemaforge")
	}

	viper.SetEnvPrefix("SCHEMAFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configRead = viper.ReadInConfig() == nil
}

// newAnalyzer builds an analyzer from configuration.
func newAnalyzer(query string) *analyzer.Analyzer {
	reader := viper.GetString("parquet.reader")
	if reader != "stub" && reader != "arrow" {
		log.Warn().Str("reader", reader).Msg("Unknown parquet reader, using stub")
	}
	return analyzer.New(
		analyzer.WithParquetReader(parquet.NewReader(reader)),
		analyzer.WithQuery(query),
	)
}

// tableName returns the configured DataFrame name.
func tableName() string {
	return viper.GetString("table")
}
