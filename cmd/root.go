package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pearldiver",
	Short: "Curl-P hashing and proof of work",
	Long: `pearldiver hashes balanced ternary data with Curl-P and searches for
nonces whose hash ends with a minimum number of zero trits.`,
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pearldiver/pearldiver.yaml)")
	SetupGlobalFlags(rootCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Expand("~/.pearldiver")
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigName("pearldiver")
	}

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func SetupGlobalFlags(cmd *cobra.Command) {
	// Search
	cmd.PersistentFlags().Int("workers", 0,
		"Number of search workers. When unset, one worker per CPU is used.")
	cmd.PersistentFlags().Int("mwm", 14,
		"Minimum weight magnitude: the number of trailing hash trits that must be zero.")
	cmd.PersistentFlags().Int("cache-size", 1024,
		"Number of solved transactions kept in memory.")

	// Storage
	cmd.PersistentFlags().String("data-dir", "",
		"The location where solved nonces are stored so that repeated requests "+
			"are answered without searching. When unset, defaults to the system's "+
			"configuration directory.")
	cmd.PersistentFlags().Bool("no-store", false,
		"Do not read or write solved nonces on disk.")

	// Stats
	cmd.PersistentFlags().String("statsd-addr", "",
		"Address of a statsd agent, such as localhost:8125. When unset, no metrics are sent.")

	// Logging
	cmd.PersistentFlags().String("log-dir", "", "The directory for logs")
	cmd.PersistentFlags().Uint64("glog-v", 0, "The log level. 0 = INFO, 1 = DEBUG, 2 = TRACE. Defaults to zero")
	cmd.PersistentFlags().String("glog-vmodule", "", "The syntax of the argument is a comma-separated list of pattern=N, where pattern is a literal file name (minus the \".go\" suffix) or \"glob\" pattern and N is a V level. For instance, -vmodule=gopher*=3 sets the V level to 3 in all Go files whose names begin \"gopher\".")

	cmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		viper.BindPFlag(flag.Name, flag)
	})
}
