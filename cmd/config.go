package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/deso-protocol/pearldiver/lib"
	"github.com/golang/glog"
	"github.com/spf13/viper"
)

type Config struct {
	// Search
	Workers            int
	MinWeightMagnitude int
	CacheSize          int

	// Storage
	DataDirectory string
	NoStore       bool

	// Stats
	StatsdAddress string

	// Logging
	LogDirectory string
	GlogV        uint64
	GlogVmodule  string
}

func LoadConfig() *Config {
	config := Config{}

	// Search
	config.Workers = viper.GetInt("workers")
	config.MinWeightMagnitude = viper.GetInt("mwm")
	config.CacheSize = viper.GetInt("cache-size")
	if config.CacheSize <= 0 {
		config.CacheSize = lib.DefaultSolutionCacheSize
	}

	// Storage
	config.NoStore = viper.GetBool("no-store")
	config.DataDirectory = viper.GetString("data-dir")
	if config.DataDirectory == "" && !config.NoStore {
		config.DataDirectory = lib.GetDataDir()
	}
	if config.DataDirectory != "" {
		if err := os.MkdirAll(config.DataDirectory, os.ModePerm); err != nil {
			glog.Fatalf("Could not create data directory (%s): %v", config.DataDirectory, err)
		}
	}

	// Stats
	config.StatsdAddress = viper.GetString("statsd-addr")

	// Logging
	config.LogDirectory = viper.GetString("log-dir")
	if config.LogDirectory == "" {
		config.LogDirectory = config.DataDirectory
	}
	config.GlogV = viper.GetUint64("glog-v")
	config.GlogVmodule = viper.GetString("glog-vmodule")

	return &config
}

// SetupLogging passes the logging options to glog, which reads them from the
// standard flag set.
func (config *Config) SetupLogging() {
	if config.LogDirectory != "" {
		flag.Set("log_dir", config.LogDirectory)
	}
	flag.Set("v", fmt.Sprintf("%d", config.GlogV))
	flag.Set("vmodule", config.GlogVmodule)
	flag.Set("alsologtostderr", "true")
	glog.CopyStandardLogTo("INFO")
}

func (config *Config) Print() {
	if config.LogDirectory != "" {
		glog.Infof("Logging to directory %s", config.LogDirectory)
	}
	if config.Workers > 0 {
		glog.Infof("Workers: %d", config.Workers)
	} else {
		glog.Infof("Workers: one per CPU")
	}
	glog.Infof("Minimum weight magnitude: %d", config.MinWeightMagnitude)

	if config.NoStore {
		glog.V(0).Infof(CLog(Yellow, "Solution store: OFF"))
	} else {
		glog.Infof("Data Directory: %s", config.DataDirectory)
	}

	if config.StatsdAddress != "" {
		glog.Infof("Statsd: %s", config.StatsdAddress)
	}
}
