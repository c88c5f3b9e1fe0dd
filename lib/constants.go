package lib

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/shibukawa/configdir"
)

const (
	// TransactionTrytes is the length of a transaction in trytes.
	TransactionTrytes = 2673
	// NonceTrytes is the length of the nonce at the end of a transaction.
	NonceTrytes = 27
	// DefaultMinWeightMagnitude is the weight used when none is given.
	DefaultMinWeightMagnitude = 14
	// DefaultSolutionCacheSize is the number of solved transactions kept in
	// memory.
	DefaultSolutionCacheSize = 1024

	ConfigDirVendorName = "deso"
	ConfigDirAppName    = "pearldiver"
)

// GetDataDir returns the per-user directory for persisted solutions and
// creates it if needed.
func GetDataDir() string {
	configDirs := configdir.New(ConfigDirVendorName, ConfigDirAppName)
	dataDir := configDirs.QueryFolders(configdir.Global)[0].Path
	if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
		glog.Fatalf("GetDataDir: Could not create data directory (%s): %v", dataDir, err)
	}
	return filepath.Clean(dataDir)
}
