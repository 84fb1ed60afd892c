package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// GenesisFileKey is the path of the JSON file with the initial chain
	// state, applied once on an empty datadir
	GenesisFileKey = "GENESIS_FILE"
	// StatsIntervalKey defines the interval in seconds for printing basic
	// runtime statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// EnableProfilerKey enables the memory stats collector that can be used
	// to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// WebhookEndpointKey is the URL where committed events are delivered as
	// JSON payloads, optional
	WebhookEndpointKey = "WEBHOOK_ENDPOINT"
	// WebhookSecretKey is the secret used to sign the JWT attached to
	// webhook deliveries, optional
	WebhookSecretKey = "WEBHOOK_SECRET"

	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("riochain", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("RIO")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(EnableProfilerKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if GetString(WebhookSecretKey) != "" && GetString(WebhookEndpointKey) == "" {
		return fmt.Errorf(
			"%s requires %s to be set", WebhookSecretKey, WebhookEndpointKey,
		)
	}

	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(filepath.Join(GetDatadir(), DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
