package server

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/ledger/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

// Configuration keys. Each can be set by a flag, an ESCROWD_ prefixed
// environment variable or an entry in home/config.toml.
const (
	FlagHome     = "home"
	FlagBind     = "bind"
	FlagDebug    = "debug"
	FlagLogLevel = "log-level"

	envPrefix  = "escrowd"
	configName = "config"
)

// Options are passed to the AppGenerator.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
}

// AddPersistentFlags declares the flags shared by all commands.
func AddPersistentFlags(cmd *cobra.Command, defaultHome string) {
	cmd.PersistentFlags().String(FlagHome, defaultHome, "directory to store files under")
	cmd.PersistentFlags().String(FlagLogLevel, "info", "log level: debug, info, error or none")
}

// SetupConfig binds all flags of the command to viper and reads the
// optional configuration file from the home directory. It must be called
// before any value is read.
func SetupConfig(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	home := viper.GetString(FlagHome)
	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath(home)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrapf(errors.ErrInvalidInput, "config file in %s: %s", home, err)
		}
	}
	return nil
}

// NewLogger returns a logger writing to stdout, filtered to the configured
// level.
func NewLogger(module string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", module)
	opt, err := log.AllowLevel(viper.GetString(FlagLogLevel))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

// GenesisFile returns the location of the tendermint genesis file for the
// configured home directory.
func GenesisFile() string {
	return filepath.Join(viper.GetString(FlagHome), "config", "genesis.json")
}
