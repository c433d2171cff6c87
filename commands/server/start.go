package server

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/ledger/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// StartCmd initializes the application and runs the abci socket server
// until the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			return start(gen, logger, stop)
		},
	}
	cmd.Flags().String(FlagBind, "tcp://localhost:26658", "address server listens on")
	cmd.Flags().Bool(FlagDebug, false, "call stack returned on error")
	return cmd
}

func start(gen AppGenerator, logger log.Logger, stop <-chan os.Signal) error {
	addr := viper.GetString(FlagBind)
	app, err := gen(&Options{
		Home:   viper.GetString(FlagHome),
		Logger: logger,
		Debug:  viper.GetBool(FlagDebug),
	})
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", addr)
	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "start server: %s", err)
	}

	sig := <-stop
	logger.Info("Stopping ABCI app", "signal", sig)
	return svr.Stop()
}
