package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/client"
	"github.com/iov-one/ledger/cmd/escrowd/app"
	escrowcmd "github.com/iov-one/ledger/cmd/escrowd/commands"
	"github.com/iov-one/ledger/commands"
	"github.com/iov-one/ledger/commands/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const flagNode = "node"

func rootCmd() *cobra.Command {
	// Replaced by the configured logger before any sub command runs.
	logger := &lazyLogger{Logger: log.NewNopLogger()}

	root := &cobra.Command{
		Use:           "escrowd",
		Short:         "Token escrow node",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := server.SetupConfig(cmd); err != nil {
				return err
			}
			l, err := server.NewLogger("escrowd")
			if err != nil {
				return err
			}
			logger.Logger = l
			return nil
		},
	}
	server.AddPersistentFlags(root, filepath.Join(os.ExpandEnv("$HOME"), ".escrowd"))
	root.PersistentFlags().String(flagNode, "tcp://localhost:26657", "rpc address of the node to talk to")

	connect := func() (*client.Client, error) {
		conn := client.NewHTTPConnection(viper.GetString(flagNode))
		return client.NewClient(conn), nil
	}

	root.AddCommand(
		server.InitCmd(app.GenInitOptions, logger),
		server.StartCmd(app.GenerateApp, logger),
		server.ValidateCmd(app.Initializers()),
		commands.KeysCmd(),
		commands.AddressCmd(),
		escrowcmd.QueryCmd(connect),
		escrowcmd.TxCmd(connect),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), ledger.Version())
			},
		},
	)
	return root
}

// lazyLogger allows commands to be built before the log level is known.
type lazyLogger struct {
	log.Logger
}
