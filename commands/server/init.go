package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger/errors"
	"github.com/spf13/cobra"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

const appStateKey = "app_state"

// GenOptions can parse command-line and flag to generate default
// app_state for the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will initialize the genesis file, along with proper app_state.
// A genesis file created by `tendermint init` is kept and only its
// app_state is replaced. When no file exists a new one without validators
// is written.
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init [args...]",
		Short: "Initialize app_state in the genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initGenesis(gen, logger, GenesisFile(), args)
		},
	}
}

func initGenesis(gen GenOptions, logger log.Logger, genFile string, args []string) error {
	if !fileExists(genFile) {
		if err := os.MkdirAll(filepath.Dir(genFile), 0755); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
		doc := tmtypes.GenesisDoc{
			ChainID:     fmt.Sprintf("escrow-%s", cmn.RandStr(6)),
			GenesisTime: tmtime.Now(),
		}
		if err := doc.SaveAs(genFile); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "save genesis: %s", err)
		}
		logger.Info("Generated genesis file", "path", genFile)
	} else {
		logger.Info("Found genesis file", "path", genFile)
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	return addGenesisOptions(genFile, options)
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// genesisDoc involves some tendermint-specific structures we don't want to
// parse, so we just grab it into a raw object format, so we can add one
// line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}

	var doc genesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "genesis file: %s", err)
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "app state: %s", err)
	}
	if err := os.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
