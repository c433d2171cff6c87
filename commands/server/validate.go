package server

import (
	"encoding/json"
	"os"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/spf13/cobra"
)

// ValidateCmd loads the app_state of each given genesis file into an in
// memory store. Nothing is persisted.
func ValidateCmd(ini ledger.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [genesis.json...]",
		Short: "Check that genesis files can initialize the application",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{GenesisFile()}
			}
			return ValidateGenesis(ini, args)
		},
	}
}

// ValidateGenesis runs the initializer against the app_state of every
// genesis file and returns the first failure.
func ValidateGenesis(ini ledger.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini ledger.Initializer, genesisPath string) error {
	b, err := os.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot read genesis file: %s", err)
	}

	var genesis struct {
		State ledger.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot JSON deserialize genesis: %s", err)
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
