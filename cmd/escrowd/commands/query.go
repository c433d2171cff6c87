/*
Package commands provides the commands of escrowd that talk to a running
node.
*/
package commands

import (
	"encoding/json"
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/client"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/token"
	"github.com/spf13/cobra"
)

// Connector returns a client of the node to talk to.
type Connector func() (*client.Client, error)

// QueryCmd groups the commands reading the committed state.
func QueryCmd(connect Connector) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read the state of a node",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "escrow <address>",
			Short: "Show an open escrow and the content of its vault",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				addr, err := ledger.ParseAddress(args[0])
				if err != nil {
					return errors.Wrap(err, "escrow")
				}
				c, err := connect()
				if err != nil {
					return err
				}
				info, err := LoadEscrow(c.Store(), addr)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), info)
			},
		},
		&cobra.Command{
			Use:   "balance <owner> <mint>",
			Short: "Show the token balance of an owner",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner, err := ledger.ParseAddress(args[0])
				if err != nil {
					return errors.Wrap(err, "owner")
				}
				mint, err := ledger.ParseAddress(args[1])
				if err != nil {
					return errors.Wrap(err, "mint")
				}
				c, err := connect()
				if err != nil {
					return err
				}
				b, err := balance(c.Store(), owner, mint)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), b)
			},
		},
	)
	return cmd
}

// EscrowInfo describes an open escrow.
type EscrowInfo struct {
	Address ledger.Address `json:"address"`
	Maker   ledger.Address `json:"maker"`
	Seed    uint64         `json:"seed"`
	MintA   ledger.Address `json:"mint_a"`
	MintB   ledger.Address `json:"mint_b"`
	Receive uint64         `json:"receive"`
	Vault   ledger.Address `json:"vault"`
	Deposit uint64         `json:"deposit"`
}

// LoadEscrow reads the escrow record at given address and the balance of
// its vault.
func LoadEscrow(db ledger.ReadOnlyKVStore, addr ledger.Address) (*EscrowInfo, error) {
	var e escrow.Escrow
	if err := escrow.NewBucket().One(db, addr, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", addr)
	}
	vault, err := escrow.VaultAddress(addr, e.MintA)
	if err != nil {
		return nil, err
	}
	deposit, err := token.NewController().Balance(db, vault)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return nil, errors.Wrap(err, "vault")
	}
	return &EscrowInfo{
		Address: addr,
		Maker:   e.Maker,
		Seed:    e.Seed,
		MintA:   e.MintA,
		MintB:   e.MintB,
		Receive: e.Receive,
		Vault:   vault,
		Deposit: deposit,
	}, nil
}

// Balance is the token balance of an owner.
type Balance struct {
	Account ledger.Address `json:"account"`
	Amount  uint64         `json:"amount"`
}

func balance(db ledger.ReadOnlyKVStore, owner, mint ledger.Address) (*Balance, error) {
	acc, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	amount, err := token.NewController().Balance(db, acc)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	return &Balance{Account: acc, Amount: amount}, nil
}

func printJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	_, err = w.Write(append(raw, '\n'))
	return err
}
