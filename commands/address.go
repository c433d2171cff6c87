package commands

import (
	"strconv"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/token"
	"github.com/spf13/cobra"
)

// AddressCmd groups the commands computing derived addresses. Addresses
// are accepted in any format understood by ledger.ParseAddress.
func AddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Compute program derived addresses",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "escrow <maker> <seed>",
			Short: "Escrow record address and its vault for given mint",
			Args:  cobra.RangeArgs(2, 3),
			RunE:  runEscrowAddress,
		},
		&cobra.Command{
			Use:   "token <owner> <mint>",
			Short: "Associated token account of an owner",
			Args:  cobra.ExactArgs(2),
			RunE:  runTokenAddress,
		},
		&cobra.Command{
			Use:   "mint <payer> <seed>",
			Short: "Mint address created by a payer with given seed",
			Args:  cobra.ExactArgs(2),
			RunE:  runMintAddress,
		},
	)
	return cmd
}

// EscrowAddresses is the output of the escrow address command.
type EscrowAddresses struct {
	Escrow ledger.Address `json:"escrow"`
	Bump   uint8          `json:"bump"`
	Vault  ledger.Address `json:"vault,omitempty"`
}

func runEscrowAddress(cmd *cobra.Command, args []string) error {
	maker, err := ledger.ParseAddress(args[0])
	if err != nil {
		return errors.Wrap(err, "maker")
	}
	seed, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "seed: %s", err)
	}
	record, bump, err := escrow.RecordAddress(maker, seed)
	if err != nil {
		return err
	}
	out := EscrowAddresses{Escrow: record, Bump: bump}
	if len(args) == 3 {
		mintA, err := ledger.ParseAddress(args[2])
		if err != nil {
			return errors.Wrap(err, "mint a")
		}
		if out.Vault, err = escrow.VaultAddress(record, mintA); err != nil {
			return err
		}
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func runTokenAddress(cmd *cobra.Command, args []string) error {
	owner, err := ledger.ParseAddress(args[0])
	if err != nil {
		return errors.Wrap(err, "owner")
	}
	mint, err := ledger.ParseAddress(args[1])
	if err != nil {
		return errors.Wrap(err, "mint")
	}
	addr, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]ledger.Address{"account": addr})
}

func runMintAddress(cmd *cobra.Command, args []string) error {
	payer, err := ledger.ParseAddress(args[0])
	if err != nil {
		return errors.Wrap(err, "payer")
	}
	seed, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "seed: %s", err)
	}
	addr, err := token.MintAddress(payer, seed)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]ledger.Address{"mint": addr})
}
