package commands

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/client"
	"github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/commands"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/spf13/cobra"
)

const (
	flagKey  = "key"
	flagSeed = "seed"
)

// TxCmd groups the commands signing and submitting escrow transactions.
// The signing key is read from a file written by the keys command.
func TxCmd(connect Connector) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Sign and submit escrow transactions",
	}
	cmd.PersistentFlags().String(flagKey, "", "file holding the signing key, as printed by the keys command")

	makeCmd := &cobra.Command{
		Use:   "make <mint a> <mint b> <amount> <receive>",
		Short: "Deposit amount of mint A tokens, asking for receive mint B tokens",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey(cmd)
			if err != nil {
				return err
			}
			msg, err := makeMsg(key.PublicKey().Address(), args)
			if err != nil {
				return err
			}
			if msg.Seed, err = cmd.Flags().GetUint64(flagSeed); err != nil {
				return errors.Wrap(errors.ErrInvalidInput, err.Error())
			}
			record, _, err := escrow.RecordAddress(msg.Maker, msg.Seed)
			if err != nil {
				return err
			}
			res, err := submit(connect, key, msg)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), TxResult{ID: res.ID, Height: res.Height, Escrow: record})
		},
	}
	makeCmd.Flags().Uint64(flagSeed, 0, "seed distinguishing escrows of the same maker")

	takeCmd := &cobra.Command{
		Use:   "take <escrow>",
		Short: "Pay the requested tokens and receive the deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey(cmd)
			if err != nil {
				return err
			}
			info, err := escrowInfo(connect, args[0])
			if err != nil {
				return err
			}
			res, err := submit(connect, key, &escrow.TakeMsg{
				Metadata: &ledger.Metadata{Schema: 1},
				Taker:    key.PublicKey().Address(),
				Escrow:   info.Address,
				Vault:    info.Vault,
				MintA:    info.MintA,
				MintB:    info.MintB,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), TxResult{ID: res.ID, Height: res.Height, Escrow: info.Address})
		},
	}

	refundCmd := &cobra.Command{
		Use:   "refund <escrow>",
		Short: "Cancel an escrow and get the deposit back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey(cmd)
			if err != nil {
				return err
			}
			info, err := escrowInfo(connect, args[0])
			if err != nil {
				return err
			}
			res, err := submit(connect, key, &escrow.RefundMsg{
				Metadata: &ledger.Metadata{Schema: 1},
				Maker:    key.PublicKey().Address(),
				Escrow:   info.Address,
				Vault:    info.Vault,
				MintA:    info.MintA,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), TxResult{ID: res.ID, Height: res.Height, Escrow: info.Address})
		},
	}

	cmd.AddCommand(makeCmd, takeCmd, refundCmd)
	return cmd
}

func makeMsg(maker ledger.Address, args []string) (*escrow.MakeMsg, error) {
	mintA, err := ledger.ParseAddress(args[0])
	if err != nil {
		return nil, errors.Wrap(err, "mint a")
	}
	mintB, err := ledger.ParseAddress(args[1])
	if err != nil {
		return nil, errors.Wrap(err, "mint b")
	}
	amount, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidAmount, "amount: %s", err)
	}
	receive, err := strconv.ParseUint(args[3], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidAmount, "receive: %s", err)
	}
	msg := &escrow.MakeMsg{
		Metadata: &ledger.Metadata{Schema: 1},
		Maker:    maker,
		MintA:    mintA,
		MintB:    mintB,
		Amount:   amount,
		Receive:  receive,
	}
	return msg, nil
}

func escrowInfo(connect Connector, addr string) (*EscrowInfo, error) {
	record, err := ledger.ParseAddress(addr)
	if err != nil {
		return nil, errors.Wrap(err, "escrow")
	}
	c, err := connect()
	if err != nil {
		return nil, err
	}
	return LoadEscrow(c.Store(), record)
}

// TxResult is printed once a transaction is committed.
type TxResult struct {
	ID     client.TransactionID `json:"tx"`
	Height int64                `json:"height"`
	Escrow ledger.Address       `json:"escrow"`
}

// submit validates, signs and commits the message. A message rejected in
// the block is returned as an error.
func submit(connect Connector, key *crypto.PrivateKey, msg ledger.Msg) (*client.CommitResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	c, err := connect()
	if err != nil {
		return nil, err
	}
	res, err := c.SignAndCommit(context.Background(), key, &app.Tx{Msg: msg})
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, errors.Wrapf(res.Err, "block %d", res.Height)
	}
	return res, nil
}

func loadKey(cmd *cobra.Command) (*crypto.PrivateKey, error) {
	path, _ := cmd.Flags().GetString(flagKey)
	if path == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "key file flag")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "key file: %s", err)
	}
	var k commands.Key
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "key file: %s", err)
	}
	if k.Secret == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "key file has no secret")
	}
	return k.Secret, nil
}
