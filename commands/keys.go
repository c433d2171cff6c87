/*
Package commands provides the client side commands of the daemon. They do
not touch the state and can run without a node.
*/
package commands

import (
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/spf13/cobra"
)

const (
	flagPath = "path"
	flagHRP  = "hrp"
)

// KeysCmd groups the key management commands.
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate and derive ed25519 keys",
	}
	cmd.AddCommand(generateKeyCmd(), deriveKeyCmd())
	return cmd
}

// Key is the JSON output of the key commands.
type Key struct {
	Address ledger.Address     `json:"address"`
	Bech32  string             `json:"bech32,omitempty"`
	Pubkey  *crypto.PublicKey  `json:"pub_key"`
	Secret  *crypto.PrivateKey `json:"secret"`
}

// NewKey describes a private key and its address.
func NewKey(priv *crypto.PrivateKey, hrp string) (*Key, error) {
	pub := priv.PublicKey()
	k := &Key{
		Address: pub.Address(),
		Pubkey:  pub,
		Secret:  priv,
	}
	if hrp != "" {
		enc, err := k.Address.Bech32(hrp)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
		}
		k.Bech32 = enc
	}
	return k, nil
}

func generateKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hrp, _ := cmd.Flags().GetString(flagHRP)
			k, err := NewKey(crypto.GenPrivKeyEd25519(), hrp)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), k)
		},
	}
	cmd.Flags().String(flagHRP, "", "also print the address in bech32 format with this prefix")
	return cmd
}

func deriveKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive <hex seed>",
		Short: "Derive a key from a master seed using a hardened bip44 path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := hex.DecodeString(args[0])
			if err != nil {
				return errors.Wrapf(errors.ErrInvalidInput, "seed: %s", err)
			}
			path, _ := cmd.Flags().GetString(flagPath)
			priv, err := crypto.DeriveEd25519(seed, path)
			if err != nil {
				return err
			}
			hrp, _ := cmd.Flags().GetString(flagHRP)
			k, err := NewKey(priv, hrp)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), k)
		},
	}
	cmd.Flags().String(flagPath, crypto.DefaultDerivationPath, "derivation path")
	cmd.Flags().String(flagHRP, "", "also print the address in bech32 format with this prefix")
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	_, err = w.Write(append(raw, '\n'))
	return err
}
