package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/commands"
	"github.com/iov-one/ledger/commands/server"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
)

const (
	devLamports  = 1000000000
	devTokens    = 1000000
	devDecimals  = 6
	devMintCount = 2
)

// GenInitOptions will produce some basic options for one rich account, to
// use for dev mode. The account owns two mints and holds tokens of both.
// When no address is given, a new key is generated and printed out.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var owner ledger.Address
	if len(args) > 0 {
		addr, err := ledger.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		owner = addr
	} else {
		k, err := commands.NewKey(crypto.GenPrivKeyEd25519(), "")
		if err != nil {
			return nil, err
		}
		raw, err := json.MarshalIndent(k, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
		}
		fmt.Println(string(raw))
		owner = k.Address
	}
	return devGenesis(owner)
}

func devGenesis(owner ledger.Address) (json.RawMessage, error) {
	state := struct {
		Conf    map[string]*token.Configuration `json:"conf"`
		Wallets []token.GenesisWallet           `json:"wallets"`
		Mints   []token.GenesisMint             `json:"mints"`
		Tokens  []token.GenesisToken            `json:"tokens"`
	}{
		Conf: map[string]*token.Configuration{
			token.ConfigurationName: {
				Metadata:        &ledger.Metadata{Schema: 1},
				LamportsPerByte: 1,
				AccountOverhead: 128,
			},
		},
		Wallets: []token.GenesisWallet{
			{Address: owner, Lamports: devLamports},
		},
	}
	for seed := uint64(1); seed <= devMintCount; seed++ {
		mint, err := token.MintAddress(owner, seed)
		if err != nil {
			return nil, err
		}
		state.Mints = append(state.Mints, token.GenesisMint{
			Address:   mint,
			Decimals:  devDecimals,
			Authority: owner,
		})
		state.Tokens = append(state.Tokens, token.GenesisToken{
			Owner:  owner,
			Mint:   mint,
			Amount: devTokens,
		})
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "escrow.db")
	}

	application, err := Application("escrow", Stack(), TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())
	application.WithLogger(options.Logger)
	return application, nil
}
