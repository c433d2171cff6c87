/*
Package app links together all the various components to construct the
escrow application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
	"github.com/iov-one/ledger/x/utils"
)

// Authenticator returns the typical authentication, just using public key
// signatures.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication, logging
// and recovery.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce even if the message
		// fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching token, escrow and nonce messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := token.NewController()
	token.RegisterRoutes(r, authFn, ctrl)
	escrow.RegisterRoutes(r, authFn, ctrl)
	sigs.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router, allowing access to "/",
// "/auth", "/escrows", "/mints", "/tokens" and "/wallets".
func QueryRouter() ledger.QueryRouter {
	r := ledger.NewQueryRouter()
	r.RegisterAll(
		app.RegisterQuery,
		escrow.RegisterQuery,
		token.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator chain. This
// can be passed into BaseApp.
func Stack() ledger.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() ledger.Initializer {
	return app.ChainInitializers(&token.Initializer{})
}

// Application constructs a basic ABCI application with the given
// arguments. If you are not sure what to use for the Handler, just use
// Stack().
func Application(name string, h ledger.Handler, tx ledger.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists the data to
// the named path. An empty path returns an in memory store.
func CommitKVStore(dbPath string) (ledger.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "database path %q: %s", dbPath, err)
	}
	// Some callers add a ".db" suffix which the backend appends again.
	path = strings.TrimSuffix(path, filepath.Ext(path))

	s, err := iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return s, nil
}
