package app

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

// pathDecoder decodes a transaction whose bytes are its message path.
func pathDecoder(raw []byte) (ledger.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty transaction")
	}
	if string(raw) == "boom" {
		panic("cannot decode")
	}
	return &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: string(raw)}}, nil
}

func newTestApp(t *testing.T) BaseApp {
	t.Helper()

	r := NewRouter()
	r.Handle(&ledgertest.Msg{RoutePath: "test/write"}, &ledgertest.WriteHandler{
		Key:   []byte("written"),
		Value: []byte("value"),
	})
	r.Handle(&ledgertest.Msg{RoutePath: "test/fail"}, &ledgertest.WriteHandler{
		Key:   []byte("failed"),
		Value: []byte("value"),
		Err:   errors.ErrInvalidState,
	})
	handler := ChainDecorators(
		utils.NewRecovery(),
		utils.NewSavepoint().OnCheck().OnDeliver(),
	).WithHandler(r)

	qr := ledger.NewQueryRouter()
	qr.RegisterAll(RegisterQuery)
	store := NewStoreApp("test-app", iavl.MockCommitStore(), qr, context.Background())
	store = store.WithInit(ChainInitializers(dummyInit{}))
	return NewBaseApp(store, pathDecoder, handler, false)
}

func TestBaseAppLifecycle(t *testing.T) {
	app := newTestApp(t)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, "test-app", info.Data)
	assert.Equal(t, int64(0), info.LastBlockHeight)

	app.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{"dummy": "genesis value"}`),
	})
	assert.Equal(t, "test-chain-1", app.GetChainID())

	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, ChainID: "test-chain-1"}})

	check := app.CheckTx([]byte("test/write"))
	assert.Equal(t, errors.SuccessABCICode, check.Code, check.Log)

	res := app.DeliverTx([]byte("test/write"))
	assert.Equal(t, errors.SuccessABCICode, res.Code, res.Log)

	res = app.DeliverTx([]byte("test/fail"))
	assert.Equal(t, errors.ErrInvalidState.ABCICode(), res.Code)

	res = app.DeliverTx([]byte("test/unknown"))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	res = app.DeliverTx(nil)
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), res.Code)

	res = app.DeliverTx([]byte("boom"))
	assert.Equal(t, errors.ErrPanic.ABCICode(), res.Code)

	app.EndBlock(abci.RequestEndBlock{Height: 1})
	commit := app.Commit()
	assert.NotEmpty(t, commit.Data)

	info = app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	db := NewABCIStore(app)
	val, err := db.Get([]byte("written"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)

	val, err = db.Get([]byte(dummyKey))
	require.NoError(t, err)
	assert.Equal(t, []byte("genesis value"), val)

	// failed transaction changes are rolled back
	has, err := db.Has([]byte("failed"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestInitChainRequiresAppState(t *testing.T) {
	app := newTestApp(t)
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "test-chain-1"})
	})
}

func TestQueryUnknownPath(t *testing.T) {
	app := newTestApp(t)
	res := app.Query(abci.RequestQuery{Path: "/nothing"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}

func TestSplitPath(t *testing.T) {
	cases := map[string]struct {
		path     string
		wantPath string
		wantMod  string
	}{
		"plain":       {path: "/escrows", wantPath: "/escrows"},
		"prefix":      {path: "/escrows?prefix", wantPath: "/escrows", wantMod: "prefix"},
		"index":       {path: "/escrows/maker?prefix", wantPath: "/escrows/maker", wantMod: "prefix"},
		"empty mod":   {path: "/?", wantPath: "/"},
		"root prefix": {path: "/?prefix", wantPath: "/", wantMod: "prefix"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path, mod := splitPath(tc.path)
			assert.Equal(t, tc.wantPath, path)
			assert.Equal(t, tc.wantMod, mod)
		})
	}
}
