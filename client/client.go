/*
Package client talks to a node over the tendermint rpc. It submits signed
transactions and reads the committed state.
*/
package client

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/sigs"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// Client is a tendermint client wrapped to provide simple access to the
// ledger state.
type Client struct {
	conn Conn
}

var _ app.Querier = (*Client)(nil)

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// Status returns current height and other (subjective) status info from this node
func (c *Client) Status(ctx context.Context) (*Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrNetwork, err.Error())
	}
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		ChainID:    status.NodeInfo.Network,
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// Query is meant to mirror the abci query interface exactly, so we can wrap
// it with app.ABCIStore. This will give us state from the application.
func (c *Client) Query(query RequestQuery) ResponseQuery {
	opts := rpcclient.ABCIQueryOptions{Height: query.Height, Prove: query.Prove}
	res, err := c.conn.ABCIQueryWithOptions(query.Path, query.Data, opts)
	// network error reported as special error code
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return ResponseQuery{
			Code: code,
			Log:  log,
		}
	}
	return res.Response
}

// Store returns a read only view of the committed state of the node.
func (c *Client) Store() ledger.ReadOnlyKVStore {
	return app.NewABCIStore(c)
}

// NextNonce returns the sequence the signer must use for its next
// transaction.
func (c *Client) NextNonce(signer ledger.Address) (int64, error) {
	return sigs.NextNonce(c.Store(), signer)
}

// CommitTx submits the transaction and blocks until it is part of a block.
// A transaction rejected by CheckTx is returned as an error. The result of
// DeliverTx is returned in the CommitResult.
func (c *Client) CommitTx(ctx context.Context, tx ledger.Tx) (*CommitResult, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrNetwork, err.Error())
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err)
	}
	// a checktx error is handled like any other error, it never makes it
	// into a block
	if err := errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log); err != nil {
		return nil, err
	}
	result, err := ledger.ParseDeliverOrError(res.DeliverTx)
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Result: result,
		Err:    err,
	}, nil
}

// SignAndCommit sets the nonce signature of the signer on the transaction
// and commits it.
func (c *Client) SignAndCommit(ctx context.Context, signer Signer, tx SignableTx) (*CommitResult, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}
	nonce, err := c.NextNonce(signer.PublicKey().Address())
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	sig, err := sigs.SignTx(signer, tx, status.ChainID, nonce)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	tx.AddSignature(sig)
	return c.CommitTx(ctx, tx)
}
