package ledger

import (
	"encoding/json"

	"github.com/iov-one/ledger/errors"
)

// Handler is a core engine that can process a few specific messages. This
// could represent "escrow make", or "token transfer".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction. It is its own
// interface to allow better type controls in the next arguments in
// Decorator.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like
// authentication, or atomic execution, to many Handlers.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler, the setup side of a
// Router.
type Registry interface {
	// Handle assigns given handler to handle processing of every message
	// of provided type.
	Handle(Msg, Handler)
}

// Options are the app options. Each extension can look up it's key and
// parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key, and parses the
// json into the given obj. Returns an error if it cannot parse. Noop and no
// error if key is missing.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Stream expects an array of json elements and allows to process them
// sequentially. This helps reading big genesis files without unmarshaling
// all elements at once. ErrEmpty is returned when the key is missing and
// by the returned function when all elements were consumed.
func (o Options) Stream(key string) (func(obj interface{}) error, error) {
	raw := o[key]
	if len(raw) == 0 {
		return nil, errors.Wrapf(errors.ErrEmpty, "genesis %q", key)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "genesis %q is not a list: %s", key, err)
	}
	next := func(obj interface{}) error {
		if len(elems) == 0 {
			return errors.ErrEmpty
		}
		elem := elems[0]
		elems = elems[1:]
		if err := json.Unmarshal(elem, obj); err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "genesis %q element: %s", key, err)
		}
		return nil
	}
	return next, nil
}

// Initializer implementations are used to initialize extensions from
// genesis file contents.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
