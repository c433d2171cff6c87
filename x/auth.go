package x

import (
	"github.com/iov-one/ledger"
)

// Authenticator tells which conditions the current transaction fulfills.
// Handlers take one in their constructor instead of reading x/sigs
// directly.
type Authenticator interface {
	// GetConditions returns every fulfilled condition, in signing order.
	GetConditions(ledger.Context) []ledger.Condition
	// HasAddress returns true if the address is authorized by any of
	// the fulfilled conditions.
	HasAddress(ledger.Context, ledger.Address) bool
}

// MultiAuth combines a list of authenticators. A condition fulfilled by
// any of them is fulfilled by the group.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth returns an authenticator backed by all given ones.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

func (m MultiAuth) GetConditions(ctx ledger.Context) []ledger.Condition {
	var res []ledger.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first fulfilled condition or nil if there is none.
func MainSigner(ctx ledger.Context, auth Authenticator) ledger.Condition {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	return conds[0]
}
