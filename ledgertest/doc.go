// Package ledgertest provides mocks and helpers for testing ledger
// extensions: authenticators, transactions, handlers, decorators, keys and
// a disk backed commit store.
package ledgertest
