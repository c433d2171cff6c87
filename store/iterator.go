package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/ledger/errors"
)

// cacheIter merges the pending writes of a cache wrap with the content of
// the parent store. A pending write always shadows the parent value under
// the same key.
type cacheIter struct {
	items     []btree.Item
	parent    Iterator
	ascending bool

	// Lookahead of the parent iterator.
	pKey, pValue []byte
	pLoaded      bool
	pDone        bool
}

var _ Iterator = (*cacheIter)(nil)

func newCacheIter(bt *btree.BTree, start, end []byte, ascending bool, parent Iterator) *cacheIter {
	var items []btree.Item
	collect := func(i btree.Item) bool {
		items = append(items, i)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	if !ascending {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return &cacheIter{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
}

// Next returns the next key value pair that is not deleted.
func (c *cacheIter) Next() (key, value []byte, err error) {
	for {
		if !c.pLoaded && !c.pDone {
			k, v, err := c.parent.Next()
			switch {
			case err == nil:
				c.pKey, c.pValue, c.pLoaded = k, v, true
			case errors.ErrIteratorDone.Is(err):
				c.pDone = true
			default:
				return nil, nil, err
			}
		}

		if len(c.items) == 0 {
			if c.pDone {
				return nil, nil, errors.ErrIteratorDone
			}
			c.pLoaded = false
			return c.pKey, c.pValue, nil
		}

		item := c.items[0]
		if !c.pDone {
			cmp := bytes.Compare(item.(keyer).Key(), c.pKey)
			if !c.ascending {
				cmp = -cmp
			}
			if cmp > 0 {
				c.pLoaded = false
				return c.pKey, c.pValue, nil
			}
			if cmp == 0 {
				// Shadowed by the cache.
				c.pLoaded = false
			}
		}

		c.items = c.items[1:]
		if s, ok := item.(setItem); ok {
			return s.key, s.value, nil
		}
		// Deleted item, move on.
	}
}

// Release releases the parent iterator.
func (c *cacheIter) Release() {
	c.items = nil
	c.parent.Release()
}
