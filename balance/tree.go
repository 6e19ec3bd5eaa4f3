package balance

import (
	"github.com/jfvdberg/taxfolio/journal"
)

// Tree is the hierarchical registry of accounts by path. Lookups are O(1)
// through a flat index; the parent/child links carry the subtree totals.
type Tree struct {
	roots map[string]*Account
	index map[journal.AccountName]*Account
}

// NewTree creates an empty account tree.
func NewTree() *Tree {
	return &Tree{
		roots: make(map[string]*Account),
		index: make(map[journal.AccountName]*Account),
	}
}

// GetOrCreate returns the account at the given path, building and linking
// any missing intermediate nodes.
func (t *Tree) GetOrCreate(name journal.AccountName) *Account {
	if acc, ok := t.index[name]; ok {
		return acc
	}

	segments := name.Segments()
	var parent *Account
	var path journal.AccountName
	for i, segment := range segments {
		if i == 0 {
			path = journal.AccountName(segment)
		} else {
			path = path + ":" + journal.AccountName(segment)
		}

		acc, ok := t.index[path]
		if !ok {
			acc = newAccount(path, parent)
			t.index[path] = acc
			if parent == nil {
				t.roots[segment] = acc
			} else {
				parent.Children[segment] = acc
			}
		}
		parent = acc
	}
	return parent
}

// Get returns the account at the given path. It never creates nodes; a
// missing path reports false.
func (t *Tree) Get(name journal.AccountName) (*Account, bool) {
	acc, ok := t.index[name]
	return acc, ok
}

// Roots returns the top-level accounts keyed by first path segment.
func (t *Tree) Roots() map[string]*Account {
	return t.roots
}

// Accounts returns every account in the tree keyed by full path.
func (t *Tree) Accounts() map[journal.AccountName]*Account {
	return t.index
}
