// Package order sorts directory entries by name and groups them for display.
package order

import (
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Tiers order names by their first character: symbols, digits, letters, and
// finally entries without a name.
const (
	TierSymbol   = 1
	TierDigit    = 2
	TierLetter   = 3
	TierNameless = 4
)

// Tier classifies a name. Only ASCII digits and letters get their own tier;
// any other leading character counts as a symbol.
func Tier(name string, ok bool) int {
	if !ok || name == "" {
		return TierNameless
	}
	c := name[0]
	switch {
	case c >= '0' && c <= '9':
		return TierDigit
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return TierLetter
	default:
		return TierSymbol
	}
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English)
)

// Compare orders two names the way a reader of English expects.
func Compare(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// Sort returns a sorted copy of items. Names order by tier, then by Compare.
// The sort is stable, so nameless entries keep their input order.
func Sort[T any](items []T, name func(T) (string, bool)) []T {
	type keyed struct {
		item T
		name string
		tier int
	}
	ks := make([]keyed, len(items))
	for i, it := range items {
		n, ok := name(it)
		ks[i] = keyed{item: it, name: n, tier: Tier(n, ok)}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		if a.tier != b.tier {
			return a.tier - b.tier
		}
		if a.tier == TierNameless {
			return 0
		}
		return Compare(a.name, b.name)
	})
	out := make([]T, len(ks))
	for i, k := range ks {
		out[i] = k.item
	}
	return out
}

// Group is one key and its members in input order.
type Group[T any] struct {
	Key   string `json:"key"`
	Items []T    `json:"items"`
}

// Groups is an ordered mapping, keys in first-appearance order.
type Groups[T any] []Group[T]

// GroupBy partitions items by key without sorting either keys or members.
func GroupBy[T any](items []T, key func(T) string) Groups[T] {
	index := make(map[string]int)
	var gs Groups[T]
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(gs)
			index[k] = i
			gs = append(gs, Group[T]{Key: k})
		}
		gs[i].Items = append(gs[i].Items, it)
	}
	return gs
}

// Capped returns a copy holding at most n members per group.
func (gs Groups[T]) Capped(n int) Groups[T] {
	out := make(Groups[T], len(gs))
	for i, g := range gs {
		items := g.Items
		if n >= 0 && len(items) > n {
			items = items[:n]
		}
		out[i] = Group[T]{Key: g.Key, Items: slices.Clone(items)}
	}
	return out
}

// Keys lists group keys in order.
func (gs Groups[T]) Keys() []string {
	keys := make([]string, len(gs))
	for i, g := range gs {
		keys[i] = g.Key
	}
	return keys
}

// Len counts members across all groups.
func (gs Groups[T]) Len() int {
	n := 0
	for _, g := range gs {
		n += len(g.Items)
	}
	return n
}
