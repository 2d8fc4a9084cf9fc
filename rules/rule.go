package rules

import (
	"sort"

	"github.com/flagcore/flagcore/flagcontext"
)

// Rule is a single targeting rule: the value it returns when it wins,
// the criteria that gate it, and an optional documentation-only note.
// C is a phantom type parameter: it never appears in a field, but it
// pins a Rule to the context type its Criteria.Extension (if any) was
// built against, the same way Feature pins a declared value type to a
// context type.
type Rule[C flagcontext.Context, T any] struct {
	Value    T
	Criteria Criteria
	Note     string
}

// New constructs a Rule with the given value and criteria.
func New[C flagcontext.Context, T any](value T, criteria Criteria, note string) Rule[C, T] {
	return Rule[C, T]{Value: value, Criteria: criteria, Note: note}
}

// Specificity delegates to the rule's criteria.
func (r Rule[C, T]) Specificity() uint32 { return r.Criteria.Specificity() }

// SortBySpecificity orders rules by descending specificity, breaking
// ties by ascending lexicographic Note. It is stable, so rules that are
// equal on both keys keep their relative declaration order. Sorting
// happens once, at definition-install time; the evaluation engine never
// re-sorts (spec §4.2 "Ordering guarantees").
func SortBySpecificity[C flagcontext.Context, T any](list []Rule[C, T]) {
	sort.SliceStable(list, func(i, j int) bool {
		si, sj := list[i].Specificity(), list[j].Specificity()
		if si != sj {
			return si > sj
		}
		return list[i].Note < list[j].Note
	})
}
