package tagsync

import (
	"fmt"
	"slices"

	"cinetag/internal/cinematic"
	"cinetag/internal/tag"
)

// Match binds a live actor name to its element in the objects block.
type Match struct {
	Name    string
	Element *tag.Element
	// Index is the element position after reconciliation.
	Index   int
	Created bool
}

// Reconciliation is the outcome of Reconcile.
type Reconciliation struct {
	// Matches follow the order of the names passed in.
	Matches []Match
	// Removed lists the names of deleted elements in removal order.
	Removed []string
}

// Added counts matches whose element was appended.
func (r Reconciliation) Added() int {
	n := 0
	for _, m := range r.Matches {
		if m.Created {
			n++
		}
	}
	return n
}

// ResizeBlock truncates or extends block to exactly n elements. Trailing
// elements are removed; new ones are blank.
func ResizeBlock(block *tag.Block, n int) {
	if n < 0 {
		n = 0
	}
	for block.Len() > n {
		_ = block.Remove(block.Len() - 1)
	}
	for block.Len() < n {
		block.Add()
	}
}

// Reconcile makes block hold exactly one element per name. Elements are
// matched by their name field; the first element carrying a live name is
// kept, later duplicates and unmatched elements are removed from the highest
// index down, and missing names are appended and named.
func Reconcile(block *tag.Block, names []string) (Reconciliation, error) {
	live := make(map[string]bool, len(names))
	for _, name := range names {
		if live[name] {
			return Reconciliation{}, fmt.Errorf("%w: %q", cinematic.ErrDuplicateActor, name)
		}
		live[name] = true
	}

	bound := make(map[string]*tag.Element, len(names))
	var remove []int
	for i, el := range block.Elements() {
		name, err := el.String(fieldName)
		if err != nil {
			return Reconciliation{}, fmt.Errorf("%s[%d]: %w", block.Name(), i, err)
		}
		if !live[name] || bound[name] != nil {
			remove = append(remove, i)
			continue
		}
		bound[name] = el
	}

	var result Reconciliation
	slices.Reverse(remove)
	for _, i := range remove {
		el, err := block.Element(i)
		if err != nil {
			return Reconciliation{}, err
		}
		name, _ := el.String(fieldName)
		if err := block.Remove(i); err != nil {
			return Reconciliation{}, err
		}
		result.Removed = append(result.Removed, name)
	}

	result.Matches = make([]Match, 0, len(names))
	for _, name := range names {
		el, ok := bound[name]
		if !ok {
			el = block.Add()
			el.SetString(fieldName, name)
		}
		result.Matches = append(result.Matches, Match{Name: name, Element: el, Created: !ok})
	}
	for i := range result.Matches {
		result.Matches[i].Index = block.IndexOf(result.Matches[i].Element)
	}
	return result, nil
}
