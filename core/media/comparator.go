package media

import (
	"cmp"
	"strings"
)

// Comparator is a total order over items plus the store-native clause that
// yields rows in the same order.
type Comparator interface {
	// Compare returns a negative number when a sorts before b, zero when they
	// are the same item and a positive number otherwise.
	Compare(a, b Item) int
	// OrderClause returns the ORDER BY expression equivalent to Compare.
	OrderClause() string
}

type fieldComparator struct {
	name    string
	column  string
	desc    bool
	compare func(a, b Item) int
}

// ByDateTaken orders items by capture time, newest first when desc is true.
// Ties are broken by row id in the same direction.
func ByDateTaken(desc bool) Comparator {
	return &fieldComparator{
		name:   "date_taken",
		column: "datetaken",
		desc:   desc,
		compare: func(a, b Item) int {
			return a.takenAt.Compare(b.takenAt)
		},
	}
}

// ByDateAdded orders items by the time they were indexed.
func ByDateAdded(desc bool) Comparator {
	return &fieldComparator{
		name:   "date_added",
		column: "date_added",
		desc:   desc,
		compare: func(a, b Item) int {
			return a.addedAt.Compare(b.addedAt)
		},
	}
}

// ByDisplayName orders items by the stored display name, byte by byte.
// Items whose row has no display name sort after all named items in both
// directions. The fallback name shown for them is not part of the key.
func ByDisplayName(desc bool) Comparator {
	return &nameComparator{desc: desc}
}

// ComparatorNames lists the names accepted by ComparatorByName, without the
// "-asc" variants.
var ComparatorNames = []string{"date_taken", "date_added", "display_name"}

// ComparatorByName resolves a comparator from its name as used by the HTTP
// and CLI surfaces ("date_taken", "date_added", "display_name"), with an
// optional "-asc" suffix. ok is false for unknown names.
func ComparatorByName(name string) (Comparator, bool) {
	desc := true
	if trimmed, found := strings.CutSuffix(name, "-asc"); found {
		name, desc = trimmed, false
	}
	switch name {
	case "", "date_taken":
		return ByDateTaken(desc), true
	case "date_added":
		return ByDateAdded(desc), true
	case "display_name":
		return ByDisplayName(desc), true
	default:
		return nil, false
	}
}

func (c *fieldComparator) Compare(a, b Item) int {
	r := c.compare(a, b)
	if r == 0 {
		r = cmp.Compare(a.rowID, b.rowID)
	}
	if c.desc {
		return -r
	}
	return r
}

func (c *fieldComparator) OrderClause() string {
	dir := " ASC"
	if c.desc {
		dir = " DESC"
	}
	return c.column + dir + ", _id" + dir
}

func (c *fieldComparator) String() string {
	if c.desc {
		return c.name
	}
	return c.name + "-asc"
}

type nameComparator struct {
	desc bool
}

func (c *nameComparator) Compare(a, b Item) int {
	if an, bn := a.sortName == "", b.sortName == ""; an != bn {
		if an {
			return 1
		}
		return -1
	}
	r := strings.Compare(a.sortName, b.sortName)
	if r == 0 {
		r = cmp.Compare(a.rowID, b.rowID)
	}
	if c.desc {
		return -r
	}
	return r
}

// OrderClause compares the hex encoding of the name so that MySQL collations
// and SQLite agree with a plain byte comparison.
func (c *nameComparator) OrderClause() string {
	dir := " ASC"
	if c.desc {
		dir = " DESC"
	}
	return "(LENGTH(COALESCE(_display_name, '')) = 0) ASC, " +
		"HEX(COALESCE(_display_name, ''))" + dir + ", _id" + dir
}

func (c *nameComparator) String() string {
	if c.desc {
		return "display_name"
	}
	return "display_name-asc"
}
