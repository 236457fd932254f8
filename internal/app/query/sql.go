package query

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// ApplyWhere compiles the descriptor's filter tree onto a squirrel select
// builder. Field names and value types were validated during translation, so
// every condition resolves to a known column with a matching bind type here.
func (d *Descriptor) ApplyWhere(b squirrel.SelectBuilder, col *Collection) squirrel.SelectBuilder {
	for _, cond := range d.Conditions {
		f, ok := col.Lookup(cond.Field)
		if !ok {
			continue
		}
		column := f.Column

		// Array fields match by overlap: eq and in both mean "contains
		// any of the given elements", mirroring membership semantics.
		if f.Kind == FieldTextArray {
			elems := make([]string, 0, len(cond.Values))
			for _, v := range cond.Values {
				if s, ok := v.(string); ok {
					elems = append(elems, s)
				}
			}
			b = b.Where(squirrel.Expr(column+" && ?", elems))
			continue
		}

		switch cond.Op {
		case OpGt:
			b = b.Where(squirrel.Gt{column: cond.Values[0]})
		case OpGte:
			b = b.Where(squirrel.GtOrEq{column: cond.Values[0]})
		case OpLt:
			b = b.Where(squirrel.Lt{column: cond.Values[0]})
		case OpLte:
			b = b.Where(squirrel.LtOrEq{column: cond.Values[0]})
		case OpIn:
			b = b.Where(squirrel.Eq{column: cond.Values})
		default:
			b = b.Where(squirrel.Eq{column: cond.Values[0]})
		}
	}
	return b
}

// ApplyOrderAndPage adds the descriptor's sort keys and pagination window.
// The total document count is obtained separately with a builder that only
// went through ApplyWhere, so next/prev availability is computed against the
// unpaginated predicate.
func (d *Descriptor) ApplyOrderAndPage(b squirrel.SelectBuilder, col *Collection) squirrel.SelectBuilder {
	for _, sk := range d.Sort {
		column, ok := col.Column(sk.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if sk.Desc {
			dir = "DESC"
		}
		b = b.OrderBy(fmt.Sprintf("%s %s", column, dir))
	}

	return b.Limit(uint64(d.Limit)).Offset(d.Offset())
}
