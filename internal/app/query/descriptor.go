package query

// Op identifies a comparison operator in a filter condition. The textual
// operator tokens accepted from clients (gt, gte, lt, lte, in) map onto
// these; anything else is an equality match.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

// Condition is one node of the filter tree: field, operator and the typed
// comparison value(s). Values holds a single element except for OpIn.
type Condition struct {
	Field  string
	Op     Op
	Values []interface{}
}

// SortKey is one (field, direction) pair. Keys apply left to right as
// tie-breakers.
type SortKey struct {
	Field string
	Desc  bool
}

// Descriptor is the normalized, request-scoped representation of client
// filter/sort/paginate/expand intent. It is produced by Translate and holds
// no connection to storage; executing it is the repository's job.
type Descriptor struct {
	Conditions []Condition
	Select     []string // JSON field names to project; empty means all
	Sort       []SortKey
	Page       int
	Limit      int
	Populate   []string // relation names to expand
}

// Offset returns the number of rows to skip for the descriptor's page
func (d *Descriptor) Offset() uint64 {
	return uint64((d.Page - 1) * d.Limit)
}

// Wants reports whether the projection includes the given field. An empty
// projection includes everything.
func (d *Descriptor) Wants(field string) bool {
	if len(d.Select) == 0 {
		return true
	}
	for _, f := range d.Select {
		if f == field {
			return true
		}
	}
	return false
}

// Relation names a relationship eligible for expansion on a collection
type Relation struct {
	Name string
}

// FieldKind is the storage type a queryable field binds against. Filter
// values are coerced to this type during translation so a mismatched value
// fails as a validation error instead of a bind-time database error.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldInt
	FieldFloat
	FieldBool
	FieldTime
	FieldTextArray
)

// Field maps a request field name onto its column and type
type Field struct {
	Column string
	Kind   FieldKind
}

// Collection describes the queryable surface of one stored collection:
// which request fields exist off which typed columns, and which relations
// can be expanded.
type Collection struct {
	Table     string
	Alias     string
	Fields    map[string]Field // request field name -> typed column
	Relations []Relation
}

// Lookup resolves a request field name to its typed column, reporting
// whether the field is part of the collection's queryable surface. Filters
// and sorts on names outside this map are rejected before they ever reach
// SQL, which is what keeps operator-named fields from corrupting a query.
func (c *Collection) Lookup(field string) (Field, bool) {
	f, ok := c.Fields[field]
	return f, ok
}

// Column resolves a request field name to its column only
func (c *Collection) Column(field string) (string, bool) {
	f, ok := c.Fields[field]
	return f.Column, ok
}

// HasRelation reports whether the named relation exists on the collection
func (c *Collection) HasRelation(name string) bool {
	for _, r := range c.Relations {
		if r.Name == name {
			return true
		}
	}
	return false
}
