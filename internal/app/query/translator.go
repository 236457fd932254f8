package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oguzk/campdir/internal/pkg/apperrors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100

	// MaxLimit bounds the page window; together with maxPage it keeps the
	// offset arithmetic inside int64.
	MaxLimit = 1000
	maxPage  = 1 << 31

	// CreatedAtField is the request-side name of the creation timestamp;
	// every collection maps it and it anchors the default sort.
	CreatedAtField = "createdAt"
)

// reserved control parameters stripped before filter translation
var reservedParams = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Translate converts a raw query-string parameter set into a Descriptor for
// the given collection. It is pure: identical input always yields an
// identical descriptor, and storage is never touched here.
//
// Filter parameters take the form field=value for equality or
// field[op]=value with op one of gt, gte, lt, lte, in. Unknown fields and
// operators fail with a validation error instead of being passed through.
func Translate(raw url.Values, col *Collection) (*Descriptor, error) {
	d := &Descriptor{
		Page:  parsePositiveInt(raw.Get("page"), DefaultPage, maxPage),
		Limit: parsePositiveInt(raw.Get("limit"), DefaultLimit, MaxLimit),
	}

	if err := translateFilters(raw, col, d); err != nil {
		return nil, err
	}
	if err := translateSelect(raw.Get("select"), col, d); err != nil {
		return nil, err
	}
	if err := translateSort(raw.Get("sort"), col, d); err != nil {
		return nil, err
	}

	// A relation is expanded unless a projection is present that does not
	// name it: selection filters expansions, not just scalar fields.
	for _, rel := range col.Relations {
		if d.Wants(rel.Name) {
			d.Populate = append(d.Populate, rel.Name)
		}
	}

	return d, nil
}

func translateFilters(raw url.Values, col *Collection, d *Descriptor) error {
	for key, values := range raw {
		if reservedParams[key] || len(values) == 0 {
			continue
		}

		field, op, err := parseFilterKey(key)
		if err != nil {
			return err
		}
		f, ok := col.Lookup(field)
		if !ok {
			return apperrors.NewValidationError(fmt.Sprintf("unknown filter field %q", field))
		}
		if f.Kind == FieldTextArray && op != OpEq && op != OpIn {
			return apperrors.NewValidationError(
				fmt.Sprintf("operator %q not supported for field %q", string(op), field))
		}

		cond := Condition{Field: field, Op: op}
		if op == OpIn {
			for _, v := range values {
				for _, part := range strings.Split(v, ",") {
					val, err := coerceValue(part, f.Kind)
					if err != nil {
						return apperrors.NewValidationError(
							fmt.Sprintf("invalid value %q for field %q", part, field))
					}
					cond.Values = append(cond.Values, val)
				}
			}
		} else {
			val, err := coerceValue(values[0], f.Kind)
			if err != nil {
				return apperrors.NewValidationError(
					fmt.Sprintf("invalid value %q for field %q", values[0], field))
			}
			cond.Values = []interface{}{val}
		}
		d.Conditions = append(d.Conditions, cond)
	}

	// url.Values iteration order is randomized; a stable order keeps the
	// translation a pure function of its input.
	sort.Slice(d.Conditions, func(i, j int) bool {
		if d.Conditions[i].Field != d.Conditions[j].Field {
			return d.Conditions[i].Field < d.Conditions[j].Field
		}
		return d.Conditions[i].Op < d.Conditions[j].Op
	})

	return nil
}

// parseFilterKey splits "tuition[lte]" into field and operator. A bare key
// is an equality filter.
func parseFilterKey(key string) (string, Op, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", apperrors.NewValidationError(fmt.Sprintf("malformed filter parameter %q", key))
	}

	field := key[:open]
	switch op := Op(key[open+1 : len(key)-1]); op {
	case OpGt, OpGte, OpLt, OpLte, OpIn:
		return field, op, nil
	default:
		return "", "", apperrors.NewValidationError(fmt.Sprintf("unsupported filter operator %q", string(op)))
	}
}

func translateSelect(selectParam string, col *Collection, d *Descriptor) error {
	if selectParam == "" {
		return nil
	}
	for _, f := range strings.Split(selectParam, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := col.Column(f); !ok && !col.HasRelation(f) {
			return apperrors.NewValidationError(fmt.Sprintf("unknown select field %q", f))
		}
		d.Select = append(d.Select, f)
	}
	return nil
}

func translateSort(sortParam string, col *Collection, d *Descriptor) error {
	if sortParam == "" {
		// default sort: newest first
		d.Sort = []SortKey{{Field: CreatedAtField, Desc: true}}
		return nil
	}

	for _, key := range strings.Split(sortParam, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		sk := SortKey{Field: key}
		if strings.HasPrefix(key, "-") {
			sk = SortKey{Field: key[1:], Desc: true}
		}
		if _, ok := col.Column(sk.Field); !ok {
			return apperrors.NewValidationError(fmt.Sprintf("unknown sort field %q", sk.Field))
		}
		d.Sort = append(d.Sort, sk)
	}

	if len(d.Sort) == 0 {
		d.Sort = []SortKey{{Field: CreatedAtField, Desc: true}}
	}
	return nil
}

// parsePositiveInt coerces pagination input to a positive integer, falling
// back to def for non-numeric or non-positive values and clamping to max.
func parsePositiveInt(s string, def, max int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// timeLayouts accepted for filters on timestamp fields
var timeLayouts = []string{time.RFC3339, "2006-01-02"}

// coerceValue converts a raw filter value to the field's storage type so the
// bind parameter matches the column. A value that cannot be coerced is a
// client error, not a database one.
func coerceValue(raw string, kind FieldKind) (interface{}, error) {
	s := strings.TrimSpace(raw)
	switch kind {
	case FieldInt:
		return strconv.ParseInt(s, 10, 64)
	case FieldFloat:
		return strconv.ParseFloat(s, 64)
	case FieldBool:
		return strconv.ParseBool(s)
	case FieldTime:
		var lastErr error
		for _, layout := range timeLayouts {
			t, err := time.Parse(layout, s)
			if err == nil {
				return t, nil
			}
			lastErr = err
		}
		return nil, lastErr
	default:
		return s, nil
	}
}
