package query

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
)

func TestApplyWhereArrayOverlap(t *testing.T) {
	tests := []struct {
		name     string
		raw      url.Values
		wantArgs []string
	}{
		{
			name:     "in filter matches any listed career",
			raw:      url.Values{"careers[in]": {"Business,UI/UX"}},
			wantArgs: []string{"Business", "UI/UX"},
		},
		{
			name:     "equality matches membership",
			raw:      url.Values{"careers": {"Business"}},
			wantArgs: []string{"Business"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Translate(tt.raw, testCollection())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
			sql, args, err := d.ApplyWhere(sb.Select("id").From("courses"), testCollection()).ToSql()
			if err != nil {
				t.Fatalf("failed to build sql: %v", err)
			}

			if !strings.Contains(sql, "courses.careers && $1") {
				t.Errorf("expected overlap condition in %q", sql)
			}
			if len(args) != 1 || !reflect.DeepEqual(args[0], tt.wantArgs) {
				t.Errorf("expected args [%v], got %v", tt.wantArgs, args)
			}
		})
	}
}

func TestApplyWhereTypedComparison(t *testing.T) {
	raw := url.Values{"tuition[lte]": {"10000"}, "title": {"Go Basics"}}
	d, err := Translate(raw, testCollection())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	_, args, err := d.ApplyWhere(sb.Select("id").From("courses"), testCollection()).ToSql()
	if err != nil {
		t.Fatalf("failed to build sql: %v", err)
	}

	// conditions are sorted by field name: title before tuition
	want := []interface{}{"Go Basics", int64(10000)}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("expected args %v, got %v", want, args)
	}
}
