package query

import (
	"net/url"
	"reflect"
	"testing"
	"time"
)

func testCollection() *Collection {
	return &Collection{
		Table: "courses",
		Fields: map[string]Field{
			"title":     {Column: "courses.title"},
			"tuition":   {Column: "courses.tuition", Kind: FieldInt},
			"careers":   {Column: "courses.careers", Kind: FieldTextArray},
			"createdAt": {Column: "courses.created_at", Kind: FieldTime},
		},
		Relations: []Relation{{Name: "bootcamp"}},
	}
}

func TestTranslateDefaults(t *testing.T) {
	d, err := Translate(url.Values{}, testCollection())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.Page != DefaultPage {
		t.Errorf("expected page %d, got %d", DefaultPage, d.Page)
	}
	if d.Limit != DefaultLimit {
		t.Errorf("expected limit %d, got %d", DefaultLimit, d.Limit)
	}
	if len(d.Conditions) != 0 {
		t.Errorf("expected no conditions, got %v", d.Conditions)
	}
	want := []SortKey{{Field: CreatedAtField, Desc: true}}
	if !reflect.DeepEqual(d.Sort, want) {
		t.Errorf("expected default sort %v, got %v", want, d.Sort)
	}
	// no projection, so the relation is expanded
	if !reflect.DeepEqual(d.Populate, []string{"bootcamp"}) {
		t.Errorf("expected bootcamp populated, got %v", d.Populate)
	}
}

func TestTranslateOperators(t *testing.T) {
	tests := []struct {
		name string
		raw  url.Values
		want []Condition
	}{
		{
			name: "bare key is equality",
			raw:  url.Values{"title": {"Go Basics"}},
			want: []Condition{{Field: "title", Op: OpEq, Values: []interface{}{"Go Basics"}}},
		},
		{
			name: "numeric value on a text column stays text",
			raw:  url.Values{"title": {"42"}},
			want: []Condition{{Field: "title", Op: OpEq, Values: []interface{}{"42"}}},
		},
		{
			name: "lte with numeric coercion",
			raw:  url.Values{"tuition[lte]": {"10000"}},
			want: []Condition{{Field: "tuition", Op: OpLte, Values: []interface{}{int64(10000)}}},
		},
		{
			name: "in splits comma separated values",
			raw:  url.Values{"careers[in]": {"Web Development,UI/UX"}},
			want: []Condition{{Field: "careers", Op: OpIn, Values: []interface{}{"Web Development", "UI/UX"}}},
		},
		{
			name: "multiple operators on one field sort by operator",
			raw:  url.Values{"tuition[lte]": {"20000"}, "tuition[gte]": {"5000"}},
			want: []Condition{
				{Field: "tuition", Op: OpGte, Values: []interface{}{int64(5000)}},
				{Field: "tuition", Op: OpLte, Values: []interface{}{int64(20000)}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Translate(tt.raw, testCollection())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(d.Conditions, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, d.Conditions)
			}
		})
	}
}

func TestTranslateRejectsUnknownInput(t *testing.T) {
	tests := []struct {
		name string
		raw  url.Values
	}{
		{name: "unknown filter field", raw: url.Values{"password": {"x"}}},
		{name: "unsupported operator", raw: url.Values{"tuition[regex]": {"1"}}},
		{name: "malformed bracket key", raw: url.Values{"tuition[lte": {"1"}}},
		{name: "non-numeric value on an integer column", raw: url.Values{"tuition[lte]": {"abc"}}},
		{name: "non-date value on a timestamp column", raw: url.Values{"createdAt[gte]": {"yesterday"}}},
		{name: "range operator on an array column", raw: url.Values{"careers[gte]": {"Business"}}},
		{name: "unknown select field", raw: url.Values{"select": {"title,secret"}}},
		{name: "unknown sort field", raw: url.Values{"sort": {"-secret"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Translate(tt.raw, testCollection()); err == nil {
				t.Fatalf("expected validation error for %v", tt.raw)
			}
		})
	}
}

func TestTranslateSelectAndSort(t *testing.T) {
	raw := url.Values{
		"select": {"title,tuition"},
		"sort":   {"-tuition,title"},
	}
	d, err := Translate(raw, testCollection())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(d.Select, []string{"title", "tuition"}) {
		t.Errorf("unexpected select: %v", d.Select)
	}
	wantSort := []SortKey{{Field: "tuition", Desc: true}, {Field: "title"}}
	if !reflect.DeepEqual(d.Sort, wantSort) {
		t.Errorf("expected sort %v, got %v", wantSort, d.Sort)
	}
	// projection does not name the relation, so it is not expanded
	if len(d.Populate) != 0 {
		t.Errorf("expected no populated relations, got %v", d.Populate)
	}
}

func TestTranslateSelectKeepsNamedRelation(t *testing.T) {
	raw := url.Values{"select": {"title,bootcamp"}}
	d, err := Translate(raw, testCollection())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(d.Populate, []string{"bootcamp"}) {
		t.Errorf("expected bootcamp populated, got %v", d.Populate)
	}
}

func TestTranslatePaginationFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		raw       url.Values
		wantPage  int
		wantLimit int
	}{
		{name: "explicit values", raw: url.Values{"page": {"3"}, "limit": {"25"}}, wantPage: 3, wantLimit: 25},
		{name: "zero falls back", raw: url.Values{"page": {"0"}, "limit": {"0"}}, wantPage: DefaultPage, wantLimit: DefaultLimit},
		{name: "garbage falls back", raw: url.Values{"page": {"abc"}, "limit": {"-5"}}, wantPage: DefaultPage, wantLimit: DefaultLimit},
		{name: "oversized limit clamps", raw: url.Values{"limit": {"9223372036854775807"}}, wantPage: DefaultPage, wantLimit: MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Translate(tt.raw, testCollection())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Page != tt.wantPage || d.Limit != tt.wantLimit {
				t.Errorf("expected page=%d limit=%d, got page=%d limit=%d",
					tt.wantPage, tt.wantLimit, d.Page, d.Limit)
			}
		})
	}
}

func TestTranslateIsDeterministic(t *testing.T) {
	raw := url.Values{
		"tuition[gte]": {"1000"},
		"tuition[lte]": {"9000"},
		"title":        {"Go"},
		"sort":         {"-createdAt"},
		"page":         {"2"},
	}

	first, err := Translate(raw, testCollection())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		next, err := Translate(raw, testCollection())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("translation not deterministic: %v vs %v", first, next)
		}
	}
}

func TestTranslateOffsetStaysBounded(t *testing.T) {
	raw := url.Values{"page": {"9223372036854775807"}, "limit": {"9223372036854775807"}}
	d, err := Translate(raw, testCollection())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Offset() != uint64(maxPage-1)*uint64(MaxLimit) {
		t.Errorf("unexpected offset %d for clamped page/limit", d.Offset())
	}

	raw = url.Values{"page": {"3"}, "limit": {"9223372036854775807"}}
	d, err = Translate(raw, testCollection())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.Offset(); got != 2*MaxLimit {
		t.Errorf("expected offset %d, got %d", 2*MaxLimit, got)
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		in      string
		kind    FieldKind
		want    interface{}
		wantErr bool
	}{
		{in: "42", kind: FieldInt, want: int64(42)},
		{in: " 7 ", kind: FieldInt, want: int64(7)},
		{in: "abc", kind: FieldInt, wantErr: true},
		{in: "4.5", kind: FieldFloat, want: 4.5},
		{in: "x", kind: FieldFloat, wantErr: true},
		{in: "true", kind: FieldBool, want: true},
		{in: "maybe", kind: FieldBool, wantErr: true},
		{in: "42", kind: FieldText, want: "42"},
		{in: "hello", kind: FieldText, want: "hello"},
		{in: "2024-01-02", kind: FieldTime, want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{in: "not a date", kind: FieldTime, wantErr: true},
	}
	for _, tt := range tests {
		got, err := coerceValue(tt.in, tt.kind)
		if tt.wantErr {
			if err == nil {
				t.Errorf("coerceValue(%q, %v): expected error, got %v", tt.in, tt.kind, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("coerceValue(%q, %v): unexpected error %v", tt.in, tt.kind, err)
			continue
		}
		if wantTime, ok := tt.want.(time.Time); ok {
			gotTime, ok := got.(time.Time)
			if !ok || !gotTime.Equal(wantTime) {
				t.Errorf("coerceValue(%q, %v) = %v, want %v", tt.in, tt.kind, got, wantTime)
			}
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("coerceValue(%q, %v) = %v (%T), want %v (%T)", tt.in, tt.kind, got, got, tt.want, tt.want)
		}
	}
}
