package query

import (
	"reflect"
	"testing"
)

func TestWrapPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int64
		wantNext *PageRef
		wantPrev *PageRef
	}{
		{
			name:  "first page of many",
			page:  1, limit: 100, total: 250,
			wantNext: &PageRef{Page: 2, Limit: 100},
		},
		{
			name:  "middle page",
			page:  2, limit: 100, total: 250,
			wantNext: &PageRef{Page: 3, Limit: 100},
			wantPrev: &PageRef{Page: 1, Limit: 100},
		},
		{
			name:  "last partial page",
			page:  3, limit: 100, total: 250,
			wantPrev: &PageRef{Page: 2, Limit: 100},
		},
		{
			name:  "exact fit has no next",
			page:  2, limit: 50, total: 100,
			wantPrev: &PageRef{Page: 1, Limit: 50},
		},
		{
			name: "single page",
			page: 1, limit: 100, total: 20,
		},
		{
			name: "empty result",
			page: 1, limit: 100, total: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Wrap([]string{}, 0, tt.page, tt.limit, tt.total)
			if !env.Success {
				t.Error("expected success envelope")
			}
			if !reflect.DeepEqual(env.Pagination.Next, tt.wantNext) {
				t.Errorf("next: expected %v, got %v", tt.wantNext, env.Pagination.Next)
			}
			if !reflect.DeepEqual(env.Pagination.Prev, tt.wantPrev) {
				t.Errorf("prev: expected %v, got %v", tt.wantPrev, env.Pagination.Prev)
			}
		})
	}
}

func TestWrapCountIsPageCount(t *testing.T) {
	data := []int{1, 2, 3}
	env := Wrap(data, len(data), 1, 100, 250)
	if env.Count != 3 {
		t.Errorf("expected count 3, got %d", env.Count)
	}
}

func TestProjectKeepsSelectedFieldsAndID(t *testing.T) {
	type item struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	d := &Descriptor{Select: []string{"name"}}
	out := d.Project([]item{{ID: 1, Name: "a", Email: "a@x.dev"}})

	items, ok := out.([]map[string]interface{})
	if !ok {
		t.Fatalf("expected projected list, got %T", out)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if _, ok := items[0]["email"]; ok {
		t.Error("email should have been projected away")
	}
	if _, ok := items[0]["id"]; !ok {
		t.Error("id must survive projection")
	}
	if items[0]["name"] != "a" {
		t.Errorf("unexpected name: %v", items[0]["name"])
	}
}

func TestProjectPassthroughWithoutSelection(t *testing.T) {
	d := &Descriptor{}
	in := []string{"unchanged"}
	if out := d.Project(in); !reflect.DeepEqual(out, in) {
		t.Errorf("expected passthrough, got %v", out)
	}
}

func TestDescriptorOffset(t *testing.T) {
	d := &Descriptor{Page: 3, Limit: 25}
	if got := d.Offset(); got != 50 {
		t.Errorf("expected offset 50, got %d", got)
	}
}
