package query

import "encoding/json"

// PageRef points a client at an adjacent page
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries next/prev availability for the current window
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Envelope is the wire shape of a paginated list response. Count is the
// number of items on the current page, not the filtered total.
type Envelope struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Pagination Pagination  `json:"pagination"`
	Data       interface{} `json:"data"`
}

// Wrap builds the pagination envelope around one page of results.
// next is present iff page*limit < total; prev iff page > 1.
func Wrap(data interface{}, count, page, limit int, total int64) Envelope {
	env := Envelope{
		Success: true,
		Count:   count,
		Data:    data,
	}

	if int64(page)*int64(limit) < total {
		env.Pagination.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		env.Pagination.Prev = &PageRef{Page: page - 1, Limit: limit}
	}

	return env
}

// Project applies the descriptor's field selection to a result set by
// reshaping it through its JSON form. ids always survive projection; with an
// empty selection the data passes through untouched.
func (d *Descriptor) Project(data interface{}) interface{} {
	if len(d.Select) == 0 {
		return data
	}

	keep := map[string]bool{"id": true}
	for _, f := range d.Select {
		keep[f] = true
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return data
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		// single object rather than a list
		var item map[string]interface{}
		if err := json.Unmarshal(raw, &item); err != nil {
			return data
		}
		return projectItem(item, keep)
	}

	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, projectItem(item, keep))
	}
	return out
}

func projectItem(item map[string]interface{}, keep map[string]bool) map[string]interface{} {
	for k := range item {
		if !keep[k] {
			delete(item, k)
		}
	}
	return item
}
