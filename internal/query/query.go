// Package query holds the catalog filter/page state and the edits that move it.
// State values are immutable: every edit returns a new State.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownField = errors.New("query: unknown field")
	ErrInvalidPage  = errors.New("query: page must be a positive integer")
)

// Field names an editable part of State. The values double as the API's
// query parameter names.
type Field string

const (
	StartsWith Field = "startswith"
	EndsWith   Field = "endswith"
	Contains   Field = "contains"
	Article    Field = "article"
	Page       Field = "page"
)

// FilterFields lists the filter fields in form order.
var FilterFields = []Field{StartsWith, EndsWith, Contains, Article}

// IsFilter reports whether f is a filter field (anything but page).
func (f Field) IsFilter() bool {
	switch f {
	case StartsWith, EndsWith, Contains, Article:
		return true
	}
	return false
}

// FilterQuery holds the text filters. "" means the filter is unset.
// Two queries are equal iff all fields are equal, so == works.
type FilterQuery struct {
	StartsWith string
	EndsWith   string
	Contains   string
	Article    string
}

// Get returns the value of a filter field.
func (q FilterQuery) Get(f Field) string {
	switch f {
	case StartsWith:
		return q.StartsWith
	case EndsWith:
		return q.EndsWith
	case Contains:
		return q.Contains
	case Article:
		return q.Article
	}
	return ""
}

// Summary renders the set filters as `field="value"` pairs in field order,
// or "" when none is set.
func (q FilterQuery) Summary() string {
	var parts []string
	for _, f := range FilterFields {
		if v := q.Get(f); v != "" {
			parts = append(parts, fmt.Sprintf("%s=%q", f, v))
		}
	}
	return strings.Join(parts, " ")
}

// State is the full query: filters plus a 1-based page. Page >= 1 always.
type State struct {
	FilterQuery
	Page int
}

// Default is the state before any edit.
func Default() State {
	return State{Page: 1}
}

// ApplyEdit applies a single edit. Editing a filter field sets it and resets
// Page to 1; editing page (value parsed as an integer) changes only Page.
// On error s is returned unchanged.
func ApplyEdit(s State, f Field, value string) (State, error) {
	if f == Page {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return s, fmt.Errorf("%w: %q", ErrInvalidPage, value)
		}
		return WithPage(s, n)
	}
	return WithFilter(s, f, value)
}

// WithFilter sets one filter field and resets the page to 1.
func WithFilter(s State, f Field, value string) (State, error) {
	switch f {
	case StartsWith:
		s.StartsWith = value
	case EndsWith:
		s.EndsWith = value
	case Contains:
		s.Contains = value
	case Article:
		s.Article = value
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	s.Page = 1
	return s, nil
}

// WithPage changes only the page.
func WithPage(s State, page int) (State, error) {
	if page < 1 {
		return s, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	s.Page = page
	return s, nil
}

// Clear drops every filter and goes back to page 1.
func Clear(State) State {
	return Default()
}

// IsFilterActive reports whether any filter field is set. Page is ignored.
func IsFilterActive(s State) bool {
	return s.FilterQuery != FilterQuery{}
}
