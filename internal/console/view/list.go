package view

import (
	"maps"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// DefaultLimit is the page size of every list view.
const DefaultLimit = 10

// Modal is the dialog open over a list.
type Modal int

const (
	ModalClosed Modal = iota
	ModalCreate
	ModalEdit
	ModalDelete
)

// ListState is the local state of one entity list view.
type ListState struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder crmsdk.SortOrder
	Search    string
	Filters   map[string]string

	// Selected is the id of the row a modal acts on.
	Selected string
	Modal    Modal

	// Pending is set while a mutation started from this view is running.
	Pending bool
}

// NewListState returns the first page with no sort, search or filters.
func NewListState() ListState {
	return ListState{Page: 1, Limit: DefaultLimit}
}

// Action is a change to a ListState.
type Action interface {
	apply(ListState) ListState
}

type (
	GoToPage   struct{ Page int }
	SetLimit   struct{ Limit int }
	SortColumn struct{ Column string }
	SetSearch  struct{ Term string }
	SetFilter  struct{ Key, Value string }
	OpenModal  struct {
		Modal Modal
		ID    string
	}
	CloseModal struct{}
	SetPending struct{ Pending bool }
)

func (a GoToPage) apply(s ListState) ListState {
	if a.Page >= 1 {
		s.Page = a.Page
	}
	return s
}

func (a SetLimit) apply(s ListState) ListState {
	if a.Limit > 0 {
		s.Limit = a.Limit
		s.Page = 1
	}
	return s
}

// Sorting the active column flips its order; a new column starts ascending.
func (a SortColumn) apply(s ListState) ListState {
	if s.SortBy == a.Column {
		if s.SortOrder == crmsdk.SortAsc {
			s.SortOrder = crmsdk.SortDesc
		} else {
			s.SortOrder = crmsdk.SortAsc
		}
		return s
	}
	s.SortBy = a.Column
	s.SortOrder = crmsdk.SortAsc
	return s
}

// A new search term restarts from the first page.
func (a SetSearch) apply(s ListState) ListState {
	if s.Search != a.Term {
		s.Search = a.Term
		s.Page = 1
	}
	return s
}

func (a SetFilter) apply(s ListState) ListState {
	filters := maps.Clone(s.Filters)
	if filters == nil {
		filters = map[string]string{}
	}
	if a.Value == "" {
		delete(filters, a.Key)
	} else {
		filters[a.Key] = a.Value
	}
	s.Filters = filters
	s.Page = 1
	return s
}

func (a OpenModal) apply(s ListState) ListState {
	s.Modal = a.Modal
	s.Selected = a.ID
	if a.Modal == ModalCreate {
		s.Selected = ""
	}
	return s
}

func (CloseModal) apply(s ListState) ListState {
	s.Modal = ModalClosed
	s.Selected = ""
	s.Pending = false
	return s
}

func (a SetPending) apply(s ListState) ListState {
	s.Pending = a.Pending
	return s
}

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce(s ListState, a Action) ListState {
	return a.apply(s)
}

// Params converts the state into list request parameters.
func (s ListState) Params() crmsdk.ListParams {
	return crmsdk.ListParams{
		Page:      s.Page,
		Limit:     s.Limit,
		SortBy:    s.SortBy,
		SortOrder: s.SortOrder,
		Search:    s.Search,
		Filters:   maps.Clone(s.Filters),
	}
}
