package listview

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/portal/query"
	"github.com/trezcool/brightacademy/portal/record"
)

var ErrUnknownAction = errors.New("unknown action")

// Option is a choice of a select input.
type Option struct {
	Value string
	Label string
}

// FieldState is a form input as it should be displayed.
type FieldState struct {
	Field
	Value   string
	Error   string
	Choices []Option
}

type FormState struct {
	Mode     Mode
	TargetID string
	Title    string
	Fields   []FieldState
}

// Snapshot is everything needed to display a list view.
type Snapshot struct {
	Schema  Schema
	Filter  query.Filter
	Page    query.Page
	Table   Table
	Form    FormState
	Loading bool
}

type ViewOption func(*View)

// WithDebounce sets how long QueueSearch waits for typing to stop.
func WithDebounce(wait time.Duration) ViewOption {
	return func(v *View) { v.debouncer = NewDebouncer(wait) }
}

// WithFetchLimit caps the number of records requested per fetch.
func WithFetchLimit(n int) ViewOption {
	return func(v *View) { v.fetchLimit = n }
}

// WithRelated makes the records of store available to select fields and Schema.Prepare.
func WithRelated(store *record.Store) ViewOption {
	return func(v *View) { v.related[store.Kind()] = store }
}

// View is the list view of one entity type. It is safe for concurrent use.
type View struct {
	schema     Schema
	store      *record.Store
	related    map[string]*record.Store
	debouncer  *Debouncer
	fetchLimit int

	mu     sync.Mutex
	filter query.Filter
	page   int
	form   *Form
}

func NewView(schema Schema, store *record.Store, opts ...ViewOption) *View {
	if schema.PageSize < 1 {
		schema.PageSize = 5
	}
	v := &View{
		schema:    schema,
		store:     store,
		related:   make(map[string]*record.Store),
		debouncer: NewDebouncer(300 * time.Millisecond),
		filter: query.Filter{
			SearchFields: schema.SearchFields,
			Equals:       make(map[string]string, len(schema.Filters)),
		},
		page: 1,
		form: NewForm(schema),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *View) Schema() Schema { return v.schema }

// Load fetches the records matching the current search and filters.
// A response superseded by a newer fetch is ignored.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	params := record.Params{
		Search:  v.filter.Search,
		Filters: make(map[string]string, len(v.schema.Filters)),
		Limit:   v.fetchLimit,
	}
	for _, ff := range v.schema.Filters {
		if val := v.filter.Equals[ff.Field]; val != "" {
			params.Filters[ff.Param] = val
		}
	}
	v.mu.Unlock()

	for _, s := range v.related {
		if _, err := s.Fetch(ctx, record.Params{Limit: v.fetchLimit}); err != nil && err != record.ErrStaleResponse {
			return err
		}
	}
	if _, err := v.store.Fetch(ctx, params); err != nil && err != record.ErrStaleResponse {
		return err
	}
	return nil
}

// Search sets the search text, goes back to the first page and fetches.
func (v *View) Search(ctx context.Context, text string) error {
	v.setSearch(text)
	return v.Load(ctx)
}

// QueueSearch is Search for keystrokes: only the last search of a burst fetches.
func (v *View) QueueSearch(ctx context.Context, text string) error {
	v.setSearch(text)
	return v.debouncer.Do(ctx, v.Load)
}

func (v *View) setSearch(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter.Search = strings.TrimSpace(text)
	v.page = 1
}

// SetFilter sets the equality filter on field ("" clears it), goes back to the first page and fetches.
func (v *View) SetFilter(ctx context.Context, field, value string) error {
	v.mu.Lock()
	known := false
	for _, ff := range v.schema.Filters {
		known = known || ff.Field == field
	}
	if known {
		v.filter.Equals[field] = strings.TrimSpace(value)
		v.page = 1
	}
	v.mu.Unlock()

	if !known {
		return errors.Errorf("unknown filter %q", field)
	}
	return v.Load(ctx)
}

// SetPage moves to page n; it is clamped when the view is derived.
func (v *View) SetPage(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = n
}

// Dispatch runs a row action, "edit:<id>" or "delete:<id>".
func (v *View) Dispatch(ctx context.Context, action string) error {
	name, id, ok := strings.Cut(action, ":")
	if !ok || id == "" {
		return errors.Wrap(ErrUnknownAction, action)
	}

	switch name {
	case "edit":
		e, found := v.store.Get(id)
		if !found {
			return record.ErrNotFound
		}
		v.mu.Lock()
		v.form.Edit(e)
		v.mu.Unlock()
		return nil
	case "delete":
		if err := v.store.Delete(ctx, id); err != nil {
			return err
		}
		v.mu.Lock()
		if v.form.Mode() == ModeEdit && v.form.TargetID() == id {
			v.form.Cancel()
		}
		v.mu.Unlock()
		return nil
	default:
		return errors.Wrap(ErrUnknownAction, action)
	}
}

// Submit saves the form.
func (v *View) Submit(ctx context.Context, values map[string]string) (record.Entity, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.Submit(ctx, v.store, values, v.lookup)
}

// Cancel returns the form to create mode.
func (v *View) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form.Cancel()
}

func (v *View) lookup(kind, id string) (record.Entity, bool) {
	s, ok := v.related[kind]
	if !ok {
		return nil, false
	}
	return s.Get(id)
}

// Snapshot derives the current page from the store: filter, then paginate, then render.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	page := query.Paginate(v.filter.Apply(v.store.Items()), v.page, v.schema.PageSize)
	v.page = page.Index

	filter := v.filter
	filter.Equals = make(map[string]string, len(v.filter.Equals))
	for k, val := range v.filter.Equals {
		filter.Equals[k] = val
	}

	return Snapshot{
		Schema:  v.schema,
		Filter:  filter,
		Page:    page,
		Table:   Render(v.schema, page.Items),
		Form:    v.formState(),
		Loading: v.store.Loading(),
	}
}

func (v *View) formState() FormState {
	fs := FormState{
		Mode:     v.form.Mode(),
		TargetID: v.form.TargetID(),
		Title:    "Add " + v.schema.Singular,
		Fields:   make([]FieldState, 0, len(v.schema.Fields)),
	}
	if fs.Mode == ModeEdit {
		fs.Title = "Edit " + v.schema.Singular
	}

	for _, fld := range v.schema.Fields {
		st := FieldState{Field: fld, Value: v.form.Value(fld.Name), Error: v.form.Error(fld.Name)}
		switch {
		case fld.Source != "":
			if s, ok := v.related[fld.Source]; ok {
				for _, e := range s.Items() {
					st.Choices = append(st.Choices, Option{Value: e.ID(), Label: Text("", "firstName", "lastName").Format(e)})
				}
			}
		case len(fld.Options) > 0:
			for _, o := range fld.Options {
				st.Choices = append(st.Choices, Option{Value: o, Label: o})
			}
		}
		fs.Fields = append(fs.Fields, st)
	}
	return fs
}
