package listview

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/portal/record"
)

const (
	msgRequired = "this field is required"
	msgNumber   = "this field must be a number"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Saver persists form data; *record.Store is one.
type Saver interface {
	Create(ctx context.Context, data record.Entity) (record.Entity, error)
	Update(ctx context.Context, id string, data record.Entity) (record.Entity, error)
}

// Form is the add/edit form of a list view. It starts in create mode.
// It is not safe for concurrent use.
type Form struct {
	schema   Schema
	mode     Mode
	targetID string
	values   map[string]string
	errors   map[string]string
}

func NewForm(schema Schema) *Form {
	f := &Form{schema: schema}
	f.Reset()
	return f
}

func (f *Form) Mode() Mode { return f.mode }

// TargetID is the id of the record being edited, "" in create mode.
func (f *Form) TargetID() string { return f.targetID }

func (f *Form) Value(field string) string { return f.values[field] }

func (f *Form) Error(field string) string { return f.errors[field] }

// Reset empties the form and returns it to create mode.
func (f *Form) Reset() {
	f.mode = ModeCreate
	f.targetID = ""
	f.values = make(map[string]string, len(f.schema.Fields))
	f.errors = make(map[string]string)
}

// Edit switches to edit mode for e and fills every field with its value.
func (f *Form) Edit(e record.Entity) {
	f.Reset()
	f.mode = ModeEdit
	f.targetID = e.ID()
	for _, fld := range f.schema.Fields {
		f.values[fld.Name] = e.String(fld.Name)
	}
}

// Cancel leaves edit mode.
func (f *Form) Cancel() {
	f.Reset()
}

// Parse records the submitted values and converts them to record data.
// Missing required values and non-numeric numbers are reported as a *core.ValidationError.
func (f *Form) Parse(values map[string]string) (record.Entity, error) {
	f.values = make(map[string]string, len(f.schema.Fields))
	f.errors = make(map[string]string)

	data := make(record.Entity, len(f.schema.Fields))
	var fldErrs []core.FieldError
	for _, fld := range f.schema.Fields {
		v := strings.TrimSpace(values[fld.Name])
		f.values[fld.Name] = v

		if v == "" {
			if fld.Required {
				fldErrs = append(fldErrs, core.FieldError{Field: fld.Name, Error: msgRequired})
			}
			continue
		}
		if fld.Kind == KindNumber {
			n, err := strconv.Atoi(v)
			if err != nil {
				fldErrs = append(fldErrs, core.FieldError{Field: fld.Name, Error: msgNumber})
				continue
			}
			data[fld.Name] = n
			continue
		}
		data[fld.Name] = v
	}

	if len(fldErrs) > 0 {
		for _, e := range fldErrs {
			f.errors[e.Field] = e.Error
		}
		return nil, core.NewValidationError(nil, fldErrs...)
	}
	return data, nil
}

// Submit saves the values: a create in create mode, an update of the target in edit mode.
// On success the form is reset; on failure values and mode are kept and nothing else changes.
func (f *Form) Submit(ctx context.Context, saver Saver, values map[string]string, related Related) (record.Entity, error) {
	data, err := f.Parse(values)
	if err != nil {
		return nil, err
	}
	if f.schema.Prepare != nil {
		f.schema.Prepare(data, related)
	}

	var saved record.Entity
	if f.mode == ModeEdit {
		saved, err = saver.Update(ctx, f.targetID, data)
	} else {
		saved, err = saver.Create(ctx, data)
	}
	if err != nil {
		f.absorb(err)
		return nil, err
	}
	f.Reset()
	return saved, nil
}

// absorb shows the field errors returned by the API next to their inputs.
func (f *Form) absorb(err error) {
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		return
	}
	for _, fe := range vErr.Fields {
		if _, known := f.schema.field(fe.Field); known {
			f.errors[fe.Field] = fe.Error
		}
	}
}
