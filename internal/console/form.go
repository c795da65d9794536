package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/rflorenc/resource-console/internal/models"
)

// Mode is the state of the edit session.
type Mode string

const (
	ModeNone   Mode = ""
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Session is the single in-progress create or edit.
type Session struct {
	Mode    Mode            `json:"mode"`
	Kind    string          `json:"kind"`
	Target  string          `json:"target,omitempty"` // identity being edited
	Draft   models.Resource `json:"draft"`
	Pending bool            `json:"pending"`
}

// Open reports whether the session is in create or edit mode.
func (s Session) Open() bool {
	return s.Mode != ModeNone
}

type dispatcher interface {
	ActiveKind() *models.Kind
	Create(ctx context.Context, fields models.Resource) error
	Update(ctx context.Context, identity string, fields models.Resource) error
}

// Form manages the edit session for whichever kind is active. It knows fields
// only through the kind descriptors, never per kind.
type Form struct {
	ctl      dispatcher
	onChange func()

	mu      sync.Mutex
	session Session
	kind    *models.Kind
	gen     uint64 // bumped whenever the session is replaced or closed
}

// NewForm creates a Form that submits through ctl.
func NewForm(ctl dispatcher, onChange func()) *Form {
	return &Form{ctl: ctl, onChange: onChange}
}

// Session returns a copy of the current session.
func (f *Form) Session() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.session
	if s.Draft != nil {
		s.Draft = s.Draft.Clone()
	}
	return s
}

// OpenCreate starts a create session with an empty draft: text fields are
// empty strings, numeric fields are absent.
func (f *Form) OpenCreate() error {
	kind := f.ctl.ActiveKind()
	if kind == nil {
		return ErrNoKind
	}
	draft := models.Resource{}
	for _, fd := range kind.Fields {
		if !fd.Input.Numeric() {
			draft[fd.Key] = ""
		}
	}
	return f.open(Session{Mode: ModeCreate, Kind: kind.Name, Draft: draft}, kind)
}

// OpenEdit starts an edit session seeded with the kind's fields of res.
func (f *Form) OpenEdit(res models.Resource) error {
	kind := f.ctl.ActiveKind()
	if kind == nil {
		return ErrNoKind
	}
	id, err := kind.IdentityOf(res)
	if err != nil {
		return err
	}
	draft := models.Resource{}
	for _, fd := range kind.Fields {
		v, ok := res[fd.Key]
		switch {
		case ok && v != nil:
			draft[fd.Key] = coerce(fd, v)
		case !fd.Input.Numeric():
			draft[fd.Key] = ""
		}
	}
	return f.open(Session{Mode: ModeEdit, Kind: kind.Name, Target: id, Draft: draft}, kind)
}

func (f *Form) open(s Session, kind *models.Kind) error {
	f.mu.Lock()
	if f.session.Pending {
		f.mu.Unlock()
		return ErrSubmitPending
	}
	f.session = s
	f.kind = kind
	f.gen++
	f.mu.Unlock()
	f.changed()
	return nil
}

// SetField stores value in the draft. Numeric fields are coerced right away;
// input that is not a number is kept as typed and rejected on submit.
func (f *Form) SetField(key string, value interface{}) error {
	f.mu.Lock()
	if !f.session.Open() {
		f.mu.Unlock()
		return ErrNoSession
	}
	if f.session.Pending {
		f.mu.Unlock()
		return ErrSubmitPending
	}
	fd, ok := f.kind.Field(key)
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("%s.%s: %w", f.kind.Name, key, ErrUnknownField)
	}
	if fd.Input.Numeric() && models.IsBlank(value) {
		delete(f.session.Draft, key)
	} else {
		f.session.Draft[key] = coerce(fd, value)
	}
	f.mu.Unlock()
	f.changed()
	return nil
}

// Cancel discards the session without contacting the server.
func (f *Form) Cancel() {
	f.mu.Lock()
	wasOpen := f.session.Open()
	f.close()
	f.mu.Unlock()
	if wasOpen {
		f.changed()
	}
}

// Submit validates the draft and dispatches it to the controller. On success
// the session closes; on failure it stays open with the draft intact.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if !f.session.Open() {
		f.mu.Unlock()
		return ErrNoSession
	}
	if f.session.Pending {
		f.mu.Unlock()
		return ErrSubmitPending
	}
	if active := f.ctl.ActiveKind(); active == nil || active.Name != f.session.Kind {
		f.close()
		f.mu.Unlock()
		f.changed()
		return ErrStaleSession
	}
	payload, err := buildPayload(f.kind, f.session.Draft)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	f.session.Pending = true
	gen := f.gen
	mode, target := f.session.Mode, f.session.Target
	f.mu.Unlock()
	f.changed()

	if mode == ModeCreate {
		err = f.ctl.Create(ctx, payload)
	} else {
		err = f.ctl.Update(ctx, target, payload)
	}

	f.mu.Lock()
	if f.gen != gen {
		// Cancelled or replaced while in flight.
		f.mu.Unlock()
		return err
	}
	if err == nil {
		f.close()
	} else {
		f.session.Pending = false
	}
	f.mu.Unlock()
	f.changed()
	return err
}

// close must be called with mu held.
func (f *Form) close() {
	f.session = Session{}
	f.kind = nil
	f.gen++
}

func (f *Form) changed() {
	if f.onChange != nil {
		f.onChange()
	}
}

// coerce converts numeric input to float64 when possible.
func coerce(fd models.Field, v interface{}) interface{} {
	if !fd.Input.Numeric() {
		return v
	}
	if n, ok := models.ToFloat(v); ok {
		return n
	}
	return v
}

// buildPayload checks required fields and numeric values, returning the body
// to send. Blank optional numbers are left out.
func buildPayload(kind *models.Kind, draft models.Resource) (models.Resource, error) {
	var errs []FieldError
	payload := models.Resource{}
	for _, fd := range kind.Fields {
		v, present := draft[fd.Key]
		blank := !present || models.IsBlank(v)
		switch {
		case blank && fd.Required:
			errs = append(errs, FieldError{Field: fd.Key, Label: fd.Label, Message: "is required"})
		case blank && fd.Input.Numeric():
			// optional and empty: omitted
		case fd.Input.Numeric():
			n, ok := models.ToFloat(v)
			if !ok {
				errs = append(errs, FieldError{Field: fd.Key, Label: fd.Label, Message: "must be a number"})
				continue
			}
			payload[fd.Key] = n
		case present:
			payload[fd.Key] = v
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return payload, nil
}
