package console

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rflorenc/resource-console/internal/logging"
	"github.com/rflorenc/resource-console/internal/models"
)

// Console is one operator's view: the active kind's collection, the edit
// session and the live notification.
type Console struct {
	registry *models.Registry
	notes    *Notifier
	ctl      *Controller
	form     *Form
	logger   *slog.Logger

	version atomic.Uint64
}

type options struct {
	clock       clockwork.Clock
	notifyDelay time.Duration
	logger      *slog.Logger
}

// Option configures a Console.
type Option func(*options)

// WithClock sets the clock driving notification dismissal.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithNotifyDelay sets how long notifications stay visible.
func WithNotifyDelay(d time.Duration) Option {
	return func(o *options) { o.notifyDelay = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a Console with no kind selected.
func New(registry *models.Registry, api RemoteAPI, opts ...Option) *Console {
	o := options{notifyDelay: DefaultNotifyDelay, logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Console{registry: registry, logger: o.logger}
	c.notes = NewNotifier(o.clock, o.notifyDelay, c.bump)
	c.ctl = NewController(registry, api, c.notes, o.logger, c.bump)
	c.form = NewForm(c.ctl, c.bump)
	return c
}

// Version increases on every state change of any component.
func (c *Console) Version() uint64 {
	return c.version.Load()
}

func (c *Console) bump() {
	c.version.Add(1)
}

// SelectKind switches the active kind. An open edit session is closed first
// so a draft never outlives its schema.
func (c *Console) SelectKind(ctx context.Context, name string) error {
	if _, err := c.registry.Describe(name); err != nil {
		return err
	}
	if k := c.ctl.ActiveKind(); k != nil && k.Name == name {
		return nil
	}
	c.form.Cancel()
	return c.ctl.SelectKind(ctx, name)
}

// Refresh re-fetches the active kind's collection.
func (c *Console) Refresh(ctx context.Context) error {
	return c.ctl.Refresh(ctx)
}

// OpenCreate opens an empty draft for the active kind.
func (c *Console) OpenCreate() error {
	return c.form.OpenCreate()
}

// OpenEdit opens a draft seeded from the collection record with identity id.
func (c *Console) OpenEdit(id string) error {
	rec, ok := c.ctl.Find(id)
	if !ok {
		return ErrRecordNotFound
	}
	return c.OpenEditRecord(rec.Fields)
}

// OpenEditRecord opens a draft seeded from res. A record without identity
// cannot be edited and is reported to the operator.
func (c *Console) OpenEditRecord(res models.Resource) error {
	err := c.form.OpenEdit(res)
	if errors.Is(err, models.ErrMissingIdentity) {
		c.notes.Notify(failureMessage(opUpdate, err), SeverityError)
	}
	return err
}

// SetField updates one draft field.
func (c *Console) SetField(key string, value interface{}) error {
	return c.form.SetField(key, value)
}

// Submit sends the draft. Validation failures are shown to the operator and
// leave the session open.
func (c *Console) Submit(ctx context.Context) error {
	err := c.form.Submit(ctx)
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.notes.Notify(validationMessage(verr), SeverityError)
	}
	return err
}

// Cancel discards the edit session.
func (c *Console) Cancel() {
	c.form.Cancel()
}

// Delete removes the collection record with identity id.
func (c *Console) Delete(ctx context.Context, id string) error {
	rec, ok := c.ctl.Find(id)
	if !ok {
		return ErrRecordNotFound
	}
	return c.ctl.RemoveRecord(ctx, rec.Fields)
}

// DeleteRecord removes res, resolving its identity first.
func (c *Console) DeleteRecord(ctx context.Context, res models.Resource) error {
	return c.ctl.RemoveRecord(ctx, res)
}

// Dismiss clears the live notification.
func (c *Console) Dismiss() {
	c.notes.Dismiss()
}

// Notification returns the live notification, or nil.
func (c *Console) Notification() *Notification {
	return c.notes.Current()
}

// Records returns the active kind's collection.
func (c *Console) Records() []models.Record {
	return c.ctl.Records()
}

// Session returns the edit session.
func (c *Console) Session() Session {
	return c.form.Session()
}

// ActiveKind returns the active kind, or nil.
func (c *Console) ActiveKind() *models.Kind {
	return c.ctl.ActiveKind()
}

// Snapshot is everything a renderer needs.
type Snapshot struct {
	Version      uint64          `json:"version"`
	Kind         *models.Kind    `json:"kind,omitempty"`
	Records      []models.Record `json:"records"`
	Loading      bool            `json:"loading"`
	EmptyMessage string          `json:"empty_message,omitempty"`
	Session      *Session        `json:"session,omitempty"`
	Notification *Notification   `json:"notification,omitempty"`
}

// Snapshot captures the current state. Version is read first, so a change
// racing the capture is picked up by the next snapshot.
func (c *Console) Snapshot() Snapshot {
	snap := Snapshot{
		Version:      c.Version(),
		Kind:         c.ctl.ActiveKind(),
		Records:      c.ctl.Records(),
		Loading:      c.ctl.Loading(),
		Notification: c.notes.Current(),
	}
	if s := c.form.Session(); s.Open() {
		snap.Session = &s
	}
	if snap.Kind != nil && len(snap.Records) == 0 && !snap.Loading {
		snap.EmptyMessage = emptyMessage(snap.Kind)
	}
	return snap
}
