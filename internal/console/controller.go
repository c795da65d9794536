package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rflorenc/resource-console/internal/logging"
	"github.com/rflorenc/resource-console/internal/models"
)

// RemoteAPI is the subset of the platform client the controller needs.
type RemoteAPI interface {
	List(ctx context.Context, path string) ([]models.Resource, error)
	Create(ctx context.Context, path string, payload models.Resource) ([]byte, error)
	Update(ctx context.Context, path, id string, payload models.Resource) ([]byte, error)
	Delete(ctx context.Context, path, id string) error
}

type notifier interface {
	Notify(message string, severity Severity) Notification
}

// Controller keeps the collection of the active kind in sync with the server.
// It never patches the collection locally: every successful write is followed
// by a fresh fetch.
type Controller struct {
	registry *models.Registry
	api      RemoteAPI
	notes    notifier
	logger   *slog.Logger
	onChange func()

	mu      sync.Mutex
	kind    *models.Kind
	records []models.Record
	seq     uint64 // last issued fetch; older results are stale
	loading bool
}

// NewController creates a Controller with no active kind.
func NewController(registry *models.Registry, api RemoteAPI, notes notifier, logger *slog.Logger, onChange func()) *Controller {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller{
		registry: registry,
		api:      api,
		notes:    notes,
		logger:   logger,
		onChange: onChange,
	}
}

// ActiveKind returns the selected kind, or nil.
func (c *Controller) ActiveKind() *models.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

// Records returns a copy of the collection.
func (c *Controller) Records() []models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Loading reports whether a fetch for the active kind is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Find looks up a record of the collection by identity.
func (c *Controller) Find(id string) (models.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Record{}, false
}

// SelectKind makes name the active kind, drops the current collection and
// fetches the new one. Selecting the active kind again does nothing.
func (c *Controller) SelectKind(ctx context.Context, name string) error {
	kind, err := c.registry.Describe(name)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.kind != nil && c.kind.Name == kind.Name {
		c.mu.Unlock()
		return nil
	}
	c.kind = kind
	c.records = nil
	c.loading = false
	c.seq++
	c.mu.Unlock()
	c.changed()

	return c.Refresh(ctx)
}

// Refresh fetches the active kind's collection and replaces it wholesale.
// A result that arrives after the kind changed, or after a newer Refresh
// started, is discarded with ErrStaleResponse.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	kind := c.kind
	if kind == nil {
		c.mu.Unlock()
		return ErrNoKind
	}
	c.seq++
	seq := c.seq
	c.loading = true
	c.mu.Unlock()
	c.changed()

	resources, err := c.api.List(ctx, kind.APIPath)
	var records []models.Record
	if err == nil {
		records, err = buildRecords(kind, resources)
	}

	c.mu.Lock()
	if c.kind != kind || c.seq != seq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale collection", "kind", kind.Name, "seq", seq)
		return ErrStaleResponse
	}
	c.loading = false
	if err != nil {
		c.records = nil
		c.mu.Unlock()
		c.changed()
		c.logger.Warn("refresh failed", "kind", kind.Name, "error", err)
		c.notes.Notify(loadFailureMessage(kind), SeverityError)
		return err
	}
	c.records = records
	c.mu.Unlock()
	c.changed()
	c.logger.Debug("collection refreshed", "kind", kind.Name, "count", len(records))
	return nil
}

// Create posts fields to the active kind's endpoint.
func (c *Controller) Create(ctx context.Context, fields models.Resource) error {
	kind, err := c.activeKind()
	if err != nil {
		return err
	}
	if _, err := c.api.Create(ctx, kind.APIPath, fields); err != nil {
		return c.fail(kind, opCreate, err)
	}
	c.succeed(ctx, kind, opCreate)
	return nil
}

// Update replaces the record addressed by identity with fields.
func (c *Controller) Update(ctx context.Context, identity string, fields models.Resource) error {
	kind, err := c.activeKind()
	if err != nil {
		return err
	}
	if identity == "" {
		return c.fail(kind, opUpdate, fmt.Errorf("%s: %w", kind.Name, models.ErrMissingIdentity))
	}
	if _, err := c.api.Update(ctx, kind.APIPath, identity, fields); err != nil {
		return c.fail(kind, opUpdate, err)
	}
	c.succeed(ctx, kind, opUpdate)
	return nil
}

// Remove deletes the record addressed by identity.
func (c *Controller) Remove(ctx context.Context, identity string) error {
	kind, err := c.activeKind()
	if err != nil {
		return err
	}
	if identity == "" {
		return c.fail(kind, opRemove, fmt.Errorf("%s: %w", kind.Name, models.ErrMissingIdentity))
	}
	if err := c.api.Delete(ctx, kind.APIPath, identity); err != nil {
		return c.fail(kind, opRemove, err)
	}
	c.succeed(ctx, kind, opRemove)
	return nil
}

// RemoveRecord resolves the identity of res and deletes it. A record without
// identity fails with ErrMissingIdentity before anything is sent.
func (c *Controller) RemoveRecord(ctx context.Context, res models.Resource) error {
	kind, err := c.activeKind()
	if err != nil {
		return err
	}
	id, err := kind.IdentityOf(res)
	if err != nil {
		return c.fail(kind, opRemove, err)
	}
	return c.Remove(ctx, id)
}

func (c *Controller) activeKind() (*models.Kind, error) {
	kind := c.ActiveKind()
	if kind == nil {
		return nil, ErrNoKind
	}
	return kind, nil
}

func (c *Controller) succeed(ctx context.Context, kind *models.Kind, op operation) {
	c.logger.Info("write accepted", "kind", kind.Name, "op", op)
	c.notes.Notify(successMessage(kind, op), SeveritySuccess)

	// The kind may have been switched while the write was in flight; its
	// own selection already fetched the new collection.
	if c.ActiveKind() != kind {
		return
	}
	if err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleResponse) {
		c.logger.Debug("refresh after write failed", "kind", kind.Name, "error", err)
	}
}

func (c *Controller) fail(kind *models.Kind, op operation, err error) error {
	c.logger.Warn("write failed", "kind", kind.Name, "op", op, "error", err)
	c.notes.Notify(failureMessage(op, err), SeverityError)
	return err
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// buildRecords resolves every identity; one unidentifiable record fails the
// whole fetch.
func buildRecords(kind *models.Kind, resources []models.Resource) ([]models.Record, error) {
	records := make([]models.Record, 0, len(resources))
	for i, res := range resources {
		rec, err := models.NewRecord(kind, res)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
