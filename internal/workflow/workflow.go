// Package workflow orchestrates the catalog mutation flows. Every flow has
// the same shape: validate locally, call the service, reconcile the store
// with the confirmed outcome, then set the transient status message. The
// store is never touched before the service confirms, and the status is
// never set before the store change it describes.
package workflow

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/catalog-client/internal/domain/catalog"
	"github.com/xenking/catalog-client/internal/store"
	"github.com/xenking/catalog-client/pkg/transient"
)

// Status texts shown after a confirmed mutation.
const (
	MsgListed  = "Product listed successfully!"
	MsgUpdated = "Product updated successfully!"
	MsgDeleted = "Product deleted successfully!"
)

// ErrNoActiveEdit is returned by SaveEdit when nothing is being edited.
var ErrNoActiveEdit = errors.New("no product is being edited")

// Workflow drives the submit-new, save-edit and delete flows against one
// catalog service, store, editor and status slot.
type Workflow struct {
	api    catalog.API
	store  *store.Store
	editor *catalog.Editor
	status *transient.Slot
	lg     *zap.Logger
}

// New wires a Workflow from its collaborators.
func New(api catalog.API, st *store.Store, editor *catalog.Editor, status *transient.Slot, lg *zap.Logger) *Workflow {
	return &Workflow{
		api:    api,
		store:  st,
		editor: editor,
		status: status,
		lg:     lg,
	}
}

// Refresh replaces the store with the service's current catalog.
func (w *Workflow) Refresh(ctx context.Context) error {
	return w.store.Refresh(ctx)
}

// SubmitNew validates the draft and creates it on the catalog service.
// A *catalog.ValidationError is returned without any network call when the
// draft is incomplete. On success the confirmed product is appended to the
// store, the status message is set, and the caller should clear its draft
// form. On a transport failure the caller must keep the draft so the user
// can retry; no status message is set.
func (w *Workflow) SubmitNew(ctx context.Context, draft catalog.Draft) (catalog.Product, error) {
	if err := draft.Validate(); err != nil {
		return catalog.Product{}, err
	}

	created, err := w.api.Create(ctx, draft)
	if err != nil {
		w.lg.Error("create product failed", zap.Error(err))
		return catalog.Product{}, errors.Wrap(err, "create product")
	}

	w.store.ApplyCreated(created)
	w.status.Set(MsgListed)
	return created, nil
}

// BeginEdit opens an edit session for the stored product with the given
// id, discarding any session already open.
func (w *Workflow) BeginEdit(id string) (*catalog.EditSession, error) {
	p, ok := w.store.Get(id)
	if !ok {
		return nil, errors.Wrapf(catalog.ErrNotFound, "begin edit %q", id)
	}
	return w.editor.Begin(p), nil
}

// CancelEdit discards the working copy without any network call.
func (w *Workflow) CancelEdit() { w.editor.Cancel() }

// Editing returns the active edit session, if any.
func (w *Workflow) Editing() (*catalog.EditSession, bool) {
	return w.editor.Active()
}

// SaveEdit commits the active edit session under its original id. On
// success the store entry is merged in place, the session closes, and the
// status message is set. On failure the session stays open for a retry and
// the error is returned for the presentation layer.
func (w *Workflow) SaveEdit(ctx context.Context) error {
	sess, ok := w.editor.Active()
	if !ok {
		return ErrNoActiveEdit
	}

	patch := sess.Patch()
	if err := w.api.Update(ctx, sess.ID(), patch); err != nil {
		w.lg.Error("update product failed",
			zap.String("id", sess.ID()), zap.Error(err))
		return errors.Wrap(err, "update product")
	}

	w.store.ApplyUpdated(sess.ID(), patch)
	w.editor.Cancel()
	w.status.Set(MsgUpdated)
	return nil
}

// Delete removes the product with the given id from the catalog service.
// The deletion is not optimistic: the store entry goes away only after the
// service confirms. Deleting an id the store no longer holds is harmless.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	if err := w.api.Remove(ctx, id); err != nil {
		w.lg.Error("delete product failed",
			zap.String("id", id), zap.Error(err))
		return errors.Wrap(err, "delete product")
	}

	w.store.ApplyDeleted(id)
	w.status.Set(MsgDeleted)
	return nil
}

// Status returns the currently visible status message, if any.
func (w *Workflow) Status() (string, bool) {
	return w.status.Current()
}
