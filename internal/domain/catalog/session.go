package catalog

import "github.com/shopspring/decimal"

// EditSession is the working copy of one product being edited. It is bound
// to the original product's ID, which cannot be changed through the
// session; only the editable fields live in the working copy. The image
// starts unset so no re-upload happens unless the user picks a new file.
type EditSession struct {
	id   string
	work Patch
}

// ID returns the identifier of the product this session edits.
func (s *EditSession) ID() string { return s.id }

func (s *EditSession) SetName(name string)        { s.work.Name = name }
func (s *EditSession) SetDescription(desc string) { s.work.Description = desc }
func (s *EditSession) SetPrice(price decimal.Decimal) {
	s.work.Price = price
}

// AttachImage selects a new image for upload on commit. Passing nil
// reverts to keeping the image stored on the service.
func (s *EditSession) AttachImage(img *ImageUpload) { s.work.Image = img }

// Patch returns a copy of the current working fields.
func (s *EditSession) Patch() Patch { return s.work }

// Editor owns the at-most-one active edit session of a client session.
// It is not safe for concurrent use; like the rest of the editing state it
// belongs to the single interactive flow driving it.
type Editor struct {
	active *EditSession
}

// NewEditor returns an Editor with no open session.
func NewEditor() *Editor { return &Editor{} }

// Begin opens an edit session for p, discarding any previously open
// session. The working copy starts from the product's current fields with
// no new image selected.
func (e *Editor) Begin(p Product) *EditSession {
	e.active = &EditSession{
		id: p.ID,
		work: Patch{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
		},
	}
	return e.active
}

// Active returns the open session, if any.
func (e *Editor) Active() (*EditSession, bool) {
	return e.active, e.active != nil
}

// Cancel closes the open session and discards its working copy. It is a
// no-op when nothing is being edited. Nothing is sent to the service.
func (e *Editor) Cancel() { e.active = nil }
