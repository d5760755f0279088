package state

// DeleteConfirm is the per-project delete confirmation popover.
type DeleteConfirm struct {
	Popover *Overlay

	target   string // docId
	Err      error
	inFlight bool
}

// NewDeleteConfirm creates a closed popover.
func NewDeleteConfirm() *DeleteConfirm {
	return &DeleteConfirm{Popover: NewOverlay("delete-confirm")}
}

// Toggle flips the popover for docID. Toggling a different project while
// open moves the popover there.
func (d *DeleteConfirm) Toggle(docID string) {
	if d.Popover.IsOpen() && d.target == docID {
		d.Cancel()
		return
	}
	d.target = docID
	d.Err = nil
	d.Popover.Open()
}

// Cancel closes the popover.
func (d *DeleteConfirm) Cancel() {
	d.Popover.Close()
	d.target = ""
	d.Err = nil
	d.inFlight = false
}

// Target returns the docId awaiting confirmation, or "" when closed.
func (d *DeleteConfirm) Target() string {
	if !d.Popover.IsOpen() {
		return ""
	}
	return d.target
}

// Confirm marks the deletion of docID as started. It returns false if the
// popover is not open for docID or a deletion is already pending.
func (d *DeleteConfirm) Confirm(docID string) bool {
	if d.inFlight || d.Target() != docID || docID == "" {
		return false
	}
	d.inFlight = true
	return true
}

// Complete applies the gateway result of the deletion.
func (d *DeleteConfirm) Complete(err error) {
	d.inFlight = false
	if err != nil {
		d.Err = err
		return
	}
	d.Cancel()
}
