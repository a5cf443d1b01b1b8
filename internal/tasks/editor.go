package tasks

import "context"

// Draft is the not-yet-submitted task shown in the add form.
type Draft struct {
	Text     string
	Day      Day
	Priority Priority
}

func EmptyDraft() Draft {
	return Draft{Day: DefaultDay, Priority: DefaultPriority}
}

// Editor stages a draft and commits it to a Store.
type Editor struct {
	store *Store
	draft Draft
}

func NewEditor(store *Store) *Editor {
	return &Editor{store: store, draft: EmptyDraft()}
}

func (e *Editor) SetText(text string) { e.draft.Text = text }
func (e *Editor) SetDay(day Day) { e.draft.Day = day }
func (e *Editor) SetPriority(p Priority) { e.draft.Priority = p }
func (e *Editor) Draft() Draft { return e.draft }
func (e *Editor) Reset() { e.draft = EmptyDraft() }

// Submit hands the draft to the store and then clears it. The draft is reset
// even when the store ignored blank text or returned an error.
func (e *Editor) Submit(ctx context.Context) (Task, bool, error) {
	d := e.draft
	defer e.Reset()
	return e.store.Create(ctx, d.Text, d.Day, d.Priority)
}
