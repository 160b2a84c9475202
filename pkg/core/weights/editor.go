package weights

import "time"

// Editor stages weight changes on a draft copy. The live Config only changes on Commit.
type Editor struct {
	live  Config
	draft GlobalWeights
}

// NewEditor starts an editor whose draft mirrors live
func NewEditor(live Config) *Editor {
	return &Editor{live: live, draft: live.Weights}
}

// ResumeEditor restores an editor with a previously saved draft
func ResumeEditor(live Config, draft GlobalWeights) *Editor {
	return &Editor{live: live, draft: draft}
}

func (e *Editor) Live() Config {
	return e.live
}

func (e *Editor) Draft() GlobalWeights {
	return e.draft
}

// Dirty reports whether the draft differs from live
func (e *Editor) Dirty() bool {
	return e.draft != e.live.Weights
}

// Set changes one attribute on the draft. Out-of-range values are rejected and the draft is left as it was.
func (e *Editor) Set(attr Attribute, value int) error {
	if err := validateValue(attr, value); err != nil {
		return err
	}
	e.draft = e.draft.With(attr, value)
	return nil
}

// Commit replaces live with the draft and bumps the version.
// The second return value is false when there was nothing to commit.
func (e *Editor) Commit(now time.Time) (Config, bool, error) {
	if err := e.draft.Validate(); err != nil {
		return e.live, false, err
	}
	if !e.Dirty() {
		return e.live, false, nil
	}

	e.live = Config{
		Version:   e.live.Version + 1,
		Weights:   e.draft,
		UpdatedAt: now,
	}
	return e.live, true, nil
}

// Discard throws away draft edits
func (e *Editor) Discard() {
	e.draft = e.live.Weights
}
