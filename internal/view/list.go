package view

import (
	"context"

	"github.com/noah-isme/unireg-gateway/internal/models"
)

// ListState enumerates the mutually exclusive list render states.
type ListState int

const (
	StateLoading ListState = iota
	StateErrored
	StateEmpty
	StatePopulated
)

// Callbacks are supplied by the caller; the list delegates edit and delete
// instead of implementing them.
type Callbacks struct {
	OnEdit   func(models.Student)
	OnDelete func(id int)
	// Confirm gates deletion. Returning false cancels without firing
	// OnDelete. A nil Confirm blocks every delete.
	Confirm func(models.Student) bool
}

// StudentList drives one page of students at a time. Pages are cached per
// page number until Invalidate is called, which is the refresh signal fired
// after a mutation. Next is enabled purely on "current page is non-empty" --
// the upstream exposes no total count, so an empty trailing page remains
// reachable (known boundary behaviour, kept as-is).
type StudentList struct {
	api       StudentAPI
	token     string
	callbacks Callbacks

	page     int
	state    ListState
	err      error
	students []models.Student
	cache    map[int][]models.Student
}

// NewStudentList builds a list positioned on page 1.
func NewStudentList(api StudentAPI, token string, callbacks Callbacks) *StudentList {
	return &StudentList{
		api:       api,
		token:     token,
		callbacks: callbacks,
		page:      1,
		state:     StateLoading,
		cache:     make(map[int][]models.Student),
	}
}

// Page returns the current 1-based page number.
func (l *StudentList) Page() int { return l.page }

// State returns the current render state.
func (l *StudentList) State() ListState { return l.state }

// Err returns the load error, set only in StateErrored.
func (l *StudentList) Err() error { return l.err }

// Students returns the current page contents.
func (l *StudentList) Students() []models.Student { return l.students }

// Load fetches the current page, consulting the per-page cache first.
func (l *StudentList) Load(ctx context.Context) error {
	if cached, ok := l.cache[l.page]; ok {
		l.apply(cached)
		return nil
	}

	l.state = StateLoading
	students, err := l.api.ListStudents(ctx, l.token, l.page)
	if err != nil {
		l.state = StateErrored
		l.err = err
		return err
	}

	l.cache[l.page] = students
	l.apply(students)
	return nil
}

// NextEnabled reports whether paging forward is allowed: only while the
// current page is non-empty.
func (l *StudentList) NextEnabled() bool {
	return l.state == StatePopulated
}

// PrevEnabled reports whether paging backward is allowed.
func (l *StudentList) PrevEnabled() bool {
	return l.page > 1
}

// Next advances one page when allowed.
func (l *StudentList) Next(ctx context.Context) error {
	if !l.NextEnabled() {
		return nil
	}
	l.page++
	return l.Load(ctx)
}

// Prev goes back one page when allowed.
func (l *StudentList) Prev(ctx context.Context) error {
	if !l.PrevEnabled() {
		return nil
	}
	l.page--
	return l.Load(ctx)
}

// Edit fires the edit callback for the student at index i.
func (l *StudentList) Edit(i int) {
	if i < 0 || i >= len(l.students) || l.callbacks.OnEdit == nil {
		return
	}
	l.callbacks.OnEdit(l.students[i])
}

// Delete asks for confirmation, then fires the delete callback for the
// student at index i. It reports whether the callback fired.
func (l *StudentList) Delete(i int) bool {
	if i < 0 || i >= len(l.students) || l.callbacks.OnDelete == nil {
		return false
	}
	if l.callbacks.Confirm == nil || !l.callbacks.Confirm(l.students[i]) {
		return false
	}
	l.callbacks.OnDelete(l.students[i].ID)
	return true
}

// Invalidate drops every cached page and refetches the current one. Fired
// after any mutation instead of the implicit key-increment refresh.
func (l *StudentList) Invalidate(ctx context.Context) error {
	l.cache = make(map[int][]models.Student)
	return l.Load(ctx)
}

func (l *StudentList) apply(students []models.Student) {
	l.err = nil
	l.students = students
	if len(students) == 0 {
		l.state = StateEmpty
		return
	}
	l.state = StatePopulated
}
