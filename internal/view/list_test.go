package view

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unireg-gateway/internal/models"
)

type listAPIMock struct {
	pages     map[int][]models.Student
	err       error
	listCalls int
}

func (m *listAPIMock) ListStudents(_ context.Context, _ string, page int) ([]models.Student, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.pages[page], nil
}

func (m *listAPIMock) CreateStudent(_ context.Context, _ string, _ models.NewStudent) (*models.Student, error) {
	return nil, nil
}

func (m *listAPIMock) UpdateStudent(_ context.Context, _ string, _ int, _ models.NewStudent) (*models.Student, error) {
	return nil, nil
}

func (m *listAPIMock) DeleteStudent(_ context.Context, _ string, _ int) error {
	return nil
}

func twoPages() map[int][]models.Student {
	return map[int][]models.Student{
		1: {{ID: 1, Name: "Ana"}, {ID: 2, Name: "Bram"}},
		2: {{ID: 3, Name: "Cleo"}},
	}
}

func TestStudentListLoadPopulated(t *testing.T) {
	api := &listAPIMock{pages: twoPages()}
	list := NewStudentList(api, "tok", Callbacks{})

	require.NoError(t, list.Load(context.Background()))
	assert.Equal(t, StatePopulated, list.State())
	assert.Len(t, list.Students(), 2)
	assert.True(t, list.NextEnabled())
	assert.False(t, list.PrevEnabled())
}

func TestStudentListLoadEmpty(t *testing.T) {
	api := &listAPIMock{pages: map[int][]models.Student{}}
	list := NewStudentList(api, "tok", Callbacks{})

	require.NoError(t, list.Load(context.Background()))
	assert.Equal(t, StateEmpty, list.State())
	assert.False(t, list.NextEnabled(), "empty page disables paging forward")
}

func TestStudentListLoadError(t *testing.T) {
	api := &listAPIMock{err: errors.New("boom")}
	list := NewStudentList(api, "tok", Callbacks{})

	require.Error(t, list.Load(context.Background()))
	assert.Equal(t, StateErrored, list.State())
	assert.Error(t, list.Err())
}

func TestStudentListNextAndPrev(t *testing.T) {
	api := &listAPIMock{pages: twoPages()}
	list := NewStudentList(api, "tok", Callbacks{})
	require.NoError(t, list.Load(context.Background()))

	require.NoError(t, list.Next(context.Background()))
	assert.Equal(t, 2, list.Page())
	assert.Len(t, list.Students(), 1)
	assert.True(t, list.PrevEnabled())

	require.NoError(t, list.Prev(context.Background()))
	assert.Equal(t, 1, list.Page())
	assert.Len(t, list.Students(), 2)
}

func TestStudentListPrevAtFirstPageIsNoop(t *testing.T) {
	api := &listAPIMock{pages: twoPages()}
	list := NewStudentList(api, "tok", Callbacks{})
	require.NoError(t, list.Load(context.Background()))

	calls := api.listCalls
	require.NoError(t, list.Prev(context.Background()))
	assert.Equal(t, 1, list.Page())
	assert.Equal(t, calls, api.listCalls)
}

func TestStudentListCachesPages(t *testing.T) {
	api := &listAPIMock{pages: twoPages()}
	list := NewStudentList(api, "tok", Callbacks{})

	require.NoError(t, list.Load(context.Background()))
	require.NoError(t, list.Next(context.Background()))
	require.NoError(t, list.Prev(context.Background()))
	assert.Equal(t, 2, api.listCalls, "returning to a visited page uses the cache")
}

func TestStudentListInvalidateRefetches(t *testing.T) {
	api := &listAPIMock{pages: twoPages()}
	list := NewStudentList(api, "tok", Callbacks{})
	require.NoError(t, list.Load(context.Background()))

	require.NoError(t, list.Invalidate(context.Background()))
	assert.Equal(t, 2, api.listCalls, "invalidation drops the cache and refetches")
}

func TestStudentListEditCallback(t *testing.T) {
	var edited *models.Student
	api := &listAPIMock{pages: twoPages()}
	list := NewStudentList(api, "tok", Callbacks{
		OnEdit: func(s models.Student) { edited = &s },
	})
	require.NoError(t, list.Load(context.Background()))

	list.Edit(1)
	require.NotNil(t, edited)
	assert.Equal(t, 2, edited.ID)
}

func TestStudentListDeleteRequiresConfirmation(t *testing.T) {
	deleted := 0
	api := &listAPIMock{pages: twoPages()}
	list := NewStudentList(api, "tok", Callbacks{
		OnDelete: func(id int) { deleted = id },
		Confirm:  func(models.Student) bool { return false },
	})
	require.NoError(t, list.Load(context.Background()))

	assert.False(t, list.Delete(0))
	assert.Zero(t, deleted, "declined confirmation cancels the delete")
}

func TestStudentListDeleteConfirmed(t *testing.T) {
	deleted := 0
	api := &listAPIMock{pages: twoPages()}
	list := NewStudentList(api, "tok", Callbacks{
		OnDelete: func(id int) { deleted = id },
		Confirm:  func(models.Student) bool { return true },
	})
	require.NoError(t, list.Load(context.Background()))

	assert.True(t, list.Delete(0))
	assert.Equal(t, 1, deleted)
}

func TestStudentListDeleteWithoutConfirmGate(t *testing.T) {
	api := &listAPIMock{pages: twoPages()}
	list := NewStudentList(api, "tok", Callbacks{
		OnDelete: func(int) { t.Fatal("delete must not fire without a confirm gate") },
	})
	require.NoError(t, list.Load(context.Background()))

	assert.False(t, list.Delete(0))
}
