package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
)

type fakeBrowser struct {
	records []snapshot.Record
	applied []int64
	deleted []int64
}

func (f *fakeBrowser) Root() string { return "/tmp/Game_StateSnapshots" }

func (f *fakeBrowser) List(ctx context.Context) ([]snapshot.Record, error) {
	return f.records, nil
}

func (f *fakeBrowser) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	kept := f.records[:0]
	for _, r := range f.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeBrowser) Apply(ctx context.Context, id int64) error {
	f.applied = append(f.applied, id)
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send applies msg and runs any resulting command once, feeding its message back
func send(t *testing.T, m browseModel, msg tea.Msg) browseModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(browseModel)
	for cmd != nil {
		out := cmd()
		if out == nil {
			break
		}
		if _, quit := out.(tea.QuitMsg); quit {
			break
		}
		next, cmd = m.Update(out)
		m = next.(browseModel)
	}
	return m
}

func newLoadedBrowser(t *testing.T) (browseModel, *fakeBrowser) {
	t.Helper()
	fake := &fakeBrowser{records: []snapshot.Record{
		{ID: 1000, Name: "first", Context: "start of level 1", Date: "05/03/2024 14:07"},
		{ID: 2000, Name: "second", Context: "boss", Date: "05/03/2024 14:08"},
	}}
	m := newBrowseModel(context.Background(), fake)
	msg := m.Init()()
	next, _ := m.Update(msg)
	return next.(browseModel), fake
}

func TestBrowseModel_Navigation(t *testing.T) {
	m, _ := newLoadedBrowser(t)
	require.Len(t, m.records, 2)

	m = send(t, m, key("up"))
	assert.Equal(t, 0, m.selectedRow, "cannot move above the first row")

	m = send(t, m, key("j"))
	assert.Equal(t, 1, m.selectedRow)
	m = send(t, m, key("down"))
	assert.Equal(t, 1, m.selectedRow, "cannot move below the last row")
	m = send(t, m, key("k"))
	assert.Equal(t, 0, m.selectedRow)

	m = send(t, m, key("c"))
	assert.True(t, m.showContext)
	assert.Contains(t, m.View(), "start of level 1")
}

func TestBrowseModel_ApplyNeedsConfirmation(t *testing.T) {
	m, fake := newLoadedBrowser(t)

	m = send(t, m, key("j"))
	m = send(t, m, key("a"))
	assert.Equal(t, actionApply, m.pending)
	assert.Contains(t, m.View(), "Apply snapshot 2000")

	m = send(t, m, key("n"))
	assert.Empty(t, fake.applied)
	assert.Equal(t, "Cancelled", m.status)

	m = send(t, m, key("a"))
	m = send(t, m, key("y"))
	assert.Equal(t, []int64{2000}, fake.applied)
	assert.False(t, m.busy)
	assert.Contains(t, m.status, "Applied 2000")
}

func TestBrowseModel_DeleteKeepsSelectionInRange(t *testing.T) {
	m, fake := newLoadedBrowser(t)

	m = send(t, m, key("j"))
	m = send(t, m, key("d"))
	m = send(t, m, key("y"))

	assert.Equal(t, []int64{2000}, fake.deleted)
	require.Len(t, m.records, 1)
	assert.Equal(t, 0, m.selectedRow)
}

func TestBrowseModel_EmptyList(t *testing.T) {
	m := newBrowseModel(context.Background(), &fakeBrowser{})
	next, _ := m.Update(m.Init()())
	m = next.(browseModel)

	m = send(t, m, key("a"))
	assert.Equal(t, actionNone, m.pending)
	assert.Contains(t, m.View(), "No snapshots")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		key       tea.KeyMsg
		confirmed bool
	}{
		{key("y"), true},
		{key("Y"), true},
		{key("n"), false},
		{key("enter"), false},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, false},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			next, cmd := newConfirmModel("Delete?").Update(tt.key)
			m := next.(confirmModel)
			assert.True(t, m.answered)
			assert.Equal(t, tt.confirmed, m.confirmed)
			require.NotNil(t, cmd)
		})
	}

	next, cmd := newConfirmModel("Delete?").Update(key("x"))
	assert.False(t, next.(confirmModel).answered)
	assert.Nil(t, cmd)
}
