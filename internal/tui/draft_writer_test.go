package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftWriter_DropsStaleAutosave(t *testing.T) {
	var w draftWriter
	var saved []int

	first := w.next()
	second := w.next()

	require.NoError(t, w.autosave(second, func() error { saved = append(saved, second); return nil }))
	require.NoError(t, w.autosave(first, func() error { saved = append(saved, first); return nil }))

	assert.Equal(t, []int{second}, saved)
}

func TestDraftWriter_RunSupersedesPendingAutosave(t *testing.T) {
	var w draftWriter
	var ops []string

	edit := w.next()
	send := w.next()

	require.NoError(t, w.run(send, func() error { ops = append(ops, "send"); return nil }))
	require.NoError(t, w.autosave(edit, func() error { ops = append(ops, "edit"); return nil }))

	assert.Equal(t, []string{"send"}, ops)
}

func TestDraftWriter_RunAlwaysExecutes(t *testing.T) {
	var w draftWriter

	older := w.next()
	newer := w.next()
	require.NoError(t, w.autosave(newer, func() error { return nil }))

	ran := false
	require.NoError(t, w.run(older, func() error { ran = true; return nil }))
	assert.True(t, ran)
}

func TestDraftWriter_FailedAutosaveDoesNotAdvance(t *testing.T) {
	var w draftWriter
	boom := errors.New("disk full")

	first := w.next()
	assert.ErrorIs(t, w.autosave(first, func() error { return boom }), boom)

	retried := false
	require.NoError(t, w.autosave(first, func() error { retried = true; return nil }))
	assert.True(t, retried)
}
