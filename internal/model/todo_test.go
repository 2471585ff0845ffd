package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseStatusName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want TodoStatus
	}{
		{"pending", StatusPending},
		{"Open", StatusPending},
		{"in_progress", StatusInProgress},
		{"in-progress", StatusInProgress},
		{"doing", StatusInProgress},
		{"DONE", StatusDone},
		{"completed", StatusDone},
		{"canceled", StatusCancelled},
		{"cancelled", StatusCancelled},
		{"3", StatusCancelled},
		{" 1 ", StatusInProgress},
	}
	for _, tt := range tests {
		got, err := ParseStatusName(tt.in)
		require.NoErrorf(t, err, "input %q", tt.in)
		require.Equalf(t, tt.want, got, "input %q", tt.in)
	}

	for _, bad := range []string{"", "finished", "4", "-1"} {
		_, err := ParseStatusName(bad)
		require.ErrorIsf(t, err, ErrInvalidStatus, "input %q", bad)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for code := int64(0); code <= 3; code++ {
		s, err := ParseStatus(code)
		require.NoError(t, err)
		require.Equal(t, TodoStatus(code), s)
	}

	_, err := ParseStatus(4)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "in_progress", StatusInProgress.String())
	require.Equal(t, "status(9)", TodoStatus(9).String())
	require.True(t, StatusDone.IsTerminal())
	require.True(t, StatusCancelled.IsTerminal())
	require.False(t, StatusInProgress.IsTerminal())
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"low":    PriorityLow,
		"Medium": PriorityMedium,
		"high":   PriorityHigh,
		"urgent": PriorityUrgent,
		"0":      0,
		"7":      7,
	}
	for in, want := range tests {
		got, err := ParsePriority(in)
		require.NoErrorf(t, err, "input %q", in)
		require.Equalf(t, want, got, "input %q", in)
	}

	for _, bad := range []string{"-1", "soon", ""} {
		_, err := ParsePriority(bad)
		require.ErrorIsf(t, err, ErrInvalidPriority, "input %q", bad)
	}

	require.Equal(t, "high", PriorityName(PriorityHigh))
	require.Equal(t, "P9", PriorityName(9))
}

func TestTodoIsOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	require.True(t, Todo{DueDate: &past}.IsOverdue(now))
	require.False(t, Todo{DueDate: &future}.IsOverdue(now))
	require.False(t, Todo{}.IsOverdue(now))
	require.False(t, Todo{DueDate: &past, Status: StatusDone}.IsOverdue(now))
}

func TestPatchIsEmpty(t *testing.T) {
	t.Parallel()

	title := "x"
	require.True(t, TodoPatch{}.IsEmpty())
	require.False(t, TodoPatch{Title: &title}.IsEmpty())
	require.False(t, TodoPatch{ClearURL: true}.IsEmpty())

	require.True(t, ProjectPatch{}.IsEmpty())
	require.False(t, ProjectPatch{ClearColor: true}.IsEmpty())
}
