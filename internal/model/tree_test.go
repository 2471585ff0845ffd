package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func idPtr(v int64) *int64 { return &v }

func TestBuildTreeAndFlatten(t *testing.T) {
	t.Parallel()

	todos := []Todo{
		{ID: 1, Title: "root low", Priority: PriorityLow},
		{ID: 2, Title: "root high", Priority: PriorityHigh},
		{ID: 3, Title: "child a", ParentID: idPtr(1), Priority: PriorityMedium},
		{ID: 4, Title: "child b", ParentID: idPtr(1), Priority: PriorityUrgent},
		{ID: 5, Title: "grandchild", ParentID: idPtr(3)},
		{ID: 6, Title: "orphan", ParentID: idPtr(99), Priority: PriorityMedium},
	}

	roots := BuildTree(todos)
	require.Len(t, roots, 3)
	require.Equal(t, int64(2), roots[0].Todo.ID)
	require.Equal(t, int64(6), roots[1].Todo.ID)
	require.Equal(t, int64(1), roots[2].Todo.ID)

	flat := Flatten(roots)
	var ids []int64
	var depths []int
	for _, f := range flat {
		ids = append(ids, f.Todo.ID)
		depths = append(depths, f.Depth)
	}
	require.Equal(t, []int64{2, 6, 1, 4, 3, 5}, ids)
	require.Equal(t, []int{0, 0, 0, 1, 1, 2}, depths)
	require.True(t, flat[2].HasChildren)
	require.False(t, flat[0].HasChildren)
}

func TestBuildTreeSiblingOrder(t *testing.T) {
	t.Parallel()

	todos := []Todo{
		{ID: 3, Priority: PriorityMedium, Status: StatusDone},
		{ID: 1, Priority: PriorityMedium, Status: StatusPending},
		{ID: 2, Priority: PriorityMedium, Status: StatusPending},
	}
	roots := BuildTree(todos)
	require.Equal(t, int64(1), roots[0].Todo.ID)
	require.Equal(t, int64(2), roots[1].Todo.ID)
	require.Equal(t, int64(3), roots[2].Todo.ID)
}

func TestBuildTreeEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, BuildTree(nil))
	require.Empty(t, Flatten(nil))
}
