package model

import "sort"

// TodoNode is a todo together with its loaded subtasks.
type TodoNode struct {
	Todo     Todo
	Children []*TodoNode
}

// FlatTodo is one row of a flattened todo tree.
type FlatTodo struct {
	Todo        Todo
	Depth       int
	HasChildren bool
}

// BuildTree organizes a flat list of todos into a forest. A todo whose
// parent is not part of the list is treated as a root. Siblings are ordered
// by priority (highest first), then status, then id.
func BuildTree(todos []Todo) []*TodoNode {
	nodes := make(map[int64]*TodoNode, len(todos))
	for _, t := range todos {
		nodes[t.ID] = &TodoNode{Todo: t}
	}

	var roots []*TodoNode
	for _, t := range todos {
		node := nodes[t.ID]
		if t.ParentID != nil {
			if parent, ok := nodes[*t.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	for _, n := range nodes {
		sortNodes(n.Children)
	}
	return roots
}

// Flatten walks the forest depth first, parents before their children.
func Flatten(roots []*TodoNode) []FlatTodo {
	var out []FlatTodo
	seen := make(map[int64]bool)

	var walk func(n *TodoNode, depth int)
	walk = func(n *TodoNode, depth int) {
		if seen[n.Todo.ID] {
			return
		}
		seen[n.Todo.ID] = true
		out = append(out, FlatTodo{
			Todo:        n.Todo,
			Depth:       depth,
			HasChildren: len(n.Children) > 0,
		})
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return out
}

func sortNodes(nodes []*TodoNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Todo, nodes[j].Todo
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Status != b.Status {
			return a.Status < b.Status
		}
		return a.ID < b.ID
	})
}
