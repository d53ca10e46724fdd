// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// MNode is one node of the raw parsed model tree (spec.md §6): a string
// key, a string value, and ordered children. This is the un-digested
// representation produced directly off the wire format, before any
// EquationSet/Variable structure is built.
type MNode struct {
	Key      string
	Value    string
	Op       string // assignment operator as written: "=", "+=", "*=", "/=", "<<=", ">>="
	Children []*MNode
	Line     int // 1-based source line, for error reporting
}

// Child returns the first direct child with the given key, or nil.
func (n *MNode) Child(key string) *MNode {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Walk calls fn for n and every descendant, depth first.
func (n *MNode) Walk(fn func(*MNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
