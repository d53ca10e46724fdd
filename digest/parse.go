// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

import (
	"bufio"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// ParseModel reads the §6 input model format — an indentation tree of
// "key=value" (or bare "key") lines, one tab per nesting level — into an
// MNode tree. It mirrors how gofem's inp package turns a structured text
// file into typed data before any cross-linking happens: here the
// cross-linking is EquationDigest's job, not the parser's.
func ParseModel(text string) (root *MNode, err error) {
	root = &MNode{Key: "", Value: ""}
	stack := []*MNode{root}
	depths := []int{-1}

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" || strings.HasPrefix(strings.TrimSpace(raw), "//") {
			continue
		}
		depth := indentDepth(raw)
		trimmed := strings.TrimLeft(raw, " \t")

		node := parseLine(trimmed, lineNo)

		for len(depths) > 0 && depth <= depths[len(depths)-1] {
			stack = stack[:len(stack)-1]
			depths = depths[:len(depths)-1]
		}
		if len(stack) == 0 {
			return nil, chk.Err("line %d: indentation underflow", lineNo)
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
		depths = append(depths, depth)
	}
	if serr := scanner.Err(); serr != nil {
		return nil, chk.Err("failed to scan model text: %v", serr)
	}
	return root, nil
}

// indentDepth counts leading tabs, treating a run of 2 spaces as one tab
// stop for formats produced by editors that expand tabs.
func indentDepth(line string) int {
	depth := 0
	spaces := 0
	for _, r := range line {
		switch r {
		case '\t':
			depth++
		case ' ':
			spaces++
			if spaces == 2 {
				depth++
				spaces = 0
			}
		default:
			return depth
		}
	}
	return depth
}

// combinerTokens lists the assignment-combiner operators (spec.md §6), in
// the order they must be tried so "<<=" is not mistaken for "<=" or "=".
var combinerTokens = []string{"<<=", ">>=", "+=", "*=", "/="}

// parseLine splits one "key=value" (or bare "key") line into an MNode.
// The key may carry a derivative tick (x') which stays verbatim in Key;
// a combiner suffix (+=, *=, /=, <<=, >>=) is split off the operator
// itself so Key never contains it, and the operator is recorded so a
// later stage can set Variable.Assignment.
func parseLine(line string, lineNo int) *MNode {
	opLen, eq := findAssignOp(line)
	if eq < 0 {
		return &MNode{Key: strings.TrimSpace(line), Line: lineNo}
	}
	key := strings.TrimSpace(line[:eq])
	val := strings.TrimSpace(line[eq+opLen:])
	return &MNode{Key: key, Value: val, Op: line[eq : eq+opLen], Line: lineNo}
}

// findAssignOp locates the assignment operator (plain '=' or one of the
// combiner tokens) that separates key from value, skipping over '==',
// '<=', '>=', '!=' relational operators and anything nested inside
// brackets (those belong to an expression, not the key/value split).
// It returns the operator's length and start offset.
func findAssignOp(line string) (opLen, pos int) {
	depth := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			for _, tok := range combinerTokens {
				if i-len(tok)+1 >= 0 && line[i-len(tok)+1:i+1] == tok {
					return len(tok), i - len(tok) + 1
				}
			}
			if i > 0 && (line[i-1] == '<' || line[i-1] == '>' || line[i-1] == '!' || line[i-1] == '=') {
				continue
			}
			if i+1 < len(line) && line[i+1] == '=' {
				continue
			}
			return 1, i
		}
	}
	return 0, -1
}
