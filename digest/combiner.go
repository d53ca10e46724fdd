// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

import "math"

// assignmentFromOp maps the raw operator text captured by the parser to
// the Assignment tag (spec.md §6: "combiners prefix the assignment").
func assignmentFromOp(op string) Assignment {
	switch op {
	case "+=":
		return ADD
	case "*=":
		return MULTIPLY
	case "/=":
		return DIVIDE
	case "<<=":
		return MIN
	case ">>=":
		return MAX
	default:
		return REPLACE
	}
}

// identityValue returns the value a combined Variable's buffer resets to
// at finalize (spec.md §8 universal invariant).
func identityValue(a Assignment) float64 {
	switch a {
	case ADD:
		return 0
	case MULTIPLY, DIVIDE:
		return 1
	case MIN:
		return math.Inf(1)
	case MAX:
		return math.Inf(-1)
	default:
		return 0
	}
}
