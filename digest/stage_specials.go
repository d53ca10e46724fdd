// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

// specialDefaults gives the default equation for each injected special
// (spec.md §4.1 step 3). $t and $t' are preexistent (the runtime supplies
// them, no equation is emitted), $n defaults to 1, $init/$connect default
// false, $type defaults to 0.
var specialDefaults = map[string]float64{
	"$n":    1,
	"$init": 0,
	"$type": 0,
}

// stageSpecials realizes pipeline step 3: inject $index, $init, $n, $t,
// $t', $type, and on connection parts only $connect, with correct default
// equations, skipping any the part already declares explicitly (a part
// may override $n, for example).
func (d *digester) stageSpecials(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		for _, name := range []string{"$index", "$init", "$n", "$t", "$t'", "$type"} {
			if eqset.FindVariable(name) != nil {
				continue
			}
			v := NewVariable(name)
			if def, ok := specialDefaults[name]; ok {
				v.Equations = []*Equation{{Expr: &Expr{Op: "Const", Const: def, IsConst: true}}}
			}
			eqset.Variables = append(eqset.Variables, v)
		}
		if eqset.IsConnection() {
			if eqset.FindVariable("$connect") == nil {
				v := NewVariable("$connect")
				v.Equations = []*Equation{{Expr: &Expr{Op: "Const", Const: 0, IsConst: true}}}
				eqset.Variables = append(eqset.Variables, v)
			}
		}
		return nil
	})
}

// stageAttributeSeed realizes pipeline step 4: mark $max,$min,$k,$radius
// global+init-only; $n global; $index,$t',$t preexistent.
func (d *digester) stageAttributeSeed(root *EquationSet) error {
	return walkParts(root, func(eqset *EquationSet) error {
		for _, name := range []string{"$max", "$min", "$k", "$radius"} {
			if v := eqset.FindVariable(name); v != nil {
				v.Attributes.Add(AttrGlobal)
				v.Attributes.Add(AttrInitOnly)
			}
		}
		if v := eqset.FindVariable("$n"); v != nil {
			v.Attributes.Add(AttrGlobal)
		}
		for _, name := range []string{"$index", "$t'", "$t"} {
			if v := eqset.FindVariable(name); v != nil {
				v.Attributes.Add(AttrPreexistent)
			}
		}
		return nil
	})
}
