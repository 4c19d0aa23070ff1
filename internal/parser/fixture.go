// Package parser is a stand-in for the JAR-reading/bytecode-parsing
// collaborator spec §6 places out of scope: it builds a model.ClassGroup
// from a JSON fixture rather than a real classfile reader. Field names
// mirror the attributes §3 requires the real parser to have already
// computed (hierarchy edges, cross-reference graphs, constant sets,
// override sets, real/synthetic tagging).
package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ruinedyourlife/matchengine/internal/model"
)

// FixtureClass is one class entry in a fixture file.
type FixtureClass struct {
	Name        string   `json:"name"`
	AccessFlags uint32   `json:"access_flags"`
	Real        bool     `json:"real"`
	Parent      string   `json:"parent,omitempty"`
	Interfaces  []string `json:"interfaces,omitempty"`

	Strings []string  `json:"strings,omitempty"`
	Ints    []int32   `json:"ints,omitempty"`
	Longs   []int64   `json:"longs,omitempty"`
	Floats  []float32 `json:"floats,omitempty"`
	Doubles []float64 `json:"doubles,omitempty"`

	OutRefs []string `json:"out_refs,omitempty"`

	Methods []FixtureMethod `json:"methods,omitempty"`
	Fields  []FixtureField  `json:"fields,omitempty"`
}

// FixtureMethod is one method entry. Instruction decoding is
// intentionally out of scope for the fixture loader — Instructions is
// left empty unless a caller populates it via the exported Instructions
// field after loading (e.g. in tests exercising the bytecode comparator
// directly).
type FixtureMethod struct {
	Name        string   `json:"name"`
	Desc        string   `json:"desc"`
	AccessFlags uint32   `json:"access_flags"`
	ReturnType  string   `json:"return_type,omitempty"`
	ArgTypes    []string `json:"arg_types,omitempty"`
	Overrides   []string `json:"overrides,omitempty"` // "Owner#name desc" references, resolved post-load
	CallOut     []string `json:"call_out,omitempty"`
	FieldWrites []string `json:"field_writes,omitempty"`
	FieldReads  []string `json:"field_reads,omitempty"`
	ClassRefs   []string `json:"class_refs,omitempty"`
	Strings     []string `json:"strings,omitempty"`
	Ints        []int32  `json:"ints,omitempty"`
}

// FixtureField is one field entry.
type FixtureField struct {
	Name        string   `json:"name"`
	Desc        string   `json:"desc"`
	AccessFlags uint32   `json:"access_flags"`
	Type        string   `json:"type,omitempty"`
	Initializer *string  `json:"initializer,omitempty"` // string-kind constant only, for fixture simplicity
	Overrides   []string `json:"overrides,omitempty"`   // "Owner#name" references, resolved post-load
}

// Fixture is a whole class group as JSON.
type Fixture struct {
	Classes []FixtureClass `json:"classes"`
}

// syntheticPool is a name-keyed registry of synthesized stand-in classes
// shared across the related Build calls of a matching run, so that a
// referenced-but-undeclared class (e.g. java/lang/Object) resolves to the
// literal same *model.Class in both the reference and target groups —
// spec §3's "synthetic classes are shared between groups" precondition
// for §4.6's synthetic self-match step. A Build call made on its own
// (e.g. from a single-group test) gets a pool scoped to just that call.
type syntheticPool struct {
	classes map[string]*model.Class
}

func newSyntheticPool() *syntheticPool {
	return &syntheticPool{classes: make(map[string]*model.Class)}
}

// Load reads a fixture file and builds a model.ClassGroup, resolving
// parent/interface/type references and synthesizing stand-in classes for
// any name referenced but not declared in the fixture (the fixture
// loader's analogue of "synthetic" platform classes).
func Load(path string) (*model.ClassGroup, error) {
	return LoadPooled(path, newSyntheticPool())
}

// LoadPooled is Load with an explicit synthetic pool, so a reference and
// a target fixture loaded through the same pool resolve same-named
// synthetic stand-ins to one shared *model.Class. Use LoadPaired for the
// common two-fixture case.
func LoadPooled(path string, pool *syntheticPool) (*model.ClassGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: reading fixture %s: %w", path, err)
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parser: decoding fixture %s: %w", path, err)
	}
	return build(fx, pool)
}

// LoadPaired loads a reference and a target fixture through one shared
// synthetic pool, the form cmd/matchengine's driver needs: the two
// fixtures describe two separate artifacts, but a class neither one
// declares (a JDK or library class referenced only in passing) must be
// the same synthetic stand-in object on both sides for synthetic
// self-matching to mean anything across the pair.
func LoadPaired(refPath, targetPath string) (ref, target *model.ClassGroup, err error) {
	pool := newSyntheticPool()
	ref, err = LoadPooled(refPath, pool)
	if err != nil {
		return nil, nil, err
	}
	target, err = LoadPooled(targetPath, pool)
	if err != nil {
		return nil, nil, err
	}
	return ref, target, nil
}

// Build constructs a class group from an already-decoded fixture, in two
// passes: first declare every class (synthesizing referenced-but-absent
// ones), then wire hierarchy/members/cross-refs now that every class
// exists to point at. Synthetic stand-ins are scoped to this single call;
// use BuildPooled to share them with another Build call over a related
// fixture.
func Build(fx Fixture) (*model.ClassGroup, error) {
	return build(fx, newSyntheticPool())
}

// BuildPooled is Build with an explicit synthetic pool; see LoadPooled.
func BuildPooled(fx Fixture, pool *syntheticPool) (*model.ClassGroup, error) {
	return build(fx, pool)
}

func build(fx Fixture, pool *syntheticPool) (*model.ClassGroup, error) {
	g := model.NewClassGroup()

	ensure := func(name string) *model.Class {
		if c, ok := g.Classes[name]; ok {
			return c
		}
		if c, ok := pool.classes[name]; ok {
			g.Add(c)
			return c
		}
		c := model.NewClass(name, 0, false)
		pool.classes[name] = c
		g.Add(c)
		return c
	}

	for _, fc := range fx.Classes {
		c := model.NewClass(fc.Name, fc.AccessFlags, fc.Real)
		g.Add(c)
		for _, s := range fc.Strings {
			c.Strings[s] = struct{}{}
		}
		for _, v := range fc.Ints {
			c.Ints[v] = struct{}{}
		}
		for _, v := range fc.Longs {
			c.Longs[v] = struct{}{}
		}
		for _, v := range fc.Floats {
			c.Floats[v] = struct{}{}
		}
		for _, v := range fc.Doubles {
			c.Doubles[v] = struct{}{}
		}
	}

	for _, fc := range fx.Classes {
		c := g.Classes[fc.Name]
		if fc.Parent != "" {
			parent := ensure(fc.Parent)
			c.Parent = parent
			parent.Children[c] = struct{}{}
		}
		for _, ifaceName := range fc.Interfaces {
			iface := ensure(ifaceName)
			c.Interfaces = append(c.Interfaces, iface)
			iface.Implementers[c] = struct{}{}
		}
		for _, refName := range fc.OutRefs {
			ref := ensure(refName)
			c.OutRefs[ref] = struct{}{}
			ref.InRefs[c] = struct{}{}
		}

		for _, fm := range fc.Methods {
			m := model.NewMethod(c, fm.Name, fm.Desc, fm.AccessFlags)
			if fm.ReturnType != "" {
				m.ReturnType = ensure(fm.ReturnType)
			}
			for _, t := range fm.ArgTypes {
				m.ArgTypes = append(m.ArgTypes, ensure(t))
			}
			for _, s := range fm.Strings {
				m.Strings[s] = struct{}{}
			}
			for _, v := range fm.Ints {
				m.Ints[v] = struct{}{}
			}
			for _, refName := range fm.ClassRefs {
				m.ClassRefs[ensure(refName)] = struct{}{}
			}
			c.Methods = append(c.Methods, m)
		}

		for _, ff := range fc.Fields {
			f := model.NewField(c, ff.Name, ff.Desc, ff.AccessFlags)
			if ff.Type != "" {
				f.Type = ensure(ff.Type)
			}
			if ff.Initializer != nil {
				f.Initializer = &model.Constant{Kind: model.ConstString, StringVal: *ff.Initializer}
			}
			c.Fields = append(c.Fields, f)
		}
	}

	wireCrossReferences(g, fx)
	return g, nil
}

// wireCrossReferences resolves method call-out/field-read/field-write/
// override references, which name their target by owner+signature and
// so must be resolved only once every class's members exist.
func wireCrossReferences(g *model.ClassGroup, fx Fixture) {
	findMethod := func(owner, name, desc string) *model.Method {
		c, ok := g.Classes[owner]
		if !ok {
			return nil
		}
		for _, m := range c.Methods {
			if m.Name == name && m.Desc == desc {
				return m
			}
		}
		return nil
	}
	findField := func(owner, name string) *model.Field {
		c, ok := g.Classes[owner]
		if !ok {
			return nil
		}
		for _, f := range c.Fields {
			if f.Name == name {
				return f
			}
		}
		return nil
	}

	for _, fc := range fx.Classes {
		c := g.Classes[fc.Name]
		for i, fm := range fc.Methods {
			m := c.Methods[i]
			for _, ref := range fm.CallOut {
				owner, name, desc := splitRef(ref)
				if target := findMethod(owner, name, desc); target != nil {
					m.CallOut[target] = struct{}{}
					target.CallIn[m] = struct{}{}
				}
			}
			for _, ref := range fm.FieldReads {
				owner, name, _ := splitRef(ref)
				if target := findField(owner, name); target != nil {
					m.FieldReads[target] = struct{}{}
					target.ReadRefs[m] = struct{}{}
				}
			}
			for _, ref := range fm.FieldWrites {
				owner, name, _ := splitRef(ref)
				if target := findField(owner, name); target != nil {
					m.FieldWrites[target] = struct{}{}
					target.WriteRefs[m] = struct{}{}
				}
			}
			for _, ref := range fm.Overrides {
				owner, name, desc := splitRef(ref)
				if target := findMethod(owner, name, desc); target != nil {
					m.Overrides[target] = struct{}{}
				}
			}
		}
		for i, ff := range fc.Fields {
			f := c.Fields[i]
			for _, ref := range ff.Overrides {
				owner, name, _ := splitRef(ref)
				if target := findField(owner, name); target != nil {
					f.Overrides[target] = struct{}{}
				}
			}
		}
	}
}

// splitRef parses a "Owner#name desc" reference string used by fixture
// cross-reference fields.
func splitRef(ref string) (owner, name, desc string) {
	var i int
	for i = 0; i < len(ref); i++ {
		if ref[i] == '#' {
			break
		}
	}
	if i == len(ref) {
		return ref, "", ""
	}
	owner = ref[:i]
	rest := ref[i+1:]
	for j := 0; j < len(rest); j++ {
		if rest[j] == ' ' {
			return owner, rest[:j], rest[j+1:]
		}
	}
	return owner, rest, ""
}
