// Package model holds the in-memory class/method/field graph the matching
// engine operates on. These types are produced by the parser collaborator
// (see internal/parser for a stand-in) and mutated only by the engine
// setting Match back-references.
package model

import "strings"

// Access flag bits, shared across classes, methods and fields. Not every
// bit applies to every kind; classifiers mask down to the bits they care
// about.
const (
	AccPublic       uint32 = 0x0001
	AccPrivate      uint32 = 0x0002
	AccProtected    uint32 = 0x0004
	AccStatic       uint32 = 0x0008
	AccFinal        uint32 = 0x0010
	AccSynchronized uint32 = 0x0020
	AccSuper        uint32 = 0x0020
	AccVolatile     uint32 = 0x0040
	AccBridge       uint32 = 0x0040
	AccTransient    uint32 = 0x0080
	AccVarargs      uint32 = 0x0080
	AccNative       uint32 = 0x0100
	AccInterface    uint32 = 0x0200
	AccAbstract     uint32 = 0x0400
	AccStrict       uint32 = 0x0800
	AccSynthetic    uint32 = 0x1000
	AccAnnotation   uint32 = 0x2000
	AccEnum         uint32 = 0x4000
)

// Class is a single class or interface in a class group.
type Class struct {
	Name        string
	AccessFlags uint32
	Real        bool // present in the source JAR, as opposed to a synthetic stand-in

	Parent     *Class
	Interfaces []*Class

	Children     map[*Class]struct{}
	Implementers map[*Class]struct{}

	Methods []*Method
	Fields  []*Field

	Strings map[string]struct{}
	Ints    map[int32]struct{}
	Longs   map[int64]struct{}
	Floats  map[float32]struct{}
	Doubles map[float64]struct{}

	InRefs  map[*Class]struct{}
	OutRefs map[*Class]struct{}

	Match *Class

	closure []*Class // cached hierarchy closure, computed lazily
}

// NewClass returns a Class with all maps initialized.
func NewClass(name string, flags uint32, real bool) *Class {
	return &Class{
		Name:         name,
		AccessFlags:  flags,
		Real:         real,
		Children:     make(map[*Class]struct{}),
		Implementers: make(map[*Class]struct{}),
		Strings:      make(map[string]struct{}),
		Ints:         make(map[int32]struct{}),
		Longs:        make(map[int64]struct{}),
		Floats:       make(map[float32]struct{}),
		Doubles:      make(map[float64]struct{}),
		InRefs:       make(map[*Class]struct{}),
		OutRefs:      make(map[*Class]struct{}),
	}
}

// HierarchyClosure returns the class itself plus all ancestors (parent
// chain and interfaces, transitively), computed via DFS and cached.
func (c *Class) HierarchyClosure() []*Class {
	if c.closure != nil {
		return c.closure
	}
	seen := map[*Class]bool{}
	var out []*Class
	var visit func(*Class)
	visit = func(cls *Class) {
		if cls == nil || seen[cls] {
			return
		}
		seen[cls] = true
		out = append(out, cls)
		if cls.Parent != nil {
			visit(cls.Parent)
		}
		for _, iface := range cls.Interfaces {
			visit(iface)
		}
	}
	visit(c)
	c.closure = out
	return out
}

// InvalidateClosure drops the cached hierarchy closure; callers that
// mutate Parent/Interfaces after construction must call this.
func (c *Class) InvalidateClosure() { c.closure = nil }

// IsMatched reports whether this class has a partner.
func (c *Class) IsMatched() bool { return c.Match != nil }

// Method is a single method (or constructor/initializer) declared on a class.
type Method struct {
	Owner       *Class
	Name        string
	Desc        string
	AccessFlags uint32

	Instructions []Instruction

	ReturnType *Class
	ArgTypes   []*Class

	CallIn      map[*Method]struct{}
	CallOut     map[*Method]struct{}
	FieldReads  map[*Field]struct{}
	FieldWrites map[*Field]struct{}
	ClassRefs   map[*Class]struct{}
	Overrides   map[*Method]struct{}

	// Constants extracted from this method's own instruction stream (LDC
	// operands and int/long/float/double pushes), used by the method
	// classifiers' string/numeric-constant comparisons.
	Strings map[string]struct{}
	Ints    map[int32]struct{}
	Longs   map[int64]struct{}
	Floats  map[float32]struct{}
	Doubles map[float64]struct{}

	Match *Method
}

// NewMethod returns a Method with all maps initialized.
func NewMethod(owner *Class, name, desc string, flags uint32) *Method {
	return &Method{
		Owner:       owner,
		Name:        name,
		Desc:        desc,
		AccessFlags: flags,
		CallIn:      make(map[*Method]struct{}),
		CallOut:     make(map[*Method]struct{}),
		FieldReads:  make(map[*Field]struct{}),
		FieldWrites: make(map[*Field]struct{}),
		ClassRefs:   make(map[*Class]struct{}),
		Overrides:   make(map[*Method]struct{}),
		Strings:     make(map[string]struct{}),
		Ints:        make(map[int32]struct{}),
		Longs:       make(map[int64]struct{}),
		Floats:      make(map[float32]struct{}),
		Doubles:     make(map[float64]struct{}),
	}
}

func (m *Method) IsStatic() bool      { return m.AccessFlags&AccStatic != 0 }
func (m *Method) IsPrivate() bool     { return m.AccessFlags&AccPrivate != 0 }
func (m *Method) IsAbstract() bool    { return m.AccessFlags&AccAbstract != 0 }
func (m *Method) IsConstructor() bool { return m.Name == "<init>" }
func (m *Method) IsClassInit() bool   { return m.Name == "<clinit>" }
func (m *Method) IsReal() bool        { return m.Owner == nil || m.Owner.Real }
func (m *Method) IsMatched() bool     { return m.Match != nil }

// Field is a single field declared on a class.
type Field struct {
	Owner       *Class
	Name        string
	Desc        string
	AccessFlags uint32
	Type        *Class

	// Initializer holds the constant value of a single-writer field, if
	// the parser was able to resolve one. Nil if the field has no single
	// resolvable constant initializer.
	Initializer *Constant

	ReadRefs  map[*Method]struct{}
	WriteRefs map[*Method]struct{}
	Overrides map[*Field]struct{}

	Match *Field
}

// NewField returns a Field with all maps initialized.
func NewField(owner *Class, name, desc string, flags uint32) *Field {
	return &Field{
		Owner:       owner,
		Name:        name,
		Desc:        desc,
		AccessFlags: flags,
		ReadRefs:    make(map[*Method]struct{}),
		WriteRefs:   make(map[*Method]struct{}),
		Overrides:   make(map[*Field]struct{}),
	}
}

func (f *Field) IsStatic() bool  { return f.AccessFlags&AccStatic != 0 }
func (f *Field) IsMatched() bool { return f.Match != nil }

// ClassGroup is a set of classes loaded from one JAR plus the synthetic
// stand-ins shared for platform references.
type ClassGroup struct {
	Classes map[string]*Class
}

// NewClassGroup returns an empty class group.
func NewClassGroup() *ClassGroup {
	return &ClassGroup{Classes: make(map[string]*Class)}
}

// Add registers a class in the group, keyed by its internal name.
func (g *ClassGroup) Add(c *Class) { g.Classes[c.Name] = c }

// Real returns every real class in the group.
func (g *ClassGroup) Real() []*Class {
	var out []*Class
	for _, c := range g.Classes {
		if c.Real {
			out = append(out, c)
		}
	}
	return out
}

// Synthetic returns every synthetic class in the group.
func (g *ClassGroup) Synthetic() []*Class {
	var out []*Class
	for _, c := range g.Classes {
		if !c.Real {
			out = append(out, c)
		}
	}
	return out
}

// UnmatchedReal returns every real class without a match.
func (g *ClassGroup) UnmatchedReal() []*Class {
	var out []*Class
	for _, c := range g.Classes {
		if c.Real && c.Match == nil {
			out = append(out, c)
		}
	}
	return out
}

// AllMethods returns every method declared by a real class in the group.
func (g *ClassGroup) AllMethods() []*Method {
	var out []*Method
	for _, c := range g.Classes {
		if !c.Real {
			continue
		}
		out = append(out, c.Methods...)
	}
	return out
}

// AllFields returns every field declared by a real class in the group.
func (g *ClassGroup) AllFields() []*Field {
	var out []*Field
	for _, c := range g.Classes {
		if !c.Real {
			continue
		}
		out = append(out, c.Fields...)
	}
	return out
}

// IsObfuscatedName reports whether name matches the deobfuscator's
// generated-placeholder scheme: length <= 2, length 3 with prefix "aa",
// or a name starting with "class"/"method"/"field".
func IsObfuscatedName(name string) bool {
	if len(name) <= 2 {
		return true
	}
	if len(name) == 3 && strings.HasPrefix(name, "aa") {
		return true
	}
	for _, prefix := range [...]string{"class", "method", "field"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// ConstantKind discriminates the kinds of constants an LDC instruction can
// push, mirroring the JVM constant pool tag space relevant to comparison.
type ConstantKind int

const (
	ConstInt ConstantKind = iota
	ConstLong
	ConstFloat
	ConstDouble
	ConstString
	ConstClassType // a java.lang.Class literal (Type constant, OBJECT or ARRAY sort)
	ConstMethodHandle
	ConstMethodType
)

// Constant is a single constant-pool value, as already resolved by the
// parser collaborator.
type Constant struct {
	Kind        ConstantKind
	IntVal      int32
	LongVal     int64
	FloatVal    float32
	DoubleVal   float64
	StringVal   string
	ClassVal    *Class // for ConstClassType
	HandleOwner *Class // for ConstMethodHandle/ConstMethodType
	HandleName  string
	HandleDesc  string
	HandleTag   MethodHandleTag // dispatch kind for ConstMethodHandle
}

// Equal reports constant equality under the rules of §4.3: Type constants
// of OBJECT/ARRAY sort compare their target classes (by potential
// equality, handled by the caller); everything else compares by value.
func (c Constant) Equal(o Constant) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case ConstInt:
		return c.IntVal == o.IntVal
	case ConstLong:
		return c.LongVal == o.LongVal
	case ConstFloat:
		return c.FloatVal == o.FloatVal
	case ConstDouble:
		return c.DoubleVal == o.DoubleVal
	case ConstString:
		return c.StringVal == o.StringVal
	case ConstMethodHandle, ConstMethodType:
		return c.HandleName == o.HandleName && c.HandleDesc == o.HandleDesc
	case ConstClassType:
		return c.ClassVal == o.ClassVal
	}
	return false
}
