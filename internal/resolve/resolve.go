// Package resolve implements field and method resolution across a class
// hierarchy, per spec §4.5. It is used by the bytecode instruction
// comparator to resolve a field/method instruction's owner+name+desc
// against the class actually referenced at the call site.
package resolve

import "github.com/ruinedyourlife/matchengine/internal/model"

// Field resolves a field by name+desc starting at class c:
//  1. direct field on c;
//  2. BFS over c's direct and transitive interfaces, in declaration order;
//  3. walk the ancestor chain via the parent pointer, repeating step 2 at
//     each ancestor.
func Field(c *model.Class, name, desc string) *model.Field {
	for cur := c; cur != nil; cur = cur.Parent {
		if f := directField(cur, name, desc); f != nil {
			return f
		}
		if f := bfsInterfaceField(cur, name, desc); f != nil {
			return f
		}
	}
	return nil
}

func directField(c *model.Class, name, desc string) *model.Field {
	if c == nil {
		return nil
	}
	for _, f := range c.Fields {
		if f.Name == name && f.Desc == desc {
			return f
		}
	}
	return nil
}

func bfsInterfaceField(c *model.Class, name, desc string) *model.Field {
	if c == nil || len(c.Interfaces) == 0 {
		return nil
	}
	queue := append([]*model.Class(nil), c.Interfaces...)
	visited := map[*model.Class]bool{}
	for len(queue) > 0 {
		iface := queue[0]
		queue = queue[1:]
		if iface == nil || visited[iface] {
			continue
		}
		visited[iface] = true
		if f := directField(iface, name, desc); f != nil {
			return f
		}
		queue = append(queue, iface.Interfaces...)
	}
	return nil
}

// Method resolves a method by name+desc starting at class c, honoring
// toInterface (true for an interface-typed invocation site, i.e.
// invokeinterface or an interface invokestatic/invokespecial).
func Method(c *model.Class, name, desc string, toInterface bool) *model.Method {
	if toInterface {
		return resolveInterfaceCall(c, name, desc)
	}
	return resolveVirtualCall(c, name, desc)
}

func resolveVirtualCall(c *model.Class, name, desc string) *model.Method {
	for cur := c; cur != nil; cur = cur.Parent {
		if m := directMethod(cur, name, desc); m != nil {
			return m
		}
	}
	return resolveInterfaceMethod(c, name, desc)
}

func resolveInterfaceCall(c *model.Class, name, desc string) *model.Method {
	if m := directMethod(c, name, desc); m != nil {
		return m
	}
	if c != nil && c.Parent != nil {
		if m := directMethod(c.Parent, name, desc); m != nil &&
			m.AccessFlags&model.AccPublic != 0 && m.AccessFlags&model.AccStatic == 0 {
			return m
		}
	}
	return resolveInterfaceMethod(c, name, desc)
}

func directMethod(c *model.Class, name, desc string) *model.Method {
	if c == nil {
		return nil
	}
	for _, m := range c.Methods {
		if m.Name == name && m.Desc == desc {
			return m
		}
	}
	return nil
}

// resolveInterfaceMethod BFS's all super-interfaces of c transitively,
// collects non-private non-static name+desc matches, prefers non-abstract
// candidates if any exist, then tie-breaks by the maximally-specific rule:
// eliminate candidates whose owner is a super-interface of another
// candidate's owner. Returns the unique survivor or nil.
func resolveInterfaceMethod(c *model.Class, name, desc string) *model.Method {
	if c == nil {
		return nil
	}
	var queue []*model.Class
	queue = append(queue, c.Interfaces...)
	visited := map[*model.Class]bool{}
	var candidates []*model.Method
	for len(queue) > 0 {
		iface := queue[0]
		queue = queue[1:]
		if iface == nil || visited[iface] {
			continue
		}
		visited[iface] = true
		for _, m := range iface.Methods {
			if m.Name == name && m.Desc == desc &&
				m.AccessFlags&model.AccPrivate == 0 && m.AccessFlags&model.AccStatic == 0 {
				candidates = append(candidates, m)
			}
		}
		queue = append(queue, iface.Interfaces...)
	}

	if len(candidates) == 0 {
		return nil
	}

	var nonAbstract []*model.Method
	for _, m := range candidates {
		if m.AccessFlags&model.AccAbstract == 0 {
			nonAbstract = append(nonAbstract, m)
		}
	}
	if len(nonAbstract) > 0 {
		candidates = nonAbstract
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	// Maximally-specific rule: drop candidates whose owner is a
	// super-interface of another candidate's owner.
	survivors := make([]*model.Method, 0, len(candidates))
	for _, m := range candidates {
		dominated := false
		for _, other := range candidates {
			if other == m {
				continue
			}
			if isSuperInterfaceOf(m.Owner, other.Owner) {
				dominated = true
				break
			}
		}
		if !dominated {
			survivors = append(survivors, m)
		}
	}
	if len(survivors) == 1 {
		return survivors[0]
	}
	return nil
}

func isSuperInterfaceOf(candidate, of *model.Class) bool {
	if candidate == nil || of == nil || candidate == of {
		return false
	}
	for _, closure := range of.HierarchyClosure() {
		if closure == candidate {
			return true
		}
	}
	return false
}
