package match

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/ruinedyourlife/matchengine/internal/model"
)

// unmatchedSets tracks, per class group, the ids of real classes/methods/
// fields still without a match, as roaring bitmaps. Rebuilding these by
// rescanning every class on every pass would be wasteful once a group
// has thousands of members; instead each commit removes exactly the ids
// that just matched.
type unmatchedSets struct {
	ix *ids

	classes map[*model.ClassGroup]*roaring.Bitmap
	methods map[*model.ClassGroup]*roaring.Bitmap
	fields  map[*model.ClassGroup]*roaring.Bitmap
}

func newUnmatchedSets(ix *ids, groups ...*model.ClassGroup) *unmatchedSets {
	u := &unmatchedSets{
		ix:      ix,
		classes: map[*model.ClassGroup]*roaring.Bitmap{},
		methods: map[*model.ClassGroup]*roaring.Bitmap{},
		fields:  map[*model.ClassGroup]*roaring.Bitmap{},
	}
	for _, g := range groups {
		cb := roaring.New()
		mb := roaring.New()
		fb := roaring.New()
		for _, c := range g.Real() {
			if !c.IsMatched() {
				cb.Add(ix.classID(c))
			}
			for _, m := range c.Methods {
				if !m.IsMatched() {
					mb.Add(ix.methodID(m))
				}
			}
			for _, f := range c.Fields {
				if !f.IsMatched() {
					fb.Add(ix.fieldID(f))
				}
			}
		}
		u.classes[g] = cb
		u.methods[g] = mb
		u.fields[g] = fb
	}
	return u
}

func (u *unmatchedSets) classesOf(g *model.ClassGroup) []*model.Class {
	out := make([]*model.Class, 0, u.classes[g].GetCardinality())
	it := u.classes[g].Iterator()
	for it.HasNext() {
		out = append(out, u.ix.classByID[it.Next()])
	}
	return out
}

func (u *unmatchedSets) methodsOf(g *model.ClassGroup, staticOnly bool) []*model.Method {
	bm := u.methods[g]
	out := make([]*model.Method, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		m := u.ix.methodByID[it.Next()]
		if m.IsStatic() == staticOnly {
			out = append(out, m)
		}
	}
	return out
}

func (u *unmatchedSets) fieldsOf(g *model.ClassGroup, staticOnly bool) []*model.Field {
	bm := u.fields[g]
	out := make([]*model.Field, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		f := u.ix.fieldByID[it.Next()]
		if f.IsStatic() == staticOnly {
			out = append(out, f)
		}
	}
	return out
}

func (u *unmatchedSets) markClassMatched(g *model.ClassGroup, c *model.Class) {
	if bm, ok := u.classes[g]; ok {
		bm.Remove(u.ix.classID(c))
	}
}

func (u *unmatchedSets) markMethodMatched(g *model.ClassGroup, m *model.Method) {
	if bm, ok := u.methods[g]; ok {
		bm.Remove(u.ix.methodID(m))
	}
}

func (u *unmatchedSets) markFieldMatched(g *model.ClassGroup, f *model.Field) {
	if bm, ok := u.fields[g]; ok {
		bm.Remove(u.ix.fieldID(f))
	}
}
