package match

import "github.com/ruinedyourlife/matchengine/internal/model"

// ids assigns stable uint32 identifiers to classes/methods/fields so
// unmatched-symbol membership can be tracked with a roaring bitmap
// instead of a linear rescan of the class group on every pass.
type ids struct {
	classes   map[*model.Class]uint32
	classByID map[uint32]*model.Class
	methods   map[*model.Method]uint32
	methodByID map[uint32]*model.Method
	fields    map[*model.Field]uint32
	fieldByID map[uint32]*model.Field
	next      uint32
}

func newIDs() *ids {
	return &ids{
		classes:    map[*model.Class]uint32{},
		classByID:  map[uint32]*model.Class{},
		methods:    map[*model.Method]uint32{},
		methodByID: map[uint32]*model.Method{},
		fields:     map[*model.Field]uint32{},
		fieldByID:  map[uint32]*model.Field{},
	}
}

func (ix *ids) classID(c *model.Class) uint32 {
	if id, ok := ix.classes[c]; ok {
		return id
	}
	id := ix.next
	ix.next++
	ix.classes[c] = id
	ix.classByID[id] = c
	return id
}

func (ix *ids) methodID(m *model.Method) uint32 {
	if id, ok := ix.methods[m]; ok {
		return id
	}
	id := ix.next
	ix.next++
	ix.methods[m] = id
	ix.methodByID[id] = m
	return id
}

func (ix *ids) fieldID(f *model.Field) uint32 {
	if id, ok := ix.fields[f]; ok {
		return id
	}
	id := ix.next
	ix.next++
	ix.fields[f] = id
	ix.fieldByID[id] = f
	return id
}
