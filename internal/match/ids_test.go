package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruinedyourlife/matchengine/internal/model"
)

func TestIDsLazilyAssignedAndStable(t *testing.T) {
	ix := newIDs()
	c1 := model.NewClass("aa", 0, true)
	c2 := model.NewClass("bb", 0, true)

	id1 := ix.classID(c1)
	id2 := ix.classID(c2)
	require.NotEqual(t, id1, id2)
	require.Equal(t, id1, ix.classID(c1), "repeated lookup must return the same id")
	require.Same(t, c1, ix.classByID[id1])
}

func TestIDsShareOneCounterAcrossKinds(t *testing.T) {
	ix := newIDs()
	c := model.NewClass("aa", 0, true)
	m := model.NewMethod(c, "run", "()V", 0)
	f := model.NewField(c, "x", "I", 0)

	cid := ix.classID(c)
	mid := ix.methodID(m)
	fid := ix.fieldID(f)
	require.NotEqual(t, cid, mid)
	require.NotEqual(t, mid, fid)
	require.NotEqual(t, cid, fid)
}
