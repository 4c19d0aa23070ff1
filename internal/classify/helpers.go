package classify

import "github.com/ruinedyourlife/matchengine/internal/model"

func classNameOf(c *model.Class) string { return c.Name }
func classMatchOf(c *model.Class) *model.Class {
	if c == nil {
		return nil
	}
	return c.Match
}

func fieldName(f *model.Field) string { return f.Name }
func fieldMatch(f *model.Field) *model.Field {
	if f == nil {
		return nil
	}
	return f.Match
}
