package store

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm/schema"
)

var schemaCache sync.Map

func parseSchema[T any](namer schema.Namer) *schema.Schema {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	s, err := schema.Parse(new(T), &schemaCache, namer)
	if err != nil {
		panic(fmt.Sprintf("store: parse schema for %T: %v", *new(T), err))
	}
	return s
}

// patchable rejects columns that are unknown or must never be patched.
func patchable(op string, s *schema.Schema, fields map[string]any) error {
	if len(fields) == 0 {
		return invalidf(op, "nothing to update")
	}
	for col := range fields {
		f := s.LookUpField(col)
		if f == nil || f.DBName != col {
			return invalidf(op, "unknown column %q", col)
		}
		if f.PrimaryKey || f.AutoCreateTime > 0 {
			return invalidf(op, "column %q cannot be updated", col)
		}
	}
	return nil
}

func withUpdatedAt(s *schema.Schema, fields map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	for _, f := range s.Fields {
		if f.AutoUpdateTime > 0 && f.DBName != "" {
			if _, ok := out[f.DBName]; !ok {
				out[f.DBName] = now
			}
		}
	}
	return out
}
