package codec

import (
	"reflect"
	"sort"
	"strings"
	"sync"
)

type field struct {
	name      string
	index     []int
	omitEmpty bool
}

var fieldCache sync.Map

// fieldsOf lists the encodable fields of a struct type. Exported embedded
// structs without a json name are flattened; a shallower field shadows a
// deeper one with the same name, and same-depth collisions are dropped.
func fieldsOf(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}

	type queued struct {
		typ   reflect.Type
		index []int
	}

	var fields []field
	seen := make(map[string]bool)
	visited := make(map[reflect.Type]bool)
	current := []queued{{typ: t}}

	for len(current) > 0 {
		var next []queued
		count := make(map[string]int)
		var level []field

		for _, q := range current {
			if visited[q.typ] {
				continue
			}
			visited[q.typ] = true

			for i := 0; i < q.typ.NumField(); i++ {
				sf := q.typ.Field(i)
				if !sf.IsExported() {
					continue
				}

				tag := sf.Tag.Get("json")
				if tag == "-" {
					continue
				}

				name, opts, _ := strings.Cut(tag, ",")
				index := append(append([]int(nil), q.index...), i)

				if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
					next = append(next, queued{typ: sf.Type, index: index})
					continue
				}

				if name == "" {
					name = sf.Name
				}

				count[name]++
				level = append(level, field{
					name:      name,
					index:     index,
					omitEmpty: strings.Contains(opts, "omitempty"),
				})
			}
		}

		for _, f := range level {
			if seen[f.name] || count[f.name] > 1 {
				continue
			}
			fields = append(fields, f)
		}

		for name := range count {
			seen[name] = true
		}

		current = next
	}

	sort.Slice(fields, func(i, j int) bool {
		a, b := fields[i].index, fields[j].index
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})

	fieldCache.Store(t, fields)
	return fields
}
