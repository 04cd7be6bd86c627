// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/apex/log"
)

// Tag is an attribute discovered from a struct's json tags when emitting
// schema information (--schema flag).
type Tag struct {
	Name string
	Type string
}

// NewTag builds a Tag from a raw json tag value. holder is the path of the
// enclosing attribute, if any. Skipped fields ("-") yield the zero Tag.
func NewTag(holder string, tagValue string, typ reflect.Type) Tag {
	name, _, _ := strings.Cut(tagValue, ",")
	if name == "" || name == "-" {
		return Tag{}
	}
	if holder != "" {
		name = holder + "." + name
	}
	return Tag{Name: name, Type: typeName(typ)}
}

func typeName(typ reflect.Type) string {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "object"
	case reflect.Struct:
		if typ.Name() == "Timestamp" || typ.Name() == "Time" {
			return "time"
		}
		return "object"
	}
	return typ.Kind().String()
}

const maxSchemaDepth = 1

// DumpSchemaWalker recursively walks a struct type collecting json tags.
func DumpSchemaWalker(holder string, typ reflect.Type, depth int) []Tag {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	tags := make([]Tag, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		tagValue, ok := field.Tag.Lookup("json")
		if !ok {
			continue
		}

		tag := NewTag(holder, tagValue, field.Type)
		if tag.Name == "" {
			continue
		}
		tags = append(tags, tag)

		if depth < maxSchemaDepth && tag.Type == "object" {
			tags = append(tags, DumpSchemaWalker(tag.Name, field.Type, depth+1)...)
		}
	}

	return tags
}

// DumpSchema prints the sorted attribute paths of typ, which --attrs,
// --filter and --sort accept.
func DumpSchema(w io.Writer, typ reflect.Type) {
	tags := DumpSchemaWalker("", typ, 0)
	if len(tags) == 0 {
		log.Debugf("No tags found for type: %s", typ.Name())
		return
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	width := 0
	for _, tag := range tags {
		width = max(width, len(tag.Name))
	}

	fmt.Fprintln(w, "Schema for", typ.Name(), "--")
	for _, tag := range tags {
		fmt.Fprintf(w, "%-*s  %s\n", width, tag.Name, tag.Type)
	}
}
