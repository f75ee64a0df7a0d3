package main

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/wippyai/gamewire/codec"
)

const (
	maxInline = 16 // numeric elements shown before eliding
	maxBytes  = 64
)

var unionType = reflect.TypeFor[codec.Union]()

// dump renders v as an indented field tree. Unions show only the variant
// that is set.
func dump(v any) string {
	var b strings.Builder
	writeNode(&b, reflect.ValueOf(v), 0)
	b.WriteByte('\n')
	return b.String()
}

func writeNode(b *strings.Builder, v reflect.Value, depth int) {
	if !v.IsValid() {
		b.WriteString("nil")
		return
	}
	if s, ok := v.Interface().(fmt.Stringer); ok && v.Kind() != reflect.Pointer {
		b.WriteString(s.String())
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		writeNode(b, v.Elem(), depth)

	case reflect.Struct:
		writeStruct(b, v, depth)

	case reflect.Slice, reflect.Array:
		writeList(b, v, depth)

	case reflect.Map:
		writeMap(b, v, depth)

	case reflect.String:
		b.WriteString(strconv.Quote(v.String()))

	default:
		fmt.Fprintf(b, "%v", v.Interface())
	}
}

func writeStruct(b *strings.Builder, v reflect.Value, depth int) {
	t := v.Type()
	if t.NumField() > 0 && t.Field(0).Type == unionType {
		for i := 1; i < t.NumField(); i++ {
			f := v.Field(i)
			if f.Kind() == reflect.Pointer && !f.IsNil() {
				writeLabeled(b, t.Field(i).Name, f, depth)
				return
			}
		}
		b.WriteString("<no variant>")
		return
	}

	fields := 0
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Tag.Get("mt") == "-" || isUnit(sf.Type) {
			continue
		}
		fields++
		newline(b, depth+1)
		writeLabeled(b, sf.Name, v.Field(i), depth+1)
	}
	if fields == 0 {
		b.WriteString("{}")
	}
}

// writeLabeled writes "label: value", or "label:" followed by the nested
// lines of a composite value.
func writeLabeled(b *strings.Builder, label string, v reflect.Value, depth int) {
	var child strings.Builder
	writeNode(&child, v, depth)
	b.WriteString(label)
	b.WriteByte(':')
	if !strings.HasPrefix(child.String(), "\n") {
		b.WriteByte(' ')
	}
	b.WriteString(child.String())
}

func isUnit(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}

func writeList(b *strings.Builder, v reflect.Value, depth int) {
	n := v.Len()
	elem := v.Type().Elem()

	if elem.Kind() == reflect.Uint8 {
		data := make([]byte, n)
		reflect.Copy(reflect.ValueOf(data), v)
		if n > maxBytes {
			fmt.Fprintf(b, "%x... (%d bytes)", data[:maxBytes], n)
		} else {
			fmt.Fprintf(b, "%x", data)
		}
		return
	}

	if isScalar(elem) {
		shown := min(n, maxInline)
		b.WriteByte('[')
		for i := 0; i < shown; i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeNode(b, v.Index(i), depth)
		}
		if n > shown {
			fmt.Fprintf(b, " ... %d more", n-shown)
		}
		b.WriteByte(']')
		return
	}

	if n == 0 {
		b.WriteString("[]")
		return
	}
	for i := 0; i < n; i++ {
		newline(b, depth+1)
		writeLabeled(b, "["+strconv.Itoa(i)+"]", v.Index(i), depth+1)
	}
}

func isScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Array:
		return isScalar(t.Elem()) && t.Len() <= 4
	}
	return false
}

func writeMap(b *strings.Builder, v reflect.Value, depth int) {
	if v.Len() == 0 {
		b.WriteString("{}")
		return
	}

	type kv struct {
		key string
		val reflect.Value
	}
	entries := make([]kv, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		var kb strings.Builder
		writeNode(&kb, iter.Key(), depth)
		entries = append(entries, kv{key: kb.String(), val: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b kv) int { return strings.Compare(a.key, b.key) })

	set := isUnit(v.Type().Elem())
	for _, e := range entries {
		newline(b, depth+1)
		if set {
			b.WriteString(e.key)
			continue
		}
		writeLabeled(b, e.key, e.val, depth+1)
	}
}

func newline(b *strings.Builder, depth int) {
	b.WriteByte('\n')
	for range depth {
		b.WriteString("  ")
	}
}
