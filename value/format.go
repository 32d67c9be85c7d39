package value

import (
	"sort"
	"strconv"
	"strings"
)

// Format renders v for display. Aggregates already being printed further up
// are shown as <cycle>.
func Format(v Value) string {
	var sb strings.Builder
	f := formatter{sb: &sb, active: make(map[*Ref]bool)}
	f.value(v)
	return sb.String()
}

// FormatStack renders refs bottom to top, the way the session prints a fibre.
func FormatStack(refs []*Ref) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = Format(r.v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

type formatter struct {
	sb     *strings.Builder
	active map[*Ref]bool
}

func (f formatter) ref(r *Ref) {
	if f.active[r] {
		f.sb.WriteString("<cycle>")
		return
	}
	f.active[r] = true
	f.value(r.v)
	delete(f.active, r)
}

func (f formatter) value(v Value) {
	switch v := v.(type) {
	case Number:
		f.sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
	case String:
		f.sb.WriteString(strconv.Quote(string(v)))
	case List:
		f.sb.WriteByte('[')
		first := true
		v.Trace(func(r *Ref) {
			if !first {
				f.sb.WriteString(", ")
			}
			first = false
			f.ref(r)
		})
		f.sb.WriteByte(']')
	case Map:
		type entry struct {
			key string
			val *Ref
		}
		var entries []entry
		v.Each(func(k, val *Ref) bool {
			sub := formatter{sb: &strings.Builder{}, active: f.active}
			sub.ref(k)
			entries = append(entries, entry{key: sub.sb.String(), val: val})
			return true
		})
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		f.sb.WriteByte('{')
		for i, e := range entries {
			if i > 0 {
				f.sb.WriteString(", ")
			}
			f.sb.WriteString(e.key)
			f.sb.WriteString(": ")
			f.ref(e.val)
		}
		f.sb.WriteByte('}')
	default:
		f.sb.WriteString("<unknown>")
	}
}

// Walk visits every Ref reachable from root exactly once, following the
// edges exposed by Trace. visit returning false prunes that Ref's edges.
func Walk(root *Ref, visit func(*Ref) bool) {
	seen := make(map[*Ref]struct{})
	stack := []*Ref{root}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		if !visit(r) {
			continue
		}
		r.v.Trace(func(child *Ref) {
			if _, ok := seen[child]; !ok {
				stack = append(stack, child)
			}
		})
	}
}

// Reachable counts the distinct Refs reachable from root, root included.
func Reachable(root *Ref) int {
	n := 0
	Walk(root, func(*Ref) bool {
		n++
		return true
	})
	return n
}
