package builtin

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// DropDuplicates removes rows that repeat an earlier row's key.
//
// Keys names the columns forming the key; when empty, the whole row is the
// key (pandas drop_duplicates semantics). Policy selects the survivor:
//
//   - "keep-first": keep the earliest occurrence (default)
//   - "keep-last":  keep the latest occurrence
//
// Keys are hashed with xxh3; rows whose hashes collide are compared cell by
// cell, so a collision never drops a distinct row. Survivors keep their
// relative input order.
type DropDuplicates struct {
	Keys   []string
	Policy string
}

func (DropDuplicates) Name() string { return "drop_duplicates" }

func (d DropDuplicates) Apply(f *frame.Frame) (*frame.Frame, error) {
	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	switch policy {
	case "", "keep-first":
		policy = "keep-first"
	case "keep-last":
	default:
		return nil, fmt.Errorf("drop_duplicates: unknown policy %q", d.Policy)
	}

	cols := make([]int, 0, f.Width())
	if len(d.Keys) == 0 {
		for j := 0; j < f.Width(); j++ {
			cols = append(cols, j)
		}
	} else {
		for _, k := range d.Keys {
			j, ok := f.Index(k)
			if !ok {
				return nil, fmt.Errorf("drop_duplicates: key column %q not found", k)
			}
			cols = append(cols, j)
		}
	}

	// buckets maps a key hash to the indices of distinct keys seen with it;
	// winner[i] is the row that currently represents the key first seen at i.
	buckets := make(map[uint64][]int, f.Len())
	winner := make(map[int]int, f.Len())
	h := xxh3.New()
	for i := 0; i < f.Len(); i++ {
		sum := rowKey(h, f.Row(i), cols)
		rep := -1
		for _, cand := range buckets[sum] {
			if sameKey(f.Row(cand), f.Row(i), cols) {
				rep = cand
				break
			}
		}
		if rep < 0 {
			buckets[sum] = append(buckets[sum], i)
			winner[i] = i
			continue
		}
		if policy == "keep-last" {
			winner[rep] = i
		}
	}

	keep := make(map[int]struct{}, len(winner))
	for _, w := range winner {
		keep[w] = struct{}{}
	}
	return f.Filter(func(i int) bool {
		_, ok := keep[i]
		return ok
	}), nil
}

// rowKey hashes the selected cells. Each cell is prefixed with its type so
// the string "1" and the number 1 hash differently.
func rowKey(h *xxh3.Hasher, row []any, cols []int) uint64 {
	h.Reset()
	for _, j := range cols {
		v := row[j]
		_, _ = h.WriteString(fmt.Sprintf("%T", v))
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(frame.Format(v))
		_, _ = h.Write([]byte{0x1f})
	}
	return h.Sum64()
}

func sameKey(a, b []any, cols []int) bool {
	for _, j := range cols {
		if !reflect.DeepEqual(a[j], b[j]) {
			return false
		}
	}
	return true
}
