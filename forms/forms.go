// Package forms rebuilds array-shaped fields that arrive flattened by
// multipart or urlencoded encoding, e.g. roomTypes[0][name]=Twin.
package forms

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	indexedFieldRe = regexp.MustCompile(`^(.+)\[(\d+)\]\[([^\[\]]+)\]$`)
	indexedItemRe  = regexp.MustCompile(`^(.+)\[(\d+)\]$`)
)

// Indexed groups keys shaped like prefix[<index>][<field>] by index and
// returns one field map per index in ascending order. Keys that do not
// match the pattern, or carry an empty field name, are ignored. When a key
// repeats, its first value wins.
func Indexed(prefix string, values map[string][]string) []map[string]string {
	groups := make(map[int]map[string]string)

	for key, vals := range values {
		m := indexedFieldRe.FindStringSubmatch(key)
		if m == nil || m[1] != prefix || len(vals) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		field := strings.TrimSpace(m[3])
		if field == "" {
			continue
		}
		if groups[idx] == nil {
			groups[idx] = make(map[string]string)
		}
		groups[idx][field] = vals[0]
	}

	indexes := make([]int, 0, len(groups))
	for idx := range groups {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	out := make([]map[string]string, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, groups[idx])
	}
	return out
}

// HasIndexed reports whether any key uses the prefix[<index>][<field>] form.
func HasIndexed(prefix string, values map[string][]string) bool {
	for key := range values {
		if m := indexedFieldRe.FindStringSubmatch(key); m != nil && m[1] == prefix {
			return true
		}
	}
	return false
}

// List collects a flat list supplied as repeated prefix / prefix[] keys or
// as prefix[<index>] keys (ordered by index). ok is false when none of
// those keys is present.
func List(prefix string, values map[string][]string) (items []string, ok bool) {
	if vals, found := values[prefix]; found {
		items = append(items, vals...)
		ok = true
	}
	if vals, found := values[prefix+"[]"]; found {
		items = append(items, vals...)
		ok = true
	}

	indexed := make(map[int][]string)
	for key, vals := range values {
		m := indexedItemRe.FindStringSubmatch(key)
		if m == nil || m[1] != prefix {
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		indexed[idx] = vals
	}
	if len(indexed) > 0 {
		ok = true
		indexes := make([]int, 0, len(indexed))
		for idx := range indexed {
			indexes = append(indexes, idx)
		}
		sort.Ints(indexes)
		for _, idx := range indexes {
			items = append(items, indexed[idx]...)
		}
	}

	if items == nil && ok {
		items = []string{}
	}
	return items, ok
}
