package endpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/tchap/go-patricia/v2/patricia"
	"gopkg.in/yaml.v3"
)

// Record is one candidate served by the endpoint.
type Record map[string]any

// LoadRecords reads candidates from a JSON or YAML file. The file holds a
// list whose entries are either objects or bare strings; a bare string
// becomes a record with field set to it.
func LoadRecords(path string, field string) ([]Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file %s: %w", path, err)
	}

	var raw []any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(content, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &raw)
	default:
		return nil, fmt.Errorf("unsupported candidates file format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse candidates file %s: %w", path, err)
	}

	return toRecords(raw, field)
}

func toRecords(raw []any, field string) ([]Record, error) {
	records := make([]Record, 0, len(raw))
	for i, entry := range raw {
		switch v := entry.(type) {
		case string:
			records = append(records, Record{field: v})
		case map[string]any:
			records = append(records, Record(v))
		default:
			return nil, fmt.Errorf("candidate %d: expected an object or a string, got %T", i, entry)
		}
	}
	return records, nil
}

// Index answers prefix queries over a fixed set of records. Keys are the
// lowercased field values; records without a string field are not indexed.
type Index struct {
	records []Record
	trie    *patricia.Trie
}

func NewIndex(records []Record, field string) *Index {
	trie := patricia.NewTrie()
	for i, record := range records {
		value, ok := record[field].(string)
		if !ok {
			continue
		}
		key := patricia.Prefix(strings.ToLower(value))
		positions, _ := trie.Get(key).([]int)
		trie.Set(key, append(positions, i))
	}

	return &Index{records: records, trie: trie}
}

func (idx *Index) Len() int {
	return len(idx.records)
}

// Search returns up to limit records whose field starts with query,
// ignoring case, ordered by field value. A limit of zero or less means no
// limit.
func (idx *Index) Search(query string, limit int) []Record {
	prefix := patricia.Prefix(strings.ToLower(strings.TrimSpace(query)))

	type match struct {
		key       string
		positions []int
	}
	var matches []match

	_ = idx.trie.VisitSubtree(prefix, func(key patricia.Prefix, item patricia.Item) error {
		positions, _ := item.([]int)
		matches = append(matches, match{key: string(key), positions: positions})
		return nil
	})

	slices.SortFunc(matches, func(a, b match) int {
		return strings.Compare(a.key, b.key)
	})

	positions := lo.FlatMap(matches, func(m match, _ int) []int {
		return m.positions
	})
	if limit > 0 && len(positions) > limit {
		positions = positions[:limit]
	}

	return lo.Map(positions, func(position int, _ int) Record {
		return idx.records[position]
	})
}
