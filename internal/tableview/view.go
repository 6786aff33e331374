package tableview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Level string

const (
	LevelTrainingArea Level = "training_area"
	LevelModule       Level = "module"
	LevelCourse       Level = "course"
	LevelUnit         Level = "unit"
)

// ErrNotSortable is returned when sorting is requested on a column that does not allow it.
var ErrNotSortable = errors.New("column is not sortable")

// Row exposes the cells of one record by field name.
type Row map[string]interface{}

type Column struct {
	Header   string
	Field    string
	Sortable bool
}

// View is the static description of one list screen.
type View struct {
	Name         string
	Columns      []Column
	SearchFields []string
	// Hierarchy maps a filter level to the row field holding that level's id.
	Hierarchy map[Level]string
}

// Column finds a column by header or field name, case-insensitively.
func (v View) Column(name string) (Column, bool) {
	for _, c := range v.Columns {
		if strings.EqualFold(c.Header, name) || strings.EqualFold(c.Field, name) {
			return c, true
		}
	}
	return Column{}, false
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

type Sort struct {
	Field     string
	Direction Direction
}

// Toggle applies a header click: the same column flips direction, a new one
// starts ascending.
func (s *Sort) Toggle(v View, column string) error {
	col, ok := v.Column(column)
	if !ok || !col.Sortable {
		return fmt.Errorf("%w: %s", ErrNotSortable, column)
	}
	if s.Field == col.Field {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return nil
	}
	s.Field = col.Field
	s.Direction = Ascending
	return nil
}

// NewSort validates a requested sort against the view. An empty column yields no sort.
func NewSort(v View, column, direction string) (Sort, error) {
	if column == "" {
		return Sort{}, nil
	}
	col, ok := v.Column(column)
	if !ok || !col.Sortable {
		return Sort{}, fmt.Errorf("%w: %s", ErrNotSortable, column)
	}
	dir := Ascending
	if strings.EqualFold(direction, string(Descending)) {
		dir = Descending
	}
	return Sort{Field: col.Field, Direction: dir}, nil
}

type Query struct {
	Filter CascadeFilter
	Search string
	Sort   Sort
}

// Apply filters, searches and sorts rows. The input slice is not modified.
func (v View) Apply(rows []Row, q Query) []Row {
	levels := q.Filter.Levels()
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !v.matchesHierarchy(row, levels) {
			continue
		}
		if needle != "" && !v.matchesSearch(row, needle) {
			continue
		}
		out = append(out, row)
	}

	if q.Sort.Field != "" {
		desc := q.Sort.Direction == Descending
		sort.SliceStable(out, func(i, j int) bool {
			a := strings.ToLower(Stringify(out[i][q.Sort.Field]))
			b := strings.ToLower(Stringify(out[j][q.Sort.Field]))
			if desc {
				return a > b
			}
			return a < b
		})
	}
	return out
}

func (v View) matchesHierarchy(row Row, levels map[Level]uint) bool {
	for level, id := range levels {
		field, ok := v.Hierarchy[level]
		if !ok {
			continue
		}
		if Stringify(row[field]) != fmt.Sprint(id) {
			return false
		}
	}
	return true
}

func (v View) matchesSearch(row Row, needle string) bool {
	for _, field := range v.SearchFields {
		if strings.Contains(strings.ToLower(Stringify(row[field])), needle) {
			return true
		}
	}
	return false
}

// Stringify renders a cell the way it is compared and searched.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case *uint:
		if t == nil {
			return ""
		}
		return fmt.Sprint(*t)
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

const indexField = "__index"

// ApplyTo runs Apply over typed items, using cells to expose each item.
func ApplyTo[T any](v View, items []T, q Query, cells func(T) Row) []T {
	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = cells(it)
		rows[i][indexField] = i
	}
	filtered := v.Apply(rows, q)
	out := make([]T, 0, len(filtered))
	for _, r := range filtered {
		out = append(out, items[r[indexField].(int)])
	}
	return out
}
