package tableview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uptr(v uint) *uint { return &v }

func TestCascadeFilterResetsLowerLevels(t *testing.T) {
	var f CascadeFilter
	f.SelectTrainingArea(uptr(1))
	f.SelectModule(uptr(10))
	f.SelectCourse(uptr(100))
	f.SelectUnit(uptr(1000))

	f.SelectTrainingArea(uptr(2))

	require.NotNil(t, f.TrainingAreaID)
	assert.Equal(t, uint(2), *f.TrainingAreaID)
	assert.Nil(t, f.ModuleID)
	assert.Nil(t, f.CourseID)
	assert.Nil(t, f.UnitID)
}

func TestCascadeFilterModuleChangeKeepsArea(t *testing.T) {
	var f CascadeFilter
	f.SelectTrainingArea(uptr(1))
	f.SelectModule(uptr(10))
	f.SelectCourse(uptr(100))

	f.SelectModule(uptr(11))

	assert.Equal(t, uint(1), *f.TrainingAreaID)
	assert.Equal(t, uint(11), *f.ModuleID)
	assert.Nil(t, f.CourseID)
}

func TestCascadeFilterSameSelectionKeepsChildren(t *testing.T) {
	var f CascadeFilter
	f.SelectTrainingArea(uptr(1))
	f.SelectModule(uptr(10))

	f.SelectTrainingArea(uptr(1))

	require.NotNil(t, f.ModuleID)
	assert.Equal(t, uint(10), *f.ModuleID)
}

func TestSortToggle(t *testing.T) {
	var s Sort
	require.NoError(t, s.Toggle(Users, "Name"))
	assert.Equal(t, Sort{Field: "name", Direction: Ascending}, s)

	require.NoError(t, s.Toggle(Users, "name"))
	assert.Equal(t, Descending, s.Direction)

	require.NoError(t, s.Toggle(Users, "Email"))
	assert.Equal(t, Sort{Field: "email", Direction: Ascending}, s)

	err := s.Toggle(Users, "XP")
	assert.ErrorIs(t, err, ErrNotSortable)
	assert.Equal(t, "email", s.Field)
}

func TestNewSortRejectsUnknownColumns(t *testing.T) {
	_, err := NewSort(Courses, "duration", "asc")
	assert.ErrorIs(t, err, ErrNotSortable)

	_, err = NewSort(Courses, "nope", "")
	assert.ErrorIs(t, err, ErrNotSortable)

	s, err := NewSort(Courses, "", "")
	require.NoError(t, err)
	assert.Empty(t, s.Field)
}

func TestApplySearchAndSortAreCaseInsensitive(t *testing.T) {
	rows := []Row{
		{"id": uint(1), "name": "banana", "description": ""},
		{"id": uint(2), "name": "Apple", "description": "fruit"},
		{"id": uint(3), "name": "cherry", "description": "red FRUIT"},
	}

	got := TrainingAreas.Apply(rows, Query{Sort: Sort{Field: "name", Direction: Ascending}})
	require.Len(t, got, 3)
	assert.Equal(t, "Apple", got[0]["name"])
	assert.Equal(t, "banana", got[1]["name"])
	assert.Equal(t, "cherry", got[2]["name"])

	got = TrainingAreas.Apply(rows, Query{Search: "Fruit", Sort: Sort{Field: "name", Direction: Descending}})
	require.Len(t, got, 2)
	assert.Equal(t, "cherry", got[0]["name"])
	assert.Equal(t, "Apple", got[1]["name"])
}

func TestApplyHierarchyFilter(t *testing.T) {
	rows := []Row{
		{"id": uint(1), "name": "m1", "training_area_id": uint(7)},
		{"id": uint(2), "name": "m2", "training_area_id": uint(8)},
	}
	var f CascadeFilter
	f.SelectTrainingArea(uptr(8))

	got := Modules.Apply(rows, Query{Filter: f})
	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0]["name"])
}

func TestApplyToKeepsTypes(t *testing.T) {
	type item struct{ Name string }
	items := []item{{"b"}, {"A"}, {"c"}}

	got := ApplyTo(Users, items, Query{Sort: Sort{Field: "name", Direction: Ascending}}, func(it item) Row {
		return Row{"name": it.Name}
	})
	assert.Equal(t, []item{{"A"}, {"b"}, {"c"}}, got)
}

func TestStringify(t *testing.T) {
	var nilPtr *uint
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "", Stringify(nilPtr))
	assert.Equal(t, "5", Stringify(uptr(5)))
	assert.Equal(t, "42", Stringify(42))
}
