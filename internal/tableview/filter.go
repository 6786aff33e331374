// Package tableview implements the search, sort and cascading hierarchy
// filters of the back-office list screens.
package tableview

// CascadeFilter holds the hierarchy selection of a list screen. Selecting a
// level clears every level below it.
type CascadeFilter struct {
	TrainingAreaID *uint
	ModuleID       *uint
	CourseID       *uint
	UnitID         *uint
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SelectTrainingArea sets the training area. A different value resets the module, course and unit.
func (f *CascadeFilter) SelectTrainingArea(id *uint) {
	if sameID(f.TrainingAreaID, id) {
		return
	}
	f.TrainingAreaID = id
	f.ModuleID, f.CourseID, f.UnitID = nil, nil, nil
}

func (f *CascadeFilter) SelectModule(id *uint) {
	if sameID(f.ModuleID, id) {
		return
	}
	f.ModuleID = id
	f.CourseID, f.UnitID = nil, nil
}

func (f *CascadeFilter) SelectCourse(id *uint) {
	if sameID(f.CourseID, id) {
		return
	}
	f.CourseID = id
	f.UnitID = nil
}

func (f *CascadeFilter) SelectUnit(id *uint) {
	f.UnitID = id
}

// Levels returns the selected ids keyed by hierarchy level.
func (f CascadeFilter) Levels() map[Level]uint {
	out := make(map[Level]uint, 4)
	for level, id := range map[Level]*uint{
		LevelTrainingArea: f.TrainingAreaID,
		LevelModule:       f.ModuleID,
		LevelCourse:       f.CourseID,
		LevelUnit:         f.UnitID,
	} {
		if id != nil {
			out[level] = *id
		}
	}
	return out
}
