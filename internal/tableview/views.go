package tableview

// Views of the back-office list screens. Only the columns marked Sortable
// accept a sort request.
var (
	TrainingAreas = View{
		Name: "training_areas",
		Columns: []Column{
			{Header: "Name", Field: "name", Sortable: true},
			{Header: "Description", Field: "description"},
			{Header: "Created", Field: "created_at"},
		},
		SearchFields: []string{"name", "description"},
		Hierarchy:    map[Level]string{LevelTrainingArea: "id"},
	}

	Modules = View{
		Name: "modules",
		Columns: []Column{
			{Header: "Name", Field: "name", Sortable: true},
			{Header: "Training Area", Field: "training_area_id"},
			{Header: "Description", Field: "description"},
		},
		SearchFields: []string{"name", "description"},
		Hierarchy:    map[Level]string{LevelTrainingArea: "training_area_id", LevelModule: "id"},
	}

	Courses = View{
		Name: "courses",
		Columns: []Column{
			{Header: "Name", Field: "name", Sortable: true},
			{Header: "Module", Field: "module_id"},
			{Header: "Level", Field: "level"},
			{Header: "Duration", Field: "duration"},
		},
		SearchFields: []string{"name", "description", "level"},
		Hierarchy:    map[Level]string{LevelModule: "module_id", LevelCourse: "id"},
	}

	Units = View{
		Name: "units",
		Columns: []Column{
			{Header: "Name", Field: "name", Sortable: true},
			{Header: "Duration", Field: "duration"},
			{Header: "XP", Field: "xp_points"},
		},
		SearchFields: []string{"name", "description"},
		// A unit can sit in several courses, so the training area, module and
		// course levels are applied when loading the rows (repository.UnitFilter).
		Hierarchy: map[Level]string{LevelUnit: "id"},
	}

	Assessments = View{
		Name: "assessments",
		Columns: []Column{
			{Header: "Title", Field: "title", Sortable: true},
			{Header: "Owner", Field: "owner_type", Sortable: true},
			{Header: "Passing Score", Field: "passing_score"},
		},
		SearchFields: []string{"title", "description"},
	}

	Users = View{
		Name: "users",
		Columns: []Column{
			{Header: "Name", Field: "name", Sortable: true},
			{Header: "Email", Field: "email", Sortable: true},
			{Header: "Type", Field: "user_type"},
			{Header: "XP", Field: "xp"},
		},
		SearchFields: []string{"name", "email"},
	}
)
