package models

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Customer{},
		&User{},
		&Team{},
		&TeamMember{},
		&Project{},
		&ProjectMetric{},
		&Category{},
		&Task{},
		&Subtask{},
		&Dependency{},
		&TimeEntry{},
	}
}
