package models

// ModelsToAutoMigrate returns every entity in migration order. Reference
// data comes first so foreign keys resolve.
func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&Role{},
		&Department{},
		&User{},
		&Document{},
		&DocumentVersion{},
		&DocumentUserPermission{},
		&DocumentDepartmentPermission{},
		&Tag{},
		&DocumentTag{},
	}
}
