package database

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/taskboard-api/internal/models"
	"gorm.io/gorm"
)

type index struct {
	model   interface{}
	table   string
	name    string
	columns []string
}

var indexes = []index{
	// Owner lookups and newest-first listing
	{&models.Project{}, "projects", "idx_projects_user_id", []string{"user_id"}},
	{&models.Project{}, "projects", "idx_projects_created_at", []string{"created_at"}},

	// Cascade delete and per-project listing
	{&models.Task{}, "tasks", "idx_tasks_project_id", []string{"project_id"}},
	{&models.Task{}, "tasks", "idx_tasks_created_at", []string{"created_at"}},
}

// AddIndexes creates the lookup indexes that do not exist yet.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug().Str("index", idx.name).Msg("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Msg("Created index")
	}

	return nil
}
