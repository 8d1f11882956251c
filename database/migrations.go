package database

import (
	"fmt"

	"jotfox-notes/jotfox/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// schema lists the tables in creation order; notes reference users and
// categories.
var schema = []interface{}{
	&models.User{},
	&models.Category{},
	&models.Note{},
	&models.Event{},
}

func RunMigrations(db *gorm.DB) error {
	for _, table := range schema {
		if err := db.AutoMigrate(table); err != nil {
			log.Error().Err(err).Msgf("migrating %T", table)
			return fmt.Errorf("migrate %T: %w", table, err)
		}
	}
	log.Debug().Int("tables", len(schema)).Msg("schema up to date")
	return nil
}
