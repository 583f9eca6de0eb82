package seeds

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ministryhub_backend/internals/seeds/calendar"
)

const DefaultCalendarFixture = "internals/seeds/calendar/data_calendar.yaml"

// RunAllSeeds loads every fixture file in order and stops at the first
// failure.
func RunAllSeeds(db *gorm.DB, log *zap.Logger, files ...string) error {
	if len(files) == 0 {
		files = []string{DefaultCalendarFixture}
	}
	for _, f := range files {
		if _, err := calendar.SeedCalendarFromYAML(db, f, log); err != nil {
			return err
		}
	}
	return nil
}
