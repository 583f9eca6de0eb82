package calendar

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ministryhub_backend/internals/features/calendar/meetings/model"
	"ministryhub_backend/internals/helpers/dbtime"
)

type Fixture struct {
	ChurchID    string        `yaml:"church_id"`
	Members     []NamedSeed   `yaml:"members"`
	Instruments []NamedSeed   `yaml:"instruments"`
	Playlists   []NamedSeed   `yaml:"playlists"`
	Meetings    []MeetingSeed `yaml:"meetings"`
}

type NamedSeed struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Email *string `yaml:"email"`
}

type MeetingSeed struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description *string       `yaml:"description"`
	MeetingType string        `yaml:"meeting_type"`
	Location    *string       `yaml:"location"`
	Patterns    []PatternSeed `yaml:"patterns"`
}

type PatternSeed struct {
	ID          string `yaml:"id"`
	DayOfWeek   int    `yaml:"day_of_week"`
	StartTime   string `yaml:"start_time"`
	EndTime     string `yaml:"end_time"`
	Timezone    string `yaml:"timezone"`
	RepeatUntil string `yaml:"repeat_until"`
}

type Summary struct {
	Members     int64
	Instruments int64
	Playlists   int64
	Meetings    int64
	Patterns    int64
}

func LoadFixture(path string) (*Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return &f, nil
}

// parseID falls back to a name-based id under ns so reruns hit the same key.
func parseID(field, s string, ns uuid.UUID, key string) (uuid.UUID, error) {
	if s == "" {
		return uuid.NewSHA1(ns, []byte(field+"|"+key)), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", field, s, err)
	}
	return id, nil
}

// insertNew inserts row unless its primary key already exists and reports
// whether a row was written.
func insertNew(tx *gorm.DB, row any) (int64, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	return res.RowsAffected, res.Error
}

// SeedCalendarFromYAML loads one church's directory, meetings and patterns.
// Rows whose id already exists are skipped, so the seed can be rerun.
func SeedCalendarFromYAML(db *gorm.DB, path string, log *zap.Logger) (Summary, error) {
	var sum Summary

	f, err := LoadFixture(path)
	if err != nil {
		return sum, err
	}
	churchID, err := uuid.Parse(f.ChurchID)
	if err != nil {
		return sum, fmt.Errorf("church_id %q: %w", f.ChurchID, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, s := range f.Members {
			id, err := parseID("member id", s.ID, churchID, s.Name)
			if err != nil {
				return err
			}
			n, err := insertNew(tx, &model.MemberModel{ID: id, ChurchID: churchID, Name: s.Name, Email: s.Email})
			if err != nil {
				return fmt.Errorf("member %s: %w", s.Name, err)
			}
			sum.Members += n
		}
		for _, s := range f.Instruments {
			id, err := parseID("instrument id", s.ID, churchID, s.Name)
			if err != nil {
				return err
			}
			n, err := insertNew(tx, &model.InstrumentModel{ID: id, ChurchID: churchID, Name: s.Name})
			if err != nil {
				return fmt.Errorf("instrument %s: %w", s.Name, err)
			}
			sum.Instruments += n
		}
		for _, s := range f.Playlists {
			id, err := parseID("playlist id", s.ID, churchID, s.Name)
			if err != nil {
				return err
			}
			n, err := insertNew(tx, &model.PlaylistModel{ID: id, ChurchID: churchID, Name: s.Name})
			if err != nil {
				return fmt.Errorf("playlist %s: %w", s.Name, err)
			}
			sum.Playlists += n
		}

		for _, ms := range f.Meetings {
			meetingID, err := parseID("meeting id", ms.ID, churchID, ms.Title)
			if err != nil {
				return err
			}
			n, err := insertNew(tx, &model.MeetingModel{
				ID:          meetingID,
				ChurchID:    churchID,
				Title:       ms.Title,
				Description: ms.Description,
				MeetingType: ms.MeetingType,
				Location:    ms.Location,
			})
			if err != nil {
				return fmt.Errorf("meeting %s: %w", ms.Title, err)
			}
			sum.Meetings += n

			for _, ps := range ms.Patterns {
				p, err := buildPattern(meetingID, ps)
				if err != nil {
					return fmt.Errorf("meeting %s: %w", ms.Title, err)
				}
				n, err := insertNew(tx, p)
				if err != nil {
					return fmt.Errorf("pattern of %s: %w", ms.Title, err)
				}
				sum.Patterns += n
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	log.Info("calendar fixture seeded",
		zap.String("file", path),
		zap.Int64("members", sum.Members),
		zap.Int64("instruments", sum.Instruments),
		zap.Int64("playlists", sum.Playlists),
		zap.Int64("meetings", sum.Meetings),
		zap.Int64("patterns", sum.Patterns),
	)
	return sum, nil
}

func buildPattern(meetingID uuid.UUID, ps PatternSeed) (*model.RecurrencePatternModel, error) {
	key := fmt.Sprintf("%d|%s|%s|%s", ps.DayOfWeek, ps.StartTime, ps.EndTime, ps.Timezone)
	id, err := parseID("pattern id", ps.ID, meetingID, key)
	if err != nil {
		return nil, err
	}
	if ps.DayOfWeek < 0 || ps.DayOfWeek > 6 {
		return nil, fmt.Errorf("day_of_week %d out of range", ps.DayOfWeek)
	}
	start, err := dbtime.ParseTod(ps.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := dbtime.ParseTod(ps.EndTime)
	if err != nil {
		return nil, err
	}
	p := &model.RecurrencePatternModel{
		ID:        id,
		MeetingID: meetingID,
		DayOfWeek: ps.DayOfWeek,
		StartTime: start,
		EndTime:   end,
		Timezone:  ps.Timezone,
		Active:    true,
	}
	if ps.RepeatUntil != "" {
		d, err := dbtime.ParseDate(ps.RepeatUntil)
		if err != nil {
			return nil, err
		}
		p.RepeatUntil = &d
	}
	return p, nil
}
