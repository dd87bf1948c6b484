// Package demo seeds a database with sample data for trying the app
// out. It is reachable only through the -seed-demo flag and must never
// run against a real database: the history it fabricates is random,
// not derived from anything.
package demo

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Jk-Krishna/cronos-app/internal/models"
	"github.com/Jk-Krishna/cronos-app/internal/schedule"
	"github.com/Jk-Krishna/cronos-app/internal/store"
)

// Seed populates the store with an admin (admin/admin), a registry of
// default tasks, a demo group with two profiles and a fabricated week
// of history per profile.
func Seed(s *store.Store) error {
	if _, err := s.AddAdmin("admin", "admin"); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	registry := []struct{ title, time string }{
		{"Morning Medication", "08:00"},
		{"Drink Water", "11:00"},
		{"Lunch Walk", "13:00"},
		{"Evening Report", "17:00"},
	}
	for _, def := range registry {
		if _, err := s.AddDefinition(def.title, def.time); err != nil {
			return fmt.Errorf("seed registry: %w", err)
		}
	}

	g, err := s.CreateGroup("demo", "1234", "Alice Freeman")
	if err != nil {
		return fmt.Errorf("seed group: %w", err)
	}
	bob, err := s.AddProfile(g.ID, "Bob Smith")
	if err != nil {
		return fmt.Errorf("seed profile: %w", err)
	}

	for _, p := range []string{g.Profiles[0].ID, bob.ID} {
		if err := fabricateHistory(s, p, 7); err != nil {
			return fmt.Errorf("seed history: %w", err)
		}
	}
	return nil
}

// fabricateHistory writes randomly-statused instances for the past
// days so the analytics charts have something to draw
func fabricateHistory(s *store.Store, profileID string, days int) error {
	for i := days; i > 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format(schedule.DateFormat)
		total := 5
		completed := rand.Intn(total + 1)

		for j := 0; j < total; j++ {
			status := models.StatusMissed
			if j < completed {
				status = models.StatusCompleted
			}
			clock := schedule.FormatClock(8+2*j, 0)
			if _, err := s.Exec(`
				INSERT INTO task_instances (id, profile_id, title, description, time, date, status, is_default)
				VALUES (?, ?, ?, 'Default Task', ?, ?, ?, 1)
			`, uuid.NewString(), profileID, fmt.Sprintf("Routine %d", j+1), clock, date, status); err != nil {
				return err
			}
		}
	}
	return nil
}
