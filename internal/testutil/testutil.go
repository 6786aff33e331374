// Package testutil opens throwaway SQLite databases and seeds academy fixtures.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/config"
	"github.com/vxacademy/academy/database"
	"github.com/vxacademy/academy/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Uint64

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Config is a configuration suitable for service tests.
func Config() *config.Config {
	cfg := &config.Config{}
	cfg.App.BcryptCost = 4
	cfg.Certificate.ValidityDays = 365
	cfg.Certificate.ExpiryCron = "0 2 * * *"
	return cfg
}

// Hierarchy is one training area with one module holding one course.
type Hierarchy struct {
	Area        model.TrainingArea
	Module      model.Module
	Course      model.Course
	Units       []model.Unit
	CourseUnits []model.CourseUnit
}

// SeedHierarchy creates a training area, module and course and places units
// into the course, one per xp value, in order.
func SeedHierarchy(t *testing.T, db *gorm.DB, unitXP ...int) Hierarchy {
	t.Helper()
	var h Hierarchy
	h.Area = model.TrainingArea{Name: "Safety"}
	require.NoError(t, db.Create(&h.Area).Error)
	h.Module = model.Module{TrainingAreaID: h.Area.ID, Name: "Site basics"}
	require.NoError(t, db.Create(&h.Module).Error)
	h.Course = SeedCourse(t, db, h.Module.ID, "Induction")

	for i, xp := range unitXP {
		u := model.Unit{Name: fmt.Sprintf("Unit %d", i+1), XPPoints: xp}
		require.NoError(t, db.Create(&u).Error)
		cu := model.CourseUnit{CourseID: h.Course.ID, UnitID: u.ID, Order: i + 1}
		require.NoError(t, db.Create(&cu).Error)
		h.Units = append(h.Units, u)
		h.CourseUnits = append(h.CourseUnits, cu)
	}
	return h
}

func SeedCourse(t *testing.T, db *gorm.DB, moduleID uint, name string) model.Course {
	t.Helper()
	c := model.Course{ModuleID: moduleID, Name: name, Level: model.LevelBeginner}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// SeedLearner creates a learner account with a unique email.
func SeedLearner(t *testing.T, db *gorm.DB, name string) model.User {
	t.Helper()
	u := model.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PasswordHash: "x",
		UserType:     model.UserTypeUser,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// SeedBlocks adds n text blocks to a unit.
func SeedBlocks(t *testing.T, db *gorm.DB, unitID uint, n int) []model.LearningBlock {
	t.Helper()
	out := make([]model.LearningBlock, 0, n)
	for i := 0; i < n; i++ {
		b := model.LearningBlock{UnitID: unitID, Type: model.BlockText, Title: fmt.Sprintf("Block %d", i+1), Content: "content", Order: i + 1}
		require.NoError(t, db.Create(&b).Error)
		out = append(out, b)
	}
	return out
}
