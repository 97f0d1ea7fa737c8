package database_test

import (
	"testing"

	"cfp/database"
	"cfp/models"
	"cfp/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestSeedDemoIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.SeedDemo(db))
	require.NoError(t, database.SeedDemo(db))

	var teams, events int64
	require.NoError(t, db.Model(&models.Team{}).Count(&teams).Error)
	require.NoError(t, db.Model(&models.Event{}).Count(&events).Error)
	assert.Equal(t, int64(1), teams)
	assert.Equal(t, int64(1), events)

	var event models.Event
	require.NoError(t, db.Preload("Formats").Preload("Categories").Where("slug = ?", "demo-conf").First(&event).Error)
	assert.NotEmpty(t, event.APIKey)
	assert.True(t, event.ReviewEnabled)
	assert.Len(t, event.Formats, 2)
	assert.Len(t, event.Categories, 2)

	var owner models.TeamMember
	require.NoError(t, db.Where("team_id = ?", event.TeamID).First(&owner).Error)
	assert.True(t, owner.IsOwner())
}

func TestSeedDemoReportsDatabaseErrors(t *testing.T) {
	db := testutil.NewDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.Error(t, database.SeedDemo(db))
}

func TestNewLoggerLevels(t *testing.T) {
	for level, want := range map[string]logger.LogLevel{
		"silent": logger.Silent,
		"error":  logger.Error,
		"info":   logger.Info,
		"warn":   logger.Warn,
		"":       logger.Warn,
	} {
		assert.NotNil(t, database.NewLogger(level), level)
		assert.Equal(t, want, database.ParseLogLevel(level), level)
	}
}
