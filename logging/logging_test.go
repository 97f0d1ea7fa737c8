package logging

import (
	"errors"
	"testing"

	"cfp/config"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithoutSentry(t *testing.T) {
	require.NoError(t, Setup(&config.Config{LogLevel: "debug", LogFormat: "json"}))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	require.NoError(t, Setup(&config.Config{LogLevel: "nonsense"}))
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestLogErrorAndEvent(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	LogError("review_failed", errors.New("boom"), logrus.Fields{"proposal_id": uint(7)})
	LogEvent("status_changed", logrus.Fields{"count": 2})

	entries := hook.AllEntries()
	require.Len(t, entries, 2)

	assert.Equal(t, logrus.ErrorLevel, entries[0].Level)
	assert.Equal(t, "review_failed", entries[0].Data["error_type"])
	assert.Equal(t, "boom", entries[0].Data["error"])
	assert.Equal(t, uint(7), entries[0].Data["proposal_id"])

	assert.Equal(t, logrus.InfoLevel, entries[1].Level)
	assert.Equal(t, "status_changed", entries[1].Data["event_type"])
}
