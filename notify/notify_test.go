package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cfp/config"
	"cfp/models"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failing struct{ err error }

func (f failing) Notify(context.Context, []models.StatusChange) error { return f.err }

func TestLogNotifier(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	err := LogNotifier{}.Notify(context.Background(), []models.StatusChange{
		{ProposalID: 1, EventID: 9, Kind: models.StatusChangeDeliberation, OldStatus: "PENDING", NewStatus: "ACCEPTED"},
		{ProposalID: 2, EventID: 9, Kind: models.StatusChangeDeliberation, OldStatus: "PENDING", NewStatus: "REJECTED"},
	})
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, uint(1), entries[0].Data["proposal_id"])
	assert.Equal(t, "ACCEPTED", entries[0].Data["new_status"])
	assert.Equal(t, "REJECTED", entries[1].Data["new_status"])
}

func TestEncode(t *testing.T) {
	payload, err := Encode(models.StatusChange{ProposalID: 4, EventID: 2, Kind: models.StatusChangePublication, OldStatus: "NOT_PUBLISHED", NewStatus: "PUBLISHED"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, float64(4), decoded["proposal_id"])
	assert.Equal(t, "publication", decoded["kind"])
	assert.Equal(t, "PUBLISHED", decoded["new_status"])
}

func TestConfirmationChanged(t *testing.T) {
	p := &models.Proposal{ID: 3, EventID: 1, ConfirmationStatus: models.ConfirmationPending}

	change := ConfirmationChanged(p, models.ConfirmationDeclined)

	assert.Equal(t, models.StatusChangeConfirmation, change.Kind)
	assert.Equal(t, "PENDING", change.OldStatus)
	assert.Equal(t, "DECLINED", change.NewStatus)
}

func TestMultiJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	err := Multi{LogNotifier{}, failing{err: boom}}.Notify(context.Background(), nil)

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, Multi{LogNotifier{}}.Notify(context.Background(), nil))
}

func TestNewPicksRedisWhenEnabled(t *testing.T) {
	assert.IsType(t, LogNotifier{}, New(&config.Config{}))

	n := New(&config.Config{Redis: config.RedisConfig{Enabled: true, Address: "localhost:6379", Channel: "c"}})
	multi, ok := n.(Multi)
	require.True(t, ok)
	require.Len(t, multi, 2)
	assert.IsType(t, &RedisPublisher{}, multi[1])
	assert.NoError(t, multi.Close())
}
