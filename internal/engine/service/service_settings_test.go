package service

import (
	"context"
	"testing"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_DefaultsUntilSaved(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	settings, err := h.settings.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", settings.UserId)
	assert.Equal(t, true, settings.Notifications["emailAlerts"])
	assert.Equal(t, "blue", settings.Theme["colorScheme"])
	assert.True(t, settings.SearchVisible())
	assert.Empty(t, h.settingsDB.rows)
}

func TestSettings_SaveMergesGroups(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.settings.Save(ctx, "u1", &model.UpdateSettingsReq{
		Theme: map[string]any{"darkMode": true, "fontSize": "large"},
	})
	require.NoError(t, err)

	saved, err := h.settings.Save(ctx, "u1", &model.UpdateSettingsReq{
		Notifications: map[string]any{"weeklyDigest": true},
		Security:      map[string]any{"sessionTimeoutMinutes": float64(45)},
	})
	require.NoError(t, err)
	assert.Equal(t, true, saved.Theme["darkMode"])
	assert.Equal(t, "large", saved.Theme["fontSize"])
	assert.Equal(t, true, saved.Notifications["weeklyDigest"])
	assert.Equal(t, true, saved.Notifications["emailAlerts"])
	assert.Equal(t, float64(45), saved.Security["sessionTimeoutMinutes"])

	got, err := h.settings.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, saved.Theme, got.Theme)
}

func TestSettings_SaveRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		req  *model.UpdateSettingsReq
	}{
		{name: "unknown key", req: &model.UpdateSettingsReq{Theme: map[string]any{"sparkles": true}}},
		{name: "wrong type", req: &model.UpdateSettingsReq{Privacy: map[string]any{"showEmail": "yes"}}},
		{name: "number for bool", req: &model.UpdateSettingsReq{Notifications: map[string]any{"smsAlerts": float64(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			_, err := h.settings.Save(context.Background(), "u1", tt.req)
			assert.Equal(t, KindInvalidArgument, KindOf(err))
			assert.Empty(t, h.settingsDB.rows)
		})
	}
}

func TestSettings_StoreFailure(t *testing.T) {
	h := newHarness()
	h.settingsDB.failUpsert = errStore

	_, err := h.settings.Save(context.Background(), "u1", &model.UpdateSettingsReq{
		Theme: map[string]any{"darkMode": true},
	})
	assert.ErrorIs(t, err, errStore)
	assert.Equal(t, KindInternal, KindOf(err))
}
