package model

import (
	"testing"
	"time"

	"github.com/go-arcade/suitx/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)

func pendingInvitation() *ProjectInvitation {
	return &ProjectInvitation{
		InvitationId: "inv-1",
		ProjectId:    "p1",
		UserId:       "u1",
		Status:       InvitationPending,
		PendingKey:   PendingKeyFor("p1", "u1"),
		InvitedAt:    now,
		ExpiresAt:    now.Add(DefaultInvitationTTL),
	}
}

func TestProjectInvitation_Transition(t *testing.T) {
	tests := []struct {
		name          string
		event         statemachine.Event
		want          InvitationStatus
		wantResponded bool
	}{
		{"accept", statemachine.EventAccept, InvitationAccepted, true},
		{"reject", statemachine.EventReject, InvitationRejected, true},
		{"cancel", statemachine.EventCancel, InvitationCancelled, false},
		{"expire", statemachine.EventExpire, InvitationExpired, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := pendingInvitation()
			require.NoError(t, inv.Transition(tt.event, now))
			assert.Equal(t, tt.want, inv.Status)
			assert.Nil(t, inv.PendingKey)
			assert.Equal(t, tt.wantResponded, inv.RespondedAt != nil)

			// 终止状态不可再迁移
			err := inv.Transition(statemachine.EventAccept, now)
			assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
			assert.Equal(t, tt.want, inv.Status)
		})
	}
}

func TestProjectInvitation_StatusChecks(t *testing.T) {
	inv := pendingInvitation()
	assert.True(t, inv.IsPending())
	require.NoError(t, inv.Validate())

	inv.Status = "DECLINED"
	assert.False(t, inv.IsPending())
	assert.ErrorContains(t, inv.Validate(), `unknown status "DECLINED"`)

	inv.Status = InvitationExpired
	assert.False(t, inv.IsPending())
	assert.NoError(t, inv.Validate())
}

func TestProjectInvitation_IsExpiredAt(t *testing.T) {
	inv := pendingInvitation()
	assert.False(t, inv.IsExpiredAt(now.Add(7*24*time.Hour)))
	assert.True(t, inv.IsExpiredAt(now.Add(8*24*time.Hour)))
	assert.Equal(t, "p1:u1", *PendingKeyFor("p1", "u1"))
}

func TestProject_IsOwner(t *testing.T) {
	p := &Project{OwnerId: "o1", CreatedBy: "alice"}
	assert.True(t, p.IsOwner("o1", "bob"))
	assert.False(t, p.IsOwner("x", "alice"))

	legacy := &Project{CreatedBy: "alice"}
	assert.True(t, legacy.IsOwner("x", "alice"))
	assert.False(t, legacy.IsOwner("x", "bob"))
	assert.False(t, (&Project{}).IsOwner("x", ""))
}

func TestNotificationFactories(t *testing.T) {
	t.Run("task assigned", func(t *testing.T) {
		n := NewTaskAssignedNotification("u1", "t1", "Write docs", "Apollo", "alice", now)
		assert.Equal(t, NotificationTaskAssigned, n.Type)
		assert.Equal(t, "/tasks/t1", n.ActionUrl)
		assert.Equal(t, PriorityMedium, n.Priority)
		assert.Equal(t, now.Add(LongRetention), n.ExpiresAt)
		assert.Equal(t, "alice", n.Metadata["assignedBy"])
	})

	t.Run("risk detected priority", func(t *testing.T) {
		for sev, want := range map[string]NotificationPriority{
			SeverityCritical: PriorityHigh,
			SeverityHigh:     PriorityHigh,
			SeverityMedium:   PriorityMedium,
			SeverityLow:      PriorityMedium,
		} {
			n := NewRiskDetectedNotification("u1", "r1", "Leak", "Apollo", sev, now)
			assert.Equal(t, want, n.Priority, sev)
		}
		n := NewRiskDetectedNotification("u1", "r1", "Leak", "Apollo", SeverityHigh, now)
		assert.Equal(t, "A high severity risk has been detected: Leak", n.Message)
		assert.Equal(t, "/risks/r1", n.ActionUrl)
	})

	t.Run("mitigation assigned", func(t *testing.T) {
		n := NewMitigationAssignedNotification("u1", "m1", "Rotate keys", "Apollo", "alice", now)
		assert.Equal(t, "You have been assigned to mitigation 'Rotate keys' in project 'Apollo'", n.Message)
		assert.Equal(t, "/mitigations/m1", n.ActionUrl)
	})

	t.Run("deadline approaching", func(t *testing.T) {
		n := NewDeadlineApproachingNotification("u1", EntityTask, "t1", "Ship", "Apollo", now.Add(time.Hour), now)
		assert.Equal(t, PriorityHigh, n.Priority)
		assert.Equal(t, "/tasks/t1", n.ActionUrl)
		assert.Equal(t, "Ship is due soon", n.Message)
	})

	t.Run("project invited", func(t *testing.T) {
		n := NewProjectInvitedNotification("u1", "inv-1", "p1", "Apollo", "alice", now)
		assert.Equal(t, NotificationProjectInvited, n.Type)
		assert.Equal(t, "/invitations/inv-1", n.ActionUrl)
		assert.Equal(t, "p1", n.Metadata["projectId"])
	})
}

func TestIdentity_DisplayName(t *testing.T) {
	u := &User{UserId: "u1", Username: "alice"}
	assert.Equal(t, "alice", u.Identity().DisplayName())
	assert.Equal(t, "alice", u.FullName())

	u.FirstName, u.LastName = "Alice", "Liddell"
	assert.Equal(t, "Alice Liddell", u.Identity().DisplayName())
}

func TestUserSettings_NormalizeFillsNewKeys(t *testing.T) {
	// 旧记录缺少后来加入的键
	s := &UserSettings{UserId: "u1", Privacy: map[string]any{PrivacySearchVisible: false}}
	s.Normalize()

	assert.False(t, s.SearchVisible())
	assert.Equal(t, true, s.Privacy["allowProjectInvites"])
	assert.Equal(t, "medium", s.Theme["fontSize"])
	assert.Equal(t, float64(90), s.Security["passwordChangeIntervalDays"])
}

func TestUserSettings_Apply(t *testing.T) {
	s := DefaultUserSettings("u1")
	require.NoError(t, s.Apply(&UpdateSettingsReq{Theme: map[string]any{"colorScheme": "green"}}))
	assert.Equal(t, "green", s.Theme["colorScheme"])

	err := s.Apply(&UpdateSettingsReq{
		Theme:   map[string]any{"colorScheme": "purple"},
		Privacy: map[string]any{"showEmail": 1},
	})
	assert.ErrorContains(t, err, "privacy.showEmail")
	// 校验失败时不做部分写入
	assert.Equal(t, "green", s.Theme["colorScheme"])
}
