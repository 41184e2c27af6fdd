package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder 记录 DryRun 模式下生成的 SQL
type sqlRecorder struct {
	mu   sync.Mutex
	sqls []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface      { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sqls = append(r.sqls, sql)
}

func (r *sqlRecorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sqls) == 0 {
		return ""
	}
	return r.sqls[len(r.sqls)-1]
}

func newDryRunDB(t *testing.T) (database.IDatabase, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "suitx:suitx@tcp(127.0.0.1:3306)/suitx?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return database.NewGormDB(db), rec
}

func TestProjectMemberRepo_AddIgnoresDuplicates(t *testing.T) {
	db, rec := newDryRunDB(t)
	r := NewProjectMemberRepo(db)

	require.NoError(t, r.Add(context.Background(), "p1", "u1"))
	sql := rec.last()
	assert.Contains(t, sql, "INSERT INTO `t_project_member`")
	assert.Contains(t, sql, "ON DUPLICATE KEY UPDATE")
}

func TestUserMemberProjectRepo_Add(t *testing.T) {
	db, rec := newDryRunDB(t)
	r := NewUserMemberProjectRepo(db)

	require.NoError(t, r.Add(context.Background(), "u1", "p1"))
	assert.Contains(t, rec.last(), "INSERT INTO `t_user_member_project`")
	assert.Contains(t, rec.last(), "ON DUPLICATE KEY UPDATE")

	require.NoError(t, r.Remove(context.Background(), "u1", "p1"))
	assert.Contains(t, rec.last(), "DELETE FROM `t_user_member_project`")
	assert.Contains(t, rec.last(), "user_id = 'u1' AND project_id = 'p1'")
}

func TestInvitationRepo_UpdateStatusIsGuarded(t *testing.T) {
	db, rec := newDryRunDB(t)
	r := NewInvitationRepo(db)

	inv := &model.ProjectInvitation{
		InvitationId: "inv-1",
		Status:       model.InvitationPending,
		PendingKey:   model.PendingKeyFor("p1", "u1"),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	require.NoError(t, inv.Transition("accept", time.Now()))

	_, err := r.UpdateStatus(context.Background(), inv, model.InvitationPending)
	require.NoError(t, err)
	sql := rec.last()
	assert.Contains(t, sql, "UPDATE `t_project_invitation`")
	assert.Contains(t, sql, "`status`='ACCEPTED'")
	assert.Contains(t, sql, "`pending_key`=NULL")
	assert.Contains(t, sql, "invitation_id = 'inv-1' AND status = 'PENDING'")
}

func TestInvitationRepo_FindPendingUsesPendingKey(t *testing.T) {
	db, rec := newDryRunDB(t)
	r := NewInvitationRepo(db)

	_, _ = r.FindPending(context.Background(), "p1", "u1")
	assert.Contains(t, rec.last(), "pending_key = 'p1:u1'")
}

func TestInvitationRepo_ExpireStale(t *testing.T) {
	db, rec := newDryRunDB(t)
	r := NewInvitationRepo(db)

	_, err := r.ExpireStale(context.Background(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	sql := rec.last()
	assert.Contains(t, sql, "`status`='EXPIRED'")
	assert.Contains(t, sql, "`pending_key`=NULL")
	assert.Contains(t, sql, "status = 'PENDING' AND expires_at <")
}

func TestNotificationRepo_Queries(t *testing.T) {
	db, rec := newDryRunDB(t)
	r := NewNotificationRepo(db)
	ctx := context.Background()

	_, _ = r.ListByUser(ctx, "u1")
	assert.Contains(t, rec.last(), "ORDER BY created_at DESC")

	require.NoError(t, r.MarkRead(ctx, "n1", time.Now()))
	assert.Contains(t, rec.last(), "notification_id = 'n1' AND is_read = false")

	_, err := r.DeleteRead(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, rec.last(), "DELETE FROM `t_notification`")
	assert.Contains(t, rec.last(), "user_id = 'u1' AND is_read = true")
}

func TestProjectRepo_ListOwnedIncludesLegacyOwner(t *testing.T) {
	db, rec := newDryRunDB(t)
	r := NewProjectRepo(db)

	_, _ = r.ListOwned(context.Background(), "o1", "alice")
	assert.Contains(t, rec.last(), "owner_id = 'o1' OR (owner_id = '' AND created_by = 'alice')")

	projects, err := r.ListByIds(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestUserRepo_Search(t *testing.T) {
	db, rec := newDryRunDB(t)
	r := NewUserRepo(db)

	_, err := r.Search(context.Background(), "ali", 20)
	require.NoError(t, err)
	sql := rec.last()
	assert.Contains(t, sql, "is_active = true")
	assert.Contains(t, sql, "username LIKE '%ali%' OR email LIKE '%ali%'")
	assert.Contains(t, sql, "ORDER BY username ASC")
	assert.Contains(t, sql, "LIMIT 20")
}

func TestLikeEscaper(t *testing.T) {
	assert.Equal(t, `50\%\_off`, likeEscaper.Replace("50%_off"))
	assert.Equal(t, `a\\b`, likeEscaper.Replace(`a\b`))
	assert.Equal(t, "alice", likeEscaper.Replace("alice"))
}

func TestSettingsRepo_Upsert(t *testing.T) {
	db, rec := newDryRunDB(t)
	r := NewSettingsRepo(db)

	require.NoError(t, r.Upsert(context.Background(), model.DefaultUserSettings("u1")))
	sql := rec.last()
	assert.Contains(t, sql, "INSERT INTO `t_user_settings`")
	assert.Contains(t, sql, "ON DUPLICATE KEY UPDATE")
	assert.Contains(t, sql, "`privacy`=VALUES(`privacy`)")

	settings, err := r.ListByUserIds(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, settings)
}
