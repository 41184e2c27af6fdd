package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-arcade/suitx/internal/engine/config"
	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fakeClock 可控时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeMailer 记录发送的邮件
type fakeMailer struct {
	mu     sync.Mutex
	emails []*Email
}

func (m *fakeMailer) Send(_ context.Context, email *Email) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails = append(m.emails, email)
}

func (m *fakeMailer) sent(kind string) []*Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Email
	for _, e := range m.emails {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// failingDelCache 读写正常，Del 总是失败
type failingDelCache struct {
	*cache.FastCache
}

func (c failingDelCache) Del(ctx context.Context, _ ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	cmd.SetErr(errStore)
	return cmd
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || (user.Email != "" && u.Email == user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *user
	r.users[user.UserId] = &cp
	return nil
}

func (r *fakeUserRepo) GetByUserId(_ context.Context, userId string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ListByUserIds(_ context.Context, userIds []string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, id := range userIds {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Search(_ context.Context, keyword string, limit int) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.IsActive && (strings.Contains(u.Username, keyword) || strings.Contains(u.Email, keyword)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, userId string, updates map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userId]
	if !ok {
		return nil
	}
	for k, v := range updates {
		s, _ := v.(string)
		switch k {
		case "email":
			u.Email = s
		case "first_name":
			u.FirstName = s
		case "last_name":
			u.LastName = s
		case "bio":
			u.Bio = s
		case "avatar":
			u.Avatar = s
		case "phone":
			u.Phone = s
		case "department":
			u.Department = s
		case "password":
			u.Password = s
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userId string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userId]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

// fakeSettingsRepo failUpsert 非空时 Upsert 返回该错误
type fakeSettingsRepo struct {
	mu         sync.Mutex
	rows       map[string]*model.UserSettings
	failUpsert error
}

func (r *fakeSettingsRepo) Get(_ context.Context, userId string) (*model.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneSettings(row), nil
}

func (r *fakeSettingsRepo) ListByUserIds(_ context.Context, userIds []string) ([]model.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.UserSettings
	for _, id := range userIds {
		if row, ok := r.rows[id]; ok {
			out = append(out, *cloneSettings(row))
		}
	}
	return out, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, settings *model.UserSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpsert != nil {
		return r.failUpsert
	}
	r.rows[settings.UserId] = cloneSettings(settings)
	return nil
}

func cloneSettings(s *model.UserSettings) *model.UserSettings {
	cp := *s
	for _, g := range []*datatypes.JSONMap{&cp.Notifications, &cp.Privacy, &cp.Theme, &cp.Security} {
		if *g == nil {
			continue
		}
		m := make(datatypes.JSONMap, len(*g))
		for k, v := range *g {
			m[k] = v
		}
		*g = m
	}
	return &cp
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*model.Project
}

func (r *fakeProjectRepo) Create(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *project
	r.projects[project.ProjectId] = &cp
	return nil
}

func (r *fakeProjectRepo) Get(_ context.Context, projectId string) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, projectId string, updates map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectId]
	if !ok {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "name":
			p.Name = v.(string)
		case "description":
			p.Description = v.(string)
		case "status":
			p.Status = v.(model.ProjectStatus)
		case "progress_percentage":
			p.ProgressPercentage = v.(float64)
		case "owner_id":
			p.OwnerId = v.(string)
		}
	}
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, projectId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, projectId)
	return nil
}

func (r *fakeProjectRepo) ListOwned(_ context.Context, ownerId, username string) ([]model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Project
	for _, p := range r.projects {
		if p.IsOwner(ownerId, username) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectId < out[j].ProjectId })
	return out, nil
}

func (r *fakeProjectRepo) ListByIds(_ context.Context, projectIds []string) ([]model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Project
	for _, id := range projectIds {
		if p, ok := r.projects[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memberPair struct{ projectId, userId string }

// fakeMemberRepo 项目成员表，failAdd 非空时 Add 返回该错误
type fakeMemberRepo struct {
	mu      sync.Mutex
	rows    map[memberPair]struct{}
	failAdd error
}

func (r *fakeMemberRepo) Add(_ context.Context, projectId, userId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd != nil {
		return r.failAdd
	}
	r.rows[memberPair{projectId, userId}] = struct{}{}
	return nil
}

func (r *fakeMemberRepo) Remove(_ context.Context, projectId, userId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, memberPair{projectId, userId})
	return nil
}

func (r *fakeMemberRepo) IsMember(_ context.Context, projectId, userId string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[memberPair{projectId, userId}]
	return ok, nil
}

func (r *fakeMemberRepo) ListMemberIds(_ context.Context, projectId string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for p := range r.rows {
		if p.projectId == projectId {
			out = append(out, p.userId)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeMemberRepo) ListProjectIds(_ context.Context, userId string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for p := range r.rows {
		if p.userId == userId {
			out = append(out, p.projectId)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeMemberRepo) ListAll(context.Context) ([]model.ProjectMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ProjectMember
	for p := range r.rows {
		out = append(out, model.ProjectMember{ProjectId: p.projectId, UserId: p.userId})
	}
	return out, nil
}

func (r *fakeMemberRepo) DeleteByProject(_ context.Context, projectId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for p := range r.rows {
		if p.projectId == projectId {
			delete(r.rows, p)
		}
	}
	return nil
}

type fakeIndexRepo struct {
	mu   sync.Mutex
	rows map[memberPair]struct{}
}

func (r *fakeIndexRepo) Add(_ context.Context, userId, projectId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[memberPair{projectId, userId}] = struct{}{}
	return nil
}

func (r *fakeIndexRepo) Remove(_ context.Context, userId, projectId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, memberPair{projectId, userId})
	return nil
}

func (r *fakeIndexRepo) ListProjectIds(_ context.Context, userId string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for p := range r.rows {
		if p.userId == userId {
			out = append(out, p.projectId)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeIndexRepo) ListAll(context.Context) ([]model.UserMemberProject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.UserMemberProject
	for p := range r.rows {
		out = append(out, model.UserMemberProject{UserId: p.userId, ProjectId: p.projectId})
	}
	return out, nil
}

func (r *fakeIndexRepo) DeleteByProject(_ context.Context, projectId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for p := range r.rows {
		if p.projectId == projectId {
			delete(r.rows, p)
		}
	}
	return nil
}

func (r *fakeIndexRepo) has(userId, projectId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[memberPair{projectId, userId}]
	return ok
}

// fakeInvitationRepo 以 pending_key 模拟唯一索引，UpdateStatus 以状态为条件
// beforeUpdate 在 UpdateStatus 加锁前执行，用于模拟并发写入
type fakeInvitationRepo struct {
	mu           sync.Mutex
	invitations  map[string]*model.ProjectInvitation
	order        []string
	beforeUpdate func()
}

func (r *fakeInvitationRepo) Create(_ context.Context, invitation *model.ProjectInvitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if invitation.PendingKey != nil {
		for _, inv := range r.invitations {
			if inv.PendingKey != nil && *inv.PendingKey == *invitation.PendingKey {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	cp := *invitation
	r.invitations[invitation.InvitationId] = &cp
	r.order = append(r.order, invitation.InvitationId)
	return nil
}

func (r *fakeInvitationRepo) Get(_ context.Context, invitationId string) (*model.ProjectInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invitations[invitationId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvitationRepo) FindPending(_ context.Context, projectId, userId string) (*model.ProjectInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := *model.PendingKeyFor(projectId, userId)
	for _, inv := range r.invitations {
		if inv.PendingKey != nil && *inv.PendingKey == key {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// list 按创建顺序倒序过滤
func (r *fakeInvitationRepo) list(match func(*model.ProjectInvitation) bool) []model.ProjectInvitation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ProjectInvitation
	for i := len(r.order) - 1; i >= 0; i-- {
		inv := r.invitations[r.order[i]]
		if match(inv) {
			out = append(out, *inv)
		}
	}
	return out
}

func (r *fakeInvitationRepo) ListByUser(_ context.Context, userId string) ([]model.ProjectInvitation, error) {
	return r.list(func(inv *model.ProjectInvitation) bool { return inv.UserId == userId }), nil
}

func (r *fakeInvitationRepo) ListPendingByUser(_ context.Context, userId string) ([]model.ProjectInvitation, error) {
	return r.list(func(inv *model.ProjectInvitation) bool {
		return inv.UserId == userId && inv.IsPending()
	}), nil
}

func (r *fakeInvitationRepo) ListByProject(_ context.Context, projectId string) ([]model.ProjectInvitation, error) {
	return r.list(func(inv *model.ProjectInvitation) bool { return inv.ProjectId == projectId }), nil
}

func (r *fakeInvitationRepo) UpdateStatus(_ context.Context, invitation *model.ProjectInvitation, from model.InvitationStatus) (bool, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invitations[invitation.InvitationId]
	if !ok || stored.Status != from {
		return false, nil
	}
	stored.Status = invitation.Status
	stored.PendingKey = invitation.PendingKey
	stored.RespondedAt = invitation.RespondedAt
	return true, nil
}

func (r *fakeInvitationRepo) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, inv := range r.invitations {
		if inv.IsPending() && inv.ExpiresAt.Before(now) {
			inv.Status = model.InvitationExpired
			inv.PendingKey = nil
			n++
		}
	}
	return n, nil
}

func (r *fakeInvitationRepo) CancelPendingByProject(_ context.Context, projectId string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, inv := range r.invitations {
		if inv.ProjectId == projectId && inv.IsPending() {
			inv.Status = model.InvitationCancelled
			inv.PendingKey = nil
			n++
		}
	}
	return n, nil
}

func (r *fakeInvitationRepo) stored(invitationId string) model.ProjectInvitation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.invitations[invitationId]
}

// fakeNotificationRepo failCreate 非空时 Create 返回该错误
type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*model.Notification
	failCreate    error
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	cp := *notification
	r.notifications = append(r.notifications, &cp)
	return nil
}

func (r *fakeNotificationRepo) Get(_ context.Context, notificationId string) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.NotificationId == notificationId {
			cp := *n
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) filter(match func(*model.Notification) bool) []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if match(r.notifications[i]) {
			out = append(out, *r.notifications[i])
		}
	}
	return out
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userId string) ([]model.Notification, error) {
	return r.filter(func(n *model.Notification) bool { return n.UserId == userId }), nil
}

func (r *fakeNotificationRepo) ListUnread(_ context.Context, userId string) ([]model.Notification, error) {
	return r.filter(func(n *model.Notification) bool { return n.UserId == userId && !n.IsRead }), nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userId string) (int64, error) {
	unread, _ := r.ListUnread(ctx, userId)
	return int64(len(unread)), nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, notificationId string, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.NotificationId == notificationId && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &readAt
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, notificationId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.NotificationId != notificationId {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func (r *fakeNotificationRepo) removeWhere(match func(*model.Notification) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if match(n) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	r.notifications = kept
	return removed
}

func (r *fakeNotificationRepo) DeleteRead(_ context.Context, userId string) (int64, error) {
	return r.removeWhere(func(n *model.Notification) bool { return n.UserId == userId && n.IsRead }), nil
}

func (r *fakeNotificationRepo) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	return r.removeWhere(func(n *model.Notification) bool { return n.ExpiresAt.Before(now) }), nil
}

func (r *fakeNotificationRepo) byType(userId string, typ model.NotificationType) []model.Notification {
	return r.filter(func(n *model.Notification) bool { return n.UserId == userId && n.Type == typ })
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*model.Task
}

func (r *fakeTaskRepo) Create(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *task
	r.tasks[task.TaskId] = &cp
	return nil
}

func (r *fakeTaskRepo) Get(_ context.Context, taskId string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) Save(ctx context.Context, task *model.Task) error {
	return r.Create(ctx, task)
}

func (r *fakeTaskRepo) Delete(_ context.Context, taskId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, taskId)
	return nil
}

func (r *fakeTaskRepo) ListByProject(_ context.Context, projectId string) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Task
	for _, t := range r.tasks {
		if t.ProjectId == projectId {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ListDueBefore(_ context.Context, deadline time.Time) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Task
	for _, t := range r.tasks {
		if t.AssigneeId != "" && t.IsOpen() && t.DeadlineNotifiedAt == nil &&
			t.DueDate != nil && t.DueDate.Before(deadline) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) MarkDeadlineNotified(_ context.Context, taskId string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[taskId]; ok {
		t.DeadlineNotifiedAt = &at
	}
	return nil
}

type fakeRiskRepo struct {
	mu    sync.Mutex
	risks map[string]*model.Risk
}

func (r *fakeRiskRepo) Create(_ context.Context, risk *model.Risk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *risk
	r.risks[risk.RiskId] = &cp
	return nil
}

func (r *fakeRiskRepo) Get(_ context.Context, riskId string) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	risk, ok := r.risks[riskId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *risk
	return &cp, nil
}

func (r *fakeRiskRepo) Save(ctx context.Context, risk *model.Risk) error {
	return r.Create(ctx, risk)
}

func (r *fakeRiskRepo) Delete(_ context.Context, riskId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.risks, riskId)
	return nil
}

func (r *fakeRiskRepo) ListByProject(_ context.Context, projectId string) ([]model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Risk
	for _, risk := range r.risks {
		if risk.ProjectId == projectId {
			out = append(out, *risk)
		}
	}
	return out, nil
}

type fakeMitigationRepo struct {
	mu          sync.Mutex
	mitigations map[string]*model.Mitigation
}

func (r *fakeMitigationRepo) Create(_ context.Context, mitigation *model.Mitigation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *mitigation
	r.mitigations[mitigation.MitigationId] = &cp
	return nil
}

func (r *fakeMitigationRepo) Get(_ context.Context, mitigationId string) (*model.Mitigation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mitigations[mitigationId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMitigationRepo) Save(ctx context.Context, mitigation *model.Mitigation) error {
	return r.Create(ctx, mitigation)
}

func (r *fakeMitigationRepo) Delete(_ context.Context, mitigationId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mitigations, mitigationId)
	return nil
}

func (r *fakeMitigationRepo) ListByProject(_ context.Context, projectId string) ([]model.Mitigation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Mitigation
	for _, m := range r.mitigations {
		if m.ProjectId == projectId {
			out = append(out, *m)
		}
	}
	return out, nil
}

// harness 基于内存仓储组装的全部 service
type harness struct {
	clock         *fakeClock
	mailer        *fakeMailer
	users         *fakeUserRepo
	settingsDB    *fakeSettingsRepo
	projects      *fakeProjectRepo
	members       *fakeMemberRepo
	index         *fakeIndexRepo
	invitationDB  *fakeInvitationRepo
	notifyDB      *fakeNotificationRepo
	taskDB        *fakeTaskRepo
	riskDB        *fakeRiskRepo
	mitigationDB  *fakeMitigationRepo
	session       *cache.FastCache
	user          *UserService
	settings      *SettingsService
	notifications *NotificationService
	membership    *MembershipService
	invitations   *InvitationService
	project       *ProjectService
	tasks         *TaskService
	risks         *RiskService
	mitigations   *MitigationService
	housekeeping  *HousekeepingService
}

func newHarness() *harness {
	h := &harness{
		clock:        newFakeClock(),
		mailer:       &fakeMailer{},
		users:        &fakeUserRepo{users: map[string]*model.User{}},
		settingsDB:   &fakeSettingsRepo{rows: map[string]*model.UserSettings{}},
		projects:     &fakeProjectRepo{projects: map[string]*model.Project{}},
		members:      &fakeMemberRepo{rows: map[memberPair]struct{}{}},
		index:        &fakeIndexRepo{rows: map[memberPair]struct{}{}},
		invitationDB: &fakeInvitationRepo{invitations: map[string]*model.ProjectInvitation{}},
		notifyDB:     &fakeNotificationRepo{},
		taskDB:       &fakeTaskRepo{tasks: map[string]*model.Task{}},
		riskDB:       &fakeRiskRepo{risks: map[string]*model.Risk{}},
		mitigationDB: &fakeMitigationRepo{mitigations: map[string]*model.Mitigation{}},
		session:      cache.NewFastCache(cache.FastCacheConfig{}),
	}
	repos := &repo.Repositories{
		User:              h.users,
		Settings:          h.settingsDB,
		Project:           h.projects,
		ProjectMember:     h.members,
		UserMemberProject: h.index,
		Invitation:        h.invitationDB,
		Notification:      h.notifyDB,
		Task:              h.taskDB,
		Risk:              h.riskDB,
		Mitigation:        h.mitigationDB,
	}
	auth := &http.Auth{SecretKey: "test-secret", AccessExpire: 60, RefreshExpire: 120}

	h.settings = NewSettingsService(repos.Settings)
	h.user = newUserService(repos.User, h.session, nil, h.settings, auth, h.mailer)
	h.user.now = h.clock.Now
	h.notifications = newNotificationService(repos.Notification, nil, &config.NotificationConfig{})
	h.notifications.now = h.clock.Now
	h.membership = NewMembershipService(repos.Project, repos.ProjectMember, repos.UserMemberProject, h.user)
	h.invitations = NewInvitationService(repos.Invitation, h.membership, h.user, h.notifications, h.mailer,
		&config.InvitationConfig{ExpireDays: 7})
	h.invitations.now = h.clock.Now
	h.project = NewProjectService(repos.Project, repos.Invitation, h.membership, h.user)
	h.tasks = NewTaskService(repos.Task, h.project, h.user, h.notifications, h.mailer)
	h.tasks.now = h.clock.Now
	h.risks = NewRiskService(repos.Risk, h.project, h.user, h.notifications, h.mailer)
	h.risks.now = h.clock.Now
	h.mitigations = NewMitigationService(repos.Mitigation, repos.Risk, h.project, h.user, h.notifications, h.mailer)
	h.mitigations.now = h.clock.Now
	h.housekeeping = NewHousekeepingService(h.invitations, h.notifications, h.membership, repos.Task, repos.Project,
		h.user, h.mailer, &config.HousekeepingConfig{})
	h.housekeeping.now = h.clock.Now
	return h
}

// addUser 直接写入用户
func (h *harness) addUser(userId, username string) *model.User {
	u := &model.User{
		UserId:    userId,
		Username:  username,
		Email:     username + "@example.com",
		FirstName: username,
		IsActive:  true,
	}
	_ = h.users.Create(context.Background(), u)
	return u
}

// addProject 直接写入项目，ownerId 为空时模拟旧数据
func (h *harness) addProject(projectId, name, ownerId, createdBy string) *model.Project {
	p := &model.Project{
		ProjectId: projectId,
		Name:      name,
		Status:    model.ProjectActive,
		OwnerId:   ownerId,
		CreatedBy: createdBy,
	}
	_ = h.projects.Create(context.Background(), p)
	return p
}

var errStore = errors.New("store unavailable")
