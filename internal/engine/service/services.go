package service

import (
	"github.com/go-arcade/suitx/internal/engine/config"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/internal/pkg/notify"
	"github.com/go-arcade/suitx/internal/pkg/queue"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/http"
)

// Services 统一管理所有 service
type Services struct {
	User         *UserService
	Settings     *SettingsService
	Mail         *MailService
	Notification *NotificationService
	Membership   *MembershipService
	Invitation   *InvitationService
	Project      *ProjectService
	Task         *TaskService
	Risk         *RiskService
	Mitigation   *MitigationService
	Housekeeping *HousekeepingService
}

// Options service 层依赖的配置与基础设施
type Options struct {
	Session       cache.ICache
	IdentityCache *cache.HybridCache
	Auth          *http.Auth
	Notify        *notify.NotifyManager
	Queue         *queue.TaskQueue
	Mail          *notify.MailConfig
	Invitation    *config.InvitationConfig
	Notification  *config.NotificationConfig
	Housekeeping  *config.HousekeepingConfig
}

// NewServices 初始化所有 service
func NewServices(repos *repo.Repositories, opts Options) *Services {
	mailService := NewMailService(opts.Notify, opts.Queue, opts.Mail)
	settingsService := NewSettingsService(repos.Settings)
	userService := NewUserService(repos.User, opts.Session, opts.IdentityCache, settingsService, opts.Auth, mailService)
	notificationService := NewNotificationService(repos.Notification, opts.Notify, opts.Notification)

	// 成员与邀请依赖身份目录
	membershipService := NewMembershipService(repos.Project, repos.ProjectMember, repos.UserMemberProject, userService)
	invitationService := NewInvitationService(repos.Invitation, membershipService, userService,
		notificationService, mailService, opts.Invitation)
	projectService := NewProjectService(repos.Project, repos.Invitation, membershipService, userService)

	taskService := NewTaskService(repos.Task, projectService, userService, notificationService, mailService)
	riskService := NewRiskService(repos.Risk, projectService, userService, notificationService, mailService)
	mitigationService := NewMitigationService(repos.Mitigation, repos.Risk, projectService, userService,
		notificationService, mailService)

	housekeepingService := NewHousekeepingService(invitationService, notificationService, membershipService,
		repos.Task, repos.Project, userService, mailService, opts.Housekeeping)

	return &Services{
		User:         userService,
		Settings:     settingsService,
		Mail:         mailService,
		Notification: notificationService,
		Membership:   membershipService,
		Invitation:   invitationService,
		Project:      projectService,
		Task:         taskService,
		Risk:         riskService,
		Mitigation:   mitigationService,
		Housekeeping: housekeepingService,
	}
}
