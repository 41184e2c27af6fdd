package service

import (
	"github.com/go-arcade/suitx/internal/engine/config"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/internal/pkg/notify"
	"github.com/go-arcade/suitx/internal/pkg/queue"
	"github.com/go-arcade/suitx/pkg/cache"
	"github.com/go-arcade/suitx/pkg/http"
	"github.com/google/wire"
)

// ProviderSet 提供服务层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideServices,
)

// ProvideServices 提供统一的 Services 实例
func ProvideServices(
	repos *repo.Repositories,
	session cache.ICache,
	identityCache *cache.HybridCache,
	httpConf *http.Http,
	notifyManager *notify.NotifyManager,
	taskQueue *queue.TaskQueue,
	mailConf *notify.MailConfig,
	invitationConf *config.InvitationConfig,
	notificationConf *config.NotificationConfig,
	housekeepingConf *config.HousekeepingConfig,
) *Services {
	return NewServices(repos, Options{
		Session:       session,
		IdentityCache: identityCache,
		Auth:          &httpConf.Auth,
		Notify:        notifyManager,
		Queue:         taskQueue,
		Mail:          mailConf,
		Invitation:    invitationConf,
		Notification:  notificationConf,
		Housekeeping:  housekeepingConf,
	})
}
