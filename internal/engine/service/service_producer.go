package service

import (
	"context"
	"time"

	"github.com/go-arcade/suitx/internal/engine/model"
)

// producer 任务、风险、缓解措施共用的项目校验与分配通知
type producer struct {
	projects      *ProjectService
	identities    IdentityResolver
	notifications *NotificationService
	mailer        Mailer
	now           func() time.Time
}

func newProducer(projects *ProjectService, identities IdentityResolver, notifications *NotificationService, mailer Mailer) producer {
	return producer{
		projects:      projects,
		identities:    identities,
		notifications: notifications,
		mailer:        mailer,
		now:           time.Now,
	}
}

// assignee 被分配人必须是项目所有者或成员
func (p *producer) assignee(ctx context.Context, project *model.Project, assigneeId string) (*model.Identity, error) {
	identity, err := p.identities.Resolve(ctx, assigneeId)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return nil, InvalidArgument("assignee does not exist")
		}
		return nil, err
	}
	ok, err := p.projects.membership.CanAccess(ctx, project, assigneeId)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, InvalidArgument("assignee must be a member of the project")
	}
	return identity, nil
}

// displayName 解析失败时退回 userId
func (p *producer) displayName(ctx context.Context, userId string) string {
	identity, err := p.identities.Resolve(ctx, userId)
	if err != nil {
		return userId
	}
	return identity.DisplayName()
}

// reassigned 新的被分配人非空、发生变化且不是操作者本人
func reassigned(previous, current, actor string) bool {
	return current != "" && current != previous && current != actor
}
