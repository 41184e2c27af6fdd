package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/id"
	"github.com/go-arcade/suitx/pkg/log"
	"golang.org/x/sync/errgroup"
)

type ProjectService struct {
	projectRepo    repo.IProjectRepository
	invitationRepo repo.IInvitationRepository
	membership     *MembershipService
	identities     IdentityResolver
}

func NewProjectService(
	projectRepo repo.IProjectRepository,
	invitationRepo repo.IInvitationRepository,
	membership *MembershipService,
	identities IdentityResolver,
) *ProjectService {
	return &ProjectService{
		projectRepo:    projectRepo,
		invitationRepo: invitationRepo,
		membership:     membership,
		identities:     identities,
	}
}

// Create 创建者成为所有者
func (s *ProjectService) Create(ctx context.Context, userId string, req *model.CreateProjectReq) (*model.ProjectView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, InvalidArgument("project name is required")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, InvalidArgument("end date must not be before start date")
	}
	owner, err := s.identities.Resolve(ctx, userId)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		ProjectId:   id.GetUUIDWithoutDashes(),
		Name:        name,
		Description: req.Description,
		Status:      model.ProjectActive,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		OwnerId:     userId,
		CreatedBy:   owner.Username,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		log.WithContext(ctx).Errorw("create project failed", "name", name, "error", err)
		return nil, fmt.Errorf("create project: %w", err)
	}
	log.WithContext(ctx).Infow("project created", "projectId", project.ProjectId, "ownerId", userId)
	return &model.ProjectView{Project: project, MemberIds: []string{}}, nil
}

func (s *ProjectService) Get(ctx context.Context, projectId, userId string) (*model.ProjectView, error) {
	return s.membership.View(ctx, projectId, userId)
}

// ListMine 拥有的项目在前，参与的项目在后，去重
func (s *ProjectService) ListMine(ctx context.Context, userId string) ([]model.Project, error) {
	identity, err := s.identities.Resolve(ctx, userId)
	if err != nil {
		return nil, err
	}

	var owned, joined []model.Project
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, err := s.projectRepo.ListOwned(gctx, userId, identity.Username)
		if err != nil {
			return fmt.Errorf("list owned projects: %w", err)
		}
		owned = projects
		return nil
	})
	g.Go(func() error {
		projects, err := s.membership.ListMemberProjects(gctx, userId)
		if err != nil {
			return err
		}
		joined = projects
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(owned)+len(joined))
	result := make([]model.Project, 0, len(owned)+len(joined))
	for _, list := range [][]model.Project{owned, joined} {
		for _, p := range list {
			if _, ok := seen[p.ProjectId]; ok {
				continue
			}
			seen[p.ProjectId] = struct{}{}
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *ProjectService) Update(ctx context.Context, projectId, userId string, req *model.UpdateProjectReq) (*model.ProjectView, error) {
	project, err := s.membership.loadProject(ctx, projectId)
	if err != nil {
		return nil, err
	}
	if err := s.membership.requireOwner(ctx, project, userId); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, InvalidArgument("project name is required")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.ProgressPercentage != nil {
		if *req.ProgressPercentage < 0 || *req.ProgressPercentage > 100 {
			return nil, InvalidArgument("progress percentage must be between 0 and 100")
		}
		updates["progress_percentage"] = *req.ProgressPercentage
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	// 旧数据补齐 ownerId
	if project.OwnerId == "" {
		updates["owner_id"] = userId
	}

	if len(updates) > 0 {
		if err := s.projectRepo.Update(ctx, projectId, updates); err != nil {
			return nil, fmt.Errorf("update project: %w", err)
		}
	}
	project, err = s.membership.loadProject(ctx, projectId)
	if err != nil {
		return nil, err
	}
	return s.membership.view(ctx, project)
}

// Delete 取消待处理邀请并清理两侧成员记录
func (s *ProjectService) Delete(ctx context.Context, projectId, userId string) error {
	project, err := s.membership.loadProject(ctx, projectId)
	if err != nil {
		return err
	}
	if err := s.membership.requireOwner(ctx, project, userId); err != nil {
		return err
	}

	cancelled, err := s.invitationRepo.CancelPendingByProject(ctx, projectId)
	if err != nil {
		return fmt.Errorf("cancel project invitations: %w", err)
	}
	if err := s.membership.memberRepo.DeleteByProject(ctx, projectId); err != nil {
		return fmt.Errorf("delete project members: %w", err)
	}
	if err := s.membership.indexRepo.DeleteByProject(ctx, projectId); err != nil {
		return fmt.Errorf("delete membership index: %w", err)
	}
	if err := s.projectRepo.Delete(ctx, projectId); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	log.WithContext(ctx).Infow("project deleted", "projectId", projectId, "cancelledInvitations", cancelled)
	return nil
}

// ensureAccess 供任务、风险等子资源校验项目访问权限
func (s *ProjectService) ensureAccess(ctx context.Context, projectId, userId string) (*model.Project, error) {
	project, err := s.membership.loadProject(ctx, projectId)
	if err != nil {
		return nil, err
	}
	if err := s.membership.requireAccess(ctx, project, userId); err != nil {
		return nil, err
	}
	return project, nil
}

func dateOrNil(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}
