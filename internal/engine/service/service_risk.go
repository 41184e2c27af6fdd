package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/id"
	"github.com/go-arcade/suitx/pkg/log"
)

type RiskService struct {
	producer
	riskRepo repo.IRiskRepository
}

func NewRiskService(
	riskRepo repo.IRiskRepository,
	projects *ProjectService,
	identities IdentityResolver,
	notifications *NotificationService,
	mailer Mailer,
) *RiskService {
	return &RiskService{
		producer: newProducer(projects, identities, notifications, mailer),
		riskRepo: riskRepo,
	}
}

func validSeverity(severity string) bool {
	switch severity {
	case model.SeverityLow, model.SeverityMedium, model.SeverityHigh, model.SeverityCritical:
		return true
	}
	return false
}

// Create 严重风险通知项目所有者
func (s *RiskService) Create(ctx context.Context, projectId, userId string, req *model.RiskReq) (*model.Risk, error) {
	project, err := s.projects.ensureAccess(ctx, projectId, userId)
	if err != nil {
		return nil, err
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return nil, InvalidArgument("risk title is required")
	}

	risk := &model.Risk{
		RiskId:    id.GetUUIDWithoutDashes(),
		ProjectId: projectId,
		Severity:  model.SeverityMedium,
		Status:    model.RiskActive,
		CreatedBy: userId,
	}
	if err := s.apply(risk, req); err != nil {
		return nil, err
	}
	if risk.AssigneeId != "" {
		if _, err := s.assignee(ctx, project, risk.AssigneeId); err != nil {
			return nil, err
		}
	}
	if err := s.riskRepo.Create(ctx, risk); err != nil {
		log.WithContext(ctx).Errorw("create risk failed", "projectId", projectId, "error", err)
		return nil, fmt.Errorf("create risk: %w", err)
	}

	if !risk.IsSevere() {
		return risk, nil
	}
	if ownerId := s.projects.membership.ownerIdOf(ctx, project); ownerId != "" {
		s.notifications.Notify(ctx, model.NewRiskDetectedNotification(
			ownerId, risk.RiskId, risk.Title, project.Name, risk.Severity, s.now()))
	}
	return risk, nil
}

func (s *RiskService) apply(risk *model.Risk, req *model.RiskReq) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return InvalidArgument("risk title is required")
		}
		risk.Title = title
	}
	if req.Description != nil {
		risk.Description = *req.Description
	}
	if req.Type != nil {
		risk.Type = *req.Type
	}
	if req.Severity != nil {
		if !validSeverity(*req.Severity) {
			return InvalidArgument("unknown risk severity: " + *req.Severity)
		}
		risk.Severity = *req.Severity
	}
	if req.Status != nil {
		switch *req.Status {
		case model.RiskActive:
			risk.ResolvedAt = nil
		case model.RiskResolved, model.RiskIgnored:
			if risk.ResolvedAt == nil {
				now := s.now()
				risk.ResolvedAt = &now
			}
		default:
			return InvalidArgument("unknown risk status: " + *req.Status)
		}
		risk.Status = *req.Status
	}
	if req.AssigneeId != nil {
		risk.AssigneeId = *req.AssigneeId
	}
	return nil
}

func (s *RiskService) load(ctx context.Context, riskId, userId string) (*model.Risk, *model.Project, error) {
	risk, err := s.riskRepo.Get(ctx, riskId)
	if err != nil {
		return nil, nil, notFoundOr(err, "risk not found")
	}
	project, err := s.projects.ensureAccess(ctx, risk.ProjectId, userId)
	if err != nil {
		return nil, nil, err
	}
	return risk, project, nil
}

func (s *RiskService) Get(ctx context.Context, riskId, userId string) (*model.Risk, error) {
	risk, _, err := s.load(ctx, riskId, userId)
	return risk, err
}

func (s *RiskService) Update(ctx context.Context, riskId, userId string, req *model.RiskReq) (*model.Risk, error) {
	risk, project, err := s.load(ctx, riskId, userId)
	if err != nil {
		return nil, err
	}
	previous := risk.AssigneeId
	if err := s.apply(risk, req); err != nil {
		return nil, err
	}
	if reassigned(previous, risk.AssigneeId, "") {
		if _, err := s.assignee(ctx, project, risk.AssigneeId); err != nil {
			return nil, err
		}
	}
	if err := s.riskRepo.Save(ctx, risk); err != nil {
		return nil, fmt.Errorf("update risk: %w", err)
	}
	return risk, nil
}

func (s *RiskService) Delete(ctx context.Context, riskId, userId string) error {
	if _, _, err := s.load(ctx, riskId, userId); err != nil {
		return err
	}
	if err := s.riskRepo.Delete(ctx, riskId); err != nil {
		return fmt.Errorf("delete risk: %w", err)
	}
	return nil
}

func (s *RiskService) ListByProject(ctx context.Context, projectId, userId string) ([]model.Risk, error) {
	if _, err := s.projects.ensureAccess(ctx, projectId, userId); err != nil {
		return nil, err
	}
	risks, err := s.riskRepo.ListByProject(ctx, projectId)
	if err != nil {
		return nil, fmt.Errorf("list risks: %w", err)
	}
	return risks, nil
}
