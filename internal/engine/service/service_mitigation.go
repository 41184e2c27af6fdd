package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/id"
	"github.com/go-arcade/suitx/pkg/log"
	"gorm.io/gorm"
)

type MitigationService struct {
	producer
	mitigationRepo repo.IMitigationRepository
	riskRepo       repo.IRiskRepository
}

func NewMitigationService(
	mitigationRepo repo.IMitigationRepository,
	riskRepo repo.IRiskRepository,
	projects *ProjectService,
	identities IdentityResolver,
	notifications *NotificationService,
	mailer Mailer,
) *MitigationService {
	return &MitigationService{
		producer:       newProducer(projects, identities, notifications, mailer),
		mitigationRepo: mitigationRepo,
		riskRepo:       riskRepo,
	}
}

func (s *MitigationService) Create(ctx context.Context, projectId, userId string, req *model.MitigationReq) (*model.Mitigation, error) {
	project, err := s.projects.ensureAccess(ctx, projectId, userId)
	if err != nil {
		return nil, err
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return nil, InvalidArgument("mitigation title is required")
	}

	mitigation := &model.Mitigation{
		MitigationId: id.GetUUIDWithoutDashes(),
		ProjectId:    projectId,
		Status:       model.MitigationPlanned,
		Priority:     string(model.PriorityMedium),
		CreatedBy:    userId,
	}
	if err := s.apply(mitigation, req); err != nil {
		return nil, err
	}
	if err := s.checkRisk(ctx, mitigation); err != nil {
		return nil, err
	}

	var assignee *model.Identity
	if mitigation.AssigneeId != "" {
		if assignee, err = s.assignee(ctx, project, mitigation.AssigneeId); err != nil {
			return nil, err
		}
	}
	if err := s.mitigationRepo.Create(ctx, mitigation); err != nil {
		log.WithContext(ctx).Errorw("create mitigation failed", "projectId", projectId, "error", err)
		return nil, fmt.Errorf("create mitigation: %w", err)
	}

	if assignee != nil && reassigned("", mitigation.AssigneeId, userId) {
		s.notifyAssignment(ctx, project, mitigation, assignee, userId)
	}
	return mitigation, nil
}

// checkRisk 关联的风险必须属于同一项目
func (s *MitigationService) checkRisk(ctx context.Context, mitigation *model.Mitigation) error {
	if mitigation.RiskId == "" {
		return nil
	}
	risk, err := s.riskRepo.Get(ctx, mitigation.RiskId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvalidArgument("related risk does not exist")
		}
		return fmt.Errorf("get risk: %w", err)
	}
	if risk.ProjectId != mitigation.ProjectId {
		return InvalidArgument("related risk belongs to another project")
	}
	return nil
}

func (s *MitigationService) apply(mitigation *model.Mitigation, req *model.MitigationReq) error {
	if req.RiskId != nil {
		mitigation.RiskId = *req.RiskId
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return InvalidArgument("mitigation title is required")
		}
		mitigation.Title = title
	}
	if req.Description != nil {
		mitigation.Description = *req.Description
	}
	if req.Status != nil {
		switch *req.Status {
		case model.MitigationPlanned, model.MitigationActive:
			mitigation.CompletedAt = nil
		case model.MitigationCompleted:
			if mitigation.CompletedAt == nil {
				now := s.now()
				mitigation.CompletedAt = &now
			}
			mitigation.ProgressPercentage = 100
		default:
			return InvalidArgument("unknown mitigation status: " + *req.Status)
		}
		mitigation.Status = *req.Status
	}
	if req.Priority != nil {
		mitigation.Priority = *req.Priority
	}
	if req.AssigneeId != nil {
		mitigation.AssigneeId = *req.AssigneeId
	}
	if req.DueDate != nil {
		mitigation.DueDate = dateOrNil(req.DueDate)
	}
	if req.ProgressPercentage != nil {
		p := *req.ProgressPercentage
		if p < 0 || p > 100 {
			return InvalidArgument("progress percentage must be between 0 and 100")
		}
		mitigation.ProgressPercentage = p
	}
	return nil
}

func (s *MitigationService) notifyAssignment(ctx context.Context, project *model.Project, mitigation *model.Mitigation, assignee *model.Identity, actorId string) {
	assigner := s.displayName(ctx, actorId)
	s.notifications.Notify(ctx, model.NewMitigationAssignedNotification(
		assignee.UserId, mitigation.MitigationId, mitigation.Title, project.Name, assigner, s.now()))
	s.mailer.Send(ctx, AssignmentEmail(MailKindMitigation, assignee.Email, assignee.DisplayName(),
		mitigation.Title, project.Name, mitigation.Priority, mitigation.Description, mitigation.DueDate))
}

func (s *MitigationService) load(ctx context.Context, mitigationId, userId string) (*model.Mitigation, *model.Project, error) {
	mitigation, err := s.mitigationRepo.Get(ctx, mitigationId)
	if err != nil {
		return nil, nil, notFoundOr(err, "mitigation not found")
	}
	project, err := s.projects.ensureAccess(ctx, mitigation.ProjectId, userId)
	if err != nil {
		return nil, nil, err
	}
	return mitigation, project, nil
}

func (s *MitigationService) Get(ctx context.Context, mitigationId, userId string) (*model.Mitigation, error) {
	mitigation, _, err := s.load(ctx, mitigationId, userId)
	return mitigation, err
}

func (s *MitigationService) Update(ctx context.Context, mitigationId, userId string, req *model.MitigationReq) (*model.Mitigation, error) {
	mitigation, project, err := s.load(ctx, mitigationId, userId)
	if err != nil {
		return nil, err
	}
	previous := mitigation.AssigneeId
	previousRisk := mitigation.RiskId
	if err := s.apply(mitigation, req); err != nil {
		return nil, err
	}
	if mitigation.RiskId != previousRisk {
		if err := s.checkRisk(ctx, mitigation); err != nil {
			return nil, err
		}
	}

	var assignee *model.Identity
	if reassigned(previous, mitigation.AssigneeId, "") {
		if assignee, err = s.assignee(ctx, project, mitigation.AssigneeId); err != nil {
			return nil, err
		}
	}
	if err := s.mitigationRepo.Save(ctx, mitigation); err != nil {
		return nil, fmt.Errorf("update mitigation: %w", err)
	}

	if assignee != nil && reassigned(previous, mitigation.AssigneeId, userId) {
		s.notifyAssignment(ctx, project, mitigation, assignee, userId)
	}
	return mitigation, nil
}

func (s *MitigationService) Delete(ctx context.Context, mitigationId, userId string) error {
	if _, _, err := s.load(ctx, mitigationId, userId); err != nil {
		return err
	}
	if err := s.mitigationRepo.Delete(ctx, mitigationId); err != nil {
		return fmt.Errorf("delete mitigation: %w", err)
	}
	return nil
}

func (s *MitigationService) ListByProject(ctx context.Context, projectId, userId string) ([]model.Mitigation, error) {
	if _, err := s.projects.ensureAccess(ctx, projectId, userId); err != nil {
		return nil, err
	}
	mitigations, err := s.mitigationRepo.ListByProject(ctx, projectId)
	if err != nil {
		return nil, fmt.Errorf("list mitigations: %w", err)
	}
	return mitigations, nil
}
