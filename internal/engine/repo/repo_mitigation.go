package repo

import (
	"context"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
)

type IMitigationRepository interface {
	Create(ctx context.Context, mitigation *model.Mitigation) error
	Get(ctx context.Context, mitigationId string) (*model.Mitigation, error)
	Save(ctx context.Context, mitigation *model.Mitigation) error
	Delete(ctx context.Context, mitigationId string) error
	ListByProject(ctx context.Context, projectId string) ([]model.Mitigation, error)
}

type MitigationRepo struct {
	db database.IDatabase
}

func NewMitigationRepo(db database.IDatabase) IMitigationRepository {
	return &MitigationRepo{db: db}
}

func (r *MitigationRepo) Create(ctx context.Context, mitigation *model.Mitigation) error {
	return r.db.Database().WithContext(ctx).Create(mitigation).Error
}

func (r *MitigationRepo) Get(ctx context.Context, mitigationId string) (*model.Mitigation, error) {
	var mitigation model.Mitigation
	err := r.db.Database().WithContext(ctx).Where("mitigation_id = ?", mitigationId).First(&mitigation).Error
	if err != nil {
		return nil, err
	}
	return &mitigation, nil
}

func (r *MitigationRepo) Save(ctx context.Context, mitigation *model.Mitigation) error {
	return r.db.Database().WithContext(ctx).Save(mitigation).Error
}

func (r *MitigationRepo) Delete(ctx context.Context, mitigationId string) error {
	return r.db.Database().WithContext(ctx).Where("mitigation_id = ?", mitigationId).Delete(&model.Mitigation{}).Error
}

func (r *MitigationRepo) ListByProject(ctx context.Context, projectId string) ([]model.Mitigation, error) {
	var mitigations []model.Mitigation
	err := r.db.Database().WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("created_at DESC").
		Find(&mitigations).Error
	return mitigations, err
}
