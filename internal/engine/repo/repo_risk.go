package repo

import (
	"context"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/pkg/database"
)

type IRiskRepository interface {
	Create(ctx context.Context, risk *model.Risk) error
	Get(ctx context.Context, riskId string) (*model.Risk, error)
	Save(ctx context.Context, risk *model.Risk) error
	Delete(ctx context.Context, riskId string) error
	ListByProject(ctx context.Context, projectId string) ([]model.Risk, error)
}

type RiskRepo struct {
	db database.IDatabase
}

func NewRiskRepo(db database.IDatabase) IRiskRepository {
	return &RiskRepo{db: db}
}

func (r *RiskRepo) Create(ctx context.Context, risk *model.Risk) error {
	return r.db.Database().WithContext(ctx).Create(risk).Error
}

func (r *RiskRepo) Get(ctx context.Context, riskId string) (*model.Risk, error) {
	var risk model.Risk
	err := r.db.Database().WithContext(ctx).Where("risk_id = ?", riskId).First(&risk).Error
	if err != nil {
		return nil, err
	}
	return &risk, nil
}

func (r *RiskRepo) Save(ctx context.Context, risk *model.Risk) error {
	return r.db.Database().WithContext(ctx).Save(risk).Error
}

func (r *RiskRepo) Delete(ctx context.Context, riskId string) error {
	return r.db.Database().WithContext(ctx).Where("risk_id = ?", riskId).Delete(&model.Risk{}).Error
}

func (r *RiskRepo) ListByProject(ctx context.Context, projectId string) ([]model.Risk, error) {
	var risks []model.Risk
	err := r.db.Database().WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("created_at DESC").
		Find(&risks).Error
	return risks, err
}
