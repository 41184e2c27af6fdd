// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"fmt"

	"github.com/go-arcade/suitx/internal/engine/model"
	"github.com/go-arcade/suitx/internal/engine/repo"
	"github.com/go-arcade/suitx/pkg/log"
	"github.com/go-arcade/suitx/pkg/metrics"
)

// MembershipService 维护项目成员表与用户成员索引
// 先写项目侧（事实来源），再写用户侧索引，索引可由 Reconcile 重建
type MembershipService struct {
	projectRepo repo.IProjectRepository
	memberRepo  repo.IProjectMemberRepository
	indexRepo   repo.IUserMemberProjectRepository
	identities  IdentityResolver
}

func NewMembershipService(
	projectRepo repo.IProjectRepository,
	memberRepo repo.IProjectMemberRepository,
	indexRepo repo.IUserMemberProjectRepository,
	identities IdentityResolver,
) *MembershipService {
	return &MembershipService{
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		indexRepo:   indexRepo,
		identities:  identities,
	}
}

func (s *MembershipService) loadProject(ctx context.Context, projectId string) (*model.Project, error) {
	project, err := s.projectRepo.Get(ctx, projectId)
	if err != nil {
		return nil, notFoundOr(err, "project not found")
	}
	return project, nil
}

// isOwner ownerId 为空的旧数据按 createdBy 用户名判断
func (s *MembershipService) isOwner(ctx context.Context, project *model.Project, userId string) (bool, error) {
	if project.OwnerId != "" {
		return project.OwnerId == userId, nil
	}
	identity, err := s.identities.Resolve(ctx, userId)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return false, nil
		}
		return false, err
	}
	return project.IsOwner(userId, identity.Username), nil
}

// ownerIdOf 返回所有者 userId，旧数据按 createdBy 用户名解析，解析失败返回空串
func (s *MembershipService) ownerIdOf(ctx context.Context, project *model.Project) string {
	if project.OwnerId != "" || project.CreatedBy == "" {
		return project.OwnerId
	}
	identity, err := s.identities.ResolveUsername(ctx, project.CreatedBy)
	if err != nil {
		if KindOf(err) != KindNotFound {
			log.WithContext(ctx).Warnw("resolve legacy project owner failed", "projectId", project.ProjectId, "createdBy", project.CreatedBy, "error", err)
		}
		return ""
	}
	return identity.UserId
}

func (s *MembershipService) requireOwner(ctx context.Context, project *model.Project, requesterId string) error {
	owner, err := s.isOwner(ctx, project, requesterId)
	if err != nil {
		return err
	}
	if !owner {
		return Forbidden("only the project owner can perform this operation")
	}
	return nil
}

// CanAccess 所有者或成员
func (s *MembershipService) CanAccess(ctx context.Context, project *model.Project, userId string) (bool, error) {
	owner, err := s.isOwner(ctx, project, userId)
	if err != nil || owner {
		return owner, err
	}
	member, err := s.memberRepo.IsMember(ctx, project.ProjectId, userId)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return member, nil
}

func (s *MembershipService) requireAccess(ctx context.Context, project *model.Project, userId string) error {
	ok, err := s.CanAccess(ctx, project, userId)
	if err != nil {
		return err
	}
	if !ok {
		return Forbidden("you do not have access to this project")
	}
	return nil
}

func (s *MembershipService) view(ctx context.Context, project *model.Project) (*model.ProjectView, error) {
	memberIds, err := s.memberRepo.ListMemberIds(ctx, project.ProjectId)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if memberIds == nil {
		memberIds = []string{}
	}
	return &model.ProjectView{Project: project, MemberIds: memberIds}, nil
}

// View 所有者或成员可见
func (s *MembershipService) View(ctx context.Context, projectId, requesterId string) (*model.ProjectView, error) {
	project, err := s.loadProject(ctx, projectId)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, project, requesterId); err != nil {
		return nil, err
	}
	return s.view(ctx, project)
}

// AddMember 所有者添加成员，重复添加无副作用
func (s *MembershipService) AddMember(ctx context.Context, projectId, userId, requesterId string) (*model.ProjectView, error) {
	project, err := s.loadProject(ctx, projectId)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, project, requesterId); err != nil {
		return nil, err
	}
	if _, err := s.identities.Resolve(ctx, userId); err != nil {
		return nil, err
	}
	if err := s.join(ctx, project, userId); err != nil {
		return nil, err
	}
	return s.view(ctx, project)
}

// join 幂等加入，所有者不写入成员表
func (s *MembershipService) join(ctx context.Context, project *model.Project, userId string) error {
	owner, err := s.isOwner(ctx, project, userId)
	if err != nil {
		return err
	}
	if owner {
		return nil
	}

	if err := s.memberRepo.Add(ctx, project.ProjectId, userId); err != nil {
		log.WithContext(ctx).Errorw("add project member failed", "projectId", project.ProjectId, "userId", userId, "error", err)
		return fmt.Errorf("add project member: %w", err)
	}
	if err := s.indexRepo.Add(ctx, userId, project.ProjectId); err != nil {
		log.WithContext(ctx).Errorw("add user membership index failed", "projectId", project.ProjectId, "userId", userId, "error", err)
		return fmt.Errorf("add user membership index: %w", err)
	}
	log.WithContext(ctx).Infow("member joined project", "projectId", project.ProjectId, "userId", userId)
	return nil
}

// RemoveMember 所有者移除成员，所有者本身不可移除
func (s *MembershipService) RemoveMember(ctx context.Context, projectId, userId, requesterId string) (*model.ProjectView, error) {
	project, err := s.loadProject(ctx, projectId)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, project, requesterId); err != nil {
		return nil, err
	}
	owner, err := s.isOwner(ctx, project, userId)
	if err != nil {
		return nil, err
	}
	if owner {
		return nil, ErrOwnerRemoval
	}

	if err := s.memberRepo.Remove(ctx, projectId, userId); err != nil {
		return nil, fmt.Errorf("remove project member: %w", err)
	}
	if err := s.indexRepo.Remove(ctx, userId, projectId); err != nil {
		return nil, fmt.Errorf("remove user membership index: %w", err)
	}
	log.WithContext(ctx).Infow("member removed from project", "projectId", projectId, "userId", userId)
	return s.view(ctx, project)
}

// ListMembers 返回成员身份，已注销的用户被跳过
func (s *MembershipService) ListMembers(ctx context.Context, projectId, requesterId string) ([]*model.Identity, error) {
	v, err := s.View(ctx, projectId, requesterId)
	if err != nil {
		return nil, err
	}
	members := make([]*model.Identity, 0, len(v.MemberIds))
	for _, memberId := range v.MemberIds {
		identity, err := s.identities.Resolve(ctx, memberId)
		if err != nil {
			if KindOf(err) == KindNotFound {
				continue
			}
			return nil, err
		}
		members = append(members, identity)
	}
	return members, nil
}

// ListMemberProjects 读取用户侧索引
func (s *MembershipService) ListMemberProjects(ctx context.Context, userId string) ([]model.Project, error) {
	projectIds, err := s.indexRepo.ListProjectIds(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list member projects: %w", err)
	}
	projects, err := s.projectRepo.ListByIds(ctx, projectIds)
	if err != nil {
		return nil, fmt.Errorf("load member projects: %w", err)
	}
	return projects, nil
}

// ReconcileResult 对账结果
type ReconcileResult struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Reconcile 以项目成员表为准重建用户侧索引
func (s *MembershipService) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	members, err := s.memberRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	index, err := s.indexRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list membership index: %w", err)
	}

	type pair struct{ userId, projectId string }
	want := make(map[pair]struct{}, len(members))
	for _, m := range members {
		want[pair{m.UserId, m.ProjectId}] = struct{}{}
	}
	have := make(map[pair]struct{}, len(index))
	for _, m := range index {
		have[pair{m.UserId, m.ProjectId}] = struct{}{}
	}

	result := &ReconcileResult{}
	for p := range want {
		if _, ok := have[p]; ok {
			continue
		}
		if err := s.indexRepo.Add(ctx, p.userId, p.projectId); err != nil {
			return result, fmt.Errorf("repair membership index: %w", err)
		}
		result.Added++
	}
	for p := range have {
		if _, ok := want[p]; ok {
			continue
		}
		if err := s.indexRepo.Remove(ctx, p.userId, p.projectId); err != nil {
			return result, fmt.Errorf("repair membership index: %w", err)
		}
		result.Removed++
	}

	if repaired := result.Added + result.Removed; repaired > 0 {
		metrics.MembershipReconciledTotal.Add(float64(repaired))
		log.WithContext(ctx).Warnw("membership index repaired", "added", result.Added, "removed", result.Removed)
	}
	return result, nil
}
