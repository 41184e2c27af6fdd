package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMember_BothSidesVisible(t *testing.T) {
	h := setupInvite(t)
	ctx := context.Background()

	view, err := h.membership.AddMember(ctx, "p", "v", "o")
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, view.MemberIds)
	assert.True(t, h.index.has("v", "p"))

	projects, err := h.membership.ListMemberProjects(ctx, "v")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "p", projects[0].ProjectId)
}

func TestAddMember_Idempotent(t *testing.T) {
	h := setupInvite(t)
	ctx := context.Background()

	first, err := h.membership.AddMember(ctx, "p", "v", "o")
	require.NoError(t, err)
	second, err := h.membership.AddMember(ctx, "p", "v", "o")
	require.NoError(t, err)
	assert.Equal(t, first.MemberIds, second.MemberIds)

	index, _ := h.index.ListAll(ctx)
	assert.Len(t, index, 1)
}

func TestAddMember_OwnerIsNeverMember(t *testing.T) {
	h := setupInvite(t)

	view, err := h.membership.AddMember(context.Background(), "p", "o", "o")
	require.NoError(t, err)
	assert.Empty(t, view.MemberIds)
	assert.False(t, h.index.has("o", "p"))
}

func TestAddMember_Errors(t *testing.T) {
	tests := []struct {
		name      string
		projectId string
		userId    string
		requester string
		wantKind  Kind
	}{
		{name: "non owner", projectId: "p", userId: "v", requester: "x", wantKind: KindForbidden},
		{name: "member cannot add", projectId: "p", userId: "x", requester: "v", wantKind: KindForbidden},
		{name: "missing project", projectId: "nope", userId: "v", requester: "o", wantKind: KindNotFound},
		{name: "missing user", projectId: "p", userId: "ghost", requester: "o", wantKind: KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupInvite(t)
			ctx := context.Background()
			if tt.requester == "v" {
				_, err := h.membership.AddMember(ctx, "p", "v", "o")
				require.NoError(t, err)
			}
			before, _ := h.members.ListMemberIds(ctx, "p")

			_, err := h.membership.AddMember(ctx, tt.projectId, tt.userId, tt.requester)
			assert.Equal(t, tt.wantKind, KindOf(err))

			after, _ := h.members.ListMemberIds(ctx, "p")
			assert.Equal(t, before, after)
		})
	}
}

func TestAddMember_LegacyOwner(t *testing.T) {
	h := setupInvite(t)
	h.addProject("legacy", "Legacy", "", "owner")
	ctx := context.Background()

	view, err := h.membership.AddMember(ctx, "legacy", "v", "o")
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, view.MemberIds)

	_, err = h.membership.AddMember(ctx, "legacy", "x", "v")
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestRemoveMember(t *testing.T) {
	h := setupInvite(t)
	ctx := context.Background()

	_, err := h.membership.AddMember(ctx, "p", "v", "o")
	require.NoError(t, err)

	_, err = h.membership.RemoveMember(ctx, "p", "v", "x")
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = h.membership.RemoveMember(ctx, "p", "o", "o")
	assert.ErrorIs(t, err, ErrOwnerRemoval)

	view, err := h.membership.RemoveMember(ctx, "p", "v", "o")
	require.NoError(t, err)
	assert.Empty(t, view.MemberIds)
	assert.False(t, h.index.has("v", "p"))

	view, err = h.membership.RemoveMember(ctx, "p", "v", "o")
	require.NoError(t, err)
	assert.Empty(t, view.MemberIds)
}

func TestListMembersAndView(t *testing.T) {
	h := setupInvite(t)
	ctx := context.Background()

	_, err := h.membership.AddMember(ctx, "p", "v", "o")
	require.NoError(t, err)

	members, err := h.membership.ListMembers(ctx, "p", "v")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "viewer", members[0].Username)

	_, err = h.membership.ListMembers(ctx, "p", "x")
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = h.membership.View(ctx, "p", "x")
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestReconcile_RebuildsIndex(t *testing.T) {
	h := setupInvite(t)
	ctx := context.Background()

	// 项目侧写入成功、索引缺失，以及一条孤立索引
	require.NoError(t, h.members.Add(ctx, "p", "v"))
	require.NoError(t, h.index.Add(ctx, "x", "p"))

	result, err := h.membership.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Removed)
	assert.True(t, h.index.has("v", "p"))
	assert.False(t, h.index.has("x", "p"))

	result, err = h.membership.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Added+result.Removed)
}
