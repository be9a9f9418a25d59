package member

import (
	"context"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ListMembersQuery 帳號列表查詢
//
// Roles 為空時：staff 只能看到 member；admin 看到全部角色。
type ListMembersQuery struct {
	Actor    member.Actor
	Roles    []string
	Search   string
	Page     int
	PageSize int
}

// ListMembersResult 列表結果
type ListMembersResult struct {
	Members []MemberDTO
	Page    PageInfo
}

// ListMembersUseCase 帳號列表（staff：會員列表；admin：全部帳號）
type ListMembersUseCase interface {
	Execute(ctx context.Context, query ListMembersQuery) (*ListMembersResult, error)
}

// ListMembersUseCaseImpl 實作
type ListMembersUseCaseImpl struct {
	memberRepo member.MemberRepository
	clock      shared.Clock
}

// NewListMembersUseCase 建構函數
func NewListMembersUseCase(memberRepo member.MemberRepository, clock shared.Clock) ListMembersUseCase {
	return &ListMembersUseCaseImpl{memberRepo: memberRepo, clock: clock}
}

// Execute 執行查詢
func (uc *ListMembersUseCaseImpl) Execute(ctx context.Context, query ListMembersQuery) (*ListMembersResult, error) {
	if err := query.Actor.Require(member.RoleStaff, member.RoleAdmin); err != nil {
		return nil, err
	}

	roles, err := uc.visibleRoles(query)
	if err != nil {
		return nil, err
	}

	page := shared.NewPage(query.Page, query.PageSize)
	members, total, err := uc.memberRepo.List(nil, member.ListFilter{
		Roles:  roles,
		Search: query.Search,
		Page:   page,
	})
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	result := &ListMembersResult{
		Members: make([]MemberDTO, 0, len(members)),
		Page: PageInfo{
			Page:       page.Number,
			PageSize:   page.Size,
			Total:      total,
			TotalPages: page.TotalPages(total),
		},
	}
	for _, m := range members {
		result.Members = append(result.Members, toMemberDTO(m, now))
	}
	return result, nil
}

// visibleRoles staff 只能查詢 member
func (uc *ListMembersUseCaseImpl) visibleRoles(query ListMembersQuery) ([]member.Role, error) {
	if query.Actor.Role == member.RoleStaff {
		for _, raw := range query.Roles {
			if raw != member.RoleMember.String() {
				return nil, member.ErrForbidden.WithContext("role_filter", raw)
			}
		}
		return []member.Role{member.RoleMember}, nil
	}

	roles := make([]member.Role, 0, len(query.Roles))
	for _, raw := range query.Roles {
		role, err := member.ParseRole(raw)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}
