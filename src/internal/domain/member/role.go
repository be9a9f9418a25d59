package member

// ===========================
// Role / Actor
// ===========================

// Role 帳號角色
type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// ParseRole 解析角色字串
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleMember, RoleStaff, RoleAdmin:
		return Role(value), nil
	default:
		return "", ErrInvalidRole.WithContext("role", value)
	}
}

// String 返回角色字串
func (r Role) String() string {
	return string(r)
}

// IsPrivileged staff 與 admin 屬於受保護帳號，不能成為開通/編輯/刪除會員的目標
func (r Role) IsPrivileged() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Actor 發起操作的已驗證身分（由認證中介層注入）
type Actor struct {
	ID   MemberID
	Role Role
}

// Require 檢查操作者是否具備指定角色之一
func (a Actor) Require(roles ...Role) error {
	for _, role := range roles {
		if a.Role == role {
			return nil
		}
	}
	required := make([]string, 0, len(roles))
	for _, role := range roles {
		required = append(required, role.String())
	}
	return ErrForbidden.WithContext(
		"actor_role", a.Role.String(),
		"required", required,
	)
}
