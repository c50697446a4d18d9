// Package policy 凭据访问授权规则。
//
// 所有函数均为纯函数：只依赖 Actor（用户 ID、角色、所属部门集合）
// 与 Resource（凭据的创建者与所属部门），不访问数据库。
package policy

import "github.com/Lukhanyo05/cooltech-credentials/internal/model"

// DivisionSet 部门 ID 集合，按值比较
type DivisionSet map[string]struct{}

// NewDivisionSet 由 ID 列表构建集合
func NewDivisionSet(ids ...string) DivisionSet {
	s := make(DivisionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// InDivision 集合是否包含该部门
func (s DivisionSet) InDivision(divisionID string) bool {
	_, ok := s[divisionID]
	return ok
}

// IDs 返回集合中的全部部门 ID（无序）
func (s DivisionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// Actor 发起请求的用户
type Actor struct {
	UserID    string
	Role      model.Role
	Divisions DivisionSet
}

// NewActor 由用户 ID、角色与所属部门构建 Actor
func NewActor(userID string, role model.Role, divisionIDs ...string) Actor {
	return Actor{UserID: userID, Role: role, Divisions: NewDivisionSet(divisionIDs...)}
}

// IsAdmin 是否管理员
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// InDivision 是否属于指定部门
func (a Actor) InDivision(divisionID string) bool {
	return a.Divisions.InDivision(divisionID)
}

// Resource 被访问的凭据
type Resource struct {
	CreatedBy  string
	DivisionID string
}
