package model

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'user'"       json:"role"`
	Timestamps

	// 由 UserRepository 通过关系表加载
	Divisions           []Division           `gorm:"-" json:"divisions,omitempty"`
	OrganizationalUnits []OrganizationalUnit `gorm:"-" json:"organizational_units,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// DivisionIDs 返回用户所属部门 ID 列表
func (u *User) DivisionIDs() []string {
	ids := make([]string, 0, len(u.Divisions))
	for _, d := range u.Divisions {
		ids = append(ids, d.DivisionID)
	}
	return ids
}
