package model

import "time"

// UserDivision 用户-部门关系表 — 对应 user_divisions
// 复合主键 (user_id, division_id)：一行同时表示 User.divisions 与 Division.users
type UserDivision struct {
	UserID     string    `gorm:"type:uuid;primaryKey"                json:"user_id"`
	DivisionID string    `gorm:"type:uuid;primaryKey"                json:"division_id"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"created_at"`
}

// TableName 指定表名
func (UserDivision) TableName() string { return "user_divisions" }

// UserOrganizationalUnit 用户-组织单元关系表 — 对应 user_organizational_units
type UserOrganizationalUnit struct {
	UserID    string    `gorm:"type:uuid;primaryKey"               json:"user_id"`
	OUID      string    `gorm:"column:ou_id;type:uuid;primaryKey"  json:"ou_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (UserOrganizationalUnit) TableName() string { return "user_organizational_units" }
