package model

// OrganizationalUnit 组织单元表 — 对应 organizational_units
type OrganizationalUnit struct {
	OUID        string `gorm:"column:ou_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"ou_id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"                      json:"name"`
	Description string `gorm:"type:text;not null;default:''"                               json:"description"`
	Timestamps

	Divisions []Division `gorm:"foreignKey:OUID;references:OUID" json:"divisions,omitempty"`
}

// TableName 指定表名
func (OrganizationalUnit) TableName() string { return "organizational_units" }
