package model

// Division 部门表 — 对应 divisions
// OUID 创建后不再修改
type Division struct {
	DivisionID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"division_id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Description string `gorm:"type:text;not null;default:''"                  json:"description"`
	OUID        string `gorm:"column:ou_id;type:uuid;not null"                json:"ou_id"`
	Timestamps

	OrganizationalUnit *OrganizationalUnit `gorm:"foreignKey:OUID;references:OUID" json:"organizational_unit,omitempty"`
}

// TableName 指定表名
func (Division) TableName() string { return "divisions" }
