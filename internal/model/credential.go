package model

// Credential 共享凭据表 — 对应 credentials
// Password 按配置可能为密文，读写经由 cryptox.Sealer
type Credential struct {
	CredentialID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"credential_id"`
	Title         string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Website       string  `gorm:"type:varchar(500);not null"                     json:"website"`
	Username      string  `gorm:"type:varchar(255);not null"                     json:"username"`
	Password      string  `gorm:"type:text;not null"                             json:"-"`
	Description   string  `gorm:"type:text;not null;default:''"                  json:"description"`
	DivisionID    string  `gorm:"type:uuid;not null;index"                       json:"division_id"`
	CreatedBy     string  `gorm:"type:uuid;not null"                             json:"created_by"`
	LastUpdatedBy *string `gorm:"type:uuid"                                      json:"last_updated_by,omitempty"`
	Timestamps

	// 关联
	Division *Division `gorm:"foreignKey:DivisionID;references:DivisionID"  json:"division,omitempty"`
	Creator  *User     `gorm:"foreignKey:CreatedBy;references:UserID"      json:"creator,omitempty"`
	Updater  *User     `gorm:"foreignKey:LastUpdatedBy;references:UserID"  json:"updater,omitempty"`
}

// TableName 指定表名
func (Credential) TableName() string { return "credentials" }
