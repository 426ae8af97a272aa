package model

// Institution 租户（学校/学院）表 — 对应 institutions
// 所有业务数据都以 institution_id 为作用域隔离
type Institution struct {
	ID   uint   `gorm:"primaryKey"                  json:"id"`
	Name string `gorm:"type:varchar(255);not null"  json:"name"`
	Slug string `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	SoftDeleteModel
}

// TableName 指定表名
func (Institution) TableName() string { return "institutions" }
