package model

// Course 课程表 — 对应 courses
type Course struct {
	ID            uint   `gorm:"primaryKey"                 json:"id"`
	InstitutionID uint   `gorm:"not null;index"             json:"institution_id"`
	Title         string `gorm:"type:varchar(255);not null" json:"title"`
	Code          string `gorm:"type:varchar(64)"           json:"code"`
	SoftDeleteModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Professor 教师表 — 对应 professors
type Professor struct {
	ID            uint   `gorm:"primaryKey"                 json:"id"`
	InstitutionID uint   `gorm:"not null;index"             json:"institution_id"`
	FirstName     string `gorm:"type:varchar(128);not null" json:"first_name"`
	LastName      string `gorm:"type:varchar(128);not null" json:"last_name"`
	SoftDeleteModel
}

// TableName 指定表名
func (Professor) TableName() string { return "professors" }

// FullName 教师全名
func (p *Professor) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// Building 教学楼表 — 对应 buildings
type Building struct {
	ID            uint   `gorm:"primaryKey"                 json:"id"`
	InstitutionID uint   `gorm:"not null;index"             json:"institution_id"`
	Name          string `gorm:"type:varchar(255);not null" json:"name"`
	SoftDeleteModel
}

// TableName 指定表名
func (Building) TableName() string { return "buildings" }

// Classroom 教室表 — 对应 classrooms
// 教室通过所属教学楼间接归属租户
type Classroom struct {
	ID         uint   `gorm:"primaryKey"                 json:"id"`
	BuildingID uint   `gorm:"not null;index"             json:"building_id"`
	Name       string `gorm:"type:varchar(128);not null" json:"name"`
	Capacity   *int   `gorm:"type:int"                   json:"capacity,omitempty"`
	SoftDeleteModel

	// 关联
	Building *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
}

// TableName 指定表名
func (Classroom) TableName() string { return "classrooms" }
