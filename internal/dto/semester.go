package dto

// ── 学期模块 DTO ──

// CreateSemesterRequest 创建学期请求
type CreateSemesterRequest struct {
	Title     string `json:"title"      binding:"required,min=2,max=255"`
	StartDate string `json:"start_date" binding:"required"` // "2024-01-06"
	EndDate   string `json:"end_date"   binding:"required"` // "2024-06-20"
}

// UpdateSemesterRequest 更新学期请求
type UpdateSemesterRequest struct {
	Title     *string `json:"title"      binding:"omitempty,min=2,max=255"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Version   int     `json:"version"    binding:"required,min=1"`
}

// SemesterResponse 学期信息响应
type SemesterResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
