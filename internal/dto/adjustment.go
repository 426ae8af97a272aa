package dto

// ── 调课模块 DTO（停课 / 补课）──

// CreateCancellationRequest 创建停课记录请求
type CreateCancellationRequest struct {
	ClassSessionID uint   `json:"class_session_id" binding:"required"`
	Date           string `json:"date"             binding:"required"` // "2024-01-06"
	Reason         string `json:"reason"           binding:"omitempty,max=1000"`
	Note           string `json:"note"             binding:"omitempty,max=1000"` // 屏幕上替代显示的文案
}

// UpdateCancellationRequest 更新停课记录请求
type UpdateCancellationRequest struct {
	Reason   *string `json:"reason"    binding:"omitempty,max=1000"`
	Note     *string `json:"note"      binding:"omitempty,max=1000"`
	IsActive *bool   `json:"is_active"`
}

// CancellationResponse 停课记录响应
type CancellationResponse struct {
	ID             uint   `json:"id"`
	ClassSessionID uint   `json:"class_session_id"`
	Date           string `json:"date"`
	Reason         string `json:"reason,omitempty"`
	Note           string `json:"note,omitempty"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// CreateMakeupRequest 创建补课记录请求
type CreateMakeupRequest struct {
	ClassSessionID uint   `json:"class_session_id" binding:"required"`
	Date           string `json:"date"             binding:"required"`
	StartTime      string `json:"start_time"       binding:"required"`
	EndTime        string `json:"end_time"         binding:"required"`
	ClassroomID    uint   `json:"classroom_id"     binding:"required"`
	GroupCode      string `json:"group_code"       binding:"omitempty,max=64"` // 为空时沿用父条目的分组
	Note           string `json:"note"             binding:"omitempty,max=1000"`
}

// UpdateMakeupRequest 更新补课记录请求
type UpdateMakeupRequest struct {
	Date        *string `json:"date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	ClassroomID *uint   `json:"classroom_id"`
	GroupCode   *string `json:"group_code" binding:"omitempty,max=64"`
	Note        *string `json:"note"       binding:"omitempty,max=1000"`
}

// MakeupResponse 补课记录响应
type MakeupResponse struct {
	ID             uint            `json:"id"`
	ClassSessionID uint            `json:"class_session_id"`
	Date           string          `json:"date"`
	StartTime      string          `json:"start_time"`
	EndTime        string          `json:"end_time"`
	Classroom      *ClassroomBrief `json:"classroom,omitempty"`
	GroupCode      string          `json:"group_code"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}
