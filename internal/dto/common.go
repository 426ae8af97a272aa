package dto

// ── 公共 DTO ──

// PaginationRequest 分页查询参数
type PaginationRequest struct {
	Page     int `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// Normalize 填充分页默认值
func (p *PaginationRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

// Offset 计算分页偏移量
func (p *PaginationRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}
