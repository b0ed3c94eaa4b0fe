package request

type CreateTemplateRequest struct {
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=issue verify"`
	Content   string `json:"content" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

type UpdateTemplateContentRequest struct {
	Content string `json:"content" binding:"required"`
}
