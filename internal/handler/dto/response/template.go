package response

import "coupon-manager/internal/usecase/queries"

type TemplateListResponse struct {
	Items []*queries.TemplateView `json:"items"`
}
