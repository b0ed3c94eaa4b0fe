package queries

import (
	"context"

	"coupon-manager/internal/domain/template"
	"coupon-manager/internal/infra"
	"coupon-manager/internal/pkg/errs"
)

var (
	ErrTemplateNotFound  = errs.New("template not found")
	ErrNoDefaultTemplate = errs.New("no default template for type")
)

type TemplateQueries interface {
	List(ctx context.Context) ([]*TemplateView, error)
	GetDefault(ctx context.Context, kind template.Type) (*TemplateView, error)
}

type TemplateReadStore interface {
	FindAll(ctx context.Context) ([]*TemplateView, error)
	FindDefaultByType(ctx context.Context, kind string) (*TemplateView, error)
}

type templateQueriesImpl struct {
	readStore TemplateReadStore
}

func NewTemplateQueries(readStore TemplateReadStore) TemplateQueries {
	return &templateQueriesImpl{readStore: readStore}
}

func (q *templateQueriesImpl) List(ctx context.Context) ([]*TemplateView, error) {
	return q.readStore.FindAll(ctx)
}

func (q *templateQueriesImpl) GetDefault(ctx context.Context, kind template.Type) (*TemplateView, error) {
	if !kind.IsValid() {
		return nil, template.ErrInvalidType
	}

	view, err := q.readStore.FindDefaultByType(ctx, kind.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNoDefaultTemplate
		}
		return nil, err
	}
	return view, nil
}
