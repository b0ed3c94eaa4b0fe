package commands

import (
	"context"

	"github.com/google/uuid"

	"coupon-manager/internal/domain/template"
	reqdto "coupon-manager/internal/handler/dto/request"
	"coupon-manager/internal/infra"
	"coupon-manager/internal/pkg/errs"
	"coupon-manager/internal/usecase/queries"
)

var ErrTemplateNotFound = errs.New("template not found")

type TemplateRepository interface {
	// Insert persists a template. The first template of its type becomes
	// the default regardless of makeDefault; when makeDefault is set the
	// previous default of the same type is cleared in the same
	// transaction.
	Insert(ctx context.Context, t *template.Template, makeDefault bool) (*queries.TemplateView, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (*queries.TemplateView, error)
	// SetDefault atomically moves the default flag of the template's
	// type onto the given template.
	SetDefault(ctx context.Context, id uuid.UUID) (*queries.TemplateView, error)
}

type TemplateCommands interface {
	Create(ctx context.Context, req reqdto.CreateTemplateRequest) (*queries.TemplateView, error)
	UpdateContent(ctx context.Context, id uuid.UUID, req reqdto.UpdateTemplateContentRequest) (*queries.TemplateView, error)
	SetDefault(ctx context.Context, id uuid.UUID) (*queries.TemplateView, error)
}

type templateCommandsImpl struct {
	repo TemplateRepository
}

func NewTemplateCommands(repo TemplateRepository) TemplateCommands {
	return &templateCommandsImpl{repo: repo}
}

func (u *templateCommandsImpl) Create(ctx context.Context, req reqdto.CreateTemplateRequest) (*queries.TemplateView, error) {
	kind, err := template.NewType(req.Type)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	entity, err := template.New(req.Name, kind, req.Content)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	return u.repo.Insert(ctx, entity, req.IsDefault)
}

func (u *templateCommandsImpl) UpdateContent(ctx context.Context, id uuid.UUID, req reqdto.UpdateTemplateContentRequest) (*queries.TemplateView, error) {
	view, err := u.repo.UpdateContent(ctx, id, req.Content)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return view, nil
}

func (u *templateCommandsImpl) SetDefault(ctx context.Context, id uuid.UUID) (*queries.TemplateView, error) {
	view, err := u.repo.SetDefault(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return view, nil
}
