//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"coupon-manager/internal/domain/template"
	reqdto "coupon-manager/internal/handler/dto/request"
	"coupon-manager/internal/infra"
	"coupon-manager/internal/usecase/commands"
	"coupon-manager/internal/usecase/queries"
	commandsmock "coupon-manager/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TemplateCommandsTestSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	mockRepo *commandsmock.MockTemplateRepository
	commands commands.TemplateCommands
	ctx      context.Context
}

func (s *TemplateCommandsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = commandsmock.NewMockTemplateRepository(s.mockCtrl)
	s.commands = commands.NewTemplateCommands(s.mockRepo)
	s.ctx = context.Background()
}

func (s *TemplateCommandsTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestTemplateCommandsSuite(t *testing.T) {
	suite.Run(t, new(TemplateCommandsTestSuite))
}

func templateView(name, kind string, isDefault bool) *queries.TemplateView {
	return &queries.TemplateView{
		ID:        uuid.New(),
		Name:      name,
		Type:      kind,
		Content:   "쿠폰 {{couponCode}}이 발행되었습니다.",
		IsDefault: isDefault,
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *TemplateCommandsTestSuite) TestCreate() {
	req := reqdto.CreateTemplateRequest{
		Name:    "기본 발행",
		Type:    "issue",
		Content: "쿠폰 {{couponCode}}이 발행되었습니다.",
	}

	s.Run("success: creates a template", func() {
		expected := templateView(req.Name, req.Type, true)
		s.mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any(), false).
			Return(expected, nil).Times(1)

		view, err := s.commands.Create(s.ctx, req)

		s.NoError(err)
		s.Equal(expected, view)
	})

	s.Run("success: passes the default flag through", func() {
		withDefault := req
		withDefault.IsDefault = true
		s.mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any(), true).
			Return(templateView(req.Name, req.Type, true), nil).Times(1)

		_, err := s.commands.Create(s.ctx, withDefault)
		s.NoError(err)
	})

	s.Run("error: unknown type is a validation error", func() {
		bad := req
		bad.Type = "push"

		_, err := s.commands.Create(s.ctx, bad)

		s.ErrorIs(err, commands.ErrValidation)
	})

	s.Run("error: empty content is a validation error", func() {
		bad := req
		bad.Content = "   "

		_, err := s.commands.Create(s.ctx, bad)

		s.ErrorIs(err, commands.ErrValidation)
		s.ErrorIs(err, template.ErrContentMissing)
	})
}

func (s *TemplateCommandsTestSuite) TestUpdateContent() {
	id := uuid.New()
	req := reqdto.UpdateTemplateContentRequest{Content: "쿠폰 {{couponCode}} 사용 완료"}

	s.Run("success: updates the content", func() {
		expected := templateView("기본 검증", "verify", true)
		s.mockRepo.EXPECT().UpdateContent(gomock.Any(), id, req.Content).
			Return(expected, nil).Times(1)

		view, err := s.commands.UpdateContent(s.ctx, id, req)

		s.NoError(err)
		s.Equal(expected, view)
	})

	s.Run("error: unknown template id", func() {
		s.mockRepo.EXPECT().UpdateContent(gomock.Any(), id, req.Content).
			Return(nil, infra.WrapRepoErr("update template", nil, infra.KindNotFound)).Times(1)

		_, err := s.commands.UpdateContent(s.ctx, id, req)

		s.ErrorIs(err, commands.ErrTemplateNotFound)
	})
}

func (s *TemplateCommandsTestSuite) TestSetDefault() {
	id := uuid.New()

	s.Run("success: promotes the template to default", func() {
		expected := templateView("이벤트 발행", "issue", true)
		s.mockRepo.EXPECT().SetDefault(gomock.Any(), id).
			Return(expected, nil).Times(1)

		view, err := s.commands.SetDefault(s.ctx, id)

		s.NoError(err)
		s.True(view.IsDefault)
	})

	s.Run("error: unknown template id", func() {
		s.mockRepo.EXPECT().SetDefault(gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("set default", nil, infra.KindNotFound)).Times(1)

		_, err := s.commands.SetDefault(s.ctx, id)

		s.ErrorIs(err, commands.ErrTemplateNotFound)
	})
}
