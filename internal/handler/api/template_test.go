//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"coupon-manager/internal/handler/api"
	reqdto "coupon-manager/internal/handler/dto/request"
	resdto "coupon-manager/internal/handler/dto/response"
	"coupon-manager/internal/usecase/commands"
	"coupon-manager/internal/usecase/queries"
	"coupon-manager/tests/common/httptest"
	"coupon-manager/tests/common/testutil"
	commandsmock "coupon-manager/tests/mock/commands"
	queriesmock "coupon-manager/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TemplateHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockTemplateCommands
	mockQueries  *queriesmock.MockTemplateQueries
	handler      *api.TemplateHandler
}

func (s *TemplateHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockTemplateCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockTemplateQueries(s.mockCtrl)
	s.handler = api.NewTemplateHandler(s.mockCommands, s.mockQueries)

	s.router.GET("/sms-templates", s.handler.List)
	s.router.POST("/sms-templates", s.handler.Create)
	s.router.PATCH("/sms-templates/:id", s.handler.UpdateContent)
	s.router.POST("/sms-templates/:id/default", s.handler.SetDefault)
}

func (s *TemplateHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestTemplateHandlerSuite(t *testing.T) {
	suite.Run(t, new(TemplateHandlerTestSuite))
}

func templateView(kind string, isDefault bool) *queries.TemplateView {
	return &queries.TemplateView{
		ID:        uuid.New(),
		Name:      "기본 발행 안내",
		Type:      kind,
		Content:   "쿠폰 {{couponCode}}이 발행되었습니다.",
		IsDefault: isDefault,
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *TemplateHandlerTestSuite) TestList() {
	s.Run("success: returns all templates", func() {
		views := []*queries.TemplateView{templateView("issue", true), templateView("verify", false)}

		s.mockQueries.EXPECT().List(gomock.Any()).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sms-templates", nil, "bearer-token")

		var response resdto.TemplateListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 2)
	})
}

func (s *TemplateHandlerTestSuite) TestCreate() {
	url := "/sms-templates"
	reqBody := reqdto.CreateTemplateRequest{
		Name:    "기본 발행 안내",
		Type:    "issue",
		Content: "쿠폰 {{couponCode}}이 발행되었습니다.",
	}

	s.Run("success: returns 201 Created", func() {
		view := templateView("issue", true)

		s.mockCommands.EXPECT().Create(gomock.Any(), reqBody).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response queries.TemplateView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("issue", response.Type)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: name", mutate: testutil.Field("name", nil)},
			{name: "missing field: content", mutate: testutil.Field("content", nil)},
			{name: "type outside issue/verify", mutate: testutil.Field("type", "push")},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})
}

func (s *TemplateHandlerTestSuite) TestUpdateContent() {
	id := uuid.New()
	url := "/sms-templates/" + id.String()
	reqBody := reqdto.UpdateTemplateContentRequest{Content: "수정된 본문 {{couponCode}}"}

	s.Run("success: returns the updated template", func() {
		view := templateView("issue", false)
		view.ID = id
		view.Content = reqBody.Content

		s.mockCommands.EXPECT().UpdateContent(gomock.Any(), id, reqBody).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")

		var response queries.TemplateView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(reqBody.Content, response.Content)
	})

	s.Run("error: 400 on malformed template ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/sms-templates/not-a-uuid", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid template ID")
	})

	s.Run("error: 404 for unknown template", func() {
		s.mockCommands.EXPECT().UpdateContent(gomock.Any(), id, reqBody).
			Return(nil, commands.ErrTemplateNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Template not found")
	})
}

func (s *TemplateHandlerTestSuite) TestSetDefault() {
	id := uuid.New()
	url := "/sms-templates/" + id.String() + "/default"

	s.Run("success: returns the new default", func() {
		view := templateView("verify", true)
		view.ID = id

		s.mockCommands.EXPECT().SetDefault(gomock.Any(), id).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response queries.TemplateView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.IsDefault)
	})

	s.Run("error: 404 for unknown template", func() {
		s.mockCommands.EXPECT().SetDefault(gomock.Any(), id).
			Return(nil, commands.ErrTemplateNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Template not found")
	})
}
