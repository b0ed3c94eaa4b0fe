//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"coupon-manager/internal/domain/branch"
	"coupon-manager/internal/domain/coupon"
	"coupon-manager/internal/infra"
	"coupon-manager/internal/pkg/clock"
	"coupon-manager/internal/pkg/lockout"
	"coupon-manager/internal/usecase/commands"
	"coupon-manager/tests/common/builder"
	commandsmock "coupon-manager/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// eventOfType matches an appended audit event by its type only.
type eventOfType struct {
	kind coupon.EventType
}

func (m eventOfType) Matches(x any) bool {
	ev, ok := x.(commands.Event)
	return ok && ev.Type == m.kind
}

func (m eventOfType) String() string {
	return fmt.Sprintf("event of type %s", m.kind.String())
}

type CouponCommandsTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockCoupons  *commandsmock.MockCouponRepository
	mockEvents   *commandsmock.MockEventRepository
	mockUsers    *commandsmock.MockUserRepository
	mockNotifier *commandsmock.MockNotifier
	lockouts     *lockout.Store
	clock        *clock.MockClock
	commands     commands.CouponCommands

	staffActor commands.Actor
	adminActor commands.Actor
	staffView  func() *builder.UserBuilder
}

func (s *CouponCommandsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockCoupons = commandsmock.NewMockCouponRepository(s.ctrl)
	s.mockEvents = commandsmock.NewMockEventRepository(s.ctrl)
	s.mockUsers = commandsmock.NewMockUserRepository(s.ctrl)
	s.mockNotifier = commandsmock.NewMockNotifier(s.ctrl)
	s.lockouts = lockout.NewStore()
	s.clock = clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	directory, err := branch.NewDirectory("GDXC:48291,HDSR:11111")
	s.Require().NoError(err)

	s.commands = commands.NewCouponCommands(
		s.mockCoupons, s.mockEvents, s.mockUsers, directory, s.lockouts, s.mockNotifier, s.clock,
	)

	s.staffActor = commands.Actor{ID: uuid.New(), Role: "staff"}
	s.adminActor = commands.Actor{ID: uuid.New(), Role: "admin"}
}

func (s *CouponCommandsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCouponCommandsSuite(t *testing.T) {
	suite.Run(t, new(CouponCommandsTestSuite))
}

func (s *CouponCommandsTestSuite) expectStaffProfile(branchCode string) {
	profile := builder.NewUserBuilder().WithBranch(branchCode).BuildReadModel()
	profile.ID = s.staffActor.ID
	s.mockUsers.EXPECT().FindByID(gomock.Any(), s.staffActor.ID).Return(profile, nil)
}

func (s *CouponCommandsTestSuite) TestIssue() {
	ctx := context.Background()

	s.Run("success: staff issues for own branch", func() {
		req := builder.NewCouponBuilder().BuildIssueRequest()
		view := builder.NewCouponBuilder().BuildView()

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(view, nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventIssue}).Return(nil)
		s.mockNotifier.EXPECT().CouponIssued(gomock.Any(), view)

		got, err := s.commands.Issue(ctx, s.staffActor, req)
		s.Require().NoError(err)
		s.Equal(view.Code, got.Code)
	})

	s.Run("success: admin issues for any branch", func() {
		req := builder.NewCouponBuilder().WithBranch("HDSR").BuildIssueRequest()
		req.BranchPassword = "11111"
		view := builder.NewCouponBuilder().WithBranch("HDSR").BuildView()

		s.mockCoupons.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(view, nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventIssue}).Return(nil)
		s.mockNotifier.EXPECT().CouponIssued(gomock.Any(), view)

		_, err := s.commands.Issue(ctx, s.adminActor, req)
		s.Require().NoError(err)
	})

	s.Run("success: regenerates the code on a collision", func() {
		req := builder.NewCouponBuilder().BuildIssueRequest()
		view := builder.NewCouponBuilder().BuildView()
		dup := infra.WrapRepoErr("insert coupon", nil, infra.KindDuplicateKey)

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil, dup)
		s.mockCoupons.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(view, nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventIssue}).Return(nil)
		s.mockNotifier.EXPECT().CouponIssued(gomock.Any(), view)

		_, err := s.commands.Issue(ctx, s.staffActor, req)
		s.Require().NoError(err)
	})

	s.Run("error: gives up after repeated collisions", func() {
		req := builder.NewCouponBuilder().BuildIssueRequest()
		dup := infra.WrapRepoErr("insert coupon", nil, infra.KindDuplicateKey)

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil, dup).Times(3)

		_, err := s.commands.Issue(ctx, s.staffActor, req)
		s.Require().ErrorIs(err, commands.ErrCodeGeneration)
	})

	s.Run("error: wrong branch password leaves no trace", func() {
		req := builder.NewCouponBuilder().BuildIssueRequest()
		req.BranchPassword = "00000"

		s.expectStaffProfile("GDXC")

		_, err := s.commands.Issue(ctx, s.staffActor, req)
		s.Require().ErrorIs(err, commands.ErrInvalidBranchPassword)
	})

	s.Run("error: unknown branch", func() {
		req := builder.NewCouponBuilder().WithBranch("XXXX").BuildIssueRequest()

		_, err := s.commands.Issue(ctx, s.staffActor, req)
		s.Require().ErrorIs(err, commands.ErrBranchUnknown)
	})

	s.Run("error: staff cannot issue for another branch", func() {
		req := builder.NewCouponBuilder().WithBranch("HDSR").BuildIssueRequest()
		req.BranchPassword = "11111"

		s.expectStaffProfile("GDXC")

		_, err := s.commands.Issue(ctx, s.staffActor, req)
		s.Require().ErrorIs(err, commands.ErrBranchNotAllowed)
	})

	s.Run("error: phone without digits", func() {
		req := builder.NewCouponBuilder().WithPhone("no-digits").BuildIssueRequest()

		s.expectStaffProfile("GDXC")

		_, err := s.commands.Issue(ctx, s.staffActor, req)
		s.Require().ErrorIs(err, commands.ErrValidation)
	})

	s.Run("error: custom discount without text", func() {
		req := builder.NewCouponBuilder().WithDiscount("CUSTOM", nil).BuildIssueRequest()

		s.expectStaffProfile("GDXC")

		_, err := s.commands.Issue(ctx, s.staffActor, req)
		s.Require().ErrorIs(err, commands.ErrValidation)
	})
}

func (s *CouponCommandsTestSuite) TestVerify() {
	ctx := context.Background()
	req := builder.NewCouponBuilder().BuildVerifyRequest()

	s.Run("success: marks the coupon verified and notifies", func() {
		issued := builder.NewCouponBuilder().BuildView()
		verified := builder.NewCouponBuilder().AsVerified("GDXC", s.clock.Now()).BuildView()

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(issued, nil)
		s.mockCoupons.EXPECT().MarkVerified(gomock.Any(), issued.Code, "GDXC", s.clock.Now()).Return(true, nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventVerifySuccess}).Return(nil)
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(verified, nil)
		s.mockNotifier.EXPECT().CouponVerified(gomock.Any(), verified)

		got, err := s.commands.Verify(ctx, s.staffActor, "abcd-2345", req)
		s.Require().NoError(err)
		s.Equal("VERIFIED", got.Status)
	})

	s.Run("error: unknown code", func() {
		notFound := infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), "WXYZ6789").Return(nil, notFound)

		_, err := s.commands.Verify(ctx, s.staffActor, "WXYZ6789", req)
		s.Require().ErrorIs(err, commands.ErrCouponNotFound)
	})

	s.Run("error: blank code short-circuits", func() {
		_, err := s.commands.Verify(ctx, s.staffActor, "  --  ", req)
		s.Require().ErrorIs(err, commands.ErrCouponNotFound)
	})

	s.Run("error: already verified wins over password check", func() {
		used := builder.NewCouponBuilder().AsVerified("GDXC", s.clock.Now()).BuildView()
		badReq := req
		badReq.BranchPassword = "00000"

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), used.Code).Return(used, nil)

		_, err := s.commands.Verify(ctx, s.staffActor, used.Code, badReq)
		s.Require().ErrorIs(err, commands.ErrAlreadyProcessed)
	})

	s.Run("error: wrong password records the attempt", func() {
		issued := builder.NewCouponBuilder().BuildView()
		badReq := req
		badReq.BranchPassword = "00000"

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(issued, nil)
		s.mockCoupons.EXPECT().RecordFailedAttempt(gomock.Any(), issued.Code, s.clock.Now()).Return(int32(1), nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventVerifyFail}).Return(nil)

		_, err := s.commands.Verify(ctx, s.staffActor, issued.Code, badReq)
		s.Require().ErrorIs(err, commands.ErrInvalidBranchPassword)
	})

	s.Run("error: fifth failure arms the lockout", func() {
		issued := builder.NewCouponBuilder().WithAttempts(4).BuildView()
		badReq := req
		badReq.BranchPassword = "00000"

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(issued, nil)
		s.mockCoupons.EXPECT().RecordFailedAttempt(gomock.Any(), issued.Code, s.clock.Now()).Return(int32(5), nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventVerifyFail}).Return(nil)

		_, err := s.commands.Verify(ctx, s.staffActor, issued.Code, badReq)
		s.Require().ErrorIs(err, commands.ErrInvalidBranchPassword)

		// The next attempt bounces off the lock even with the right
		// password, before the store is touched again.
		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(issued, nil)

		_, err = s.commands.Verify(ctx, s.staffActor, issued.Code, req)
		s.Require().ErrorIs(err, commands.ErrVerificationLocked)

		var locked *commands.LockedError
		s.Require().ErrorAs(err, &locked)
		s.Equal(int(lockout.Duration/time.Second), locked.RemainingSeconds)
	})

	s.Run("error: lock expires after the window", func() {
		issued := builder.NewCouponBuilder().WithCode("EFGH2345").BuildView()
		badReq := req
		badReq.BranchPassword = "00000"

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(issued, nil)
		s.mockCoupons.EXPECT().RecordFailedAttempt(gomock.Any(), issued.Code, s.clock.Now()).Return(int32(5), nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventVerifyFail}).Return(nil)

		_, err := s.commands.Verify(ctx, s.staffActor, issued.Code, badReq)
		s.Require().ErrorIs(err, commands.ErrInvalidBranchPassword)

		s.clock.Add(lockout.Duration)

		verified := builder.NewCouponBuilder().WithCode("EFGH2345").AsVerified("GDXC", s.clock.Now()).BuildView()
		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(issued, nil)
		s.mockCoupons.EXPECT().MarkVerified(gomock.Any(), issued.Code, "GDXC", s.clock.Now()).Return(true, nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventVerifySuccess}).Return(nil)
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(verified, nil)
		s.mockNotifier.EXPECT().CouponVerified(gomock.Any(), verified)

		_, err = s.commands.Verify(ctx, s.staffActor, issued.Code, req)
		s.Require().NoError(err)
	})

	s.Run("error: one more failure past the threshold re-arms the lock", func() {
		issued := builder.NewCouponBuilder().WithCode("JKLM6789").WithAttempts(5).BuildView()
		badReq := req
		badReq.BranchPassword = "00000"

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(issued, nil)
		s.mockCoupons.EXPECT().RecordFailedAttempt(gomock.Any(), issued.Code, s.clock.Now()).Return(int32(6), nil)
		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventVerifyFail}).Return(nil)

		_, err := s.commands.Verify(ctx, s.staffActor, issued.Code, badReq)
		s.Require().ErrorIs(err, commands.ErrInvalidBranchPassword)

		// Past the threshold the window restarts on every failure, so
		// the sixth miss locks just like the fifth did.
		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(issued, nil)

		_, err = s.commands.Verify(ctx, s.staffActor, issued.Code, req)
		s.Require().ErrorIs(err, commands.ErrVerificationLocked)
	})

	s.Run("error: concurrent verification wins the race", func() {
		issued := builder.NewCouponBuilder().BuildView()

		s.expectStaffProfile("GDXC")
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), issued.Code).Return(issued, nil)
		s.mockCoupons.EXPECT().MarkVerified(gomock.Any(), issued.Code, "GDXC", s.clock.Now()).Return(false, nil)

		_, err := s.commands.Verify(ctx, s.staffActor, issued.Code, req)
		s.Require().ErrorIs(err, commands.ErrAlreadyProcessed)
	})

	s.Run("error: staff cannot verify for another branch", func() {
		otherReq := req
		otherReq.BranchCode = "HDSR"
		otherReq.BranchPassword = "11111"

		s.expectStaffProfile("GDXC")

		_, err := s.commands.Verify(ctx, s.staffActor, "ABCD2345", otherReq)
		s.Require().ErrorIs(err, commands.ErrBranchNotAllowed)
	})
}

func (s *CouponCommandsTestSuite) TestRecordScan() {
	ctx := context.Background()

	s.Run("success: plain code resolves to a known coupon", func() {
		view := builder.NewCouponBuilder().BuildView()

		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventScan}).Return(nil)
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), view.Code).Return(view, nil)

		result, err := s.commands.RecordScan(ctx, s.staffActor, "abcd 2345")
		s.Require().NoError(err)
		s.Equal("ABCD2345", result.Code)
		s.Require().NotNil(result.Coupon)
	})

	s.Run("success: URL payload with code parameter", func() {
		notFound := infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)

		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventScan}).Return(nil)
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), "WXYZ6789").Return(nil, notFound)

		result, err := s.commands.RecordScan(ctx, s.staffActor, "https://coupon.example.com/verify?code=wxyz6789")
		s.Require().NoError(err)
		s.Equal("WXYZ6789", result.Code)
		s.Nil(result.Coupon)
	})

	s.Run("success: URL payload with code as last path segment", func() {
		view := builder.NewCouponBuilder().BuildView()

		s.mockEvents.EXPECT().Append(gomock.Any(), eventOfType{coupon.EventScan}).Return(nil)
		s.mockCoupons.EXPECT().FindByCode(gomock.Any(), view.Code).Return(view, nil)

		result, err := s.commands.RecordScan(ctx, s.staffActor, "https://coupon.example.com/c/ABCD2345")
		s.Require().NoError(err)
		s.Equal("ABCD2345", result.Code)
	})

	s.Run("error: payload without a valid code", func() {
		_, err := s.commands.RecordScan(ctx, s.staffActor, "not a coupon")
		s.Require().ErrorIs(err, commands.ErrValidation)
	})
}
