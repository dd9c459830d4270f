package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/core/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type FinancialYearServiceTestSuite struct {
	suite.Suite
	mockYearRepo *MockFinancialYearRepository
	service      portssvc.FinancialYearSvcFacade
	userID       string
	year         domain.FinancialYear
}

func (suite *FinancialYearServiceTestSuite) SetupTest() {
	suite.mockYearRepo = new(MockFinancialYearRepository)
	suite.service = services.NewFinancialYearService(suite.mockYearRepo)
	suite.userID = uuid.NewString()
	suite.year = domain.FinancialYear{
		FinancialYearID: uuid.NewString(),
		Name:            "FY 2025-26",
		StartDate:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:          domain.FinancialYearActive,
	}
}

func (suite *FinancialYearServiceTestSuite) TestCreateFinancialYear_Success() {
	ctx := context.Background()
	req := dto.CreateFinancialYearRequest{
		Name:      "FY 2025-26",
		StartDate: suite.year.StartDate,
		EndDate:   suite.year.EndDate,
	}

	suite.mockYearRepo.On("SaveFinancialYear", ctx, mock.MatchedBy(func(year domain.FinancialYear) bool {
		return year.Status == domain.FinancialYearActive && year.Name == req.Name
	})).Return(nil).Once()

	year, err := suite.service.CreateFinancialYear(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.FinancialYearActive, year.Status)
	suite.Equal(suite.userID, year.CreatedBy)
	suite.mockYearRepo.AssertExpectations(suite.T())
}

func (suite *FinancialYearServiceTestSuite) TestCreateFinancialYear_InvertedWindowRejected() {
	ctx := context.Background()
	req := dto.CreateFinancialYearRequest{
		Name:      "FY backwards",
		StartDate: suite.year.EndDate,
		EndDate:   suite.year.StartDate,
	}

	year, err := suite.service.CreateFinancialYear(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(year)
	suite.mockYearRepo.AssertNotCalled(suite.T(), "SaveFinancialYear", mock.Anything, mock.Anything)
}

func (suite *FinancialYearServiceTestSuite) TestCloseFinancialYear_Success() {
	ctx := context.Background()

	suite.mockYearRepo.On("FindFinancialYearByID", ctx, suite.year.FinancialYearID).Return(&suite.year, nil).Once()
	suite.mockYearRepo.On("CloseFinancialYear", ctx, suite.year.FinancialYearID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	year, err := suite.service.CloseFinancialYear(ctx, suite.year.FinancialYearID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.FinancialYearClosed, year.Status)
	suite.mockYearRepo.AssertExpectations(suite.T())
}

func (suite *FinancialYearServiceTestSuite) TestCloseFinancialYear_AlreadyClosed() {
	ctx := context.Background()
	closed := suite.year
	closed.Status = domain.FinancialYearClosed

	suite.mockYearRepo.On("FindFinancialYearByID", ctx, closed.FinancialYearID).Return(&closed, nil).Once()

	year, err := suite.service.CloseFinancialYear(ctx, closed.FinancialYearID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(year)
	suite.mockYearRepo.AssertNotCalled(suite.T(), "CloseFinancialYear", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinancialYearServiceTestSuite) TestAssertPostable_Active() {
	ctx := context.Background()

	suite.mockYearRepo.On("FindFinancialYearByID", ctx, suite.year.FinancialYearID).Return(&suite.year, nil).Once()

	err := suite.service.AssertPostable(ctx, suite.year.FinancialYearID, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))

	suite.NoError(err)
}

func (suite *FinancialYearServiceTestSuite) TestAssertPostable_Closed() {
	ctx := context.Background()
	closed := suite.year
	closed.Status = domain.FinancialYearClosed

	suite.mockYearRepo.On("FindFinancialYearByID", ctx, closed.FinancialYearID).Return(&closed, nil).Once()

	err := suite.service.AssertPostable(ctx, closed.FinancialYearID, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFinancialYearClosed)
}

func (suite *FinancialYearServiceTestSuite) TestAssertPostable_DateOutsideWindow() {
	ctx := context.Background()

	suite.mockYearRepo.On("FindFinancialYearByID", ctx, suite.year.FinancialYearID).Return(&suite.year, nil).Once()

	err := suite.service.AssertPostable(ctx, suite.year.FinancialYearID, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDateOutsideFinancialYear)
}

func (suite *FinancialYearServiceTestSuite) TestAssertPostable_BoundaryDatesIncluded() {
	ctx := context.Background()

	suite.mockYearRepo.On("FindFinancialYearByID", ctx, suite.year.FinancialYearID).Return(&suite.year, nil).Twice()

	suite.NoError(suite.service.AssertPostable(ctx, suite.year.FinancialYearID, suite.year.StartDate))
	suite.NoError(suite.service.AssertPostable(ctx, suite.year.FinancialYearID, suite.year.EndDate))
}

func (suite *FinancialYearServiceTestSuite) TestAssertPostable_NotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.mockYearRepo.On("FindFinancialYearByID", ctx, missingID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AssertPostable(ctx, missingID, time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrFinancialYearNotFound)
}

func TestFinancialYearServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FinancialYearServiceTestSuite))
}
