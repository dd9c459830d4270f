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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PriceListServiceTestSuite struct {
	suite.Suite
	mockPriceRepo      *MockPriceListRepository
	mockDepartmentRepo *MockDepartmentRepository
	service            portssvc.PriceListSvcFacade
	userID             string
	effectiveFrom      time.Time
}

func (suite *PriceListServiceTestSuite) SetupTest() {
	suite.mockPriceRepo = new(MockPriceListRepository)
	suite.mockDepartmentRepo = new(MockDepartmentRepository)
	suite.service = services.NewPriceListService(suite.mockPriceRepo, suite.mockDepartmentRepo)
	suite.userID = uuid.NewString()
	suite.effectiveFrom = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *PriceListServiceTestSuite) TestCreateServicePrice_Success() {
	ctx := context.Background()
	req := dto.CreateServicePriceRequest{
		ServiceCode:   "OPD-CONSULT",
		Name:          "OPD Consultation",
		BasePrice:     decimal.NewFromInt(500),
		GSTRate:       "EIGHTEEN",
		EffectiveFrom: suite.effectiveFrom,
	}

	suite.mockPriceRepo.On("FindActiveServiceByCode", ctx, "OPD-CONSULT").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPriceRepo.On("SaveServicePrice", ctx, mock.MatchedBy(func(price domain.ServicePrice) bool {
		return price.IsActive && price.GSTRate == domain.GSTEighteen
	})).Return(nil).Once()

	price, err := suite.service.CreateServicePrice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("OPD-CONSULT", price.ServiceCode)
	suite.True(price.IsActive)
	suite.mockPriceRepo.AssertExpectations(suite.T())
}

func (suite *PriceListServiceTestSuite) TestCreateServicePrice_DuplicateActiveCode() {
	ctx := context.Background()
	req := dto.CreateServicePriceRequest{
		ServiceCode:   "OPD-CONSULT",
		Name:          "OPD Consultation",
		BasePrice:     decimal.NewFromInt(500),
		GSTRate:       "EIGHTEEN",
		EffectiveFrom: suite.effectiveFrom,
	}

	suite.mockPriceRepo.On("FindActiveServiceByCode", ctx, "OPD-CONSULT").
		Return(&domain.ServicePrice{ServicePriceID: uuid.NewString(), ServiceCode: "OPD-CONSULT"}, nil).Once()

	price, err := suite.service.CreateServicePrice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDuplicateCode)
	suite.Nil(price)
	suite.mockPriceRepo.AssertNotCalled(suite.T(), "SaveServicePrice", mock.Anything, mock.Anything)
}

func (suite *PriceListServiceTestSuite) TestCreateServicePrice_UnknownHsnSacCode() {
	ctx := context.Background()
	code := "999313"
	req := dto.CreateServicePriceRequest{
		ServiceCode:   "LAB-CBC",
		Name:          "Complete Blood Count",
		HsnSacCode:    &code,
		BasePrice:     decimal.NewFromInt(300),
		GSTRate:       "FIVE",
		EffectiveFrom: suite.effectiveFrom,
	}

	suite.mockPriceRepo.On("FindActiveServiceByCode", ctx, "LAB-CBC").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPriceRepo.On("FindHsnSacCode", ctx, code).Return(nil, apperrors.ErrNotFound).Once()

	price, err := suite.service.CreateServicePrice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrHsnSacCodeNotFound)
	suite.Nil(price)
}

func (suite *PriceListServiceTestSuite) TestUpdateServicePrice_CodeUniquenessExcludesSelf() {
	ctx := context.Background()
	priceID := uuid.NewString()
	existing := &domain.ServicePrice{
		ServicePriceID: priceID,
		ServiceCode:    "OPD-CONSULT",
		Name:           "OPD Consultation",
		BasePrice:      decimal.NewFromInt(500),
		GSTRate:        domain.GSTEighteen,
		EffectiveFrom:  suite.effectiveFrom,
		IsActive:       true,
	}
	newCode := "OPD-CONSULT-2"

	suite.mockPriceRepo.On("FindServicePriceByID", ctx, priceID).Return(existing, nil).Once()
	// The new code is only held by this same row
	suite.mockPriceRepo.On("FindActiveServiceByCode", ctx, newCode).
		Return(&domain.ServicePrice{ServicePriceID: priceID, ServiceCode: newCode}, nil).Once()
	suite.mockPriceRepo.On("UpdateServicePrice", ctx, mock.AnythingOfType("domain.ServicePrice")).Return(nil).Once()

	price, err := suite.service.UpdateServicePrice(ctx, priceID, dto.UpdateServicePriceRequest{ServiceCode: &newCode}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newCode, price.ServiceCode)
}

func (suite *PriceListServiceTestSuite) TestCreatePackagePrice_UnknownComponentRejected() {
	ctx := context.Background()
	missingServiceID := uuid.NewString()
	req := dto.CreatePackagePriceRequest{
		PackageCode:   "HEALTH-CHECK",
		Name:          "Full Body Checkup",
		BasePrice:     decimal.NewFromInt(4999),
		GSTRate:       "EXEMPT",
		EffectiveFrom: suite.effectiveFrom,
		Items: []dto.PackageItemRequest{
			{ServicePriceID: missingServiceID, Quantity: 1},
		},
	}

	suite.mockPriceRepo.On("FindActivePackageByCode", ctx, "HEALTH-CHECK").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPriceRepo.On("FindServicePricesByIDs", ctx, []string{missingServiceID}).
		Return(map[string]domain.ServicePrice{}, nil).Once()

	price, err := suite.service.CreatePackagePrice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(price)
	suite.mockPriceRepo.AssertNotCalled(suite.T(), "SavePackagePrice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PriceListServiceTestSuite) TestCreatePackagePrice_InactiveComponentRejected() {
	ctx := context.Background()
	serviceID := uuid.NewString()
	req := dto.CreatePackagePriceRequest{
		PackageCode:   "HEALTH-CHECK",
		Name:          "Full Body Checkup",
		BasePrice:     decimal.NewFromInt(4999),
		GSTRate:       "EXEMPT",
		EffectiveFrom: suite.effectiveFrom,
		Items: []dto.PackageItemRequest{
			{ServicePriceID: serviceID, Quantity: 1},
		},
	}

	suite.mockPriceRepo.On("FindActivePackageByCode", ctx, "HEALTH-CHECK").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPriceRepo.On("FindServicePricesByIDs", ctx, []string{serviceID}).
		Return(map[string]domain.ServicePrice{
			serviceID: {ServicePriceID: serviceID, ServiceCode: "OLD-SVC", BasePrice: decimal.NewFromInt(500), IsActive: false},
		}, nil).Once()

	price, err := suite.service.CreatePackagePrice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(price)
	suite.mockPriceRepo.AssertNotCalled(suite.T(), "SavePackagePrice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PriceListServiceTestSuite) TestCreatePackagePrice_BasePriceNotReconciled() {
	ctx := context.Background()
	serviceID := uuid.NewString()
	// Component total would be 900, but the listed package price is 750;
	// both are stored as-is.
	req := dto.CreatePackagePriceRequest{
		PackageCode:   "MATERNITY-1",
		Name:          "Maternity Package",
		BasePrice:     decimal.NewFromInt(750),
		GSTRate:       "EXEMPT",
		EffectiveFrom: suite.effectiveFrom,
		Items: []dto.PackageItemRequest{
			{ServicePriceID: serviceID, Quantity: 2, DiscountPercent: decimal.NewFromInt(10)},
		},
	}

	suite.mockPriceRepo.On("FindActivePackageByCode", ctx, "MATERNITY-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPriceRepo.On("FindServicePricesByIDs", ctx, []string{serviceID}).
		Return(map[string]domain.ServicePrice{
			serviceID: {ServicePriceID: serviceID, BasePrice: decimal.NewFromInt(500), IsActive: true},
		}, nil).Once()
	suite.mockPriceRepo.On("SavePackagePrice", ctx, mock.MatchedBy(func(price domain.PackagePrice) bool {
		return price.BasePrice.Equal(decimal.NewFromInt(750))
	}), mock.AnythingOfType("[]domain.PackageItem")).Return(nil).Once()

	price, err := suite.service.CreatePackagePrice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(price.BasePrice.Equal(decimal.NewFromInt(750)))
	suite.Len(price.Items, 1)
}

func (suite *PriceListServiceTestSuite) TestQuoteServicePrice_AppliesDiscountAndGST() {
	ctx := context.Background()
	priceID := uuid.NewString()

	suite.mockPriceRepo.On("FindServicePriceByID", ctx, priceID).Return(&domain.ServicePrice{
		ServicePriceID: priceID,
		ServiceCode:    "OPD-CONSULT",
		BasePrice:      decimal.NewFromInt(500),
		GSTRate:        domain.GSTEighteen,
		IsActive:       true,
	}, nil).Once()

	// 2 x 500 with 10% discount = 900 taxable; 18% GST = 162, split 81/81
	quote, err := suite.service.QuoteServicePrice(ctx, priceID, 2, decimal.NewFromInt(10))

	suite.Require().NoError(err)
	suite.True(quote.TaxableAmount.Equal(decimal.NewFromInt(900)))
	suite.True(quote.GSTAmount.Equal(decimal.NewFromInt(162)))
	suite.True(quote.CGSTAmount.Equal(decimal.NewFromInt(81)))
	suite.True(quote.SGSTAmount.Equal(decimal.NewFromInt(81)))
	suite.True(quote.TotalAmount.Equal(decimal.NewFromInt(1062)))
}

func (suite *PriceListServiceTestSuite) TestQuoteServicePrice_InactiveRejected() {
	ctx := context.Background()
	priceID := uuid.NewString()

	suite.mockPriceRepo.On("FindServicePriceByID", ctx, priceID).Return(&domain.ServicePrice{
		ServicePriceID: priceID,
		ServiceCode:    "OLD-SVC",
		BasePrice:      decimal.NewFromInt(100),
		GSTRate:        domain.GSTFive,
		IsActive:       false,
	}, nil).Once()

	quote, err := suite.service.QuoteServicePrice(ctx, priceID, 1, decimal.Zero)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(quote)
}

func TestPriceListServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PriceListServiceTestSuite))
}
