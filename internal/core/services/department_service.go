package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/google/uuid"
)

// departmentService implements the DepartmentSvcFacade interface
type departmentService struct {
	BaseService
	departmentRepo portsrepo.DepartmentRepository
}

// NewDepartmentService creates a new department service
func NewDepartmentService(repo portsrepo.DepartmentRepository) portssvc.DepartmentSvcFacade {
	return &departmentService{
		departmentRepo: repo,
	}
}

var _ portssvc.DepartmentSvcFacade = (*departmentService)(nil)

func (s *departmentService) CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest, creatorUserID string) (*domain.Department, error) {
	now := time.Now()
	department := domain.Department{
		DepartmentID: uuid.NewString(),
		Name:         req.Name,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.departmentRepo.SaveDepartment(ctx, department); err != nil {
		s.LogError(ctx, err, "Failed to save department",
			slog.String("department_id", department.DepartmentID))
		return nil, err
	}

	s.LogInfo(ctx, "Department created successfully",
		slog.String("department_id", department.DepartmentID),
		slog.String("name", department.Name))
	return &department, nil
}

func (s *departmentService) GetDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	department, err := s.departmentRepo.FindDepartmentByID(ctx, departmentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find department by ID",
				slog.String("department_id", departmentID))
		}
		return nil, err
	}
	return department, nil
}

func (s *departmentService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list departments")
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	if departments == nil {
		return []domain.Department{}, nil
	}
	return departments, nil
}
