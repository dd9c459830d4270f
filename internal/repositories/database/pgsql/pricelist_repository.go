package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	"github.com/medantrix/hms_accounting_app/internal/models"
)

type PgxPriceListRepository struct {
	BaseRepository
}

// newPgxPriceListRepository creates a new repository for the price catalogs.
func newPgxPriceListRepository(pool *pgxpool.Pool) portsrepo.PriceListRepositoryFacade {
	return &PgxPriceListRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PriceListRepositoryFacade = (*PgxPriceListRepository)(nil)

const servicePriceColumns = `service_price_id, service_code, name, department_id, hsn_sac_code, base_price, gst_rate, effective_from, effective_to, is_active, created_at, created_by, last_updated_at, last_updated_by`

const packagePriceColumns = `package_price_id, package_code, name, base_price, gst_rate, effective_from, effective_to, is_active, created_at, created_by, last_updated_at, last_updated_by`

const packageItemColumns = `package_item_id, package_price_id, service_price_id, quantity, discount_percent`

func toDomainServicePrice(m models.ServicePrice) domain.ServicePrice {
	return domain.ServicePrice{
		ServicePriceID: m.ServicePriceID,
		ServiceCode:    m.ServiceCode,
		Name:           m.Name,
		DepartmentID:   m.DepartmentID,
		HsnSacCode:     m.HsnSacCode,
		BasePrice:      m.BasePrice,
		GSTRate:        domain.GSTRate(m.GSTRate),
		EffectiveFrom:  m.EffectiveFrom,
		EffectiveTo:    m.EffectiveTo,
		IsActive:       m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainPackagePrice(m models.PackagePrice) domain.PackagePrice {
	return domain.PackagePrice{
		PackagePriceID: m.PackagePriceID,
		PackageCode:    m.PackageCode,
		Name:           m.Name,
		BasePrice:      m.BasePrice,
		GSTRate:        domain.GSTRate(m.GSTRate),
		EffectiveFrom:  m.EffectiveFrom,
		EffectiveTo:    m.EffectiveTo,
		IsActive:       m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanServicePrice(row pgx.Row) (models.ServicePrice, error) {
	var m models.ServicePrice
	err := row.Scan(
		&m.ServicePriceID,
		&m.ServiceCode,
		&m.Name,
		&m.DepartmentID,
		&m.HsnSacCode,
		&m.BasePrice,
		&m.GSTRate,
		&m.EffectiveFrom,
		&m.EffectiveTo,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanPackagePrice(row pgx.Row) (models.PackagePrice, error) {
	var m models.PackagePrice
	err := row.Scan(
		&m.PackagePriceID,
		&m.PackageCode,
		&m.Name,
		&m.BasePrice,
		&m.GSTRate,
		&m.EffectiveFrom,
		&m.EffectiveTo,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveServicePrice inserts a new service catalog entry.
func (r *PgxPriceListRepository) SaveServicePrice(ctx context.Context, price domain.ServicePrice) error {
	query := `
		INSERT INTO service_price_list (` + servicePriceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		price.ServicePriceID,
		price.ServiceCode,
		price.Name,
		price.DepartmentID,
		price.HsnSacCode,
		price.BasePrice,
		string(price.GSTRate),
		price.EffectiveFrom,
		price.EffectiveTo,
		price.IsActive,
		price.CreatedAt,
		price.CreatedBy,
		price.LastUpdatedAt,
		price.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: service code %s already exists", apperrors.ErrDuplicate, price.ServiceCode)
		}
		return fmt.Errorf("failed to save service price %s: %w", price.ServicePriceID, err)
	}
	return nil
}

// FindServicePriceByID retrieves a service catalog entry by its identifier.
func (r *PgxPriceListRepository) FindServicePriceByID(ctx context.Context, servicePriceID string) (*domain.ServicePrice, error) {
	query := `SELECT ` + servicePriceColumns + ` FROM service_price_list WHERE service_price_id = $1;`

	m, err := scanServicePrice(r.Pool.QueryRow(ctx, query, servicePriceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service price %s: %w", servicePriceID, err)
	}

	price := toDomainServicePrice(m)
	return &price, nil
}

// FindActiveServiceByCode retrieves an active catalog entry by service code.
func (r *PgxPriceListRepository) FindActiveServiceByCode(ctx context.Context, serviceCode string) (*domain.ServicePrice, error) {
	query := `SELECT ` + servicePriceColumns + ` FROM service_price_list WHERE service_code = $1 AND is_active = TRUE;`

	m, err := scanServicePrice(r.Pool.QueryRow(ctx, query, serviceCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active service by code %s: %w", serviceCode, err)
	}

	price := toDomainServicePrice(m)
	return &price, nil
}

// FindServicePricesByIDs retrieves multiple service catalog entries keyed by ID.
func (r *PgxPriceListRepository) FindServicePricesByIDs(ctx context.Context, servicePriceIDs []string) (map[string]domain.ServicePrice, error) {
	if len(servicePriceIDs) == 0 {
		return map[string]domain.ServicePrice{}, nil
	}

	query := `SELECT ` + servicePriceColumns + ` FROM service_price_list WHERE service_price_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, servicePriceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query service prices by IDs: %w", err)
	}
	defer rows.Close()

	pricesMap := make(map[string]domain.ServicePrice)
	for rows.Next() {
		m, err := scanServicePrice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service price row during batch fetch: %w", err)
		}
		pricesMap[m.ServicePriceID] = toDomainServicePrice(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service price rows during batch fetch: %w", err)
	}
	return pricesMap, nil
}

// ListServicePrices retrieves a page of service catalog entries plus the
// total row count.
func (r *PgxPriceListRepository) ListServicePrices(ctx context.Context, limit int, offset int, activeOnly bool) ([]domain.ServicePrice, int, error) {
	where := ""
	if activeOnly {
		where = "WHERE is_active = TRUE"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM service_price_list ` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count service prices: %w", err)
	}

	query := `
		SELECT ` + servicePriceColumns + `
		FROM service_price_list ` + where + `
		ORDER BY service_code
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query service prices: %w", err)
	}
	defer rows.Close()

	prices := []domain.ServicePrice{}
	for rows.Next() {
		m, err := scanServicePrice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan service price row: %w", err)
		}
		prices = append(prices, toDomainServicePrice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating service price rows: %w", err)
	}

	return prices, total, nil
}

// UpdateServicePrice updates a service catalog entry's mutable details.
func (r *PgxPriceListRepository) UpdateServicePrice(ctx context.Context, price domain.ServicePrice) error {
	query := `
		UPDATE service_price_list
		SET name = $2, department_id = $3, hsn_sac_code = $4, base_price = $5, gst_rate = $6,
		    effective_from = $7, effective_to = $8, last_updated_at = $9, last_updated_by = $10
		WHERE service_price_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		price.ServicePriceID,
		price.Name,
		price.DepartmentID,
		price.HsnSacCode,
		price.BasePrice,
		string(price.GSTRate),
		price.EffectiveFrom,
		price.EffectiveTo,
		price.LastUpdatedAt,
		price.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update service price %s: %w", price.ServicePriceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateServicePrice marks a service catalog entry as inactive.
func (r *PgxPriceListRepository) DeactivateServicePrice(ctx context.Context, servicePriceID string, userID string, now time.Time) error {
	query := `
		UPDATE service_price_list
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE service_price_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, servicePriceID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate service price %s: %w", servicePriceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindServicePriceByID(ctx, servicePriceID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: service price %s is already inactive", apperrors.ErrValidation, servicePriceID)
	}
	return nil
}

// SavePackagePrice inserts a package and its items atomically.
func (r *PgxPriceListRepository) SavePackagePrice(ctx context.Context, price domain.PackagePrice, items []domain.PackageItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO package_price_list (` + packagePriceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		price.PackagePriceID,
		price.PackageCode,
		price.Name,
		price.BasePrice,
		string(price.GSTRate),
		price.EffectiveFrom,
		price.EffectiveTo,
		price.IsActive,
		price.CreatedAt,
		price.CreatedBy,
		price.LastUpdatedAt,
		price.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: package code %s already exists", apperrors.ErrDuplicate, price.PackageCode)
		}
		return fmt.Errorf("failed to save package price %s: %w", price.PackagePriceID, err)
	}

	if err := insertPackageItemsInTx(ctx, tx, items); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertPackageItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.PackageItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO package_items (` + packageItemColumns + `)
		VALUES ($1, $2, $3, $4, $5);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.PackageItemID,
			item.PackagePriceID,
			item.ServicePriceID,
			item.Quantity,
			item.DiscountPercent,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert package item %s: %w", items[i].PackageItemID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close package item insert batch: %w", err)
	}
	return batchErr
}

func (r *PgxPriceListRepository) findPackageItems(ctx context.Context, packagePriceID string) ([]domain.PackageItem, error) {
	query := `
		SELECT ` + packageItemColumns + `
		FROM package_items
		WHERE package_price_id = $1
		ORDER BY package_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, packagePriceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of package %s: %w", packagePriceID, err)
	}
	defer rows.Close()

	items := []domain.PackageItem{}
	for rows.Next() {
		var m models.PackageItem
		err := rows.Scan(
			&m.PackageItemID,
			&m.PackagePriceID,
			&m.ServicePriceID,
			&m.Quantity,
			&m.DiscountPercent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package item row: %w", err)
		}
		items = append(items, domain.PackageItem{
			PackageItemID:   m.PackageItemID,
			PackagePriceID:  m.PackagePriceID,
			ServicePriceID:  m.ServicePriceID,
			Quantity:        m.Quantity,
			DiscountPercent: m.DiscountPercent,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating package item rows: %w", err)
	}
	return items, nil
}

// FindPackagePriceByID retrieves a package with its items.
func (r *PgxPriceListRepository) FindPackagePriceByID(ctx context.Context, packagePriceID string) (*domain.PackagePrice, error) {
	query := `SELECT ` + packagePriceColumns + ` FROM package_price_list WHERE package_price_id = $1;`

	m, err := scanPackagePrice(r.Pool.QueryRow(ctx, query, packagePriceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find package price %s: %w", packagePriceID, err)
	}

	price := toDomainPackagePrice(m)
	price.Items, err = r.findPackageItems(ctx, packagePriceID)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// FindActivePackageByCode retrieves an active package by its package code.
func (r *PgxPriceListRepository) FindActivePackageByCode(ctx context.Context, packageCode string) (*domain.PackagePrice, error) {
	query := `SELECT ` + packagePriceColumns + ` FROM package_price_list WHERE package_code = $1 AND is_active = TRUE;`

	m, err := scanPackagePrice(r.Pool.QueryRow(ctx, query, packageCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active package by code %s: %w", packageCode, err)
	}

	price := toDomainPackagePrice(m)
	return &price, nil
}

// ListPackagePrices retrieves a page of packages (without items) plus the
// total row count.
func (r *PgxPriceListRepository) ListPackagePrices(ctx context.Context, limit int, offset int, activeOnly bool) ([]domain.PackagePrice, int, error) {
	where := ""
	if activeOnly {
		where = "WHERE is_active = TRUE"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM package_price_list ` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count package prices: %w", err)
	}

	query := `
		SELECT ` + packagePriceColumns + `
		FROM package_price_list ` + where + `
		ORDER BY package_code
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query package prices: %w", err)
	}
	defer rows.Close()

	prices := []domain.PackagePrice{}
	for rows.Next() {
		m, err := scanPackagePrice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan package price row: %w", err)
		}
		prices = append(prices, toDomainPackagePrice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating package price rows: %w", err)
	}

	return prices, total, nil
}

// UpdatePackagePrice patches the package header and, when items is non-nil,
// replaces its items wholesale in the same transaction.
func (r *PgxPriceListRepository) UpdatePackagePrice(ctx context.Context, price domain.PackagePrice, items []domain.PackageItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE package_price_list
		SET name = $2, base_price = $3, gst_rate = $4, effective_from = $5, effective_to = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE package_price_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		price.PackagePriceID,
		price.Name,
		price.BasePrice,
		string(price.GSTRate),
		price.EffectiveFrom,
		price.EffectiveTo,
		price.LastUpdatedAt,
		price.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update package price %s: %w", price.PackagePriceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if items != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM package_items WHERE package_price_id = $1;`, price.PackagePriceID); err != nil {
			return fmt.Errorf("failed to clear items of package %s: %w", price.PackagePriceID, err)
		}
		if err := insertPackageItemsInTx(ctx, tx, items); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// DeactivatePackagePrice marks a package as inactive.
func (r *PgxPriceListRepository) DeactivatePackagePrice(ctx context.Context, packagePriceID string, userID string, now time.Time) error {
	query := `
		UPDATE package_price_list
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE package_price_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, packagePriceID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate package price %s: %w", packagePriceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindPackagePriceByID(ctx, packagePriceID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: package price %s is already inactive", apperrors.ErrValidation, packagePriceID)
	}
	return nil
}

// FindHsnSacCode retrieves an HSN/SAC tax code.
func (r *PgxPriceListRepository) FindHsnSacCode(ctx context.Context, code string) (*domain.HsnSacCode, error) {
	query := `SELECT code, description, is_active FROM hsn_sac_codes WHERE code = $1;`

	var m models.HsnSacCode
	err := r.Pool.QueryRow(ctx, query, code).Scan(&m.Code, &m.Description, &m.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find HSN/SAC code %s: %w", code, err)
	}

	return &domain.HsnSacCode{
		Code:        m.Code,
		Description: m.Description,
		IsActive:    m.IsActive,
	}, nil
}
