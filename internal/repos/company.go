package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/company-registry-backend/internal/platform/apierr"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
	"github.com/yungbote/company-registry-backend/internal/types"
)

type CompanyRepo interface {
	GetCompanies(ctx context.Context, tx *gorm.DB) ([]*types.Company, error)
	GetCompanyByID(ctx context.Context, tx *gorm.DB, companyID uint) (*types.Company, error)
	CreateCompany(ctx context.Context, company *types.Company) (*types.Company, error)
	UpdateCompany(ctx context.Context, company *types.Company) error
	AddOwners(ctx context.Context, companyID uint, owners []*types.Owner) error
	AddOwner(ctx context.Context, companyID uint, owner *types.Owner) error
	GetOwnerByID(ctx context.Context, tx *gorm.DB, companyID, ownerID uint) (*types.Owner, error)
}

type companyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	repoLog := baseLog.With("repo", "CompanyRepo")
	return &companyRepo{db: db, log: repoLog}
}

func (cr *companyRepo) GetCompanies(ctx context.Context, tx *gorm.DB) ([]*types.Company, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Company
	if err := transaction.WithContext(ctx).
		Preload("Owners").
		Find(&results).Error; err != nil {
		return nil, apierr.DataAccess("error while retrieving companies", err)
	}
	return results, nil
}

func (cr *companyRepo) GetCompanyByID(ctx context.Context, tx *gorm.DB, companyID uint) (*types.Company, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var company types.Company
	if err := transaction.WithContext(ctx).
		Preload("Owners").
		First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Sprintf("company with id %d not found", companyID))
		}
		return nil, apierr.DataAccess("error while retrieving company", err)
	}
	return &company, nil
}

func (cr *companyRepo) CreateCompany(ctx context.Context, company *types.Company) (*types.Company, error) {
	if company.Owners == nil {
		company.Owners = []types.Owner{}
	}

	if err := cr.db.WithContext(ctx).Create(company).Error; err != nil {
		return nil, apierr.DataAccess("error while creating company", err)
	}
	return company, nil
}

// UpdateCompany reconciles the stored aggregate against the submitted one:
// scalar fields are overwritten, owners missing from the payload are deleted,
// owners matched by id are updated in place and everything else is inserted
// (re-parenting rows that currently belong to another company). The whole
// reconciliation commits as a single transaction; the guarded version bump
// turns a read-then-write race into a Conflict instead of a silent overwrite.
func (cr *companyRepo) UpdateCompany(ctx context.Context, company *types.Company) error {
	existing, err := cr.GetCompanyByID(ctx, nil, company.ID)
	if err != nil {
		return err
	}
	return cr.reconcile(ctx, existing, company)
}

func (cr *companyRepo) reconcile(ctx context.Context, existing, company *types.Company) error {
	err := cr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&types.Company{}).
			Where("id = ? AND version = ?", existing.ID, existing.Version).
			Updates(map[string]interface{}{
				"name":    company.Name,
				"country": company.Country,
				"email":   company.Email,
				"version": existing.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apierr.Conflict("company was updated by another caller, reload and retry", nil)
		}

		incoming := company.Owners
		incomingIDs := make(map[uint]struct{}, len(incoming))
		for _, owner := range incoming {
			if owner.ID != 0 {
				incomingIDs[owner.ID] = struct{}{}
			}
		}

		currentIDs := make(map[uint]struct{}, len(existing.Owners))
		for _, owner := range existing.Owners {
			currentIDs[owner.ID] = struct{}{}
			if _, keep := incomingIDs[owner.ID]; !keep {
				if err := tx.Delete(&types.Owner{}, owner.ID).Error; err != nil {
					return err
				}
			}
		}

		for i := range incoming {
			owner := incoming[i]
			if _, current := currentIDs[owner.ID]; owner.ID != 0 && current {
				// In-place update; the only path that changes a stored SSN.
				if err := tx.Model(&types.Owner{}).
					Where("id = ?", owner.ID).
					Updates(map[string]interface{}{
						"name":                   owner.Name,
						"social_security_number": owner.SocialSecurityNumber,
					}).Error; err != nil {
					return err
				}
				continue
			}
			if owner.ID != 0 {
				// Adopt: the id belongs to another company's owner, so the
				// row is re-parented here rather than rejected.
				res := tx.Model(&types.Owner{}).
					Where("id = ?", owner.ID).
					Updates(map[string]interface{}{
						"company_id":             existing.ID,
						"name":                   owner.Name,
						"social_security_number": owner.SocialSecurityNumber,
					})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected > 0 {
					continue
				}
				// No such row anywhere; fall through to a fresh insert.
			}
			newOwner := types.Owner{
				Name:                 owner.Name,
				SocialSecurityNumber: owner.SocialSecurityNumber,
				CompanyID:            existing.ID,
			}
			if err := tx.Create(&newOwner).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := apierr.From(err); ok {
			return err
		}
		return apierr.DataAccess("error while updating company", err)
	}
	return nil
}

func (cr *companyRepo) AddOwners(ctx context.Context, companyID uint, owners []*types.Owner) error {
	company, err := cr.GetCompanyByID(ctx, nil, companyID)
	if err != nil {
		return err
	}

	err = cr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, owner := range owners {
			owner.ID = 0
			owner.CompanyID = company.ID
			if err := tx.Create(owner).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apierr.DataAccess("error while adding owners to company", err)
	}
	return nil
}

func (cr *companyRepo) AddOwner(ctx context.Context, companyID uint, owner *types.Owner) error {
	return cr.AddOwners(ctx, companyID, []*types.Owner{owner})
}

func (cr *companyRepo) GetOwnerByID(ctx context.Context, tx *gorm.DB, companyID, ownerID uint) (*types.Owner, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var owner types.Owner
	if err := transaction.WithContext(ctx).
		Where("id = ? AND company_id = ?", ownerID, companyID).
		First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Sprintf("owner with id %d not found in company %d", ownerID, companyID))
		}
		return nil, apierr.DataAccess("error while retrieving owner", err)
	}
	return &owner, nil
}
