package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/yungbote/company-registry-backend/internal/platform/apierr"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
	"github.com/yungbote/company-registry-backend/internal/repos"
	"github.com/yungbote/company-registry-backend/internal/requestdata"
	"github.com/yungbote/company-registry-backend/internal/types"
)

type CompanyService interface {
	GetCompanies(ctx context.Context) ([]types.CompanyDTO, error)
	GetCompanyByID(ctx context.Context, companyID uint) (*types.CompanyDTO, error)
	CreateCompany(ctx context.Context, dto *types.CompanyDTO) (*types.CompanyDTO, error)
	UpdateCompany(ctx context.Context, companyID uint, dto *types.CompanyDTO) error
	AddOwners(ctx context.Context, companyID uint, owners []types.OwnerDTO) error
	AddOwner(ctx context.Context, companyID uint, owner types.OwnerDTO) error
	GetOwnerByID(ctx context.Context, companyID, ownerID uint) (*types.OwnerDTO, error)
	CheckSocialSecurityNumber(ctx context.Context, ssn string) (bool, error)
}

type companyService struct {
	log         *logger.Logger
	companyRepo repos.CompanyRepo
	ssnService  SSNValidationService
}

func NewCompanyService(baseLog *logger.Logger, companyRepo repos.CompanyRepo, ssnService SSNValidationService) CompanyService {
	serviceLog := baseLog.With("service", "CompanyService")
	return &companyService{log: serviceLog, companyRepo: companyRepo, ssnService: ssnService}
}

func (cs *companyService) GetCompanies(ctx context.Context) ([]types.CompanyDTO, error) {
	companies, err := cs.companyRepo.GetCompanies(ctx, nil)
	if err != nil {
		return nil, err
	}

	redact := !requestdata.IsAdmin(ctx)
	dtos := make([]types.CompanyDTO, 0, len(companies))
	for _, company := range companies {
		dtos = append(dtos, mapCompanyToDTO(company, redact))
	}
	return dtos, nil
}

func (cs *companyService) GetCompanyByID(ctx context.Context, companyID uint) (*types.CompanyDTO, error) {
	company, err := cs.companyRepo.GetCompanyByID(ctx, nil, companyID)
	if err != nil {
		return nil, err
	}
	dto := mapCompanyToDTO(company, !requestdata.IsAdmin(ctx))
	return &dto, nil
}

func (cs *companyService) CreateCompany(ctx context.Context, dto *types.CompanyDTO) (*types.CompanyDTO, error) {
	if err := validateCompanyDTO(dto); err != nil {
		return nil, err
	}

	company := mapDTOToCompany(dto)
	created, err := cs.companyRepo.CreateCompany(ctx, company)
	if err != nil {
		return nil, err
	}
	cs.log.Info("company created", "company_id", created.ID, "company_name", created.Name)

	result := mapCompanyToDTO(created, !requestdata.IsAdmin(ctx))
	return &result, nil
}

func (cs *companyService) UpdateCompany(ctx context.Context, companyID uint, dto *types.CompanyDTO) error {
	if companyID != dto.ID {
		cs.log.Warn("company id mismatch", "path_id", companyID, "body_id", dto.ID)
		return apierr.BadRequest(fmt.Sprintf("company id mismatch: path %d, body %d", companyID, dto.ID))
	}
	if err := validateCompanyDTO(dto); err != nil {
		return err
	}

	if err := cs.companyRepo.UpdateCompany(ctx, mapDTOToCompany(dto)); err != nil {
		return err
	}
	cs.log.Info("company updated", "company_id", companyID)
	return nil
}

func (cs *companyService) AddOwners(ctx context.Context, companyID uint, owners []types.OwnerDTO) error {
	entities := make([]*types.Owner, 0, len(owners))
	for i := range owners {
		entities = append(entities, mapDTOToOwner(&owners[i]))
	}
	if err := cs.companyRepo.AddOwners(ctx, companyID, entities); err != nil {
		return err
	}
	cs.log.Info("owners added to company", "company_id", companyID, "owner_count", len(owners))
	return nil
}

func (cs *companyService) AddOwner(ctx context.Context, companyID uint, owner types.OwnerDTO) error {
	if err := cs.companyRepo.AddOwner(ctx, companyID, mapDTOToOwner(&owner)); err != nil {
		return err
	}
	cs.log.Info("owner added to company", "company_id", companyID)
	return nil
}

func (cs *companyService) GetOwnerByID(ctx context.Context, companyID, ownerID uint) (*types.OwnerDTO, error) {
	owner, err := cs.companyRepo.GetOwnerByID(ctx, nil, companyID, ownerID)
	if err != nil {
		return nil, err
	}
	dto := mapOwnerToDTO(owner, !requestdata.IsAdmin(ctx))
	return &dto, nil
}

func (cs *companyService) CheckSocialSecurityNumber(ctx context.Context, ssn string) (bool, error) {
	valid, err := cs.ssnService.Validate(ctx, ssn)
	if err != nil {
		if apierr.IsKind(err, apierr.KindBadRequest) || apierr.IsKind(err, apierr.KindExternalService) {
			return false, err
		}
		cs.log.Error("unexpected error during ssn validation", "error", err)
		return false, apierr.Service("error validating the social security number", err)
	}
	return valid, nil
}

func validateCompanyDTO(dto *types.CompanyDTO) error {
	if strings.TrimSpace(dto.Name) == "" {
		return apierr.Validation("company name is required")
	}
	if dto.Email != "" {
		if _, err := mail.ParseAddress(dto.Email); err != nil {
			return apierr.Validation(fmt.Sprintf("company email %q is not a valid address", dto.Email))
		}
	}
	return nil
}

// Mapping between stored entities and outward views. When redact is set the
// social security number is withheld from the view; the stored value is
// never touched.

func mapCompanyToDTO(company *types.Company, redact bool) types.CompanyDTO {
	owners := make([]types.OwnerDTO, 0, len(company.Owners))
	for i := range company.Owners {
		owners = append(owners, mapOwnerToDTO(&company.Owners[i], redact))
	}
	return types.CompanyDTO{
		ID:      company.ID,
		Name:    company.Name,
		Country: company.Country,
		Email:   company.Email,
		Owners:  owners,
	}
}

func mapOwnerToDTO(owner *types.Owner, redact bool) types.OwnerDTO {
	dto := types.OwnerDTO{
		ID:   owner.ID,
		Name: owner.Name,
	}
	if !redact {
		ssn := owner.SocialSecurityNumber
		dto.SocialSecurityNumber = &ssn
	}
	return dto
}

func mapDTOToCompany(dto *types.CompanyDTO) *types.Company {
	owners := make([]types.Owner, 0, len(dto.Owners))
	for i := range dto.Owners {
		owners = append(owners, *mapDTOToOwner(&dto.Owners[i]))
	}
	return &types.Company{
		ID:      dto.ID,
		Name:    dto.Name,
		Country: dto.Country,
		Email:   dto.Email,
		Owners:  owners,
	}
}

func mapDTOToOwner(dto *types.OwnerDTO) *types.Owner {
	owner := &types.Owner{
		ID:   dto.ID,
		Name: dto.Name,
	}
	if dto.SocialSecurityNumber != nil {
		owner.SocialSecurityNumber = *dto.SocialSecurityNumber
	}
	return owner
}
