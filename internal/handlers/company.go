package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/company-registry-backend/internal/platform/apierr"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
	"github.com/yungbote/company-registry-backend/internal/services"
	"github.com/yungbote/company-registry-backend/internal/types"
)

type CompanyHandler struct {
	log            *logger.Logger
	companyService services.CompanyService
}

func NewCompanyHandler(baseLog *logger.Logger, companyService services.CompanyService) *CompanyHandler {
	handlerLog := baseLog.With("handler", "CompanyHandler")
	return &CompanyHandler{log: handlerLog, companyService: companyService}
}

func (ch *CompanyHandler) GetCompanies(c *gin.Context) {
	companies, err := ch.companyService.GetCompanies(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (ch *CompanyHandler) GetCompany(c *gin.Context) {
	companyID, err := uintParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	company, err := ch.companyService.GetCompanyByID(c.Request.Context(), companyID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (ch *CompanyHandler) CreateCompany(c *gin.Context) {
	var dto types.CompanyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		_ = c.Error(apierr.BadRequest("invalid request body"))
		return
	}
	created, err := ch.companyService.CreateCompany(c.Request.Context(), &dto)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (ch *CompanyHandler) UpdateCompany(c *gin.Context) {
	companyID, err := uintParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var dto types.CompanyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		_ = c.Error(apierr.BadRequest("invalid request body"))
		return
	}
	if err := ch.companyService.UpdateCompany(c.Request.Context(), companyID, &dto); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ch *CompanyHandler) AddOwners(c *gin.Context) {
	companyID, err := uintParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var owners []types.OwnerDTO
	if err := c.ShouldBindJSON(&owners); err != nil {
		_ = c.Error(apierr.BadRequest("invalid request body"))
		return
	}
	if err := ch.companyService.AddOwners(c.Request.Context(), companyID, owners); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ch *CompanyHandler) AddOwner(c *gin.Context) {
	companyID, err := uintParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var owner types.OwnerDTO
	if err := c.ShouldBindJSON(&owner); err != nil {
		_ = c.Error(apierr.BadRequest("invalid request body"))
		return
	}
	if err := ch.companyService.AddOwner(c.Request.Context(), companyID, owner); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ch *CompanyHandler) CheckSSN(c *gin.Context) {
	valid, err := ch.companyService.CheckSocialSecurityNumber(c.Request.Context(), c.Param("ssn"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isValid": valid})
}

func (ch *CompanyHandler) GetOwnerSSN(c *gin.Context) {
	companyID, err := uintParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	ownerID, err := uintParam(c, "ownerId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	owner, err := ch.companyService.GetOwnerByID(c.Request.Context(), companyID, ownerID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": owner.Name, "socialSecurityNumber": owner.SocialSecurityNumber})
}

func uintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apierr.BadRequest("path parameter " + name + " must be a positive integer")
	}
	return uint(parsed), nil
}
