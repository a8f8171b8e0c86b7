package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/memberdir/internal/app/auth"
	"github.com/yigit/memberdir/internal/app/models"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/app/services"
	"github.com/yigit/memberdir/internal/middleware"
)

// FamilyController handles member family details
type FamilyController struct {
	familyService services.FamilyService
	authz         *appauth.AuthorizationService
}

// NewFamilyController creates a new FamilyController
func NewFamilyController(familyService services.FamilyService, authz *appauth.AuthorizationService) *FamilyController {
	return &FamilyController{
		familyService: familyService,
		authz:         authz,
	}
}

func (c *FamilyController) memberAccess(ctx *gin.Context) (int64, bool) {
	p, ok := principal(ctx)
	if !ok {
		return 0, false
	}
	id, err := parseIDParam(ctx, "id")
	if err == nil {
		err = c.authz.ValidateMemberAccess(p, id)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, false
	}
	return id, true
}

// GetFamily godoc
// @Summary Get a member's family details
// @Tags family
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.FamilyResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /members/{id}/family [get]
func (c *FamilyController) GetFamily(ctx *gin.Context) {
	memberID, ok := c.memberAccess(ctx)
	if !ok {
		return
	}

	family, err := c.familyService.GetFamily(ctx.Request.Context(), memberID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewFamilyResponse(family), ""))
}

// write runs an add or upsert and answers with status.
func (c *FamilyController) write(ctx *gin.Context, status int, message string,
	fn func(ctx *gin.Context, memberID int64, body dto.RawObject) (*models.MemberFamily, error)) {
	memberID, ok := c.memberAccess(ctx)
	if !ok {
		return
	}
	body, _, err := rawBody(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	family, err := fn(ctx, memberID, body)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(status, dto.NewSuccessResponse(dto.NewFamilyResponse(family), message))
}

// AddFamily godoc
// @Summary Add family details
// @Description Fails when the member already has family details
// @Tags family
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Member ID"
// @Param request body object true "Family details"
// @Success 201 {object} dto.APIResponse{data=dto.FamilyResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /members/{id}/family [post]
func (c *FamilyController) AddFamily(ctx *gin.Context) {
	c.write(ctx, http.StatusCreated, "Family details added successfully",
		func(ctx *gin.Context, memberID int64, body dto.RawObject) (*models.MemberFamily, error) {
			return c.familyService.AddFamily(ctx.Request.Context(), memberID, body)
		})
}

// UpsertFamily godoc
// @Summary Create or replace family details
// @Tags family
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Member ID"
// @Param request body object true "Family details"
// @Success 200 {object} dto.APIResponse{data=dto.FamilyResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /members/{id}/family [put]
func (c *FamilyController) UpsertFamily(ctx *gin.Context) {
	c.write(ctx, http.StatusOK, "Family details saved successfully",
		func(ctx *gin.Context, memberID int64, body dto.RawObject) (*models.MemberFamily, error) {
			return c.familyService.UpsertFamily(ctx.Request.Context(), memberID, body)
		})
}

// DeleteFamily godoc
// @Summary Delete family details
// @Tags family
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Family record ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /families/{id} [delete]
func (c *FamilyController) DeleteFamily(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, err := parseIDParam(ctx, "id")
	if err == nil {
		err = c.authz.ValidateFamilyAccess(ctx.Request.Context(), p, id)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.familyService.DeleteFamily(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Family details deleted successfully"))
}
