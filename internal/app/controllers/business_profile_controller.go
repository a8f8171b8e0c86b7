package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/memberdir/internal/app/auth"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/app/services"
	"github.com/yigit/memberdir/internal/middleware"
)

// BusinessProfileController handles business profile operations
type BusinessProfileController struct {
	profileService services.BusinessProfileService
	authz          *appauth.AuthorizationService
}

// NewBusinessProfileController creates a new BusinessProfileController
func NewBusinessProfileController(profileService services.BusinessProfileService, authz *appauth.AuthorizationService) *BusinessProfileController {
	return &BusinessProfileController{
		profileService: profileService,
		authz:          authz,
	}
}

// profileAccess parses :id and checks that the caller owns the profile.
func (c *BusinessProfileController) profileAccess(ctx *gin.Context) (int64, bool) {
	p, ok := principal(ctx)
	if !ok {
		return 0, false
	}
	id, err := parseIDParam(ctx, "id")
	if err == nil {
		err = c.authz.ValidateProfileAccess(ctx.Request.Context(), p, id)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, false
	}
	return id, true
}

// CreateForMember godoc
// @Summary Add a business profile to a member
// @Description The profile may be sent flat or under business_profile. Uploads: business_profile_image, media_gallery.
// @Tags business-profiles
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Member ID"
// @Param business_profile formData string false "JSON object with the profile"
// @Param business_profile_image formData file false "Profile image"
// @Param media_gallery formData file false "Gallery files"
// @Success 201 {object} dto.APIResponse{data=models.BusinessProfile}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /members/{id}/business-profiles [post]
func (c *BusinessProfileController) CreateForMember(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	memberID, err := parseIDParam(ctx, "id")
	if err == nil {
		err = c.authz.ValidateMemberAccess(p, memberID)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	body, form, err := rawBody(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	profile, err := c.profileService.CreateForMember(ctx.Request.Context(), memberID, body, services.ProfileFilesFromForm(form))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(profile, "Business profile created successfully"))
}

// ListByMember godoc
// @Summary List a member's business profiles
// @Tags business-profiles
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Member ID"
// @Success 200 {object} dto.APIResponse{data=[]models.BusinessProfile}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /members/{id}/business-profiles [get]
func (c *BusinessProfileController) ListByMember(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	memberID, err := parseIDParam(ctx, "id")
	if err == nil {
		err = c.authz.ValidateMemberAccess(p, memberID)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	profiles, err := c.profileService.ListByMember(ctx.Request.Context(), memberID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profiles, ""))
}

// GetByID godoc
// @Summary Get a business profile
// @Tags business-profiles
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Business profile ID"
// @Success 200 {object} dto.APIResponse{data=models.BusinessProfile}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /business-profiles/{id} [get]
func (c *BusinessProfileController) GetByID(ctx *gin.Context) {
	id, ok := c.profileAccess(ctx)
	if !ok {
		return
	}

	profile, err := c.profileService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, ""))
}

// Update godoc
// @Summary Update a business profile
// @Description Partial update. Omitted fields are kept unless a business type change makes them inapplicable.
// @Description removed_media lists stored paths to drop; new media_gallery files are appended.
// @Tags business-profiles
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Business profile ID"
// @Param business_profile formData string false "JSON object with the changed fields"
// @Param removed_media formData string false "JSON array of stored paths to remove"
// @Param business_profile_image formData file false "Replacement profile image"
// @Param media_gallery formData file false "Gallery files to append"
// @Success 200 {object} dto.APIResponse{data=models.BusinessProfile}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /business-profiles/{id} [put]
func (c *BusinessProfileController) Update(ctx *gin.Context) {
	id, ok := c.profileAccess(ctx)
	if !ok {
		return
	}

	body, form, err := rawBody(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	profile, err := c.profileService.Update(ctx.Request.Context(), id, body, services.ProfileFilesFromForm(form))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, "Business profile updated successfully"))
}

// UpdateStatus godoc
// @Summary Moderate a business profile
// @Description Rejected requires rejection_reason. The owner is notified.
// @Tags business-profiles
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Business profile ID"
// @Param request body dto.UpdateProfileStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.BusinessProfile}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /business-profiles/{id}/status [patch]
func (c *BusinessProfileController) UpdateStatus(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateProfileStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.profileService.UpdateStatus(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, "Business profile status updated"))
}

// Delete godoc
// @Summary Delete a business profile
// @Tags business-profiles
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Business profile ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /business-profiles/{id} [delete]
func (c *BusinessProfileController) Delete(ctx *gin.Context) {
	id, ok := c.profileAccess(ctx)
	if !ok {
		return
	}

	if err := c.profileService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Business profile deleted successfully"))
}
