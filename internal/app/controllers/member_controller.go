package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/memberdir/internal/app/auth"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/app/services"
	"github.com/yigit/memberdir/internal/middleware"
	"github.com/yigit/memberdir/internal/pkg/helpers"
)

// MemberController handles member registration and management
type MemberController struct {
	memberService services.MemberService
	authz         *appauth.AuthorizationService
	logger        zerolog.Logger
}

// NewMemberController creates a new MemberController
func NewMemberController(memberService services.MemberService, authz *appauth.AuthorizationService, logger zerolog.Logger) *MemberController {
	return &MemberController{
		memberService: memberService,
		authz:         authz,
		logger:        logger,
	}
}

// RegisterMember godoc
// @Summary Register a member
// @Description Creates a member with its business profiles, optional family details and referral in one transaction.
// @Description business_profiles and family_details are JSON text in multipart requests. Uploads: profile_image,
// @Description business_profile_image_<i> and media_gallery_<i> where i is the index in business_profiles.
// @Tags members
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param first_name formData string true "First name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param business_profiles formData string true "JSON array of business profiles"
// @Param family_details formData string false "JSON object with family details"
// @Param referral_code formData string false "Application ID of the referring member"
// @Param access_level formData string false "Basic or Admin. Ignored unless the caller is an admin"
// @Param profile_image formData file false "Profile image"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterMemberResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /members/register [post]
func (c *MemberController) RegisterMember(ctx *gin.Context) {
	var req dto.RegisterMemberRequest
	if !middleware.Bind(ctx, &req) {
		return
	}
	// standing fields are only honored when an admin registers someone
	if p, _ := middleware.CurrentPrincipal(ctx); !p.IsAdmin() {
		req.ClearStanding()
	}

	var form *multipart.Form
	if isMultipart(ctx) {
		var err error
		if form, err = ctx.MultipartForm(); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	c.logger.Debug().Bool("multipart", form != nil).Str("email", req.Email).Msg("Registration request received")
	resp, err := c.memberService.Register(ctx.Request.Context(), &req, form)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Member registered successfully"))
}

// ListMembers godoc
// @Summary List members
// @Tags members
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.MemberListResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /members [get]
func (c *MemberController) ListMembers(ctx *gin.Context) {
	page := helpers.ParsePage(ctx)

	resp, err := c.memberService.ListMembers(ctx.Request.Context(), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// memberAccess parses :id and checks that the caller may act on it.
func (c *MemberController) memberAccess(ctx *gin.Context) (int64, bool) {
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

// GetMember godoc
// @Summary Get a member
// @Description Returns the member with business profiles and family details
// @Tags members
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.MemberDetailResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /members/{id} [get]
func (c *MemberController) GetMember(ctx *gin.Context) {
	id, ok := c.memberAccess(ctx)
	if !ok {
		return
	}

	member, err := c.memberService.GetMember(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewMemberDetailResponse(member), ""))
}

// UpdateMember godoc
// @Summary Update a member
// @Description Updates scalar member fields. Omitted fields are kept. A new profile_image replaces the old one.
// @Tags members
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Member ID"
// @Param request body dto.UpdateMemberRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Member}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /members/{id} [put]
func (c *MemberController) UpdateMember(ctx *gin.Context) {
	id, ok := c.memberAccess(ctx)
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if !middleware.Bind(ctx, &req) {
		return
	}

	// only admins may change account standing
	if p, _ := middleware.CurrentPrincipal(ctx); !p.IsAdmin() && (req.Status != nil || req.AccessLevel != nil || req.PaidStatus != nil || req.MembershipValidUntil != nil) {
		middleware.HandleAPIError(ctx, appauth.ErrNotOwner)
		return
	}

	var image *multipart.FileHeader
	if isMultipart(ctx) {
		form, err := ctx.MultipartForm()
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		image = formFile(form, services.FieldProfileImage)
	}

	member, err := c.memberService.UpdateMember(ctx.Request.Context(), id, &req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(member, "Member updated successfully"))
}

// DeleteMember godoc
// @Summary Delete a member
// @Description Deletes the member, its profiles, family details and notifications, then its files
// @Tags members
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Member ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /members/{id} [delete]
func (c *MemberController) DeleteMember(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.memberService.DeleteMember(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Member deleted successfully"))
}

// ListNotifications godoc
// @Summary List a member's notifications
// @Description Newest first
// @Tags members
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Member ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Notification}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /members/{id}/notifications [get]
func (c *MemberController) ListNotifications(ctx *gin.Context) {
	id, ok := c.memberAccess(ctx)
	if !ok {
		return
	}

	notes, err := c.memberService.ListNotifications(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(notes, ""))
}
