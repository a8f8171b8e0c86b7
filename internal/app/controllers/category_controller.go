package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/memberdir/internal/app/models/dto"
	"github.com/yigit/memberdir/internal/app/services"
	"github.com/yigit/memberdir/internal/middleware"
)

// CategoryController handles business categories
type CategoryController struct {
	categoryService services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Category}
// @Router /categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	categories, err := c.categoryService.ListCategories(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(categories, ""))
}

// CreateCategory godoc
// @Summary Create a category
// @Description Returns the existing category with 200 when the name is already taken
// @Tags categories
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} dto.APIResponse{data=models.Category}
// @Success 200 {object} dto.APIResponse{data=models.Category}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req dto.CreateCategoryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	category, created, err := c.categoryService.CreateCategory(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !created {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(category, "Category already exists"))
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(category, "Category created successfully"))
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Profiles in the category keep existing without one
// @Tags categories
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Category ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /categories/{id} [delete]
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.categoryService.DeleteCategory(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Category deleted successfully"))
}
