package dto

// CreateCategoryRequest creates a category by name
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"Bakery"`
}
