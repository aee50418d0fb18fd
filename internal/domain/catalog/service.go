// internal/domain/catalog/service.go
package catalog

import (
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateItemRequest represents item creation data
type CreateItemRequest struct {
	SKU         string `json:"sku" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Unit        string `json:"unit"`
	CategoryID  *uint  `json:"category_id"`
	MinStock    int64  `json:"min_stock"`
	Description string `json:"description"`
}

// UpdateItemRequest represents item update data
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Unit        *string `json:"unit"`
	CategoryID  *uint   `json:"category_id"`
	MinStock    *int64  `json:"min_stock"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// ItemListRequest represents item list query parameters
type ItemListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	Search     string `form:"search"`
	CategoryID uint   `form:"category_id"`
	ActiveOnly bool   `form:"active_only"`
}

// ItemListResponse represents item list with pagination
type ItemListResponse struct {
	Items      []Item `json:"items"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// CreateItem creates a new catalog item
func (s *Service) CreateItem(req *CreateItemRequest) (*Item, error) {
	if req.MinStock < 0 {
		return nil, apperrors.Validation("min_stock cannot be negative")
	}

	var existing Item
	if err := s.db.Where("sku = ?", req.SKU).First(&existing).Error; err == nil {
		return nil, apperrors.Duplicate("item", "sku", req.SKU)
	}
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperrors.Duplicate("item", "name", req.Name)
	}

	if req.CategoryID != nil {
		if _, err := s.GetCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	item := &Item{
		SKU:         req.SKU,
		Name:        req.Name,
		Unit:        unit,
		CategoryID:  req.CategoryID,
		MinStock:    req.MinStock,
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create item")
	}

	return item, nil
}

// GetItem retrieves a single item by id
func (s *Service) GetItem(id uint) (*Item, error) {
	var item Item
	if err := s.db.Preload("Category").First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("item", id)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve item")
	}
	return &item, nil
}

// ListItems retrieves items with filtering and pagination
func (s *Service) ListItems(req *ItemListRequest) (*ItemListResponse, error) {
	var items []Item
	var total int64

	query := s.db.Model(&Item{}).Preload("Category")

	if req.Search != "" {
		search := "%" + req.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", search, search)
	}
	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to count items")
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("name asc").Offset(offset).Limit(req.Limit).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve items")
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ItemListResponse{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateItem updates an item's mutable fields
func (s *Service) UpdateItem(id uint, req *UpdateItemRequest) (*Item, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		var existing Item
		if err := s.db.Where("name = ? AND id <> ?", *req.Name, id).First(&existing).Error; err == nil {
			return nil, apperrors.Duplicate("item", "name", *req.Name)
		}
		updates["name"] = *req.Name
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.CategoryID != nil {
		if _, err := s.GetCategory(*req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return nil, apperrors.Validation("min_stock cannot be negative")
		}
		updates["min_stock"] = *req.MinStock
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to update item")
		}
	}

	return s.GetItem(id)
}

// DeleteItem removes an item that has no ledger history. Items with inventory
// log entries can only be deactivated, never deleted.
func (s *Service) DeleteItem(id uint) error {
	item, err := s.GetItem(id)
	if err != nil {
		return err
	}

	var logCount int64
	if err := s.db.Table("inventory_logs").Where("item_id = ?", id).Count(&logCount).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to check ledger history")
	}
	if logCount > 0 {
		return apperrors.Validation("item '%s' has ledger history and cannot be deleted; deactivate it instead", item.Name)
	}

	if err := s.db.Delete(item).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to delete item")
	}
	return nil
}

// CATEGORY MANAGEMENT

// CreateCategoryRequest represents category creation data
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCategory creates a new category
func (s *Service) CreateCategory(req *CreateCategoryRequest) (*Category, error) {
	var existing Category
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperrors.Duplicate("category", "name", req.Name)
	}

	category := &Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create category")
	}

	return category, nil
}

// GetCategory retrieves a single category by id
func (s *Service) GetCategory(id uint) (*Category, error) {
	var category Category
	if err := s.db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("category", id)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve category")
	}
	return &category, nil
}

// ListCategories retrieves all categories
func (s *Service) ListCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve categories")
	}
	return categories, nil
}
