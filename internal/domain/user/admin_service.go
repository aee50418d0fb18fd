// internal/domain/user/admin_service.go
package user

import (
	"strings"

	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// AdminService handles admin user management operations
type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:     db,
		config: cfg,
	}
}

// UserListRequest represents user list query parameters
type UserListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Search    string `form:"search"`
	Role      string `form:"role"`
	Status    string `form:"status"` // active, inactive, all
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

// UserListResponse represents user list with pagination
type UserListResponse struct {
	Users      []User `json:"users"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// UpdateUserRequest represents admin-side user update data
type UpdateUserRequest struct {
	Role     *Role    `json:"role"`
	IsActive *bool    `json:"is_active"`
	Grants   []string `json:"grants"`
}

// ListUsers retrieves users with filtering and pagination
func (s *AdminService) ListUsers(req *UserListRequest) (*UserListResponse, error) {
	var users []User
	var total int64

	query := s.db.Model(&User{})

	if req.Search != "" {
		search := "%" + req.Search + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", search, search, search)
	}
	if req.Role != "" && req.Role != "all" {
		query = query.Where("role = ?", req.Role)
	}
	switch req.Status {
	case "active":
		query = query.Where("is_active = ?", true)
	case "inactive":
		query = query.Where("is_active = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to count users")
	}

	sortBy := req.SortBy
	if sortBy != "created_at" && sortBy != "email" && sortBy != "last_login_at" {
		sortBy = "created_at"
	}
	sortOrder := req.SortOrder
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order(sortBy + " " + sortOrder).Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve users")
	}

	for i := range users {
		users[i].Password = ""
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &UserListResponse{
		Users:      users,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateUser updates role, status, or extra permission grants for a user
func (s *AdminService) UpdateUser(userID uint, req *UpdateUserRequest) (*User, error) {
	var user User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to load user")
	}

	updates := map[string]interface{}{}

	if req.Role != nil {
		switch *req.Role {
		case RoleAdmin, RoleManager, RoleStaff:
			updates["role"] = *req.Role
		default:
			return nil, apperrors.Validation("unknown role '%s'", *req.Role)
		}
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if req.Grants != nil {
		// Only known permission keys are persisted
		valid := make([]string, 0, len(req.Grants))
		for _, key := range req.Grants {
			p, ok := ParsePermission(strings.TrimSpace(key))
			if !ok {
				return nil, apperrors.Validation("unknown permission '%s'", key)
			}
			valid = append(valid, string(p))
		}
		updates["grants"] = strings.Join(valid, ",")
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to update user")
		}
	}

	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to reload user")
	}
	user.Password = ""
	return &user, nil
}
