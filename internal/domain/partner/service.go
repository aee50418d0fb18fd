// internal/domain/partner/service.go
package partner

import (
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles customer and supplier business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new partner service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CustomerRequest represents customer create/update data
type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// SupplierRequest represents supplier create/update data
type SupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

// ListRequest represents partner list query parameters
type ListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
}

// CUSTOMERS

// CreateCustomer creates a new customer
func (s *Service) CreateCustomer(req *CustomerRequest) (*Customer, error) {
	var existing Customer
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperrors.Duplicate("customer", "name", req.Name)
	}

	customer := &Customer{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Notes:    req.Notes,
		IsActive: true,
	}

	if err := s.db.Create(customer).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create customer")
	}
	return customer, nil
}

// GetCustomer retrieves a single customer by id
func (s *Service) GetCustomer(id uint) (*Customer, error) {
	var customer Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("customer", id)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve customer")
	}
	return &customer, nil
}

// ListCustomers retrieves customers with filtering and pagination
func (s *Service) ListCustomers(req *ListRequest) ([]Customer, int64, error) {
	var customers []Customer
	var total int64

	query := s.db.Model(&Customer{})
	if req.Search != "" {
		query = query.Where("name ILIKE ?", "%"+req.Search+"%")
	}
	if req.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, err, "failed to count customers")
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("name asc").Offset(offset).Limit(req.Limit).Find(&customers).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve customers")
	}
	return customers, total, nil
}

// UpdateCustomer updates a customer
func (s *Service) UpdateCustomer(id uint, req *CustomerRequest) (*Customer, error) {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}

	var existing Customer
	if err := s.db.Where("name = ? AND id <> ?", req.Name, id).First(&existing).Error; err == nil {
		return nil, apperrors.Duplicate("customer", "name", req.Name)
	}

	updates := map[string]interface{}{
		"name":    req.Name,
		"email":   req.Email,
		"phone":   req.Phone,
		"address": req.Address,
		"notes":   req.Notes,
	}
	if err := s.db.Model(customer).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to update customer")
	}
	return s.GetCustomer(id)
}

// SetCustomerActive toggles a customer's active flag
func (s *Service) SetCustomerActive(id uint, active bool) error {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return err
	}
	if err := s.db.Model(customer).Update("is_active", active).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to update customer status")
	}
	return nil
}

// SUPPLIERS

// CreateSupplier creates a new supplier
func (s *Service) CreateSupplier(req *SupplierRequest) (*Supplier, error) {
	var existing Supplier
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperrors.Duplicate("supplier", "name", req.Name)
	}

	supplier := &Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Notes:         req.Notes,
		IsActive:      true,
	}

	if err := s.db.Create(supplier).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create supplier")
	}
	return supplier, nil
}

// GetSupplier retrieves a single supplier by id
func (s *Service) GetSupplier(id uint) (*Supplier, error) {
	var supplier Supplier
	if err := s.db.First(&supplier, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("supplier", id)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve supplier")
	}
	return &supplier, nil
}

// ListSuppliers retrieves suppliers with filtering and pagination
func (s *Service) ListSuppliers(req *ListRequest) ([]Supplier, int64, error) {
	var suppliers []Supplier
	var total int64

	query := s.db.Model(&Supplier{})
	if req.Search != "" {
		query = query.Where("name ILIKE ?", "%"+req.Search+"%")
	}
	if req.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, err, "failed to count suppliers")
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("name asc").Offset(offset).Limit(req.Limit).Find(&suppliers).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve suppliers")
	}
	return suppliers, total, nil
}

// UpdateSupplier updates a supplier
func (s *Service) UpdateSupplier(id uint, req *SupplierRequest) (*Supplier, error) {
	supplier, err := s.GetSupplier(id)
	if err != nil {
		return nil, err
	}

	var existing Supplier
	if err := s.db.Where("name = ? AND id <> ?", req.Name, id).First(&existing).Error; err == nil {
		return nil, apperrors.Duplicate("supplier", "name", req.Name)
	}

	updates := map[string]interface{}{
		"name":           req.Name,
		"contact_person": req.ContactPerson,
		"email":          req.Email,
		"phone":          req.Phone,
		"address":        req.Address,
		"notes":          req.Notes,
	}
	if err := s.db.Model(supplier).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to update supplier")
	}
	return s.GetSupplier(id)
}

// SetSupplierActive toggles a supplier's active flag
func (s *Service) SetSupplierActive(id uint, active bool) error {
	supplier, err := s.GetSupplier(id)
	if err != nil {
		return err
	}
	if err := s.db.Model(supplier).Update("is_active", active).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to update supplier status")
	}
	return nil
}
