package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hr_backend/internal/apperr"
	"github.com/Skotchmaster/hr_backend/internal/models"
	"github.com/Skotchmaster/hr_backend/internal/mykafka"
	"github.com/Skotchmaster/hr_backend/internal/service/search"
	"github.com/Skotchmaster/hr_backend/internal/util"
)

type EmployeeHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (h *EmployeeHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "employee_events", fmt.Sprint(event["employee_id"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *EmployeeHandler) index(c echo.Context, employee *models.Employee) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.Index(ctx, h.ES, h.Index, employee); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

type employeeRequest struct {
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     string  `json:"last_name"  validate:"required"`
	Email        string  `json:"email"      validate:"required,email"`
	Position     string  `json:"position"`
	DepartmentID uint    `json:"department_id"`
	HireDate     string  `json:"hire_date"  validate:"omitempty,datetime=2006-01-02"`
	Salary       float64 `json:"salary"     validate:"omitempty,gte=0"`
}

func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var employee models.Employee
	if err := h.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, apperr.ErrNotFound)
		}
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) GetEmployees(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Employee{})
	if dep := c.QueryParam("department_id"); dep != "" {
		query = query.Where("department_id = ?", dep)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return errorResponse(c, err)
	}

	var items []models.Employee
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	var req employeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}

	var existing models.Employee
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return errorResponse(c, apperr.New(apperr.KindConflict, "employee email already in use"))
	}

	employee := models.Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Position:     req.Position,
		DepartmentID: req.DepartmentID,
		Salary:       req.Salary,
		Active:       true,
	}
	if req.HireDate != "" {
		hired, _ := time.Parse("2006-01-02", req.HireDate)
		employee.HireDate = hired
	}

	if err := h.DB.Create(&employee).Error; err != nil {
		return errorResponse(c, err)
	}

	h.index(c, &employee)
	h.publish(c, map[string]any{
		"type":        "employee_created",
		"employee_id": employee.ID,
		"email":       employee.Email,
	})

	return c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) PatchEmployee(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var req struct {
		FirstName    string   `json:"first_name"`
		LastName     string   `json:"last_name"`
		Email        string   `json:"email"    validate:"omitempty,email"`
		Position     string   `json:"position"`
		DepartmentID uint     `json:"department_id"`
		Salary       *float64 `json:"salary"   validate:"omitempty"`
		Active       *bool    `json:"active"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}

	var employee models.Employee
	if err := h.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, apperr.ErrNotFound)
		}
		return errorResponse(c, err)
	}

	if req.FirstName != "" {
		employee.FirstName = req.FirstName
	}
	if req.LastName != "" {
		employee.LastName = req.LastName
	}
	if req.Email != "" && req.Email != employee.Email {
		var other models.Employee
		if err := h.DB.Where("email = ? AND id <> ?", req.Email, id).First(&other).Error; err == nil {
			return errorResponse(c, apperr.New(apperr.KindConflict, "employee email already in use"))
		}
		employee.Email = req.Email
	}
	if req.Position != "" {
		employee.Position = req.Position
	}
	if req.DepartmentID != 0 {
		employee.DepartmentID = req.DepartmentID
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}

	if err := h.DB.Save(&employee).Error; err != nil {
		return errorResponse(c, err)
	}

	h.index(c, &employee)
	h.publish(c, map[string]any{
		"type":        "employee_updated",
		"employee_id": employee.ID,
		"email":       employee.Email,
	})

	return c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	if err := h.DB.Delete(&models.Employee{}, id).Error; err != nil {
		return errorResponse(c, err)
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := search.Delete(ctx, h.ES, h.Index, id); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}

	h.publish(c, map[string]any{
		"type":        "employee_deleted",
		"employee_id": id,
	})

	return c.NoContent(http.StatusNoContent)
}
