package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hr_backend/internal/apperr"
	"github.com/Skotchmaster/hr_backend/internal/models"
)

type DepartmentHandler struct {
	DB *gorm.DB
}

type departmentWithCount struct {
	models.Department
	EmployeeCount int64 `json:"employee_count"`
}

func (h *DepartmentHandler) GetDepartments(c echo.Context) error {
	var departments []models.Department
	if err := h.DB.Order("id ASC").Find(&departments).Error; err != nil {
		return errorResponse(c, err)
	}

	out := make([]departmentWithCount, len(departments))
	for i, dep := range departments {
		var count int64
		if err := h.DB.Model(&models.Employee{}).
			Where("department_id = ? AND active = ?", dep.ID, true).
			Count(&count).Error; err != nil {
			return errorResponse(c, err)
		}
		out[i] = departmentWithCount{Department: dep, EmployeeCount: count}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DepartmentHandler) GetDepartment(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var dep models.Department
	if err := h.DB.First(&dep, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, apperr.ErrNotFound)
		}
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dep)
}

func (h *DepartmentHandler) CreateDepartment(c echo.Context) error {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}

	var existing models.Department
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return errorResponse(c, apperr.New(apperr.KindConflict, "department name already in use"))
	}

	dep := models.Department{Name: req.Name, Description: req.Description}
	if err := h.DB.Create(&dep).Error; err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dep)
}

func (h *DepartmentHandler) PatchDepartment(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}

	var dep models.Department
	if err := h.DB.First(&dep, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, apperr.ErrNotFound)
		}
		return errorResponse(c, err)
	}

	if req.Name != "" && req.Name != dep.Name {
		var other models.Department
		if err := h.DB.Where("name = ? AND id <> ?", req.Name, id).First(&other).Error; err == nil {
			return errorResponse(c, apperr.New(apperr.KindConflict, "department name already in use"))
		}
		dep.Name = req.Name
	}
	if req.Description != "" {
		dep.Description = req.Description
	}

	if err := h.DB.Save(&dep).Error; err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dep)
}

func (h *DepartmentHandler) DeleteDepartment(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var count int64
	if err := h.DB.Model(&models.Employee{}).Where("department_id = ?", id).Count(&count).Error; err != nil {
		return errorResponse(c, err)
	}
	if count > 0 {
		return errorResponse(c, apperr.New(apperr.KindConflict, "department still has employees"))
	}

	if err := h.DB.Delete(&models.Department{}, id).Error; err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
