package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hr_backend/internal/apperr"
	"github.com/Skotchmaster/hr_backend/internal/models"
	"github.com/Skotchmaster/hr_backend/internal/mykafka"
	"github.com/Skotchmaster/hr_backend/internal/util"
)

const dateLayout = "2006-01-02"

type AttendanceHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *AttendanceHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "attendance_events", fmt.Sprint(event["employee_id"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AttendanceHandler) employeeExists(id uint) (bool, error) {
	var count int64
	err := h.DB.Model(&models.Employee{}).Where("id = ? AND active = ?", id, true).Count(&count).Error
	return count > 0, err
}

// ClockIn opens today's attendance record. One open record per employee per
// day; a second clock-in is a conflict.
func (h *AttendanceHandler) ClockIn(c echo.Context) error {
	var req struct {
		EmployeeID uint `json:"employee_id" validate:"required"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}

	ok, err := h.employeeExists(req.EmployeeID)
	if err != nil {
		return errorResponse(c, err)
	}
	if !ok {
		return errorResponse(c, apperr.New(apperr.KindNotFound, "employee not found or inactive"))
	}

	now := time.Now()
	today := now.Format(dateLayout)

	var existing models.Attendance
	err = h.DB.Where("employee_id = ? AND date = ?", req.EmployeeID, today).First(&existing).Error
	if err == nil {
		return errorResponse(c, apperr.New(apperr.KindConflict, "already clocked in today"))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorResponse(c, err)
	}

	record := models.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       today,
		ClockIn:    now,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, map[string]any{
		"type":        "clock_in",
		"employee_id": req.EmployeeID,
		"date":        today,
	})

	return c.JSON(http.StatusCreated, record)
}

// ClockOut closes today's open record and computes worked/overtime hours.
func (h *AttendanceHandler) ClockOut(c echo.Context) error {
	var req struct {
		EmployeeID uint `json:"employee_id" validate:"required"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}

	now := time.Now()
	today := now.Format(dateLayout)

	var record models.Attendance
	err := h.DB.Where("employee_id = ? AND date = ? AND clock_out IS NULL", req.EmployeeID, today).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, apperr.New(apperr.KindConflict, "no open attendance record for today"))
		}
		return errorResponse(c, err)
	}

	record.ClockOut = &now
	record.WorkedHours, record.OvertimeHours = util.WorkedHours(record.ClockIn, now)

	if err := h.DB.Save(&record).Error; err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, map[string]any{
		"type":           "clock_out",
		"employee_id":    req.EmployeeID,
		"date":           today,
		"worked_hours":   record.WorkedHours,
		"overtime_hours": record.OvertimeHours,
	})

	return c.JSON(http.StatusOK, record)
}

func (h *AttendanceHandler) GetAttendance(c echo.Context) error {
	employeeID, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	query := h.DB.Where("employee_id = ?", employeeID)
	if from := c.QueryParam("from"); from != "" {
		if _, err := time.Parse(dateLayout, from); err != nil {
			return errorResponse(c, apperr.New(apperr.KindValidation, "invalid from date"))
		}
		query = query.Where("date >= ?", from)
	}
	if to := c.QueryParam("to"); to != "" {
		if _, err := time.Parse(dateLayout, to); err != nil {
			return errorResponse(c, apperr.New(apperr.KindValidation, "invalid to date"))
		}
		query = query.Where("date <= ?", to)
	}

	var records []models.Attendance
	if err := query.Order("date ASC").Find(&records).Error; err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, records)
}
