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
	authmw "github.com/Skotchmaster/hr_backend/internal/middleware/auth"
	"github.com/Skotchmaster/hr_backend/internal/models"
	"github.com/Skotchmaster/hr_backend/internal/mykafka"
	"github.com/Skotchmaster/hr_backend/internal/util"
)

type LeaveHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *LeaveHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "leave_events", fmt.Sprint(event["employee_id"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func validLeaveType(t string) bool {
	switch t {
	case models.LeaveTypeVacation, models.LeaveTypeSick, models.LeaveTypePersonal, models.LeaveTypeUnpaid:
		return true
	}
	return false
}

func (h *LeaveHandler) CreateLeave(c echo.Context) error {
	var req struct {
		EmployeeID uint   `json:"employee_id" validate:"required"`
		Type       string `json:"type"        validate:"required"`
		StartDate  string `json:"start_date"  validate:"required,datetime=2006-01-02"`
		EndDate    string `json:"end_date"    validate:"required,datetime=2006-01-02"`
		Reason     string `json:"reason"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}
	if !validLeaveType(req.Type) {
		return errorResponse(c, apperr.New(apperr.KindValidation, "unknown leave type"))
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	if end.Before(start) {
		return errorResponse(c, apperr.New(apperr.KindValidation, "end date before start date"))
	}

	businessDays := util.BusinessDays(start, end)
	if businessDays == 0 {
		return errorResponse(c, apperr.New(apperr.KindValidation, "range contains no business days"))
	}

	var count int64
	if err := h.DB.Model(&models.Employee{}).
		Where("id = ? AND active = ?", req.EmployeeID, true).
		Count(&count).Error; err != nil {
		return errorResponse(c, err)
	}
	if count == 0 {
		return errorResponse(c, apperr.New(apperr.KindNotFound, "employee not found or inactive"))
	}

	// Rejected requests do not block the range.
	var existing []models.LeaveRequest
	if err := h.DB.Where("employee_id = ? AND status <> ?", req.EmployeeID, models.LeaveStatusRejected).
		Find(&existing).Error; err != nil {
		return errorResponse(c, err)
	}
	for _, lr := range existing {
		if util.RangesOverlap(start, end, lr.StartDate, lr.EndDate) {
			return errorResponse(c, apperr.New(apperr.KindConflict, "overlapping leave request exists"))
		}
	}

	leave := models.LeaveRequest{
		EmployeeID:   req.EmployeeID,
		Type:         req.Type,
		StartDate:    start,
		EndDate:      end,
		BusinessDays: businessDays,
		Status:       models.LeaveStatusPending,
		Reason:       req.Reason,
	}
	if err := h.DB.Create(&leave).Error; err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, map[string]any{
		"type":          "leave_requested",
		"employee_id":   leave.EmployeeID,
		"leave_id":      leave.ID,
		"business_days": leave.BusinessDays,
	})

	return c.JSON(http.StatusCreated, leave)
}

func (h *LeaveHandler) GetLeaves(c echo.Context) error {
	query := h.DB.Model(&models.LeaveRequest{})
	if emp := c.QueryParam("employee_id"); emp != "" {
		query = query.Where("employee_id = ?", emp)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var leaves []models.LeaveRequest
	if err := query.Order("id ASC").Find(&leaves).Error; err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, leaves)
}

func (h *LeaveHandler) decide(c echo.Context, status, eventType string) error {
	id, err := parseIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}
	deciderID, ok := authmw.UserID(c)
	if !ok {
		return errorResponse(c, apperr.ErrInvalidToken)
	}

	var leave models.LeaveRequest
	if err := h.DB.First(&leave, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, apperr.ErrNotFound)
		}
		return errorResponse(c, err)
	}
	if leave.Status != models.LeaveStatusPending {
		return errorResponse(c, apperr.New(apperr.KindConflict, "leave request already decided"))
	}

	now := time.Now()
	leave.Status = status
	leave.DecidedBy = &deciderID
	leave.DecidedAt = &now

	if err := h.DB.Save(&leave).Error; err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, map[string]any{
		"type":        eventType,
		"employee_id": leave.EmployeeID,
		"leave_id":    leave.ID,
	})

	return c.JSON(http.StatusOK, leave)
}

func (h *LeaveHandler) ApproveLeave(c echo.Context) error {
	return h.decide(c, models.LeaveStatusApproved, "leave_approved")
}

func (h *LeaveHandler) RejectLeave(c echo.Context) error {
	return h.decide(c, models.LeaveStatusRejected, "leave_rejected")
}
