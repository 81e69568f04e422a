package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/hr_backend/internal/models"
	"github.com/Skotchmaster/hr_backend/internal/mykafka"
)

func leavePayload(employeeID uint) map[string]any {
	return map[string]any{
		"employee_id": employeeID,
		"type":        "vacation",
		"start_date":  "2025-06-02",
		"end_date":    "2025-06-06",
		"reason":      "family trip",
	}
}

func TestCreateLeave(t *testing.T) {
	env := newTestEnv(t)
	h := &LeaveHandler{DB: env.DB, Producer: &mykafka.Producer{}}
	employee := seedEmployee(t, env)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves", leavePayload(employee.ID))
	require.NoError(t, h.CreateLeave(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var leave models.LeaveRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leave))
	require.Equal(t, models.LeaveStatusPending, leave.Status)
	require.Equal(t, 5, leave.BusinessDays)
}

func TestCreateLeaveWeekendOnly(t *testing.T) {
	env := newTestEnv(t)
	h := &LeaveHandler{DB: env.DB, Producer: &mykafka.Producer{}}
	employee := seedEmployee(t, env)

	payload := leavePayload(employee.ID)
	payload["start_date"] = "2025-06-07"
	payload["end_date"] = "2025-06-08"

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves", payload)
	require.NoError(t, h.CreateLeave(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLeaveInvalidRange(t *testing.T) {
	env := newTestEnv(t)
	h := &LeaveHandler{DB: env.DB, Producer: &mykafka.Producer{}}
	employee := seedEmployee(t, env)

	payload := leavePayload(employee.ID)
	payload["start_date"] = "2025-06-06"
	payload["end_date"] = "2025-06-02"

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves", payload)
	require.NoError(t, h.CreateLeave(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	payload = leavePayload(employee.ID)
	payload["type"] = "sabbatical"
	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves", payload)
	require.NoError(t, h.CreateLeave(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLeaveOverlapConflict(t *testing.T) {
	env := newTestEnv(t)
	h := &LeaveHandler{DB: env.DB, Producer: &mykafka.Producer{}}
	employee := seedEmployee(t, env)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves", leavePayload(employee.ID))
	require.NoError(t, h.CreateLeave(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Overlapping request for the same employee conflicts.
	payload := leavePayload(employee.ID)
	payload["start_date"] = "2025-06-05"
	payload["end_date"] = "2025-06-10"
	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves", payload)
	require.NoError(t, h.CreateLeave(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	// Disjoint range is fine.
	payload["start_date"] = "2025-06-16"
	payload["end_date"] = "2025-06-18"
	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves", payload)
	require.NoError(t, h.CreateLeave(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRejectedLeaveDoesNotBlock(t *testing.T) {
	env := newTestEnv(t)
	h := &LeaveHandler{DB: env.DB, Producer: &mykafka.Producer{}}
	employee := seedEmployee(t, env)

	rejected := models.LeaveRequest{
		EmployeeID:   employee.ID,
		Type:         models.LeaveTypeVacation,
		StartDate:    mustDate(t, "2025-06-02"),
		EndDate:      mustDate(t, "2025-06-06"),
		BusinessDays: 5,
		Status:       models.LeaveStatusRejected,
	}
	require.NoError(t, env.DB.Create(&rejected).Error)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves", leavePayload(employee.ID))
	require.NoError(t, h.CreateLeave(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestApproveAndRejectLeave(t *testing.T) {
	env := newTestEnv(t)
	h := &LeaveHandler{DB: env.DB, Producer: &mykafka.Producer{}}
	employee := seedEmployee(t, env)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves", leavePayload(employee.ID))
	require.NoError(t, h.CreateLeave(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var leave models.LeaveRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leave))

	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves/1/approve", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, 99, "Admin")
	require.NoError(t, h.ApproveLeave(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var approved models.LeaveRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approved))
	require.Equal(t, models.LeaveStatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedBy)
	require.Equal(t, uint(99), *approved.DecidedBy)
	require.NotNil(t, approved.DecidedAt)

	// Deciding twice conflicts.
	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/leaves/1/reject", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	asUser(c, 99, "Admin")
	require.NoError(t, h.RejectLeave(c))
	require.Equal(t, http.StatusConflict, rec.Code)
}
