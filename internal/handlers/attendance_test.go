package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/hr_backend/internal/models"
	"github.com/Skotchmaster/hr_backend/internal/mykafka"
)

func seedEmployee(t *testing.T, env *testEnv) models.Employee {
	employee := models.Employee{
		FirstName: "Anna",
		LastName:  "Smith",
		Email:     "anna@corp.com",
		Position:  "Engineer",
		Active:    true,
	}
	require.NoError(t, env.DB.Create(&employee).Error)
	return employee
}

func TestClockInAndOut(t *testing.T) {
	env := newTestEnv(t)
	h := &AttendanceHandler{DB: env.DB, Producer: &mykafka.Producer{}}
	employee := seedEmployee(t, env)

	payload := map[string]any{"employee_id": employee.ID}

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/attendance/clock-in", payload)
	require.NoError(t, h.ClockIn(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var record models.Attendance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	require.Equal(t, employee.ID, record.EmployeeID)
	require.Equal(t, time.Now().Format("2006-01-02"), record.Date)
	require.Nil(t, record.ClockOut)

	// Second clock-in the same day conflicts.
	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/attendance/clock-in", payload)
	require.NoError(t, h.ClockIn(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/attendance/clock-out", payload)
	require.NoError(t, h.ClockOut(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	require.NotNil(t, record.ClockOut)

	// Clock-out without an open record conflicts.
	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/attendance/clock-out", payload)
	require.NoError(t, h.ClockOut(c))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestClockInUnknownEmployee(t *testing.T) {
	env := newTestEnv(t)
	h := &AttendanceHandler{DB: env.DB, Producer: &mykafka.Producer{}}

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/attendance/clock-in", map[string]any{
		"employee_id": 9999,
	})
	require.NoError(t, h.ClockIn(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClockOutComputesHours(t *testing.T) {
	env := newTestEnv(t)
	h := &AttendanceHandler{DB: env.DB, Producer: &mykafka.Producer{}}
	employee := seedEmployee(t, env)

	// Open record started 9h30m ago.
	record := models.Attendance{
		EmployeeID: employee.ID,
		Date:       time.Now().Format("2006-01-02"),
		ClockIn:    time.Now().Add(-9*time.Hour - 30*time.Minute),
	}
	require.NoError(t, env.DB.Create(&record).Error)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/attendance/clock-out", map[string]any{
		"employee_id": employee.ID,
	})
	require.NoError(t, h.ClockOut(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var closed models.Attendance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &closed))
	require.InDelta(t, 9.5, closed.WorkedHours, 0.01)
	require.InDelta(t, 1.5, closed.OvertimeHours, 0.01)
}

func TestGetAttendanceRange(t *testing.T) {
	env := newTestEnv(t)
	h := &AttendanceHandler{DB: env.DB, Producer: &mykafka.Producer{}}
	employee := seedEmployee(t, env)

	for _, date := range []string{"2025-06-02", "2025-06-03", "2025-06-10"} {
		require.NoError(t, env.DB.Create(&models.Attendance{
			EmployeeID: employee.ID,
			Date:       date,
			ClockIn:    time.Now(),
		}).Error)
	}

	rec, c := env.doJSONRequest(t, http.MethodGet, "/api/v1/attendance/1?from=2025-06-01&to=2025-06-05", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetAttendance(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []models.Attendance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
}
