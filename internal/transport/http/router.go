package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hr_backend/internal/handlers"
	authmw "github.com/Skotchmaster/hr_backend/internal/middleware/auth"
)

type Deps struct {
	JWTSecret         []byte
	AuthHandler       *handlers.AuthHandler
	EmployeeHandler   *handlers.EmployeeHandler
	DepartmentHandler *handlers.DepartmentHandler
	AttendanceHandler *handlers.AttendanceHandler
	LeaveHandler      *handlers.LeaveHandler
	SearchHandler     *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/refresh", d.AuthHandler.Refresh)

	authed := v1.Group("", authmw.Middleware(d.JWTSecret))

	authed.POST("/logout", d.AuthHandler.Logout)
	authed.GET("/me", d.AuthHandler.Me)
	authed.PATCH("/me", d.AuthHandler.UpdateMe)
	authed.DELETE("/me", d.AuthHandler.DeleteMe)

	authed.GET("/employees", d.EmployeeHandler.GetEmployees)
	authed.GET("/employees/:id", d.EmployeeHandler.GetEmployee)
	authed.GET("/departments", d.DepartmentHandler.GetDepartments)
	authed.GET("/departments/:id", d.DepartmentHandler.GetDepartment)
	authed.GET("/search", d.SearchHandler.Search)

	authed.POST("/attendance/clock-in", d.AttendanceHandler.ClockIn)
	authed.POST("/attendance/clock-out", d.AttendanceHandler.ClockOut)
	authed.GET("/attendance/:id", d.AttendanceHandler.GetAttendance)

	authed.POST("/leaves", d.LeaveHandler.CreateLeave)
	authed.GET("/leaves", d.LeaveHandler.GetLeaves)

	admin := authed.Group("", authmw.RequireRole(authmw.AdminRole))

	admin.POST("/employees", d.EmployeeHandler.CreateEmployee)
	admin.PATCH("/employees/:id", d.EmployeeHandler.PatchEmployee)
	admin.DELETE("/employees/:id", d.EmployeeHandler.DeleteEmployee)

	admin.POST("/departments", d.DepartmentHandler.CreateDepartment)
	admin.PATCH("/departments/:id", d.DepartmentHandler.PatchDepartment)
	admin.DELETE("/departments/:id", d.DepartmentHandler.DeleteDepartment)

	admin.POST("/leaves/:id/approve", d.LeaveHandler.ApproveLeave)
	admin.POST("/leaves/:id/reject", d.LeaveHandler.RejectLeave)

	admin.POST("/tokens/revoke", d.AuthHandler.RevokeToken)
}
