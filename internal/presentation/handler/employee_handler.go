package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/employee-manager/internal/application/service"
	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService *service.EmployeeService
	logger          *slog.Logger
}

func NewEmployeeHandler(employeeService *service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, logger: logger}
}

func (h *EmployeeHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.employeeService.List(c.Request.Context(), service.ListParams{
		Page:         page,
		Limit:        limit,
		Sort:         c.Query("sort"),
		Filter:       c.Query("filter"),
		SortedColumn: c.Query("sortedColumn"),
	})
	if err != nil {
		h.fail(c, "getEmployees", err)
		return
	}

	if !result.Paginated {
		c.JSON(http.StatusOK, result.Data)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":          result.Data,
		"page":          result.Page,
		"totalPages":    result.TotalPages,
		"totalRecords":  result.TotalRecords,
		"sortedColumn":  result.SortedColumn,
		"sortDirection": result.SortDirection,
	})
}

func (h *EmployeeHandler) GetByID(c *gin.Context) {
	employee, err := h.employeeService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "getEmployeesById", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": employee})
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Please provide all the details to add a new employee"})
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "addEmployees", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Employee added successfully",
		"newRecords": employee,
	})
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Please provide valid employee details"})
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, "updateEmployee", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Updated Successfully",
		"updatedList": employee,
	})
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.employeeService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "deleteEmployee", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employeeId": id})
}

func (h *EmployeeHandler) fail(c *gin.Context, operation string, err error) {
	kind := service.KindOf(err)
	switch kind {
	case service.KindInternal, service.KindIntegrity:
		h.logger.Error("operation failed", "operation", operation, "error", err)
	default:
		h.logger.Warn("request rejected", "operation", operation, "error", err)
	}
	c.JSON(statusFor(kind), gin.H{"error": service.MessageOf(err)})
}
