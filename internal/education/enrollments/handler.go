package enrollments

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/cohorts/:cohort_ulid/students", h.Register)
	r.GET("/cohorts/:cohort_ulid/students", h.List)
	r.DELETE("/cohorts/:cohort_ulid/students/:student_ulid", h.Remove)
	r.POST("/cohorts/:cohort_ulid/students/:student_ulid/reactivate", h.Reactivate)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), c.Param("cohort_ulid"), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "1" || c.Query("active") == "true"
	resp, err := h.svc.List(c.Request.Context(), c.Param("cohort_ulid"), activeOnly)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Remove(c *gin.Context) {
	err := h.svc.Remove(c.Request.Context(), c.Param("cohort_ulid"), c.Param("student_ulid"))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

func (h *Handler) Reactivate(c *gin.Context) {
	err := h.svc.Reactivate(c.Request.Context(), c.Param("cohort_ulid"), c.Param("student_ulid"))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reactivated"})
}

// ---------- helpers ----------

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	if api, ok := err.(*APIError); ok {
		return errorBody(api.Code, api.Message)
	}
	return errorBody(CodeInternal, err.Error())
}
