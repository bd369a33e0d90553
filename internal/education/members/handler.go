package members

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

// 会員基盤側の管理向け読み取り/無効化のみ。新規発番は受講者登録経由。
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/members", h.List)
	r.GET("/members/:member_code", h.Get)
	r.DELETE("/members/:member_code", h.Disable)
}

func (h *Handler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("all"))
	if err != nil {
		c.JSON(toHTTPStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Get(c *gin.Context) {
	code := strings.TrimSpace(c.Param("member_code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrInvalid("member_code is required"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), code)
	if err != nil {
		c.JSON(toHTTPStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Disable(c *gin.Context) {
	code := strings.TrimSpace(c.Param("member_code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrInvalid("member_code is required"))
		return
	}
	if err := h.svc.Disable(c.Request.Context(), code); err != nil {
		c.JSON(toHTTPStatus(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}
