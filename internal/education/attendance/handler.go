package attendance

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// GET /cohorts/:cohort_ulid/attendance?date=YYYY-MM-DD （編集用ビュー）
	r.GET("/cohorts/:cohort_ulid/attendance", h.GetDaySheet)
	// PUT /cohorts/:cohort_ulid/attendance （一括upsert、再提出は上書き）
	r.PUT("/cohorts/:cohort_ulid/attendance", h.PutDaySheet)
	// GET /cohorts/:cohort_ulid/attendance/report?from=&to=[&format=csv][&encoding=sjis]
	r.GET("/cohorts/:cohort_ulid/attendance/report", h.GetReport)
}

// GetDaySheet godoc
// @Summary  指定日の出欠（編集用、未記録はpresent補完）
// @Param    cohort_ulid path  string true "cohort ULID"
// @Param    date        query string true "YYYY-MM-DD"
// @Router   /cohorts/{cohort_ulid}/attendance [get]
func (h *Handler) GetDaySheet(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, errorFromErr(ErrInvalidDate("date query is required")))
		return
	}
	resp, err := h.svc.LoadForEditing(c.Request.Context(), c.Param("cohort_ulid"), dateStr)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) PutDaySheet(c *gin.Context) {
	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorFromErr(ErrInvalid("invalid json or missing required fields")))
		return
	}
	resp, err := h.svc.Commit(c.Request.Context(), c.Param("cohort_ulid"), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetReport godoc
// @Summary  期間ピボットレポート（未記録セルはno-data）
// @Param    cohort_ulid path  string true  "cohort ULID"
// @Param    from        query string true  "YYYY-MM-DD"
// @Param    to          query string true  "YYYY-MM-DD"
// @Param    format      query string false "csv"
// @Router   /cohorts/{cohort_ulid}/attendance/report [get]
func (h *Handler) GetReport(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	// 単日エクスポートは from=to の縮退ケースとして同じ経路を通す
	if to == "" {
		to = from
	}
	rep, err := h.svc.BuildReport(c.Request.Context(), c.Param("cohort_ulid"), from, to)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	if c.Query("format") == "csv" {
		enc := c.DefaultQuery("encoding", EncodingUTF8)
		if enc != EncodingUTF8 && enc != EncodingSJIS {
			c.JSON(http.StatusBadRequest, errorFromErr(ErrInvalid("encoding must be utf8 or sjis")))
			return
		}
		filename := "attendance_" + rep.From + "_" + rep.To + ".csv"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		contentType := "text/csv; charset=utf-8"
		if enc == EncodingSJIS {
			contentType = "text/csv; charset=shift_jis"
		}
		c.Header("Content-Type", contentType)
		c.Status(http.StatusOK)
		if err := WriteReportCSV(c.Writer, rep, enc); err != nil {
			// ヘッダ送出後はJSONで返せないのでログのみ
			_ = c.Error(err)
		}
		return
	}

	c.JSON(http.StatusOK, rep)
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
