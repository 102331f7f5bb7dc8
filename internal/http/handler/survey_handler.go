package handler

import (
	"net/http"

	"github.com/avialine/backoffice/internal/http/response"
	"github.com/avialine/backoffice/internal/service"
)

type SurveyReporter interface {
	Report(month string) (*service.SurveyReport, error)
}

type SurveyHandler struct {
	surveys SurveyReporter
}

func NewSurveyHandler(surveys SurveyReporter) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// Report returns the satisfaction summary; the month query parameter
// (two digits) narrows it, empty means all months.
func (h *SurveyHandler) Report(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month != "" && len(month) != 2 {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "month must be two digits", nil)
		return
	}
	report, err := h.surveys.Report(month)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "building report failed", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, report)
}
