package rest

import (
	"fmt"
	"net/http"

	"github.com/aniketri/real-insights-data/internal/application/dto"
)

func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	claims, err := principal(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	resp, err := a.h.Dashboard.Execute(r.Context(), dto.GetDashboardRequest{
		LoanFilters:    filtersFromQuery(r),
		OrganizationID: claims.OrganizationID,
	})
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) reports(w http.ResponseWriter, r *http.Request) {
	claims, err := principal(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	resp, err := a.h.Reports.Execute(r.Context(), claims.OrganizationID)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) createReport(w http.ResponseWriter, r *http.Request) {
	claims, err := principal(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	var req dto.CreateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	req.OrganizationID = claims.OrganizationID
	req.CreatedBy = claims.UserID

	resp, err := a.h.CreateReport.Execute(r.Context(), req)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) runReport(w http.ResponseWriter, r *http.Request) {
	claims, err := principal(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	reportID, err := pathUUID(r, "reportID")
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	resp, err := a.h.RunReport.Execute(r.Context(), dto.RunReportRequest{
		OrganizationID: claims.OrganizationID,
		ReportID:       reportID,
	})
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) listReportRuns(w http.ResponseWriter, r *http.Request) {
	claims, err := principal(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	reportID, err := pathUUID(r, "reportID")
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	limit, err := intParam(r.URL.Query().Get("limit"), "limit")
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	runs, err := a.h.ReportRuns.Execute(r.Context(), claims.OrganizationID, reportID, limit)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (a *API) exportLoans(w http.ResponseWriter, r *http.Request) {
	claims, err := principal(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	file, err := a.h.ExportLoans.Execute(r.Context(), claims.OrganizationID)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data) //nolint:errcheck
}
