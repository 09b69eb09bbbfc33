package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Aquagrim/internal/kv"
	"Aquagrim/internal/utils"
)

type apiHandlers struct {
	store *kv.Store
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: ошибка сериализации ответа: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Health — проверка живости сервиса.
func (h *apiHandlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetSites отдает площадки за дату (?date=YYYY-MM-DD, по умолчанию сегодня).
func (h *apiHandlers) GetSites(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = utils.MoscowDate()
	}
	sites, err := h.store.GetSitesByDate(r.Context(), date)
	if err != nil {
		log.Printf("api.GetSites: %v", err)
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"date": date, "sites": sites})
}

// GetSiteReports отдает отчеты площадки за дату.
func (h *apiHandlers) GetSiteReports(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteID")
	site, err := h.store.GetSiteByID(r.Context(), siteID)
	if err != nil {
		log.Printf("api.GetSiteReports: %v", err)
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	if site == nil {
		writeError(w, http.StatusNotFound, "площадка не найдена")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = site.Date
	}
	reports, err := h.store.GetReportsBySite(r.Context(), siteID, date)
	if err != nil {
		log.Printf("api.GetSiteReports: %v", err)
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"site": site, "date": date, "reports": reports})
}
