// Package handlers provides HTTP request handlers for the chemspace API
// endpoints: dataset browsing, per-drug radar charts and depictions,
// descriptive statistics, period comparisons and scatter plots.
package handlers

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quimed/chemspace-api/chem"
	"github.com/quimed/chemspace-api/data"
	"github.com/quimed/chemspace-api/dataset/entities"
	"github.com/quimed/chemspace-api/logging"
	"github.com/quimed/chemspace-api/metrics"
	"github.com/quimed/chemspace-api/plots"
	"github.com/quimed/chemspace-api/radar"
	"github.com/quimed/chemspace-api/stats"
)

// Minimum response size to consider compression (1KB)
const compressionThreshold = 1024

const pageSize = 25

// radarColor is the fill color of every drug polygon, matching the
// dashboard's palette.
const radarColor = "#0B1B82"

// RespondWithJSON writes a JSON response, gzip-compressed when the payload
// is large enough and the client accepts it.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))

	shouldCompress := len(body) >= compressionThreshold &&
		strings.Contains(strings.ToLower(r.Header.Get("Accept-Encoding")), "gzip")

	if shouldCompress {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(code)
		gz := gzip.NewWriter(w)
		defer func() {
			if err := gz.Close(); err != nil {
				logging.Warn("Failed to close gzip writer", "error", err)
			}
		}()
		if _, err := gz.Write(body); err != nil {
			logging.Error("Failed to write compressed response", "error", err)
		}
		return
	}

	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		logging.Error("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	RespondWithJSON(w, r, code, map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// lookupDrug resolves a drug by its case-insensitive name.
func lookupDrug(dc *data.DataContainer, name string) (*entities.DrugRecord, bool) {
	drug, ok := dc.GetDataset().ByName[strings.ToLower(strings.TrimSpace(name))]
	return drug, ok
}

// ServeAllDrugs returns the full drug table
func ServeAllDrugs(dc *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, r, http.StatusOK, dc.GetDataset().Drugs)
	}
}

// ServePagedDrugs returns one page of the drug table
func ServePagedDrugs(dc *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNumber := chi.URLParam(r, "pageNumber")
		page, err := strconv.Atoi(pageNumber)
		if err != nil || page < 1 {
			logging.Warn("Unusual user input", "pageNumber", pageNumber)
			RespondWithError(w, r, http.StatusBadRequest, "Invalid page number")
			return
		}

		drugs := dc.GetDataset().Drugs
		start := (page - 1) * pageSize
		end := start + pageSize

		if start >= len(drugs) {
			RespondWithError(w, r, http.StatusNotFound, "Page not found")
			return
		}

		if end > len(drugs) {
			end = len(drugs)
		}

		totalItems := len(drugs)
		maxPage := (totalItems + pageSize - 1) / pageSize

		RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
			"data":       drugs[start:end],
			"page":       page,
			"pageSize":   pageSize,
			"totalItems": totalItems,
			"maxPage":    maxPage,
		})
	}
}

// SearchDrugs searches drugs by case-insensitive name substring
func SearchDrugs(dc *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "term")))
		if term == "" {
			RespondWithError(w, r, http.StatusBadRequest, "Missing search term")
			return
		}

		drugs := dc.GetDataset().Drugs
		var results []entities.DrugRecord

		for i := range drugs {
			if strings.Contains(strings.ToLower(drugs[i].Name), term) {
				results = append(results, drugs[i])
			}
		}

		if len(results) == 0 {
			RespondWithError(w, r, http.StatusNotFound, "No drugs found")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, results)
	}
}

// drugDetail is the per-drug panel payload: the record, its Lipinski
// verdict, and (when the structure service is reachable) the molecular
// formula and live-computed descriptors.
type drugDetail struct {
	entities.DrugRecord
	PassesLipinski  bool               `json:"passes_lipinski"`
	Formula         string             `json:"formula,omitempty"`
	LiveDescriptors map[string]float64 `json:"live_descriptors,omitempty"`
}

// GetDrug returns one drug with its formula and live descriptors
func GetDrug(dc *data.DataContainer, svc *chem.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drug, ok := lookupDrug(dc, chi.URLParam(r, "name"))
		if !ok {
			RespondWithError(w, r, http.StatusNotFound, "Drug not found")
			return
		}

		detail := drugDetail{
			DrugRecord:     *drug,
			PassesLipinski: drug.PassesLipinski(),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if formula, err := svc.MolecularFormula(ctx, drug.Smiles); err == nil {
			detail.Formula = chem.SubscriptDigits(formula)
		} else if !errors.Is(err, chem.ErrServiceUnavailable) {
			logging.Warn("Formula lookup failed", "drug", drug.Name, "error", err)
		}

		if descriptors, err := svc.ComputeDescriptors(ctx, drug.Smiles); err == nil {
			if qed, err := svc.ComputeDrugLikeness(ctx, drug.Smiles); err == nil {
				descriptors["qed"] = qed
			}
			detail.LiveDescriptors = descriptors
		}

		RespondWithJSON(w, r, http.StatusOK, detail)
	}
}

// DrugRadar returns the radar chart geometry of a drug's Lipinski
// descriptors against the fixed display reference ranges.
func DrugRadar(dc *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drug, ok := lookupDrug(dc, chi.URLParam(r, "name"))
		if !ok {
			RespondWithError(w, r, http.StatusNotFound, "Drug not found")
			return
		}

		minValues := make([]float64, len(entities.LipinskiRanges))
		maxValues := make([]float64, len(entities.LipinskiRanges))
		for i, rng := range entities.LipinskiRanges {
			minValues[i] = rng.Min
			maxValues[i] = rng.Max
		}

		chart, err := radar.Build(entities.LipinskiDescriptors, entities.LipinskiValues(drug),
			minValues, maxValues, drug.Name, radarColor)
		if err != nil {
			// Contract violation: the fixed axes and ranges are validated at startup
			metrics.ChartRenderTotals.WithLabelValues("radar", "error").Inc()
			logging.Error("Radar build failed", "drug", drug.Name, "error", err)
			RespondWithError(w, r, http.StatusInternalServerError, "Failed to build radar chart")
			return
		}

		metrics.ChartRenderTotals.WithLabelValues("radar", "ok").Inc()
		RespondWithJSON(w, r, http.StatusOK, chart)
	}
}

// DrugStructure proxies the 2-D depiction of a drug's structure
func DrugStructure(dc *data.DataContainer, svc *chem.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drug, ok := lookupDrug(dc, chi.URLParam(r, "name"))
		if !ok {
			RespondWithError(w, r, http.StatusNotFound, "Drug not found")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		image, err := svc.Render2D(ctx, drug.Smiles)
		if err != nil {
			switch {
			case errors.Is(err, chem.ErrInvalidStructure):
				RespondWithError(w, r, http.StatusUnprocessableEntity, "Cannot render this entry")
			case errors.Is(err, chem.ErrServiceUnavailable):
				RespondWithError(w, r, http.StatusServiceUnavailable, "Structure rendering is not available")
			default:
				logging.Error("Depiction failed", "drug", drug.Name, "error", err)
				RespondWithError(w, r, http.StatusBadGateway, "Structure rendering failed")
			}
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=86400") // depictions are immutable per structure
		if _, err := w.Write(image); err != nil {
			logging.Error("Failed to write depiction response", "error", err)
		}
	}
}

// StatsSummary returns route-filtered descriptive statistics
func StatsSummary(dc *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := stats.Describe(dc.GetDataset(), r.URL.Query().Get("route"))
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		RespondWithJSON(w, r, http.StatusOK, summary)
	}
}

// PeriodComparison returns box summaries and the pairwise significance
// matrix of a descriptor across approval periods
func PeriodComparison(dc *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		descriptor := chi.URLParam(r, "descriptor")

		comparison, err := stats.ComparePeriods(dc.GetDataset(), descriptor, r.URL.Query().Get("route"))
		if err != nil {
			if errors.Is(err, stats.ErrInvalidColumn) {
				RespondWithError(w, r, http.StatusBadRequest, "Unknown descriptor: "+descriptor)
				return
			}
			logging.Error("Period comparison failed", "descriptor", descriptor, "error", err)
			RespondWithError(w, r, http.StatusInternalServerError, "Period comparison failed")
			return
		}

		RespondWithJSON(w, r, http.StatusOK, comparison)
	}
}

// ScatterPlot renders a PNG scatter plot of two descriptors
func ScatterPlot(dc *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		x := q.Get("x")
		y := q.Get("y")
		if x == "" || y == "" {
			RespondWithError(w, r, http.StatusBadRequest, "Both x and y descriptors are required")
			return
		}

		image, err := plots.Scatter(dc.GetDataset(), x, y, q.Get("color"))
		if err != nil {
			switch {
			case errors.Is(err, stats.ErrInvalidColumn):
				metrics.ChartRenderTotals.WithLabelValues("scatter", "bad_column").Inc()
				RespondWithError(w, r, http.StatusBadRequest, err.Error())
			case errors.Is(err, plots.ErrNoData):
				metrics.ChartRenderTotals.WithLabelValues("scatter", "empty").Inc()
				w.WriteHeader(http.StatusNoContent)
			default:
				metrics.ChartRenderTotals.WithLabelValues("scatter", "error").Inc()
				logging.Error("Scatter render failed", "x", x, "y", y, "error", err)
				RespondWithError(w, r, http.StatusInternalServerError, "Failed to render scatter plot")
			}
			return
		}

		metrics.ChartRenderTotals.WithLabelValues("scatter", "ok").Inc()
		w.Header().Set("Content-Type", "image/png")
		if _, err := w.Write(image); err != nil {
			logging.Error("Failed to write scatter response", "error", err)
		}
	}
}

// Descriptors lists the numeric descriptor columns usable as chart axes.
func Descriptors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, r, http.StatusOK, entities.DescriptorNames)
	}
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string                 `json:"status"`
	LastLoad      string                 `json:"last_load"`
	DataAgeHours  float64                `json:"data_age_hours"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	Data          map[string]interface{} `json:"data"`
	System        map[string]interface{} `json:"system"`
}

// HealthCheck returns server health information
func HealthCheck(dc *data.DataContainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		uptime := time.Since(dc.GetServerStartTime())

		ds := dc.GetDataset()
		lastLoad := dc.GetLastLoaded()
		dataAge := time.Since(lastLoad)

		var healthStatus string
		var httpStatus int
		switch {
		case len(ds.Drugs) == 0:
			healthStatus = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		case dataAge > 25*time.Hour:
			healthStatus = "degraded"
			httpStatus = http.StatusOK
		default:
			healthStatus = "healthy"
			httpStatus = http.StatusOK
		}

		response := HealthResponse{
			Status:        healthStatus,
			LastLoad:      lastLoad.Format(time.RFC3339),
			DataAgeHours:  dataAge.Hours(),
			UptimeSeconds: uptime.Seconds(),
			Data: map[string]interface{}{
				"api_version": "1.0",
				"records":     len(ds.Drugs),
				"periods":     len(ds.Periods),
				"routes":      ds.Routes,
				"is_loading":  dc.IsLoading(),
			},
			System: map[string]interface{}{
				"goroutines": runtime.NumGoroutine(),
				"memory": map[string]interface{}{
					"alloc_mb":       int(m.Alloc / 1024 / 1024),
					"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
					"sys_mb":         int(m.Sys / 1024 / 1024),
					"num_gc":         m.NumGC,
				},
			},
		}

		RespondWithJSON(w, r, httpStatus, response)
	}
}
