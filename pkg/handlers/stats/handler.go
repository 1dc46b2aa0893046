package stats

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/spot-stats/pkg/services/query"
	"github.com/de-tools/spot-stats/pkg/store/artifact"
	"github.com/rs/zerolog"
)

type Handler struct {
	source artifact.Source
	now    func() time.Time
}

func NewHandler(source artifact.Source) *Handler {
	return &Handler{source: source, now: time.Now}
}

// ListStats returns the cheapest offers matching the query parameters
// memory, vcpus, mpv, type, currentgen, region, architecture and limit.
func (h *Handler) ListStats(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stats, err := artifact.Load(r.Context(), h.source)
	if err != nil {
		logger.Error().Err(err).Str("location", h.source.Location()).Msg("failed to load artifact")
		http.Error(w, "failed to load spot pricing stats", http.StatusInternalServerError)
		return
	}

	rows, err := query.Apply(stats, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, rows)
}

func (h *Handler) GetMeta(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	stats, err := artifact.Load(r.Context(), h.source)
	if err != nil {
		logger.Error().Err(err).Str("location", h.source.Location()).Msg("failed to load artifact")
		http.Error(w, "failed to load spot pricing stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, query.Meta(stats, h.now()))
}

type paramError struct {
	name string
}

func (e *paramError) Error() string {
	return "invalid '" + e.name + "' parameter"
}

func parseFilter(r *http.Request) (query.Filter, error) {
	params := r.URL.Query()
	filter := query.Filter{
		InstanceType: params.Get("type"),
		Region:       params.Get("region"),
		Architecture: params.Get("architecture"),
	}

	floats := map[string]*float64{
		"memory": &filter.MinMemoryGiB,
		"mpv":    &filter.MinMemoryPerVCPU,
	}
	for name, dst := range floats {
		if v := params.Get(name); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return query.Filter{}, &paramError{name: name}
			}
			*dst = parsed
		}
	}

	ints := map[string]*int{
		"vcpus": &filter.MinVCPUs,
		"limit": &filter.Limit,
	}
	for name, dst := range ints {
		if v := params.Get(name); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return query.Filter{}, &paramError{name: name}
			}
			*dst = parsed
		}
	}

	if v := params.Get("currentgen"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return query.Filter{}, &paramError{name: "currentgen"}
		}
		filter.CurrentGeneration = parsed
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", artifact.ContentType)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
