package rest

import (
	"net/http"
	"strconv"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/engine"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

type MapHandler struct {
	getMapMarkersUC     usecases_port.GetMapMarkersUseCase
	getMarkerClustersUC usecases_port.GetMarkerClustersUseCase
}

func NewMapHandler(getMapMarkersUC usecases_port.GetMapMarkersUseCase,
	getMarkerClustersUC usecases_port.GetMarkerClustersUseCase) *MapHandler {
	return &MapHandler{
		getMapMarkersUC:     getMapMarkersUC,
		getMarkerClustersUC: getMarkerClustersUC,
	}
}

// GetMarkers обрабатывает GET /api/v1/map/markers
func (h *MapHandler) GetMarkers(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetMarkers"})

	state, err := parseFilterState(r.URL.Query())
	if err != nil {
		writeUseCaseError(w, handlerLogger, err, "")
		return
	}

	view, err := h.getMapMarkersUC.Execute(r.Context(), state)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err, "Failed to retrieve map markers")
		return
	}

	response := MapMarkersResponse{
		Region: MapRegionResponse{
			Latitude:       view.Region.Latitude,
			Longitude:      view.Region.Longitude,
			LatitudeDelta:  view.Region.LatitudeDelta,
			LongitudeDelta: view.Region.LongitudeDelta,
		},
		Markers: toMarkerResponses(view.Markers),
	}
	if len(view.Markers) == 0 {
		response.EmptyMessage = domain.EmptyResultMessage
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// GetClusters обрабатывает GET /api/v1/map/clusters
func (h *MapHandler) GetClusters(w http.ResponseWriter, r *http.Request) {
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetClusters"})

	query := r.URL.Query()
	state, err := parseFilterState(query)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err, "")
		return
	}

	precision := engine.DefaultClusterPrecision
	if raw := query.Get("precision"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 8)
		if err != nil || uint(parsed) < engine.MinClusterPrecision || uint(parsed) > engine.MaxClusterPrecision {
			handlerLogger.Warn("Invalid precision", port.Fields{"precision": raw})
			WriteJSONError(w, http.StatusBadRequest, "precision must be an integer between 1 and 12")
			return
		}
		precision = uint(parsed)
	}

	clusters, err := h.getMarkerClustersUC.Execute(r.Context(), state, precision)
	if err != nil {
		writeUseCaseError(w, handlerLogger, err, "Failed to retrieve map clusters")
		return
	}

	RespondWithJSON(w, http.StatusOK, MarkerClustersResponse{
		Precision: precision,
		Clusters:  toClusterResponses(clusters),
	})
}
