package rest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
)

// AdminHandler - изменение каталога и служебные маршруты
type AdminHandler struct {
	saveUC   usecases_port.SavePropertyUseCase
	deleteUC usecases_port.DeletePropertyUseCase
	statsUC  usecases_port.CatalogStatsUseCase
}

func NewAdminHandler(
	saveUC usecases_port.SavePropertyUseCase,
	deleteUC usecases_port.DeletePropertyUseCase,
	statsUC usecases_port.CatalogStatsUseCase,
) *AdminHandler {
	return &AdminHandler{saveUC: saveUC, deleteUC: deleteUC, statsUC: statsUC}
}

// CreateProperty обрабатывает POST /api/v1/properties. ID всегда выдает хранилище.
func (h *AdminHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req PropertyRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	property, err := req.toDomain()
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	property.CreatedAt = time.Time{}

	details, err := h.saveUC.Execute(r.Context(), property)
	if err != nil {
		respondUseCaseError(w, logger, "SaveProperty", err)
		return
	}

	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+strconv.FormatInt(details.ID, 10))
	RespondWithJSON(w, http.StatusCreated, toDetailsResponse(details))
}

// UpdateProperty обрабатывает PUT /api/v1/properties/{propertyID}
func (h *AdminHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, err := parsePropertyID(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req PropertyRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	property, err := req.toDomain()
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	property.ID = id

	details, err := h.saveUC.Execute(r.Context(), property)
	if err != nil {
		respondUseCaseError(w, logger.WithFields(port.Fields{"property_id": id}), "SaveProperty", err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toDetailsResponse(details))
}

// DeleteProperty обрабатывает DELETE /api/v1/properties/{propertyID}
func (h *AdminHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, err := parsePropertyID(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.deleteUC.Execute(r.Context(), id); err != nil {
		respondUseCaseError(w, logger.WithFields(port.Fields{"property_id": id}), "DeleteProperty", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats обрабатывает GET /api/v1/properties/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	stats, err := h.statsUC.Execute(r.Context())
	if err != nil {
		respondUseCaseError(w, logger, "CatalogStats", err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toStatsResponse(stats))
}

func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
