package rest

import (
	"net/http"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/port/usecases_port"
)

// PropertyHandler - публичные маршруты чтения каталога
type PropertyHandler struct {
	listUC     usecases_port.ListPropertiesUseCase
	getUC      usecases_port.GetPropertyUseCase
	searchUC   usecases_port.SearchPropertiesUseCase
	featuredUC usecases_port.FeaturedPropertiesUseCase
}

func NewPropertyHandler(
	listUC usecases_port.ListPropertiesUseCase,
	getUC usecases_port.GetPropertyUseCase,
	searchUC usecases_port.SearchPropertiesUseCase,
	featuredUC usecases_port.FeaturedPropertiesUseCase,
) *PropertyHandler {
	return &PropertyHandler{
		listUC:     listUC,
		getUC:      getUC,
		searchUC:   searchUC,
		featuredUC: featuredUC,
	}
}

// ListProperties обрабатывает GET /api/v1/properties
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	q := r.URL.Query()

	page, size, err := parsePaging(q)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	sorting, err := parseSorting(q.Get("sortBy"), q.Get("sortOrder"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.listUC.Execute(r.Context(), page, size, sorting)
	if err != nil {
		respondUseCaseError(w, logger, "ListProperties", err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toPageResponse(result))
}

// GetProperty обрабатывает GET /api/v1/properties/{propertyID}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, err := parsePropertyID(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		respondUseCaseError(w, logger.WithFields(port.Fields{"property_id": id}), "GetProperty", err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toDetailsResponse(details))
}

// SearchProperties обрабатывает POST /api/v1/properties/search
func (h *PropertyHandler) SearchProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	page, size, err := parsePaging(r.URL.Query())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req SearchRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	criteria, err := req.toCriteria()
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	sorting, err := parseSorting(req.SortBy, req.SortOrder)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.searchUC.Execute(r.Context(), criteria, sorting, page, size)
	if err != nil {
		respondUseCaseError(w, logger, "SearchProperties", err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toPageResponse(result))
}

// FeaturedProperties обрабатывает GET /api/v1/properties/featured
func (h *PropertyHandler) FeaturedProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	limit, err := parseLimit(r.URL.Query())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.featuredUC.Execute(r.Context(), limit)
	if err != nil {
		respondUseCaseError(w, logger, "FeaturedProperties", err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toSummaryResponses(items))
}
