package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/response"
	"github.com/stemsi/cutoff-backend/internal/service"
)

type StateHandler struct {
	queryService service.QueryService
	log          zerolog.Logger
}

func NewStateHandler(queryService service.QueryService, log zerolog.Logger) *StateHandler {
	return &StateHandler{
		queryService: queryService,
		log:          log.With().Str("component", "state_handler").Logger(),
	}
}

// GetStates handles GET /api/get_states.
func (h *StateHandler) GetStates(c *gin.Context) {
	states, err := h.queryService.ListStates(c.Request.Context())
	if err != nil {
		failStore(c, h.log, "list_states", err)
		return
	}
	response.OK(c, gin.H{"states": states})
}

// GetStateName handles GET /api/get_state_name_by_id/:state_id.
// An unknown id answers {"state_name": null}.
func (h *StateHandler) GetStateName(c *gin.Context) {
	var uri stateURI
	if !bindURI(c, &uri) {
		return
	}

	name, err := h.queryService.GetStateName(c.Request.Context(), uri.StateID)
	if err != nil {
		failStore(c, h.log, "get_state_name", err)
		return
	}
	response.OK(c, gin.H{"state_name": name})
}

// GetCategories handles GET /api/get_categories_by_state/:state_id.
func (h *StateHandler) GetCategories(c *gin.Context) {
	var uri stateURI
	if !bindURI(c, &uri) {
		return
	}

	categories, err := h.queryService.ListCategoriesByState(c.Request.Context(), uri.StateID)
	if err != nil {
		failStore(c, h.log, "list_categories_by_state", err)
		return
	}
	response.OK(c, gin.H{"categories": categories})
}
