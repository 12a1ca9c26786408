package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/response"
	"github.com/stemsi/cutoff-backend/internal/service"
)

type CutoffHandler struct {
	queryService service.QueryService
	log          zerolog.Logger
}

func NewCutoffHandler(queryService service.QueryService, log zerolog.Logger) *CutoffHandler {
	return &CutoffHandler{
		queryService: queryService,
		log:          log.With().Str("component", "cutoff_handler").Logger(),
	}
}

// GetBestCutoffsByState handles GET /api/get_cutoffs_by_state/:state_id and
// returns the highest closing rank per category, with college names.
func (h *CutoffHandler) GetBestCutoffsByState(c *gin.Context) {
	var uri stateURI
	if !bindURI(c, &uri) {
		return
	}

	cutoffs, err := h.queryService.GetBestCutoffsByState(c.Request.Context(), uri.StateID)
	if err != nil {
		failStore(c, h.log, "get_best_cutoffs_by_state", err)
		return
	}
	response.OK(c, gin.H{"cutoffs": cutoffs})
}

func (h *CutoffHandler) GetCutoffsByCollege(c *gin.Context) {
	var uri collegeURI
	if !bindURI(c, &uri) {
		return
	}

	cutoffs, err := h.queryService.GetCutoffsByCollege(c.Request.Context(), uri.CollegeID)
	if err != nil {
		failStore(c, h.log, "get_cutoffs_by_college", err)
		return
	}
	response.OK(c, gin.H{"cutoffs": cutoffs})
}
