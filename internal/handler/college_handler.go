package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/response"
	"github.com/stemsi/cutoff-backend/internal/service"
)

type CollegeHandler struct {
	queryService service.QueryService
	log          zerolog.Logger
}

func NewCollegeHandler(queryService service.QueryService, log zerolog.Logger) *CollegeHandler {
	return &CollegeHandler{
		queryService: queryService,
		log:          log.With().Str("component", "college_handler").Logger(),
	}
}

func (h *CollegeHandler) GetColleges(c *gin.Context) {
	colleges, err := h.queryService.ListColleges(c.Request.Context())
	if err != nil {
		failStore(c, h.log, "list_colleges", err)
		return
	}
	response.OK(c, gin.H{"colleges": colleges})
}

func (h *CollegeHandler) GetCollegesByState(c *gin.Context) {
	var uri stateURI
	if !bindURI(c, &uri) {
		return
	}

	colleges, err := h.queryService.ListCollegesByState(c.Request.Context(), uri.StateID)
	if err != nil {
		failStore(c, h.log, "list_colleges_by_state", err)
		return
	}
	response.OK(c, gin.H{"colleges": colleges})
}

func (h *CollegeHandler) GetCollegeName(c *gin.Context) {
	var uri collegeURI
	if !bindURI(c, &uri) {
		return
	}

	name, err := h.queryService.GetCollegeName(c.Request.Context(), uri.CollegeID)
	if err != nil {
		failStore(c, h.log, "get_college_name", err)
		return
	}
	response.OK(c, gin.H{"college_name": name})
}
