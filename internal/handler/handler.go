package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/database"
	"github.com/stemsi/cutoff-backend/internal/response"
	"github.com/stemsi/cutoff-backend/internal/validator"
)

type stateURI struct {
	StateID int `uri:"state_id"`
}

type collegeURI struct {
	CollegeID int `uri:"college_id"`
}

// bindURI binds path parameters, answering 400 itself on failure. A segment
// that is not an integer is reported as INVALID_ID.
func bindURI(c *gin.Context, dst interface{}) bool {
	fields := validator.BindURI(c, dst)
	if fields == nil {
		return true
	}
	code := response.ErrValidation
	if _, ok := fields[validator.DetailField]; ok {
		code = response.ErrInvalidID
	}
	response.FailWithFields(c, http.StatusBadRequest, code, fields)
	return false
}

// failStore logs a store error and answers with a generic 500.
func failStore(c *gin.Context, log zerolog.Logger, op string, err error) {
	kind := "unknown"
	switch {
	case errors.Is(err, database.ErrStoreUnavailable):
		kind = "store_unavailable"
	case errors.Is(err, database.ErrQuery):
		kind = "query_error"
	}

	_ = c.Error(err)
	log.Error().
		Err(err).
		Str("op", op).
		Str("kind", kind).
		Str("request_id", c.GetString(response.ContextKeyRequestID)).
		Msg("Query failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
