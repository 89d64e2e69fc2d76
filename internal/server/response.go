package server

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/timetable"
)

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error    string              `json:"error"`
	Conflict *timetable.Conflict `json:"conflict,omitempty"`
}

func abortError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var ce *timetable.ConflictError
	if errors.As(err, &ce) {
		conflict := ce.Conflict
		c.AbortWithStatusJSON(http.StatusConflict, errorResponse{Error: err.Error(), Conflict: &conflict})
		return
	}

	switch {
	case errors.Is(err, timetable.ErrAlreadyInitialized),
		errors.Is(err, timetable.ErrSubjectExists):
		abortError(c, http.StatusConflict, err)
	case errors.Is(err, timetable.ErrSubjectNotFound):
		abortError(c, http.StatusNotFound, err)
	case errors.Is(err, timetable.ErrInvalidDay),
		errors.Is(err, timetable.ErrInvalidShift),
		errors.Is(err, timetable.ErrUnknownField),
		errors.Is(err, timetable.ErrEmptyName),
		errors.Is(err, timetable.ErrInvalidTimeFormat),
		errors.Is(err, export.ErrNoDays):
		abortError(c, http.StatusBadRequest, err)
	default:
		_ = c.Error(err)
		abortError(c, http.StatusInternalServerError, errors.New("internal error"))
	}
}

var validatorsOnce sync.Once

// registerValidators adds the timetable tags to gin's validator.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("shift", func(fl validator.FieldLevel) bool {
			_, err := timetable.ParseShift(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("field", func(fl validator.FieldLevel) bool {
			_, err := timetable.ParseField(fl.Field().String())
			return err == nil
		})
	})
}
