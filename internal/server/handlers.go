package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/timetable"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type boardQuery struct {
	At string `form:"at" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type boardColumn struct {
	Title string           `json:"title"`
	Entry *timetable.Entry `json:"entry"`
}

type boardResponse struct {
	Day        int           `json:"dayOfWeek"`
	DayLabel   string        `json:"dayLabel"`
	Clock      string        `json:"clock"`
	Shift      string        `json:"shift"`
	ShiftLabel string        `json:"shiftLabel"`
	Columns    []boardColumn `json:"columns"`
}

type editRequest struct {
	Field string `json:"field" binding:"required,field"`
	Value string `json:"value"`
}

type editResponse struct {
	Entry      timetable.Entry `json:"entry"`
	AutoFilled string          `json:"autoFilled,omitempty"`
}

type initRequest struct {
	Day       *int   `json:"dayOfWeek" binding:"required,min=0,max=6"`
	ClassName string `json:"className" binding:"required"`
	Shift     string `json:"shift" binding:"omitempty,shift"`
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type catalogShift struct {
	Shift   string             `json:"shift"`
	Label   string             `json:"label"`
	Slots   []catalogSlot      `json:"slots"`
	Classes []string           `json:"classes"`
	Columns []timetable.Column `json:"columns"`
}

type catalogSlot struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Name    string `json:"name"`
	IsBreak bool   `json:"isBreak"`
}

// GET /api/board?at=<RFC3339>
func (s *Server) getBoard(c *gin.Context) {
	var q boardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}
	now := s.opts.Now()
	if q.At != "" {
		at, err := time.Parse(time.RFC3339, q.At)
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}
		now = at
	}

	entries, err := s.svc.Store().LoadSchedule(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	board := timetable.BoardAt(entries, now)
	resp := boardResponse{
		Day:        board.Day,
		DayLabel:   dateutil.WeekdayLabel(board.Day),
		Clock:      board.Clock,
		Shift:      string(board.Shift),
		ShiftLabel: board.Shift.Label(),
		Columns:    make([]boardColumn, len(board.Columns)),
	}
	for i, col := range board.Columns {
		resp.Columns[i] = boardColumn{Title: col.Title, Entry: col.Entry}
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/schedule
func (s *Server) getSchedule(c *gin.Context) {
	entries, err := s.svc.Store().LoadSchedule(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GET /api/registry
func (s *Server) getRegistry(c *gin.Context) {
	registry, err := s.svc.Store().LoadRegistry(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, registry)
}

// GET /api/catalog
func (s *Server) getCatalog(c *gin.Context) {
	shifts := make([]catalogShift, 0, 2)
	for _, shift := range timetable.Shifts() {
		cs := catalogShift{
			Shift:   string(shift),
			Label:   shift.Label(),
			Classes: timetable.Classes(shift),
			Columns: timetable.Columns(shift),
		}
		for _, slot := range timetable.Slots(shift) {
			cs.Slots = append(cs.Slots, catalogSlot(slot))
		}
		shifts = append(shifts, cs)
	}
	c.JSON(http.StatusOK, gin.H{
		"shifts":        shifts,
		"shiftBoundary": timetable.ShiftBoundary,
		"triggerTimes":  timetable.TriggerTimes(),
	})
}

// GET /api/export.xlsx?days=1,2,3
func (s *Server) getExport(c *gin.Context) {
	days := s.opts.Days
	if raw := c.Query("days"); raw != "" {
		parsed, err := parseDays(raw)
		if err != nil {
			abortError(c, http.StatusBadRequest, err)
			return
		}
		days = parsed
	}

	entries, err := s.svc.Store().LoadSchedule(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	buf, err := export.Write(entries, days)
	if err != nil {
		writeError(c, err)
		return
	}

	filename := url.QueryEscape(export.Filename(s.opts.Now()))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// PATCH /api/entries/:id
func (s *Server) patchEntry(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}
	field, err := timetable.ParseField(req.Field)
	if err != nil {
		writeError(c, err)
		return
	}

	id := c.Param("id")
	res, err := s.svc.Edit(c.Request.Context(), id, field, req.Value)
	if err != nil {
		writeError(c, err)
		return
	}
	if !res.Applied {
		abortError(c, http.StatusNotFound, errors.New("entry not found"))
		return
	}
	entry, _ := timetable.FindEntry(res.Entries, id)
	c.JSON(http.StatusOK, editResponse{Entry: entry, AutoFilled: res.AutoFilled})
}

// POST /api/entries/:id/clear
func (s *Server) clearEntry(c *gin.Context) {
	id := c.Param("id")
	entries, err := s.svc.ClearSlot(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	entry, ok := timetable.FindEntry(entries, id)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// POST /api/days
func (s *Server) initializeDay(c *gin.Context) {
	var req initRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}

	class := strings.TrimSpace(req.ClassName)
	var shift timetable.Shift
	if req.Shift != "" {
		shift, _ = timetable.ParseShift(req.Shift)
	} else {
		var ok bool
		if shift, ok = timetable.ShiftOfClass(class); !ok {
			abortError(c, http.StatusBadRequest, errors.New("shift is required for classes outside the catalog"))
			return
		}
	}

	entries, err := s.svc.InitializeDay(c.Request.Context(), *req.Day, class, shift)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, timetable.DayEntries(entries, *req.Day, class))
}

// POST /api/registry/subjects
func (s *Server) addSubject(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}
	registry, err := s.svc.AddSubject(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, registry)
}

// DELETE /api/registry/subjects/:subject
func (s *Server) removeSubject(c *gin.Context) {
	registry, err := s.svc.RemoveSubject(c.Request.Context(), c.Param("subject"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, registry)
}

// POST /api/registry/subjects/:subject/teachers
func (s *Server) addTeacher(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, err)
		return
	}
	registry, err := s.svc.AddTeacher(c.Request.Context(), c.Param("subject"), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, registry)
}

// DELETE /api/registry/subjects/:subject/teachers/:teacher
func (s *Server) removeTeacher(c *gin.Context) {
	registry, err := s.svc.RemoveTeacher(c.Request.Context(), c.Param("subject"), c.Param("teacher"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, registry)
}

// parseDays parses a comma-separated list of day numbers or names.
func parseDays(raw string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			if err := timetable.ValidateDay(n); err != nil {
				return nil, err
			}
			days = append(days, n)
			continue
		}
		if !dateutil.IsWeekdayName(part) {
			return nil, dateutil.ErrInvalidWeekday
		}
		d, err := dateutil.ParseWeekday(part, time.Time{})
		if err != nil {
			return nil, err
		}
		days = append(days, int(d))
	}
	if len(days) == 0 {
		return nil, export.ErrNoDays
	}
	return days, nil
}
