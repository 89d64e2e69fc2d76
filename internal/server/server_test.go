package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/db"
	"github.com/javiermolinar/horario/internal/timetable"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var monday = time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)

func sampleSnapshot() timetable.Snapshot {
	return timetable.Snapshot{
		Entries: []timetable.Entry{
			{ID: "e1", DayOfWeek: 1, StartTime: "07:20", EndTime: "08:10", PeriodName: "1º Horário", ClassName: "6º EFAF", Subject: "Matemática", TeacherName: "Ana"},
			{ID: "e2", DayOfWeek: 1, StartTime: "07:20", EndTime: "08:10", PeriodName: "1º Horário", ClassName: "7º EFAF"},
			{ID: "e3", DayOfWeek: 1, StartTime: "13:00", EndTime: "13:50", PeriodName: "1º Horário", ClassName: "1ª Série EM"},
		},
		Registry: []timetable.Subject{
			{Subject: "Física", Teachers: []string{"Ana"}},
			{Subject: "Química", Teachers: []string{"Bruno"}},
		},
	}
}

func newTestServer(t *testing.T, gate *auth.Gate) (*Server, *db.Memory) {
	t.Helper()
	store := db.NewMemory(sampleSnapshot())
	t.Cleanup(func() { _ = store.Close() })
	svc := timetable.NewService(store, nil)
	return New(svc, Options{Gate: gate, Now: func() time.Time { return monday }}), store
}

func jsonBody(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func do(s *Server, method, path string, body io.Reader, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
	return v
}

func TestGetBoard(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, http.MethodGet, "/api/board", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	board := decode[boardResponse](t, w)
	if board.Day != 1 || board.Clock != "07:30" || board.Shift != "morning" {
		t.Errorf("board = %+v", board)
	}
	if len(board.Columns) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(board.Columns))
	}
	if board.Columns[0].Entry == nil || board.Columns[0].Entry.Subject != "Matemática" {
		t.Errorf("first column = %+v", board.Columns[0])
	}
	if board.Columns[2].Entry != nil {
		t.Errorf("third column should be empty, got %+v", board.Columns[2].Entry)
	}
}

func TestGetBoard_At(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, http.MethodGet, "/api/board?at=2025-03-10T13:10:00Z", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	board := decode[boardResponse](t, w)
	if board.Shift != "afternoon" || len(board.Columns) != 3 {
		t.Fatalf("board = %+v", board)
	}
	if board.Columns[0].Entry == nil || board.Columns[0].Entry.ID != "e3" {
		t.Errorf("first column = %+v", board.Columns[0])
	}

	if w := do(s, http.MethodGet, "/api/board?at=yesterday", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad instant, got %d", w.Code)
	}
}

func TestGetScheduleAndRegistry(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, http.MethodGet, "/api/schedule", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if entries := decode[[]timetable.Entry](t, w); len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}

	w = do(s, http.MethodGet, "/api/registry", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if reg := decode[[]timetable.Subject](t, w); len(reg) != 2 {
		t.Errorf("expected 2 subjects, got %d", len(reg))
	}
}

func TestGetCatalog(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, http.MethodGet, "/api/catalog", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Shifts        []catalogShift `json:"shifts"`
		ShiftBoundary string         `json:"shiftBoundary"`
		TriggerTimes  []string       `json:"triggerTimes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(body.Shifts) != 2 || len(body.Shifts[0].Slots) != 6 || len(body.Shifts[1].Slots) != 9 {
		t.Errorf("unexpected catalog %+v", body.Shifts)
	}
	if body.ShiftBoundary != "12:30" {
		t.Errorf("shiftBoundary = %q", body.ShiftBoundary)
	}
	if len(body.TriggerTimes) == 0 || body.TriggerTimes[0] != "07:20" {
		t.Errorf("triggerTimes = %v", body.TriggerTimes)
	}
}

func TestPatchEntry(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       any
		wantStatus int
	}{
		{"set teacher", "e2", editRequest{Field: "teacherName", Value: "Bruno"}, http.StatusOK},
		{"teacher conflict", "e2", editRequest{Field: "teacherName", Value: "Ana"}, http.StatusConflict},
		{"auto-fill conflict", "e2", editRequest{Field: "subject", Value: "física"}, http.StatusConflict},
		{"unknown field", "e2", map[string]string{"field": "room", "value": "12"}, http.StatusBadRequest},
		{"missing field", "e2", map[string]string{"value": "12"}, http.StatusBadRequest},
		{"unknown entry", "nope", editRequest{Field: "subject", Value: "Artes"}, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestServer(t, nil)
			w := do(s, http.MethodPatch, "/api/entries/"+tc.id, jsonBody(tc.body))
			if w.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestPatchEntry_ConflictPayload(t *testing.T) {
	s, store := newTestServer(t, nil)

	w := do(s, http.MethodPatch, "/api/entries/e2", jsonBody(editRequest{Field: "subject", Value: "Física"}))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	resp := decode[errorResponse](t, w)
	if resp.Conflict == nil || resp.Conflict.ConflictingClass != "6º EFAF" || resp.Conflict.ConflictingTime != "07:20" {
		t.Errorf("conflict = %+v", resp.Conflict)
	}

	entries, _ := store.LoadSchedule(t.Context())
	e, _ := timetable.FindEntry(entries, "e2")
	if e.Subject != "" || e.TeacherName != "" {
		t.Errorf("rejected edit was stored: %+v", e)
	}
}

func TestPatchEntry_AutoFill(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, http.MethodPatch, "/api/entries/e2", jsonBody(editRequest{Field: "subject", Value: "Química"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[editResponse](t, w)
	if resp.AutoFilled != "Bruno" || resp.Entry.TeacherName != "Bruno" || resp.Entry.Subject != "Química" {
		t.Errorf("response = %+v", resp)
	}
}

func TestClearEntry(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, http.MethodPost, "/api/entries/e1/clear", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if e := decode[timetable.Entry](t, w); !e.IsEmpty() {
		t.Errorf("entry not cleared: %+v", e)
	}

	if w := do(s, http.MethodPost, "/api/entries/missing/clear", nil); w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for unknown entry, got %d", w.Code)
	}
}

func TestInitializeDay(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, http.MethodPost, "/api/days", jsonBody(map[string]any{"dayOfWeek": 2, "className": "9º EFAF"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	entries := decode[[]timetable.Entry](t, w)
	if len(entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(entries))
	}
	if !entries[2].IsBreak || entries[2].Subject != timetable.BreakSubject {
		t.Errorf("third slot should be the break, got %+v", entries[2])
	}

	w = do(s, http.MethodPost, "/api/days", jsonBody(map[string]any{"dayOfWeek": 2, "className": "9º EFAF"}))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 on second init, got %d", w.Code)
	}
}

func TestInitializeDay_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing day", map[string]any{"className": "9º EFAF"}},
		{"day out of range", map[string]any{"dayOfWeek": 9, "className": "9º EFAF"}},
		{"missing class", map[string]any{"dayOfWeek": 1}},
		{"bad shift", map[string]any{"dayOfWeek": 1, "className": "Reforço", "shift": "night"}},
		{"unknown class without shift", map[string]any{"dayOfWeek": 1, "className": "Reforço"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestServer(t, nil)
			w := do(s, http.MethodPost, "/api/days", jsonBody(tc.body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestRegistryRoutes(t *testing.T) {
	s, store := newTestServer(t, nil)

	w := do(s, http.MethodPost, "/api/registry/subjects", jsonBody(nameRequest{Name: "Artes"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if w := do(s, http.MethodPost, "/api/registry/subjects", jsonBody(nameRequest{Name: "artes"})); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate subject, got %d", w.Code)
	}
	if w := do(s, http.MethodPost, "/api/registry/subjects/Artes/teachers", jsonBody(nameRequest{Name: "Carla"})); w.Code != http.StatusCreated {
		t.Errorf("expected 201 adding teacher, got %d", w.Code)
	}
	if w := do(s, http.MethodPost, "/api/registry/subjects/Musica/teachers", jsonBody(nameRequest{Name: "Carla"})); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown subject, got %d", w.Code)
	}
	if w := do(s, http.MethodPost, "/api/registry/subjects", jsonBody(nameRequest{})); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty name, got %d", w.Code)
	}

	reg, _ := store.LoadRegistry(t.Context())
	if len(reg) != 3 || reg[0].Subject != "Artes" || len(reg[0].Teachers) != 1 {
		t.Fatalf("registry = %+v", reg)
	}

	if w := do(s, http.MethodDelete, "/api/registry/subjects/Artes/teachers/Carla", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 removing teacher, got %d", w.Code)
	}
	if w := do(s, http.MethodDelete, "/api/registry/subjects/Artes", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 removing subject, got %d", w.Code)
	}
	reg, _ = store.LoadRegistry(t.Context())
	if len(reg) != 2 {
		t.Errorf("expected 2 subjects left, got %+v", reg)
	}
}

func TestRequireAdmin(t *testing.T) {
	hash, err := auth.HashPIN("4321")
	if err != nil {
		t.Fatalf("HashPIN failed: %v", err)
	}
	s, _ := newTestServer(t, auth.NewGate(hash))

	body := func() io.Reader { return jsonBody(editRequest{Field: "teacherName", Value: "Bruno"}) }

	if w := do(s, http.MethodPatch, "/api/entries/e2", body()); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without PIN, got %d", w.Code)
	}
	if w := do(s, http.MethodPatch, "/api/entries/e2", body(), PINHeader, "0000"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong PIN, got %d", w.Code)
	}
	if w := do(s, http.MethodPatch, "/api/entries/e2", body(), PINHeader, "4321"); w.Code != http.StatusOK {
		t.Errorf("expected 200 with PIN, got %d", w.Code)
	}
	if w := do(s, http.MethodGet, "/api/schedule", nil); w.Code != http.StatusOK {
		t.Errorf("reads must stay open, got %d", w.Code)
	}
}

func TestGetExport(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, http.MethodGet, "/api/export.xlsx?days=segunda,2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q", ct)
	}

	f, err := excelize.OpenReader(w.Body)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	got, _ := f.GetCellValue("Manhã", "C4")
	if got != "Matemática\nAna" {
		t.Errorf("C4 = %q", got)
	}

	if w := do(s, http.MethodGet, "/api/export.xlsx?days=9", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad day, got %d", w.Code)
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"1,2,3", []int{1, 2, 3}, false},
		{"segunda, sexta", []int{1, 5}, false},
		{"sábado", []int{6}, false},
		{"7", nil, true},
		{"funday", nil, true},
		{" , ", nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseDays(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseDays(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("parseDays(%q) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("parseDays(%q)[%d] = %d, want %d", tc.in, i, got[i], tc.want[i])
				}
			}
		})
	}
}
