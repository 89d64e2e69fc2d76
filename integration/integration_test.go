package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/alert"
	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/db"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/llm"
	"github.com/javiermolinar/horario/internal/server"
	"github.com/javiermolinar/horario/internal/timetable"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// monday is 2025-03-10 07:30 UTC, during the first morning period.
var monday = time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)

// openStore creates a SQLite store on path with automatic cleanup.
func openStore(t *testing.T, path string, poll time.Duration) *db.SQLite {
	t.Helper()
	store, err := db.New(path, db.WithPollInterval(poll))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// waitFor reads snapshots until ok accepts one or the deadline passes.
func waitFor(t *testing.T, ch <-chan timetable.Snapshot, ok func(timetable.Snapshot) bool) timetable.Snapshot {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case snap, open := <-ch:
			if !open {
				t.Fatalf("subscription closed")
			}
			if ok(snap) {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for snapshot")
		}
	}
}

// initMorning initializes 6º and 7º EFAF on Monday and returns the service.
func initMorning(t *testing.T, store timetable.Store) *timetable.Service {
	t.Helper()
	ctx := context.Background()
	svc := timetable.NewService(store, zap.NewNop())
	if err := svc.ReplaceRegistry(ctx, []timetable.Subject{
		{Subject: "Física", Teachers: []string{"Ana"}},
		{Subject: "Química", Teachers: []string{"Bruno", "Carla"}},
	}); err != nil {
		t.Fatalf("ReplaceRegistry: %v", err)
	}
	for _, class := range []string{"6º EFAF", "7º EFAF"} {
		if _, err := svc.InitializeDay(ctx, 1, class, timetable.ShiftMorning); err != nil {
			t.Fatalf("InitializeDay(%s): %v", class, err)
		}
	}
	return svc
}

func cellID(t *testing.T, store timetable.Store, class, start string) string {
	t.Helper()
	entries, err := store.LoadSchedule(context.Background())
	if err != nil {
		t.Fatalf("LoadSchedule: %v", err)
	}
	e, ok := timetable.Cell(entries, 1, class, start)
	if !ok {
		t.Fatalf("no %s entry at %s", class, start)
	}
	return e.ID
}

func TestEditorAndBoardShareDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horario.db")
	editor := openStore(t, path, 0)
	board := openStore(t, path, 20*time.Millisecond)

	ch, cancel := board.Subscribe()
	defer cancel()
	// Let the watcher read the initial data_version.
	time.Sleep(60 * time.Millisecond)

	svc := initMorning(t, editor)
	ctx := context.Background()

	res, err := svc.Edit(ctx, cellID(t, editor, "6º EFAF", "07:20"), timetable.FieldSubject, "física")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if res.AutoFilled != "Ana" {
		t.Fatalf("auto-filled %q, want Ana", res.AutoFilled)
	}

	snap := waitFor(t, ch, func(s timetable.Snapshot) bool {
		e, ok := timetable.Cell(s.Entries, 1, "6º EFAF", "07:20")
		return ok && e.TeacherName == "Ana"
	})

	live := timetable.BoardAt(snap.Entries, monday)
	if live.Shift != timetable.ShiftMorning || len(live.Columns) == 0 {
		t.Fatalf("board = %+v", live)
	}
	first := live.Columns[0].Entry
	if first == nil || first.ClassName != "6º EFAF" || first.Subject != "física" {
		t.Fatalf("first column = %+v", first)
	}
}

func TestConflictAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horario.db")
	first := openStore(t, path, 0)
	second := openStore(t, path, 0)
	ctx := context.Background()

	svc := initMorning(t, first)
	if _, err := svc.Edit(ctx, cellID(t, first, "6º EFAF", "07:20"), timetable.FieldTeacher, "Bruno"); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	// A second editor process sees the first one's assignment.
	other := timetable.NewService(second, zap.NewNop())
	_, err := other.Edit(ctx, cellID(t, second, "7º EFAF", "07:20"), timetable.FieldTeacher, "Bruno")
	if !errors.Is(err, timetable.ErrTeacherConflict) {
		t.Fatalf("expected ErrTeacherConflict, got %v", err)
	}

	// Breaks never conflict and stay untouched.
	entries, _ := second.LoadSchedule(ctx)
	if pairs := timetable.DoubleBookings(entries); len(pairs) != 0 {
		t.Fatalf("double bookings: %+v", pairs)
	}
}

func TestHTTPEditVisibleOnBoard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horario.db")
	api := openStore(t, path, 0)
	board := openStore(t, path, 0)

	hash, err := auth.HashPIN("2468")
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	svc := initMorning(t, api)
	srv := server.New(svc, server.Options{
		Gate:   auth.NewGate(hash),
		Logger: zap.NewNop(),
		Now:    func() time.Time { return monday },
	})

	id := cellID(t, api, "7º EFAF", "07:20")
	patch := func(pin string) int {
		body, _ := json.Marshal(map[string]string{"field": "subject", "value": "Química"})
		req := httptest.NewRequest(http.MethodPatch, "/api/entries/"+id, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(server.PINHeader, pin)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		return w.Code
	}

	if code := patch("0000"); code != http.StatusUnauthorized {
		t.Fatalf("wrong PIN: status %d", code)
	}
	if code := patch("2468"); code != http.StatusOK {
		t.Fatalf("patch: status %d", code)
	}

	entries, err := board.LoadSchedule(context.Background())
	if err != nil {
		t.Fatalf("LoadSchedule: %v", err)
	}
	live := timetable.BoardAt(entries, monday)
	var found bool
	for _, col := range live.Columns {
		if col.Entry != nil && col.Entry.ClassName == "7º EFAF" {
			found = col.Entry.Subject == "Química" && col.Entry.TeacherName == ""
		}
	}
	if !found {
		t.Fatalf("7º EFAF should show Química with no teacher (two candidates): %+v", live.Columns)
	}
}

func TestBoardUsesLocalClock(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	store := db.NewMemory(timetable.Snapshot{})
	svc := initMorning(t, store)
	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	// 10:30 UTC is 07:30 in São Paulo.
	instant := time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)
	utc := timetable.BoardAt(snap.Entries, instant)
	local := timetable.BoardAt(snap.Entries, instant.In(saoPaulo))

	if utc.Clock != "10:30" || local.Clock != "07:30" {
		t.Fatalf("clocks = %s / %s", utc.Clock, local.Clock)
	}
	if local.Columns[0].Entry == nil || local.Columns[0].Entry.StartTime != "07:20" {
		t.Fatalf("local board should show the first period: %+v", local.Columns[0])
	}

	// A Sunday late evening in São Paulo is already Monday in UTC.
	late := time.Date(2025, 3, 9, 23, 30, 0, 0, saoPaulo)
	if got := timetable.BoardAt(snap.Entries, late).Day; got != 0 {
		t.Fatalf("day = %d, want 0 (Sunday)", got)
	}

	driver := alert.New(nil, alert.Options{})
	a, ok := driver.Due(time.Date(2025, 3, 10, 7, 20, 0, 0, saoPaulo))
	if !ok || a.Key != "1-07:20" {
		t.Fatalf("alert = %+v, %v", a, ok)
	}
}

// stubClient answers with a fixed generation.
type stubClient struct {
	resp llm.GenerateResponse
}

func (s stubClient) Chat(context.Context, []llm.Message) (string, error) {
	return "", errors.New("unused")
}

func (s stubClient) ChatJSON(_ context.Context, _ []llm.Message, result any) error {
	data, err := json.Marshal(s.resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

func TestGeneratedScheduleExports(t *testing.T) {
	client := stubClient{resp: llm.GenerateResponse{Entries: []llm.GeneratedEntry{
		{DayOfWeek: 1, StartTime: "07:20", EndTime: "08:10", ClassName: "6º ano", Subject: "Matemática", TeacherName: "Ana"},
		{DayOfWeek: 1, StartTime: "13:00", EndTime: "13:50", ClassName: "1ª Série EM", Subject: "História", TeacherName: "Davi"},
		{DayOfWeek: 1, StartTime: "13:00", EndTime: "13:50", ClassName: "2ª Série EM", Subject: "História", TeacherName: "Davi"},
	}}}

	ctx := context.Background()
	result, err := llm.NewGenerator(client).Generate(ctx, llm.GenerateRequest{Days: []int{1}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %v", result.Warnings)
	}

	store := openStore(t, filepath.Join(t.TempDir(), "horario.db"), 0)
	svc := timetable.NewService(store, zap.NewNop())
	if err := svc.ReplaceSchedule(ctx, result.Entries); err != nil {
		t.Fatalf("ReplaceSchedule: %v", err)
	}

	entries, err := store.LoadSchedule(ctx)
	if err != nil {
		t.Fatalf("LoadSchedule: %v", err)
	}
	if pairs := timetable.DoubleBookings(entries); len(pairs) != 0 {
		t.Fatalf("generated schedule double-books: %+v", pairs)
	}
	if e, ok := timetable.Cell(entries, 1, "6º EFAF", "07:20"); !ok || e.Subject != "Matemática" {
		t.Fatalf("6º EFAF 07:20 = %+v", e)
	}

	f, err := export.Workbook(entries, []int{1})
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer func() { _ = f.Close() }()
	if got := f.GetSheetList(); len(got) != 2 {
		t.Fatalf("sheets = %v", got)
	}
}
