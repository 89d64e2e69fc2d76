package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/timetable"
)

const generatorPrompt = `Você monta quadros de horários escolares realistas para uma escola brasileira.

Gere aulas para os dias: %s.

Horários fixos (use exatamente estes inícios e fins, "HH:MM" 24h):
%s

Matérias e professores disponíveis:
%s

Regras:
- Um registro por turma, dia e horário de aula. Não gere registros para intervalos.
- Um professor nunca pode estar em duas turmas no mesmo dia e horário.
- Use apenas matérias da lista; se a lista de professores estiver vazia, invente nomes brasileiros.
- dayOfWeek: 1=segunda ... 6=sábado.

Responda SOMENTE com JSON válido (sem markdown):
{
  "entries": [
    {
      "dayOfWeek": 1,
      "startTime": "HH:MM",
      "endTime": "HH:MM",
      "periodName": "string",
      "className": "string",
      "subject": "string",
      "teacherName": "string"
    }
  ],
  "warnings": ["string"]
}`

// DefaultSubjects seeds the prompt when the registry is empty.
var DefaultSubjects = []string{"Matemática", "Português", "História", "Geografia", "Ciências", "Inglês", "Educação Física", "Artes"}

// GenerateRequest describes the sample timetable to generate.
type GenerateRequest struct {
	Days     []int             // 1=Monday ... 6=Saturday
	Shifts   []timetable.Shift // defaults to both shifts
	Registry []timetable.Subject
}

// GeneratedEntry is one entry as returned by the model.
type GeneratedEntry struct {
	DayOfWeek   int    `json:"dayOfWeek" validate:"min=1,max=6"`
	StartTime   string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime     string `json:"endTime" validate:"required,datetime=15:04"`
	PeriodName  string `json:"periodName"`
	ClassName   string `json:"className" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	TeacherName string `json:"teacherName" validate:"required"`
}

// GenerateResponse is the JSON document the model is asked for.
type GenerateResponse struct {
	Entries  []GeneratedEntry `json:"entries"`
	Warnings []string         `json:"warnings"`
}

// GenerateResult is a validated, conflict-free schedule.
type GenerateResult struct {
	Entries  []timetable.Entry
	Warnings []string
}

// ErrEmptyGeneration is returned when the model produced no usable entry.
var ErrEmptyGeneration = errors.New("generator returned no usable entries")

// Generator asks an LLM for a sample timetable.
type Generator struct {
	client   Client
	validate *validator.Validate
	newID    func() string
}

// NewGenerator creates a generator backed by client.
func NewGenerator(client Client) *Generator {
	return &Generator{
		client:   client,
		validate: validator.New(),
		newID:    uuid.NewString,
	}
}

// Generate asks the model for lessons and converts them into entries.
// Entries are laid out on the fixed catalog: every class gets its full grid
// and lessons are placed on catalog slots only.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	req = withDefaults(req)

	messages := []Message{
		{Role: RoleSystem, Content: buildPrompt(req)},
		{Role: RoleUser, Content: "Gere o quadro de horários agora."},
	}

	var resp GenerateResponse
	if err := g.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("generating schedule: %w", err)
	}

	result := g.Convert(req, &resp)
	lessons := 0
	for _, e := range result.Entries {
		if !e.IsBreak && !e.IsEmpty() {
			lessons++
		}
	}
	if lessons == 0 {
		return result, ErrEmptyGeneration
	}
	return result, nil
}

// Convert validates the model response and builds the schedule. Every
// requested (day, class) gets one entry per catalog slot; generated lessons
// fill the matching blank cells. Invalid, off-catalog, duplicated or
// double-booked lessons are dropped and reported as warnings.
func (g *Generator) Convert(req GenerateRequest, resp *GenerateResponse) *GenerateResult {
	req = withDefaults(req)
	result := &GenerateResult{Warnings: append([]string(nil), resp.Warnings...)}

	for _, shift := range req.Shifts {
		for _, class := range timetable.Classes(shift) {
			for _, day := range req.Days {
				result.Entries = append(result.Entries, g.grid(day, class, shift)...)
			}
		}
	}

	wanted := make(map[int]bool, len(req.Days))
	for _, d := range req.Days {
		wanted[d] = true
	}

	for i, ge := range resp.Entries {
		if err := g.validate.Struct(ge); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d ignored: %s", i+1, validationMessage(err)))
			continue
		}
		if !wanted[ge.DayOfWeek] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d ignored: day %d not requested", i+1, ge.DayOfWeek))
			continue
		}

		class, shift, ok := resolveClass(ge.ClassName, req.Shifts)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d ignored: unknown class %q", i+1, ge.ClassName))
			continue
		}
		slot, ok := lessonSlot(shift, ge.StartTime)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d ignored: %s is not a lesson start for %s", i+1, ge.StartTime, class))
			continue
		}
		idx := cellIndex(result.Entries, ge.DayOfWeek, class, slot.Start)
		if idx < 0 || !result.Entries[idx].IsEmpty() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d ignored: %s already has a lesson at %s", i+1, class, slot.Start))
			continue
		}

		teacher := strings.TrimSpace(ge.TeacherName)
		if c, clash := timetable.FindConflict(result.Entries, ge.DayOfWeek, slot.Start, teacher, result.Entries[idx].ID); clash {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d ignored: %s already teaches %s on %s at %s",
				i+1, teacher, c.ClassName, dateutil.WeekdayLabel(ge.DayOfWeek), slot.Start))
			continue
		}

		result.Entries[idx].Subject = strings.TrimSpace(ge.Subject)
		result.Entries[idx].TeacherName = teacher
	}

	return result
}

// grid lays down the catalog slots of shift for one class and day, breaks
// filled in and lessons blank.
func (g *Generator) grid(day int, class string, shift timetable.Shift) []timetable.Entry {
	slots := timetable.Slots(shift)
	entries := make([]timetable.Entry, 0, len(slots))
	for _, slot := range slots {
		e := timetable.Entry{
			ID:         g.newID(),
			DayOfWeek:  day,
			StartTime:  slot.Start,
			EndTime:    slot.End,
			PeriodName: slot.Name,
			ClassName:  class,
			IsBreak:    slot.IsBreak,
		}
		if slot.IsBreak {
			e.Subject = timetable.BreakSubject
			e.TeacherName = timetable.BreakTeacher
		}
		entries = append(entries, e)
	}
	return entries
}

func cellIndex(entries []timetable.Entry, day int, class, start string) int {
	for i, e := range entries {
		if e.DayOfWeek == day && e.ClassName == class && e.StartTime == start {
			return i
		}
	}
	return -1
}

func withDefaults(req GenerateRequest) GenerateRequest {
	if len(req.Days) == 0 {
		req.Days = []int{1, 2, 3, 4, 5}
	}
	if len(req.Shifts) == 0 {
		req.Shifts = timetable.Shifts()
	}
	return req
}

func buildPrompt(req GenerateRequest) string {
	days := make([]string, len(req.Days))
	for i, d := range req.Days {
		days[i] = fmt.Sprintf("%d (%s)", d, dateutil.WeekdayLabel(d))
	}

	var slots strings.Builder
	for _, shift := range req.Shifts {
		fmt.Fprintf(&slots, "%s, turmas %s:\n", shift.Label(), strings.Join(timetable.Classes(shift), ", "))
		for _, s := range timetable.Slots(shift) {
			if s.IsBreak {
				fmt.Fprintf(&slots, "  %s-%s intervalo (não gerar)\n", s.Start, s.End)
				continue
			}
			fmt.Fprintf(&slots, "  %s-%s %s\n", s.Start, s.End, s.Name)
		}
	}

	var subjects strings.Builder
	if len(req.Registry) == 0 {
		for _, s := range DefaultSubjects {
			fmt.Fprintf(&subjects, "- %s: []\n", s)
		}
	}
	for _, s := range req.Registry {
		fmt.Fprintf(&subjects, "- %s: [%s]\n", s.Subject, strings.Join(s.Teachers, ", "))
	}

	return fmt.Sprintf(generatorPrompt, strings.Join(days, ", "), slots.String(), subjects.String())
}

// resolveClass maps a generated class name onto a catalog cohort.
func resolveClass(name string, shifts []timetable.Shift) (string, timetable.Shift, bool) {
	for _, shift := range shifts {
		for _, class := range timetable.Classes(shift) {
			if strings.EqualFold(strings.TrimSpace(name), class) {
				return class, shift, true
			}
		}
		for _, col := range timetable.Columns(shift) {
			if timetable.MatchesClass(name, col.Match) {
				if class, ok := classForColumn(shift, col.Title); ok {
					return class, shift, true
				}
			}
		}
	}
	return "", "", false
}

func classForColumn(shift timetable.Shift, title string) (string, bool) {
	for _, class := range timetable.Classes(shift) {
		if strings.EqualFold(class, title) {
			return class, true
		}
	}
	return "", false
}

func lessonSlot(shift timetable.Shift, start string) (timetable.Slot, bool) {
	for _, s := range timetable.Slots(shift) {
		if s.Start == start && !s.IsBreak {
			return s, true
		}
	}
	return timetable.Slot{}, false
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
