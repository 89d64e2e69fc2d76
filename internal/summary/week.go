// Package summary aggregates the weekly teaching load of a timetable.
package summary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/llm"
	"github.com/javiermolinar/horario/internal/timetable"
)

// TeacherLoad is the weekly load of one teacher.
type TeacherLoad struct {
	Teacher string
	Lessons int
	Minutes int
	Days    []int    // days with at least one lesson, ascending
	Classes []string // distinct classes taught, sorted
}

// SubjectLoad is the weekly load of one subject.
type SubjectLoad struct {
	Subject string
	Lessons int
	Minutes int
}

// ClassLoad counts filled and vacant periods of a class. A period holding
// only a teacher is filled.
type ClassLoad struct {
	Class   string
	Lessons int
	Vacant  int
}

// WeekSummary holds aggregated week data and optional insight.
type WeekSummary struct {
	Days           []int
	Teachers       []TeacherLoad // most minutes first
	Subjects       []SubjectLoad // most lessons first
	Classes        []ClassLoad   // catalog order
	Lessons        int
	Vacant         int
	DoubleBookings int
	Insight        string
}

// BuildWeekSummaryOptions configures the store-backed summary builder.
type BuildWeekSummaryOptions struct {
	Days           []int
	IncludeInsight bool
	Client         llm.Client
}

// SummarizeWeek aggregates entries on days. Breaks are ignored; a period with
// a subject or a teacher counts as a lesson, a blank one as vacant, so
// Lessons+Vacant is the number of non-break periods.
func SummarizeWeek(entries []timetable.Entry, days []int) *WeekSummary {
	wanted := make(map[int]bool, len(days))
	for _, d := range days {
		wanted[d] = true
	}

	s := &WeekSummary{Days: append([]int(nil), days...)}
	teachers := make(map[string]*TeacherLoad)
	teacherDays := make(map[string]map[int]bool)
	teacherClasses := make(map[string]map[string]bool)
	subjects := make(map[string]*SubjectLoad)
	classes := make(map[string]*ClassLoad)

	var scoped []timetable.Entry
	for _, e := range entries {
		if !wanted[e.DayOfWeek] || e.IsBreak {
			continue
		}
		scoped = append(scoped, e)

		cl, ok := classes[e.ClassName]
		if !ok {
			cl = &ClassLoad{Class: e.ClassName}
			classes[e.ClassName] = cl
		}
		if e.IsEmpty() {
			cl.Vacant++
			s.Vacant++
			continue
		}

		minutes := timetable.Duration(e.StartTime, e.EndTime)
		cl.Lessons++
		s.Lessons++
		if e.Subject != "" {
			key := strings.ToLower(e.Subject)
			sl, ok := subjects[key]
			if !ok {
				sl = &SubjectLoad{Subject: e.Subject}
				subjects[key] = sl
			}
			sl.Lessons++
			sl.Minutes += minutes
		}

		if e.TeacherName == "" {
			continue
		}
		tl, ok := teachers[e.TeacherName]
		if !ok {
			tl = &TeacherLoad{Teacher: e.TeacherName}
			teachers[e.TeacherName] = tl
			teacherDays[e.TeacherName] = make(map[int]bool)
			teacherClasses[e.TeacherName] = make(map[string]bool)
		}
		tl.Lessons++
		tl.Minutes += minutes
		teacherDays[e.TeacherName][e.DayOfWeek] = true
		teacherClasses[e.TeacherName][e.ClassName] = true
	}
	s.DoubleBookings = len(timetable.DoubleBookings(scoped))

	for name, tl := range teachers {
		for d := range teacherDays[name] {
			tl.Days = append(tl.Days, d)
		}
		sort.Ints(tl.Days)
		for c := range teacherClasses[name] {
			tl.Classes = append(tl.Classes, c)
		}
		sort.Strings(tl.Classes)
		s.Teachers = append(s.Teachers, *tl)
	}
	sort.Slice(s.Teachers, func(i, j int) bool {
		if s.Teachers[i].Minutes != s.Teachers[j].Minutes {
			return s.Teachers[i].Minutes > s.Teachers[j].Minutes
		}
		return s.Teachers[i].Teacher < s.Teachers[j].Teacher
	})

	for _, sl := range subjects {
		s.Subjects = append(s.Subjects, *sl)
	}
	sort.Slice(s.Subjects, func(i, j int) bool {
		if s.Subjects[i].Lessons != s.Subjects[j].Lessons {
			return s.Subjects[i].Lessons > s.Subjects[j].Lessons
		}
		return s.Subjects[i].Subject < s.Subjects[j].Subject
	})

	for _, shift := range timetable.Shifts() {
		for _, class := range timetable.Classes(shift) {
			if cl, ok := classes[class]; ok {
				s.Classes = append(s.Classes, *cl)
				delete(classes, class)
			}
		}
	}
	var extra []string
	for class := range classes {
		extra = append(extra, class)
	}
	sort.Strings(extra)
	for _, class := range extra {
		s.Classes = append(s.Classes, *classes[class])
	}

	return s
}

// BuildWeekSummary loads the schedule from store and optionally adds insight.
func BuildWeekSummary(ctx context.Context, store timetable.Store, opts BuildWeekSummaryOptions) (*WeekSummary, error) {
	days := opts.Days
	if len(days) == 0 {
		days = []int{1, 2, 3, 4, 5}
	}

	entries, err := store.LoadSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}

	summary := SummarizeWeek(entries, days)

	if opts.IncludeInsight && summary.Lessons > 0 {
		if opts.Client == nil {
			return nil, errors.New("an LLM client is required for insight")
		}
		insight, err := opts.Client.Chat(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: insightPrompt},
			{Role: llm.RoleUser, Content: Describe(summary)},
		})
		if err != nil {
			return nil, fmt.Errorf("evaluating week: %w", err)
		}
		summary.Insight = strings.TrimSpace(insight)
	}

	return summary, nil
}

const insightPrompt = `Você é coordenador pedagógico de uma escola brasileira.
Analise a carga semanal abaixo e escreva de 2 a 4 frases curtas em português:
professores sobrecarregados, turmas com muitos horários vagos, conflitos de
horário e sugestões práticas. Não repita a tabela.`

// Describe renders the summary as plain text for prompts and logs.
func Describe(s *WeekSummary) string {
	var b strings.Builder
	labels := make([]string, len(s.Days))
	for i, d := range s.Days {
		labels[i] = dateutil.WeekdayLabel(d)
	}
	fmt.Fprintf(&b, "Dias: %s\n", strings.Join(labels, ", "))
	fmt.Fprintf(&b, "Aulas: %d, horários vagos: %d, conflitos: %d\n", s.Lessons, s.Vacant, s.DoubleBookings)

	b.WriteString("Professores:\n")
	for _, t := range s.Teachers {
		fmt.Fprintf(&b, "- %s: %d aulas, %d min, %d dias, turmas %s\n",
			t.Teacher, t.Lessons, t.Minutes, len(t.Days), strings.Join(t.Classes, ", "))
	}
	b.WriteString("Turmas:\n")
	for _, c := range s.Classes {
		fmt.Fprintf(&b, "- %s: %d aulas, %d vagos\n", c.Class, c.Lessons, c.Vacant)
	}
	return b.String()
}
