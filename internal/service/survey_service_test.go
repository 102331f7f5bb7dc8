package service

import (
	"strings"
	"testing"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/repository"
)

type fakeSurveyRepo struct {
	inserted []domain.Survey
}

func (r *fakeSurveyRepo) BulkInsert(surveys []domain.Survey) error {
	r.inserted = append(r.inserted, surveys...)
	return nil
}

func (r *fakeSurveyRepo) CountByMonth(month string) (int64, error) {
	var n int64
	for _, s := range r.inserted {
		if month == "" || s.SurveyMonth == month {
			n++
		}
	}
	return n, nil
}

func (r *fakeSurveyRepo) QuestionScoreCounts(month string) ([]repository.SurveyQuestionCount, error) {
	counts := map[[2]int]int64{}
	for _, s := range r.inserted {
		if month != "" && s.SurveyMonth != month {
			continue
		}
		if s.Q1 != nil {
			counts[[2]int{1, *s.Q1}]++
		}
	}
	var out []repository.SurveyQuestionCount
	for k, v := range counts {
		out = append(out, repository.SurveyQuestionCount{Question: "q1", Score: k[1], Count: v})
	}
	return out, nil
}

const surveyCSV = `departure,arrival,age,gender,cabin,q1,q2,q3,q4
1,2,34,F,1,4,5,3,4
3,4,,,2,5,,4,
,2,40,M,1,3,3,3,3
1,,55,F,1,2,2,2,2
1,2,28,M,,1,1,1,1
2,1,61,M,3,5,5,5,5
`

func TestImportCSVParsesAndSkips(t *testing.T) {
	repo := &fakeSurveyRepo{}
	svc := NewSurveyService(repo)

	result, err := svc.ImportCSV(strings.NewReader(surveyCSV), "07")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 3 {
		t.Fatalf("imported = %d, want 3", result.Imported)
	}
	if result.Skipped != 3 {
		t.Fatalf("skipped = %d, want 3", result.Skipped)
	}

	first := repo.inserted[0]
	if first.DepartureAirportID != 1 || first.ArrivalAirportID != 2 {
		t.Fatalf("bad airports: %+v", first)
	}
	if first.Age == nil || *first.Age != 34 {
		t.Fatalf("bad age: %+v", first.Age)
	}
	if first.Gender != "F" {
		t.Fatalf("gender = %q", first.Gender)
	}
	if first.SurveyMonth != "07" {
		t.Fatalf("month = %q", first.SurveyMonth)
	}

	second := repo.inserted[1]
	if second.Age != nil {
		t.Fatal("blank age must parse as nil")
	}
	if second.Gender != "M" {
		t.Fatalf("blank gender must default to M, got %q", second.Gender)
	}
	if second.Q2 != nil || second.Q4 != nil {
		t.Fatal("blank answers must parse as nil")
	}
	if second.Q1 == nil || *second.Q1 != 5 {
		t.Fatalf("bad q1: %+v", second.Q1)
	}
}

func TestImportCSVEmptyFile(t *testing.T) {
	svc := NewSurveyService(&fakeSurveyRepo{})
	result, err := svc.ImportCSV(strings.NewReader(""), "07")
	if err != nil {
		t.Fatalf("import empty: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestReportAggregatesByMonth(t *testing.T) {
	repo := &fakeSurveyRepo{}
	svc := NewSurveyService(repo)

	if _, err := svc.ImportCSV(strings.NewReader(surveyCSV), "07"); err != nil {
		t.Fatalf("import: %v", err)
	}
	report, err := svc.Report("07")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Responses != 3 {
		t.Fatalf("responses = %d, want 3", report.Responses)
	}
	empty, err := svc.Report("01")
	if err != nil {
		t.Fatalf("report other month: %v", err)
	}
	if empty.Responses != 0 {
		t.Fatalf("responses for empty month = %d", empty.Responses)
	}
}
