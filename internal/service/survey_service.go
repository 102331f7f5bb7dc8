package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/repository"
)

const surveyCSVColumns = 9

// SurveyImportResult reports how an import run went. Rows without a
// departure airport, arrival airport or cabin class are skipped, not
// failed.
type SurveyImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SurveyReport is the satisfaction summary for one month (or all
// months when Month is empty).
type SurveyReport struct {
	Month     string                           `json:"month,omitempty"`
	Responses int64                            `json:"responses"`
	Scores    []repository.SurveyQuestionCount `json:"scores"`
}

type SurveyService struct {
	surveyRepo repository.SurveyRepository
}

func NewSurveyService(surveyRepo repository.SurveyRepository) *SurveyService {
	return &SurveyService{surveyRepo: surveyRepo}
}

// ImportCSV reads questionnaire rows and bulk-inserts them tagged with
// the given month. Expected columns: departure airport id, arrival
// airport id, age, gender, cabin type id, q1..q4; the first row is a
// header.
func (s *SurveyService) ImportCSV(r io.Reader, month string) (*SurveyImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return &SurveyImportResult{}, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	result := &SurveyImportResult{}
	var surveys []domain.Survey
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		survey, ok := parseSurveyRow(row, month)
		if !ok {
			result.Skipped++
			continue
		}
		surveys = append(surveys, *survey)
	}

	if err := s.surveyRepo.BulkInsert(surveys); err != nil {
		return nil, fmt.Errorf("insert surveys: %w", err)
	}
	result.Imported = len(surveys)
	slog.Info("imported surveys", "month", month, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// Report aggregates answer counts per question and score.
func (s *SurveyService) Report(month string) (*SurveyReport, error) {
	responses, err := s.surveyRepo.CountByMonth(month)
	if err != nil {
		return nil, err
	}
	scores, err := s.surveyRepo.QuestionScoreCounts(month)
	if err != nil {
		return nil, err
	}
	return &SurveyReport{Month: month, Responses: responses, Scores: scores}, nil
}

func parseSurveyRow(row []string, month string) (*domain.Survey, bool) {
	if len(row) < surveyCSVColumns {
		return nil, false
	}
	departureID := parseOptionalUint(row[0])
	arrivalID := parseOptionalUint(row[1])
	cabinTypeID := parseOptionalUint(row[4])
	if departureID == 0 || arrivalID == 0 || cabinTypeID == 0 {
		return nil, false
	}
	gender := row[3]
	if gender == "" {
		gender = "M"
	}
	return &domain.Survey{
		DepartureAirportID: departureID,
		ArrivalAirportID:   arrivalID,
		Age:                parseOptionalInt(row[2]),
		Gender:             gender,
		CabinTypeID:        cabinTypeID,
		Q1:                 parseOptionalInt(row[5]),
		Q2:                 parseOptionalInt(row[6]),
		Q3:                 parseOptionalInt(row[7]),
		Q4:                 parseOptionalInt(row[8]),
		SurveyMonth:        month,
	}, true
}

func parseOptionalInt(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseOptionalUint(s string) uint {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}
