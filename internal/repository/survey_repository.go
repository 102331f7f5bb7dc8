package repository

import (
	"context"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/observability"

	"gorm.io/gorm"
)

// SurveyQuestionCount is one aggregation bucket of the satisfaction
// report: how many passengers gave Score on the given question.
type SurveyQuestionCount struct {
	Question string `json:"question"`
	Score    int    `json:"score"`
	Count    int64  `json:"count"`
}

type SurveyRepository interface {
	BulkInsert(surveys []domain.Survey) error
	CountByMonth(month string) (int64, error)
	QuestionScoreCounts(month string) ([]SurveyQuestionCount, error)
}

type GormSurveyRepository struct{ db *gorm.DB }

func NewSurveyRepository(db *gorm.DB) SurveyRepository { return &GormSurveyRepository{db: db} }

func (r *GormSurveyRepository) BulkInsert(surveys []domain.Survey) error {
	if len(surveys) == 0 {
		return nil
	}
	err := r.db.CreateInBatches(&surveys, 500).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "survey", "bulk_insert", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "survey", "bulk_insert", "success")
	return nil
}

func (r *GormSurveyRepository) CountByMonth(month string) (int64, error) {
	var n int64
	q := r.db.Model(&domain.Survey{})
	if month != "" {
		q = q.Where("survey_month = ?", month)
	}
	if err := q.Count(&n).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "survey", "count_by_month", "error")
		return 0, err
	}
	observability.RecordRepositoryOperation(context.Background(), "survey", "count_by_month", "success")
	return n, nil
}

func (r *GormSurveyRepository) QuestionScoreCounts(month string) ([]SurveyQuestionCount, error) {
	var out []SurveyQuestionCount
	for _, question := range []string{"q1", "q2", "q3", "q4"} {
		var rows []SurveyQuestionCount
		q := r.db.Model(&domain.Survey{}).
			Select(question+" AS score, COUNT(*) AS count").
			Where(question + " IS NOT NULL").
			Group(question).
			Order(question)
		if month != "" {
			q = q.Where("survey_month = ?", month)
		}
		if err := q.Scan(&rows).Error; err != nil {
			observability.RecordRepositoryOperation(context.Background(), "survey", "question_score_counts", "error")
			return nil, err
		}
		for i := range rows {
			rows[i].Question = question
		}
		out = append(out, rows...)
	}
	observability.RecordRepositoryOperation(context.Background(), "survey", "question_score_counts", "success")
	return out, nil
}
