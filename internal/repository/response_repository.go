package repository

import (
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"

	"gorm.io/gorm"
)

// QuestionAnswerRow 某问题在本调查范围内的一条已记录答案
type QuestionAnswerRow struct {
	RespondentID string                `gorm:"column:respondent_id"`
	Value        string                `gorm:"column:value"`
	ValueType    model.AnswerValueType `gorm:"column:value_type"`
}

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

// CreateWithAnswers 回答及其全部答案在一个事务里写入
func (r *ResponseRepository) CreateWithAnswers(response *model.Response, answers []model.Answer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(response).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].ResponseID = response.ID
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListQuestionAnswers 答案连接回答表，限定在本调查的回答范围内
func (r *ResponseRepository) ListQuestionAnswers(surveyID, questionID string) ([]QuestionAnswerRow, error) {
	var rows []QuestionAnswerRow
	err := r.DB.Table("answers").
		Select("responses.respondent_id, answers.value, answers.value_type").
		Joins("JOIN responses ON responses.id = answers.response_id").
		Where("answers.question_id = ? AND responses.survey_id = ?", questionID, surveyID).
		Order("responses.created_at, responses.id").
		Scan(&rows).Error
	return rows, err
}

func (r *ResponseRepository) CountBySurvey(surveyID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Response{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	return count, err
}
