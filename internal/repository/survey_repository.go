package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SurveyJoinRow 调查⟕问题⟕选项左连接的一行。
// 问题/选项字段可为 NULL（零问题调查、文本题无选项），用指针表达，
// 在进入 Assembler 之前就已是显式结构而不是松散的 map。
type SurveyJoinRow struct {
	SurveyID    string    `gorm:"column:survey_id"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	OwnerID     uint      `gorm:"column:owner_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	IsPublic    int       `gorm:"column:is_public"` // 0/1，由 Assembler 在调查边界处转换一次
	AccessType  string    `gorm:"column:access_type"`

	QuestionID   *string `gorm:"column:question_id"`
	QuestionText *string `gorm:"column:question_text"`
	QuestionType *string `gorm:"column:question_type"`

	ChoiceID   *string `gorm:"column:choice_id"`
	ChoiceText *string `gorm:"column:choice_text"`
}

// QuestionGraph / SurveyGraph 创建和整体替换时的嵌套输入
type QuestionGraph struct {
	Question model.Question
	Choices  []model.Choice
}

type SurveyGraph struct {
	Survey    model.Survey
	Questions []QuestionGraph
}

type SurveyRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewSurveyRepository(db *gorm.DB, rdb *redis.Client) *SurveyRepository {
	return &SurveyRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

const surveyJoinSelect = `surveys.id AS survey_id, surveys.title, surveys.description,
surveys.owner_id, surveys.created_at, surveys.is_public, surveys.access_type,
questions.id AS question_id, questions.text AS question_text, questions.type AS question_type,
choices.id AS choice_id, choices.text AS choice_text`

// FetchSurveyRows 单调查模式的行集。ORDER BY 保证调查→问题→选项的稳定顺序，
// Assembler 依赖该顺序且不再排序。
func (r *SurveyRepository) FetchSurveyRows(surveyID string) ([]SurveyJoinRow, error) {
	var rows []SurveyJoinRow
	err := r.DB.Table("surveys").
		Select(surveyJoinSelect).
		Joins("LEFT JOIN questions ON questions.survey_id = surveys.id").
		Joins("LEFT JOIN choices ON choices.question_id = questions.id").
		Where("surveys.id = ?", surveyID).
		Order("questions.position, questions.id, choices.position, choices.id").
		Scan(&rows).Error
	return rows, err
}

// FetchOwnedRows 多调查模式：某教师的全部调查，新的在前
func (r *SurveyRepository) FetchOwnedRows(ownerID uint) ([]SurveyJoinRow, error) {
	var rows []SurveyJoinRow
	err := r.DB.Table("surveys").
		Select(surveyJoinSelect).
		Joins("LEFT JOIN questions ON questions.survey_id = surveys.id").
		Joins("LEFT JOIN choices ON choices.question_id = questions.id").
		Where("surveys.owner_id = ?", ownerID).
		Order("surveys.created_at DESC, surveys.id, questions.position, questions.id, choices.position, choices.id").
		Scan(&rows).Error
	return rows, err
}

func (r *SurveyRepository) FindByID(id string) (*model.Survey, error) {
	var survey model.Survey
	err := r.DB.Where("id = ?", id).First(&survey).Error
	return &survey, err
}

func (r *SurveyRepository) ListPublic() ([]model.Survey, error) {
	var surveys []model.Survey
	err := r.DB.Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&surveys).Error
	return surveys, err
}

// ListRecommended 最新 5 份公开调查，带 Redis 缓存
func (r *SurveyRepository) ListRecommended() ([]model.Survey, error) {
	if r.Redis != nil {
		cached, err := r.Redis.Get(r.ctx, util.RecommendedSurveyCacheKey).Result()
		if err == nil && cached != "" {
			var surveys []model.Survey
			if jsonErr := json.Unmarshal([]byte(cached), &surveys); jsonErr == nil {
				return surveys, nil
			}
		}
	}

	var surveys []model.Survey
	err := r.DB.Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(util.RecommendedSurveyLimit).
		Find(&surveys).Error
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if payload, jsonErr := json.Marshal(surveys); jsonErr == nil {
			r.Redis.Set(r.ctx, util.RecommendedSurveyCacheKey, payload, 5*time.Minute)
		}
	}
	return surveys, nil
}

// InvalidateRecommended 调查发生变更后清缓存
func (r *SurveyRepository) InvalidateRecommended() {
	if r.Redis != nil {
		r.Redis.Del(r.ctx, util.RecommendedSurveyCacheKey)
	}
}

func (r *SurveyRepository) ListQuestions(surveyID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("survey_id = ?", surveyID).
		Order("position, id").
		Find(&questions).Error
	return questions, err
}

func (r *SurveyRepository) ListChoices(questionID string) ([]model.Choice, error) {
	var choices []model.Choice
	err := r.DB.Where("question_id = ?", questionID).
		Order("position, id").
		Find(&choices).Error
	return choices, err
}

// CreateGraph 在一个事务里插入调查、问题、选项，插入顺序即声明顺序
func (r *SurveyRepository) CreateGraph(g *SurveyGraph) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&g.Survey).Error; err != nil {
			return err
		}
		return createQuestions(tx, g.Survey.ID, g.Questions)
	})
}

// ReplaceGraph 整体替换：更新调查字段，删光旧问题和选项，再插入新的。
// 不做 diff/merge。
func (r *SurveyRepository) ReplaceGraph(g *SurveyGraph) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":       g.Survey.Title,
			"description": g.Survey.Description,
			"is_public":   g.Survey.IsPublic,
			"access_type": g.Survey.AccessType,
		}
		if err := tx.Model(&model.Survey{}).Where("id = ?", g.Survey.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		questionIDs := tx.Model(&model.Question{}).Select("id").
			Where("survey_id = ?", g.Survey.ID)
		if err := tx.Where("question_id IN (?)", questionIDs).
			Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("survey_id = ?", g.Survey.ID).
			Delete(&model.Question{}).Error; err != nil {
			return err
		}

		return createQuestions(tx, g.Survey.ID, g.Questions)
	})
}

func createQuestions(tx *gorm.DB, surveyID string, questions []QuestionGraph) error {
	for i := range questions {
		q := &questions[i].Question
		q.SurveyID = surveyID
		q.Position = i
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		for j := range questions[i].Choices {
			choice := &questions[i].Choices[j]
			choice.QuestionID = q.ID
			choice.Position = j
			if err := tx.Create(choice).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteCascade 按依赖顺序删除：答案 → 回答 → 选项 → 问题 → 调查，
// 全部在一个事务里，任一步失败则整体回滚。
func (r *SurveyRepository) DeleteCascade(surveyID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		responseIDs := tx.Model(&model.Response{}).Select("id").
			Where("survey_id = ?", surveyID)
		if err := tx.Where("response_id IN (?)", responseIDs).
			Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("survey_id = ?", surveyID).
			Delete(&model.Response{}).Error; err != nil {
			return err
		}

		questionIDs := tx.Model(&model.Question{}).Select("id").
			Where("survey_id = ?", surveyID)
		if err := tx.Where("question_id IN (?)", questionIDs).
			Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("survey_id = ?", surveyID).
			Delete(&model.Question{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", surveyID).Delete(&model.Survey{}).Error
	})
}
