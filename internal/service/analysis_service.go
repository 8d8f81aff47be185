package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/repository"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"gorm.io/gorm"
)

// AnalysisService 聚合某份调查的全部已记录答案：
// 逐题的答卷人/值列表，以及选择题按选项顺序对齐的频次分布。

type AnswerEntry struct {
	RespondentID string      `json:"respondentId"`
	Value        interface{} `json:"value"`
}

type AnalysisQuestion struct {
	ID                 string        `json:"id"`
	Text               string        `json:"text"`
	Type               string        `json:"type"`
	Options            []string      `json:"options,omitempty"`
	Responses          []AnswerEntry `json:"responses"`
	AnswerDistribution []int         `json:"answerDistribution,omitempty"`
}

type SurveyAnalysis struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Questions []AnalysisQuestion `json:"questions"`
}

type AnalysisService struct {
	SurveyRepo   *repository.SurveyRepository
	ResponseRepo *repository.ResponseRepository
}

func NewAnalysisService(surveyRepo *repository.SurveyRepository, responseRepo *repository.ResponseRepository) *AnalysisService {
	return &AnalysisService{
		SurveyRepo:   surveyRepo,
		ResponseRepo: responseRepo,
	}
}

func (s *AnalysisService) Aggregate(surveyID string) (*SurveyAnalysis, error) {
	survey, err := s.SurveyRepo.FindByID(surveyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("survey", surveyID)
	}
	if err != nil {
		return nil, util.NewAggregationError(surveyID, err)
	}

	questions, err := s.SurveyRepo.ListQuestions(surveyID)
	if err != nil {
		return nil, util.NewAggregationError(surveyID, err)
	}

	analysis := &SurveyAnalysis{
		ID:        survey.ID,
		Title:     survey.Title,
		Questions: make([]AnalysisQuestion, 0, len(questions)),
	}

	for _, q := range questions {
		aq := AnalysisQuestion{
			ID:        q.ID,
			Text:      q.Text,
			Type:      string(q.Type),
			Responses: make([]AnswerEntry, 0),
		}

		if model.IsChoiceType(q.Type) {
			choices, err := s.SurveyRepo.ListChoices(q.ID)
			if err != nil {
				return nil, util.NewAggregationError(surveyID, err)
			}
			// 选项顺序即分布数组的索引空间
			aq.Options = make([]string, 0, len(choices))
			for _, c := range choices {
				aq.Options = append(aq.Options, c.Text)
			}
		}

		rows, err := s.ResponseRepo.ListQuestionAnswers(surveyID, q.ID)
		if err != nil {
			return nil, util.NewAggregationError(surveyID, err)
		}

		for _, row := range rows {
			aq.Responses = append(aq.Responses, AnswerEntry{
				RespondentID: row.RespondentID,
				Value:        decodeAnswerValue(row.Value, row.ValueType),
			})
		}

		if model.IsChoiceType(q.Type) {
			aq.AnswerDistribution = computeDistribution(q.Type, aq.Options, aq.Responses)
		}

		analysis.Questions = append(analysis.Questions, aq)
	}

	return analysis, nil
}

// decodeAnswerValue 写入时打了 list 标的值，以及以 [ 或 { 开头的遗留值，
// 尝试 JSON 解析；解析失败保留原始字符串，不报错。
func decodeAnswerValue(raw string, valueType model.AnswerValueType) interface{} {
	if valueType == model.AnswerList ||
		strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{") {
		var decoded interface{}
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			return decoded
		}
	}
	return raw
}

// resolveOptionIndex 数值按索引直用；字符串先试数值再按选项文本匹配首个位置；
// 无法解析返回 -1
func resolveOptionIndex(value interface{}, options []string) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		for i, opt := range options {
			if opt == v {
				return i
			}
		}
		return -1
	default:
		return -1
	}
}

// computeDistribution 频次分布，长度与选项数一致。
// 越界或无法解析的索引静默丢弃；多选题的非数组值不计入任何分布。
func computeDistribution(qType model.QuestionType, options []string, entries []AnswerEntry) []int {
	distribution := make([]int, len(options))

	for _, entry := range entries {
		switch qType {
		case model.QuestionSingleChoice:
			tally(distribution, resolveOptionIndex(entry.Value, options))
		case model.QuestionMultipleChoice:
			values, ok := entry.Value.([]interface{})
			if !ok {
				continue
			}
			for _, v := range values {
				tally(distribution, resolveOptionIndex(v, options))
			}
		}
	}

	return distribution
}

func tally(distribution []int, index int) {
	if index >= 0 && index < len(distribution) {
		distribution[index]++
	}
}
