package service

import (
	"errors"
	"strings"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/repository"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SurveyService struct {
	Repo *repository.SurveyRepository
}

func NewSurveyService(repo *repository.SurveyRepository) *SurveyService {
	return &SurveyService{Repo: repo}
}

type ChoiceRequest struct {
	Text string `json:"text"`
}

type QuestionRequest struct {
	Text    string          `json:"text"`
	Type    string          `json:"type"`
	Choices []ChoiceRequest `json:"choices"`
}

type SurveyRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	IsPublic    bool              `json:"isPublic"`
	AccessType  string            `json:"accessType"`
	Questions   []QuestionRequest `json:"questions"`
}

// validateQuestions 校验在任何写入之前整体进行，索引从 1 开始；
// 配合仓库层事务，校验失败不会留下部分状态
func validateQuestions(questions []QuestionRequest) error {
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return util.NewQuestionValidationError(i+1, "text")
		}
		if strings.TrimSpace(q.Type) == "" {
			return util.NewQuestionValidationError(i+1, "type")
		}
		if !model.ValidQuestionType(model.QuestionType(q.Type)) {
			return util.NewValidationError("question %d: unknown type %q", i+1, q.Type)
		}
		for j, c := range q.Choices {
			if strings.TrimSpace(c.Text) == "" {
				return util.NewChoiceValidationError(i+1, j+1)
			}
		}
	}
	return nil
}

// buildQuestionGraphs 构造待插入的问题图。
// 选择题未提供选项时合成两个占位选项而不是拒绝提交。
func buildQuestionGraphs(questions []QuestionRequest) []repository.QuestionGraph {
	graphs := make([]repository.QuestionGraph, 0, len(questions))
	for _, q := range questions {
		qType := model.QuestionType(q.Type)
		graph := repository.QuestionGraph{
			Question: model.Question{Text: q.Text, Type: qType},
		}

		choices := q.Choices
		if model.IsChoiceType(qType) && len(choices) == 0 {
			choices = []ChoiceRequest{
				{Text: util.DefaultChoiceOne},
				{Text: util.DefaultChoiceTwo},
			}
		}
		for _, c := range choices {
			graph.Choices = append(graph.Choices, model.Choice{Text: c.Text})
		}
		graphs = append(graphs, graph)
	}
	return graphs
}

func normalizeAccessType(raw string) model.AccessType {
	switch model.AccessType(raw) {
	case model.AccessStudentsOnly:
		return model.AccessStudentsOnly
	case model.AccessPrivate:
		return model.AccessPrivate
	default:
		return model.AccessPublic
	}
}

func graphToTree(g *repository.SurveyGraph) *SurveyTree {
	tree := &SurveyTree{
		ID:          g.Survey.ID,
		Title:       g.Survey.Title,
		Description: g.Survey.Description,
		OwnerID:     g.Survey.OwnerID,
		CreatedAt:   g.Survey.CreatedAt,
		IsPublic:    g.Survey.IsPublic,
		AccessType:  string(g.Survey.AccessType),
		Questions:   make([]QuestionTree, 0, len(g.Questions)),
	}
	for i := range g.Questions {
		tree.Questions = append(tree.Questions,
			QuestionToTree(&g.Questions[i].Question, g.Questions[i].Choices))
	}
	return tree
}

func (s *SurveyService) CreateSurvey(ownerID uint, req SurveyRequest) (*SurveyTree, error) {
	if err := validateQuestions(req.Questions); err != nil {
		return nil, err
	}

	graph := &repository.SurveyGraph{
		Survey: model.Survey{
			Title:       req.Title,
			Description: req.Description,
			OwnerID:     ownerID,
			IsPublic:    req.IsPublic,
			AccessType:  normalizeAccessType(req.AccessType),
		},
		Questions: buildQuestionGraphs(req.Questions),
	}

	if err := s.Repo.CreateGraph(graph); err != nil {
		return nil, util.NewStoreError("create survey", err)
	}
	s.Repo.InvalidateRecommended()

	logger.Log.Info("survey created",
		zap.String("surveyId", graph.Survey.ID),
		zap.Uint("ownerId", ownerID),
		zap.Int("questions", len(graph.Questions)))

	return graphToTree(graph), nil
}

// findOwned 所有权校验在事务打开前完成；不存在与非所有者同样返回 NotFound
func (s *SurveyService) findOwned(surveyID string, ownerID uint) (*model.Survey, error) {
	survey, err := s.Repo.FindByID(surveyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("survey", surveyID)
	}
	if err != nil {
		return nil, util.NewStoreError("find survey", err)
	}
	if survey.OwnerID != ownerID {
		return nil, util.NewNotFoundError("survey", surveyID)
	}
	return survey, nil
}

// UpdateSurvey 整体替换标题/描述/可见性/全部问题
func (s *SurveyService) UpdateSurvey(surveyID string, ownerID uint, req SurveyRequest) (*SurveyTree, error) {
	survey, err := s.findOwned(surveyID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := validateQuestions(req.Questions); err != nil {
		return nil, err
	}

	graph := &repository.SurveyGraph{
		Survey: model.Survey{
			UUIDBase:    survey.UUIDBase,
			Title:       req.Title,
			Description: req.Description,
			OwnerID:     ownerID,
			IsPublic:    req.IsPublic,
			AccessType:  normalizeAccessType(req.AccessType),
		},
		Questions: buildQuestionGraphs(req.Questions),
	}

	if err := s.Repo.ReplaceGraph(graph); err != nil {
		return nil, util.NewStoreError("replace survey", err)
	}
	s.Repo.InvalidateRecommended()

	logger.Log.Info("survey replaced",
		zap.String("surveyId", surveyID),
		zap.Int("questions", len(graph.Questions)))

	return graphToTree(graph), nil
}

func (s *SurveyService) DeleteSurvey(surveyID string, ownerID uint) error {
	if _, err := s.findOwned(surveyID, ownerID); err != nil {
		return err
	}
	if err := s.Repo.DeleteCascade(surveyID); err != nil {
		return util.NewStoreError("delete survey", err)
	}
	s.Repo.InvalidateRecommended()

	logger.Log.Info("survey deleted", zap.String("surveyId", surveyID))
	return nil
}

func (s *SurveyService) GetSurvey(surveyID string) (*SurveyTree, error) {
	rows, err := s.Repo.FetchSurveyRows(surveyID)
	if err != nil {
		return nil, util.NewStoreError("fetch survey rows", err)
	}
	tree, err := AssembleSurvey(rows)
	if err != nil {
		return nil, util.NewNotFoundError("survey", surveyID)
	}
	return tree, nil
}

// ListOwnedSurveys 教师自己的调查，嵌套问题/选项，新的在前
func (s *SurveyService) ListOwnedSurveys(ownerID uint) ([]SurveyTree, error) {
	rows, err := s.Repo.FetchOwnedRows(ownerID)
	if err != nil {
		return nil, util.NewStoreError("fetch owned survey rows", err)
	}
	return AssembleSurveys(rows), nil
}

func (s *SurveyService) ListPublicSurveys() ([]model.Survey, error) {
	surveys, err := s.Repo.ListPublic()
	if err != nil {
		return nil, util.NewStoreError("list public surveys", err)
	}
	return surveys, nil
}

func (s *SurveyService) RecommendedSurveys() ([]model.Survey, error) {
	surveys, err := s.Repo.ListRecommended()
	if err != nil {
		return nil, util.NewStoreError("list recommended surveys", err)
	}
	return surveys, nil
}
