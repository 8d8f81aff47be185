package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/repository"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ResponseService struct {
	SurveyRepo *repository.SurveyRepository
	Repo       *repository.ResponseRepository
	RosterRepo *repository.TeacherStudentRepository
}

func NewResponseService(surveyRepo *repository.SurveyRepository, repo *repository.ResponseRepository, rosterRepo *repository.TeacherStudentRepository) *ResponseService {
	return &ResponseService{
		SurveyRepo: surveyRepo,
		Repo:       repo,
		RosterRepo: rosterRepo,
	}
}

type AnswerRequest struct {
	QuestionID string          `json:"questionId" binding:"required"`
	Value      json.RawMessage `json:"value"`
}

type ResponseRequest struct {
	Answers []AnswerRequest `json:"answers" binding:"required"`
}

// encodeAnswerValue 写入时决定值的形态：数组 → JSON 编码并打 list 标，
// 其余按标量落库。读取侧（聚合）不再需要猜测。
func encodeAnswerValue(raw json.RawMessage) (string, model.AnswerValueType) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return strings.TrimSpace(string(raw)), model.AnswerScalar
	}

	switch v := value.(type) {
	case []interface{}:
		encoded, _ := json.Marshal(v)
		return string(encoded), model.AnswerList
	case string:
		return v, model.AnswerScalar
	case json.Number:
		return v.String(), model.AnswerScalar
	case bool:
		return strconv.FormatBool(v), model.AnswerScalar
	case nil:
		return "", model.AnswerScalar
	default:
		encoded, _ := json.Marshal(v)
		return string(encoded), model.AnswerScalar
	}
}

// checkAccess 按调查的 accessType 决定谁可以提交回答
func (s *ResponseService) checkAccess(survey *model.Survey, claims *util.Claims) error {
	switch survey.AccessType {
	case model.AccessPrivate:
		if claims == nil {
			return &util.UnauthorizedError{Code: "MISSING_TOKEN", Message: "authentication required"}
		}
		if claims.UserID != survey.OwnerID {
			return &util.ForbiddenError{Message: "survey is private", UserRole: string(claims.Role)}
		}
	case model.AccessStudentsOnly:
		if claims == nil {
			return &util.UnauthorizedError{Code: "MISSING_TOKEN", Message: "authentication required"}
		}
		if claims.UserID == survey.OwnerID {
			return nil
		}
		linked, err := s.RosterRepo.Exists(survey.OwnerID, claims.UserID)
		if err != nil {
			return util.NewStoreError("check roster", err)
		}
		if !linked {
			return &util.ForbiddenError{Message: "survey is restricted to the teacher's students", UserRole: string(claims.Role)}
		}
	}
	return nil
}

func (s *ResponseService) Submit(surveyID string, claims *util.Claims, req ResponseRequest) (*model.Response, error) {
	survey, err := s.SurveyRepo.FindByID(surveyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("survey", surveyID)
	}
	if err != nil {
		return nil, util.NewStoreError("find survey", err)
	}

	if err := s.checkAccess(survey, claims); err != nil {
		return nil, err
	}

	questions, err := s.SurveyRepo.ListQuestions(surveyID)
	if err != nil {
		return nil, util.NewStoreError("list questions", err)
	}
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	answers := make([]model.Answer, 0, len(req.Answers))
	for i, a := range req.Answers {
		if !known[a.QuestionID] {
			return nil, util.NewValidationError("answer %d: question %s does not belong to this survey", i+1, a.QuestionID)
		}
		value, valueType := encodeAnswerValue(a.Value)
		answers = append(answers, model.Answer{
			QuestionID: a.QuestionID,
			Value:      value,
			ValueType:  valueType,
		})
	}

	respondentID := "anon-" + model.GenerateUUID()
	if claims != nil {
		respondentID = strconv.FormatUint(uint64(claims.UserID), 10)
	}

	response := &model.Response{
		SurveyID:     surveyID,
		RespondentID: respondentID,
	}
	if err := s.Repo.CreateWithAnswers(response, answers); err != nil {
		return nil, util.NewStoreError("create response", err)
	}

	// 认证学生回答教师的调查后自动入册，记录来源调查；重复入册静默跳过
	if claims != nil && claims.Role == model.Student && claims.UserID != survey.OwnerID {
		if _, err := s.RosterRepo.AddMany(survey.OwnerID, []uint{claims.UserID}, &surveyID); err != nil {
			logger.Log.Warn("roster auto-add failed",
				zap.String("surveyId", surveyID),
				zap.Uint("studentId", claims.UserID),
				zap.Error(err))
		}
	}

	logger.Log.Info("response recorded",
		zap.String("surveyId", surveyID),
		zap.String("responseId", response.ID),
		zap.Int("answers", len(answers)))

	return response, nil
}
