package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/repository"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type responseFixture struct {
	svc        *ResponseService
	rosterRepo *repository.TeacherStudentRepository
	db         *gorm.DB
}

func newResponseFixture(t *testing.T) *responseFixture {
	t.Helper()
	db := newTestDB(t)
	surveyRepo := repository.NewSurveyRepository(db, nil)
	respRepo := repository.NewResponseRepository(db)
	rosterRepo := repository.NewTeacherStudentRepository(db)
	return &responseFixture{
		svc:        NewResponseService(surveyRepo, respRepo, rosterRepo),
		rosterRepo: rosterRepo,
		db:         db,
	}
}

func (f *responseFixture) seedSurvey(t *testing.T, ownerID uint, access model.AccessType) *repository.SurveyGraph {
	t.Helper()
	graph := &repository.SurveyGraph{
		Survey: model.Survey{Title: "Testumfrage", OwnerID: ownerID, IsPublic: access == model.AccessPublic, AccessType: access},
		Questions: []repository.QuestionGraph{
			{
				Question: model.Question{Text: "Auswahl", Type: model.QuestionMultipleChoice},
				Choices:  []model.Choice{{Text: "A"}, {Text: "B"}},
			},
			{
				Question: model.Question{Text: "Freitext", Type: model.QuestionText},
			},
		},
	}
	require.NoError(t, repository.NewSurveyRepository(f.db, nil).CreateGraph(graph))
	return graph
}

func studentClaims(id uint) *util.Claims {
	return &util.Claims{UserID: id, Role: model.Student}
}

func teacherClaims(id uint) *util.Claims {
	return &util.Claims{UserID: id, Role: model.Teacher}
}

func TestSubmitTagsValuesAtWriteTime(t *testing.T) {
	f := newResponseFixture(t)
	graph := f.seedSurvey(t, 1, model.AccessPublic)
	multiID := graph.Questions[0].Question.ID
	textID := graph.Questions[1].Question.ID

	response, err := f.svc.Submit(graph.Survey.ID, nil, ResponseRequest{
		Answers: []AnswerRequest{
			{QuestionID: multiID, Value: json.RawMessage(`["0","1"]`)},
			{QuestionID: textID, Value: json.RawMessage(`"passt so"`)},
		},
	})
	require.NoError(t, err)

	var answers []model.Answer
	require.NoError(t, f.db.Where("response_id = ?", response.ID).Find(&answers).Error)
	require.Len(t, answers, 2)

	byQuestion := make(map[string]model.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	assert.Equal(t, model.AnswerList, byQuestion[multiID].ValueType)
	assert.JSONEq(t, `["0","1"]`, byQuestion[multiID].Value)

	assert.Equal(t, model.AnswerScalar, byQuestion[textID].ValueType)
	assert.Equal(t, "passt so", byQuestion[textID].Value) // 字符串不带引号落库
}

func TestSubmitScalarEncodings(t *testing.T) {
	f := newResponseFixture(t)
	graph := f.seedSurvey(t, 1, model.AccessPublic)
	textID := graph.Questions[1].Question.ID

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"number", `3`, "3"},
		{"bool", `true`, "true"},
		{"null", `null`, ""},
		{"object", `{"a":1}`, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := f.svc.Submit(graph.Survey.ID, nil, ResponseRequest{
				Answers: []AnswerRequest{{QuestionID: textID, Value: json.RawMessage(tt.raw)}},
			})
			require.NoError(t, err)

			var answer model.Answer
			require.NoError(t, f.db.Where("response_id = ?", response.ID).First(&answer).Error)
			assert.Equal(t, tt.want, answer.Value)
			assert.Equal(t, model.AnswerScalar, answer.ValueType)
		})
	}
}

func TestSubmitRejectsForeignQuestion(t *testing.T) {
	f := newResponseFixture(t)
	graph := f.seedSurvey(t, 1, model.AccessPublic)
	other := f.seedSurvey(t, 1, model.AccessPublic)

	_, err := f.svc.Submit(graph.Survey.ID, nil, ResponseRequest{
		Answers: []AnswerRequest{
			{QuestionID: other.Questions[0].Question.ID, Value: json.RawMessage(`"x"`)},
		},
	})
	require.Error(t, err)

	var validation *util.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "answer 1")

	var count int64
	require.NoError(t, f.db.Model(&model.Response{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitUnknownSurvey(t *testing.T) {
	f := newResponseFixture(t)

	_, err := f.svc.Submit("missing-id", nil, ResponseRequest{})
	require.Error(t, err)

	var notFound *util.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSubmitAnonymousGetsOpaqueRespondentID(t *testing.T) {
	f := newResponseFixture(t)
	graph := f.seedSurvey(t, 1, model.AccessPublic)

	response, err := f.svc.Submit(graph.Survey.ID, nil, ResponseRequest{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(response.RespondentID, "anon-"))
}

func TestSubmitAuthenticatedUsesUserID(t *testing.T) {
	f := newResponseFixture(t)
	graph := f.seedSurvey(t, 1, model.AccessPublic)

	response, err := f.svc.Submit(graph.Survey.ID, studentClaims(42), ResponseRequest{})
	require.NoError(t, err)
	assert.Equal(t, "42", response.RespondentID)
}

func TestPrivateSurveyAccess(t *testing.T) {
	f := newResponseFixture(t)
	graph := f.seedSurvey(t, 1, model.AccessPrivate)

	_, err := f.svc.Submit(graph.Survey.ID, nil, ResponseRequest{})
	var unauthorized *util.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, "MISSING_TOKEN", unauthorized.Code)

	_, err = f.svc.Submit(graph.Survey.ID, studentClaims(5), ResponseRequest{})
	var forbidden *util.ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, "student", forbidden.UserRole)

	_, err = f.svc.Submit(graph.Survey.ID, teacherClaims(1), ResponseRequest{})
	assert.NoError(t, err)
}

func TestStudentsOnlySurveyAccess(t *testing.T) {
	f := newResponseFixture(t)
	graph := f.seedSurvey(t, 1, model.AccessStudentsOnly)

	_, err := f.svc.Submit(graph.Survey.ID, nil, ResponseRequest{})
	var unauthorized *util.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)

	// 未入册的学生被拒
	_, err = f.svc.Submit(graph.Survey.ID, studentClaims(5), ResponseRequest{})
	var forbidden *util.ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	// 入册后放行
	_, addErr := f.rosterRepo.AddMany(1, []uint{5}, nil)
	require.NoError(t, addErr)
	_, err = f.svc.Submit(graph.Survey.ID, studentClaims(5), ResponseRequest{})
	assert.NoError(t, err)

	// 所有者始终放行
	_, err = f.svc.Submit(graph.Survey.ID, teacherClaims(1), ResponseRequest{})
	assert.NoError(t, err)
}

func TestSubmitAutoAddsStudentToRoster(t *testing.T) {
	f := newResponseFixture(t)
	graph := f.seedSurvey(t, 1, model.AccessPublic)

	_, err := f.svc.Submit(graph.Survey.ID, studentClaims(9), ResponseRequest{})
	require.NoError(t, err)

	linked, err := f.rosterRepo.Exists(1, 9)
	require.NoError(t, err)
	assert.True(t, linked)

	// 入册记录带上来源调查
	var link model.TeacherStudent
	require.NoError(t, f.db.Where("teacher_id = ? AND student_id = ?", 1, 9).First(&link).Error)
	require.NotNil(t, link.SurveyID)
	assert.Equal(t, graph.Survey.ID, *link.SurveyID)

	// 再次提交不产生重复条目
	_, err = f.svc.Submit(graph.Survey.ID, studentClaims(9), ResponseRequest{})
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&model.TeacherStudent{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
