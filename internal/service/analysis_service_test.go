package service

import (
	"testing"
	"time"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/repository"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type analysisFixture struct {
	svc      *AnalysisService
	respRepo *repository.ResponseRepository
	surveyID string
	single   string // 3 Optionen: Pizza, Pasta, Salat
	multi    string // 2 Optionen: Montag, Freitag
	text     string
}

func newAnalysisFixture(t *testing.T, db *gorm.DB) *analysisFixture {
	t.Helper()

	surveyRepo := repository.NewSurveyRepository(db, nil)
	respRepo := repository.NewResponseRepository(db)

	graph := &repository.SurveyGraph{
		Survey: model.Survey{Title: "Mensa-Umfrage", OwnerID: 1, IsPublic: true, AccessType: model.AccessPublic},
		Questions: []repository.QuestionGraph{
			{
				Question: model.Question{Text: "Lieblingsessen?", Type: model.QuestionSingleChoice},
				Choices:  []model.Choice{{Text: "Pizza"}, {Text: "Pasta"}, {Text: "Salat"}},
			},
			{
				Question: model.Question{Text: "Welche Tage?", Type: model.QuestionMultipleChoice},
				Choices:  []model.Choice{{Text: "Montag"}, {Text: "Freitag"}},
			},
			{
				Question: model.Question{Text: "Sonstiges", Type: model.QuestionText},
			},
		},
	}
	require.NoError(t, surveyRepo.CreateGraph(graph))

	return &analysisFixture{
		svc:      NewAnalysisService(surveyRepo, respRepo),
		respRepo: respRepo,
		surveyID: graph.Survey.ID,
		single:   graph.Questions[0].Question.ID,
		multi:    graph.Questions[1].Question.ID,
		text:     graph.Questions[2].Question.ID,
	}
}

// record 按固定时间写入一次回答，保证聚合结果的条目顺序稳定
func (f *analysisFixture) record(t *testing.T, respondent string, offset time.Duration, answers ...model.Answer) {
	t.Helper()
	response := &model.Response{
		UUIDBase:     model.UUIDBase{CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(offset)},
		SurveyID:     f.surveyID,
		RespondentID: respondent,
	}
	require.NoError(t, f.respRepo.CreateWithAnswers(response, answers))
}

func TestAggregateDistributionAlignsWithOptions(t *testing.T) {
	f := newAnalysisFixture(t, newTestDB(t))

	f.record(t, "7", 0,
		model.Answer{QuestionID: f.single, Value: "0", ValueType: model.AnswerScalar},
		model.Answer{QuestionID: f.multi, Value: `[0,1]`, ValueType: model.AnswerList},
		model.Answer{QuestionID: f.text, Value: "mehr Auswahl bitte", ValueType: model.AnswerScalar},
	)
	f.record(t, "anon-x", time.Second,
		model.Answer{QuestionID: f.single, Value: "Pasta", ValueType: model.AnswerScalar},
		model.Answer{QuestionID: f.multi, Value: `[1]`, ValueType: model.AnswerList},
	)
	f.record(t, "anon-y", 2*time.Second,
		model.Answer{QuestionID: f.single, Value: "0", ValueType: model.AnswerScalar},
	)

	analysis, err := f.svc.Aggregate(f.surveyID)
	require.NoError(t, err)
	require.Len(t, analysis.Questions, 3)

	single := analysis.Questions[0]
	assert.Equal(t, []string{"Pizza", "Pasta", "Salat"}, single.Options)
	// "0" ×2 → Pizza, "Pasta" 按文本匹配 → Index 1
	assert.Equal(t, []int{2, 1, 0}, single.AnswerDistribution)
	require.Len(t, single.Responses, 3)
	assert.Equal(t, "7", single.Responses[0].RespondentID)

	multi := analysis.Questions[1]
	assert.Equal(t, []int{1, 2}, multi.AnswerDistribution)

	text := analysis.Questions[2]
	assert.Nil(t, text.Options)
	assert.Nil(t, text.AnswerDistribution)
	require.Len(t, text.Responses, 1)
	assert.Equal(t, "mehr Auswahl bitte", text.Responses[0].Value)
}

func TestAggregateDropsUnresolvableIndexes(t *testing.T) {
	f := newAnalysisFixture(t, newTestDB(t))

	f.record(t, "anon-a", 0,
		// 越界索引和未知文本：静默丢弃，不报错
		model.Answer{QuestionID: f.single, Value: "9", ValueType: model.AnswerScalar},
		model.Answer{QuestionID: f.single, Value: "Currywurst", ValueType: model.AnswerScalar},
	)
	f.record(t, "anon-b", time.Second,
		// 多选题的非数组值不计入任何分布
		model.Answer{QuestionID: f.multi, Value: "0", ValueType: model.AnswerScalar},
	)

	analysis, err := f.svc.Aggregate(f.surveyID)
	require.NoError(t, err)

	single := analysis.Questions[0]
	assert.Equal(t, []int{0, 0, 0}, single.AnswerDistribution)
	assert.Len(t, single.Responses, 2) // 丢弃只影响分布，不影响原始条目

	multi := analysis.Questions[1]
	assert.Equal(t, []int{0, 0}, multi.AnswerDistribution)
	assert.Len(t, multi.Responses, 1)
}

func TestAggregateDecodesLegacyValues(t *testing.T) {
	f := newAnalysisFixture(t, newTestDB(t))

	f.record(t, "anon-a", 0,
		// 旧数据：未打 list 标，但以 [ 开头 → 嗅探解析
		model.Answer{QuestionID: f.multi, Value: `[0]`, ValueType: model.AnswerScalar},
		// 解析失败的保留原始字符串
		model.Answer{QuestionID: f.text, Value: `[kaputt`, ValueType: model.AnswerScalar},
	)

	analysis, err := f.svc.Aggregate(f.surveyID)
	require.NoError(t, err)

	multi := analysis.Questions[1]
	assert.Equal(t, []int{1, 0}, multi.AnswerDistribution)

	text := analysis.Questions[2]
	require.Len(t, text.Responses, 1)
	assert.Equal(t, `[kaputt`, text.Responses[0].Value)
}

func TestAggregateUnknownSurvey(t *testing.T) {
	f := newAnalysisFixture(t, newTestDB(t))

	_, err := f.svc.Aggregate("missing-id")
	require.Error(t, err)

	var notFound *util.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
