package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedGraph(t *testing.T, repo *SurveyRepository) *SurveyGraph {
	t.Helper()
	graph := &SurveyGraph{
		Survey: model.Survey{Title: "Klassenfahrt", OwnerID: 1, IsPublic: true, AccessType: model.AccessPublic},
		Questions: []QuestionGraph{
			{
				Question: model.Question{Text: "Wohin?", Type: model.QuestionSingleChoice},
				Choices:  []model.Choice{{Text: "Berg"}, {Text: "Meer"}},
			},
			{
				Question: model.Question{Text: "Wünsche", Type: model.QuestionText},
			},
		},
	}
	require.NoError(t, repo.CreateGraph(graph))
	return graph
}

func TestFetchSurveyRowsShape(t *testing.T) {
	db := newTestDB(t)
	repo := NewSurveyRepository(db, nil)
	graph := seedGraph(t, repo)

	rows, err := repo.FetchSurveyRows(graph.Survey.ID)
	require.NoError(t, err)
	// 选择题每个选项一行，文本题一行
	require.Len(t, rows, 3)

	for _, row := range rows {
		assert.Equal(t, graph.Survey.ID, row.SurveyID)
		assert.Equal(t, "Klassenfahrt", row.Title)
		assert.Equal(t, 1, row.IsPublic)
	}

	assert.Equal(t, "Berg", *rows[0].ChoiceText)
	assert.Equal(t, "Meer", *rows[1].ChoiceText)

	textRow := rows[2]
	require.NotNil(t, textRow.QuestionID)
	assert.Equal(t, graph.Questions[1].Question.ID, *textRow.QuestionID)
	assert.Nil(t, textRow.ChoiceID)
	assert.Nil(t, textRow.ChoiceText)
}

func TestFetchSurveyRowsZeroQuestions(t *testing.T) {
	db := newTestDB(t)
	repo := NewSurveyRepository(db, nil)

	graph := &SurveyGraph{Survey: model.Survey{Title: "Leer", OwnerID: 1}}
	require.NoError(t, repo.CreateGraph(graph))

	rows, err := repo.FetchSurveyRows(graph.Survey.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].QuestionID)
	assert.Nil(t, rows[0].ChoiceID)
}

func TestFetchSurveyRowsOrderFollowsPosition(t *testing.T) {
	db := newTestDB(t)
	repo := NewSurveyRepository(db, nil)

	graph := &SurveyGraph{
		Survey: model.Survey{Title: "Reihenfolge", OwnerID: 1},
		Questions: []QuestionGraph{
			{Question: model.Question{Text: "Erste", Type: model.QuestionText}},
			{Question: model.Question{Text: "Zweite", Type: model.QuestionText}},
			{Question: model.Question{Text: "Dritte", Type: model.QuestionText}},
		},
	}
	require.NoError(t, repo.CreateGraph(graph))

	rows, err := repo.FetchSurveyRows(graph.Survey.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Erste", *rows[0].QuestionText)
	assert.Equal(t, "Zweite", *rows[1].QuestionText)
	assert.Equal(t, "Dritte", *rows[2].QuestionText)
}

func TestReplaceGraphRemovesOldChildren(t *testing.T) {
	db := newTestDB(t)
	repo := NewSurveyRepository(db, nil)
	graph := seedGraph(t, repo)

	replacement := &SurveyGraph{
		Survey: model.Survey{
			UUIDBase: graph.Survey.UUIDBase,
			Title:    "Klassenfahrt v2",
			OwnerID:  1,
		},
		Questions: []QuestionGraph{
			{Question: model.Question{Text: "Neu", Type: model.QuestionText}},
		},
	}
	require.NoError(t, repo.ReplaceGraph(replacement))

	questions, err := repo.ListQuestions(graph.Survey.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Neu", questions[0].Text)

	var choiceCount int64
	require.NoError(t, db.Model(&model.Choice{}).Count(&choiceCount).Error)
	assert.Zero(t, choiceCount)

	survey, err := repo.FindByID(graph.Survey.ID)
	require.NoError(t, err)
	assert.Equal(t, "Klassenfahrt v2", survey.Title)
}

func TestDeleteCascadeRemovesAllRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewSurveyRepository(db, nil)
	graph := seedGraph(t, repo)

	respRepo := NewResponseRepository(db)
	response := &model.Response{SurveyID: graph.Survey.ID, RespondentID: "anon-1"}
	require.NoError(t, respRepo.CreateWithAnswers(response, []model.Answer{
		{QuestionID: graph.Questions[0].Question.ID, Value: "0", ValueType: model.AnswerScalar},
		{QuestionID: graph.Questions[1].Question.ID, Value: "gerne wieder", ValueType: model.AnswerScalar},
	}))

	require.NoError(t, repo.DeleteCascade(graph.Survey.ID))

	for _, m := range []interface{}{&model.Survey{}, &model.Question{}, &model.Choice{}, &model.Response{}, &model.Answer{}} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestDeleteCascadeRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	repo := NewSurveyRepository(db, nil)
	graph := seedGraph(t, repo)

	respRepo := NewResponseRepository(db)
	response := &model.Response{SurveyID: graph.Survey.ID, RespondentID: "anon-1"}
	require.NoError(t, respRepo.CreateWithAnswers(response, []model.Answer{
		{QuestionID: graph.Questions[0].Question.ID, Value: "0", ValueType: model.AnswerScalar},
	}))

	// 让问题删除这一步失败，验证之前已删除的答案和回答被回滚
	require.NoError(t, db.Exec(`CREATE TRIGGER block_question_delete
		BEFORE DELETE ON questions
		BEGIN SELECT RAISE(ABORT, 'blocked'); END`).Error)

	err := repo.DeleteCascade(graph.Survey.ID)
	require.Error(t, err)

	counts := map[string]int64{}
	for name, m := range map[string]interface{}{
		"surveys":   &model.Survey{},
		"questions": &model.Question{},
		"choices":   &model.Choice{},
		"responses": &model.Response{},
		"answers":   &model.Answer{},
	} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		counts[name] = count
	}
	assert.EqualValues(t, 1, counts["surveys"])
	assert.EqualValues(t, 2, counts["questions"])
	assert.EqualValues(t, 2, counts["choices"])
	assert.EqualValues(t, 1, counts["responses"])
	assert.EqualValues(t, 1, counts["answers"])
}

func TestListRecommendedWithoutCache(t *testing.T) {
	db := newTestDB(t)
	repo := NewSurveyRepository(db, nil)

	for i := 0; i < 7; i++ {
		graph := &SurveyGraph{Survey: model.Survey{Title: fmt.Sprintf("Umfrage %d", i), OwnerID: 1, IsPublic: true}}
		require.NoError(t, repo.CreateGraph(graph))
	}
	hidden := &SurveyGraph{Survey: model.Survey{Title: "Versteckt", OwnerID: 1, IsPublic: false}}
	require.NoError(t, repo.CreateGraph(hidden))

	surveys, err := repo.ListRecommended()
	require.NoError(t, err)
	assert.Len(t, surveys, 5)
	for _, s := range surveys {
		assert.True(t, s.IsPublic)
	}
}
