package service

import (
	"time"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/repository"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"
)

// 扁平连接行 → 嵌套调查树。行必须已按 调查ID、问题位置、选项位置 排好序
// （仓库层的 ORDER BY 保证），这里只做一次线性游标扫描，不重排。

type ChoiceTree struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuestionTree struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    string       `json:"type"`
	Choices []ChoiceTree `json:"choices"`
}

type SurveyTree struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	OwnerID     uint           `json:"ownerId"`
	CreatedAt   time.Time      `json:"createdAt"`
	IsPublic    bool           `json:"isPublic"`
	AccessType  string         `json:"accessType"`
	Questions   []QuestionTree `json:"questions"`
}

// AssembleSurveys 多调查模式：保持首次出现的顺序。
// question_id 为 NULL 的行（零问题调查）只产生调查节点；
// choice_id 为 NULL 的行（文本题）不产生选项。
func AssembleSurveys(rows []repository.SurveyJoinRow) []SurveyTree {
	surveys := make([]SurveyTree, 0)
	var cur *SurveyTree
	var curQ *QuestionTree

	for i := range rows {
		row := &rows[i]

		if cur == nil || cur.ID != row.SurveyID {
			surveys = append(surveys, SurveyTree{
				ID:          row.SurveyID,
				Title:       row.Title,
				Description: row.Description,
				OwnerID:     row.OwnerID,
				CreatedAt:   row.CreatedAt,
				IsPublic:    row.IsPublic != 0, // 0/1 → bool，仅在调查边界转换一次
				AccessType:  row.AccessType,
				Questions:   make([]QuestionTree, 0),
			})
			cur = &surveys[len(surveys)-1]
			curQ = nil
		}

		if row.QuestionID != nil && (curQ == nil || curQ.ID != *row.QuestionID) {
			cur.Questions = append(cur.Questions, QuestionTree{
				ID:      *row.QuestionID,
				Text:    strOrEmpty(row.QuestionText),
				Type:    strOrEmpty(row.QuestionType),
				Choices: make([]ChoiceTree, 0),
			})
			curQ = &cur.Questions[len(cur.Questions)-1]
		}

		if row.ChoiceID != nil && curQ != nil {
			curQ.Choices = append(curQ.Choices, ChoiceTree{
				ID:   *row.ChoiceID,
				Text: strOrEmpty(row.ChoiceText),
			})
		}
	}

	return surveys
}

// AssembleSurvey 单调查模式：输入只含一份调查的行，零行视为不存在
func AssembleSurvey(rows []repository.SurveyJoinRow) (*SurveyTree, error) {
	if len(rows) == 0 {
		return nil, util.NewNotFoundError("survey", "")
	}
	surveys := AssembleSurveys(rows)
	return &surveys[0], nil
}

// QuestionToTree 已落库的问题+选项转为树节点（创建/更新后的响应体用）
func QuestionToTree(q *model.Question, choices []model.Choice) QuestionTree {
	node := QuestionTree{
		ID:      q.ID,
		Text:    q.Text,
		Type:    string(q.Type),
		Choices: make([]ChoiceTree, 0, len(choices)),
	}
	for _, c := range choices {
		node.Choices = append(node.Choices, ChoiceTree{ID: c.ID, Text: c.Text})
	}
	return node
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
