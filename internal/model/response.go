package model

// AnswerValueType 答案值在写入时打标，区分标量与 JSON 编码的列表（多选题）
type AnswerValueType string

const (
	AnswerScalar AnswerValueType = "scalar"
	AnswerList   AnswerValueType = "list"
)

// Response 一位答卷人对一份调查的一次完整提交
// swagger:model Response
type Response struct {
	UUIDBase
	SurveyID     string `gorm:"index;type:varchar(36);not null" json:"surveyId"`
	RespondentID string `gorm:"size:64;index;not null" json:"respondentId"`
}

func (Response) TableName() string {
	return "responses"
}

// swagger:model Answer
type Answer struct {
	UUIDBase
	ResponseID string          `gorm:"index;type:varchar(36);not null" json:"responseId"`
	QuestionID string          `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Value      string          `gorm:"type:text" json:"value"`
	ValueType  AnswerValueType `gorm:"size:10;default:'scalar'" json:"valueType"`
}

func (Answer) TableName() string {
	return "answers"
}
