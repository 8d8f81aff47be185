package model

type AccessType string

const (
	AccessPublic       AccessType = "public"
	AccessStudentsOnly AccessType = "students_only"
	AccessPrivate      AccessType = "private"
)

type QuestionType string

const (
	QuestionText           QuestionType = "TEXT"
	QuestionSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
)

// ValidQuestionType 检查问题类型是否为三种受支持类型之一
func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionText, QuestionSingleChoice, QuestionMultipleChoice:
		return true
	}
	return false
}

// IsChoiceType 单选/多选题才有选项和分布统计
func IsChoiceType(t QuestionType) bool {
	return t == QuestionSingleChoice || t == QuestionMultipleChoice
}

// swagger:model Survey
type Survey struct {
	UUIDBase
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	OwnerID     uint       `gorm:"index;not null" json:"ownerId"`
	IsPublic    bool       `gorm:"default:false" json:"isPublic"`
	AccessType  AccessType `gorm:"size:20;default:'public'" json:"accessType"`
}

func (Survey) TableName() string {
	return "surveys"
}

// swagger:model Question
type Question struct {
	UUIDBase
	SurveyID string       `gorm:"index;type:varchar(36);not null" json:"surveyId"`
	Text     string       `gorm:"type:text;not null" json:"text"`
	Type     QuestionType `gorm:"size:20;not null" json:"type"`
	Position int          `gorm:"default:0" json:"position"` // 创建顺序，选项分布的索引空间以此为准
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Choice
type Choice struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Text       string `gorm:"size:255;not null" json:"text"`
	Position   int    `gorm:"default:0" json:"position"`
}

func (Choice) TableName() string {
	return "choices"
}
