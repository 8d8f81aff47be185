package util

// 选择题未提供选项时合成的默认占位选项
const (
	DefaultChoiceOne = "Option 1"
	DefaultChoiceTwo = "Option 2"
)

// 推荐调查列表
const (
	RecommendedSurveyLimit    = 5
	RecommendedSurveyCacheKey = "surveys:recommended"
)
