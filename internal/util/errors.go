package util

import "fmt"

// 错误分类：路由层通过 errors.As 将其映射为 HTTP 状态码和机器可读 code，
// 见 response.go 的 HandleError。

// ValidationError 请求体缺少必填字段，索引从 1 开始
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NewQuestionValidationError 定位到第 index 题（1 起）
func NewQuestionValidationError(index int, field string) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf("question %d: %s is required", index, field)}
}

// NewChoiceValidationError 定位到第 qIndex 题的第 cIndex 个选项（均 1 起）
func NewChoiceValidationError(qIndex, cIndex int) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf("question %d, choice %d: text is required", qIndex, cIndex)}
}

// NotFoundError 实体不存在，或请求者不是所有者
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

type UnauthorizedError struct {
	Code    string // MISSING_TOKEN / INVALID_TOKEN
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

type ForbiddenError struct {
	Message  string
	UserRole string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// AggregationError 聚合过程中底层存储失败，附带调查 ID；不向调用方暴露部分结果
type AggregationError struct {
	SurveyID string
	Err      error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed for survey %s: %v", e.SurveyID, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

func NewAggregationError(surveyID string, err error) *AggregationError {
	return &AggregationError{SurveyID: surveyID, Err: err}
}

// StoreError 持久层失败
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
