package model

import "time"

// TeacherStudent 教师-学生名册关联，(teacher_id, student_id) 唯一。
// SurveyID 记录学生通过回答哪份调查进入名册（可为空）。
// swagger:model TeacherStudent
type TeacherStudent struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TeacherID uint      `gorm:"uniqueIndex:idx_teacher_student;not null" json:"teacherId"`
	StudentID uint      `gorm:"uniqueIndex:idx_teacher_student;not null" json:"studentId"`
	SurveyID  *string   `gorm:"type:varchar(36)" json:"surveyId,omitempty"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"addedAt"`
}

func (TeacherStudent) TableName() string {
	return "teacher_students"
}
