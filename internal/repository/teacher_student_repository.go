package repository

import (
	"time"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"

	"gorm.io/gorm"
)

// RosterEntry 名册条目，学生信息来自 users 连接
type RosterEntry struct {
	StudentID uint      `gorm:"column:student_id" json:"studentId"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"column:email" json:"email"`
	SurveyID  *string   `gorm:"column:survey_id" json:"surveyId,omitempty"`
	AddedAt   time.Time `gorm:"column:added_at" json:"addedAt"`
}

type TeacherStudentRepository struct {
	DB *gorm.DB
}

func NewTeacherStudentRepository(db *gorm.DB) *TeacherStudentRepository {
	return &TeacherStudentRepository{DB: db}
}

// AddMany 批量入册，一个事务；已有的 (teacher, student) 对静默跳过。
// 返回实际新增条数。
func (r *TeacherStudentRepository) AddMany(teacherID uint, studentIDs []uint, surveyID *string) (int, error) {
	added := 0
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, studentID := range studentIDs {
			var existing model.TeacherStudent
			err := tx.Where("teacher_id = ? AND student_id = ?", teacherID, studentID).
				First(&existing).Error
			if err == nil {
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}

			link := model.TeacherStudent{
				TeacherID: teacherID,
				StudentID: studentID,
				SurveyID:  surveyID,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func (r *TeacherStudentRepository) Exists(teacherID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.TeacherStudent{}).
		Where("teacher_id = ? AND student_id = ?", teacherID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *TeacherStudentRepository) ListRoster(teacherID uint) ([]RosterEntry, error) {
	var entries []RosterEntry
	err := r.DB.Table("teacher_students").
		Select("teacher_students.student_id, users.name, users.email, teacher_students.survey_id, teacher_students.added_at").
		Joins("JOIN users ON users.id = teacher_students.student_id").
		Where("teacher_students.teacher_id = ? AND users.deleted_at IS NULL", teacherID).
		Order("teacher_students.added_at, teacher_students.id").
		Scan(&entries).Error
	return entries, err
}

func (r *TeacherStudentRepository) Remove(teacherID, studentID uint) (bool, error) {
	result := r.DB.Where("teacher_id = ? AND student_id = ?", teacherID, studentID).
		Delete(&model.TeacherStudent{})
	return result.RowsAffected > 0, result.Error
}
