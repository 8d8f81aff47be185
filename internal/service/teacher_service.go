package service

import (
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/repository"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"
)

// TeacherService 名册管理：按邮箱批量添加学生、查看、移除
type TeacherService struct {
	Repo     *repository.TeacherStudentRepository
	UserRepo *repository.UserRepository
}

func NewTeacherService(repo *repository.TeacherStudentRepository, userRepo *repository.UserRepository) *TeacherService {
	return &TeacherService{Repo: repo, UserRepo: userRepo}
}

type AddStudentsRequest struct {
	Emails   []string `json:"emails" binding:"required,min=1"`
	SurveyID string   `json:"surveyId"`
}

type AddStudentsResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

func (s *TeacherService) AddStudents(teacherID uint, req AddStudentsRequest) (*AddStudentsResult, error) {
	users, err := s.UserRepo.FindByEmails(req.Emails)
	if err != nil {
		return nil, util.NewStoreError("find students", err)
	}

	byEmail := make(map[string]*model.User, len(users))
	for i := range users {
		byEmail[users[i].Email] = &users[i]
	}

	studentIDs := make([]uint, 0, len(req.Emails))
	for _, email := range req.Emails {
		user, ok := byEmail[email]
		if !ok {
			return nil, util.NewNotFoundError("student", email)
		}
		if user.Role != model.Student {
			return nil, util.NewValidationError("user %s is not a student", email)
		}
		studentIDs = append(studentIDs, user.ID)
	}

	var surveyID *string
	if req.SurveyID != "" {
		surveyID = &req.SurveyID
	}

	added, err := s.Repo.AddMany(teacherID, studentIDs, surveyID)
	if err != nil {
		return nil, util.NewStoreError("add students", err)
	}
	return &AddStudentsResult{Added: added, Skipped: len(studentIDs) - added}, nil
}

func (s *TeacherService) Roster(teacherID uint) ([]repository.RosterEntry, error) {
	entries, err := s.Repo.ListRoster(teacherID)
	if err != nil {
		return nil, util.NewStoreError("list roster", err)
	}
	return entries, nil
}

func (s *TeacherService) RemoveStudent(teacherID, studentID uint) error {
	removed, err := s.Repo.Remove(teacherID, studentID)
	if err != nil {
		return util.NewStoreError("remove student", err)
	}
	if !removed {
		return util.NewNotFoundError("roster entry", "")
	}
	return nil
}
