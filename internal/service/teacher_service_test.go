package service

import (
	"testing"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/repository"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTeacherFixture(t *testing.T) (*TeacherService, *repository.UserRepository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewTeacherService(repository.NewTeacherStudentRepository(db), userRepo)
	return svc, userRepo, db
}

func seedUser(t *testing.T, repo *repository.UserRepository, name, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, Password: "hash", Role: role}
	require.NoError(t, repo.Create(user))
	return user
}

func TestAddStudentsBulkAndSkipDuplicates(t *testing.T) {
	svc, userRepo, _ := newTeacherFixture(t)
	teacher := seedUser(t, userRepo, "Frau Weber", "weber@schule.de", model.Teacher)
	seedUser(t, userRepo, "Anna", "anna@schule.de", model.Student)
	seedUser(t, userRepo, "Ben", "ben@schule.de", model.Student)
	seedUser(t, userRepo, "Clara", "clara@schule.de", model.Student)

	result, err := svc.AddStudents(teacher.ID, AddStudentsRequest{
		Emails: []string{"anna@schule.de", "ben@schule.de"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 0, result.Skipped)

	// 已有条目静默跳过，新条目照常加入
	result, err = svc.AddStudents(teacher.ID, AddStudentsRequest{
		Emails: []string{"anna@schule.de", "clara@schule.de"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Skipped)
}

func TestAddStudentsUnknownEmail(t *testing.T) {
	svc, userRepo, _ := newTeacherFixture(t)
	teacher := seedUser(t, userRepo, "Frau Weber", "weber@schule.de", model.Teacher)

	_, err := svc.AddStudents(teacher.ID, AddStudentsRequest{
		Emails: []string{"niemand@schule.de"},
	})
	require.Error(t, err)

	var notFound *util.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAddStudentsRejectsNonStudent(t *testing.T) {
	svc, userRepo, _ := newTeacherFixture(t)
	teacher := seedUser(t, userRepo, "Frau Weber", "weber@schule.de", model.Teacher)
	other := seedUser(t, userRepo, "Herr Braun", "braun@schule.de", model.Teacher)

	_, err := svc.AddStudents(teacher.ID, AddStudentsRequest{
		Emails: []string{other.Email},
	})
	require.Error(t, err)

	var validation *util.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "not a student")
}

func TestRosterListsLinkedStudents(t *testing.T) {
	svc, userRepo, _ := newTeacherFixture(t)
	teacher := seedUser(t, userRepo, "Frau Weber", "weber@schule.de", model.Teacher)
	anna := seedUser(t, userRepo, "Anna", "anna@schule.de", model.Student)

	_, err := svc.AddStudents(teacher.ID, AddStudentsRequest{
		Emails:   []string{anna.Email},
		SurveyID: "survey-1",
	})
	require.NoError(t, err)

	entries, err := svc.Roster(teacher.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, anna.ID, entries[0].StudentID)
	assert.Equal(t, "Anna", entries[0].Name)
	assert.Equal(t, "anna@schule.de", entries[0].Email)
	require.NotNil(t, entries[0].SurveyID)
	assert.Equal(t, "survey-1", *entries[0].SurveyID)

	// 其他教师的名册为空
	entries, err = svc.Roster(teacher.ID + 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemoveStudent(t *testing.T) {
	svc, userRepo, _ := newTeacherFixture(t)
	teacher := seedUser(t, userRepo, "Frau Weber", "weber@schule.de", model.Teacher)
	anna := seedUser(t, userRepo, "Anna", "anna@schule.de", model.Student)

	_, err := svc.AddStudents(teacher.ID, AddStudentsRequest{Emails: []string{anna.Email}})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveStudent(teacher.ID, anna.ID))

	err = svc.RemoveStudent(teacher.ID, anna.ID)
	require.Error(t, err)

	var notFound *util.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
