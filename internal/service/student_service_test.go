package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]*models.Student
	created  *models.Student
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var out []models.Student
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = "s-created"
	}
	m.created = student
	return nil
}

func TestStudentCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		FullName:  "Ana Lima",
		Email:     "ana@example.com",
		BirthDate: time.Date(2018, 4, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "s-created", student.ID)
	assert.True(t, student.Active)
	require.NotNil(t, repo.created)
	assert.Equal(t, "Ana Lima", repo.created.FullName)
}

func TestStudentCreateRejectsInvalidPayload(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateStudentRequest{Email: "ana@example.com"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))

	_, err = svc.Create(context.Background(), CreateStudentRequest{
		FullName:  "Future Kid",
		BirthDate: time.Now().UTC().AddDate(1, 0, 0),
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}

func TestStudentGet(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"s1": {ID: "s1", FullName: "Ana"},
	}}
	svc := NewStudentService(repo, nil)

	student, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", student.FullName)

	_, err = svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
}
