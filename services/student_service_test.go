package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"parent-portal/domain"
	"parent-portal/errors"
	"parent-portal/repositories"
)

func newStudentService(t *testing.T, f *remoteFixture) *StudentService {
	t.Helper()
	repo, err := repositories.NewStudentRepository(openServiceTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return NewStudentService(repo, f.client, slog.Default())
}

func Test_CreateStudent_Requires_Admin_Actor(t *testing.T) {
	req := require.New(t)
	f := newRemoteFixture(t)
	f.addUser(1, "parent", domain.RoleParent)
	f.addUser(2, "other-parent", domain.RoleParent)
	svc := newStudentService(t, f)

	_, err := svc.Create(context.Background(), 1, domain.Student{
		FirstName:    "Mia",
		LastName:     "Nguyen",
		ParentUserID: 2,
	})
	req.ErrorIs(err, errors.ErrUnauthorized)

	students, err := svc.GetAll()
	req.NoError(err)
	req.Empty(students)
}

func Test_CreateStudent_Validates_Parent_Reference(t *testing.T) {
	req := require.New(t)
	f := newRemoteFixture(t)
	f.addUser(1, "root", domain.RoleAdmin)
	svc := newStudentService(t, f)

	_, err := svc.Create(context.Background(), 1, domain.Student{
		FirstName:    "Mia",
		LastName:     "Nguyen",
		ParentUserID: 999,
	})
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_CreateStudent_OK(t *testing.T) {
	req := require.New(t)
	f := newRemoteFixture(t)
	f.addUser(1, "root", domain.RoleAdmin)
	f.addUser(2, "parent", domain.RoleParent)
	svc := newStudentService(t, f)

	created, err := svc.Create(context.Background(), 1, domain.Student{
		FirstName:    "Mia",
		LastName:     "Nguyen",
		ParentUserID: 2,
	})
	req.NoError(err)
	req.NotZero(created.ID)

	kids, err := svc.GetByParent(2)
	req.NoError(err)
	req.Len(kids, 1)
}

func Test_AddResult_Requires_Existing_Student(t *testing.T) {
	req := require.New(t)
	f := newRemoteFixture(t)
	f.addUser(1, "root", domain.RoleAdmin)
	svc := newStudentService(t, f)

	_, err := svc.AddResult(context.Background(), 1, domain.Result{StudentID: 404, Subject: "math"})
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_AddAttendance_Rejects_Bad_Status(t *testing.T) {
	f := newRemoteFixture(t)
	f.addUser(1, "root", domain.RoleAdmin)
	svc := newStudentService(t, f)

	_, err := svc.AddAttendance(context.Background(), 1, domain.Attendance{StudentID: 1, Status: "NAPPING"})
	require.ErrorIs(t, err, errors.ErrValidation)
}

func Test_Result_And_Attendance_Flow(t *testing.T) {
	req := require.New(t)
	f := newRemoteFixture(t)
	f.addUser(1, "root", domain.RoleAdmin)
	f.addUser(2, "parent", domain.RoleParent)
	svc := newStudentService(t, f)

	student, err := svc.Create(context.Background(), 1, domain.Student{
		FirstName:    "Mia",
		LastName:     "Nguyen",
		ParentUserID: 2,
	})
	req.NoError(err)

	_, err = svc.AddResult(context.Background(), 1, domain.Result{StudentID: student.ID, Subject: "math", Grade: "A", Score: 95})
	req.NoError(err)
	_, err = svc.AddAttendance(context.Background(), 1, domain.Attendance{StudentID: student.ID, Status: domain.AttendancePresent})
	req.NoError(err)

	results, err := svc.GetResultsByStudent(student.ID)
	req.NoError(err)
	req.Len(results, 1)

	attendance, err := svc.GetAttendanceByStudent(student.ID)
	req.NoError(err)
	req.Len(attendance, 1)
}
