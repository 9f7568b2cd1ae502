package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parent-portal/domain"
	"parent-portal/errors"
)

func newStudentRepo(t *testing.T) *StudentRepository {
	t.Helper()
	repo, err := NewStudentRepository(openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func Test_Student_Roundtrip(t *testing.T) {
	req := require.New(t)
	repo := newStudentRepo(t)

	created, err := repo.Create(domain.Student{
		FirstName:     "Mia",
		LastName:      "Nguyen",
		StudentNumber: "S-100",
		ParentUserID:  4,
	})
	req.NoError(err)
	req.NotZero(created.ID)

	fetched, err := repo.GetByID(created.ID)
	req.NoError(err)
	req.Equal("Mia", fetched.FirstName)
}

func Test_Students_By_Parent(t *testing.T) {
	req := require.New(t)
	repo := newStudentRepo(t)

	_, err := repo.Create(domain.Student{FirstName: "a", ParentUserID: 4})
	req.NoError(err)
	_, err = repo.Create(domain.Student{FirstName: "b", ParentUserID: 4})
	req.NoError(err)
	_, err = repo.Create(domain.Student{FirstName: "c", ParentUserID: 9})
	req.NoError(err)

	kids, err := repo.GetByParent(4)
	req.NoError(err)
	req.Len(kids, 2)
}

func Test_Results_Index_By_Student(t *testing.T) {
	req := require.New(t)
	repo := newStudentRepo(t)

	student, err := repo.Create(domain.Student{FirstName: "Mia", ParentUserID: 4})
	req.NoError(err)
	other, err := repo.Create(domain.Student{FirstName: "Leo", ParentUserID: 5})
	req.NoError(err)

	_, err = repo.AddResult(domain.Result{StudentID: student.ID, Subject: "math", Grade: "A", Score: 95, Date: time.Now().UTC()})
	req.NoError(err)
	_, err = repo.AddResult(domain.Result{StudentID: student.ID, Subject: "art", Grade: "B", Score: 80, Date: time.Now().UTC()})
	req.NoError(err)
	_, err = repo.AddResult(domain.Result{StudentID: other.ID, Subject: "math", Grade: "C", Score: 60, Date: time.Now().UTC()})
	req.NoError(err)

	results, err := repo.GetResultsByStudent(student.ID)
	req.NoError(err)
	req.Len(results, 2)
	for _, r := range results {
		req.Equal(student.ID, r.StudentID)
	}
}

func Test_Delete_Result_Cleans_Index(t *testing.T) {
	req := require.New(t)
	repo := newStudentRepo(t)

	student, err := repo.Create(domain.Student{FirstName: "Mia", ParentUserID: 4})
	req.NoError(err)
	result, err := repo.AddResult(domain.Result{StudentID: student.ID, Subject: "math", Grade: "A", Score: 95})
	req.NoError(err)

	req.NoError(repo.DeleteResult(result.ID))

	_, err = repo.GetResult(result.ID)
	req.ErrorIs(err, errors.ErrNotFound)

	results, err := repo.GetResultsByStudent(student.ID)
	req.NoError(err)
	req.Empty(results)
}

func Test_Attendance_Roundtrip(t *testing.T) {
	req := require.New(t)
	repo := newStudentRepo(t)

	student, err := repo.Create(domain.Student{FirstName: "Mia", ParentUserID: 4})
	req.NoError(err)

	att, err := repo.AddAttendance(domain.Attendance{
		StudentID: student.ID,
		Date:      time.Now().UTC(),
		Status:    domain.AttendanceLate,
		Reason:    "bus strike",
	})
	req.NoError(err)

	records, err := repo.GetAttendanceByStudent(student.ID)
	req.NoError(err)
	req.Len(records, 1)
	req.Equal(att.ID, records[0].ID)
	req.Equal(domain.AttendanceLate, records[0].Status)
}

func Test_Delete_Student_Removes_Children(t *testing.T) {
	req := require.New(t)
	repo := newStudentRepo(t)

	student, err := repo.Create(domain.Student{FirstName: "Mia", ParentUserID: 4})
	req.NoError(err)
	result, err := repo.AddResult(domain.Result{StudentID: student.ID, Subject: "math"})
	req.NoError(err)
	att, err := repo.AddAttendance(domain.Attendance{StudentID: student.ID, Status: domain.AttendancePresent})
	req.NoError(err)

	req.NoError(repo.Delete(student.ID))

	_, err = repo.GetByID(student.ID)
	req.ErrorIs(err, errors.ErrNotFound)
	_, err = repo.GetResult(result.ID)
	req.ErrorIs(err, errors.ErrNotFound)
	_, err = repo.GetAttendance(att.ID)
	req.ErrorIs(err, errors.ErrNotFound)
}
