//go:generate go run go.uber.org/mock/mockgen -source=student_service.go -destination=../mocks/mock_student_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"

	"parent-portal/domain"
	"parent-portal/errors"
	"parent-portal/remote"
	"parent-portal/repositories"
)

type IStudentService interface {
	Create(ctx context.Context, actorID int64, student domain.Student) (domain.Student, error)
	GetByID(id int64) (domain.Student, error)
	GetAll() ([]domain.Student, error)
	GetByParent(parentUserID int64) ([]domain.Student, error)
	Update(ctx context.Context, actorID int64, student domain.Student) (domain.Student, error)
	Delete(ctx context.Context, actorID int64, id int64) error

	AddResult(ctx context.Context, actorID int64, result domain.Result) (domain.Result, error)
	GetResult(id int64) (domain.Result, error)
	GetResultsByStudent(studentID int64) ([]domain.Result, error)
	DeleteResult(ctx context.Context, actorID int64, id int64) error

	AddAttendance(ctx context.Context, actorID int64, att domain.Attendance) (domain.Attendance, error)
	GetAttendance(id int64) (domain.Attendance, error)
	GetAttendanceByStudent(studentID int64) ([]domain.Attendance, error)
	DeleteAttendance(ctx context.Context, actorID int64, id int64) error
}

// StudentService holds student records, results and attendance. Writes
// are admin only, and every foreign reference is confirmed on its owning
// service before anything is stored locally.
type StudentService struct {
	students repositories.IStudentRepository
	refs     remote.ReferenceValidator
	log      *slog.Logger
}

func NewStudentService(students repositories.IStudentRepository, refs remote.ReferenceValidator, log *slog.Logger) *StudentService {
	return &StudentService{students: students, refs: refs, log: log}
}

func (s *StudentService) requireAdmin(ctx context.Context, actorID int64) error {
	_, err := s.refs.RequireRole(ctx, actorID, domain.RoleAdmin)
	return err
}

// Create validates the acting admin and the referenced parent account
// before the student row is written.
func (s *StudentService) Create(ctx context.Context, actorID int64, student domain.Student) (domain.Student, error) {
	if student.FirstName == "" || student.LastName == "" {
		return domain.Student{}, fmt.Errorf("%w: first and last name are required", errors.ErrValidation)
	}
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return domain.Student{}, err
	}
	if _, err := s.refs.RequireRole(ctx, student.ParentUserID, domain.RoleParent); err != nil {
		return domain.Student{}, err
	}

	created, err := s.students.Create(student)
	if err != nil {
		return domain.Student{}, err
	}
	s.log.Info("student created", "id", created.ID, "parent", created.ParentUserID)
	return created, nil
}

func (s *StudentService) GetByID(id int64) (domain.Student, error) {
	return s.students.GetByID(id)
}

func (s *StudentService) GetAll() ([]domain.Student, error) {
	return s.students.GetAll()
}

func (s *StudentService) GetByParent(parentUserID int64) ([]domain.Student, error) {
	return s.students.GetByParent(parentUserID)
}

func (s *StudentService) Update(ctx context.Context, actorID int64, student domain.Student) (domain.Student, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return domain.Student{}, err
	}
	if _, err := s.refs.RequireRole(ctx, student.ParentUserID, domain.RoleParent); err != nil {
		return domain.Student{}, err
	}
	if err := s.students.Update(student); err != nil {
		return domain.Student{}, err
	}
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, actorID int64, id int64) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.students.Delete(id)
}

func (s *StudentService) AddResult(ctx context.Context, actorID int64, result domain.Result) (domain.Result, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return domain.Result{}, err
	}
	if _, err := s.students.GetByID(result.StudentID); err != nil {
		return domain.Result{}, err
	}
	return s.students.AddResult(result)
}

func (s *StudentService) GetResult(id int64) (domain.Result, error) {
	return s.students.GetResult(id)
}

func (s *StudentService) GetResultsByStudent(studentID int64) ([]domain.Result, error) {
	return s.students.GetResultsByStudent(studentID)
}

func (s *StudentService) DeleteResult(ctx context.Context, actorID int64, id int64) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.students.DeleteResult(id)
}

func (s *StudentService) AddAttendance(ctx context.Context, actorID int64, att domain.Attendance) (domain.Attendance, error) {
	if !att.Status.Valid() {
		return domain.Attendance{}, fmt.Errorf("%w: attendance status %q", errors.ErrValidation, att.Status)
	}
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return domain.Attendance{}, err
	}
	if _, err := s.students.GetByID(att.StudentID); err != nil {
		return domain.Attendance{}, err
	}
	return s.students.AddAttendance(att)
}

func (s *StudentService) GetAttendance(id int64) (domain.Attendance, error) {
	return s.students.GetAttendance(id)
}

func (s *StudentService) GetAttendanceByStudent(studentID int64) ([]domain.Attendance, error) {
	return s.students.GetAttendanceByStudent(studentID)
}

func (s *StudentService) DeleteAttendance(ctx context.Context, actorID int64, id int64) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.students.DeleteAttendance(id)
}
