//go:generate go run go.uber.org/mock/mockgen -source=student.go -destination=../mocks/mock_student_repository.go -package=mocks
package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"parent-portal/domain"
)

type IStudentRepository interface {
	Create(student domain.Student) (domain.Student, error)
	GetByID(id int64) (domain.Student, error)
	GetAll() ([]domain.Student, error)
	GetByParent(parentUserID int64) ([]domain.Student, error)
	Update(student domain.Student) error
	Delete(id int64) error

	AddResult(result domain.Result) (domain.Result, error)
	GetResult(id int64) (domain.Result, error)
	GetResultsByStudent(studentID int64) ([]domain.Result, error)
	DeleteResult(id int64) error

	AddAttendance(att domain.Attendance) (domain.Attendance, error)
	GetAttendance(id int64) (domain.Attendance, error)
	GetAttendanceByStudent(studentID int64) ([]domain.Attendance, error)
	DeleteAttendance(id int64) error

	Close() error
}

// StudentRepository owns students plus their results and attendance rows.
// Results and attendance carry a secondary index keyed by student id so
// per-student reads are a prefix scan, the way the message store indexes
// by room.
type StudentRepository struct {
	db            *badger.DB
	studentSeq    *badger.Sequence
	resultSeq     *badger.Sequence
	attendanceSeq *badger.Sequence
}

func NewStudentRepository(db *badger.DB) (*StudentRepository, error) {
	studentSeq, err := db.GetSequence([]byte("seq:students"), 64)
	if err != nil {
		return nil, err
	}
	resultSeq, err := db.GetSequence([]byte("seq:results"), 64)
	if err != nil {
		return nil, err
	}
	attendanceSeq, err := db.GetSequence([]byte("seq:attendance"), 64)
	if err != nil {
		return nil, err
	}
	return &StudentRepository{
		db:            db,
		studentSeq:    studentSeq,
		resultSeq:     resultSeq,
		attendanceSeq: attendanceSeq,
	}, nil
}

func (s *StudentRepository) Close() error {
	for _, seq := range []*badger.Sequence{s.studentSeq, s.resultSeq, s.attendanceSeq} {
		if err := seq.Release(); err != nil {
			return err
		}
	}
	return nil
}

func resultIndexKey(studentID, resultID int64) []byte {
	return []byte(fmt.Sprintf("idx:result:%020d:%020d", studentID, resultID))
}

func attendanceIndexKey(studentID, attendanceID int64) []byte {
	return []byte(fmt.Sprintf("idx:attendance:%020d:%020d", studentID, attendanceID))
}

func (s *StudentRepository) Create(student domain.Student) (domain.Student, error) {
	id, err := nextID(s.studentSeq)
	if err != nil {
		return domain.Student{}, err
	}
	student.ID = id

	err = s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, numericKey("student:", student.ID), student)
	})
	if err != nil {
		return domain.Student{}, err
	}
	return student, nil
}

func (s *StudentRepository) GetByID(id int64) (domain.Student, error) {
	var student domain.Student
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, numericKey("student:", id), &student)
	})
	return student, err
}

func (s *StudentRepository) GetAll() ([]domain.Student, error) {
	return scanJSON[domain.Student](s.db, "student:")
}

func (s *StudentRepository) GetByParent(parentUserID int64) ([]domain.Student, error) {
	students, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	return lo.Filter(students, func(st domain.Student, _ int) bool {
		return st.ParentUserID == parentUserID
	}), nil
}

func (s *StudentRepository) Update(student domain.Student) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var existing domain.Student
		if err := getJSON(txn, numericKey("student:", student.ID), &existing); err != nil {
			return err
		}
		return setJSON(txn, numericKey("student:", student.ID), student)
	})
}

// Delete removes the student together with its results and attendance.
func (s *StudentRepository) Delete(id int64) error {
	results, err := s.GetResultsByStudent(id)
	if err != nil {
		return err
	}
	attendance, err := s.GetAttendanceByStudent(id)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var existing domain.Student
		if err := getJSON(txn, numericKey("student:", id), &existing); err != nil {
			return err
		}
		for _, r := range results {
			if err := txn.Delete(numericKey("result:", r.ID)); err != nil {
				return err
			}
			if err := txn.Delete(resultIndexKey(id, r.ID)); err != nil {
				return err
			}
		}
		for _, a := range attendance {
			if err := txn.Delete(numericKey("attendance:", a.ID)); err != nil {
				return err
			}
			if err := txn.Delete(attendanceIndexKey(id, a.ID)); err != nil {
				return err
			}
		}
		return txn.Delete(numericKey("student:", id))
	})
}

func (s *StudentRepository) AddResult(result domain.Result) (domain.Result, error) {
	id, err := nextID(s.resultSeq)
	if err != nil {
		return domain.Result{}, err
	}
	result.ID = id

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, numericKey("result:", result.ID), result); err != nil {
			return err
		}
		return txn.Set(resultIndexKey(result.StudentID, result.ID), nil)
	})
	if err != nil {
		return domain.Result{}, err
	}
	return result, nil
}

func (s *StudentRepository) GetResult(id int64) (domain.Result, error) {
	var result domain.Result
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, numericKey("result:", id), &result)
	})
	return result, err
}

func (s *StudentRepository) GetResultsByStudent(studentID int64) ([]domain.Result, error) {
	ids, err := s.idsByIndex(fmt.Sprintf("idx:result:%020d:", studentID))
	if err != nil {
		return nil, err
	}
	var results []domain.Result
	err = s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var r domain.Result
			if err := getJSON(txn, numericKey("result:", id), &r); err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})
	return results, err
}

// idsByIndex walks a secondary index prefix and extracts the trailing
// entity id from each key.
func (s *StudentRepository) idsByIndex(prefix string) ([]int64, error) {
	var ids []int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			key := it.Item().Key()
			var id int64
			if _, err := fmt.Sscanf(string(key[len(p):]), "%d", &id); err != nil {
				return fmt.Errorf("malformed index key %q: %w", key, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	return ids, err
}

func (s *StudentRepository) DeleteResult(id int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var existing domain.Result
		if err := getJSON(txn, numericKey("result:", id), &existing); err != nil {
			return err
		}
		if err := txn.Delete(resultIndexKey(existing.StudentID, id)); err != nil {
			return err
		}
		return txn.Delete(numericKey("result:", id))
	})
}

func (s *StudentRepository) AddAttendance(att domain.Attendance) (domain.Attendance, error) {
	id, err := nextID(s.attendanceSeq)
	if err != nil {
		return domain.Attendance{}, err
	}
	att.ID = id

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, numericKey("attendance:", att.ID), att); err != nil {
			return err
		}
		return txn.Set(attendanceIndexKey(att.StudentID, att.ID), nil)
	})
	if err != nil {
		return domain.Attendance{}, err
	}
	return att, nil
}

func (s *StudentRepository) GetAttendance(id int64) (domain.Attendance, error) {
	var att domain.Attendance
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, numericKey("attendance:", id), &att)
	})
	return att, err
}

func (s *StudentRepository) GetAttendanceByStudent(studentID int64) ([]domain.Attendance, error) {
	ids, err := s.idsByIndex(fmt.Sprintf("idx:attendance:%020d:", studentID))
	if err != nil {
		return nil, err
	}
	var records []domain.Attendance
	err = s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var a domain.Attendance
			if err := getJSON(txn, numericKey("attendance:", id), &a); err != nil {
				return err
			}
			records = append(records, a)
		}
		return nil
	})
	return records, err
}

func (s *StudentRepository) DeleteAttendance(id int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var existing domain.Attendance
		if err := getJSON(txn, numericKey("attendance:", id), &existing); err != nil {
			return err
		}
		if err := txn.Delete(attendanceIndexKey(existing.StudentID, id)); err != nil {
			return err
		}
		return txn.Delete(numericKey("attendance:", id))
	})
}
