package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"parent-portal/domain"
	"parent-portal/services"
)

type createStudentRequest struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	StudentNumber string `json:"studentNumber"`
	ParentUserID  int64  `json:"parentUserId" validate:"required"`
}

type addResultRequest struct {
	Subject string    `json:"subject" validate:"required"`
	Grade   string    `json:"grade" validate:"required"`
	Score   float64   `json:"score"`
	Date    time.Time `json:"date"`
}

type addAttendanceRequest struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status" validate:"required"`
	Reason string    `json:"reason"`
}

// StudentsRouter serves the student performance API. Mutations carry the
// acting admin's id in the path; the service validates the role remotely.
func StudentsRouter(svc services.IStudentService, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/api/students/{adminUserId}", func(w http.ResponseWriter, req *http.Request) {
		adminID, err := pathInt(req, "adminUserId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		var body createStudentRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		student, err := svc.Create(req.Context(), adminID, domain.Student{
			FirstName:     body.FirstName,
			LastName:      body.LastName,
			StudentNumber: body.StudentNumber,
			ParentUserID:  body.ParentUserID,
		})
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, student)
	})

	r.Get("/api/students", func(w http.ResponseWriter, req *http.Request) {
		students, err := svc.GetAll()
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, students)
	})

	r.Get("/api/students/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := pathInt(req, "id")
		if err != nil {
			writeError(log, w, err)
			return
		}
		student, err := svc.GetByID(id)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, student)
	})

	r.Get("/api/students/byParent/{parentUserId}", func(w http.ResponseWriter, req *http.Request) {
		parentID, err := pathInt(req, "parentUserId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		students, err := svc.GetByParent(parentID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, students)
	})

	r.Put("/api/students/{adminUserId}/{id}", func(w http.ResponseWriter, req *http.Request) {
		adminID, err := pathInt(req, "adminUserId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		id, err := pathInt(req, "id")
		if err != nil {
			writeError(log, w, err)
			return
		}
		var body createStudentRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		student, err := svc.Update(req.Context(), adminID, domain.Student{
			ID:            id,
			FirstName:     body.FirstName,
			LastName:      body.LastName,
			StudentNumber: body.StudentNumber,
			ParentUserID:  body.ParentUserID,
		})
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, student)
	})

	r.Delete("/api/students/{adminUserId}/{id}", func(w http.ResponseWriter, req *http.Request) {
		adminID, err := pathInt(req, "adminUserId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		id, err := pathInt(req, "id")
		if err != nil {
			writeError(log, w, err)
			return
		}
		if err := svc.Delete(req.Context(), adminID, id); err != nil {
			writeError(log, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/api/students/{adminUserId}/{studentId}/results", func(w http.ResponseWriter, req *http.Request) {
		adminID, err := pathInt(req, "adminUserId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		studentID, err := pathInt(req, "studentId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		var body addResultRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		result, err := svc.AddResult(req.Context(), adminID, domain.Result{
			StudentID: studentID,
			Subject:   body.Subject,
			Grade:     body.Grade,
			Score:     body.Score,
			Date:      body.Date,
		})
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	})

	r.Get("/api/students/{studentId}/results", func(w http.ResponseWriter, req *http.Request) {
		studentID, err := pathInt(req, "studentId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		results, err := svc.GetResultsByStudent(studentID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	})

	r.Get("/api/students/results/{resultId}", func(w http.ResponseWriter, req *http.Request) {
		resultID, err := pathInt(req, "resultId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		result, err := svc.GetResult(resultID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Delete("/api/students/{adminUserId}/results/{resultId}", func(w http.ResponseWriter, req *http.Request) {
		adminID, err := pathInt(req, "adminUserId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		resultID, err := pathInt(req, "resultId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		if err := svc.DeleteResult(req.Context(), adminID, resultID); err != nil {
			writeError(log, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/api/students/{adminUserId}/{studentId}/attendance", func(w http.ResponseWriter, req *http.Request) {
		adminID, err := pathInt(req, "adminUserId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		studentID, err := pathInt(req, "studentId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		var body addAttendanceRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		att, err := svc.AddAttendance(req.Context(), adminID, domain.Attendance{
			StudentID: studentID,
			Date:      body.Date,
			Status:    domain.AttendanceStatus(body.Status),
			Reason:    body.Reason,
		})
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, att)
	})

	r.Get("/api/students/{studentId}/attendance", func(w http.ResponseWriter, req *http.Request) {
		studentID, err := pathInt(req, "studentId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		records, err := svc.GetAttendanceByStudent(studentID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	r.Get("/api/students/attendance/{attendanceId}", func(w http.ResponseWriter, req *http.Request) {
		attendanceID, err := pathInt(req, "attendanceId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		att, err := svc.GetAttendance(attendanceID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, att)
	})

	r.Delete("/api/students/{adminUserId}/attendance/{attendanceId}", func(w http.ResponseWriter, req *http.Request) {
		adminID, err := pathInt(req, "adminUserId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		attendanceID, err := pathInt(req, "attendanceId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		if err := svc.DeleteAttendance(req.Context(), adminID, attendanceID); err != nil {
			writeError(log, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
