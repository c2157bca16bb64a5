package stubserver

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/infokelas/kelascli/internal/client/models"
)

func (s *Server) listSchedules(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.schedules
	if c.QueryParam("today") == "true" {
		today := time.Now().Weekday().String()
		filtered := make([]models.Schedule, 0, len(out))
		for _, sch := range out {
			if sch.Day == today {
				filtered = append(filtered, sch)
			}
		}
		out = filtered
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

func (s *Server) listAnnouncements(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Announcement, len(s.announcements))
	copy(out, s.announcements)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit < len(out) {
			out = out[:limit]
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

func (s *Server) listClassrooms(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"data": s.classrooms})
}

func (s *Server) getClassroom(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.classrooms {
		if room.ID == id {
			return c.JSON(http.StatusOK, echo.Map{"data": room})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Kelas tidak ditemukan."})
}

func (s *Server) listSubjects(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"data": s.subjects[id]})
}

func (s *Server) joinClass(c echo.Context) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.classrooms {
		if room.Code == req.Code {
			return c.JSON(http.StatusOK, echo.Map{"data": room})
		}
	}
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Kode kelas tidak valid."})
}

func (s *Server) listAssignments(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Assignment, 0, len(s.byClassroom[id]))
	for _, aid := range s.byClassroom[id] {
		out = append(out, s.assignments[aid])
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

func (s *Server) getAssignment(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	as, ok := s.assignments[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Tugas tidak ditemukan."})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": as})
}

func (s *Server) submitAssignment(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if _, err := c.FormFile("file"); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "File tugas wajib diunggah."})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	as, ok := s.assignments[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Tugas tidak ditemukan."})
	}
	as.Submitted = true
	s.assignments[id] = as

	sub := models.Submission{ID: uuid.NewString(), SubmittedAt: time.Now().UTC()}
	return c.JSON(http.StatusOK, echo.Map{"data": sub})
}

func (s *Server) listMaterials(c echo.Context) error {
	subjectID, err := strconv.ParseInt(c.QueryParam("subject_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid subject_id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Material, 0, len(s.bySubject[subjectID]))
	for _, mid := range s.bySubject[subjectID] {
		out = append(out, s.materials[mid])
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

func (s *Server) getMaterial(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Materi tidak ditemukan."})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": m})
}
