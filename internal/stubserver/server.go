// Package stubserver is a development stand-in for the Infokelas portal
// backend: the same routes and JSON shapes served from in-memory fixtures.
// It exists so the terminal client can be exercised end to end without the
// production backend, and as an integration target for gateway tests.
package stubserver

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/infokelas/kelascli/internal/client/models"
)

const tokenTTL = 12 * time.Hour

// account is one seeded user. Identifiers (NIM and email) both resolve to
// the same account, like the real backend's login form.
type account struct {
	user         models.User
	passwordHash []byte
}

type Server struct {
	secret string
	echo   *echo.Echo

	mu       sync.Mutex
	accounts map[string]*account // keyed by canonical identifier (NIM)
	aliases  map[string]string   // email -> NIM
	otps     map[string]string
	revoked  map[string]bool

	schedules     []models.Schedule
	announcements []models.Announcement
	classrooms    []models.Classroom
	subjects      map[int64][]models.Subject
	assignments   map[int64]models.Assignment
	byClassroom   map[int64][]int64
	materials     map[int64]models.Material
	bySubject     map[int64][]int64
}

// New builds a stub with the demo fixtures loaded. secret signs the issued
// tokens; any non-empty string works for development.
func New(secret string) (*Server, error) {
	s := &Server{
		secret:   secret,
		echo:     echo.New(),
		accounts: make(map[string]*account),
		aliases:  make(map[string]string),
		otps:     make(map[string]string),
		revoked:  make(map[string]bool),
	}
	s.echo.HideBanner = true

	if err := s.seed(); err != nil {
		return nil, err
	}
	s.routes()
	return s, nil
}

// Handler exposes the stub as an http.Handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the listener fails.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) routes() {
	e := s.echo

	e.POST("/login", s.login)
	e.POST("/forgot-password", s.forgotPassword)
	e.POST("/reset-password", s.resetPassword)

	auth := e.Group("", s.requireAuth)
	auth.POST("/logout", s.logout)
	auth.GET("/profile", s.profile)
	auth.POST("/profile/update", s.updateProfile)
	auth.POST("/profile/password", s.updatePassword)

	auth.GET("/schedules", s.listSchedules)
	auth.GET("/announcements", s.listAnnouncements)
	auth.GET("/my-classrooms", s.listClassrooms)
	auth.GET("/classrooms/:id", s.getClassroom)
	auth.GET("/classrooms/:id/subjects", s.listSubjects)
	auth.GET("/classrooms/:id/assignments", s.listAssignments)
	auth.POST("/join-class", s.joinClass)
	auth.GET("/assignments/:id", s.getAssignment)
	auth.POST("/assignments/:id/submit", s.submitAssignment)
	auth.GET("/materials", s.listMaterials)
	auth.GET("/materials/:id", s.getMaterial)
}

// seed loads one demo student and a small portal dataset.
func (s *Server) seed() error {
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	if err != nil {
		return err
	}
	budi := &account{
		user: models.User{
			ID:    1,
			Name:  "Budi Santoso",
			NIM:   "A12345",
			Email: "budi@example.com",
			Phone: "081234567890",
		},
		passwordHash: hash,
	}
	s.accounts[budi.user.NIM] = budi
	s.aliases[budi.user.Email] = budi.user.NIM

	deadline := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Minute)
	s.schedules = []models.Schedule{
		{ID: 1, Subject: "Algoritma dan Struktur Data", Lecturer: "Dr. Sari", Room: "R201", Day: "Monday", StartTime: "08:00", EndTime: "09:40"},
		{ID: 2, Subject: "Basis Data", Lecturer: "Pak Joko", Room: "Lab 2", Day: "Wednesday", StartTime: "10:00", EndTime: "11:40"},
	}
	s.announcements = []models.Announcement{
		{ID: 1, Title: "Libur Nasional", Body: "Kampus libur hari Kamis.", Author: "Akademik", CreatedAt: time.Now().Add(-48 * time.Hour).UTC()},
		{ID: 2, Title: "UTS Minggu Depan", Body: "Jadwal UTS terlampir.", Author: "Akademik", CreatedAt: time.Now().Add(-2 * time.Hour).UTC()},
	}
	s.classrooms = []models.Classroom{
		{ID: 1, Name: "TI-3A", Code: "TI3A-2026", Lecturer: "Dr. Sari"},
	}
	s.subjects = map[int64][]models.Subject{
		1: {{ID: 10, Name: "Algoritma dan Struktur Data"}, {ID: 11, Name: "Basis Data"}},
	}
	s.assignments = map[int64]models.Assignment{
		100: {ID: 100, ClassroomID: 1, Title: "Tugas Linked List", Description: "Implementasikan singly linked list.", Deadline: &deadline},
	}
	s.byClassroom = map[int64][]int64{1: {100}}
	s.materials = map[int64]models.Material{
		1000: {ID: 1000, SubjectID: 10, Title: "Slide Pertemuan 1", Body: "Pengantar struktur data.", FileURL: "/files/pertemuan-1.pdf"},
	}
	s.bySubject = map[int64][]int64{10: {1000}}
	return nil
}

// lookup resolves an identifier (NIM or email) to its account.
// Caller must hold s.mu.
func (s *Server) lookup(identifier string) (*account, bool) {
	if nim, ok := s.aliases[identifier]; ok {
		identifier = nim
	}
	acc, ok := s.accounts[identifier]
	return acc, ok
}

// newOTP stores and returns a fresh six-digit code for the identifier.
// Caller must hold s.mu.
func (s *Server) newOTP(identifier string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	s.otps[identifier] = code
	return code, nil
}

// LastOTP returns the most recently issued code for an identifier. Dev and
// test helper; the real backend delivers codes over WhatsApp.
func (s *Server) LastOTP(identifier string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if nim, ok := s.aliases[identifier]; ok {
		identifier = nim
	}
	return s.otps[identifier]
}
