package stubserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type loginReq struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type identifierReq struct {
	Identifier string `json:"identifier"`
}

type resetReq struct {
	Identifier           string `json:"identifier"`
	OTP                  string `json:"otp"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type passwordReq struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (s *Server) login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	s.mu.Lock()
	acc, ok := s.lookup(req.Identifier)
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "NIM/Email atau password salah."})
	}

	token, err := issueToken(s.secret, acc.user.NIM, tokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": echo.Map{"token": token, "user": acc.user}})
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req identifierReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.lookup(req.Identifier)
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Akun tidak ditemukan."})
	}
	code, err := s.newOTP(acc.user.NIM)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not issue otp"})
	}
	// The real backend delivers this over WhatsApp.
	c.Logger().Infof("otp for %s: %s", acc.user.NIM, code)
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP terkirim."})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.Password == "" || req.Password != req.PasswordConfirmation {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Konfirmasi password tidak cocok."})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.lookup(req.Identifier)
	if !ok || s.otps[acc.user.NIM] == "" || s.otps[acc.user.NIM] != req.OTP {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Kode OTP salah/kadaluarsa."})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not update password"})
	}
	acc.passwordHash = hash
	delete(s.otps, acc.user.NIM)
	return c.JSON(http.StatusOK, echo.Map{"message": "Password berhasil diubah."})
}

func (s *Server) logout(c echo.Context) error {
	raw, _ := c.Get("bearer").(string)
	s.mu.Lock()
	s.revoked[raw] = true
	s.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

func (s *Server) profile(c echo.Context) error {
	identifier, _ := c.Get("identifier").(string)
	s.mu.Lock()
	acc, ok := s.lookup(identifier)
	s.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthenticated"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": acc.user})
}

// updateProfile accepts the multipart profile form. An uploaded avatar is
// not stored anywhere; the stub only reflects a plausible URL back.
func (s *Server) updateProfile(c echo.Context) error {
	identifier, _ := c.Get("identifier").(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.lookup(identifier)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthenticated"})
	}

	if v := c.FormValue("name"); v != "" {
		acc.user.Name = v
	}
	if v := c.FormValue("email"); v != "" {
		delete(s.aliases, acc.user.Email)
		acc.user.Email = v
		s.aliases[v] = acc.user.NIM
	}
	if v := c.FormValue("phone"); v != "" {
		acc.user.Phone = v
	}
	if fh, err := c.FormFile("avatar"); err == nil && fh != nil {
		acc.user.AvatarURL = "/avatars/" + fh.Filename
	}
	return c.JSON(http.StatusOK, echo.Map{"data": acc.user})
}

func (s *Server) updatePassword(c echo.Context) error {
	identifier, _ := c.Get("identifier").(string)

	var req passwordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.Password == "" || req.Password != req.PasswordConfirmation {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Konfirmasi password tidak cocok."})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.lookup(identifier)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthenticated"})
	}
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.CurrentPassword)) != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Password saat ini salah."})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not update password"})
	}
	acc.passwordHash = hash
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
