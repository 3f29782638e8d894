package http

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelsinav/pixelsinav/internal/auth"
	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
	"github.com/pixelsinav/pixelsinav/internal/rbac"
)

var validate = validator.New()

type registerReq struct {
	Name     string `json:"name" validate:"min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
}

func validEmail(s string) bool { return validate.Var(s, "required,email") == nil }

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, i18n.BadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	var verrs validator.ValidationErrors
	if err := validate.Struct(req); errors.As(err, &verrs) {
		p := i18n.FromContext(r.Context())
		switch verrs[0].Field() {
		case "Name":
			fail(w, r, http.StatusBadRequest, i18n.LengthBetween, p.Sprintf(i18n.LabelName), 2, 100)
		case "Email":
			fail(w, r, http.StatusBadRequest, i18n.EmailInvalid)
		default:
			fail(w, r, http.StatusBadRequest, i18n.LengthMin, p.Sprintf(i18n.LabelPassword), content.MinPassword)
		}
		return
	}

	u, err := s.createUser(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, content.ErrDuplicate) {
		fail(w, r, http.StatusConflict, i18n.RegisterConflict)
		return
	}
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tok, err := s.issueToken(r.Context(), u.ID, "verify"); err == nil {
		s.Log.Info("verification token issued", "email", u.Email, "token", tok)
	}
	ok(w, r, http.StatusCreated, i18n.RegisterSuccess, u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReply struct {
	AccessToken string       `json:"accessToken"`
	User        content.User `json:"user"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, i18n.BadRequest)
		return
	}
	u, err := s.userByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	// unknown email and wrong password answer alike
	if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		fail(w, r, http.StatusBadRequest, i18n.InvalidCredentials)
		return
	}
	tok, err := s.Auth.IssueJWT(u.ID, rbac.Highest(u.Roles), u.Email)
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	ok(w, r, http.StatusOK, i18n.LoginSuccess, loginReply{AccessToken: tok, User: u.User})
}

type emailReq struct {
	Email string `json:"email"`
}

// forgotPassword always answers success so addresses cannot be probed.
func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	s.mailToken(w, r, "reset", i18n.ForgotSuccess)
}

func (s *Server) requestVerification(w http.ResponseWriter, r *http.Request) {
	s.mailToken(w, r, "verify", i18n.VerifySuccess)
}

// mailToken issues a token for the account behind the posted email. The dev API has
// no mailer, so the token goes to the log.
func (s *Server) mailToken(w http.ResponseWriter, r *http.Request, purpose, successKey string) {
	var req emailReq
	if err := readJSON(w, r, &req); err != nil || !validEmail(req.Email) {
		fail(w, r, http.StatusBadRequest, i18n.EmailInvalid)
		return
	}
	u, err := s.userByEmail(r.Context(), req.Email)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.Log.Info("token requested for unknown email", "purpose", purpose)
	case err != nil:
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	default:
		tok, err := s.issueToken(r.Context(), u.ID, purpose)
		if err != nil {
			failRaw(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.Log.Info("token issued", "purpose", purpose, "email", u.Email, "token", tok)
	}
	ok(w, r, http.StatusOK, successKey, nil)
}

func (s *Server) confirmVerification(w http.ResponseWriter, r *http.Request) {
	userID, err := s.consumeToken(r.Context(), chi.URLParam(r, "token"), "verify")
	if errors.Is(err, errTokenInvalid) {
		failRaw(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := s.DB.ExecContext(r.Context(), `UPDATE users SET is_verified=$1 WHERE id=$2`, true, userID); err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	ok(w, r, http.StatusOK, i18n.VerifySuccess, nil)
}

type resetReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := readJSON(w, r, &req); err != nil || req.NewPassword == "" {
		fail(w, r, http.StatusBadRequest, i18n.BadRequest)
		return
	}
	if req.OldPassword == req.NewPassword {
		fail(w, r, http.StatusBadRequest, i18n.PasswordReuse)
		return
	}
	userID, err := s.consumeToken(r.Context(), chi.URLParam(r, "token"), "reset")
	if errors.Is(err, errTokenInvalid) {
		failRaw(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	u, err := s.userByID(r.Context(), userID)
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)) != nil {
		fail(w, r, http.StatusBadRequest, i18n.InvalidCredentials)
		return
	}
	if err := s.setPassword(r.Context(), userID, req.NewPassword); err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	ok(w, r, http.StatusOK, i18n.ResetSuccess, nil)
}

// findOneByID returns the caller's own record.
func (s *Server) findOneByID(w http.ResponseWriter, r *http.Request) {
	u, err := s.userByID(r.Context(), auth.SubjectFromContext(r.Context()))
	if errors.Is(err, sql.ErrNoRows) {
		fail(w, r, http.StatusNotFound, i18n.NotFound)
		return
	}
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	ok(w, r, http.StatusOK, "", u.User)
}

type updateReq struct {
	FullName *string          `json:"fullName"`
	Email    *string          `json:"email"`
	Phone    *string          `json:"phone"`
	Location *string          `json:"location"`
	About    *string          `json:"about"`
	Privacy  *content.Privacy `json:"privacy"`
}

// updateAccount applies the profile fields and privacy settings present in the body.
func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateReq
	if err := readJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, i18n.BadRequest)
		return
	}
	row, err := s.userByID(r.Context(), auth.SubjectFromContext(r.Context()))
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	u := row.User
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.Name, req.FullName)
	set(&u.Email, req.Email)
	set(&u.Phone, req.Phone)
	set(&u.Location, req.Location)
	set(&u.About, req.About)
	u.FullName = u.Name
	successKey := i18n.ProfileSuccess
	if req.Privacy != nil {
		if err := req.Privacy.Validate(); err != nil {
			failRaw(w, http.StatusBadRequest, err.Error())
			return
		}
		u.Privacy = *req.Privacy
		successKey = i18n.PrivacySuccess
	}
	if validate.Var(u.Name, "min=2,max=100") != nil {
		fail(w, r, http.StatusBadRequest, i18n.LengthBetween, i18n.FromContext(r.Context()).Sprintf(i18n.LabelFullName), 2, 100)
		return
	}
	if !validEmail(u.Email) {
		fail(w, r, http.StatusBadRequest, i18n.EmailInvalid)
		return
	}

	err = s.saveUser(r.Context(), u)
	if errors.Is(err, content.ErrDuplicate) {
		fail(w, r, http.StatusConflict, i18n.RegisterConflict)
		return
	}
	if err != nil {
		failRaw(w, http.StatusInternalServerError, err.Error())
		return
	}
	ok(w, r, http.StatusOK, successKey, profileView(u))
}

// profileView is the editable subset echoed after an update.
func profileView(u content.User) map[string]any {
	return map[string]any{
		"fullName": u.FullName,
		"email":    u.Email,
		"phone":    u.Phone,
		"location": u.Location,
		"about":    u.About,
	}
}
