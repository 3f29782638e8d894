package http

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelsinav/pixelsinav/internal/content"
)

var errTokenInvalid = errors.New("token invalid or expired")

// profile is the free-form part of a user row.
type profile struct {
	Phone    string          `json:"phone,omitempty"`
	Location string          `json:"location,omitempty"`
	About    string          `json:"about,omitempty"`
	Privacy  content.Privacy `json:"privacy"`
}

type userRow struct {
	content.User
	PasswordHash string
}

const userCols = `id, email, password_hash, name, roles, is_verified, profile_json`

func scanUser(row interface{ Scan(...any) error }) (userRow, error) {
	var (
		u        userRow
		roles    string
		verified bool
		pj       string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &roles, &verified, &pj); err != nil {
		return userRow{}, err
	}
	u.Roles = strings.Split(roles, ",")
	u.IsVerified = verified
	u.FullName = u.Name
	p := profile{Privacy: content.DefaultPrivacy()}
	if err := json.Unmarshal([]byte(pj), &p); err != nil {
		return userRow{}, err
	}
	u.Phone, u.Location, u.About, u.Privacy = p.Phone, p.Location, p.About, p.Privacy
	return u, nil
}

func (s *Server) userByEmail(ctx context.Context, email string) (userRow, error) {
	return scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE email=$1`, strings.ToLower(email)))
}

func (s *Server) userByID(ctx context.Context, id string) (userRow, error) {
	return scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (s *Server) createUser(ctx context.Context, name, email, password string, roles ...string) (content.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return content.User{}, err
	}
	if len(roles) == 0 {
		roles = []string{"student"}
	}
	u := content.User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(email),
		Name:     name,
		FullName: name,
		Roles:    roles,
		Privacy:  content.DefaultPrivacy(),
	}
	pj, _ := json.Marshal(profile{Privacy: u.Privacy})
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO users(id, email, password_hash, name, roles, is_verified, profile_json, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Email, string(hash), u.Name, strings.Join(roles, ","), false, string(pj), s.now().Unix())
	if err != nil {
		if content.IsUniqueViolation(err) {
			return content.User{}, content.ErrDuplicate
		}
		return content.User{}, err
	}
	return u, nil
}

// EnsureAdmin creates the admin account from a bcrypt hash unless the email exists.
func (s *Server) EnsureAdmin(ctx context.Context, email, passHash string) error {
	if email == "" || passHash == "" {
		return nil
	}
	pj, _ := json.Marshal(profile{Privacy: content.DefaultPrivacy()})
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO users(id, email, password_hash, name, roles, is_verified, profile_json, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), strings.ToLower(email), passHash, "admin", "admin,teacher,student", true, string(pj), s.now().Unix())
	return err
}

func (s *Server) saveUser(ctx context.Context, u content.User) error {
	pj, err := json.Marshal(profile{Phone: u.Phone, Location: u.Location, About: u.About, Privacy: u.Privacy})
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx,
		`UPDATE users SET email=$1, name=$2, profile_json=$3 WHERE id=$4`,
		strings.ToLower(u.Email), u.Name, string(pj), u.ID)
	if err != nil && content.IsUniqueViolation(err) {
		return content.ErrDuplicate
	}
	return err
}

func (s *Server) setPassword(ctx context.Context, id, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, string(hash), id)
	return err
}

// issueToken stores a single-use token for purpose (verify|reset).
func (s *Server) issueToken(ctx context.Context, userID, purpose string) (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	tok := hex.EncodeToString(b)
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO user_tokens(token, user_id, purpose, expires_at) VALUES ($1,$2,$3,$4)`,
		tok, userID, purpose, s.now().Add(s.TokenTTL).Unix())
	return tok, err
}

// consumeToken deletes the token and returns its user when it is valid for purpose.
func (s *Server) consumeToken(ctx context.Context, tok, purpose string) (string, error) {
	var (
		userID  string
		expires int64
	)
	err := s.DB.QueryRowContext(ctx,
		`SELECT user_id, expires_at FROM user_tokens WHERE token=$1 AND purpose=$2`, tok, purpose,
	).Scan(&userID, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errTokenInvalid
	}
	if err != nil {
		return "", err
	}
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM user_tokens WHERE token=$1`, tok); err != nil {
		return "", err
	}
	if s.now().After(time.Unix(expires, 0)) {
		return "", errTokenInvalid
	}
	return userID, nil
}
