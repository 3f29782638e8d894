package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/text/message"

	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
	"github.com/pixelsinav/pixelsinav/internal/identity"
)

// SignIn records the identity returned by a successful login. *identity.Holder satisfies it.
type SignIn interface {
	SignIn(token string, u identity.User) error
}

type loginReply struct {
	AccessToken string        `json:"accessToken"`
	Token       string        `json:"token"`
	User        identity.User `json:"user"`
}

func Login(p *message.Printer, auth SignIn) Form {
	def := form.Definition{
		Spec: form.Spec{
			Name:           "login",
			Method:         http.MethodPost,
			Path:           "/api/auth/login",
			ResetOnSuccess: true,
			IgnoreEntity:   true,
			Success:        p.Sprintf(i18n.LoginSuccess),
			OnSuccess: func(_ context.Context, res form.Result) error {
				var r loginReply
				if err := json.Unmarshal(res.Data, &r); err != nil {
					return fmt.Errorf("decode login reply: %w", err)
				}
				token := r.AccessToken
				if token == "" {
					token = r.Token
				}
				if token == "" {
					return errors.New("login reply carries no access token")
				}
				return auth.SignIn(token, r.User)
			},
		},
		Rules: []form.Rule{
			required(p, "email", i18n.LabelEmail),
			required(p, "password", i18n.LabelPassword),
			form.Email("email", p.Sprintf(i18n.EmailInvalid)),
		},
	}
	return Form{Definition: def, Seed: form.Of(form.F("email", ""), form.F("password", ""))}
}

func Register(p *message.Printer) Form {
	def := form.Definition{
		Spec: form.Spec{
			Name:           "register",
			Method:         http.MethodPost,
			Path:           "/api/auth/register",
			ResetOnSuccess: true,
			IgnoreEntity:   true,
			Payload:        func(d *form.Draft) any { return pick(d, "name", "email", "password") },
			Success:        p.Sprintf(i18n.RegisterSuccess),
			Conflict:       p.Sprintf(i18n.RegisterConflict),
		},
		Comparisons: []form.Comparison{
			form.MustMatch("passwords", "password", "confirmPassword", p.Sprintf(i18n.PasswordMismatch)),
		},
		Rules: []form.Rule{
			required(p, "name", i18n.LabelName),
			required(p, "email", i18n.LabelEmail),
			required(p, "password", i18n.LabelPassword),
			required(p, "confirmPassword", i18n.LabelConfirmPassword),
			form.Required("terms", p.Sprintf(i18n.TermsRequired)),
			between(p, "name", i18n.LabelName, 2, 100),
			atLeast(p, "password", i18n.LabelPassword, content.MinPassword),
			form.Email("email", p.Sprintf(i18n.EmailInvalid)),
		},
	}
	seed := form.Of(
		form.F("name", ""), form.F("email", ""), form.F("password", ""),
		form.F("confirmPassword", ""), form.F("terms", false),
	)
	return Form{Definition: def, Seed: seed}
}

func emailOnly(p *message.Printer, name, path, successKey string) Form {
	def := form.Definition{
		Spec: form.Spec{
			Name:           name,
			Method:         http.MethodPost,
			Path:           path,
			ResetOnSuccess: true,
			IgnoreEntity:   true,
			Success:        p.Sprintf(successKey),
		},
		Rules: []form.Rule{
			required(p, "email", i18n.LabelEmail),
			form.Email("email", p.Sprintf(i18n.EmailInvalid)),
		},
	}
	return Form{Definition: def, Seed: form.Of(form.F("email", ""))}
}

func ForgotPassword(p *message.Printer) Form {
	return emailOnly(p, "forgot-password", "/api/auth/forgot-password", i18n.ForgotSuccess)
}

func VerifyEmail(p *message.Printer) Form {
	return emailOnly(p, "verify-email", "/api/auth/verify-email", i18n.VerifySuccess)
}

// ResetPassword changes the password using the emailed reset token.
// Mismatching confirmation is reported before reuse of the old password.
func ResetPassword(p *message.Printer, token string) Form {
	def := form.Definition{
		Spec: form.Spec{
			Name:           "reset-password",
			Method:         http.MethodPost,
			Path:           "/api/auth/reset-password/" + url.PathEscape(token),
			ResetOnSuccess: true,
			IgnoreEntity:   true,
			Payload:        func(d *form.Draft) any { return pick(d, "oldPassword", "newPassword") },
			Success:        p.Sprintf(i18n.ResetSuccess),
		},
		Comparisons: []form.Comparison{
			form.MustMatch("confirm", "newPassword", "confirmPassword", p.Sprintf(i18n.NewPasswordMismatch)),
			form.MustDiffer("reuse", "oldPassword", "newPassword", p.Sprintf(i18n.PasswordReuse)),
		},
		Rules: []form.Rule{
			required(p, "oldPassword", i18n.LabelOldPassword),
			required(p, "newPassword", i18n.LabelNewPassword),
			required(p, "confirmPassword", i18n.LabelConfirmPassword),
		},
	}
	seed := form.Of(form.F("oldPassword", ""), form.F("newPassword", ""), form.F("confirmPassword", ""))
	return Form{Definition: def, Seed: seed}
}
