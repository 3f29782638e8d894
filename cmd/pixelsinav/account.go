package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/forms"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

// setFlags copies every flag given on the command line into the store under its field name.
func setFlags(fs *flag.FlagSet, s *form.Store, fields map[string]string) {
	fs.Visit(func(f *flag.Flag) {
		if field, known := fields[f.Name]; known {
			s.Set(field, f.Value.String())
		}
	})
}

func password(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("PIXELSINAV_PASSWORD")
}

func submit(ctx context.Context, s *form.Session) error {
	_, err := s.Submit(ctx)
	return err
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	pass := fs.String("password", "", "password (default $PIXELSINAV_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, _ := a.open(ctx, forms.Login(a.p, a.holder), nil, false)
	s.Store().Set("email", *email)
	s.Store().Set("password", password(*pass))
	return submit(ctx, s)
}

func cmdLogout(_ context.Context, a *app, _ []string) error {
	if err := a.holder.SignOut(); err != nil {
		return err
	}
	a.sink.Success(a.p.Sprintf(i18n.LogoutSuccess))
	return nil
}

func cmdWhoami(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "keep running and report logins and logouts from other terminals")
	if err := fs.Parse(args); err != nil {
		return err
	}
	show := func() {
		if id, ok := a.holder.Current(); ok {
			a.printf("%s\n", a.p.Sprintf(i18n.SignedInAs, id.User.Name, id.User.Email))
			return
		}
		a.printf("%s\n", a.p.Sprintf(i18n.NotSignedIn))
	}
	show()
	if !*watch {
		return nil
	}
	if a.file == nil {
		return fmt.Errorf("whoami -watch needs the file identity backend")
	}
	return a.file.Watch(ctx, func() {
		if err := a.holder.Load(); err != nil {
			a.log.Warn("reload identity", "err", err)
			return
		}
		show()
	}, a.log)
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.String("name", "", "display name")
	fs.String("email", "", "account email")
	pass := fs.String("password", "", "password (default $PIXELSINAV_PASSWORD)")
	confirm := fs.String("confirm", "", "password again (default: same as -password)")
	terms := fs.Bool("accept-terms", false, "accept the terms of use")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, _ := a.open(ctx, forms.Register(a.p), nil, false)
	st := s.Store()
	setFlags(fs, st, map[string]string{"name": "name", "email": "email"})
	pw := password(*pass)
	if *confirm == "" {
		*confirm = pw
	}
	st.Set("password", pw)
	st.Set("confirmPassword", *confirm)
	st.Set("terms", *terms)
	return submit(ctx, s)
}

func emailCommand(name string, f func() forms.Form) func(context.Context, *app, []string) error {
	return func(ctx context.Context, a *app, args []string) error {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		email := fs.String("email", "", "account email")
		if err := fs.Parse(args); err != nil {
			return err
		}
		s, _ := a.open(ctx, f(), nil, false)
		s.Store().Set("email", *email)
		return submit(ctx, s)
	}
}

func cmdForgotPassword(ctx context.Context, a *app, args []string) error {
	return emailCommand("forgot-password", func() forms.Form { return forms.ForgotPassword(a.p) })(ctx, a, args)
}

func cmdVerifyEmail(ctx context.Context, a *app, args []string) error {
	return emailCommand("verify-email", func() forms.Form { return forms.VerifyEmail(a.p) })(ctx, a, args)
}

func cmdResetPassword(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	token := fs.String("token", "", "token from the reset email")
	fs.String("old", "", "current password")
	fs.String("new", "", "new password")
	fs.String("confirm", "", "new password again")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, _ := a.open(ctx, forms.ResetPassword(a.p, *token), nil, false)
	setFlags(fs, s.Store(), map[string]string{"old": "oldPassword", "new": "newPassword", "confirm": "confirmPassword"})
	return submit(ctx, s)
}

var profileFlags = map[string]string{
	"full-name": "fullName",
	"email":     "email",
	"phone":     "phone",
	"location":  "location",
	"about":     "about",
}

func cmdProfile(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	for name, field := range profileFlags {
		fs.String(name, "", "new "+field)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.fetch(ctx, forms.ProfileFetch())
	if err != nil {
		return err
	}
	s, _ := a.open(ctx, forms.Profile(a.p), forms.ProfileSeed(user), false)
	setFlags(fs, s.Store(), profileFlags)
	return submit(ctx, s)
}

func cmdPrivacy(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("privacy", flag.ContinueOnError)
	fs.String("profile", "", "profile visibility: public|friends|private")
	fs.String("online", "", "online status visibility")
	fs.String("stats", "", "statistics sharing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.fetch(ctx, forms.ProfileFetch())
	if err != nil {
		return err
	}
	s, _ := a.open(ctx, forms.Privacy(a.p), forms.PrivacySeed(user), false)
	setFlags(fs, s.Store(), map[string]string{"profile": "profileVisibility", "online": "onlineStatus", "stats": "statsSharing"})
	return submit(ctx, s)
}

type fileList []string

func (l *fileList) String() string     { return fmt.Sprint(*l) }
func (l *fileList) Set(v string) error { *l = append(*l, v); return nil }

func cmdApplyTeacher(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("apply-teacher", flag.ContinueOnError)
	fields := map[string]string{
		"full-name": "fullName", "email": "email", "phone": "phone",
		"education": "education", "experience": "experience", "expertise": "expertise",
	}
	for name, field := range fields {
		fs.String(name, "", field)
	}
	cv := fs.String("cv", "", "CV file (pdf, doc, docx)")
	var certs fileList
	fs.Var(&certs, "cert", "certificate file (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, resumed := a.open(ctx, forms.TeacherApplication(a.p), nil, true)
	st := s.Store()
	setFlags(fs, st, fields)
	if *cv != "" {
		ref, err := a.upload(ctx, *cv)
		if err != nil {
			return err
		}
		st.Set("cv", ref)
	}
	if len(certs) > 0 || !resumed {
		refs := make([]any, 0, len(certs))
		for _, c := range certs {
			ref, err := a.upload(ctx, c)
			if err != nil {
				return err
			}
			refs = append(refs, ref)
		}
		st.Set("certificates", refs)
	}
	return submit(ctx, s)
}
