// Command pixelsinav fills in and submits PixelSınav forms from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/pixelsinav/pixelsinav/internal/config"
	"github.com/pixelsinav/pixelsinav/internal/form"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":           {"sign in and store the session", cmdLogin},
	"logout":          {"forget the stored session", cmdLogout},
	"whoami":          {"show the signed-in user (-watch follows changes)", cmdWhoami},
	"register":        {"create an account", cmdRegister},
	"forgot-password": {"request a password reset email", cmdForgotPassword},
	"verify-email":    {"request a verification email", cmdVerifyEmail},
	"reset-password":  {"set a new password with a reset token", cmdResetPassword},
	"profile":         {"update profile details", cmdProfile},
	"privacy":         {"update privacy settings", cmdPrivacy},
	"apply-teacher":   {"apply to become a teacher", cmdApplyTeacher},
	"category":        {"add|delete a category", cmdCategory},
	"lesson":          {"add|delete a lesson from a YAML file", cmdLesson},
	"exam":            {"add|delete an exam from a YAML file", cmdExam},
	"section":         {"replace the markdown content of a lesson section", cmdSection},
	"upload":          {"upload a file and print its reference", cmdUpload},
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pixelsinav <command> [flags]")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(os.Stderr, "  %-16s %s\n", n, commands[n].summary)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, found := commands[os.Args[1]]
	if !found {
		usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err = cmd.run(ctx, a, os.Args[2:])
	a.close()
	if err == nil {
		return
	}
	// form errors were already shown as notifications
	if _, isForm := form.AsError(err); !isForm && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "pixelsinav:", err)
	}
	if form.IsKind(err, form.KindAuth) {
		fmt.Fprintln(os.Stderr, "run: pixelsinav login")
	}
	os.Exit(1)
}
