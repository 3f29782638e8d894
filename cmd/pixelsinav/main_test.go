package main

import (
	"flag"
	"testing"

	"github.com/pixelsinav/pixelsinav/internal/forms"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

func TestSetFlagsCopiesOnlyGivenFlags(t *testing.T) {
	p := i18n.NewPrinter("tr")
	s := forms.Profile(p).Open((&app{p: p}).deps())
	s.Store().Set("about", "eski")

	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	for name, field := range profileFlags {
		fs.String(name, "", field)
	}
	if err := fs.Parse([]string{"-full-name", "Ayşe Yılmaz", "-phone", ""}); err != nil {
		t.Fatal(err)
	}
	setFlags(fs, s.Store(), profileFlags)

	d := s.Store().Snapshot()
	if d.String("fullName") != "Ayşe Yılmaz" || d.String("about") != "eski" || d.String("phone") != "" {
		t.Fatalf("unexpected draft %v", d)
	}
}

func TestSubcommand(t *testing.T) {
	verb, rest, err := subcommand([]string{"delete", "-id", "x"})
	if err != nil || verb != "delete" || len(rest) != 2 {
		t.Fatalf("%q %v %v", verb, rest, err)
	}
	if _, _, err := subcommand([]string{"rename"}); err == nil {
		t.Fatal("unknown verb accepted")
	}
	if _, _, err := subcommand(nil); err == nil {
		t.Fatal("missing verb accepted")
	}
}
