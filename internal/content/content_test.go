package content

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Matematik":             "matematik",
		"Türkçe Dil Bilgisi":    "turkce-dil-bilgisi",
		"IŞIK ve Görünür Dünya": "isik-ve-gorunur-dunya",
		"  Fizik -- 101  ":      "fizik-101",
		"Café & Crème":          "cafe-creme",
		"İstanbul'un Tarihi!":   "istanbul-un-tarihi",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func validExam() Exam {
	opts := func() []Option {
		return []Option{{Text: "a", IsCorrect: true}, {Text: "b"}, {Text: "c"}}
	}
	return Exam{
		Title: "Kesirler Sınavı", Description: "Kesirler üzerine kısa sınav", Duration: 30,
		Questions: []Question{{Text: "1/2 + 1/2 = ?", Points: 100, Options: opts()}, {Text: "?", Points: 50, Options: opts()}},
	}
}

func TestExamValidate(t *testing.T) {
	if err := validExam().Validate(); err != nil {
		t.Fatal(err)
	}
	over := validExam()
	over.Questions[1].Points = 51
	if err := over.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("151 points should be rejected, got %v", err)
	}
	twoCorrect := validExam()
	twoCorrect.Questions[0].Options[1].IsCorrect = true
	if err := twoCorrect.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatal("two correct options should be rejected")
	}
	fewOptions := validExam()
	fewOptions.Questions[0].Options = fewOptions.Questions[0].Options[:2]
	if err := fewOptions.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatal("two options should be rejected")
	}
}

func TestLessonValidate(t *testing.T) {
	l := Lesson{Title: "Kesirler", Description: "Kesirlere giriş dersi", Sections: []Section{{Title: "Giriş", XPPoints: 3000}, {Title: "Özet", XPPoints: 2000}}}
	if err := l.Validate(); err != nil {
		t.Fatal(err)
	}
	l.Sections[1].XPPoints = 2001
	if err := l.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatal("5001 XP should be rejected")
	}
	l.Sections = nil
	if err := l.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatal("a lesson without sections should be rejected")
	}
}

func TestCategoryValidate(t *testing.T) {
	c := Category{Name: "Matematik", Slug: "matematik", Color: CategoryColors[0], Status: "active", DisplayOrder: 1}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	c.Slug = "Matematik"
	if err := c.Validate(); err == nil {
		t.Fatal("unnormalized slug should be rejected")
	}
}

func TestApplicationValidate(t *testing.T) {
	a := TeacherApplication{
		FullName: "Ayşe Yılmaz", Email: "ayse@example.com", Education: "Lisans",
		Experience: "Beş yıl lise matematik", Expertise: "Analitik geometri",
		CV: &FileRef{Name: "cv.DOCX", Key: "k"},
	}
	if err := a.Validate(); err != nil {
		t.Fatal(err)
	}
	a.CV.Name = "cv.png"
	if err := a.Validate(); err == nil {
		t.Fatal("png cv should be rejected")
	}
}

func TestPrivacyValidate(t *testing.T) {
	if err := DefaultPrivacy().Validate(); err != nil {
		t.Fatal(err)
	}
	if err := (Privacy{ProfileVisibility: "everyone", OnlineStatus: "public", StatsSharing: "public"}).Validate(); err == nil {
		t.Fatal("unknown visibility should be rejected")
	}
}
