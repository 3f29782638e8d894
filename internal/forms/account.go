package forms

import (
	"net/http"

	"golang.org/x/text/message"

	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/form"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

var profileFields = []string{"fullName", "email", "phone", "location", "about"}

// ProfileFetch is the request that loads the signed-in user's record.
func ProfileFetch() form.Request {
	return form.Request{Method: http.MethodPost, Path: "/api/auth/findOneById"}
}

// Profile edits the account details. Seed it with the fetched user record.
func Profile(p *message.Printer) Form {
	def := form.Definition{
		Spec: form.Spec{
			Name:    "profile",
			Method:  http.MethodPut,
			Path:    "/api/auth/update",
			Auth:    true,
			Payload: func(d *form.Draft) any { return pick(d, profileFields...) },
			Success: p.Sprintf(i18n.ProfileSuccess),
		},
		Rules: []form.Rule{
			required(p, "fullName", i18n.LabelFullName),
			required(p, "email", i18n.LabelEmail),
			between(p, "fullName", i18n.LabelFullName, 2, 100),
			atMost(p, "location", i18n.LabelLocation, 100),
			atMost(p, "about", i18n.LabelAbout, 500),
			form.Email("email", p.Sprintf(i18n.EmailInvalid)),
			form.Phone("phone", p.Sprintf(i18n.PhoneInvalid)),
		},
	}
	seed := form.Of(
		form.F("fullName", ""), form.F("email", ""), form.F("phone", ""),
		form.F("location", ""), form.F("about", ""),
	)
	return Form{Definition: def, Seed: seed, Autosave: true}
}

// ProfileSeed maps a fetched user record onto the profile fields.
func ProfileSeed(user *form.Draft) *form.Draft {
	name := user.String("fullName")
	if name == "" {
		name = user.String("name")
	}
	return form.Of(
		form.F("fullName", name), form.F("email", user.String("email")), form.F("phone", user.String("phone")),
		form.F("location", user.String("location")), form.F("about", user.String("about")),
	)
}

var privacyFields = []string{"profileVisibility", "onlineStatus", "statsSharing"}

func Privacy(p *message.Printer) Form {
	def := form.Definition{
		Spec: form.Spec{
			Name:         "privacy",
			Method:       http.MethodPut,
			Path:         "/api/auth/update",
			Auth:         true,
			IgnoreEntity: true,
			Payload: func(d *form.Draft) any {
				return form.Of(form.F("privacy", pick(d, privacyFields...)))
			},
			Success: p.Sprintf(i18n.PrivacySuccess),
		},
		Rules: []form.Rule{
			required(p, "profileVisibility", i18n.LabelProfileVisibility),
			required(p, "onlineStatus", i18n.LabelOnlineStatus),
			required(p, "statsSharing", i18n.LabelStatsSharing),
			oneOf(p, "profileVisibility", i18n.LabelProfileVisibility, content.Visibilities),
			oneOf(p, "onlineStatus", i18n.LabelOnlineStatus, content.Visibilities),
			oneOf(p, "statsSharing", i18n.LabelStatsSharing, content.Visibilities),
		},
	}
	return Form{Definition: def, Seed: privacySeed(content.DefaultPrivacy())}
}

func privacySeed(pr content.Privacy) *form.Draft {
	return form.Of(
		form.F("profileVisibility", pr.ProfileVisibility),
		form.F("onlineStatus", pr.OnlineStatus),
		form.F("statsSharing", pr.StatsSharing),
	)
}

// PrivacySeed takes the nested privacy object of a fetched user record, falling back to defaults.
func PrivacySeed(user *form.Draft) *form.Draft {
	pr := content.DefaultPrivacy()
	v, _ := user.Get("privacy")
	nested, ok := v.(*form.Draft)
	if !ok {
		return privacySeed(pr)
	}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"profileVisibility", &pr.ProfileVisibility},
		{"onlineStatus", &pr.OnlineStatus},
		{"statsSharing", &pr.StatsSharing},
	} {
		if s := nested.String(f.name); s != "" {
			*f.dst = s
		}
	}
	return privacySeed(pr)
}

func TeacherApplication(p *message.Printer) Form {
	def := form.Definition{
		Spec: form.Spec{
			Name:           "teacher-application",
			Method:         http.MethodPost,
			Path:           "/api/" + content.CollectionApplications,
			Auth:           true,
			ResetOnSuccess: true,
			IgnoreEntity:   true,
			Success:        p.Sprintf(i18n.ApplicationSuccess),
			Conflict:       p.Sprintf(i18n.ApplicationExists),
		},
		Rules: []form.Rule{
			required(p, "fullName", i18n.LabelFullName),
			required(p, "email", i18n.LabelEmail),
			required(p, "phone", i18n.LabelPhone),
			required(p, "education", i18n.LabelEducation),
			required(p, "experience", i18n.LabelExperience),
			required(p, "expertise", i18n.LabelExpertise),
			required(p, "cv", i18n.LabelCV),
			between(p, "fullName", i18n.LabelFullName, 2, 100),
			between(p, "experience", i18n.LabelExperience, 10, 2000),
			between(p, "expertise", i18n.LabelExpertise, 10, 2000),
			form.Count("certificates", 0, content.MaxCertificates,
				p.Sprintf(i18n.CountMax, content.MaxCertificates, label(p, i18n.LabelCertificates))),
			form.Email("email", p.Sprintf(i18n.EmailInvalid)),
			form.Phone("phone", p.Sprintf(i18n.PhoneInvalid)),
			form.FileExt("cv", content.CVExtensions, p.Sprintf(i18n.FileType, label(p, i18n.LabelCV), "PDF/DOC/DOCX")),
		},
	}
	seed := form.Of(
		form.F("fullName", ""), form.F("email", ""), form.F("phone", ""),
		form.F("education", ""), form.F("experience", ""), form.F("expertise", ""),
		form.F("certificates", []any{}),
	)
	return Form{Definition: def, Seed: seed, Autosave: true}
}
