package testsupport

import (
	"testing"

	"github.com/goliatone/go-formrender/pkg/form"
)

// SignupForm builds a form exercising most control kinds:
//
//	account: email (required, email input), password
//	profile: name, gender (radio list), newsletter (checkbox)
//	ungrouped: note (textarea), token (hidden), save (submit), reset (button)
func SignupForm(t testing.TB) *form.Form {
	t.Helper()

	f := form.New("signup")
	f.Action = "/signup"

	email := f.MustAdd("email", form.Plain("E-mail"), form.TextInput{Type: form.InputEmail})
	email.Required = true
	password := f.MustAdd("password", form.Plain("Password"), form.TextInput{Type: form.InputPassword})
	name := f.MustAdd("name", form.Plain("Name"), form.TextInput{MaxLength: 40})
	gender := f.MustAdd("gender", form.Plain("Gender"), form.RadioList{Items: []form.Item{
		{Value: "f", Label: "Female"},
		{Value: "m", Label: "Male"},
	}})
	newsletter := f.MustAdd("newsletter", form.Plain("Newsletter"), form.Checkbox{Caption: "Send me news"})
	f.MustAdd("note", form.Plain("Note"), form.TextArea{Rows: 3})
	f.MustAdd("token", form.Text{}, form.HiddenField{}).Value = "t0k3n"
	f.MustAdd("save", form.Text{}, form.SubmitButton{Caption: "Save"})
	f.MustAdd("reset", form.Text{}, form.Button{Caption: "Reset"})

	account := mustGroup(t, f, "account", form.GroupOptions{Visual: true, Label: form.Plain("Account")})
	account.Add(email)
	account.Add(password)

	profile := mustGroup(t, f, "profile", form.GroupOptions{Visual: true, Label: form.Plain("Profile")})
	profile.Add(name)
	profile.Add(gender)
	profile.Add(newsletter)
	return f
}

func mustGroup(t testing.TB, f *form.Form, name string, opts form.GroupOptions) *form.Group {
	t.Helper()
	group, err := f.AddGroup(name, opts)
	if err != nil {
		t.Fatalf("add group %q: %v", name, err)
	}
	return group
}

// MapTranslator translates keys of the form "<locale>:<key>" and reports an
// error for anything else.
type MapTranslator map[string]string

func (m MapTranslator) Translate(locale, key string, _ ...any) (string, error) {
	if msg, ok := m[locale+":"+key]; ok {
		return msg, nil
	}
	return "", &MissingKeyError{Locale: locale, Key: key}
}

// MissingKeyError is returned by MapTranslator for unknown keys.
type MissingKeyError struct {
	Locale string
	Key    string
}

func (e *MissingKeyError) Error() string {
	return "testsupport: no translation for " + e.Locale + ":" + e.Key
}
