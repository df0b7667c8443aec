package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render"
)

func newPayloadForm(t *testing.T) *form.Form {
	t.Helper()
	f := form.New("profile")
	f.MustAdd("name", form.Plain("Name"), form.TextInput{})
	f.MustAdd("owner.email", form.Plain("Owner e-mail"), form.TextInput{Type: form.InputEmail})
	f.MustAdd("tags", form.Plain("Tags"), form.CheckboxList{})
	return f
}

func TestMapErrorPayload_NormalisesPaths(t *testing.T) {
	f := newPayloadForm(t)

	payload := map[string][]string{
		"/body/name":        {"Name is required", " Name is required "},
		"body.owner.email":  {"Email invalid"},
		"$.body.tags[0]":    {"Tags must be unique"},
		"non_field_errors":  {"Form level error"},
		"/unknown/property": {"Lost field"},
		"ignored":           {"   "},
	}

	got := render.MapErrorPayload(f, payload)
	want := render.ErrorMapping{
		Fields: map[string][]string{
			"name":        {"Name is required"},
			"owner.email": {"Email invalid"},
			"tags":        {"Tags must be unique"},
		},
		Form: []string{"Lost field", "Form level error"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyErrorPayload_AttachesMessages(t *testing.T) {
	f := newPayloadForm(t)

	render.ApplyErrorPayload(f, map[string][]string{
		"name": {"required"},
		"form": {"Try again"},
	})

	name, _ := f.Control("name")
	if diff := cmp.Diff([]string{"required"}, form.Strings(name.Errors())); diff != "" {
		t.Fatalf("control errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Try again"}, form.Strings(f.OwnErrors())); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_LastSegmentAndWrappers(t *testing.T) {
	f := newPayloadForm(t)

	got := render.MapErrorPayload(f, map[string][]string{
		"/data/attributes/user/name": {"too short"},
		"__all__":                    {"Stale form", "Stale form"},
	})
	want := render.ErrorMapping{
		Fields: map[string][]string{"name": {"too short"}},
		Form:   []string{"Stale form"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	got := render.MapErrorPayload(newPayloadForm(t), nil)
	if diff := cmp.Diff(render.ErrorMapping{}, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}
