package pipeline_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/form"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
)

type recorder struct {
	steps []string
}

func (r *recorder) Emit(unit pipeline.Unit) error {
	switch unit.Kind {
	case pipeline.UnitErrors:
		r.steps = append(r.steps, "errors:"+strings.Join(form.Strings(unit.Errors), ","))
	case pipeline.UnitGroupBegin, pipeline.UnitGroupEnd:
		r.steps = append(r.steps, unit.Kind.String()+":"+unit.Group.Group.Name)
	case pipeline.UnitControl:
		step := "control:" + unit.Control.Name + "@" + unit.Template
		if unit.PrependButton != nil {
			step += "<" + unit.PrependButton.Name
		}
		if unit.AppendButton != nil {
			step += ">" + unit.AppendButton.Name
		}
		r.steps = append(r.steps, step)
	case pipeline.UnitButtons:
		names := make([]string, 0, len(unit.Buttons))
		for _, button := range unit.Buttons {
			names = append(names, button.Name)
		}
		r.steps = append(r.steps, "buttons:"+strings.Join(names, ","))
	default:
		r.steps = append(r.steps, unit.Kind.String())
	}
	return nil
}

type countingTranslator struct {
	calls map[string]int
}

func (t *countingTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if t.calls == nil {
		t.calls = make(map[string]int)
	}
	t.calls[key]++
	return strings.ToUpper(key), nil
}

func groupedForm(t *testing.T) *form.Form {
	t.Helper()
	f := form.New("groups")
	a := f.MustAdd("a", form.Plain("A"), form.TextInput{})
	b := f.MustAdd("b", form.Plain("B"), form.TextInput{})
	c := f.MustAdd("c", form.Plain("C"), form.TextInput{})
	for _, pair := range []struct {
		name    string
		control *form.Control
	}{{"A", a}, {"B", b}, {"C", c}} {
		group, err := f.AddGroup(pair.name, form.GroupOptions{Visual: true, Label: form.Plain(pair.name)})
		if err != nil {
			t.Fatalf("add group: %v", err)
		}
		group.Add(pair.control)
	}
	return f
}

func TestRun_PriorGroupsComeFirst(t *testing.T) {
	f := groupedForm(t)
	p := pipeline.New(pipeline.WithPriorGroups(pipeline.ByName("B"), pipeline.ByName("A")))

	rec := &recorder{}
	if _, err := p.Run(f, rec, pipeline.RunOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{
		"begin",
		"group-begin:B", "control:b@text-input", "group-end:B",
		"group-begin:A", "control:a@text-input", "group-end:A",
		"group-begin:C", "control:c@text-input", "group-end:C",
		"end",
	}
	if diff := cmp.Diff(want, rec.steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_PriorGroupByIdentityAndDuplicates(t *testing.T) {
	f := groupedForm(t)
	c, _ := f.Group("C")
	p := pipeline.New()

	rec := &recorder{}
	_, err := p.Run(f, rec, pipeline.RunOptions{
		PriorGroups: []pipeline.GroupRef{pipeline.ByGroup(c), pipeline.ByName("C")},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var groups []string
	for _, step := range rec.steps {
		if strings.HasPrefix(step, "group-begin:") {
			groups = append(groups, strings.TrimPrefix(step, "group-begin:"))
		}
	}
	if diff := cmp.Diff([]string{"C", "A", "B"}, groups); diff != "" {
		t.Fatalf("group order mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_MissingPriorGroupEmitsNothing(t *testing.T) {
	f := groupedForm(t)
	p := pipeline.New(pipeline.WithPriorGroups(pipeline.ByName("A"), pipeline.ByName("missing")))

	rec := &recorder{}
	pass, err := p.Run(f, rec, pipeline.RunOptions{})
	if !errors.Is(err, pipeline.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	var cfgErr *pipeline.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Group != "missing" {
		t.Fatalf("expected ConfigError for missing, got %#v", err)
	}
	if pass != nil {
		t.Fatalf("expected no pass on config error")
	}
	if len(rec.steps) != 0 {
		t.Fatalf("expected zero emitted units, got %v", rec.steps)
	}
}

func TestRun_ButtonsAreBatched(t *testing.T) {
	f := form.New("batch")
	f.MustAdd("text1", form.Plain("Text 1"), form.TextInput{})
	f.MustAdd("submit1", form.Plain(""), form.SubmitButton{Caption: "Save"})
	f.MustAdd("submit2", form.Plain(""), form.SubmitButton{Caption: "Cancel"})
	f.MustAdd("text2", form.Plain("Text 2"), form.TextInput{})
	f.MustAdd("reset", form.Plain(""), form.Button{Caption: "Reset"})

	rec := &recorder{}
	pass, err := pipeline.New().Run(f, rec, pipeline.RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{
		"begin",
		"control:text1@text-input",
		"buttons:submit1,submit2",
		"control:text2@text-input",
		"buttons:reset",
		"end",
	}
	if diff := cmp.Diff(want, rec.steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	for _, control := range f.Controls() {
		if !pass.Rendered(control) {
			t.Fatalf("control %q not rendered after pass", control.Name)
		}
	}
}

func TestRun_ErrorsSubtractControlMessages(t *testing.T) {
	f := form.New("errs")
	name := f.MustAdd("name", form.Plain("Name"), form.TextInput{})
	f.AddError(form.Plain("required"))
	f.AddError(form.Plain("too long"))
	name.AddError(form.Plain("too long"))

	got := pipeline.CollectErrors(f, false, "", nil)
	if diff := cmp.Diff([]string{"required"}, form.Strings(got)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	global := pipeline.CollectErrors(f, true, "", nil)
	if diff := cmp.Diff([]string{"required", "too long"}, form.Strings(global)); diff != "" {
		t.Fatalf("global errors mismatch (-want +got):\n%s", diff)
	}

	f.Translator = &countingTranslator{}
	translated := pipeline.CollectErrors(f, false, "cs", nil)
	if diff := cmp.Diff([]string{"REQUIRED"}, form.Strings(translated)); diff != "" {
		t.Fatalf("translated errors mismatch (-want +got):\n%s", diff)
	}

	rec := &recorder{}
	f.Translator = nil
	if _, err := pipeline.New().Run(f, rec, pipeline.RunOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if rec.steps[1] != "errors:required" {
		t.Fatalf("expected errors unit after begin, got %v", rec.steps)
	}
}

func TestRun_NoErrorsUnitWhenEmpty(t *testing.T) {
	f := form.New("clean")
	f.MustAdd("name", form.Plain("Name"), form.TextInput{})
	rec := &recorder{}
	if _, err := pipeline.New().Run(f, rec, pipeline.RunOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"begin", "control:name@text-input", "end"}
	if diff := cmp.Diff(want, rec.steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_GroupBodyExcludesSubmittersAndHidden(t *testing.T) {
	f := form.New("body")
	name := f.MustAdd("name", form.Plain("Name"), form.TextInput{})
	token := f.MustAdd("token", form.Plain(""), form.HiddenField{})
	save := f.MustAdd("save", form.Plain(""), form.SubmitButton{Caption: "Save"})
	cancel := f.MustAdd("cancel", form.Plain(""), form.Button{Caption: "Cancel"})
	group, _ := f.AddGroup("main", form.GroupOptions{Visual: true})
	group.Add(name, token, save, cancel)
	hiddenGroup, _ := f.AddGroup("bundle", form.GroupOptions{})
	hiddenGroup.Add(name)
	_, _ = f.AddGroup("empty", form.GroupOptions{Visual: true})

	rec := &recorder{}
	pass, err := pipeline.New().Run(f, rec, pipeline.RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{
		"begin",
		"group-begin:main",
		"control:name@text-input",
		"buttons:cancel",
		"group-end:main",
		"control:token@hidden-field",
		"buttons:save",
		"end",
	}
	if diff := cmp.Diff(want, rec.steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	if pass.Len() != 4 {
		t.Fatalf("expected 4 rendered controls, got %d", pass.Len())
	}
}

func TestRun_EachControlEmittedOnce(t *testing.T) {
	f := form.New("shared")
	shared := f.MustAdd("shared", form.Plain("Shared"), form.TextInput{})
	g1, _ := f.AddGroup("one", form.GroupOptions{Visual: true})
	g2, _ := f.AddGroup("two", form.GroupOptions{Visual: true})
	g1.Add(shared)
	g2.Add(shared)

	rec := &recorder{}
	if _, err := pipeline.New().Run(f, rec, pipeline.RunOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	count := 0
	for _, step := range rec.steps {
		if step == "control:shared@text-input" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one emission, got %d in %v", count, rec.steps)
	}

	rec = &recorder{}
	if _, err := pipeline.New().Run(f, rec, pipeline.RunOptions{}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(rec.steps) == 0 || rec.steps[len(rec.steps)-1] != "end" {
		t.Fatalf("second pass should render again from scratch, got %v", rec.steps)
	}
}

func TestRun_TemplateOverrideAndForeignControls(t *testing.T) {
	f := form.New("override")
	custom := f.MustAdd("custom", form.Plain("Custom"), form.TextArea{})
	custom.Options.Template = "controls/wysiwyg"
	f.MustAdd("plain", form.Plain("Plain"), form.TextArea{})

	other := form.New("other")
	stray := other.MustAdd("stray", form.Plain("Stray"), form.TextInput{})
	group, _ := f.AddGroup("main", form.GroupOptions{Visual: true})
	group.Add(stray, custom)

	rec := &recorder{}
	if _, err := pipeline.New().Run(f, rec, pipeline.RunOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{
		"begin",
		"group-begin:main",
		"control:custom@controls/wysiwyg",
		"group-end:main",
		"control:plain@text-area",
		"end",
	}
	if diff := cmp.Diff(want, rec.steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_CompanionButtonsRenderInline(t *testing.T) {
	f := form.New("companions")
	f.MustAdd("go", form.Plain(""), form.SubmitButton{Caption: "Go"})
	query := f.MustAdd("query", form.Plain("Query"), form.TextInput{Type: form.InputSearch})
	query.Options.AppendButton = "go"
	f.MustAdd("save", form.Plain(""), form.SubmitButton{Caption: "Save"})

	rec := &recorder{}
	if _, err := pipeline.New().Run(f, rec, pipeline.RunOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"begin", "control:query@text-input>go", "buttons:save", "end"}
	if diff := cmp.Diff(want, rec.steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_SinkErrorStopsEmission(t *testing.T) {
	f := form.New("sinkerr")
	f.MustAdd("a", form.Plain("A"), form.TextInput{})
	f.MustAdd("b", form.Plain("B"), form.TextInput{})

	boom := errors.New("boom")
	calls := 0
	sink := pipeline.SinkFunc(func(unit pipeline.Unit) error {
		calls++
		if unit.Kind == pipeline.UnitControl {
			return boom
		}
		return nil
	})
	pass, err := pipeline.New().Run(f, sink, pipeline.RunOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if calls != 2 || pass.Len() != 0 {
		t.Fatalf("expected emission to stop at first control, calls=%d rendered=%d", calls, pass.Len())
	}
}

func TestPlan_RecordsSteps(t *testing.T) {
	f := groupedForm(t)
	f.MustAdd("save", form.Plain("Save"), form.SubmitButton{})
	p := pipeline.New(pipeline.WithPriorGroups(pipeline.ByName("C")))

	steps, err := p.Plan(f, pipeline.RunOptions{})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	got := make([]string, 0, len(steps))
	for _, step := range steps {
		got = append(got, step.String())
	}
	want := []string{
		"begin",
		"group-begin:C", "control:c", "group-end:C",
		"group-begin:A", "control:a", "group-end:A",
		"group-begin:B", "control:b", "group-end:B",
		"buttons:save",
		"end",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_UnknownGroup(t *testing.T) {
	f := groupedForm(t)
	steps, err := pipeline.New().Plan(f, pipeline.RunOptions{PriorGroups: pipeline.Names("missing")})
	if !errors.Is(err, pipeline.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	if steps != nil {
		t.Fatalf("expected no steps, got %v", steps)
	}
}
