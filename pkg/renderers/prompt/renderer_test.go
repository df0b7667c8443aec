package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
	"github.com/goliatone/go-formrender/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	selects      []SelectConfig
	inputErr     error
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	passPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func signupDriver() *stubDriver {
	return &stubDriver{
		inputs:    []string{"not-an-email", "me@example.com", "Ann"},
		passwords: []string{"s3cret"},
		selectIdx: []int{1, 0},
		confirm:   []bool{true},
		textAreas: []string{"hi"},
	}
}

func TestRender_SignupJSON(t *testing.T) {
	driver := signupDriver()
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), testsupport.SignupForm(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"email":      "me@example.com",
		"password":   "s3cret",
		"name":       "Ann",
		"gender":     "m",
		"newsletter": true,
		"note":       "hi",
		"token":      "t0k3n",
		"save":       "Save",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if driver.inputPos != 3 {
		t.Fatalf("expected the invalid e-mail to be asked again, inputs consumed: %d", driver.inputPos)
	}
	wantInfo := []string{"signup", "Account", "E-mail must be an e-mail address", "Profile"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}

	buttons := driver.selects[len(driver.selects)-1]
	if diff := cmp.Diff([]string{"Save", "Reset"}, buttons.Options); diff != "" {
		t.Fatalf("button choice mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_FormEncodedAndPretty(t *testing.T) {
	r, err := New(WithPromptDriver(signupDriver()), WithOutputFormat(OutputFormatFormURLEncoded))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("content type: %q", r.ContentType())
	}
	out, err := r.Render(context.Background(), testsupport.SignupForm(t), render.RenderOptions{Method: "PUT"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	values, err := url.ParseQuery(string(out))
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if values.Get("newsletter") != "1" || values.Get("gender") != "m" || values.Get("_method") != "PUT" {
		t.Fatalf("unexpected values: %v", values)
	}

	pretty, err := New(WithPromptDriver(signupDriver()), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err = pretty.Render(context.Background(), testsupport.SignupForm(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "me@example.com") || !strings.Contains(string(out), "newsletter") {
		t.Fatalf("pretty output missing values: %q", out)
	}
}

func TestRender_PrefilledDefaultsAndPriorGroups(t *testing.T) {
	driver := signupDriver()
	r, err := New(WithPromptDriver(driver), WithPriorGroups(pipeline.ByName("profile")))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	driver.inputs = []string{"Ann", "me@example.com"}

	_, err = r.Render(context.Background(), testsupport.SignupForm(t), render.RenderOptions{
		Values: map[string]any{"gender": "f"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if driver.selects[0].DefaultIndex != 0 {
		t.Fatalf("expected prefilled gender as default, got %d", driver.selects[0].DefaultIndex)
	}
	if diff := cmp.Diff([]string{"signup", "Profile", "Account"}, driver.infoMessages); diff != "" {
		t.Fatalf("group order mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_ConfigErrorAsksNothing(t *testing.T) {
	driver := signupDriver()
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = r.Render(context.Background(), testsupport.SignupForm(t), render.RenderOptions{PriorGroups: []string{"nope"}})
	if !errors.Is(err, pipeline.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	if len(driver.infoMessages) != 0 || driver.inputPos != 0 {
		t.Fatalf("expected no prompts before the configuration error")
	}
}

func TestRender_Aborted(t *testing.T) {
	driver := signupDriver()
	driver.inputErr = ErrAborted
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = r.Render(context.Background(), testsupport.SignupForm(t), render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRender_TooManyInvalidAnswers(t *testing.T) {
	driver := signupDriver()
	driver.inputs = []string{"x", "y"}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = r.Render(context.Background(), testsupport.SignupForm(t), render.RenderOptions{})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New(WithPromptDriver(&stubDriver{}), WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
