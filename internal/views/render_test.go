package views

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/model"
)

func TestLoadTemplates_success(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates() = %v; want nil", err)
	}
	if formTmpl == nil {
		t.Fatal("LoadTemplates() left formTmpl nil")
	}
}

func TestLoadTemplates_failure_sub(t *testing.T) {
	saved := formTmpl
	defer func() { formTmpl = saved }()

	if err := loadTemplatesFromFS(fstest.MapFS{}, "templates"); err == nil {
		t.Fatal("loadTemplatesFromFS(emptyFS) = nil; want error")
	}
}

func TestLoadTemplates_failure_parse(t *testing.T) {
	saved := formTmpl
	defer func() { formTmpl = saved }()

	badFS := fstest.MapFS{
		"templates/form.html": {Data: []byte("{{ .")},
	}
	if err := loadTemplatesFromFS(badFS, "templates"); err == nil {
		t.Fatal("loadTemplatesFromFS(badFS) = nil; want error")
	}
}

func TestRenderForm_notLoaded(t *testing.T) {
	saved := formTmpl
	formTmpl = nil
	defer func() { formTmpl = saved }()

	if err := RenderForm(&bytes.Buffer{}, FormPageData{}); err == nil {
		t.Fatal("RenderForm with nil template = nil; want error")
	}
}

func TestRenderForm_empty(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := RenderForm(&buf, FormPageData{Country: "India", Form: DefaultFormValues()}); err != nil {
		t.Fatalf("RenderForm() = %v", err)
	}
	out := buf.String()
	for _, want := range []string{`name="postal_code"`, `max="100"`, `max="30.0"`, `max="10.0"`, `value="2.5"`, "Pincode (India)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered form missing %q", want)
		}
	}
	if strings.Contains(out, `class="error"`) || strings.Contains(out, `class="success"`) {
		t.Error("Empty form should render neither banner nor result")
	}
}

func TestRenderForm_error(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	data := FormPageData{Form: FormValues{PostalCode: "<b>"}, Error: "invalid postal code"}
	if err := RenderForm(&buf, data); err != nil {
		t.Fatalf("RenderForm() = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Error: invalid postal code") {
		t.Error("Expected error banner")
	}
	if strings.Contains(out, `value="<b>"`) {
		t.Error("Expected postal code to be escaped")
	}
}

func TestRenderForm_result(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	data := FormPageData{
		Form: DefaultFormValues(),
		Result: &model.CalculationResult{
			OptimalTemp:     23.2999999,
			CurrentTemp:     31.4,
			CurrentHumidity: 62,
			Location:        "New Delhi, Delhi 110001, India",
			Room:            model.Room{Occupants: 30, Length: 10, Width: 8, Height: 2.5},
			RoomVolume:      200,
		},
	}
	if err := RenderForm(&buf, data); err != nil {
		t.Fatalf("RenderForm() = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Optimal AC Temperature: 23.3°C",
		"New Delhi, Delhi 110001, India",
		"31.4°C",
		"62%",
		"Number of Students:</strong> 30",
		"200.00 m³",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered result missing %q", want)
		}
	}
}
