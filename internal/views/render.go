package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"

	"github.com/fakhrymubarak/ac-temp-advisor/internal/model"
)

//go:embed templates/*.html
var viewsFS embed.FS

var formTmpl *template.Template

// loadTemplatesFromFS parses the page templates from fsys/dir. Tests use it
// to simulate broken template sets.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.ParseFS(sub, "form.html")
	if err != nil {
		return err
	}
	formTmpl = tmpl
	return nil
}

// LoadTemplates parses the embedded templates. Call it once at startup.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// FormValues are echoed back into the inputs so a failed submission keeps them.
type FormValues struct {
	PostalCode string
	Occupants  string
	Length     string
	Width      string
	Height     string
}

// DefaultFormValues are the initial widget values of an empty form.
func DefaultFormValues() FormValues {
	return FormValues{
		Occupants: "30",
		Length:    "10.0",
		Width:     "8.0",
		Height:    "2.5",
	}
}

type FormPageData struct {
	Country string
	Form    FormValues
	Error   string
	Result  *model.CalculationResult
}

func RenderForm(w io.Writer, data FormPageData) error {
	if formTmpl == nil {
		return errors.New("templates not loaded")
	}
	return formTmpl.ExecuteTemplate(w, "form.html", data)
}
