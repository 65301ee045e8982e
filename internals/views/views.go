// Package views holds the server-rendered pages, embedded into the binary.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
	"gorm.io/datatypes"

	jobModel "kizuna_web/internals/features/content/jobs/model"
	helper "kizuna_web/internals/helpers"
)

//go:embed templates
var templatesFS embed.FS

var tokyo = loadTokyo()

func loadTokyo() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// NewEngine builds the html/template engine. Templates are addressed by
// path without extension, e.g. "site/events" with layout "layouts/site".
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(Funcs())
	return engine
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"jpDate": func(d datatypes.Date) string {
			return time.Time(d).Format("2006年01月02日")
		},
		"isoDate": helper.FormatDate,
		"jpTime": func(t time.Time) string {
			return t.In(tokyo).Format("2006/01/02 15:04")
		},
		"newsBody": helper.RenderNewsBody,
		"employmentLabel": func(v *string) string {
			if v == nil {
				return ""
			}
			return jobModel.EmploymentLabel(*v)
		},
		"deref": helper.Deref,
		"isSel": func(v *string, want string) bool {
			return v != nil && *v == want
		},
		"isTrue": func(b *bool) bool { return b != nil && *b },
		"megabytes": func(n int64) string {
			return fmt.Sprintf("%dMB", n>>20)
		},
	}
}

// Location is the display time zone for the site.
func Location() *time.Location { return tokyo }
