package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/fee"
	"github.com/user/tcas-fee-crawler/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"display": func(t entity.Text, field string) string { return t.Display(entity.Field(field)) },
	"baht":    fee.Format,
	"signedBaht": func(v float64) string {
		if v < 0 {
			return "-" + fee.Format(-v)
		}
		return "+" + fee.Format(v)
	},
}

type pages struct {
	byName map[string]*template.Template
}

func loadPages() *pages {
	p := &pages{byName: make(map[string]*template.Template)}
	for _, name := range []string{"overview", "institutions", "programs", "missing", "error"} {
		p.byName[name] = template.Must(
			template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"),
		)
	}
	return p
}

// layout is what templates/layout.html receives; page bodies see Data.
type layout struct {
	Page string
	Data any
}

type overviewPage struct {
	*usecase.OverviewView
	KeywordChart  chart
	TopChart      chart
	HistogramBars chart
}

type institutionPage struct {
	*usecase.InstitutionView
	Chart chart
}

type errorPage struct {
	Title   string
	Message string
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderStatus(w, r, http.StatusOK, name, data)
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages.byName[name].ExecuteTemplate(&buf, "layout", layout{Page: name, Data: data}); err != nil {
		h.logger.Error("failed to render page", zap.String("page", name), zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write page", zap.String("page", name), zap.Error(err))
	}
}

// renderError shows a blocking message instead of any partial view.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	page := errorPage{Title: "Data unavailable", Message: err.Error()}
	if status == http.StatusInternalServerError {
		h.logger.Error("view failed", zap.String("path", r.URL.Path), zap.Error(err))
		page = errorPage{Title: "Something went wrong", Message: "The page could not be built. Check the server logs."}
	}
	h.renderStatus(w, r, status, "error", page)
}
