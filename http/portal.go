package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/programme-lv/grievance/grievance"
	"github.com/programme-lv/grievance/logger"
)

//go:embed templates/portal.html
var templateFS embed.FS

var portalTemplate = template.Must(template.ParseFS(templateFS, "templates/portal.html"))

type portalView struct {
	Count        int
	Draft        grievance.Draft
	Fields       grievance.FieldErrors
	Notification *grievance.Notification
	Severities   []grievance.SeverityOption
	MaxLength    int
}

func (httpserver *HttpServer) showPortal(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	httpserver.renderPortal(w, r, http.StatusOK, portalView{
		Count:        sess.Count(),
		Draft:        sess.Draft(),
		Notification: sess.TakeNotification(),
	})
}

// submitPortal handles the HTML form. Invalid drafts are re-rendered with
// their field errors; every completed attempt redirects back to the page,
// which then shows the notification.
func (httpserver *HttpServer) submitPortal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	sess := sessionFromContext(r.Context())
	draft := grievance.Draft{
		Grievance: r.PostForm.Get(grievance.FieldGrievance),
		Severity:  grievance.Severity(r.PostForm.Get(grievance.FieldSeverity)),
		Date:      r.PostForm.Get(grievance.FieldDate),
	}

	out := httpserver.workflow.SubmitDraft(r.Context(), sess, draft)
	if out.Status == grievance.OutcomeInvalid {
		httpserver.renderPortal(w, r, http.StatusUnprocessableEntity, portalView{
			Count:  out.Count,
			Draft:  draft,
			Fields: out.Fields,
		})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (httpserver *HttpServer) renderPortal(w http.ResponseWriter, r *http.Request, status int, view portalView) {
	view.Severities = grievance.Severities()
	view.MaxLength = grievance.MaxGrievanceLength

	var buf bytes.Buffer
	if err := httpserver.portal.Execute(&buf, view); err != nil {
		logger.FromContext(r.Context()).Error("failed to render portal", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
