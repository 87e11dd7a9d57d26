package http

import (
	"encoding/json"
	"net/http"

	"github.com/programme-lv/grievance/grievance"
	"github.com/programme-lv/grievance/httpjson"
	"github.com/programme-lv/grievance/logger"
)

type draftJson struct {
	Grievance string `json:"grievance"`
	Severity  string `json:"severity"`
	Date      string `json:"date"`
}

func (d draftJson) toDraft() grievance.Draft {
	return grievance.Draft{
		Grievance: d.Grievance,
		Severity:  grievance.Severity(d.Severity),
		Date:      d.Date,
	}
}

func fromDraft(d grievance.Draft) draftJson {
	return draftJson{
		Grievance: d.Grievance,
		Severity:  string(d.Severity),
		Date:      d.Date,
	}
}

func (httpserver *HttpServer) getSession(w http.ResponseWriter, r *http.Request) {
	type sessionResponse struct {
		Count int       `json:"count"`
		Draft draftJson `json:"draft"`
	}

	sess := sessionFromContext(r.Context())
	httpjson.WriteSuccessJson(w, sessionResponse{
		Count: sess.Count(),
		Draft: fromDraft(sess.Draft()),
	})
}

func (httpserver *HttpServer) validateDraft(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var request draftJson
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpjson.HandleError(log, w, grievance.NewErrInvalidRequest(err))
		return
	}

	sub, fields := grievance.Validate(request.toDraft())
	if err := fields.Err(); err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, draftJson{
		Grievance: sub.Grievance,
		Severity:  string(sub.Severity),
		Date:      sub.Date,
	})
}

func (httpserver *HttpServer) createGrievance(w http.ResponseWriter, r *http.Request) {
	type createResponse struct {
		AttemptID    string                  `json:"attemptId"`
		Count        int                     `json:"count"`
		Notification *grievance.Notification `json:"notification"`
	}

	log := logger.FromContext(r.Context())

	var request draftJson
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpjson.HandleError(log, w, grievance.NewErrInvalidRequest(err))
		return
	}

	sess := sessionFromContext(r.Context())
	out := httpserver.workflow.SubmitDraft(r.Context(), sess, request.toDraft())
	// the caller gets the notification in this response
	sess.TakeNotification()

	if err := out.Err(); err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, createResponse{
		AttemptID:    out.AttemptID.String(),
		Count:        out.Count,
		Notification: out.Notification,
	})
}
