package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/programme-lv/grievance/srvcerror"
)

type JsonResponse struct {
	Status  string              `json:"status"` // "success" or "error"
	Data    any                 `json:"data,omitempty"`
	ErrCode string              `json:"code,omitempty"`
	ErrMsg  string              `json:"message,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func WriteSuccessJson(w http.ResponseWriter, data any) {
	writeJson(w, http.StatusOK, JsonResponse{
		Status: "success",
		Data:   data,
	})
}

func WriteErrorJson(w http.ResponseWriter, errMsg string, statusCode int, errCode string) {
	writeJson(w, statusCode, JsonResponse{
		Status:  "error",
		ErrMsg:  errMsg,
		ErrCode: errCode,
	})
}

func writeJson(w http.ResponseWriter, statusCode int, resp JsonResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}

// HandleError writes err as an error envelope. Service errors keep their
// code, status and field messages; anything else becomes a 500.
func HandleError(logger *slog.Logger, w http.ResponseWriter, err error) {
	srvcErr := &srvcerror.Error{}
	if !errors.As(err, &srvcErr) {
		logger.Error("internal server error", "error", err)
		srvcErr = srvcerror.ErrInternal()
	} else if srvcErr.HttpStatusCode() >= http.StatusInternalServerError {
		logger.Error("service error", "error", srvcErr)
	} else {
		logger.Warn("service error", "error", srvcErr)
	}

	writeJson(w, srvcErr.HttpStatusCode(), JsonResponse{
		Status:  "error",
		ErrMsg:  srvcErr.Error(),
		ErrCode: srvcErr.ErrorCode(),
		Fields:  srvcErr.Fields(),
	})
}
