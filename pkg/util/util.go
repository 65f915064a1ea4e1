package util

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/golang/glog"
	"github.com/munnerz/goautoneg"

	qferrors "github.com/hobbyfarm/quizfarm/pkg/errors"
)

const (
	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html"
)

type HTTPMessage struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func ReturnHTTPMessage(w http.ResponseWriter, r *http.Request, httpStatus int, messageType string, message string) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(httpStatus)

	msg := HTTPMessage{
		Status:  strconv.Itoa(httpStatus),
		Message: message,
		Type:    messageType,
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(msg)
}

type HTTPContent struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Content []byte `json:"content"`
}

func ReturnHTTPContent(w http.ResponseWriter, r *http.Request, httpStatus int, messageType string, content []byte) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(httpStatus)

	msg := HTTPContent{
		Status:  strconv.Itoa(httpStatus),
		Content: content,
		Type:    messageType,
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(msg)
}

type HTTPRedirect struct {
	Type     string `json:"type"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Location string `json:"location"`
}

// Flasher stores a one-shot notice for the next page a browser renders.
type Flasher interface {
	Flash(w http.ResponseWriter, r *http.Request, message string)
}

// WantsHTML reports whether the client prefers an HTML page over a JSON document.
// An absent or wildcard Accept header negotiates to JSON.
func WantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}
	return goautoneg.Negotiate(accept, []string{contentTypeJSON, contentTypeHTML}) == contentTypeHTML
}

// ReturnHTTPRedirect sends browsers a 303 to location with message kept as a flash.
// Other clients get httpStatus and a JSON document naming the location.
func ReturnHTTPRedirect(w http.ResponseWriter, r *http.Request, flasher Flasher, httpStatus int, messageType string, location string, message string) {
	if WantsHTML(r) {
		if flasher != nil && message != "" {
			flasher.Flash(w, r, message)
		}
		http.Redirect(w, r, location, http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Location", location)
	w.WriteHeader(httpStatus)

	msg := HTTPRedirect{
		Status:   strconv.Itoa(httpStatus),
		Message:  message,
		Type:     messageType,
		Location: location,
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(msg)
}

// ReturnHTTPError maps err onto the status carried by a QuizfarmError.
// Anything else is logged and answered with a generic 500.
func ReturnHTTPError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case qferrors.IsInvalid(err):
		ReturnHTTPMessage(w, r, http.StatusBadRequest, "badrequest", qferrors.GetErrorMessage(err))
	case qferrors.IsForbidden(err):
		ReturnHTTPMessage(w, r, http.StatusForbidden, "forbidden", qferrors.GetErrorMessage(err))
	case qferrors.IsNotFound(err):
		ReturnHTTPMessage(w, r, http.StatusNotFound, "notfound", qferrors.GetErrorMessage(err))
	case qferrors.IsAlreadyExists(err):
		ReturnHTTPMessage(w, r, http.StatusConflict, "exists", qferrors.GetErrorMessage(err))
	default:
		glog.Errorf("error handling %s %s: %v", r.Method, r.URL.Path, err)
		ReturnHTTPMessage(w, r, http.StatusInternalServerError, "error", "internal error")
	}
}

// ParseID parses a positive numeric identifier from a path or query value.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, qferrors.NewInvalid("invalid id %q", raw)
	}
	return uint(id), nil
}

// DecodeBody reads a JSON body into v when the request declares one.
// It returns false for form-encoded requests so callers fall back to r.PostFormValue.
func DecodeBody(r *http.Request, v any) (bool, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false, nil
	}
	accepts := goautoneg.ParseAccept(ct)
	if len(accepts) == 0 || accepts[0].Type+"/"+accepts[0].SubType != contentTypeJSON {
		return false, nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return true, qferrors.NewInvalid("malformed json body: %v", err)
	}
	return true, nil
}
