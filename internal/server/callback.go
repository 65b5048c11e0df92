package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"
)

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Delegatify</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem; max-width: 40rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { margin: 0 0 1rem 0; }
        .ok { color: #1DB954; }
        .err { color: #E22134; }
        code { display: block; word-break: break-all; padding: 1rem; background: #f0f0f0;
               border-radius: 4px; user-select: all; }
        p { color: #666; }
    </style>
</head>
<body>
    <div class="container">
    {{- if .Code }}
        <h1 class="ok">Authorization code received</h1>
        <code>{{ .Code }}</code>
        <p>Copy the code, go back to Discord, press Authenticate and paste it into the form.</p>
    {{- else }}
        <h1 class="err">Authorization failed</h1>
        <p>{{ .Error }}{{ if .Description }}: {{ .Description }}{{ end }}</p>
        <p>Run /authenticate again to get a new link.</p>
    {{- end }}
    </div>
</body>
</html>
`))

type callbackData struct {
	Code        string
	Error       string
	Description string
}

// CallbackHandler displays the authorization code from the provider's redirect.
type CallbackHandler struct{}

// NewCallbackHandler creates a [CallbackHandler].
func NewCallbackHandler() *CallbackHandler {
	return &CallbackHandler{}
}

func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := callbackData{
		Code:        q.Get("code"),
		Error:       q.Get("error"),
		Description: q.Get("error_description"),
	}

	status := http.StatusOK
	if data.Code == "" {
		status = http.StatusBadRequest
		if data.Error == "" {
			data.Error = "missing code"
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	callbackPage.Execute(w, data)
}

// SessionInfo reports on the installed session.
type SessionInfo interface {
	Version() uint64
	InstalledAt() (time.Time, bool)
}

// StatusHandler reports whether the bot holds an authenticated session.
type StatusHandler struct {
	session SessionInfo
}

// NewStatusHandler creates a [StatusHandler] for session.
func NewStatusHandler(session SessionInfo) *StatusHandler {
	return &StatusHandler{session: session}
}

func (h *StatusHandler) Routes() []string {
	return []string{"/status"}
}

type statusResponse struct {
	Authenticated bool       `json:"authenticated"`
	Version       uint64     `json:"version"`
	InstalledAt   *time.Time `json:"installed_at,omitempty"`
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Version: h.session.Version()}
	if at, ok := h.session.InstalledAt(); ok {
		resp.Authenticated = true
		resp.InstalledAt = &at
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
