package api

import (
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/pkg/models"
)

// PreviewHandler serves the unauthenticated share surfaces: the Open Graph
// preview page behind /p/{id} links and the referral landing page.
type PreviewHandler struct {
	board   *board.Board
	baseURL string
}

func NewPreviewHandler(b *board.Board, baseURL string) *PreviewHandler {
	return &PreviewHandler{board: b, baseURL: baseURL}
}

var previewTmpl = template.Must(template.New("preview").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:type" content="website">
<meta property="og:url" content="{{.URL}}">
<meta property="og:site_name" content="Neighborly">
<meta http-equiv="refresh" content="0; url={{.URL}}">
</head>
<body>
<p><a href="{{.URL}}">{{.Title}}</a></p>
</body>
</html>
`))

type previewData struct {
	Title       string
	Description string
	URL         string
}

// Post renders the link preview for a post. Unknown or hidden posts fall
// back to generic branding rather than a 404, so stale links still unfurl.
func (h *PreviewHandler) Post(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data := previewData{
		Title:       "Neighborly",
		Description: "Neighbors helping neighbors.",
		URL:         h.baseURL + "/p/" + id,
	}
	if p, ok := h.board.Post(id); ok {
		data.Title = p.Title
		switch p.Kind {
		case models.PostHelp:
			data.Description = "A neighbor is asking for a hand."
		case models.PostRec:
			data.Description = "A neighbor is looking for recommendations."
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTmpl.Execute(w, data); err != nil {
		logger.Error("render preview", "post_id", id, "err", err)
	}
}

var referralTmpl = template.Must(template.New("referral").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}} invited you to Neighborly</title>
<meta property="og:title" content="{{.Name}} invited you to Neighborly">
<meta property="og:description" content="Join your neighbors. Ask for help, share recommendations, lend a hand.">
<meta property="og:site_name" content="Neighborly">
</head>
<body>
<h1>{{.Name}} invited you to Neighborly</h1>
<p><a href="{{.URL}}">Accept the invite</a></p>
</body>
</html>
`))

// Referral renders the invite landing page. The actual credit happens when
// the signed-in referee claims it through the API.
func (h *PreviewHandler) Referral(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	name := "A neighbor"
	if u, ok := h.board.User(userID); ok {
		name = u.Name
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := referralTmpl.Execute(w, map[string]string{
		"Name": name,
		"URL":  h.baseURL + "/ref/" + userID,
	})
	if err != nil {
		logger.Error("render referral", "user_id", userID, "err", err)
	}
}
