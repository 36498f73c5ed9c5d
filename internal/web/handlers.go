package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/pace/internal/engine"
	"github.com/hpungsan/pace/internal/errors"
)

// Handlers contains HTTP route handlers for the web dashboard.
type Handlers struct {
	engine   *engine.Engine
	renderer *Renderer
}

// HandleDashboard handles GET /dashboard — current pacing state.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	status, err := h.engine.Status()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, status)
		return
	}

	h.renderer.renderPage(w, r, "dashboard", DashboardPageData{
		PageData: PageData{
			Title:   "Dashboard",
			Version: h.renderer.version,
			Nav:     "dashboard",
		},
		Status: status,
	})
}

// HandleHistory handles GET /posts — list recorded posts, newest first.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", engine.DefaultHistoryLimit)

	result, err := h.engine.History(limit)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "history", HistoryPageData{
		PageData: PageData{
			Title:   "Posts",
			Version: h.renderer.version,
			Nav:     "posts",
		},
		Items: result.Items,
		Total: result.Total,
		Limit: limit,
	})
}

// HandleDetail handles GET /posts/{id} — view a single recorded post.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("post ID is required"))
		return
	}

	item, err := h.engine.Find(id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, item)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   displayID(item.ID),
			Version: h.renderer.version,
			Nav:     "posts",
		},
		Post:         item,
		RenderedHTML: renderMarkdown(item.Text),
	})
}

// HandleCompose handles GET /compose — the check-before-posting form.
func (h *Handlers) HandleCompose(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "compose", ComposePageData{
		PageData: PageData{
			Title:   "Compose",
			Version: h.renderer.version,
			Nav:     "compose",
		},
	})
}

// HandleCheck handles POST /compose/check — evaluate text without posting.
func (h *Handlers) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	text := r.FormValue("text")
	result, err := h.engine.Check(text)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data := ComposePageData{
		PageData: PageData{
			Title:   "Compose",
			Version: h.renderer.version,
			Nav:     "compose",
		},
		Text:   text,
		Result: result,
	}

	// If htmx targets #check-result, render only the result fragment
	if r.Header.Get("HX-Target") == "check-result" {
		h.renderer.renderBlock(w, http.StatusOK, "compose", "check-result", data)
		return
	}

	h.renderer.renderPage(w, r, "compose", data)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// displayID returns a truncated post ID for page titles.
func displayID(id string) string {
	if len(id) > 10 {
		return id[:10] + "..."
	}
	return id
}
