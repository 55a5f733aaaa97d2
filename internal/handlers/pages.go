package handlers

import (
	"html/template"
	"log"
	"net/http"

	"investpro/internal/middleware"
	"investpro/internal/session"
)

// pageTemplate is the minimal shell served for page routes. The views
// themselves hydrate from the JSON API.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - InvestPro</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body data-page="{{.Page}}"{{if .User}} data-user="{{.User.Email}}"{{end}}>
<div id="app"></div>
<script src="/static/app.js"></script>
</body>
</html>
`

// PageHandler serves the HTML shells for the application's page routes.
type PageHandler struct {
	tmpl *template.Template
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler() *PageHandler {
	return &PageHandler{
		tmpl: template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// Welcome renders the public landing page.
func (h *PageHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "welcome", "Welcome")
}

// Login renders the login page.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", "Login")
}

// Signup renders the signup page.
func (h *PageHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup", "Sign Up")
}

// Home renders the dashboard page.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home", "Dashboard")
}

// Profile renders the profile page.
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "profile", "Profile")
}

// Portfolio renders the portfolio page.
func (h *PageHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "portfolio", "Portfolio")
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, page, title string) {
	data := struct {
		Page  string
		Title string
		User  *session.Principal
	}{
		Page:  page,
		Title: title,
		User:  middleware.GetPrincipal(r),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		log.Printf("Error rendering page %s: %v", page, err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}
