package handler

import (
	"net/http"

	"github.com/vasapolrittideah/money-tracker-web/services/web-console/internal/model"
	"github.com/vasapolrittideah/money-tracker-web/shared/utilities"
)

const (
	LoginPage     = "/auth/login"
	DashboardPage = "/app/dashboards"
)

// Page is a navigable console route. Names equal paths.
type Page struct {
	Name  string
	Path  string
	Title string
	Meta  RouteMeta
}

// DefaultPages is the console's page table.
var DefaultPages = []Page{
	{Name: "/", Path: "/", Title: "Welcome"},
	{Name: LoginPage, Path: LoginPage, Title: "Sign in"},
	{Name: "/auth/register", Path: "/auth/register", Title: "Create an account"},
	{Name: DashboardPage, Path: DashboardPage, Title: "Dashboard", Meta: RouteMeta{RequiresAuth: true}},
	{Name: "/app/settings", Path: "/app/settings", Title: "Settings", Meta: RouteMeta{RequiresAuth: true}},
	{Name: "/app/profile", Path: "/app/profile", Title: "Profile", Meta: RouteMeta{RequiresAuth: true}},
}

type pageView struct {
	Name          string             `json:"name"`
	Path          string             `json:"path"`
	Title         string             `json:"title"`
	Authenticated bool               `json:"authenticated"`
	Loading       bool               `json:"loading"`
	User          *model.UserProfile `json:"user,omitempty"`
}

func (h *consoleHandler) renderPage(page Page) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		session := h.session.Snapshot()
		utilities.WriteResponse(w, http.StatusOK, pageView{
			Name:          page.Name,
			Path:          page.Path,
			Title:         page.Title,
			Authenticated: session.IsAuthenticated(),
			Loading:       session.Loading,
			User:          session.User,
		})
	}
}
