package handler

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// RouteMeta is the metadata attached to a page route.
type RouteMeta struct {
	RequiresAuth bool
}

// Route describes the navigation target handed to the guard.
type Route struct {
	Name string
	Path string
	// FullPath is the path including the query string.
	FullPath string
	Meta     RouteMeta
}

// Redirect replaces a navigation. Name, when set, is resolved through the page table;
// otherwise Path is used as is.
type Redirect struct {
	Name  string
	Path  string
	Query url.Values
}

// Authenticator reports whether the console currently has a session.
type Authenticator interface {
	IsAuthenticated() bool
}

// NavigationGuard decides, before every page navigation, whether it may proceed.
type NavigationGuard struct {
	logger  *zerolog.Logger
	session Authenticator
	paths   map[string]string
}

// NewNavigationGuard creates a guard that resolves redirect names against pages.
func NewNavigationGuard(logger *zerolog.Logger, session Authenticator, pages []Page) *NavigationGuard {
	paths := make(map[string]string, len(pages))
	for _, page := range pages {
		paths[page.Name] = page.Path
	}

	return &NavigationGuard{
		logger:  logger,
		session: session,
		paths:   paths,
	}
}

// BeforeEach returns the redirect to apply to a navigation to "to", or nil to let it
// continue.
func (g *NavigationGuard) BeforeEach(to Route) *Redirect {
	authenticated := g.session.IsAuthenticated()

	switch {
	case to.Path == LoginPage && authenticated:
		return &Redirect{Name: DashboardPage}
	case to.Meta.RequiresAuth && !authenticated:
		return &Redirect{
			Name:  LoginPage,
			Query: url.Values{"redirect": []string{to.FullPath}},
		}
	default:
		return nil
	}
}

// Middleware applies BeforeEach to requests for page, answering 302 Found when the
// guard redirects.
func (g *NavigationGuard) Middleware(page Page) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			redirect := g.BeforeEach(Route{
				Name:     page.Name,
				Path:     r.URL.Path,
				FullPath: r.URL.RequestURI(),
				Meta:     page.Meta,
			})
			if redirect == nil {
				next.ServeHTTP(w, r)
				return
			}

			location := g.Location(redirect)
			g.logger.Debug().
				Str("from", r.URL.RequestURI()).
				Str("to", location).
				Msg("navigation redirected")
			http.Redirect(w, r, location, http.StatusFound)
		})
	}
}

// Location renders a redirect as a URL path with its query.
func (g *NavigationGuard) Location(redirect *Redirect) string {
	path := redirect.Path
	if redirect.Name != "" {
		if resolved, ok := g.paths[redirect.Name]; ok {
			path = resolved
		} else {
			path = redirect.Name
		}
	}

	if len(redirect.Query) == 0 {
		return path
	}
	return path + "?" + redirect.Query.Encode()
}
