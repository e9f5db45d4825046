package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var errNoRoute = errors.New("no such page")

type params map[string]string

type handler func(ctx context.Context, p params, args []string) error

// route maps a path pattern such as /events/:id/register onto a handler.
// Every pattern under /admin is gated by the admin flag.
type route struct {
	pattern string
	help    string
	handler handler
}

func (r route) admin() bool {
	return r.pattern == "/admin" || strings.HasPrefix(r.pattern, "/admin/")
}

func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}

// match reports whether path fits pattern and collects the :name segments.
func match(pattern, path string) (params, bool) {
	want, got := splitPath(pattern), splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}
	p := params{}
	for i, seg := range want {
		if strings.HasPrefix(seg, ":") {
			p[seg[1:]] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return p, true
}

// Open navigates to path, checking the admin flag first for admin pages.
func (a *App) Open(ctx context.Context, path string, args []string) error {
	for _, r := range a.router() {
		p, ok := match(r.pattern, path)
		if !ok {
			continue
		}
		if r.admin() {
			if err := a.requireAdmin(ctx); err != nil {
				return err
			}
		}
		return r.handler(ctx, p, args)
	}
	printlnFn("Page not found:", path)
	return fmt.Errorf("%w: %s", errNoRoute, path)
}

func (a *App) router() []route {
	if a.routes == nil {
		a.routes = a.buildRoutes()
	}
	return a.routes
}

func (a *App) buildRoutes() []route {
	routes := []route{
		{"/", "home page", a.home},
		{"/sermons", "sermons [audio|video] [search]", a.sermons},
		{"/sermons/:id", "sermon details and comments", a.sermon},
		{"/sermons/:id/comment", "leave a comment", a.comment},
		{"/events", "events [search]", a.events},
		{"/events/:id", "event details", a.event},
		{"/events/:id/register", "register for an event", a.register},
		{"/announcements", "current announcements", a.announcements},
		{"/gallery", "photo gallery", a.gallery},
		{"/ministries", "ministries", a.ministries},
		{"/service-times", "service times", a.serviceTimes},
		{"/contact", "send us a message", a.contact},
		{"/admin", "admin dashboard", a.dashboard},
		{"/admin/registrations", "registrations [eventID]", a.adminRegistrations},
		{"/admin/registrations/:id/status", "set status: pending|confirmed|cancelled", a.registrationStatus},
		{"/admin/registrations/:id/delete", "delete a registration", a.registrationDelete},
		{"/admin/sermons/:id/comments/:comment/delete", "delete a comment", a.commentDelete},
	}
	for _, res := range a.adminResources() {
		routes = append(routes, res.routes()...)
	}
	return routes
}

func (a *App) printRoutes(admin bool) {
	for _, r := range a.router() {
		if r.admin() != admin {
			continue
		}
		printlnFn(fmt.Sprintf("  %-45s %s", r.pattern, r.help))
	}
}
