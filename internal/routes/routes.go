// Package routes decides which client routes a session may open.
package routes

import (
	"strings"

	"github.com/kalambet/firmsfinder/internal/session"
)

type Name string

const (
	Home            Name = "home"
	Blogs           Name = "blogs"
	BlogDetail      Name = "blog"
	Interviews      Name = "interviews"
	InterviewDetail Name = "interview"
	AllServices     Name = "allservices"
	ServiceDetail   Name = "service"
	Login           Name = "login"
	Signup          Name = "signup"
	Unknown         Name = ""
)

// Access is the guard applied to a route.
type Access int

const (
	Protected Access = iota
	Public
	GuestOnly
)

// Route is one entry of the route table. Pattern segments starting with ':'
// bind a parameter.
type Route struct {
	Name    Name
	Pattern string
	Access  Access
}

// Table lists every client route.
var Table = []Route{
	{Home, "/", Protected},
	{Blogs, "/blogs", Protected},
	{BlogDetail, "/blogs/:id", Protected},
	{Interviews, "/interviews", Protected},
	{InterviewDetail, "/interviews/:id", Protected},
	{AllServices, "/allservices", Public},
	{ServiceDetail, "/services/:id", Protected},
	{Login, "/login", GuestOnly},
	{Signup, "/signup", GuestOnly},
}

type Action int

const (
	Allow Action = iota
	Redirect
	// Pending means the session has not finished loading; nothing may be
	// decided yet.
	Pending
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "pending"
	}
}

type Decision struct {
	Route  Name
	Action Action
	Target string
	Params map[string]string
}

const (
	rootPath  = "/"
	loginPath = "/login"
)

// Match finds the route for path, ignoring any query string and trailing
// slash.
func Match(path string) (Route, map[string]string, bool) {
	path = clean(path)
	segs := split(path)
	for _, r := range Table {
		if params, ok := matchPattern(split(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

// Resolve applies the guard of the route at path to a session status.
func Resolve(path string, status session.Status) Decision {
	r, params, ok := Match(path)
	if status == session.StatusUnknown {
		return Decision{Route: r.Name, Action: Pending, Params: params}
	}
	authed := status == session.StatusAuthenticated

	if !ok {
		target := loginPath
		if authed {
			target = rootPath
		}
		return Decision{Route: Unknown, Action: Redirect, Target: target}
	}

	d := Decision{Route: r.Name, Action: Allow, Params: params}
	switch r.Access {
	case GuestOnly:
		if authed {
			d.Action, d.Target = Redirect, rootPath
		}
	case Protected:
		if !authed {
			d.Action, d.Target = Redirect, loginPath
		}
	}
	return d
}

func clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func matchPattern(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[name] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
