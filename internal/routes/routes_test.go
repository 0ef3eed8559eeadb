package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kalambet/firmsfinder/internal/session"
)

func TestResolve(t *testing.T) {
	anon := session.StatusAnonymous
	authed := session.StatusAuthenticated

	cases := []struct {
		path   string
		status session.Status
		route  Name
		action Action
		target string
	}{
		{"/", anon, Home, Redirect, "/login"},
		{"/", authed, Home, Allow, ""},
		{"/blogs?search=tax", anon, Blogs, Redirect, "/login"},
		{"/blogs/", authed, Blogs, Allow, ""},
		{"/interviews/42", anon, InterviewDetail, Redirect, "/login"},
		{"/services/9", authed, ServiceDetail, Allow, ""},
		{"/allservices", anon, AllServices, Allow, ""},
		{"/allservices", authed, AllServices, Allow, ""},
		{"/login", anon, Login, Allow, ""},
		{"/login", authed, Login, Redirect, "/"},
		{"/signup", authed, Signup, Redirect, "/"},
		{"/nowhere", anon, Unknown, Redirect, "/login"},
		{"/nowhere", authed, Unknown, Redirect, "/"},
		{"/blogs/1/comments", authed, Unknown, Redirect, "/"},
	}
	for _, tc := range cases {
		d := Resolve(tc.path, tc.status)
		assert.Equal(t, tc.route, d.Route, tc.path)
		assert.Equal(t, tc.action, d.Action, "%s as %s", tc.path, tc.status)
		assert.Equal(t, tc.target, d.Target, "%s as %s", tc.path, tc.status)
	}
}

func TestResolve_LoadingIsPending(t *testing.T) {
	for _, path := range []string{"/", "/login", "/nowhere", "/allservices"} {
		d := Resolve(path, session.StatusUnknown)
		assert.Equal(t, Pending, d.Action, path)
		assert.Empty(t, d.Target, path)
	}
}

func TestResolve_Params(t *testing.T) {
	d := Resolve("/blogs/abc123", session.StatusAuthenticated)
	assert.Equal(t, map[string]string{"id": "abc123"}, d.Params)

	_, params, ok := Match("/services/s-1?x=1")
	assert.True(t, ok)
	assert.Equal(t, "s-1", params["id"])
}
