package pages

import (
	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/session"
)

// Settings sizes the views.
type Settings struct {
	FetchLimit        int
	PageSize          int
	Window            int
	HomeServicesLimit int
	GroupCap          int
}

// Views is one view model per client route.
type Views struct {
	Services        *Services
	Home            *Home
	Blogs           *Listing[directory.Blog]
	Interviews      *Listing[directory.Interview]
	FAQs            *Listing[directory.FAQ]
	ServiceDetail   *DetailView[directory.Service]
	BlogDetail      *DetailView[directory.Blog]
	InterviewDetail *DetailView[directory.Interview]
}

func NewViews(dir Directory, sessions *session.Store, s Settings) *Views {
	return &Views{
		Services:        NewServices(dir, s.FetchLimit, s.PageSize, s.Window),
		Home:            NewHome(dir, sessions, s.HomeServicesLimit, s.GroupCap),
		Blogs:           NewBlogs(dir),
		Interviews:      NewInterviews(dir),
		FAQs:            NewFAQs(dir),
		ServiceDetail:   NewServiceDetail(dir),
		BlogDetail:      NewBlogDetail(dir),
		InterviewDetail: NewInterviewDetail(dir),
	}
}
