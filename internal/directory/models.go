package directory

import (
	"encoding/json"
	"time"
)

// Service is one firm offering listed in the directory.
type Service struct {
	ID          string    `json:"_id"`
	ServiceName string    `json:"serviceName"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// Name reports the display name and whether one is present.
func (s Service) Name() (string, bool) {
	return s.ServiceName, s.ServiceName != ""
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Tag struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Blog is a published article. Text is the title; Description is HTML.
type Blog struct {
	ID          string    `json:"_id"`
	Text        string    `json:"text"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Category    *Category `json:"category,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// CategoryName returns the populated category name or "".
func (b Blog) CategoryName() string {
	if b.Category == nil {
		return ""
	}
	return b.Category.Name
}

// Interview is the client-side shape of an interview record.
type Interview struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Position      string `json:"position"`
	Company       string `json:"company"`
	Image         string `json:"image"`
	Description   string `json:"description"`
	CompanyURL    string `json:"companyURL"`
	InterviewDate string `json:"interviewDate"`
}

// interviewRecord mirrors the backend's PascalCase interview document.
type interviewRecord struct {
	ID          string `json:"_id"`
	Name        string `json:"Name"`
	Position    string `json:"Position"`
	CompanyName string `json:"CompanyName"`
	Image       string `json:"Image"`
	Description string `json:"Description"`
	CompanyURL  string `json:"CompanyURL"`
	Date        string `json:"Date"`
}

type FAQ struct {
	ID       string `json:"_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// User is the identity returned by the login endpoint.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON accepts either "id" or the document key "_id".
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    string `json:"id"`
		DocID string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = raw.ID
	if u.ID == "" {
		u.ID = raw.DocID
	}
	u.Name = raw.Name
	u.Email = raw.Email
	return nil
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Registration is the signup form.
type Registration struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Review is a site review posted by a signed-in user.
type Review struct {
	User     string `json:"user"`
	UserName string `json:"userName"`
	Rating   string `json:"rating"`
	Feedback string `json:"feedback"`
}
