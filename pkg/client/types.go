package client

import (
	"net/url"
	"time"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisteredUser is the body returned by register.
type RegisteredUser struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type User struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreatePostRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Kind        string  `json:"kind"`
	AuthorID    uint64  `json:"authorId"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	Date        *string `json:"date,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// Post is a feed entry with its author's public fields.
type Post struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Category    *string   `json:"category"`
	Location    *string   `json:"location"`
	Date        *string   `json:"date"`
	Image       *string   `json:"image"`
	AuthorID    uint64    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ResolveResult struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

// Filter narrows SearchPosts. Empty fields are not sent.
type Filter struct {
	Kind     string
	Status   string
	Category string
	Query    string
}

func (f Filter) values() url.Values {
	v := url.Values{}
	for k, s := range map[string]string{"kind": f.Kind, "status": f.Status, "category": f.Category, "q": f.Query} {
		if s != "" {
			v.Set(k, s)
		}
	}
	return v
}
