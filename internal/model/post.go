package model

import "time"

type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	CoverImage string    `json:"cover_image"`
	Author     string    `json:"author"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
}
