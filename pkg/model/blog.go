package model

import "time"

type Blog struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Excerpt         string    `json:"excerpt,omitempty"`
	Content         string    `json:"content"`
	ImageURL        string    `json:"image_url,omitempty"`
	MetaTitle       string    `json:"meta_title,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// BlogInput carries create/update fields. Slug is generated from the title
// when left empty.
type BlogInput struct {
	Title           string `json:"title" validate:"required,min=1,max=300"`
	Content         string `json:"content" validate:"required"`
	Slug            string `json:"slug" validate:"omitempty,max=300"`
	Excerpt         string `json:"excerpt" validate:"omitempty,max=1000"`
	ImageURL        string `json:"image_url" validate:"omitempty,url"`
	MetaTitle       string `json:"meta_title" validate:"omitempty,max=300"`
	MetaDescription string `json:"meta_description" validate:"omitempty,max=500"`
}
