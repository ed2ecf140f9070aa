package post

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PostPayload - body của POST /posts và PUT/PATCH /posts/:id
// Nhận multipart form (cover_photo là file field riêng) hoặc JSON
type PostPayload struct {
	Title   string `form:"title" json:"title"`
	Author  string `form:"author" json:"author"`
	Content string `form:"content" json:"content"`
}

// Validate chạy trước mọi thao tác với store
func (p PostPayload) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Title,
			validation.Required.Error("Please add a title"),
		),
		validation.Field(&p.Content,
			validation.Required.Error("Please add content"),
		),
	)
	if err == nil {
		return nil
	}

	var fields validation.Errors
	if errors.As(err, &fields) {
		return &ValidationError{Fields: fields}
	}
	return err
}

// ToEntity builds a new Post from the payload
func (p PostPayload) ToEntity(file *UploadedFile) *Post {
	return &Post{
		Title:      p.Title,
		Author:     p.Author,
		Content:    p.Content,
		CoverPhoto: file.CoverPath(),
	}
}

// ApplyToEntity ghi đè (không merge) toàn bộ field có thể thay đổi
// cover_photo = file mới, hoặc nil nếu request không upload file
func (p PostPayload) ApplyToEntity(post *Post, file *UploadedFile) {
	post.Title = p.Title
	post.Author = p.Author
	post.Content = p.Content
	post.CoverPhoto = file.CoverPath()
}

// MessageResponse - body của DELETE /posts/:id
type MessageResponse struct {
	Message string `json:"message"`
}
