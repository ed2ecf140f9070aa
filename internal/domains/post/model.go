package post

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post là entity duy nhất của blog: một bài viết với ảnh bìa tùy chọn
type Post struct {
	// Identity - gán bởi record store khi tạo, không đổi sau đó
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	Title   string `json:"title" bson:"title"`             // Required
	Author  string `json:"author" bson:"author,omitempty"` // Optional
	Content string `json:"content" bson:"content"`         // Required

	// CoverPhoto là path của blob trong blob store, nil = không có ảnh
	CoverPhoto *string `json:"cover_photo" bson:"cover_photo"`

	// Date set một lần lúc tạo
	Date time.Time `json:"date" bson:"date"`
}

// HasCoverPhoto checks if post references a blob
func (p *Post) HasCoverPhoto() bool {
	return p.CoverPhoto != nil && *p.CoverPhoto != ""
}

// UploadedFile mô tả file đã được upload step ghi vào blob store
type UploadedFile struct {
	Path        string
	Size        int64
	ContentType string
}

// CoverPath trả về path của file upload, nil nếu không có file
func (f *UploadedFile) CoverPath() *string {
	if f == nil || f.Path == "" {
		return nil
	}
	path := f.Path
	return &path
}
