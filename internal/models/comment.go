package models

// Comment is a discussion entry under a lesson
type Comment struct {
	ID        ID     `json:"id"`
	LessonID  ID     `json:"lesson_id"`
	UserID    ID     `json:"user_id,omitempty"`
	Author    string `json:"author,omitempty"`
	Content   string `json:"content"`
	Likes     int    `json:"likes"`
	ParentID  ID     `json:"parent_id,omitempty"`  // set on replies
	CreatedAt Text   `json:"created_at,omitempty"` // passed through as sent
}

// CreateCommentInput is the body of a new comment
type CreateCommentInput struct {
	LessonID ID     `json:"lesson_id"`
	Content  string `json:"content"`
	ParentID ID     `json:"parent_id,omitempty"`
}
