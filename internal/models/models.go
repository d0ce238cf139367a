package models

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAuthor, RoleReader:
		return true
	default:
		return false
	}
}

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

type User struct {
	UserID                 string    `json:"userId" db:"user_id"`
	Username               string    `json:"username" db:"username"`
	Email                  string    `json:"email" db:"email"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
	Profile                *Profile  `json:"profile,omitempty" db:"-"`
}

// Profile holds the role of a user. Exactly one exists per user.
type Profile struct {
	ProfileID string `json:"profileId" db:"profile_id"`
	UserID    string `json:"userId" db:"user_id"`
	Role      Role   `json:"role" db:"role"`
	Bio       string `json:"bio" db:"bio"`
	AvatarURL string `json:"avatarUrl" db:"avatar_url"`
}

type Category struct {
	CategoryID  string    `json:"categoryId" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Tag struct {
	TagID       string    `json:"tagId" db:"tag_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Post struct {
	PostID      string     `json:"postId" db:"post_id"`
	AuthorID    string     `json:"authorId" db:"author_id"`
	CategoryID  string     `json:"categoryId" db:"category_id"`
	Title       string     `json:"title" db:"title"`
	Slug        string     `json:"slug" db:"slug"`
	Content     string     `json:"content" db:"content"`
	Description string     `json:"description" db:"description"`
	Status      PostStatus `json:"status" db:"status"`
	ImageURL    string     `json:"imageUrl" db:"image_url"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	Category    *Category  `json:"category,omitempty" db:"-"`
	Tags        []Tag      `json:"tags" db:"-"`
}

type Comment struct {
	CommentID  string    `json:"commentId" db:"comment_id"`
	PostID     string    `json:"postId" db:"post_id"`
	UserID     string    `json:"userId" db:"user_id"`
	Content    string    `json:"content" db:"content"`
	IsApproved bool      `json:"isApproved" db:"is_approved"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// PostStats are the per-author counters shown on the dashboard.
type PostStats struct {
	Draft     int `json:"draft" db:"draft"`
	Published int `json:"published" db:"published"`
	Total     int `json:"total" db:"total"`
}

type Dashboard struct {
	Posts []Post    `json:"posts"`
	Stats PostStats `json:"stats"`
}
