package model

import "time"

// PostKind lost 或 found，创建后不可变
type PostKind string

const (
	KindLost  PostKind = "lost"
	KindFound PostKind = "found"
)

func (k PostKind) Valid() bool { return k == KindLost || k == KindFound }

// PostStatus open -> resolved，单向
type PostStatus string

const (
	StatusOpen     PostStatus = "open"
	StatusResolved PostStatus = "resolved"
)

func (s PostStatus) Valid() bool { return s == StatusOpen || s == StatusResolved }

// CanTransitionTo reports whether next is reachable from s. resolved is terminal.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	return s == StatusOpen && next == StatusResolved
}

// Post 失物/招领帖子
type Post struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text;not null"`
	Kind        PostKind   `gorm:"type:varchar(16);not null;index:idx_posts_kind;check:chk_posts_kind,kind IN ('lost','found')"`
	Status      PostStatus `gorm:"type:varchar(16);not null;default:open;index:idx_posts_status;check:chk_posts_status,status IN ('open','resolved')"`
	Category    *string    `gorm:"type:varchar(100)"`
	Location    *string    `gorm:"type:varchar(255)"`
	Date        *string    `gorm:"type:varchar(64)"`
	Image       *string    `gorm:"type:text"`
	AuthorID    uint64     `gorm:"not null;index:idx_posts_author"`
	Author      *User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	CreatedAt   time.Time  `gorm:"not null;index:idx_posts_created"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

func (Post) TableName() string { return "posts" }

// PostDetail is a post row joined with its author's name and email.
type PostDetail struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Kind        PostKind   `json:"kind"`
	Status      PostStatus `json:"status"`
	Category    *string    `json:"category"`
	Location    *string    `json:"location"`
	Date        *string    `json:"date"`
	Image       *string    `json:"image"`
	AuthorID    uint64     `json:"authorId"`
	AuthorName  string     `json:"authorName"`
	AuthorEmail string     `json:"authorEmail"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
