package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/KHILANO5/Campusfound/internal/model"
)

// PostFilter narrows FindAllWithAuthor. Zero fields match everything.
type PostFilter struct {
	Kind     model.PostKind
	Status   model.PostStatus
	Category string
	// Query is a case-insensitive substring match on title, description and location.
	Query string
}

// PostRepository 帖子仓储接口。每个方法一次数据库往返，不做业务校验。
type PostRepository interface {
	Insert(ctx context.Context, p *model.Post) (uint64, error)
	// FindAllWithAuthor returns joined rows ordered by created_at DESC, id DESC.
	FindAllWithAuthor(ctx context.Context, f PostFilter) ([]model.PostDetail, error)
	// FindByIDWithAuthor returns nil, nil when the post does not exist.
	FindByIDWithAuthor(ctx context.Context, id uint64) (*model.PostDetail, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	// UpdateStatus sets status to `to` only where the current status is `from`
	// and returns the affected row count.
	UpdateStatus(ctx context.Context, id uint64, from, to model.PostStatus, at time.Time) (int64, error)
	// InTx runs fn against a repository bound to one transaction; fn's error rolls it back.
	InTx(ctx context.Context, fn func(repo PostRepository) error) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) InTx(ctx context.Context, fn func(repo PostRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&postRepository{db: tx})
	})
}

const detailColumns = "posts.id, posts.title, posts.description, posts.kind, posts.status, " +
	"posts.category, posts.location, posts.date, posts.image, posts.author_id, " +
	"users.name AS author_name, users.email AS author_email, posts.created_at, posts.updated_at"

func (r *postRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select(detailColumns).
		Joins("JOIN users ON users.id = posts.author_id")
}

func (r *postRepository) Insert(ctx context.Context, p *model.Post) (uint64, error) {
	if err := r.db.WithContext(ctx).Omit("Author").Create(p).Error; err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return p.ID, nil
}

func (r *postRepository) FindAllWithAuthor(ctx context.Context, f PostFilter) ([]model.PostDetail, error) {
	q := r.joined(ctx)
	if f.Kind != "" {
		q = q.Where("posts.kind = ?", f.Kind)
	}
	if f.Status != "" {
		q = q.Where("posts.status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("LOWER(posts.category) = ?", strings.ToLower(f.Category))
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("(LOWER(posts.title) LIKE ? OR LOWER(posts.description) LIKE ? OR LOWER(COALESCE(posts.location, '')) LIKE ?)",
			like, like, like)
	}

	rows := make([]model.PostDetail, 0)
	if err := q.Order("posts.created_at DESC").Order("posts.id DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return rows, nil
}

func (r *postRepository) FindByIDWithAuthor(ctx context.Context, id uint64) (*model.PostDetail, error) {
	var rows []model.PostDetail
	if err := r.joined(ctx).Where("posts.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *postRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count post %d: %w", id, err)
	}
	return cnt > 0, nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id uint64, from, to model.PostStatus, at time.Time) (int64, error) {
	if !from.CanTransitionTo(to) {
		return 0, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": at})
	if res.Error != nil {
		return 0, fmt.Errorf("update post %d status: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
