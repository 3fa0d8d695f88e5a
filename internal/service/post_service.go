package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/KHILANO5/Campusfound/internal/model"
	"github.com/KHILANO5/Campusfound/internal/repository"
	"github.com/KHILANO5/Campusfound/pkg/apperr"
	"github.com/KHILANO5/Campusfound/pkg/logger"
)

// CreatePostInput 创建帖子参数。没有 status 字段：新帖子一律为 open。
type CreatePostInput struct {
	Title       string         `json:"title" validate:"required,max=255"`
	Description string         `json:"description" validate:"required"`
	Kind        model.PostKind `json:"kind" validate:"required,oneof=lost found"`
	AuthorID    uint64         `json:"authorId" validate:"required"`
	Category    *string        `json:"category" validate:"omitempty,max=100"`
	Location    *string        `json:"location" validate:"omitempty,max=255"`
	Date        *string        `json:"date" validate:"omitempty,max=64"`
	Image       *string        `json:"image"`
}

// ListPostsFilter 列表过滤条件，零值表示不过滤
type ListPostsFilter struct {
	Kind     string `json:"kind" validate:"omitempty,oneof=lost found"`
	Status   string `json:"status" validate:"omitempty,oneof=open resolved"`
	Category string `json:"category"`
	Query    string `json:"q"`
}

// ResolveResult is the outcome of a successful ResolvePost.
type ResolveResult struct {
	ID     uint64           `json:"id"`
	Status model.PostStatus `json:"status"`
}

// PostService 帖子服务：校验输入、维护 open -> resolved 状态机
type PostService interface {
	CreatePost(ctx context.Context, in CreatePostInput) (*model.PostDetail, error)
	ListPosts(ctx context.Context, f ListPostsFilter) ([]model.PostDetail, error)
	GetPost(ctx context.Context, id uint64) (*model.PostDetail, error)
	ResolvePost(ctx context.Context, id uint64) (*ResolveResult, error)
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
	clock Clock
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, clock Clock) PostService {
	if clock == nil {
		clock = SystemClock
	}
	return &postService{posts: posts, users: users, clock: clock}
}

func (s *postService) CreatePost(ctx context.Context, in CreatePostInput) (_ *model.PostDetail, err error) {
	ctx, span := tracer.Start(ctx, "PostService.CreatePost")
	defer func() { endSpan(span, err) }()

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Kind = model.PostKind(strings.TrimSpace(string(in.Kind)))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(ctx, in.AuthorID)
	if err != nil {
		return nil, apperr.Storage("find author", err)
	}
	if author == nil {
		return nil, apperr.NotFound("author not found")
	}

	now := s.clock.Now()
	post := &model.Post{
		Title:       in.Title,
		Description: in.Description,
		Kind:        in.Kind,
		Status:      model.StatusOpen,
		Category:    optional(in.Category),
		Location:    optional(in.Location),
		Date:        optional(in.Date),
		Image:       optional(in.Image),
		AuthorID:    author.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.posts.Insert(ctx, post)
	if err != nil {
		return nil, apperr.Storage("insert post", err)
	}
	span.SetAttributes(attribute.Int64("post.id", int64(id)))

	detail, err := s.posts.FindByIDWithAuthor(ctx, id)
	if err != nil {
		return nil, apperr.Storage("load created post", err)
	}
	if detail == nil {
		return nil, apperr.Storage("load created post", errMissingAfterInsert)
	}

	logger.Info("post created",
		zap.Uint64("post_id", id),
		zap.String("kind", string(post.Kind)),
		zap.Uint64("author_id", author.ID),
	)
	return detail, nil
}

func (s *postService) ListPosts(ctx context.Context, f ListPostsFilter) (_ []model.PostDetail, err error) {
	ctx, span := tracer.Start(ctx, "PostService.ListPosts")
	defer func() { endSpan(span, err) }()

	f.Kind = strings.ToLower(strings.TrimSpace(f.Kind))
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	if err := validateStruct(f); err != nil {
		return nil, err
	}

	rows, err := s.posts.FindAllWithAuthor(ctx, repository.PostFilter{
		Kind:     model.PostKind(f.Kind),
		Status:   model.PostStatus(f.Status),
		Category: strings.TrimSpace(f.Category),
		Query:    strings.TrimSpace(f.Query),
	})
	if err != nil {
		return nil, apperr.Storage("list posts", err)
	}
	span.SetAttributes(attribute.Int("posts.count", len(rows)))
	return rows, nil
}

func (s *postService) GetPost(ctx context.Context, id uint64) (_ *model.PostDetail, err error) {
	ctx, span := tracer.Start(ctx, "PostService.GetPost")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("post.id", int64(id)))

	detail, err := s.posts.FindByIDWithAuthor(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get post", err)
	}
	if detail == nil {
		return nil, apperr.NotFound("post not found")
	}
	return detail, nil
}

// ResolvePost moves an open post to resolved. The conditional update and the
// follow-up existence check share one transaction, so of two concurrent calls
// exactly one succeeds and the other gets a conflict.
func (s *postService) ResolvePost(ctx context.Context, id uint64) (_ *ResolveResult, err error) {
	ctx, span := tracer.Start(ctx, "PostService.ResolvePost")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("post.id", int64(id)))

	now := s.clock.Now()
	err = s.posts.InTx(ctx, func(repo repository.PostRepository) error {
		n, err := repo.UpdateStatus(ctx, id, model.StatusOpen, model.StatusResolved, now)
		if err != nil {
			return apperr.Storage("resolve post", err)
		}
		if n > 0 {
			return nil
		}
		exists, err := repo.Exists(ctx, id)
		if err != nil {
			return apperr.Storage("resolve post", err)
		}
		if !exists {
			return apperr.NotFound("post not found")
		}
		return apperr.Conflict("post is already resolved")
	})
	if err != nil {
		if !isAppErr(err) {
			err = apperr.Storage("resolve post", err)
		}
		return nil, err
	}

	logger.Info("post resolved", zap.Uint64("post_id", id))
	return &ResolveResult{ID: id, Status: model.StatusResolved}, nil
}
