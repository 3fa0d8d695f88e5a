// Package seed loads the demo feed used for local development.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/KHILANO5/Campusfound/internal/model"
	"github.com/KHILANO5/Campusfound/internal/service"
	"github.com/KHILANO5/Campusfound/pkg/apperr"
	"github.com/KHILANO5/Campusfound/pkg/logger"
)

const (
	DemoName  = "CampusFound Demo"
	DemoEmail = "demo@campusfound.edu"
)

// DemoPost is a seed entry; Resolved posts are resolved right after creation.
type DemoPost struct {
	Title       string
	Description string
	Kind        model.PostKind
	Location    string
	Category    string
	Resolved    bool
}

var DemoPosts = []DemoPost{
	{
		Title:       "Silver Water Bottle",
		Description: "Lost a silver Hydroflask with stickers on it. Last seen at the gym.",
		Kind:        model.KindLost, Location: "Gym", Category: "Other",
	},
	{
		Title:       "Sony WH-1000XM4 Headphones",
		Description: "Found a pair of black Sony headphones in the cafeteria near the vending machines. Turned them in to security.",
		Kind:        model.KindFound, Location: "Cafeteria", Category: "Electronics", Resolved: true,
	},
	{
		Title:       "Blue Herschel Backpack",
		Description: "Lost my blue Herschel backpack in the library near the quiet zone. It has a laptop and some notebooks inside. Please help!",
		Kind:        model.KindLost, Location: "Library", Category: "Electronics",
	},
	{
		Title:       "Calculus Textbook",
		Description: "Found a calculus textbook (Stewart 8th Edition) in Room 304. Left it on the instructor's desk.",
		Kind:        model.KindFound, Location: "Room 304", Category: "Books",
	},
}

// Run creates the demo user (or logs in as it) and inserts DemoPosts unless
// the feed already has posts and force is false. It returns the number of
// posts created.
func Run(ctx context.Context, posts service.PostService, auth service.AuthService, password string, force bool) (int, error) {
	existing, err := posts.ListPosts(ctx, service.ListPostsFilter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 && !force {
		logger.Info("seed skipped: feed is not empty", zap.Int("posts", len(existing)))
		return 0, nil
	}

	author, err := auth.Register(ctx, service.RegisterInput{Name: DemoName, Email: DemoEmail, Password: password})
	if errors.Is(err, apperr.ErrConflict) {
		author, err = auth.Login(ctx, service.LoginInput{Email: DemoEmail, Password: password})
	}
	if err != nil {
		return 0, fmt.Errorf("demo user: %w", err)
	}

	created := 0
	for _, dp := range DemoPosts {
		loc, cat := dp.Location, dp.Category
		p, err := posts.CreatePost(ctx, service.CreatePostInput{
			Title:       dp.Title,
			Description: dp.Description,
			Kind:        dp.Kind,
			AuthorID:    author.ID,
			Location:    &loc,
			Category:    &cat,
		})
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", dp.Title, err)
		}
		created++
		if dp.Resolved {
			if _, err := posts.ResolvePost(ctx, p.ID); err != nil {
				return created, fmt.Errorf("resolve %q: %w", dp.Title, err)
			}
		}
	}
	logger.Info("seed complete", zap.Int("posts", created), zap.Uint64("author_id", author.ID))
	return created, nil
}
