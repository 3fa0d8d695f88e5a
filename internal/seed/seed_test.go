package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KHILANO5/Campusfound/config"
	"github.com/KHILANO5/Campusfound/internal/app"
	"github.com/KHILANO5/Campusfound/internal/service"
	"github.com/KHILANO5/Campusfound/pkg/database"
)

func newServices(t *testing.T) *app.Services {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	svcs, err := app.NewServices(&config.Config{Auth: config.AuthConfig{BcryptCost: 4}}, db, nil)
	require.NoError(t, err)
	return svcs
}

func TestRun(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()

	n, err := Run(ctx, svcs.Posts, svcs.Auth, "demo-pass", false)
	require.NoError(t, err)
	assert.Equal(t, len(DemoPosts), n)

	posts, err := svcs.Posts.ListPosts(ctx, service.ListPostsFilter{})
	require.NoError(t, err)
	require.Len(t, posts, len(DemoPosts))
	for _, p := range posts {
		assert.Equal(t, DemoEmail, p.AuthorEmail)
	}

	resolved, err := svcs.Posts.ListPosts(ctx, service.ListPostsFilter{Status: "resolved"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Sony WH-1000XM4 Headphones", resolved[0].Title)
}

func TestRunSkipsNonEmptyFeed(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()

	_, err := Run(ctx, svcs.Posts, svcs.Auth, "demo-pass", false)
	require.NoError(t, err)

	n, err := Run(ctx, svcs.Posts, svcs.Auth, "demo-pass", false)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = Run(ctx, svcs.Posts, svcs.Auth, "demo-pass", true)
	require.NoError(t, err)
	assert.Equal(t, len(DemoPosts), n, "force reuses the existing demo user")

	posts, err := svcs.Posts.ListPosts(ctx, service.ListPostsFilter{})
	require.NoError(t, err)
	assert.Len(t, posts, 2*len(DemoPosts))
}
