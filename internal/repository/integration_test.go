//go:build integration
// +build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/KHILANO5/Campusfound/config"
	"github.com/KHILANO5/Campusfound/internal/model"
	"github.com/KHILANO5/Campusfound/pkg/database"
)

// setupPostgres starts a PostgreSQL container and opens it through InitDB
func setupPostgres(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("campusfound"),
		postgres.WithUsername("campusfound"),
		postgres.WithPassword("campusfound"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := database.InitDB(&config.Config{Database: config.DatabaseConfig{
		Driver:       "postgres",
		DSN:          dsn,
		MaxOpenConns: 10,
		MaxIdleConns: 2,
		AutoMigrate:  true,
		LogLevel:     "silent",
	}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestPostgresDuplicateEmail(t *testing.T) {
	db := setupPostgres(t)
	users := NewUserRepository(db)

	seedUser(t, users, "ann")
	err := users.Create(context.Background(), &model.User{Name: "ann2", Email: "ann@x.edu", PasswordHash: "h", CreatedAt: t0})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestPostgresCheckConstraints(t *testing.T) {
	db := setupPostgres(t)
	ann := seedUser(t, NewUserRepository(db), "ann")

	_, err := NewPostRepository(db).Insert(context.Background(), newPost("Bike", "stolen", ann.ID, t0))
	assert.Error(t, err)

	p := newPost("Bike", model.KindLost, 999, t0)
	_, err = NewPostRepository(db).Insert(context.Background(), p)
	assert.Error(t, err, "author must exist")
}

func TestPostgresConcurrentResolve(t *testing.T) {
	db := setupPostgres(t)
	ann := seedUser(t, NewUserRepository(db), "ann")
	posts := NewPostRepository(db)
	ctx := context.Background()

	id, err := posts.Insert(ctx, newPost("Charger", model.KindFound, ann.ID, t0))
	require.NoError(t, err)

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		updated int64
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := posts.InTx(ctx, func(repo PostRepository) error {
				n, err := repo.UpdateStatus(ctx, id, model.StatusOpen, model.StatusResolved, time.Now().UTC())
				if err != nil {
					return err
				}
				mu.Lock()
				updated += n
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), updated)

	d, err := posts.FindByIDWithAuthor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, d.Status)
	assert.Equal(t, "ann@x.edu", d.AuthorEmail)
}

func TestPostgresFeedFilters(t *testing.T) {
	db := setupPostgres(t)
	ann := seedUser(t, NewUserRepository(db), "ann")
	posts := NewPostRepository(db)
	ctx := context.Background()

	bags := "Bags"
	p := newPost("Blue Backpack", model.KindLost, ann.ID, t0)
	p.Category = &bags
	_, err := posts.Insert(ctx, p)
	require.NoError(t, err)
	_, err = posts.Insert(ctx, newPost("Keys", model.KindFound, ann.ID, t0.Add(time.Minute)))
	require.NoError(t, err)

	rows, err := posts.FindAllWithAuthor(ctx, PostFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Keys", rows[0].Title)

	rows, err = posts.FindAllWithAuthor(ctx, PostFilter{Category: "bags", Query: "backpack"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Blue Backpack", rows[0].Title)
}
