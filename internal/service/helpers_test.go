package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KHILANO5/Campusfound/internal/repository"
	"github.com/KHILANO5/Campusfound/pkg/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// stepClock returns base, base+step, base+2*step, ...
type stepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{next: time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC), step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// seqClock hands out the given times in order.
type seqClock struct {
	mu    sync.Mutex
	times []time.Time
}

func (c *seqClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

type fixture struct {
	db    *gorm.DB
	posts PostService
	auth  AuthService
}

func newFixture(t *testing.T, clock Clock) *fixture {
	t.Helper()
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	auth, err := NewAuthService(users, 4, clock) // bcrypt.MinCost
	require.NoError(t, err)
	return &fixture{
		db:    db,
		posts: NewPostService(repository.NewPostRepository(db), users, clock),
		auth:  auth,
	}
}

func strPtr(s string) *string { return &s }
