package bench

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KHILANO5/Campusfound/config"
	"github.com/KHILANO5/Campusfound/internal/app"
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

	rep, err := Run(context.Background(), svcs, Options{Users: 3, Posts: 20, Workers: 4, Racers: 3, Reads: 5})
	require.NoError(t, err)

	assert.Len(t, rep.Create, 20)
	assert.Len(t, rep.Resolve, 60)
	assert.Len(t, rep.Feed, 5)
	assert.Equal(t, 20, rep.Resolved, "each post resolves exactly once")
	assert.Equal(t, 40, rep.Conflicts)
	assert.Equal(t, 20, rep.FeedSize)

	var buf bytes.Buffer
	rep.Print(&buf)
	assert.Contains(t, buf.String(), "resolved=20 conflicts=40 feed_size=20")
}

func TestParallelStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	recs, err := parallel(context.Background(), 2, 100, func(_ context.Context, i int) error {
		if i == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Less(t, len(recs), 100)
}

func TestPct(t *testing.T) {
	vs := []time.Duration{5, 1, 4, 2, 3, 10, 9, 8, 7, 6}
	assert.Equal(t, time.Duration(5), pct(vs, 0.50))
	assert.Equal(t, time.Duration(10), pct(vs, 0.95))
	assert.Equal(t, time.Duration(1), pct(vs, 0))
	assert.Equal(t, time.Duration(0), pct(nil, 0.5))
	assert.Equal(t, time.Duration(55)/10, avg(vs))
}
