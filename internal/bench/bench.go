// Package bench drives the post service with concurrent load and reports
// latency percentiles. Used by `campusfound bench`.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KHILANO5/Campusfound/internal/app"
	"github.com/KHILANO5/Campusfound/internal/model"
	"github.com/KHILANO5/Campusfound/internal/service"
	"github.com/KHILANO5/Campusfound/pkg/apperr"
	"github.com/KHILANO5/Campusfound/pkg/logger"
)

type Options struct {
	Users   int // authors to register
	Posts   int // posts to create, spread over the authors
	Workers int // concurrent callers per phase
	Racers  int // concurrent ResolvePost calls per post
	Reads   int // feed reads
}

func (o Options) withDefaults() Options {
	if o.Users <= 0 {
		o.Users = 10
	}
	if o.Posts <= 0 {
		o.Posts = 200
	}
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.Racers <= 0 {
		o.Racers = 2
	}
	if o.Reads <= 0 {
		o.Reads = 50
	}
	return o
}

// Report 压测结果
type Report struct {
	Options   Options
	Create    []time.Duration
	Resolve   []time.Duration
	Feed      []time.Duration
	Resolved  int // successful resolves, must equal Options.Posts
	Conflicts int
	FeedSize  int
	Elapsed   time.Duration
}

// Run registers authors, creates posts, races resolves on every post and
// reads the feed. Any error other than an expected resolve conflict aborts
// the run.
func Run(ctx context.Context, svcs *app.Services, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	rep := &Report{Options: opts}
	start := time.Now()

	authors := make([]uint64, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		id := uuid.NewString()[:8]
		u, err := svcs.Auth.Register(ctx, service.RegisterInput{
			Name:     "bench " + id,
			Email:    "bench-" + id + "@campusfound.edu",
			Password: "bench-" + id,
		})
		if err != nil {
			return nil, fmt.Errorf("register author %d: %w", i, err)
		}
		authors = append(authors, u.ID)
	}

	ids := make([]uint64, opts.Posts)
	var err error
	rep.Create, err = parallel(ctx, opts.Workers, opts.Posts, func(ctx context.Context, i int) error {
		kind := model.KindLost
		if i%2 == 1 {
			kind = model.KindFound
		}
		p, err := svcs.Posts.CreatePost(ctx, service.CreatePostInput{
			Title:       fmt.Sprintf("bench item %d", i),
			Description: "generated by campusfound bench",
			Kind:        kind,
			AuthorID:    authors[i%len(authors)],
		})
		if err != nil {
			return err
		}
		ids[i] = p.ID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}

	var mu sync.Mutex
	rep.Resolve, err = parallel(ctx, opts.Workers, opts.Posts*opts.Racers, func(ctx context.Context, i int) error {
		_, err := svcs.Posts.ResolvePost(ctx, ids[i%opts.Posts])
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err == nil:
			rep.Resolved++
		case errors.Is(err, apperr.ErrConflict):
			rep.Conflicts++
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve posts: %w", err)
	}

	rep.Feed, err = parallel(ctx, opts.Workers, opts.Reads, func(ctx context.Context, _ int) error {
		rows, err := svcs.Posts.ListPosts(ctx, service.ListPostsFilter{})
		if err != nil {
			return err
		}
		mu.Lock()
		rep.FeedSize = len(rows)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	rep.Elapsed = time.Since(start)
	logger.Info("bench finished",
		zap.Int("posts", opts.Posts),
		zap.Int("resolved", rep.Resolved),
		zap.Int("conflicts", rep.Conflicts),
		zap.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}

// parallel runs fn for 0..n-1 on `workers` goroutines fed from one channel
// and returns the per-call latencies. The first error stops the feed.
func parallel(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) ([]time.Duration, error) {
	if workers > n {
		workers = n
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := make(chan int, n)
	for i := 0; i < n; i++ {
		feed <- i
	}
	close(feed)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		recs     = make([]time.Duration, 0, n)
		firstErr error
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				if ctx.Err() != nil {
					return
				}
				st := time.Now()
				err := fn(ctx, i)
				d := time.Since(st)

				mu.Lock()
				if err != nil && firstErr == nil {
					firstErr = err
					cancel()
				}
				recs = append(recs, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return recs, firstErr
}

// pct returns the p-th percentile (0..1) of vs.
func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

// Print writes a human-readable summary.
func (r *Report) Print(w io.Writer) {
	o := r.Options
	fmt.Fprintf(w, "USERS=%d POSTS=%d WORKERS=%d RACERS=%d READS=%d elapsed=%v\n",
		o.Users, o.Posts, o.Workers, o.Racers, o.Reads, r.Elapsed)
	line := func(name string, vs []time.Duration) {
		fmt.Fprintf(w, "%-8s n=%d avg=%v p50=%v p95=%v p99=%v\n",
			name, len(vs), avg(vs), pct(vs, 0.50), pct(vs, 0.95), pct(vs, 0.99))
	}
	line("create", r.Create)
	line("resolve", r.Resolve)
	line("feed", r.Feed)
	fmt.Fprintf(w, "resolved=%d conflicts=%d feed_size=%d\n", r.Resolved, r.Conflicts, r.FeedSize)
}
