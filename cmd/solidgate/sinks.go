package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrymomot/solidgate/pkg/archive"
	"github.com/dmitrymomot/solidgate/pkg/httpserver"
	"github.com/dmitrymomot/solidgate/pkg/mongo"
	"github.com/dmitrymomot/solidgate/pkg/opensearch"
	"github.com/dmitrymomot/solidgate/pkg/pg"
	"github.com/dmitrymomot/solidgate/pkg/redis"
	"github.com/dmitrymomot/solidgate/pkg/sink"
)

var sinkNames = []string{"stdout", "redis", "postgres", "mongo", "opensearch", "s3"}

// sinkSet is the opened sinks plus the connections behind them.
type sinkSet struct {
	sinks   []sink.Sink
	closers []func()
	checks  []httpserver.Check
}

func (s *sinkSet) check(name string, fn func(context.Context) error) {
	s.checks = append(s.checks, httpserver.Check{Name: name, Fn: fn})
}

func (s *sinkSet) add(sk sink.Sink, closer func()) {
	s.sinks = append(s.sinks, sk)
	if closer != nil {
		s.closers = append(s.closers, closer)
	}
}

func (s *sinkSet) sink() sink.Sink {
	if len(s.sinks) == 1 {
		return s.sinks[0]
	}
	return sink.Multi(s.sinks...)
}

// release closes backend connections in reverse order.
func (s *sinkSet) release() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// writerOnly hides io.Closer so JSONLines does not close stdout.
type writerOnly struct{ io.Writer }

func (a *app) openSinks(ctx context.Context, names []string, stdout io.Writer, migrate bool) (*sinkSet, error) {
	set := &sinkSet{}
	for _, name := range names {
		if err := a.openSink(ctx, set, strings.ToLower(strings.TrimSpace(name)), stdout, migrate); err != nil {
			set.release()
			return nil, fmt.Errorf("open %s sink: %w", name, err)
		}
	}
	return set, nil
}

func (a *app) openSink(ctx context.Context, set *sinkSet, name string, stdout io.Writer, migrate bool) error {
	switch name {
	case "stdout", "-":
		set.add(sink.NewJSONLines(writerOnly{stdout}), nil)

	case "redis":
		cfg, err := loadConfig[redis.Config](a)
		if err != nil {
			return err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		set.add(redis.NewStreamSink(client, cfg), func() { _ = client.Close() })
		set.check(name, redis.Healthcheck(client))

	case "postgres", "pg":
		cfg, err := loadConfig[pg.Config](a)
		if err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		if migrate {
			if err := pg.Migrate(ctx, pool, cfg, a.log); err != nil {
				pool.Close()
				return err
			}
		}
		set.add(pg.NewRecordSink(pool), pool.Close)
		set.check(name, pg.Healthcheck(pool))

	case "mongo", "mongodb":
		cfg, err := loadConfig[mongo.Config](a)
		if err != nil {
			return err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return err
		}
		disconnect := func() { _ = client.Disconnect(context.Background()) }
		coll, err := mongo.RecordsCollection(ctx, client, cfg)
		if err != nil {
			disconnect()
			return err
		}
		set.add(mongo.NewRecordSink(coll), disconnect)
		set.check(name, mongo.Healthcheck(client))

	case "opensearch":
		cfg, err := loadConfig[opensearch.Config](a)
		if err != nil {
			return err
		}
		client, err := opensearch.New(ctx, cfg)
		if err != nil {
			return err
		}
		set.add(opensearch.NewRecordSink(client, cfg), nil)
		set.check(name, opensearch.Healthcheck(client))

	case "s3", "archive":
		cfg, err := loadConfig[archive.Config](a)
		if err != nil {
			return err
		}
		client, err := archive.NewS3Client(ctx, cfg)
		if err != nil {
			return err
		}
		s3Sink, err := archive.NewS3Sink(client, cfg)
		if err != nil {
			return err
		}
		set.add(s3Sink, nil)

	default:
		return fmt.Errorf("unknown sink %q (want one of %s)", name, strings.Join(sinkNames, ", "))
	}
	return nil
}
