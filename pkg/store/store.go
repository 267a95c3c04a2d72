package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"github.com/lintang-b-s/navtraffic/pkg/util"
	"go.uber.org/zap"
)

// GraphStore. per-user route session state: the traffic-adjusted road network and the last planned path.
// a missing entry is (nil, nil), never an error.
type GraphStore interface {
	GetGraph(ctx context.Context, userId string) (*datastructure.RoadNetwork, error)
	SetGraph(ctx context.Context, userId string, graph *datastructure.RoadNetwork) error
	Exists(ctx context.Context, userId string) (bool, error)
	GetPath(ctx context.Context, userId string) (*datastructure.RouteResult, error)
	SetPath(ctx context.Context, userId string, route *datastructure.RouteResult) error
}

type BadgerGraphStore struct {
	db  *badger.DB
	ttl time.Duration
	log *zap.Logger
}

// OpenBadger. dir is ignored if inMemory
func OpenBadger(dir string, inMemory bool, log *zap.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(badgerLogger{log.Sugar()}).WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrStoreUnavailable, "open badger at %q", dir)
	}
	log.Info("graph store opened", zap.String("dir", dir), zap.Bool("in_memory", inMemory))
	return db, nil
}

// NewBadgerGraphStore. ttl <= 0 keeps sessions forever
func NewBadgerGraphStore(db *badger.DB, ttl time.Duration, log *zap.Logger) *BadgerGraphStore {
	return &BadgerGraphStore{
		db:  db,
		ttl: ttl,
		log: log,
	}
}

func graphKey(userId string) []byte {
	return []byte(pkg.GRAPH_KEY_PREFIX + userId)
}

func pathKey(userId string) []byte {
	return []byte(pkg.PATH_KEY_PREFIX + userId)
}

func (s *BadgerGraphStore) GetGraph(ctx context.Context, userId string) (*datastructure.RoadNetwork, error) {
	data, err := s.get(ctx, graphKey(userId))
	if err != nil || data == nil {
		return nil, err
	}
	graph, err := datastructure.UnmarshalRoadNetwork(data)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrStoreUnavailable, "decode graph snapshot of user %s", userId)
	}
	return graph, nil
}

func (s *BadgerGraphStore) SetGraph(ctx context.Context, userId string, graph *datastructure.RoadNetwork) error {
	data, err := graph.MarshalBinary()
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "encode graph snapshot of user %s", userId)
	}
	return s.set(ctx, graphKey(userId), data)
}

func (s *BadgerGraphStore) Exists(ctx context.Context, userId string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, util.WrapErrorf(err, util.ErrStoreUnavailable, "graph store lookup cancelled")
	}
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(graphKey(userId))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, util.WrapErrorf(err, util.ErrStoreUnavailable, "graph store lookup of user %s", userId)
	}
}

func (s *BadgerGraphStore) GetPath(ctx context.Context, userId string) (*datastructure.RouteResult, error) {
	data, err := s.get(ctx, pathKey(userId))
	if err != nil || data == nil {
		return nil, err
	}
	route, err := datastructure.UnmarshalRouteResult(data)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrStoreUnavailable, "decode path of user %s", userId)
	}
	return route, nil
}

func (s *BadgerGraphStore) SetPath(ctx context.Context, userId string, route *datastructure.RouteResult) error {
	data, err := route.MarshalBinary()
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "encode path of user %s", userId)
	}
	return s.set(ctx, pathKey(userId), data)
}

func (s *BadgerGraphStore) get(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrStoreUnavailable, "graph store read cancelled")
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrStoreUnavailable, "graph store read %s", key)
	}
	return data, nil
}

func (s *BadgerGraphStore) set(ctx context.Context, key, data []byte) error {
	if err := ctx.Err(); err != nil {
		return util.WrapErrorf(err, util.ErrStoreUnavailable, "graph store write cancelled")
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return util.WrapErrorf(err, util.ErrStoreUnavailable, "graph store write %s", key)
	}
	s.log.Debug("graph store write", zap.ByteString("key", key), zap.Int("bytes", len(data)))
	return nil
}

func (s *BadgerGraphStore) Close() error {
	return s.db.Close()
}

// badgerLogger. routes badger logs through zap
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
