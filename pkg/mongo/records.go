package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/solidgate/pkg/sink"
)

// Replacer is the part of *mongo.Collection used by RecordSink.
type Replacer interface {
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
}

// RecordDocument is the stored shape of a reconciliation record.
type RecordDocument struct {
	Feed       string    `bson:"feed"`
	Key        string    `bson:"key"`
	Page       int       `bson:"page"`
	ReceivedAt time.Time `bson:"received_at"`
	Record     bson.M    `bson:"record"`
}

// RecordSink upserts one document per record, matched on {feed, key}.
type RecordSink struct {
	coll Replacer
}

var _ sink.Sink = (*RecordSink)(nil)

func NewRecordSink(coll Replacer) *RecordSink {
	return &RecordSink{coll: coll}
}

func (s *RecordSink) Write(ctx context.Context, e sink.Entry) error {
	doc, err := NewRecordDocument(e)
	if err != nil {
		return errors.Join(ErrRecordWrite, err)
	}

	filter := bson.D{{Key: "feed", Value: doc.Feed}, {Key: "key", Value: doc.Key}}
	if _, err := s.coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true)); err != nil {
		return errors.Join(ErrRecordWrite, err)
	}
	return nil
}

// Close is a no-op; the client belongs to the caller.
func (s *RecordSink) Close(context.Context) error {
	return nil
}

// NewRecordDocument converts an entry. The record goes through relaxed
// Extended JSON so numbers land as int32, int64 or double rather than strings.
func NewRecordDocument(e sink.Entry) (RecordDocument, error) {
	raw, err := e.RecordJSON()
	if err != nil {
		return RecordDocument{}, err
	}
	var rec bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &rec); err != nil {
		return RecordDocument{}, err
	}
	return RecordDocument{
		Feed:       e.Feed,
		Key:        e.Key(),
		Page:       e.Page,
		ReceivedAt: e.ReceivedAt.UTC(),
		Record:     rec,
	}, nil
}

// EnsureIndexes creates the unique {feed, key} index used by upserts.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "feed", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("feed_key_unique"),
	})
	if err != nil {
		return errors.Join(ErrIndexCreation, err)
	}
	return nil
}
