package mongodb

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	models "e-wale/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionLogsRepository keeps one activity record per conversation so
// failed and completed sessions can be reported on after the volatile
// session state is gone.
type SessionLogsRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewSessionLogsRepository(client *mongo.Client, database string) *SessionLogsRepository {
	return &SessionLogsRepository{client: client, database: database, collection: "session_logs"}
}

func (r *SessionLogsRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// Start records the beginning of a conversation. Upserted so a retried
// initiation does not duplicate the log.
func (r *SessionLogsRepository) Start(ctx context.Context, sessionID, mobile string) error {
	filter := bson.M{"_id": sessionID}
	update := bson.M{
		"$set":         bson.M{"mobile": mobile, "status": models.SessionStarted},
		"$setOnInsert": bson.M{"started_at": time.Now().UTC()},
	}
	_, err := r.coll().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Close marks a conversation completed or failed and computes the
// elapsed duration from when it was first seen.
func (r *SessionLogsRepository) Close(ctx context.Context, sessionID, status, reason string) error {
	var log models.SessionLog
	err := r.coll().FindOne(ctx, bson.M{"_id": sessionID}).Decode(&log)
	if err != nil && err != mongo.ErrNoDocuments {
		return err
	}

	duration := time.Duration(0)
	if !log.StartedAt.IsZero() {
		duration = time.Since(log.StartedAt)
	}

	filter := bson.M{"_id": sessionID}
	update := bson.M{
		"$set":         bson.M{"status": status, "reason": reason, "duration": duration},
		"$setOnInsert": bson.M{"started_at": time.Now().UTC()},
	}
	_, err = r.coll().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
