package mongodb

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	errors "e-wale/errors"
	models "e-wale/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TransactionsRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewTransactionsRepository(client *mongo.Client, database string) *TransactionsRepository {
	return &TransactionsRepository{client: client, database: database, collection: "transactions"}
}

func (r *TransactionsRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// Upsert writes the transaction keyed by its client reference. A
// repeated write for the same reference updates the single existing
// document, so duplicate callbacks can never create a second record.
func (r *TransactionsRepository) Upsert(ctx context.Context, tx *models.Transaction) error {
	now := time.Now().UTC()
	filter := bson.M{"_id": tx.ClientReference}
	update := bson.M{
		"$set": bson.M{
			"session_id":           tx.SessionID,
			"mobile":               tx.Mobile,
			"status":               tx.Status,
			"service_type":         tx.ServiceType,
			"amount_paid":          tx.AmountPaid,
			"amount_after_charges": tx.AmountAfterCharges,
			"payment_method":       tx.PaymentMethod,
			"callback_received":    tx.CallbackReceived,
			"extra":                tx.Extra,
			"updated_at":           now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.coll().UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByReference fetches one transaction by client reference.
func (r *TransactionsRepository) FindByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.coll().FindOne(ctx, bson.M{"_id": reference}).Decode(&tx)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.TransactionNotFoundErr(reference)
		}
		return nil, err
	}
	return &tx, nil
}

// FindStale returns non-terminal transactions that have not been
// updated within the given age. These are the candidates the status
// poller re-queries.
func (r *TransactionsRepository) FindStale(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	filter := bson.M{
		"status":     bson.M{"$in": []string{models.TxPending, models.TxProcessing}},
		"updated_at": bson.M{"$lt": cutoff},
	}

	cursor, err := r.coll().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err = cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
