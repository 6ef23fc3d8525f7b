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
)

// EarningsRepository persists commission log entries and withdrawal
// records. Both collections are keyed so that the balance arithmetic in
// the earnings service can be replayed from them at any time.
type EarningsRepository struct {
	client      *mongo.Client
	database    string
	commissions string
	withdrawals string
}

func NewEarningsRepository(client *mongo.Client, database string) *EarningsRepository {
	return &EarningsRepository{
		client:      client,
		database:    database,
		commissions: "commission_entries",
		withdrawals: "withdrawals",
	}
}

func (r *EarningsRepository) commColl() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.commissions)
}

func (r *EarningsRepository) wdColl() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.withdrawals)
}

// InsertCommission appends one commission log entry.
func (r *EarningsRepository) InsertCommission(ctx context.Context, entry models.CommissionEntry) error {
	entry.CreatedAt = time.Now().UTC()
	_, err := r.commColl().InsertOne(ctx, entry)
	return err
}

// ListCommissions returns all commission entries for a mobile number.
func (r *EarningsRepository) ListCommissions(ctx context.Context, mobile string) ([]models.CommissionEntry, error) {
	cursor, err := r.commColl().Find(ctx, bson.M{"mobile": mobile})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.CommissionEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkCommissionDelivered flags the entry for a client reference once
// the fulfillment provider confirms delivery.
func (r *EarningsRepository) MarkCommissionDelivered(ctx context.Context, reference string) error {
	filter := bson.M{"client_reference": reference}
	update := bson.M{"$set": bson.M{"is_delivered": true}}
	_, err := r.commColl().UpdateOne(ctx, filter, update)
	return err
}

// InsertWithdrawal records a new withdrawal attempt.
func (r *EarningsRepository) InsertWithdrawal(ctx context.Context, wd models.Withdrawal) error {
	now := time.Now().UTC()
	wd.CreatedAt = now
	wd.UpdatedAt = now
	_, err := r.wdColl().InsertOne(ctx, wd)
	return err
}

// UpdateWithdrawalStatus moves a withdrawal to a new status.
func (r *EarningsRepository) UpdateWithdrawalStatus(ctx context.Context, reference, status string, fulfilled bool) error {
	filter := bson.M{"_id": reference}
	update := bson.M{"$set": bson.M{
		"status":       status,
		"is_fulfilled": fulfilled,
		"updated_at":   time.Now().UTC(),
	}}

	res, err := r.wdColl().UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.TransactionNotFoundErr(reference)
	}
	return nil
}

// FindWithdrawal fetches one withdrawal by client reference.
func (r *EarningsRepository) FindWithdrawal(ctx context.Context, reference string) (*models.Withdrawal, error) {
	var wd models.Withdrawal
	err := r.wdColl().FindOne(ctx, bson.M{"_id": reference}).Decode(&wd)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.TransactionNotFoundErr(reference)
		}
		return nil, err
	}
	return &wd, nil
}

// ListWithdrawals returns all withdrawal records for a mobile number.
func (r *EarningsRepository) ListWithdrawals(ctx context.Context, mobile string) ([]models.Withdrawal, error) {
	cursor, err := r.wdColl().Find(ctx, bson.M{"mobile": mobile})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var wds []models.Withdrawal
	if err = cursor.All(ctx, &wds); err != nil {
		return nil, err
	}
	return wds, nil
}
