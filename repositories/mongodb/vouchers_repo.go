package mongodb

import (
	// Go Internal Packages
	"context"

	// Local Packages
	models "e-wale/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VouchersRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewVouchersRepository(client *mongo.Client, database string) *VouchersRepository {
	return &VouchersRepository{client: client, database: database, collection: "vouchers"}
}

func (r *VouchersRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// Draw atomically claims one unassigned voucher of the given type.
// FindOneAndUpdate guarantees two concurrent draws can never claim the
// same card.
func (r *VouchersRepository) Draw(ctx context.Context, voucherType, mobile, reference string) (*models.Voucher, error) {
	filter := bson.M{"voucher_type": voucherType, "assigned": false}
	update := bson.M{"$set": bson.M{"assigned": true, "assigned_to": mobile, "reference": reference}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var v models.Voucher
	err := r.coll().FindOneAndUpdate(ctx, filter, update, opts).Decode(&v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Stock counts the unassigned vouchers of a type.
func (r *VouchersRepository) Stock(ctx context.Context, voucherType string) (int64, error) {
	return r.coll().CountDocuments(ctx, bson.M{"voucher_type": voucherType, "assigned": false})
}
