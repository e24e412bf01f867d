package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/akverma/order-management-api/internal/model"
)

// OrderRepo persists orders in the `orders` collection.
type OrderRepo struct{ Col *mongo.Collection }

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{Col: db.Collection("orders")}
}

// Create inserts an order and fills in its generated ID. Status defaults to
// Pending and the order date is stamped server-side.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	if o.Status == "" {
		o.Status = model.StatusPending
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	res, err := r.Col.InsertOne(ctx, o)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = oid
	}
	return nil
}

// FindAll returns every order.
func (r *OrderRepo) FindAll(ctx context.Context) ([]model.Order, error) {
	return r.find(ctx, bson.M{})
}

// FindByID fetches a single order.
func (r *OrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (model.Order, error) {
	var o model.Order
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return model.Order{}, ErrNotFound
	}
	return o, err
}

// FindByUser returns all orders placed by one user.
func (r *OrderRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	return r.find(ctx, bson.M{"user": userID})
}

// UpdateStatus changes an order's status.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := r.Col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an order.
func (r *OrderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepo) find(ctx context.Context, filter bson.M) ([]model.Order, error) {
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []model.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
