package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akverma/order-management-api/internal/model"
)

// UserRepo persists user accounts in the `users` collection.
type UserRepo struct{ Col *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{Col: db.Collection("users")}
}

// EnsureIndexes creates the unique index on username. Safe to call on every
// startup; index creation is idempotent.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a new user and fills in its generated ID. A duplicate
// username yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := r.Col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// FindByUsername fetches a user by normalized email username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByID fetches a user by its object id.
func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByRefreshToken fetches the user currently holding the given refresh
// token. The stored value is the sole server-side record of a live session.
func (r *UserRepo) FindByRefreshToken(ctx context.Context, token string) (model.User, error) {
	return r.findOne(ctx, bson.M{"refreshToken": token})
}

// FindByResetToken fetches the user holding a pending password-reset token.
func (r *UserRepo) FindByResetToken(ctx context.Context, token string) (model.User, error) {
	return r.findOne(ctx, bson.M{"resetToken": token})
}

// Activate marks the account as activated and clears the pending
// activation token in a single document update.
func (r *UserRepo) Activate(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, bson.M{
		"$set":   bson.M{"isActivated": true, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"activateToken": ""},
	})
}

// SetActivateToken stores a fresh activation token, overwriting any prior one.
func (r *UserRepo) SetActivateToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.setField(ctx, id, "activateToken", token)
}

// SetRefreshToken stores the user's live refresh token, overwriting any
// prior value. Single active session: a concurrent login silently replaces
// the other session's token, last writer wins.
func (r *UserRepo) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.setField(ctx, id, "refreshToken", token)
}

// ClearRefreshToken revokes the user's session server-side.
func (r *UserRepo) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, bson.M{
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
		"$unset": bson.M{"refreshToken": ""},
	})
}

// SetResetToken stores a pending password-reset token.
func (r *UserRepo) SetResetToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.setField(ctx, id, "resetToken", token)
}

// UpdatePassword writes the new password hash and deletes the consumed
// reset token so it cannot be replayed.
func (r *UserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.update(ctx, id, bson.M{
		"$set":   bson.M{"password": hash, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"resetToken": ""},
	})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	var u model.User
	err := r.Col.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func (r *UserRepo) setField(ctx context.Context, id primitive.ObjectID, field, value string) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{field: value, "updatedAt": time.Now().UTC()},
	})
}

func (r *UserRepo) update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.Col.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
