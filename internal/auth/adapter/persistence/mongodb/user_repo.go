package mongodb

import (
	"context"

	"notemate/internal/auth/domain/model"
	apperrors "notemate/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuthRepository implements the AuthRepository interface using MongoDB.
// Sessions are stored as an embedded array on the user document; all session
// mutations are single atomic updates ($push / $pull) so concurrent logins on
// the same user never clobber each other's sessions.
//
// There is no TTL index on the embedded sessions array. Expired sessions stay
// in storage until logout pulls them; expiry is enforced at lookup time only.
type MongoAuthRepository struct {
	db              *mongo.Database
	usersCollection *mongo.Collection
}

// NewMongoAuthRepository creates a new MongoDB auth repository
func NewMongoAuthRepository(db *mongo.Database) (*MongoAuthRepository, error) {
	repo := &MongoAuthRepository{
		db:              db,
		usersCollection: db.Collection("users"),
	}

	ctx := context.Background()

	// Email index for users (unique)
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := repo.usersCollection.Indexes().CreateOne(ctx, emailIndex); err != nil {
		return nil, err
	}

	// Session token index for the refresh lookup
	sessionTokenIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "sessions.token", Value: 1}},
	}

	if _, err := repo.usersCollection.Indexes().CreateOne(ctx, sessionTokenIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateUser creates a new user in the database
func (r *MongoAuthRepository) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Sessions == nil {
		user.Sessions = []model.Session{}
	}

	_, err := r.usersCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailTaken
		}
		return err
	}

	return nil
}

// GetUserByEmail retrieves a user by email
func (r *MongoAuthRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *MongoAuthRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	var user model.User
	err = r.usersCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// UpdateUserProfile updates the mutable profile fields of a user. Sessions and
// password hash are never touched through this path.
func (r *MongoAuthRepository) UpdateUserProfile(ctx context.Context, id, name, email string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		set["email"] = email
	}
	if len(set) == 0 {
		// A no-op patch still reports whether the user exists.
		err := r.usersCollection.FindOne(ctx, bson.M{"_id": objectID},
			options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
		if err == mongo.ErrNoDocuments {
			return apperrors.ErrUserNotFound
		}
		return err
	}

	result, err := r.usersCollection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrEmailTaken
		}
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// CreateSession appends a session to the user's session collection with a
// single atomic $push.
func (r *MongoAuthRepository) CreateSession(ctx context.Context, userID string, session model.Session) error {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	result, err := r.usersCollection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$push": bson.M{"sessions": session}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// FindUserBySessionToken looks up the user by id and confirms a session with
// exactly this token exists among that user's sessions. Absent user or session
// is the normal revoked/unknown outcome, reported as ErrSessionNotFound.
func (r *MongoAuthRepository) FindUserBySessionToken(ctx context.Context, userID, token string) (*model.User, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrSessionNotFound
	}

	var user model.User
	err = r.usersCollection.FindOne(ctx, bson.M{
		"_id":            objectID,
		"sessions.token": token,
	}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, err
	}

	return &user, nil
}

// DeleteSession removes the one session entry matching token with an atomic
// $pull. Pulling an already-absent session is a no-op success.
func (r *MongoAuthRepository) DeleteSession(ctx context.Context, userID, token string) error {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	_, err = r.usersCollection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$pull": bson.M{"sessions": bson.M{"token": token}}},
	)
	return err
}
