package mongodb

import (
	"context"

	"notemate/internal/notes/domain/model"
	apperrors "notemate/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNoteRepository implements the NoteRepository interface using MongoDB
type MongoNoteRepository struct {
	notesCollection *mongo.Collection
}

// NewMongoNoteRepository creates a new MongoDB note repository
func NewMongoNoteRepository(db *mongo.Database) (*MongoNoteRepository, error) {
	repo := &MongoNoteRepository{
		notesCollection: db.Collection("notes"),
	}

	// Owner index: every query filters on _userId
	ownerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "_userId", Value: 1}},
		Options: options.Index(),
	}

	if _, err := repo.notesCollection.Indexes().CreateOne(context.Background(), ownerIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// Create inserts a new note
func (r *MongoNoteRepository) Create(ctx context.Context, note *model.Note) error {
	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}

	_, err := r.notesCollection.InsertOne(ctx, note)
	return err
}

// GetByID retrieves a note by id, scoped to its owner
func (r *MongoNoteRepository) GetByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	filter, err := ownerFilter(userID, noteID)
	if err != nil {
		return nil, err
	}

	var note model.Note
	if err := r.notesCollection.FindOne(ctx, filter).Decode(&note); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, err
	}

	return &note, nil
}

// ListByUser retrieves all notes owned by a user
func (r *MongoNoteRepository) ListByUser(ctx context.Context, userID string) ([]*model.Note, error) {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrNoteNotFound
	}

	cursor, err := r.notesCollection.Find(ctx, bson.M{"_userId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notes := []*model.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}

	return notes, nil
}

// Update patches the title and body of an owned note
func (r *MongoNoteRepository) Update(ctx context.Context, userID, noteID string, title, body string) error {
	filter, err := ownerFilter(userID, noteID)
	if err != nil {
		return err
	}

	set := bson.M{}
	if title != "" {
		set["title"] = title
	}
	if body != "" {
		set["body"] = body
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.notesCollection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNoteNotFound
	}

	return nil
}

// Delete removes an owned note and returns the removed document
func (r *MongoNoteRepository) Delete(ctx context.Context, userID, noteID string) (*model.Note, error) {
	filter, err := ownerFilter(userID, noteID)
	if err != nil {
		return nil, err
	}

	var note model.Note
	if err := r.notesCollection.FindOneAndDelete(ctx, filter).Decode(&note); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, err
	}

	return &note, nil
}

// ownerFilter builds the owner-scoped filter for a single note.
func ownerFilter(userID, noteID string) (bson.M, error) {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrNoteNotFound
	}
	id, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return nil, apperrors.ErrNoteNotFound
	}
	return bson.M{"_id": id, "_userId": ownerID}, nil
}
