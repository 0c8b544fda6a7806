package usecase

import (
	"context"
	"testing"

	"notemate/internal/notes/domain/model"
	apperrors "notemate/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockNoteRepository is a mock implementation of repository.NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *model.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) GetByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteRepository) ListByUser(ctx context.Context, userID string) ([]*model.Note, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Note), args.Error(1)
}

func (m *MockNoteRepository) Update(ctx context.Context, userID, noteID string, title, body string) error {
	args := m.Called(ctx, userID, noteID, title, body)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, userID, noteID string) (*model.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

type NoteUsecaseTestSuite struct {
	suite.Suite
	repo    *MockNoteRepository
	usecase *NoteUsecase

	ownerID primitive.ObjectID
}

func (suite *NoteUsecaseTestSuite) SetupTest() {
	suite.repo = new(MockNoteRepository)
	suite.usecase = NewNoteUsecase(suite.repo)
	suite.ownerID = primitive.NewObjectID()
}

func (suite *NoteUsecaseTestSuite) TestCreateNote_OwnerComesFromVerifiedID() {
	suite.repo.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Note) bool {
		return n.UserID == suite.ownerID && n.Title == "groceries"
	})).Return(nil)

	note, err := suite.usecase.CreateNote(context.Background(), suite.ownerID.Hex(), NoteRequest{
		Title: "  groceries  ",
		Body:  "milk, eggs",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "groceries", note.Title)
	assert.Equal(suite.T(), suite.ownerID, note.UserID)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *NoteUsecaseTestSuite) TestCreateNote_EmptyTitleRejected() {
	note, err := suite.usecase.CreateNote(context.Background(), suite.ownerID.Hex(), NoteRequest{
		Title: "   ",
		Body:  "body without title",
	})

	assert.Nil(suite.T(), note)
	assert.ErrorIs(suite.T(), err, model.ErrTitleRequired)
	suite.repo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *NoteUsecaseTestSuite) TestCreateNote_InvalidOwnerID() {
	note, err := suite.usecase.CreateNote(context.Background(), "not-an-object-id", NoteRequest{
		Title: "groceries",
	})

	assert.Nil(suite.T(), note)
	assert.Error(suite.T(), err)
	suite.repo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *NoteUsecaseTestSuite) TestGetNote_OtherOwnersNoteInvisible() {
	suite.repo.On("GetByID", mock.Anything, suite.ownerID.Hex(), "some-note").
		Return(nil, apperrors.ErrNoteNotFound)

	note, err := suite.usecase.GetNote(context.Background(), suite.ownerID.Hex(), "some-note")

	assert.Nil(suite.T(), note)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNoteNotFound)
}

func (suite *NoteUsecaseTestSuite) TestListNotes() {
	notes := []*model.Note{
		{ID: primitive.NewObjectID(), Title: "first", UserID: suite.ownerID},
		{ID: primitive.NewObjectID(), Title: "second", UserID: suite.ownerID},
	}
	suite.repo.On("ListByUser", mock.Anything, suite.ownerID.Hex()).Return(notes, nil)

	got, err := suite.usecase.ListNotes(context.Background(), suite.ownerID.Hex())

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), got, 2)
}

func (suite *NoteUsecaseTestSuite) TestUpdateNote_TrimsFields() {
	suite.repo.On("Update", mock.Anything, suite.ownerID.Hex(), "note-1", "renamed", "new body").Return(nil)

	err := suite.usecase.UpdateNote(context.Background(), suite.ownerID.Hex(), "note-1", NoteRequest{
		Title: " renamed ",
		Body:  " new body ",
	})

	assert.NoError(suite.T(), err)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *NoteUsecaseTestSuite) TestDeleteNote_EchoesRemovedDocument() {
	removed := &model.Note{ID: primitive.NewObjectID(), Title: "doomed", UserID: suite.ownerID}
	suite.repo.On("Delete", mock.Anything, suite.ownerID.Hex(), removed.ID.Hex()).Return(removed, nil)

	note, err := suite.usecase.DeleteNote(context.Background(), suite.ownerID.Hex(), removed.ID.Hex())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "doomed", note.Title)
}

func TestNoteUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(NoteUsecaseTestSuite))
}
