package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard-api/domain"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Board     []string           `bson:"board"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *userDoc) toDomain() domain.User {
	board := d.Board
	if board == nil {
		board = []string{}
	}
	return domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Board:        board,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// CreateUser inserts a new user record. ErrDuplicateEmail is returned
// when the email is already registered.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (domain.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		Board:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// UserByEmail fetches the user registered under email.
func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return doc.toDomain(), nil
}

// UserByID fetches a user by its hex id.
func (s *Store) UserByID(ctx context.Context, id string) (domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, ErrNotFound
	}
	var doc userDoc
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return doc.toDomain(), nil
}

// UpdateUser applies the non-nil fields of upd and returns the updated
// record.
func (s *Store) UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, ErrNotFound
	}

	set := userUpdateDoc(upd)
	var doc userDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}
	return doc.toDomain(), nil
}

func userUpdateDoc(upd domain.UserUpdate) bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["password"] = *upd.PasswordHash
	}
	return set
}

// AddBoardEmail appends email to the user's board list.
// ErrDuplicateBoardEmail is returned when the email is already present.
// The check and the append are two round trips, so concurrent calls for
// the same user can race; the guard is the only protection.
func (s *Store) AddBoardEmail(ctx context.Context, id, email string) error {
	user, err := s.UserByID(ctx, id)
	if err != nil {
		return err
	}
	for _, e := range user.Board {
		if e == email {
			return ErrDuplicateBoardEmail
		}
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	update := bson.M{
		"$push": bson.M{"board": email},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
