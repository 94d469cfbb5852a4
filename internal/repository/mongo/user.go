package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	Age          int                `bson:"age"`
	Weight       float64            `bson:"weight"`
	Height       float64            `bson:"height"`
	Gender       string             `bson:"gender"`
	BMI          float64            `bson:"bmi"`
	BMR          float64            `bson:"bmr"`
	TDEE         float64            `bson:"tdee"`
	Exercises    []exerciseDoc      `bson:"exercises"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type exerciseDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	Calories int                `bson:"calories"`
	Duration int                `bson:"duration"`
	DateTime time.Time          `bson:"dateTime"`
	Steps    int                `bson:"steps"`
	Distance float64            `bson:"distance"`
}

func (d *userDoc) toModel() *model.User {
	exercises := make([]model.Exercise, 0, len(d.Exercises))
	for _, e := range d.Exercises {
		exercises = append(exercises, e.toModel())
	}
	return &model.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Age:          d.Age,
		Weight:       d.Weight,
		Height:       d.Height,
		Gender:       d.Gender,
		BMI:          d.BMI,
		BMR:          d.BMR,
		TDEE:         d.TDEE,
		Exercises:    exercises,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func (e exerciseDoc) toModel() model.Exercise {
	return model.Exercise{
		ID:       e.ID.Hex(),
		Name:     e.Name,
		Calories: e.Calories,
		Duration: e.Duration,
		DateTime: e.DateTime.UTC(),
		Steps:    e.Steps,
		Distance: e.Distance,
	}
}

type UserStore struct {
	coll *mongo.Collection
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Age:          user.Age,
		Weight:       user.Weight,
		Height:       user.Height,
		Gender:       user.Gender,
		BMI:          user.BMI,
		BMR:          user.BMR,
		TDEE:         user.TDEE,
		Exercises:    []exerciseDoc{},
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: create user: %w", err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt
	user.Exercises = []model.Exercise{}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := objectID("user", id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid}, nil, id)
}

// GetByEmail returns the earliest-created user with this email. ObjectIDs
// start with their creation second, so sorting by _id orders by age.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	return s.findOne(ctx, bson.M{"email": email}, opts, email)
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions, key string) (*model.User, error) {
	var doc userDoc
	var err error
	if opts != nil {
		err = s.coll.FindOne(ctx, filter, opts).Decode(&doc)
	} else {
		err = s.coll.FindOne(ctx, filter).Decode(&doc)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("mongo: get user %s: %w", key, err)
	}
	return doc.toModel(), nil
}

// AddExercise appends with $push so concurrent writers never overwrite
// each other.
func (s *UserStore) AddExercise(ctx context.Context, userID string, ex *model.Exercise) error {
	oid, err := objectID("user", userID)
	if err != nil {
		return err
	}

	doc := exerciseDoc{
		ID:       primitive.NewObjectID(),
		Name:     ex.Name,
		Calories: ex.Calories,
		Duration: ex.Duration,
		DateTime: ex.DateTime.UTC(),
		Steps:    ex.Steps,
		Distance: ex.Distance,
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"exercises": doc}},
	)
	if err != nil {
		return fmt.Errorf("mongo: add exercise for user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("user", userID)
	}

	ex.ID = doc.ID.Hex()
	return nil
}

func (s *UserStore) RemoveExercise(ctx context.Context, userID, exerciseID string) error {
	uid, err := objectID("user", userID)
	if err != nil {
		return err
	}
	eid, err := primitive.ObjectIDFromHex(exerciseID)
	if err != nil {
		if err := s.ensureUser(ctx, uid, userID); err != nil {
			return err
		}
		return apperror.NotFound("exercise", exerciseID)
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": uid, "exercises._id": eid},
		bson.M{"$pull": bson.M{"exercises": bson.M{"_id": eid}}},
	)
	if err != nil {
		return fmt.Errorf("mongo: remove exercise %s: %w", exerciseID, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if err := s.ensureUser(ctx, uid, userID); err != nil {
		return err
	}
	return apperror.NotFound("exercise", exerciseID)
}

func (s *UserStore) ListExercises(ctx context.Context, userID string) ([]model.Exercise, error) {
	oid, err := objectID("user", userID)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	opts := options.FindOne().SetProjection(bson.M{"exercises": 1})
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", userID)
		}
		return nil, fmt.Errorf("mongo: list exercises for user %s: %w", userID, err)
	}
	return doc.toModel().Exercises, nil
}

func (s *UserStore) ensureUser(ctx context.Context, oid primitive.ObjectID, userID string) error {
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("mongo: check user %s: %w", userID, err)
	}
	if n == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}
