package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/repository"
)

var _ repository.MealRepository = (*MealStore)(nil)

type mealDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	Calories float64            `bson:"calories"`
	Protein  float64            `bson:"protein"`
	Fat      float64            `bson:"fat"`
	Category string             `bson:"category"`
}

func (d mealDoc) toModel() *model.Meal {
	return &model.Meal{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Calories: d.Calories,
		Protein:  d.Protein,
		Fat:      d.Fat,
		Category: model.MealCategory(d.Category),
	}
}

type MealStore struct {
	coll *mongo.Collection
}

func (s *MealStore) Create(ctx context.Context, meal *model.Meal) error {
	doc := mealDoc{
		ID:       primitive.NewObjectID(),
		Name:     meal.Name,
		Calories: meal.Calories,
		Protein:  meal.Protein,
		Fat:      meal.Fat,
		Category: string(meal.Category),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: create meal: %w", err)
	}
	meal.ID = doc.ID.Hex()
	return nil
}

func (s *MealStore) GetByID(ctx context.Context, id string) (*model.Meal, error) {
	oid, err := objectID("meal", id)
	if err != nil {
		return nil, err
	}

	var doc mealDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mealErr(err, id)
	}
	return doc.toModel(), nil
}

func (s *MealStore) List(ctx context.Context) ([]model.Meal, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list meals: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mealDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode meals: %w", err)
	}

	meals := make([]model.Meal, 0, len(docs))
	for _, d := range docs {
		meals = append(meals, *d.toModel())
	}
	return meals, nil
}

func (s *MealStore) Update(ctx context.Context, meal *model.Meal) error {
	oid, err := objectID("meal", meal.ID)
	if err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":     meal.Name,
		"calories": meal.Calories,
		"protein":  meal.Protein,
		"fat":      meal.Fat,
		"category": string(meal.Category),
	}})
	if err != nil {
		return fmt.Errorf("mongo: update meal %s: %w", meal.ID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("meal", meal.ID)
	}
	return nil
}

func (s *MealStore) Delete(ctx context.Context, id string) (*model.Meal, error) {
	oid, err := objectID("meal", id)
	if err != nil {
		return nil, err
	}

	var doc mealDoc
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mealErr(err, id)
	}
	return doc.toModel(), nil
}

func mealErr(err error, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound("meal", id)
	}
	return fmt.Errorf("mongo: meal %s: %w", id, err)
}
