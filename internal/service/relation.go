package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// User-facing messages, kept verbatim from the original product copy.
const (
	msgFavoriteExists     = "Нельзя повторно добавлять рецепт в избранное"
	msgFavoriteMissing    = "Рецепт не добавлен в избранное"
	msgCartExists         = "Нельзя повторно добавлять рецепт в список покупок"
	msgCartMissing        = "Рецепт не добавлен в список покупок"
	msgSubscriberExists   = "Нельзя подписываться на пользователя повторно!"
	msgSubscriberMissing  = "Вы не подписаны на этого пользователя"
	msgSelfSubscription   = "Нельзя подписываться на себя!"
)

// RelationService implements the shared add/remove pattern for
// favorites, shopping-cart entries and subscriptions. The existence
// checks are a fast path; the unique indexes are the authority, so a
// lost race against the constraint surfaces as the same Conflict.
type RelationService struct {
	db *gorm.DB
}

// NewRelationService creates a new RelationService instance
func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// AddFavorite marks a recipe as a favorite of the user and returns the
// recipe for the short response shape.
func (s *RelationService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if s.IsFavorited(ctx, userID, recipeID) {
		return nil, &ConflictError{Message: msgFavoriteExists}
	}
	fav := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: msgFavoriteExists}
		}
		return nil, err
	}
	return recipe, nil
}

// RemoveFavorite deletes the (user, recipe) favorite pair
func (s *RelationService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &RelationNotFoundError{Message: msgFavoriteMissing}
	}
	return nil
}

// IsFavorited reports whether the user has favorited the recipe
func (s *RelationService) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) bool {
	var count int64
	s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count)
	return count > 0
}

// AddCartEntry puts a recipe into the user's shopping cart
func (s *RelationService) AddCartEntry(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if s.IsInShoppingCart(ctx, userID, recipeID) {
		return nil, &ConflictError{Message: msgCartExists}
	}
	entry := models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: msgCartExists}
		}
		return nil, err
	}
	return recipe, nil
}

// RemoveCartEntry takes a recipe out of the user's shopping cart
func (s *RelationService) RemoveCartEntry(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCartEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &RelationNotFoundError{Message: msgCartMissing}
	}
	return nil
}

// IsInShoppingCart reports whether the recipe is in the user's cart
func (s *RelationService) IsInShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) bool {
	var count int64
	s.db.WithContext(ctx).Model(&models.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count)
	return count > 0
}

// Subscribe subscribes a user to an author. Self-subscription is
// rejected regardless of prior state.
func (s *RelationService) Subscribe(ctx context.Context, subscriberID, targetID uuid.UUID) (*models.User, error) {
	if subscriberID == targetID {
		return nil, &ConflictError{Message: msgSelfSubscription}
	}
	target, err := s.findUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if s.IsSubscribed(ctx, subscriberID, targetID) {
		return nil, &ConflictError{Message: msgSubscriberExists}
	}
	sub := models.Subscription{SubscriberID: subscriberID, SubscribedToID: targetID}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: msgSubscriberExists}
		}
		return nil, err
	}
	return target, nil
}

// Unsubscribe removes the (subscriber, subscribed-to) pair
func (s *RelationService) Unsubscribe(ctx context.Context, subscriberID, targetID uuid.UUID) error {
	if _, err := s.findUser(ctx, targetID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("subscriber_id = ? AND subscribed_to_id = ?", subscriberID, targetID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &RelationNotFoundError{Message: msgSubscriberMissing}
	}
	return nil
}

// IsSubscribed reports whether subscriber follows the target user
func (s *RelationService) IsSubscribed(ctx context.Context, subscriberID, targetID uuid.UUID) bool {
	var count int64
	s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND subscribed_to_id = ?", subscriberID, targetID).
		Count(&count)
	return count > 0
}

// ListSubscriptions returns the authors the user follows, in
// subscription order.
func (s *RelationService) ListSubscriptions(ctx context.Context, subscriberID uuid.UUID) ([]models.User, error) {
	var subs []models.Subscription
	err := s.db.WithContext(ctx).
		Preload("SubscribedTo").
		Where("subscriber_id = ?", subscriberID).
		Order("created_at").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	users := make([]models.User, len(subs))
	for i, sub := range subs {
		users[i] = sub.SubscribedTo
	}
	return users, nil
}

func (s *RelationService) findRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "recipe"}
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *RelationService) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return &user, nil
}
