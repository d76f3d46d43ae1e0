package social

import (
	"context"

	"marketplace-api/internal/domain"
)

// Repository persists the customer-to-product and customer-to-seller links.
type Repository interface {
	Like(ctx context.Context, customerID, productID int64) error
	Unlike(ctx context.Context, customerID, productID int64) error
	LikedProductIDs(ctx context.Context, customerID int64) ([]int64, error)

	Favorite(ctx context.Context, customerID, sellerID int64) error
	Unfavorite(ctx context.Context, customerID, sellerID int64) error
	FavoriteSellerIDs(ctx context.Context, customerID int64) ([]int64, error)

	Recommend(ctx context.Context, rec domain.Recommendation) (*domain.Recommendation, error)
	RecommendationsBy(ctx context.Context, recommenderID int64) ([]domain.Recommendation, error)
	RecommendationsFor(ctx context.Context, customerID int64) ([]domain.Recommendation, error)
}
