package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"marketplace-api/internal/domain"
	customersvc "marketplace-api/internal/service/customer"
	ordersvc "marketplace-api/internal/service/order"
	paymentsvc "marketplace-api/internal/service/payment"
	productsvc "marketplace-api/internal/service/product"
	reportsvc "marketplace-api/internal/service/report"
	socialsvc "marketplace-api/internal/service/social"
	storesvc "marketplace-api/internal/service/store"
)

type customerService interface {
	Register(ctx context.Context, in customersvc.RegisterInput) (*domain.Customer, string, error)
	Login(ctx context.Context, username, password string) (*domain.Customer, string, error)
	Logout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
}

type orderService interface {
	AddToCart(ctx context.Context, customerID, productID int64) error
	RemoveFromCart(ctx context.Context, customerID, productID int64) error
	Cart(ctx context.Context, customerID int64) (*domain.Order, error)
	AttachPayment(ctx context.Context, customerID, orderID, paymentID int64) error
	Order(ctx context.Context, customerID, orderID int64) (*ordersvc.Detail, error)
	Orders(ctx context.Context, customerID int64) ([]domain.Order, error)
}

type reportService interface {
	OrdersByStatus(ctx context.Context, status string) (*reportsvc.Report[domain.Order], error)
	ProductsByBand(ctx context.Context, band string) (*reportsvc.Report[domain.Product], error)
}

type productService interface {
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, sellerID int64, in productsvc.Input) (*domain.Product, error)
	Update(ctx context.Context, sellerID, id int64, in productsvc.Input) (*domain.Product, error)
	Delete(ctx context.Context, sellerID, id int64) error
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
}

type paymentService interface {
	Create(ctx context.Context, customerID int64, in paymentsvc.Input) (*domain.Payment, error)
	List(ctx context.Context, customerID int64) ([]domain.Payment, error)
	Get(ctx context.Context, customerID, id int64) (*domain.Payment, error)
	Delete(ctx context.Context, customerID, id int64) error
}

type storeService interface {
	Create(ctx context.Context, sellerID int64, in storesvc.Input) (*domain.Store, error)
	Update(ctx context.Context, sellerID, id int64, in storesvc.Input) (*domain.Store, error)
	Get(ctx context.Context, viewerID, id int64) (*storesvc.View, error)
	List(ctx context.Context, viewerID int64) ([]storesvc.View, error)
	Favorites(ctx context.Context, viewerID int64) ([]storesvc.View, error)
	Favorite(ctx context.Context, customerID, id int64) error
	Unfavorite(ctx context.Context, customerID, id int64) error
}

type socialService interface {
	Like(ctx context.Context, customerID, productID int64) error
	Unlike(ctx context.Context, customerID, productID int64) error
	Liked(ctx context.Context, customerID int64) ([]domain.Product, error)
	Recommend(ctx context.Context, recommenderID, productID, customerID int64) (*socialsvc.Recommendation, error)
	Recommendations(ctx context.Context, customerID int64) (recommends, recommendedBy []socialsvc.Recommendation, err error)
}

// Deps are the services behind the API routes.
type Deps struct {
	CustomerSvc customerService
	OrderSvc    orderService
	ReportSvc   reportService
	ProductSvc  productService
	CategorySvc categoryService
	PaymentSvc  paymentService
	StoreSvc    storeService
	SocialSvc   socialService
}

// Options tune cross-cutting router behaviour.
type Options struct {
	CORSOrigins      []string
	AllowCredentials bool
}

type handler struct {
	Deps
	logger *zap.Logger
}

// buildRouter wires routes for the API.
func buildRouter(lg *zap.Logger, db *pgxpool.Pool, deps Deps, opts Options) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID(), requestLogger(lg), gin.Recovery(), corsMiddleware(opts))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handler{Deps: deps, logger: lg}

	router.POST("/register", h.register)
	router.POST("/login", h.login)

	api := router.Group("/", authMiddleware(lg, deps.CustomerSvc))
	api.POST("/logout", h.logout)
	api.GET("/profile", h.profile)

	api.GET("/cart", h.getCart)
	api.POST("/cart", h.addToCart)
	api.DELETE("/cart/:product_id", h.removeFromCart)

	api.GET("/orders", h.listOrders)
	api.GET("/orders/:id", h.getOrder)
	api.PUT("/orders/:id", h.completeOrder)

	api.GET("/reports/orders", h.ordersReport)
	api.GET("/reports/products", h.productsReport)

	api.GET("/paymenttypes", h.listPayments)
	api.POST("/paymenttypes", h.createPayment)
	api.GET("/paymenttypes/:id", h.getPayment)
	api.DELETE("/paymenttypes/:id", h.deletePayment)

	api.GET("/productcategories", h.listCategories)
	api.POST("/productcategories", h.createCategory)
	api.GET("/productcategories/:id", h.getCategory)

	api.GET("/products", h.listProducts)
	api.POST("/products", h.createProduct)
	api.GET("/products/liked", h.likedProducts)
	api.GET("/products/:id", h.getProduct)
	api.PUT("/products/:id", h.updateProduct)
	api.DELETE("/products/:id", h.deleteProduct)
	api.POST("/products/:id/like", h.likeProduct)
	api.DELETE("/products/:id/like", h.unlikeProduct)
	api.POST("/products/:id/recommend", h.recommendProduct)

	api.GET("/stores", h.listStores)
	api.POST("/stores", h.createStore)
	api.GET("/stores/favorites", h.favoriteStores)
	api.GET("/stores/:id", h.getStore)
	api.PUT("/stores/:id", h.updateStore)
	api.POST("/stores/:id/favorite", h.favoriteStore)
	api.DELETE("/stores/:id/favorite", h.unfavoriteStore)

	return router
}

func corsMiddleware(opts Options) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: opts.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.CORSOrigins) == 0 || (len(opts.CORSOrigins) == 1 && opts.CORSOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = opts.CORSOrigins
	}
	return cors.New(cfg)
}
