package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/catering-app/config"
	"github.com/yeremiapane/catering-app/controllers"
	"github.com/yeremiapane/catering-app/events"
	"github.com/yeremiapane/catering-app/feed"
	"github.com/yeremiapane/catering-app/metrics"
	"github.com/yeremiapane/catering-app/middlewares"
	"github.com/yeremiapane/catering-app/models"
	"github.com/yeremiapane/catering-app/services"
	"github.com/yeremiapane/catering-app/utils"
)

// Dependencies are the long-lived collaborators built in main. Hub, Publisher
// and Metrics are optional.
type Dependencies struct {
	DB        *gorm.DB
	Config    *config.Config
	Tokens    *utils.JWTManager
	Auth      *services.AuthService
	Hub       *feed.Hub
	Publisher events.Publisher
	Metrics   *metrics.Collector
	Limiter   *middlewares.RateLimiter
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL, nil)
	}
	auth := deps.Auth
	if auth == nil {
		auth = services.NewAuthService(deps.DB, tokens)
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = middlewares.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	publishers := events.Multi{}
	if deps.Hub != nil {
		publishers = append(publishers, deps.Hub)
	}
	if deps.Publisher != nil {
		publishers = append(publishers, deps.Publisher)
	}
	var recorder services.Recorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}

	bookingSvc := services.NewBookingService(deps.DB, publishers, recorder, services.BookingOptions{
		MinGuests:     cfg.Booking.MinGuests,
		StrictMenuIDs: cfg.Booking.StrictMenuIDs,
		Scope:         cfg.Booking.Scope,
	})
	orderSvc := services.NewOrderService(deps.DB, publishers, recorder, bookingSvc)

	userCtrl := controllers.NewUserController(auth)
	menuCtrl := controllers.NewMenuController(services.NewMenuService(deps.DB))
	bookingCtrl := controllers.NewBookingController(bookingSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	adminCtrl := controllers.NewAdminController(services.NewStatsService(deps.DB))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	if deps.Metrics != nil {
		r.Use(middlewares.MetricsMiddleware(deps.Metrics))
	}
	r.Use(middlewares.SecurityHeaders(cfg.GinMode == gin.ReleaseMode))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))

	r.GET("/ping", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "pong", nil)
	})
	if deps.Metrics != nil && cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	users := r.Group("/users")
	{
		users.POST("/register", limiter.RateLimit(), userCtrl.Register)
		users.POST("/login", limiter.RateLimit(), userCtrl.Login)
		users.GET("/profile", middlewares.AuthMiddleware(tokens), userCtrl.Profile)
		users.POST("/logout", middlewares.AuthMiddleware(tokens), userCtrl.Logout)
	}

	menus := r.Group("/menus")
	{
		menus.GET("", menuCtrl.GetAllMenus)
		menus.POST("", menuCtrl.CreateMenu)
		menus.GET("/:id", menuCtrl.GetMenuByID)
	}

	bookings := r.Group("/bookings", middlewares.AuthMiddleware(tokens))
	{
		bookings.GET("", bookingCtrl.GetMyBookings)
		bookings.POST("", middlewares.IdempotencyKey(), bookingCtrl.CreateBooking)
		bookings.GET("/:id", bookingCtrl.GetBookingByID)
		bookings.PATCH("/:id", bookingCtrl.UpdateBookingStatus)
		bookings.GET("/:id/invoice", middlewares.InvoiceLoggerMiddleware(), bookingCtrl.GetBookingInvoice)
	}

	orders := r.Group("/orders", middlewares.AuthMiddleware(tokens))
	{
		orders.GET("", orderCtrl.GetMyOrders)
		orders.POST("", orderCtrl.CreateOrder)
		orders.GET("/:id", orderCtrl.GetOrderByID)
		orders.PATCH("/:id", orderCtrl.UpdateOrderStatus)
	}

	admin := r.Group("/admin", middlewares.AuthMiddleware(tokens))
	{
		staff := middlewares.RequireRoles(models.RoleAdmin, models.RoleStaff)
		admin.GET("/bookings", staff, bookingCtrl.ListAllBookings)
		admin.GET("/orders", staff, orderCtrl.ListAllOrders)
		admin.GET("/stats", middlewares.RequireRoles(models.RoleAdmin), adminCtrl.GetDashboardStats)
	}

	if deps.Hub != nil {
		feedCtrl := controllers.NewFeedController(deps.Hub, cfg.CORSOrigins)
		r.GET("/ws/feed",
			middlewares.WebSocketAuthMiddleware(tokens),
			middlewares.RequireRoles(models.RoleAdmin, models.RoleStaff),
			feedCtrl.Connect,
		)
	}

	return r
}
