package routes

import (
	"net/http"

	"github.com/aingmeong/shop/internal/app"
	"github.com/aingmeong/shop/internal/handler"
	"github.com/aingmeong/shop/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	product := handler.NewProductHandler(app.ProductService)
	cart := handler.NewCartHandler(app.CartService)
	order := handler.NewOrderHandler(app.OrderService, app.Cfg.AdminEmail)

	mux := http.NewServeMux()

	// Auth flow (rate limited on credential-bearing actions)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/verify-otp", rateLimiter(auth.VerifyOTP))
	mux.HandleFunc("POST /api/auth/resend-otp", rateLimiter(auth.ResendOTP))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/session", auth.Session)

	// OAuth
	mux.HandleFunc("GET /auth/google", rateLimiter(auth.GoogleAuth))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(auth.GoogleCallback))

	// Catalog: reads are public, writes are admin-only
	mux.HandleFunc("GET /api/products", product.List)
	mux.HandleFunc("GET /api/products/{id}", product.Get)
	mux.HandleFunc("POST /api/products", middleware.RequireAdmin(product.Create))
	mux.HandleFunc("PUT /api/products/{id}", middleware.RequireAdmin(product.Update))
	mux.HandleFunc("DELETE /api/products/{id}", middleware.RequireAdmin(product.Delete))
	mux.HandleFunc("POST /api/products/{id}/image", middleware.RequireAdmin(product.UploadImage))

	// Cart
	mux.HandleFunc("GET /api/cart", middleware.RequireAuth(cart.Get))
	mux.HandleFunc("POST /api/cart", middleware.RequireAuth(cart.Add))
	mux.HandleFunc("PUT /api/cart/{productId}", middleware.RequireAuth(cart.UpdateItem))
	mux.HandleFunc("DELETE /api/cart/{productId}", middleware.RequireAuth(cart.RemoveItem))
	mux.HandleFunc("DELETE /api/cart", middleware.RequireAuth(cart.Clear))

	// Checkout and orders
	mux.HandleFunc("POST /api/checkout", middleware.RequireAuth(order.Checkout))
	mux.HandleFunc("GET /api/orders", middleware.RequireAuth(order.List))
	mux.HandleFunc("GET /api/orders/{id}", middleware.RequireAuth(order.Get))

	// Page navigation falls through here after the route guard has run.
	// Pages themselves are rendered by the storefront client, not this server.
	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (RequireAdmin and the guard read it)
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService),
		middleware.RouteGuard,
	)

	return h
}
