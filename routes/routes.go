package routes

import (
	"kobetex/admin"
	"kobetex/auth"
	"kobetex/cart"
	"kobetex/checkout"
	"kobetex/home"
	"kobetex/live"
	"kobetex/middleware"
	"kobetex/ratelim"
	"kobetex/receipts"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, h *auth.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(h.Logout))
	router.GET("/api/auth/me", middleware.Authenticate(h.Me))
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handlers) {
	router.GET("/api/cart", middleware.Authenticate(h.GetCart))
	router.POST("/api/cart", middleware.Authenticate(h.AddToCart))
	router.DELETE("/api/cart/:itemid", middleware.Authenticate(h.RemoveFromCart))
	router.POST("/api/cart/clear", middleware.Authenticate(h.ClearCart))
}

func AddCheckoutRoutes(router *httprouter.Router, s *checkout.Service, rl *ratelim.RateLimiter) {
	router.GET("/api/checkout", middleware.Authenticate(s.GetState))
	router.POST("/api/checkout/details", middleware.Authenticate(s.SubmitDetails))
	router.POST("/api/checkout/back", middleware.Authenticate(s.Back))
	router.POST("/api/checkout/payment", rl.Limit(middleware.Authenticate(s.SubmitPayment)))
}

func AddHomeRoutes(router *httprouter.Router, h *home.Handlers, rl *ratelim.RateLimiter) {
	router.GET("/api/sessions", h.GetSessions)
	router.GET("/api/resources", h.GetResources)
	router.GET("/api/notifications", h.GetNotifications)
	router.GET("/api/orders/mine", middleware.Authenticate(h.MyOrders))
	router.POST("/api/code/validate", rl.Limit(h.ValidateCode))
}

func AddReceiptRoutes(router *httprouter.Router, h *receipts.Handlers) {
	router.GET("/api/receipt/:id", middleware.Authenticate(h.GetReceipt))
	router.GET("/api/certificate/:id", middleware.Authenticate(h.GetCertificate))
}

func AddAdminRoutes(router *httprouter.Router, h *admin.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/admin/gate", rl.Limit(h.Gate))
	router.GET("/api/admin/orders", middleware.AdminOnly(h.ListOrders))
	router.PUT("/api/admin/orders/:id/status", middleware.AdminOnly(h.SetStatus))
	router.POST("/api/admin/orders/:id/regenerate", middleware.AdminOnly(h.RegenerateCode))
	router.PUT("/api/admin/orders/:id/progress", middleware.AdminOnly(h.UpdateProgress))
	router.DELETE("/api/admin/orders/:id", middleware.AdminOnly(h.DeleteOrder))
	router.DELETE("/api/admin/orders", middleware.AdminOnly(h.ClearOrders))
	router.POST("/api/admin/sessions/:id/reset", middleware.AdminOnly(h.ResetSeats))
	router.PUT("/api/admin/resources/:kind", middleware.AdminOnly(h.UploadResource))
	router.PUT("/api/admin/whatsapp", middleware.AdminOnly(h.SetWhatsAppLink))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/admin", live.WebSocketHandler(hub))
}
