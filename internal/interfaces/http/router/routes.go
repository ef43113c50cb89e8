package router

import (
	"github.com/gin-gonic/gin"
	"github.com/laundry/backend/internal/interfaces/http/handler"
	"github.com/laundry/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted under the API prefix
type Handlers struct {
	Auth         *handler.AuthHandler
	Customer     *handler.CustomerHandler
	Branch       *handler.BranchHandler
	ServiceArea  *handler.ServiceAreaHandler
	Branding     *handler.BrandingHandler
	Catalog      *handler.CatalogHandler
	Plan         *handler.PlanHandler
	Subscription *handler.SubscriptionHandler
	Order        *handler.OrderHandler
	Invoice      *handler.InvoiceHandler
	Payment      *handler.PaymentHandler
	Analytics    *handler.AnalyticsHandler
	Asset        *handler.AssetHandler
	User         *handler.UserHandler
	System       *handler.SystemHandler
}

// Access holds the middleware that decides who reaches which route
type Access struct {
	// Authenticate validates the bearer token on protected routes
	Authenticate gin.HandlerFunc
	// Tenant resolves the tenant; it runs after Authenticate so the token wins
	Tenant gin.HandlerFunc
	// Scoped runs once the caller and tenant are known (span attributes,
	// profiling labels, rate limiting)
	Scoped []gin.HandlerFunc
	// AuthLimit throttles the credential endpoints
	AuthLimit gin.HandlerFunc
}

// anonymous skips tenant resolution
func (a Access) anonymous(extra ...gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(a.Scoped)+len(extra))
	chain = append(chain, a.Scoped...)
	return append(chain, extra...)
}

func (a Access) public(extra ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{a.Tenant}, a.anonymous(extra...)...)
}

func (a Access) protected(extra ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{a.Authenticate}, a.public(extra...)...)
}

// Mount registers every API route group on r
func Mount(r *Router, h Handlers, a Access) {
	r.Register(authRoutes(h, a)).
		Register(storefrontRoutes(h, a)).
		Register(sharedRoutes(h, a)).
		Register(customerRoutes(h, a)).
		Register(backOfficeRoutes(h, a)).
		Register(systemRoutes(h))
}

func authRoutes(h Handlers, a Access) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")

	credentials := g.Group("credentials", "").Use(a.public(a.AuthLimit)...)
	credentials.POST("/register", h.Auth.Register)
	credentials.POST("/login", h.Auth.Login)

	// the refresh token names its own tenant
	refresh := g.Group("refresh", "").Use(a.anonymous(a.AuthLimit)...)
	refresh.POST("/refresh", h.Auth.RefreshToken)

	session := g.Group("session", "").Use(a.protected()...)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.GetCurrentUser)
	session.PUT("/password", h.Auth.ChangePassword)
	return g
}

// storefrontRoutes are readable without a token; the tenant comes from the
// X-Tenant-ID header or the configured default
func storefrontRoutes(h Handlers, a Access) *DomainGroup {
	g := NewDomainGroup("storefront", "").Use(a.public()...)
	g.GET("/branding", h.Branding.Get)
	g.GET("/branding/logo", h.Branding.Logo)
	g.GET("/service-areas/:pincode", h.ServiceArea.ResolvePincode)
	g.GET("/plans", h.Plan.ListActive)
	g.GET("/services", h.Catalog.ListActive)
	return g
}

func sharedRoutes(h Handlers, a Access) *DomainGroup {
	g := NewDomainGroup("assets", "/assets").Use(a.protected()...)
	g.GET("/:id/content", h.Asset.Content)
	return g
}

func customerRoutes(h Handlers, a Access) *DomainGroup {
	g := NewDomainGroup("customer", "").Use(a.protected(middleware.RequireCustomer())...)

	g.GET("/me/profile", h.Customer.GetProfile)
	g.PUT("/me/profile", h.Customer.UpdateProfile)
	g.POST("/me/addresses", h.Customer.AddMyAddress)
	g.DELETE("/me/addresses/:addressId", h.Customer.RemoveMyAddress)
	g.PUT("/me/addresses/:addressId/default", h.Customer.SetMyDefaultAddress)

	g.POST("/orders", h.Order.Place)
	g.GET("/orders", h.Order.List)
	g.GET("/orders/:id", h.Order.GetByID)
	g.POST("/orders/:id/cancel", h.Order.Cancel)
	g.POST("/orders/:id/feedback", h.Order.SubmitFeedback)

	g.GET("/subscriptions/me", h.Subscription.GetMine)
	g.POST("/subscriptions", h.Subscription.Subscribe)

	g.GET("/invoices", h.Invoice.List)
	g.GET("/invoices/:id", h.Invoice.GetByID)
	g.GET("/invoices/:id/pdf", h.Invoice.DownloadPDF)

	g.GET("/payments", h.Payment.List)
	return g
}

func backOfficeRoutes(h Handlers, a Access) *DomainGroup {
	g := NewDomainGroup("admin", "/admin").Use(a.protected(middleware.RequireBackOffice())...)

	customers := g.Group("customers", "/customers")
	customers.POST("", h.Customer.Create)
	customers.GET("", h.Customer.List)
	customers.GET("/:id", h.Customer.GetByID)
	customers.PUT("/:id", h.Customer.Update)
	customers.DELETE("/:id", h.Customer.Delete)
	customers.POST("/:id/activate", h.Customer.Activate)
	customers.POST("/:id/deactivate", h.Customer.Deactivate)
	customers.POST("/:id/addresses", h.Customer.AddAddress)
	customers.DELETE("/:id/addresses/:addressId", h.Customer.RemoveAddress)
	customers.PUT("/:id/addresses/:addressId/default", h.Customer.SetDefaultAddress)

	orders := g.Group("orders", "/orders")
	orders.POST("", h.Order.PlaceForCustomer)
	orders.GET("", h.Order.List)
	orders.GET("/:id", h.Order.GetByID)
	orders.PUT("/:id/items", h.Order.ReplaceItems)
	orders.POST("/:id/advance", h.Order.Advance)
	orders.POST("/:id/cancel", h.Order.Cancel)

	invoices := g.Group("invoices", "/invoices")
	invoices.POST("", h.Invoice.Generate)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PUT("/:id/items", h.Invoice.ReplaceItems)
	invoices.PUT("/:id/tax", h.Invoice.SetTaxRate)
	invoices.POST("/:id/issue", h.Invoice.Issue)
	invoices.POST("/:id/void", h.Invoice.Void)
	invoices.POST("/:id/pdf", h.Invoice.RenderPDF)
	invoices.GET("/:id/pdf", h.Invoice.DownloadPDF)

	payments := g.Group("payments", "/payments")
	payments.POST("", h.Payment.Record)
	payments.GET("", h.Payment.List)
	payments.GET("/:id", h.Payment.GetByID)
	payments.POST("/:id/capture", h.Payment.Capture)
	payments.POST("/:id/fail", h.Payment.Fail)
	payments.POST("/:id/refund", h.Payment.Refund)

	subscriptions := g.Group("subscriptions", "/subscriptions")
	subscriptions.POST("", h.Subscription.SubscribeForCustomer)
	subscriptions.GET("", h.Subscription.List)
	subscriptions.GET("/:id", h.Subscription.GetByID)
	subscriptions.POST("/:id/cancel", h.Subscription.Cancel)

	analytics := g.Group("analytics", "/analytics")
	analytics.GET("/revenue", h.Analytics.Revenue)
	analytics.GET("/dashboard", h.Analytics.Dashboard)

	configuration := g.Group("configuration", "").Use(middleware.RequireAdmin())
	configurationRoutes(configuration, h)
	return g
}

// configurationRoutes are the admin-only settings of a tenant
func configurationRoutes(g *DomainGroup, h Handlers) {
	branches := g.Group("branches", "/branches")
	branches.POST("", h.Branch.Create)
	branches.GET("", h.Branch.List)
	branches.GET("/:id", h.Branch.GetByID)
	branches.PUT("/:id", h.Branch.Update)
	branches.PUT("/:id/invoice-details", h.Branch.SetInvoiceDetails)
	branches.POST("/:id/activate", h.Branch.Activate)
	branches.POST("/:id/deactivate", h.Branch.Deactivate)
	branches.DELETE("/:id", h.Branch.Delete)

	areas := g.Group("service-areas", "/service-areas")
	areas.POST("", h.ServiceArea.Create)
	areas.GET("", h.ServiceArea.List)
	areas.GET("/:id", h.ServiceArea.GetByID)
	areas.PUT("/:id", h.ServiceArea.Update)
	areas.POST("/:id/reassign", h.ServiceArea.Reassign)
	areas.DELETE("/:id", h.ServiceArea.Delete)

	branding := g.Group("branding", "/branding")
	branding.GET("", h.Branding.Get)
	branding.PUT("", h.Branding.Update)
	branding.POST("/logo", h.Branding.UploadLogo)

	services := g.Group("services", "/services")
	services.POST("", h.Catalog.Create)
	services.GET("", h.Catalog.List)
	services.GET("/:id", h.Catalog.GetByID)
	services.PUT("/:id", h.Catalog.Update)
	services.POST("/:id/activate", h.Catalog.Activate)
	services.POST("/:id/deactivate", h.Catalog.Deactivate)

	plans := g.Group("plans", "/plans")
	plans.POST("", h.Plan.Create)
	plans.GET("", h.Plan.List)
	plans.GET("/:id", h.Plan.GetByID)
	plans.PUT("/:id", h.Plan.Update)
	plans.POST("/:id/activate", h.Plan.Activate)
	plans.POST("/:id/deactivate", h.Plan.Deactivate)

	users := g.Group("users", "/users")
	users.POST("", h.User.CreateStaff)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.POST("/:id/disable", h.User.Disable)
	users.POST("/:id/enable", h.User.Enable)

	assets := g.Group("assets", "/assets")
	assets.POST("", h.Asset.Upload)
	assets.GET("", h.Asset.List)
	assets.GET("/:id", h.Asset.GetByID)
	assets.DELETE("/:id", h.Asset.Delete)
}

func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "")
	g.GET("/health", h.System.Health)
	g.GET("/system/info", h.System.GetSystemInfo)
	return g
}
