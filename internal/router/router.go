package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/magazine-next/internal/authz"
	"github.com/magazine-next/internal/cache"
	"github.com/magazine-next/internal/config"
	adminhandlers "github.com/magazine-next/internal/http/handlers/admin"
	publichandlers "github.com/magazine-next/internal/http/handlers/public"
	"github.com/magazine-next/internal/http/response"
	"github.com/magazine-next/internal/logger"
	"github.com/magazine-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires handlers, middleware and the route table.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mgz"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "login_too_many",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// Locally stored files (proof images, covers) are served straight from disk.
	if !strings.EqualFold(strings.TrimSpace(cfg.Storage.Driver), "s3") {
		uploadDir := strings.TrimSpace(cfg.Storage.Local.Dir)
		if uploadDir == "" {
			uploadDir = "./data/uploads"
		}
		r.Static("/uploads", uploadDir)
	}

	apiV1 := r.Group("/api/v1")
	{
		// Catalog endpoints, no auth required.
		public := apiV1.Group("/public")
		{
			public.GET("/magazines", publicHandler.ListMagazines)
			public.GET("/magazines/:slug", publicHandler.GetMagazine)
			public.GET("/magazines/:slug/editions", publicHandler.ListEditions)
			public.GET("/editions/:id", publicHandler.GetEdition)
			public.GET("/plans", publicHandler.ListPlans)
			public.GET("/plans/:slug", publicHandler.GetPlan)
			public.GET("/plans/:slug/price", publicHandler.QuotePrice)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// Subscriber endpoints.
		user := apiV1.Group("")
		user.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.Me)

			user.GET("/readers", publicHandler.ListReaders)
			user.POST("/readers", publicHandler.CreateReader)
			user.PUT("/readers/:id", publicHandler.UpdateReader)
			user.DELETE("/readers/:id", publicHandler.DeleteReader)
			user.GET("/addresses", publicHandler.ListAddresses)
			user.POST("/addresses", publicHandler.CreateAddress)
			user.PUT("/addresses/:id", publicHandler.UpdateAddress)
			user.DELETE("/addresses/:id", publicHandler.DeleteAddress)

			user.POST("/coupons/validate", publicHandler.ValidateCoupon)
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListMyOrders)
			user.GET("/orders/:id", publicHandler.GetMyOrder)
			user.POST("/orders/:id/proofs", publicHandler.AttachProof)
			user.POST("/edition-orders", publicHandler.CreateEditionOrder)
			user.GET("/edition-orders", publicHandler.ListMyEditionOrders)
			user.POST("/edition-orders/:id/proofs", publicHandler.AttachEditionProof)
			user.POST("/uploads/proof", publicHandler.UploadProof)

			user.GET("/subscriptions", publicHandler.ListMySubscriptions)
			user.GET("/subscriptions/:id", publicHandler.GetMySubscription)
			user.POST("/subscriptions/:id/cancel", publicHandler.CancelMySubscription)
			user.GET("/subscriptions/:id/dispatches", publicHandler.MyDispatches)
			user.GET("/library", publicHandler.MyLibrary)
			user.GET("/editions/:id/content", publicHandler.EditionContent)
		}

		// Back-office endpoints.
		admin := apiV1.Group("/admin")
		{
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.PUT("/authz/users/:id/roles", adminHandler.SetAuthzUserRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})

				authorized.POST("/upload", adminHandler.Upload)

				authorized.GET("/magazines", adminHandler.ListAllMagazines)
				authorized.POST("/magazines", adminHandler.CreateMagazine)
				authorized.PUT("/magazines/:id", adminHandler.UpdateMagazine)
				authorized.DELETE("/magazines/:id", adminHandler.DeleteMagazine)
				authorized.GET("/magazines/:id/editions", adminHandler.ListAllEditions)
				authorized.POST("/magazines/:id/editions", adminHandler.CreateEdition)
				authorized.PUT("/editions/:id", adminHandler.UpdateEdition)
				authorized.DELETE("/editions/:id", adminHandler.DeleteEdition)
				authorized.POST("/editions/:id/publish", adminHandler.PublishEdition)

				authorized.GET("/plans", adminHandler.ListAllPlans)
				authorized.POST("/plans", adminHandler.CreatePlan)
				authorized.PUT("/plans/:id", adminHandler.UpdatePlan)
				authorized.DELETE("/plans/:id", adminHandler.DeletePlan)
				authorized.GET("/plan-prices", adminHandler.ListPlanPrices)
				authorized.POST("/plan-prices", adminHandler.SetPlanPrice)
				authorized.DELETE("/plan-prices/:id", adminHandler.DeletePlanPrice)

				authorized.GET("/coupons", adminHandler.ListCoupons)
				authorized.POST("/coupons", adminHandler.CreateCoupon)
				authorized.GET("/coupons/:id", adminHandler.GetCoupon)
				authorized.PUT("/coupons/:id", adminHandler.UpdateCoupon)
				authorized.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

				authorized.GET("/proofs", adminHandler.ListProofs)
				authorized.POST("/proofs/:id/verify", adminHandler.VerifyProof)
				authorized.GET("/edition-proofs", adminHandler.ListEditionProofs)
				authorized.POST("/edition-proofs/:id/verify", adminHandler.VerifyEditionProof)

				authorized.GET("/dispatches", adminHandler.ListDispatches)
				authorized.GET("/dispatches/:id", adminHandler.GetDispatch)
				authorized.PATCH("/dispatches/:id", adminHandler.UpdateDispatch)
				authorized.POST("/dispatches/assign", adminHandler.AssignDispatches)

				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/edition-orders", adminHandler.ListEditionOrders)
				authorized.GET("/subscriptions", adminHandler.ListSubscriptions)
				authorized.GET("/payments", adminHandler.ListPayments)
				authorized.GET("/users", adminHandler.ListUsers)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog lists every grantable back-office permission,
// derived from the registered routes.
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
