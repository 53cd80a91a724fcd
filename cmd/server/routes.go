package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trustlend.backend/internal/interfaces/http/handlers"
	"trustlend.backend/internal/interfaces/http/middleware"
	"trustlend.backend/pkg/jwt"
)

type routeDeps struct {
	loanHandler        *handlers.LoanHandler
	collateralHandler  *handlers.CollateralHandler
	userHandler        *handlers.UserHandler
	eventHandler       *handlers.EventHandler
	attestationHandler *handlers.AttestationHandler
	adminHandler       *handlers.AdminHandler
	authMiddleware     gin.HandlerFunc
	metricsHandler     http.Handler
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "trustlend-backend",
			"version": "0.2.0",
		})
	})
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	if d.metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.metricsHandler))
	}

	v1 := r.Group("/api/v1")
	{
		// Loan lifecycle (protected)
		loans := v1.Group("/loans")
		loans.Use(d.authMiddleware)
		{
			loans.POST("", middleware.IdempotencyMiddleware(), d.loanHandler.IssueLoan)
			loans.GET("/:id", d.loanHandler.GetLoan)
			loans.GET("/:id/late-fee", d.loanHandler.GetLateFee)
			loans.POST("/:id/repay", middleware.IdempotencyMiddleware(), d.loanHandler.RepayLoan)
			loans.POST("/:id/default",
				middleware.RequireRole(jwt.RoleAdmin, jwt.RoleOperator),
				d.loanHandler.RecordDefault)
			loans.POST("/:id/liquidate",
				middleware.RequireRole(jwt.RoleAdmin, jwt.RoleOperator),
				d.loanHandler.LiquidateLoan)
		}

		// Collateral accounting (protected, caller-scoped)
		collateral := v1.Group("/collateral")
		collateral.Use(d.authMiddleware)
		{
			collateral.POST("/deposit", middleware.IdempotencyMiddleware(), d.collateralHandler.Deposit)
			collateral.POST("/withdraw", middleware.IdempotencyMiddleware(), d.collateralHandler.Withdraw)
			collateral.GET("/balance", d.collateralHandler.GetBalance)
		}

		// Borrower profiles (protected)
		users := v1.Group("/users")
		users.Use(d.authMiddleware)
		{
			users.GET("/:address/profile", d.userHandler.GetProfile)
			users.GET("/:address/loans", d.userHandler.GetLoans)
			users.GET("/:address/stats", d.userHandler.GetStats)
			users.GET("/:address/risk", d.userHandler.GetRiskLevel)
		}

		// Audit log (protected)
		events := v1.Group("/events")
		events.Use(d.authMiddleware)
		{
			events.GET("", d.eventHandler.ListEvents)
		}

		// Attestation feed callback (attestor only)
		attestations := v1.Group("/attestations")
		attestations.Use(d.authMiddleware, middleware.RequireRole(jwt.RoleAttestor))
		{
			attestations.POST("", d.attestationHandler.SubmitAttestation)
		}

		// Platform administration (admin only)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireRole(jwt.RoleAdmin))
		{
			admin.GET("/policy", d.adminHandler.GetPolicy)
			admin.PUT("/policy", d.adminHandler.UpdatePolicy)
			admin.POST("/attestation-key/rotate", d.adminHandler.RotateAttestationKey)
			admin.GET("/platform", d.adminHandler.GetPlatformState)
		}
	}
}
