package router

import (
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/config"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/handler"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/infra"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/middleware"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/service"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Domain, cfg.Env))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	terminalRepo := repository.NewTerminalRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	movementRepo := repository.NewCashMovementRepository(db)
	remittanceRepo := repository.NewCashRemittanceRepository(db)
	productRepo := repository.NewProductRepository(db)
	priceChangeRepo := repository.NewPriceChangeRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	limiter := service.NewAccountRateLimiter(userRepo, cfg.PINMaxFailures, cfg.PINLockout())
	authorizer := service.NewPINAuthorizer(userRepo, limiter)
	auditRec := service.NewAuditRecorder(auditRepo)
	notifier := service.NewQueueNotifier(dispatcher)

	authSvc := service.NewAuthService(userRepo, cfg)
	terminalSvc := service.NewTerminalService(
		terminalRepo, sessionRepo, movementRepo, remittanceRepo, userRepo,
		auditRec, authorizer, notifier, dispatcher,
	)
	priceSvc := service.NewPriceService(
		productRepo, priceChangeRepo, auditRec, authorizer, rdb, cfg.PriceChangeStepUpPct,
	)
	accountSvc := service.NewAccountService(userRepo, auditRec, authorizer)
	adminSvc := service.NewTerminalAdminService(terminalRepo, sucursalRepo, auditRec)
	remittanceSvc := service.NewRemittanceService(remittanceRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	terminalH := handler.NewTerminalHandler(terminalSvc)
	adminH := handler.NewAdminHandler(adminSvc)
	priceH := handler.NewPriceHandler(priceSvc)
	priceCheckH := handler.NewPriceCheckHandler(productRepo, rdb)
	productsH := handler.NewProductsHandler(productRepo)
	accountH := handler.NewAccountHandler(accountSvc)
	remittancesH := handler.NewRemittancesHandler(remittanceSvc)
	notificationsH := handler.NewNotificationsHandler(notificationRepo)
	auditH := handler.NewAuditHandler(auditRepo)
	opsH := handler.NewOpsHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required, read-only. Being public it gets a
	// tighter per-IP window than the authenticated API.
	r.GET("/v1/precio/:barcode", middleware.PriceCheckRateLimiter(), priceCheckH.PorBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole("cajero", "supervisor", "administrador")
	supervisorUp := middleware.RequireRole("supervisor", "administrador")
	adminOnly := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		// Terminal session lifecycle — any authenticated role can operate a
		// register; step-up rules live in the service layer.
		term := v1.Group("/terminales")
		{
			term.POST("/abrir", anyRole, terminalH.Abrir)
			term.POST("/abrir-autorizado", anyRole, terminalH.AbrirAutorizado)
			term.POST("/cerrar", anyRole, terminalH.Cerrar)
			term.POST("/forzar-cierre", adminOnly, terminalH.ForzarCierre)
			term.GET("/:id/estado", anyRole, terminalH.Estado)

			// Terminal administration
			term.GET("", supervisorUp, adminH.ListarTerminales)
			term.POST("", adminOnly, adminH.CrearTerminal)
			term.PUT("/:id", adminOnly, adminH.ActualizarTerminal)
			term.DELETE("/:id", adminOnly, adminH.EliminarTerminal)
		}

		// Price changes — cashiers may apply small corrections; the service
		// demands a supervisor PIN above the configured threshold.
		v1.POST("/precios/cambio", anyRole, priceH.CambiarPrecio)
		v1.GET("/productos", anyRole, productsH.Buscar)
		v1.GET("/productos/:id/historial-precios", anyRole, priceH.Historial)

		// Account lockouts
		cuentas := v1.Group("/cuentas")
		{
			cuentas.POST("/bloquear", adminOnly, accountH.Bloquear)
			cuentas.POST("/desbloquear", adminOnly, accountH.Desbloquear)
			cuentas.GET("/:id/estado", supervisorUp, accountH.Estado)
		}

		// Cash remittances
		remesas := v1.Group("/remesas", supervisorUp)
		{
			remesas.GET("", remittancesH.ListarPendientes)
			remesas.POST("/:id/confirmar", remittancesH.Confirmar)
		}

		// Notifications — every operator sees only their own
		v1.GET("/notificaciones", anyRole, notificationsH.ListarNoLeidas)
		v1.PATCH("/notificaciones/:id/leida", anyRole, notificationsH.MarcarLeida)

		// Audit trail — read only
		v1.GET("/auditoria", supervisorUp, auditH.Listar)

		// DLQ maintenance
		v1.POST("/ops/dlq/:cola/reencolar", adminOnly, opsH.ReencolarDLQ)

		// Sucursales
		v1.GET("/sucursales", supervisorUp, adminH.ListarSucursales)
		v1.POST("/sucursales", adminOnly, adminH.CrearSucursal)

		usuarios := v1.Group("/usuarios", adminOnly)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.PUT("/:id/pin", usuariosH.FijarPIN)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
