package router

import (
	"comandapos/internal/config"
	"comandapos/internal/handler"
	"comandapos/internal/infra"
	"comandapos/internal/middleware"
	"comandapos/internal/model"
	"comandapos/internal/notify"
	"comandapos/internal/repository"
	"comandapos/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps agrupa lo que arma cmd/server antes de levantar HTTP.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Hub      *notify.Hub
	Notif    service.Notificador
	Jobs     service.EncoladorComprobantes
	Limiter  *middleware.RateLimiter
	Breakers []*infra.CircuitBreaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware())
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(d.DB)
	clienteRepo := repository.NewClienteRepository(d.DB)
	inventarioRepo := repository.NewInventarioRepository(d.DB)
	movimientoRepo := repository.NewMovimientoStockRepository(d.DB)
	mesaRepo := repository.NewMesaRepository(d.DB)
	facturaRepo := repository.NewFacturaRepository(d.DB)
	cocinaRepo := repository.NewCocinaRepository(d.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	// Un único Bloqueos: mesas, cocina y anulaciones serializan sobre las
	// mismas claves.
	bloqueos := service.NewBloqueos()

	inventarioSvc := service.NewInventarioService(inventarioRepo, movimientoRepo, d.Notif)
	mesaSvc := service.NewMesaService(mesaRepo, facturaRepo, cocinaRepo, productoRepo, clienteRepo, inventarioSvc, d.Notif, d.Jobs, bloqueos)
	cocinaSvc := service.NewCocinaService(cocinaRepo, facturaRepo, mesaRepo, d.Notif, bloqueos)
	facturaSvc := service.NewFacturaService(facturaRepo, productoRepo, clienteRepo, inventarioSvc, d.Notif, d.Jobs, bloqueos)

	// ── Handlers ─────────────────────────────────────────────────────────────
	mesasH := handler.NewMesasHandler(mesaSvc)
	sesionesH := handler.NewSesionesHandler(mesaSvc)
	cocinaH := handler.NewCocinaHandler(cocinaSvc)
	facturasH := handler.NewFacturasHandler(facturaSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	eventosH := handler.NewEventosHandler(d.Hub)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis, d.Breakers...))

	salon := middleware.RequireRole(model.RolMesero, model.RolCajero, model.RolSupervisor)
	caja := middleware.RequireRole(model.RolCajero, model.RolSupervisor)
	cocina := middleware.RequireRole(model.RolCocinero, model.RolSupervisor, model.RolMesero)
	gerencia := middleware.RequireRole(model.RolSupervisor)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		// Cualquier rol autenticado; el hub filtra por rol
		v1.GET("/eventos", eventosH.Stream)

		mesas := v1.Group("/mesas")
		{
			mesas.GET("", salon, mesasH.Listar)
			mesas.GET("/:id", salon, mesasH.Obtener)
			mesas.POST("/:id/abrir", salon, mesasH.Abrir)
			mesas.PATCH("/:id/estado", gerencia, mesasH.CambiarEstado)
			mesas.POST("", gerencia, mesasH.Crear)
			mesas.PUT("/:id", gerencia, mesasH.Actualizar)
			mesas.DELETE("/:id", gerencia, mesasH.Desactivar)
		}

		sesiones := v1.Group("/sesiones", salon)
		{
			sesiones.GET("", sesionesH.ListarActivas)
			sesiones.GET("/:id", sesionesH.Obtener)
			sesiones.POST("/:id/items", sesionesH.AgregarItems)
			sesiones.DELETE("/:id/items/:detalle_id", sesionesH.QuitarItem)
			sesiones.POST("/:id/liberar", sesionesH.Liberar)
			sesiones.POST("/:id/pagar", caja, sesionesH.Pagar)
		}

		coc := v1.Group("/cocina", cocina)
		{
			coc.GET("/ordenes", cocinaH.ListarOrdenes)
			coc.GET("/tickets", cocinaH.ListarTickets)
			coc.GET("/mesas", cocinaH.ListarPorMesa)
			coc.PUT("/ordenes/:id/estado", cocinaH.ActualizarOrden)
			coc.PUT("/items/:detalle_id/estado", cocinaH.ActualizarItem)
			coc.POST("/ordenes/:id/urgente", cocinaH.MarcarUrgente)
		}

		v1.POST("/ventas", caja, facturasH.RegistrarVenta)
		v1.GET("/facturas", caja, facturasH.Listar)
		v1.GET("/facturas/:id", caja, facturasH.Obtener)
		v1.DELETE("/facturas/:id", gerencia, facturasH.Anular)

		inv := v1.Group("/inventario", gerencia)
		{
			inv.GET("/alertas", inventarioH.ObtenerAlertas)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
			inv.GET("/:producto_id", inventarioH.Obtener)
			inv.PATCH("/:producto_id", inventarioH.Ajustar)
		}
	}

	// Swagger UI: sólo fuera de producción
	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
