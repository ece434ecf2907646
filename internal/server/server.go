package server

import (
	"strings"

	"supermercado-backend/internal/auth"
	"supermercado-backend/internal/httpx"
	"supermercado-backend/internal/inventory"
	"supermercado-backend/internal/logger"
	"supermercado-backend/internal/models"
	"supermercado-backend/internal/sales"
	"supermercado-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

type Deps struct {
	Log         *logger.Logger
	CORSOrigins string

	Tokens *auth.TokenManager
	Lookup auth.UserLookup

	Auth      *auth.Service
	Users     *users.Service
	Inventory *inventory.Service
	Sales     *sales.Service
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "supermercado",
		ErrorHandler: httpx.ErrorHandler(d.Log),
		BodyLimit:    8 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: httpx.RequestIDKey,
	}))
	app.Use(httpx.RequestLogger(d.Log))

	origins := strings.Split(d.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	registerRoutes(app, d)
	return app
}

func registerRoutes(app *fiber.App, d Deps) {
	// Public
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Bienvenido a la API del Supermercado"})
	})
	app.Get("/permisos", func(c *fiber.Ctx) error {
		return c.JSON(permissionMap)
	})
	app.Post("/login", auth.LoginHandler(d.Auth))
	app.Post("/registro-comprador", auth.RegisterBuyerHandler(d.Auth))

	// Auth is mounted per route so unknown paths still reach the 404 handler.
	authn := auth.JWTMiddleware(d.Tokens, d.Lookup)

	adminOnly := auth.RequireRole(models.RoleAdministrator)
	anyRole := auth.RequireRole(models.RoleAdministrator, models.RoleBuyer)

	app.Post("/registro-admin", authn, adminOnly, auth.RegisterAdminHandler(d.Auth))

	// Productos
	app.Get("/productos", authn, anyRole, inventory.ListProductsHandler(d.Inventory))
	app.Post("/productos", authn, adminOnly, inventory.CreateProductHandler(d.Inventory))
	app.Get("/productos/categorias", authn, anyRole, inventory.ListCategoriesHandler(d.Inventory))
	app.Post("/productos/importar", authn, adminOnly, inventory.ImportProductsHandler(d.Inventory))
	app.Get("/productos/:id", authn, anyRole, inventory.GetProductHandler(d.Inventory))
	app.Put("/productos/:id", authn, adminOnly, inventory.UpdateProductHandler(d.Inventory))
	app.Delete("/productos/:id", authn, adminOnly, inventory.DeleteProductHandler(d.Inventory))

	// Ventas
	app.Get("/ventas", authn, adminOnly, sales.ListSalesHandler(d.Sales))
	app.Post("/ventas", authn, anyRole, sales.CreateSaleHandler(d.Sales))
	app.Get("/ventas/mis-ventas", authn, anyRole, sales.ListMySalesHandler(d.Sales))
	app.Get("/ventas/exportar", authn, adminOnly, sales.ExportSalesHandler(d.Sales))
	app.Get("/ventas/:id", authn, anyRole, sales.GetSaleHandler(d.Sales))

	// Usuarios; the self routes go first so "me" is never read as an id
	app.Get("/usuarios/me/perfil", authn, users.GetProfileHandler())
	app.Put("/usuarios/me/perfil", authn, users.UpdateProfileHandler(d.Users))
	app.Get("/usuarios", authn, adminOnly, users.ListUsersHandler(d.Users))
	app.Get("/usuarios/:id", authn, adminOnly, users.GetUserHandler(d.Users))
	app.Put("/usuarios/:id", authn, adminOnly, users.UpdateUserHandler(d.Users))
	app.Delete("/usuarios/:id", authn, adminOnly, users.DeleteUserHandler(d.Users))
}

var permissionMap = fiber.Map{
	"endpoints_publicos": []string{
		"POST /login - Iniciar sesión",
		"POST /registro-comprador - Registro de compradores",
	},
	"endpoints_solo_administrador": []string{
		"POST /registro-admin - Crear administradores",
		"POST /productos - Crear productos",
		"POST /productos/importar - Importar productos desde Excel",
		"PUT /productos/{id} - Actualizar productos",
		"DELETE /productos/{id} - Eliminar productos",
		"GET /ventas - Ver todas las ventas",
		"GET /ventas/exportar - Exportar ventas a Excel",
		"GET /usuarios - Ver todos los usuarios",
		"GET /usuarios/{id} - Ver usuario específico",
		"PUT /usuarios/{id} - Actualizar usuario",
		"DELETE /usuarios/{id} - Eliminar usuario",
	},
	"endpoints_administrador_y_comprador": []string{
		"GET /productos - Ver productos",
		"GET /productos/{id} - Ver producto específico",
		"GET /productos/categorias - Ver categorías de productos",
		"POST /ventas - Crear ventas",
		"GET /ventas/{id} - Ver venta específica",
		"GET /ventas/mis-ventas - Ver mis propias ventas",
		"GET /usuarios/me/perfil - Ver mi perfil",
		"PUT /usuarios/me/perfil - Actualizar mi perfil",
	},
}
