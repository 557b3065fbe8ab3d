package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Developer-0210/food-order-server/internal/handlers"
	authmw "github.com/Developer-0210/food-order-server/internal/middleware/auth"
)

type Deps struct {
	Auth             *authmw.Middleware
	AuthHandler      *handlers.AuthHandler
	OTPHandler       *handlers.OTPHandler
	MenuHandler      *handlers.MenuHandler
	TableHandler     *handlers.TableHandler
	OrderHandler     *handlers.OrderHandler
	QRHandler        *handlers.QRHandler
	SearchHandler    *handlers.SearchHandler
	SuperuserHandler *handlers.SuperuserHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Food Ordering API is live!"})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// Customer-facing surface, scoped by table id only.
	e.POST("/orders", d.OrderHandler.PlaceOrder)
	e.GET("/menu/public/by-table-id/:table_id", d.MenuHandler.GetMenuByTable)
	e.GET("/menu/public/categories/by-table-id/:table_id", d.MenuHandler.GetCategoriesByTable)
	e.GET("/menu/search", d.SearchHandler.Search)
	e.GET("/tables/public", d.TableHandler.GetAllTables)
	e.GET("/qr/:table_id", d.QRHandler.GenerateQR)

	e.POST("/login", d.AuthHandler.Login)

	otpGroup := e.Group("/otp")
	otpGroup.POST("/request-otp", d.OTPHandler.RequestOTP)
	otpGroup.POST("/verify-otp", d.OTPHandler.VerifyOTP)
	otpGroup.POST("/request-password-otp", d.OTPHandler.RequestPasswordOTP)
	otpGroup.POST("/verify-password-otp", d.OTPHandler.VerifyPasswordOTP)

	menu := e.Group("/menu", d.Auth.RequireAdmin)
	menu.POST("", d.MenuHandler.CreateMenuItem)
	menu.GET("", d.MenuHandler.GetMenu)
	menu.PUT("/:id", d.MenuHandler.UpdateMenuItem)
	menu.DELETE("/:id", d.MenuHandler.DeleteMenuItem)

	tables := e.Group("/tables", d.Auth.RequireAdmin)
	tables.POST("", d.TableHandler.CreateTable)
	tables.GET("", d.TableHandler.GetTables)
	tables.PUT("/:id", d.TableHandler.UpdateTable)
	tables.DELETE("/:id", d.TableHandler.DeleteTable)

	orders := e.Group("/orders", d.Auth.RequireAdmin)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/poll-new-orders", d.OrderHandler.PollNewOrders)
	orders.GET("/history", d.OrderHandler.GetHistory)
	orders.PATCH("/:id/status", d.OrderHandler.UpdateStatus)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)

	e.POST("/superuser/signup", d.SuperuserHandler.Signup)

	su := e.Group("/superuser", d.Auth.RequireSuperuser)
	su.POST("/admins", d.SuperuserHandler.CreateAdmin)
	su.GET("/admins", d.SuperuserHandler.ListAdmins)
	su.PUT("/admins/:id", d.SuperuserHandler.UpdateAdmin)
	su.DELETE("/admins/:id", d.SuperuserHandler.DeleteAdmin)
}
