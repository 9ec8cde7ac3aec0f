package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/config"
	"github.com/casacomida/orders-app/controllers"
	"github.com/casacomida/orders-app/middlewares"
	"github.com/casacomida/orders-app/services"
)

// Services bundles everything the controllers need.
type Services struct {
	Maps     *services.MapsService
	Slots    *services.SlotService
	Delivery *services.DeliveryService
	Orders   *services.OrderService
	Settings *services.SettingsService
	Carts    *services.CartService
}

func SetupRouter(db *gorm.DB, cfg *config.Config, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares())

	authCtrl := controllers.NewAuthController(db)
	orderCtrl := controllers.NewOrderController(db, svc.Orders, svc.Slots, svc.Delivery, svc.Carts, svc.Maps, cfg.DefaultCompanyID)
	cartCtrl := controllers.NewCartController(db, svc.Carts, cfg.DefaultCompanyID)
	staffOrderCtrl := controllers.NewStaffOrderController(db, svc.Orders)
	dishCtrl := controllers.NewDishController(db)
	courierCtrl := controllers.NewCourierController(db)
	companyCtrl := controllers.NewCompanyController(db)
	userCtrl := controllers.NewUserController(db)
	cashboxCtrl := controllers.NewCashboxController(db)
	reportCtrl := controllers.NewReportController(db)
	settingsCtrl := controllers.NewSettingsController(svc.Settings, cfg.DefaultDeliveryFee, cfg.DefaultCourierPayout)

	// Public customer-facing routes: no identity, pinned to the default
	// company.
	public := r.Group("/api")
	public.Use(middlewares.NewRateLimiter(120, 60).RateLimit())
	{
		public.GET("/menu", orderCtrl.GetMenu)
		public.GET("/slots", orderCtrl.GetSlots)
		public.GET("/restaurant", orderCtrl.GetRestaurantInfo)
		public.POST("/orders", orderCtrl.CreateOrder)
		public.GET("/orders/:order_id/confirmation", orderCtrl.GetOrderConfirmation)

		public.POST("/cart/:dish_id", cartCtrl.AddToCart)
		public.PATCH("/cart/:dish_id", cartCtrl.UpdateCartQuantity)
		public.DELETE("/cart/:dish_id", cartCtrl.RemoveFromCart)
		public.GET("/cart", cartCtrl.GetCartStatus)
		public.POST("/cart/clear", cartCtrl.ClearCart)
	}

	r.POST("/api/auth/login", middlewares.NewStrictRateLimiter(), authCtrl.Login)

	// Staff routes: token required, company scope derived once from the
	// claims.
	staff := r.Group("/api/staff")
	staff.Use(middlewares.AuthMiddleware())
	{
		staff.POST("/auth/change-password", authCtrl.ChangePassword)

		staff.GET("/orders", staffOrderCtrl.ListOrders)
		staff.GET("/orders/:order_id", staffOrderCtrl.GetOrder)
		staff.POST("/orders/:order_id/courier", staffOrderCtrl.AssignCourier)
		staff.POST("/orders/:order_id/pay", staffOrderCtrl.MarkPaid)

		staff.GET("/cashbox", cashboxCtrl.GetLedger)
		staff.POST("/cashbox/expenses", cashboxCtrl.AddExpense)
		staff.GET("/cashbox/courier-report", cashboxCtrl.GetCourierReport)

		admin := staff.Group("")
		admin.Use(middlewares.RequireCompanyAdmin())
		{
			admin.GET("/dishes", dishCtrl.ListDishes)
			admin.POST("/dishes", dishCtrl.CreateDish)
			admin.PATCH("/dishes/:dish_id", dishCtrl.UpdateDish)
			admin.DELETE("/dishes/:dish_id", dishCtrl.DeleteDish)

			admin.GET("/couriers", courierCtrl.ListCouriers)
			admin.POST("/couriers", courierCtrl.CreateCourier)
			admin.PATCH("/couriers/:courier_id", courierCtrl.UpdateCourier)
			admin.DELETE("/couriers/:courier_id", courierCtrl.DeleteCourier)

			admin.GET("/users", userCtrl.ListUsers)
			admin.POST("/users", userCtrl.CreateUser)
			admin.PATCH("/users/:user_id", userCtrl.UpdateUser)
			admin.DELETE("/users/:user_id", userCtrl.DeactivateUser)

			admin.GET("/settings", settingsCtrl.GetSettings)
			admin.POST("/settings", settingsCtrl.UpdateSetting)

			admin.GET("/reports/sales", reportCtrl.GetSalesReport)
		}

		super := staff.Group("/companies")
		super.Use(middlewares.RequireSuperAdmin())
		{
			super.GET("", companyCtrl.ListCompanies)
			super.POST("", companyCtrl.CreateCompany)
			super.PATCH("/:company_id", companyCtrl.UpdateCompany)
			super.DELETE("/:company_id", companyCtrl.DeactivateCompany)
		}
	}

	return r
}
