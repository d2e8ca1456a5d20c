package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"hors-serie-api/controllers"
	"hors-serie-api/middleware"
	"hors-serie-api/services"
)

// Dependencies agrupa todo lo que el router necesita
type Dependencies struct {
	Properties services.PropertyService
	Contacts   services.ContactService
	Auth       services.AuthService
	Objects    services.ObjectService
	Cookie     controllers.CookieConfig
	CORSOrigin string
	Log        logrus.FieldLogger
}

// NewRouter arma el router de gin con todas las rutas
func NewRouter(deps Dependencies) *gin.Engine {
	controllers.RegisterValidator()

	propertyController := controllers.NewPropertyController(deps.Properties, deps.Log)
	contactController := controllers.NewContactController(deps.Contacts, deps.Log)
	authController := controllers.NewAuthController(deps.Auth, deps.Cookie, deps.Log)
	objectController := controllers.NewObjectController(deps.Objects, deps.Log)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(deps.Log),
		middleware.CORS(deps.CORSOrigin),
		middleware.SessionMiddleware(deps.Auth, deps.Cookie.Name, deps.Log),
	)

	requireAuth := middleware.RequireAuth()

	router.GET("/health", controllers.HealthCheck)

	// Rutas PÚBLICAS del catálogo
	// search, type y city son segmentos estáticos: gin los prueba antes que :id
	api := router.Group("/api")
	{
		api.GET("/properties", propertyController.ListProperties)
		api.GET("/properties/search", propertyController.SearchProperties)
		api.GET("/properties/type/:type", propertyController.ListPropertiesByType)
		api.GET("/properties/city/:city", propertyController.ListPropertiesByCity)
		api.GET("/properties/:id", propertyController.GetProperty)
		api.GET("/properties/:id/energy", propertyController.GetEnergyLabel)

		api.POST("/contacts", contactController.CreateContact)
		api.GET("/contacts", requireAuth, contactController.ListContacts)
	}

	// Sesión del administrador
	auth := router.Group("/api/admin")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.GET("/me", authController.Me)
	}

	// Rutas PROTEGIDAS (requieren sesión)
	admin := router.Group("/api/admin")
	admin.Use(requireAuth)
	{
		admin.POST("/properties", propertyController.CreateProperty)
		admin.PATCH("/properties/order", propertyController.ReorderProperties)
		admin.PUT("/properties/:id", propertyController.UpdateProperty)
		admin.DELETE("/properties/:id", propertyController.DeleteProperty)
		admin.POST("/upload-url", objectController.UploadURL)
	}

	// Objetos: la subida se autoriza con el token firmado de la URL
	router.PUT("/objects/upload/:token", objectController.Upload)
	router.GET("/objects/*objectPath", objectController.Serve)

	return router
}
