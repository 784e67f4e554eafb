package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/jaffery572/allergen-matrix-api/docs" // Import generated docs
	"github.com/jaffery572/allergen-matrix-api/internal/config"
	"github.com/jaffery572/allergen-matrix-api/internal/controllers"
	"github.com/jaffery572/allergen-matrix-api/internal/database"
	"github.com/jaffery572/allergen-matrix-api/internal/metrics"
	"github.com/jaffery572/allergen-matrix-api/internal/middleware"
	"github.com/jaffery572/allergen-matrix-api/internal/services"
	"github.com/jaffery572/allergen-matrix-api/internal/store"
)

var (
	db                 *gorm.DB
	st                 *store.Store
	itemService        services.ItemService
	csvService         services.CSVService
	transferService    services.TransferService
	shareService       services.ShareService
	takeawayController controllers.TakeawayController
	itemController     controllers.ItemController
	transferController controllers.TransferController
	publicController   controllers.PublicController
	authController     *controllers.AuthController
	configuration      *config.Config
)

// @title Allergen Matrix API
// @version 1.0
// @description Takeaway menu and allergen matrix management API
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the edit token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Set JWT secret from configuration
	middleware.SetJWTSecret(configuration.JWTSecret)

	// Initialize database connection and the document store
	setupStore(configuration)

	// Initialize services and controllers
	setupServices()

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %+v", conf)
	return conf
}

// setupStore opens the database and loads the menu document
func setupStore(conf *config.Config) {
	var err error
	db, err = database.InitDatabase(database.FromConfig(conf))
	checkPanicErr(err)

	st, err = store.New(db)
	checkPanicErr(err)
	log.Infof("Store loaded with %d takeaway(s)", len(st.Document().Takeaways))
}

// setupServices wires the services and controllers
func setupServices() {
	itemService = services.NewItemService(st)
	csvService = services.NewCSVService(st)
	transferService = services.NewTransferService(st)
	shareService = services.NewShareService(st, transferService, configuration.PublicBaseURL)

	takeawayController = controllers.NewTakeawayController(st, shareService)
	itemController = controllers.NewItemController(itemService)
	transferController = controllers.NewTransferController(csvService, transferService)
	publicController = controllers.NewPublicController(transferService)
	authController = controllers.NewAuthController(st)
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	// Initialize Gin router
	router := gin.Default()

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		publicApi := v1.Group("/public")
		{
			publicApi.GET("/menu", publicController.Menu)
			publicApi.GET("/menu/:slug", publicController.MenuBySlug)
			publicApi.GET("/allergens", publicController.Allergens)
		}

		// Templates carry no data, no gate
		v1.GET("/templates/items", transferController.ItemsTemplate)
		v1.GET("/templates/bulk", transferController.BulkTemplate)

		// PIN unlock and status stay reachable while locked
		auth := v1.Group("/auth")
		{
			auth.POST("/pin", authController.Unlock)
			auth.GET("/pin/status", authController.Status)
		}

		// Owner routes, gated by the PIN edit lock when one is set
		ownerApi := v1.Group("")
		ownerApi.Use(middleware.PINGate(st))
		{
			ownerApi.PUT("/auth/pin", authController.SetPIN)
			ownerApi.DELETE("/auth/pin", authController.DisablePIN)

			ownerApi.GET("/takeaways", takeawayController.ListTakeaways)
			ownerApi.POST("/takeaways", takeawayController.CreateTakeaway)
			ownerApi.PUT("/takeaways/:id", takeawayController.RenameTakeaway)
			ownerApi.PUT("/takeaways/:id/business-name", takeawayController.SetBusinessName)
			ownerApi.DELETE("/takeaways/:id", takeawayController.DeleteTakeaway)
			ownerApi.POST("/takeaways/:id/activate", takeawayController.ActivateTakeaway)
			ownerApi.POST("/takeaways/:id/reset", takeawayController.ResetTakeaway)
			ownerApi.GET("/takeaways/:id/share", takeawayController.ShareLinks)

			ownerApi.GET("/takeaways/:id/items", itemController.ListItems)
			ownerApi.POST("/takeaways/:id/items", itemController.CreateItem)
			ownerApi.PUT("/takeaways/:id/items/:itemId", itemController.UpdateItem)
			ownerApi.DELETE("/takeaways/:id/items/:itemId", itemController.DeleteItem)

			ownerApi.GET("/takeaways/:id/items/export", transferController.ExportItemsCSV)
			ownerApi.POST("/takeaways/:id/items/import", transferController.ImportItemsCSV)
			ownerApi.GET("/export/bulk", transferController.ExportBulkCSV)
			ownerApi.POST("/import/bulk", transferController.ImportBulkCSV)
			ownerApi.GET("/backup", transferController.ExportBackup)
			ownerApi.POST("/restore", transferController.ImportBackup)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "allergen-matrix-api",
	})
}
