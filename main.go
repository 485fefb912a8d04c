package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"bikeshop-backend/config"
	"bikeshop-backend/controllers"
	"bikeshop-backend/ledger"
	"bikeshop-backend/routes"
	"bikeshop-backend/services"
	"bikeshop-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
}

func main() {
	ctx := context.Background()

	backends, backendName, err := buildBackends()
	if err != nil {
		log.Fatalf("Failed to set up storage: %v", err)
	}
	primary := backends[backendName]
	log.Printf("Using %s storage backend", backendName)

	db, err := ledger.New(ctx, primary)
	if err != nil {
		log.Fatalf("Failed to load database: %v", err)
	}

	catalogStore, ok := primary.(store.CatalogStore)
	if !ok {
		log.Fatalf("Backend %s cannot store the service catalog", backendName)
	}
	catalog, err := ledger.NewCatalog(ctx, catalogStore)
	if err != nil {
		log.Fatalf("Failed to load service catalog: %v", err)
	}

	backupDir := os.Getenv("BACKUP_DIR")
	if backupDir == "" {
		backupDir = "backups"
	}
	services.NewBackupService(db, backupDir).StartScheduler()

	app := &controllers.App{
		Ledger:   db,
		Catalog:  catalog,
		Notifier: services.NewNotifier(),
		Backends: backends,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter(app)
	printRoutes(r)
	r.Run(":" + port)
}

// buildBackends opens every configured storage backend and picks the primary
// one from STORAGE_BACKEND. The others stay available as migration targets.
func buildBackends() (map[string]store.Store, string, error) {
	backends := map[string]store.Store{
		"memory": store.NewMemory(),
	}

	dataFile := os.Getenv("DATA_FILE")
	if dataFile == "" {
		dataFile = "data/workshop.json"
	}
	backends["file"] = store.NewFile(dataFile)

	if os.Getenv("DB_URL") != "" {
		db, err := config.ConnectDB()
		if err != nil {
			return nil, "", err
		}
		pg, err := store.NewPostgres(db)
		if err != nil {
			return nil, "", err
		}
		backends["postgres"] = pg
	}

	name := os.Getenv("STORAGE_BACKEND")
	if name == "" {
		name = "file"
	}
	if _, ok := backends[name]; !ok {
		return nil, "", fmt.Errorf("storage backend %q is not configured", name)
	}
	return backends, name, nil
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
