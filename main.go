package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/abubakar8866/Bookify-Online-Book-Shopping/events"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/filestore"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/models"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/payment"
	"github.com/abubakar8866/Bookify-Online-Book-Shopping/routes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Author{},
		&models.Book{},
		&models.Review{},
		&models.Cart{},
		&models.Wishlist{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentRecord{},
		&models.ReturnReplacement{},
		&models.ReturnImage{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Payment gateway
	gateway, err := payment.NewClientFromEnv()
	if err != nil {
		log.Fatalf("❌ Payment gateway setup failed: %v", err)
	}

	// Kafka publisher (no-op when KAFKA_BROKERS is unset)
	publisher := events.NewPublisherFromEnv()
	defer publisher.Close()

	// Gin setup
	r := gin.Default()

	// Allow large file uploads (32 MB covers return evidence photos)
	r.MaxMultipartMemory = 32 << 20

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Directories
	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}

	// Serve uploaded images
	r.Static("/uploads", uploadsDir)

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:      db,
		Gateway: gateway,
		Events:  publisher,
		Files:   filestore.New(uploadsDir),
	})

	// Start nightly uploads backup at 2 AM, keep 4 days of backups
	if backupDir := os.Getenv("BACKUP_DIR"); backupDir != "" {
		go startDailyBackupAtFixedTime(uploadsDir, backupDir, 4*24*time.Hour, 2, 0)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// startDailyBackupAtFixedTime backs up uploads daily at a fixed hour and removes old backups
func startDailyBackupAtFixedTime(srcDir, backupDir string, retention time.Duration, hour, min int) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		sleepDuration := next.Sub(now)
		log.Printf("⏳ Next uploads backup scheduled at: %s", next.Format("2006-01-02 15:04:05"))
		time.Sleep(sleepDuration)

		timestamp := time.Now().Format("2006-01-02_15-04-05")
		destDir := filepath.Join(backupDir, timestamp)

		if err := copyDir(srcDir, destDir); err != nil {
			log.Printf("❌ Failed to back up uploads: %v", err)
		} else {
			log.Printf("✅ Uploads backed up to %s", destDir)
		}

		cleanupOldBackups(backupDir, retention)
	}
}

// copyDir recursively copies a folder
func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, destPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyFile copies a single file
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// cleanupOldBackups removes backup folders older than retention duration
func cleanupOldBackups(backupDir string, retention time.Duration) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		log.Printf("❌ Failed to read backup directory: %v", err)
		return
	}

	cutoff := time.Now().Add(-retention)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(backupDir, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folderPath); err != nil {
				log.Printf("❌ Failed to remove old backup %s: %v", folderPath, err)
			} else {
				log.Printf("🗑️ Removed old backup: %s", folderPath)
			}
		}
	}
}
