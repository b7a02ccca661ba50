package services

import (
	"os"
	"testing"

	"ratehub-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file:svc?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// One connection so in-memory SQLite survives concurrent access
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	tables := []string{
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL,
			"email" TEXT NOT NULL UNIQUE,
			"password" TEXT NOT NULL,
			"address" TEXT,
			"role" TEXT DEFAULT 'user',
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "stores" (
			"id" TEXT PRIMARY KEY,
			"name" TEXT NOT NULL UNIQUE,
			"email" TEXT,
			"address" TEXT,
			"owner_id" TEXT NOT NULL,
			"created_at" DATETIME,
			"updated_at" DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS "ratings" (
			"id" TEXT PRIMARY KEY,
			"user_id" TEXT NOT NULL,
			"store_id" TEXT NOT NULL,
			"rating" INTEGER NOT NULL,
			"comment" TEXT,
			"created_at" DATETIME,
			"updated_at" DATETIME,
			CONSTRAINT idx_ratings_user_store UNIQUE ("user_id", "store_id")
		)`,
	}
	for _, sql := range tables {
		if err := testDB.Exec(sql).Error; err != nil {
			panic("failed to migrate test database: " + err.Error())
		}
	}

	code := m.Run()
	os.Exit(code)
}

func freshDB() *gorm.DB {
	testDB.Exec("DELETE FROM ratings")
	testDB.Exec("DELETE FROM stores")
	testDB.Exec("DELETE FROM users")
	return testDB
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Name:     "Service Test User Placeholder",
		Email:    "user-" + uuid.New().String()[:8] + "@test.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedStore(t *testing.T, db *gorm.DB, name string, ownerID uuid.UUID) models.Store {
	t.Helper()
	store := models.Store{
		ID:      uuid.New(),
		Name:    name,
		Email:   "store-" + uuid.New().String()[:8] + "@test.com",
		Address: "99 Service Road",
		OwnerID: ownerID,
	}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}
