package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/config"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/db"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/repository"
)

// Seeds an admin account and a starter menu for development setups.
func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Reservation{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.ChatMessage{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	menuRepo := repository.NewMenuRepository(gormDB)

	seedAdmin(ctx, userRepo)
	seedMenu(ctx, menuRepo)
}

func seedAdmin(ctx context.Context, repo repository.UserRepository) {
	const adminEmail = "admin@cafe.local"

	if _, err := repo.FindByEmail(ctx, adminEmail); err == nil {
		log.Printf("admin %s already present", adminEmail)
		return
	} else if err != gorm.ErrRecordNotFound {
		log.Fatalf("check admin: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin1234"), 10)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	admin := &model.User{
		Name:         "Shop Admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("seeded admin %s", adminEmail)
}

func seedMenu(ctx context.Context, repo repository.MenuRepository) {
	existing, err := repo.List(ctx, repository.MenuFilter{})
	if err != nil {
		log.Fatalf("list menu: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("menu already seeded (%d items)", len(existing))
		return
	}

	items := []model.MenuItem{
		{Name: "Espresso", Category: "coffee", Price: decimal.NewFromFloat(2.20), Available: true},
		{Name: "Flat White", Category: "coffee", Price: decimal.NewFromFloat(3.40), Available: true},
		{Name: "V60 Single Origin", Category: "brew", Price: decimal.NewFromFloat(4.50), Available: true},
		{Name: "Cold Brew", Category: "brew", Price: decimal.NewFromFloat(3.80), Available: true},
		{Name: "Almond Croissant", Category: "bakery", Price: decimal.NewFromFloat(3.10), Available: true},
		{Name: "Banana Bread", Category: "bakery", Price: decimal.NewFromFloat(2.90), Available: true},
	}
	for i := range items {
		if err := repo.Create(ctx, &items[i]); err != nil {
			log.Fatalf("create menu item %s: %v", items[i].Name, err)
		}
	}
	log.Printf("seeded %d menu items", len(items))
}
