package main

import (
	"time"

	"github.com/cartkeeper/internal/config"
	"github.com/cartkeeper/internal/logger"
	"github.com/cartkeeper/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	now := time.Now()
	products := []models.Product{
		{Name: "Mechanical Keyboard", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(89.90)), IsActive: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Wireless Mouse", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(29.50)), IsActive: true, CreatedAt: now, UpdatedAt: now},
		{Name: "USB-C Hub", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(45.00)), IsActive: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Laptop Stand", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(10.00)), IsActive: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Webcam Cover", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(3.60)), IsActive: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Legacy Dock", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(120.00)), IsActive: false, CreatedAt: now, UpdatedAt: now},
	}

	for _, product := range products {
		var count int64
		models.DB.Model(&models.Product{}).Where("name = ?", product.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Fatalf("Failed to seed product %s: %v", product.Name, err)
		}
		logger.Infow("seed_product_created", "name", product.Name, "price", product.Price.String())
	}

	logger.Infow("seed_done", "products", len(products))
}
