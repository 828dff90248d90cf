package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/onegreenvn/retail-backoffice-services/internal/config"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

// DB is the global database instance
var DB *gorm.DB

// partialUniqueIndexes keep business keys unique among rows that are not soft deleted
var partialUniqueIndexes = []struct {
	name    string
	table   string
	columns string
}{
	{"idx_municipalities_name_unique", "municipalities", "name"},
	{"idx_branches_name_unique", "branches", "name"},
	{"idx_categories_name_unique", "categories", "name"},
	{"idx_suppliers_tax_id_unique", "suppliers", "tax_id"},
	{"idx_products_sku_unique", "products", "sku"},
	{"idx_price_tiers_product_min_unique", "price_tiers", "product_id, min_quantity"},
	{"idx_campaign_products_campaign_product_unique", "campaign_products", "campaign_id, product_id"},
	{"idx_campaign_branches_campaign_branch_unique", "campaign_branches", "campaign_id, branch_id"},
	{"idx_campaign_product_branches_unique", "campaign_product_branches", "campaign_product_id, branch_id"},
}

// checkConstraints back the counter and money invariants at the storage level
var checkConstraints = []struct {
	name       string
	table      string
	expression string
}{
	{"chk_campaign_products_sold_within_max", "campaign_products", "max_quantity IS NULL OR sold_quantity <= max_quantity"},
	{"chk_campaign_products_sold_non_negative", "campaign_products", "sold_quantity >= 0"},
	{"chk_campaigns_window", "campaigns", "end_date > start_date"},
	{"chk_stocks_quantity_non_negative", "stocks", "quantity >= 0"},
	{"chk_products_base_price_positive", "products", "base_price > 0"},
}

// defaultRoles are created on startup when missing
var defaultRoles = []struct {
	name        string
	description string
	privileges  []string
}{
	{"administrator", "Full access to the back office", models.AllPrivileges},
	{"catalog_manager", "Maintains products, categories, suppliers and prices", []string{models.PrivilegeCatalogManage}},
	{"campaign_manager", "Configures promotional campaigns", []string{models.PrivilegeCampaignsManage}},
	{"cashier", "Registers sales at a branch", []string{models.PrivilegeSalesConsume}},
}

// InitDB initializes the database connection and performs migrations
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.Host == "" || cfg.Port == "" || cfg.User == "" || cfg.Name == "" {
		return nil, fmt.Errorf("missing required database configuration. Please check your .env file")
	}

	// Configure GORM logger
	gormLogger := logger.New(
		logrus.New(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// Open database connection
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MinConns)
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	// Set global DB instance
	DB = db

	logrus.Info("Database connection established and migrations completed")
	return db, nil
}

// Migrate creates or updates the schema and seeds default roles
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Municipality{},
		&models.Branch{},
		&models.Category{},
		&models.Supplier{},
		&models.Product{},
		&models.Stock{},
		&models.PriceTier{},
		&models.Role{},
		&models.User{},
		&models.RefreshToken{},
		&models.Campaign{},
		&models.CampaignProduct{},
		&models.CampaignBranch{},
		&models.CampaignProductBranch{},
		&models.CampaignSaleLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, idx := range partialUniqueIndexes {
		err = db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s(%s) WHERE deleted_at IS NULL",
			idx.name, idx.table, idx.columns,
		)).Error
		if err != nil {
			return fmt.Errorf("failed to create unique index %s: %w", idx.name, err)
		}
	}

	for _, chk := range checkConstraints {
		var exists bool
		err = db.Raw(`
			SELECT EXISTS (
				SELECT 1
				FROM pg_constraint
				WHERE conname = ?
			)
		`, chk.name).Scan(&exists).Error
		if err != nil {
			logrus.Warnf("Failed to check constraint %s: %v", chk.name, err)
			continue
		}
		if exists {
			continue
		}
		err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", chk.table, chk.name, chk.expression)).Error
		if err != nil {
			logrus.Warnf("Failed to add constraint %s: %v", chk.name, err)
		} else {
			logrus.Infof("Successfully added constraint %s", chk.name)
		}
	}

	// Candidate lookup filters on these columns together
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_campaigns_live_window
		ON campaigns(is_active, start_date, end_date)
		WHERE deleted_at IS NULL
	`).Error
	if err != nil {
		logrus.Warnf("Failed to create campaign window index: %v", err)
	}

	for _, roleData := range defaultRoles {
		var roleExists bool
		err = db.Raw(`
			SELECT EXISTS (
				SELECT 1
				FROM roles
				WHERE name = ?
			)
		`, roleData.name).Scan(&roleExists).Error
		if err != nil {
			logrus.Warnf("Failed to check if %s role exists: %v", roleData.name, err)
			continue
		}
		if !roleExists {
			logrus.Infof("Creating default role '%s'...", roleData.name)
			role := &models.Role{
				Name:        roleData.name,
				Description: roleData.description,
				Privileges:  roleData.privileges,
			}
			if err := db.Create(role).Error; err != nil {
				logrus.Warnf("Failed to create %s role: %v", roleData.name, err)
			} else {
				logrus.Infof("Successfully created %s role", roleData.name)
			}
		}
	}

	return nil
}

// GetDB returns the global database instance
func GetDB() *gorm.DB {
	return DB
}
