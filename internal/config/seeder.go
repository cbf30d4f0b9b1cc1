package config

import (
	"log"
	"time"

	"coopwelfare/internal/adapters/persistence/models"
	"coopwelfare/internal/pkg/password"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedDatabase populates the database with initial data
func SeedDatabase(db *gorm.DB, cfg *Config) error {
	if err := seedSettings(db); err != nil {
		return err
	}
	if err := seedStates(db); err != nil {
		return err
	}
	if err := seedContributionPlans(db); err != nil {
		return err
	}
	if err := seedAdminUser(db, cfg); err != nil {
		return err
	}

	log.Println("✅ Database seeded successfully")
	return nil
}

// seedSettings inserts the runtime tunables if missing
func seedSettings(db *gorm.DB) error {
	settings := []models.Setting{
		{
			Key:         models.SettingEligibilityWaitDays,
			Value:       "30",
			Type:        models.SettingTypeInteger,
			Description: "Days a member must wait after registration before health benefits apply",
			Group:       "eligibility",
		},
		{
			Key:         models.SettingContributionFineRate,
			Value:       "5.00",
			Type:        models.SettingTypeDecimal,
			Description: "Fine rate applied to late contributions (percent)",
			Group:       "contributions",
		},
		{
			Key:         models.SettingLoanInterestRate,
			Value:       "10.00",
			Type:        models.SettingTypeDecimal,
			Description: "Default annual interest rate for loans (percent)",
			Group:       "loans",
		},
	}

	for _, s := range settings {
		var count int64
		if err := db.Model(&models.Setting{}).Where("`key` = ?", s.Key).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&s).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// seedStates inserts a starter set of states with their LGAs
func seedStates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.State{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	states := map[string][]string{
		"Lagos":  {"Ikeja", "Surulere", "Epe"},
		"Kano":   {"Nassarawa", "Fagge", "Dala"},
		"Rivers": {"Port Harcourt", "Obio-Akpor", "Eleme"},
	}

	for name, lgas := range states {
		state := models.State{Name: name}
		if err := db.Create(&state).Error; err != nil {
			return err
		}
		for _, lgaName := range lgas {
			lga := models.Lga{StateID: state.ID, Name: lgaName}
			if err := db.Create(&lga).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// seedContributionPlans inserts the default plans if missing
func seedContributionPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ContributionPlan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plans := []models.ContributionPlan{
		{Name: "Basic Monthly", Amount: decimal.RequireFromString("1000.00"), Description: "Standard monthly welfare contribution", IsActive: true},
		{Name: "Family Monthly", Amount: decimal.RequireFromString("2500.00"), Description: "Monthly contribution covering registered dependents", IsActive: true},
		{Name: "Annual", Amount: decimal.RequireFromString("10000.00"), Description: "One-off yearly welfare contribution", IsActive: true},
	}

	for _, p := range plans {
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}

	return nil
}

// seedAdminUser creates the initial admin account in dev mode
func seedAdminUser(db *gorm.DB, cfg *Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adminPassword := getEnv("ADMIN_PASSWORD", "")
	if adminPassword == "" {
		if cfg.IsProd() {
			log.Println("⚠️  No ADMIN_PASSWORD set, skipping admin user seed")
			return nil
		}
		adminPassword = "admin12345"
	}

	hashed, err := password.Hash(adminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:  "admin",
		Email:     getEnv("ADMIN_EMAIL", "admin@coopwelfare.org"),
		Password:  hashed,
		Role:      models.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created [username: %s]", admin.Username)
	return nil
}
