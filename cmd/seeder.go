package cmd

import (
	"fmt"
	"log"
	"time"

	employeeDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/employee"
	pcDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/pc"
	userDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"pc_history", "pcs", "sessions", "employees", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		seedUser(db, &userDatamodel.User{
			Username:     "admin",
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			FirstName:    "Admin",
			LastName:     "User",
			Role:         "admin",
			IsActive:     true,
		})
		seedUser(db, &userDatamodel.User{
			Username:     "viewer",
			Email:        "viewer@example.com",
			PasswordHash: string(hash),
			FirstName:    "View",
			LastName:     "Only",
			Role:         "user",
			IsActive:     true,
		})

		employees := []*employeeDatamodel.Employee{
			{Name: "Dana Mulyana", Email: "dana@example.com", Department: "Engineering", Position: "Backend Engineer"},
			{Name: "Rizky Pratama", Email: "rizky@example.com", Department: "Engineering", Position: "Frontend Engineer"},
			{Name: "Siti Rahma", Email: "siti@example.com", Department: "Finance", Position: "Accountant"},
		}
		for _, e := range employees {
			seedEmployee(db, e)
		}

		warrantySoon := time.Now().AddDate(0, 0, 20)
		warrantyLater := time.Now().AddDate(1, 0, 0)
		purchase := time.Now().AddDate(-1, 0, 0)

		pcs := []*pcDatamodel.Pc{
			{
				AssetTag:       "PC-0001",
				EmployeeID:     &employees[0].ID,
				Brand:          "Lenovo",
				Model:          "ThinkPad T14",
				CPU:            "Ryzen 7 PRO",
				RAM:            32,
				Storage:        "1TB NVMe",
				OS:             "Ubuntu 24.04",
				SerialNumber:   "LNV-T14-0001",
				PurchaseDate:   &purchase,
				WarrantyExpiry: &warrantySoon,
				Status:         "active",
			},
			{
				AssetTag:       "PC-0002",
				EmployeeID:     &employees[1].ID,
				Brand:          "Apple",
				Model:          "MacBook Pro 14",
				CPU:            "M3 Pro",
				RAM:            36,
				Storage:        "512GB SSD",
				OS:             "macOS",
				SerialNumber:   "APL-MBP-0002",
				PurchaseDate:   &purchase,
				WarrantyExpiry: &warrantyLater,
				Status:         "active",
			},
			{
				AssetTag:     "PC-0003",
				Brand:        "Dell",
				Model:        "Latitude 5440",
				CPU:          "i7-1365U",
				RAM:          16,
				Storage:      "512GB SSD",
				OS:           "Windows 11",
				SerialNumber: "DLL-LAT-0003",
				Status:       "maintenance",
				Notes:        "keyboard replacement pending",
			},
		}
		for _, p := range pcs {
			seedPc(db, p)
		}

		fmt.Println("Seeding complete")
	},
}

func seedUser(db *gorm.DB, u *userDatamodel.User) {
	var count int64
	db.Model(&userDatamodel.User{}).Where("username = ?", u.Username).Count(&count)
	if count > 0 {
		fmt.Printf("user %s already exists, skipping\n", u.Username)
		return
	}
	if err := db.Create(u).Error; err != nil {
		log.Fatalf("failed to seed user %s: %v", u.Username, err)
	}
	fmt.Printf("Seeded user: %s\n", u.Username)
}

func seedEmployee(db *gorm.DB, e *employeeDatamodel.Employee) {
	var existing employeeDatamodel.Employee
	if err := db.Where("email = ?", e.Email).First(&existing).Error; err == nil {
		*e = existing
		fmt.Printf("employee %s already exists, skipping\n", e.Email)
		return
	}
	if err := db.Create(e).Error; err != nil {
		log.Fatalf("failed to seed employee %s: %v", e.Email, err)
	}
	fmt.Printf("Seeded employee: %s\n", e.Name)
}

func seedPc(db *gorm.DB, p *pcDatamodel.Pc) {
	var count int64
	db.Model(&pcDatamodel.Pc{}).Where("asset_tag = ?", p.AssetTag).Count(&count)
	if count > 0 {
		fmt.Printf("pc %s already exists, skipping\n", p.AssetTag)
		return
	}
	if err := db.Create(p).Error; err != nil {
		log.Fatalf("failed to seed pc %s: %v", p.AssetTag, err)
	}
	fmt.Printf("Seeded pc: %s\n", p.AssetTag)
}
