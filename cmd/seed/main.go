// Command seed fills an empty database with demo data: stores with their
// warehouses, a staff roster per role, a jewelry catalog and opening stock.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/partner"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/gemline/backoffice/internal/infrastructure/config"
	"github.com/gemline/backoffice/internal/infrastructure/logger"
	"github.com/gemline/backoffice/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type options struct {
	stores    int
	staff     int
	products  int
	suppliers int
	password  string
	seed      uint64
}

var categories = []struct{ code, name string }{
	{"RING", "Rings"},
	{"NECK", "Necklaces"},
	{"EARR", "Earrings"},
	{"BRAC", "Bracelets"},
	{"WATC", "Watches"},
}

var metals = []catalog.Metal{
	catalog.MetalGold, catalog.MetalWhiteGold, catalog.MetalRoseGold,
	catalog.MetalSilver, catalog.MetalPlatinum,
}

func main() {
	var opts options
	flag.IntVar(&opts.stores, "stores", 3, "Number of stores")
	flag.IntVar(&opts.staff, "staff", 4, "Sales associates per store")
	flag.IntVar(&opts.products, "products", 40, "Number of products")
	flag.IntVar(&opts.suppliers, "suppliers", 4, "Number of suppliers")
	flag.StringVar(&opts.password, "password", "demo1234", "Password of every seeded user")
	flag.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 = random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	log := logger.Must(logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stdout"})
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	if db.Driver() == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	var existing int64
	if err := db.DB.Model(&store.Store{}).Count(&existing).Error; err != nil {
		log.Fatal("Failed to inspect database", zap.Error(err))
	}
	if existing > 0 {
		log.Warn("Database already has stores, refusing to seed", zap.Int64("stores", existing))
		return
	}

	s := &seeder{
		ctx:  context.Background(),
		db:   db.DB,
		fake: gofakeit.New(opts.seed),
		opts: opts,
		log:  log,
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		s.db = tx
		return s.run()
	})
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seed complete", zap.String("login", "admin / "+opts.password))
}

type seeder struct {
	ctx  context.Context
	db   *gorm.DB
	fake *gofakeit.Faker
	opts options
	log  *zap.Logger

	usernames map[string]bool
}

func (s *seeder) run() error {
	s.usernames = map[string]bool{}

	if _, err := s.user("admin", identity.RoleDistrictManager, nil); err != nil {
		return err
	}

	vault, err := inventory.NewWarehouse("VAULT", "Central Vault", nil)
	if err != nil {
		return err
	}
	warehouses := []*inventory.Warehouse{vault}
	if err := persistence.NewGormWarehouseRepository(s.db).Save(s.ctx, vault); err != nil {
		return err
	}

	for i := 1; i <= s.opts.stores; i++ {
		wh, err := s.store(i)
		if err != nil {
			return err
		}
		warehouses = append(warehouses, wh)
	}

	suppliers, err := s.suppliers()
	if err != nil {
		return err
	}
	products, err := s.catalog(suppliers)
	if err != nil {
		return err
	}
	return s.stock(warehouses, products)
}

// store creates the store, its backroom warehouse and its staff
func (s *seeder) store(n int) (*inventory.Warehouse, error) {
	city := s.fake.City()
	st, err := store.NewStore(fmt.Sprintf("S%02d", n), city+" "+s.fake.RandomString([]string{"Plaza", "Mall", "Avenue", "Square"}))
	if err != nil {
		return nil, err
	}
	opened := s.fake.DateRange(time.Now().AddDate(-10, 0, 0), time.Now().AddDate(-1, 0, 0))
	if err := st.Update(st.Name, s.fake.Street(), city, s.fake.Phone(), &opened); err != nil {
		return nil, err
	}

	manager, err := s.user("", identity.RoleStoreManager, &st.ID)
	if err != nil {
		return nil, err
	}
	st.ManagerID = &manager.ID
	if err := persistence.NewGormStoreRepository(s.db).Save(s.ctx, st); err != nil {
		return nil, err
	}

	wh, err := inventory.NewWarehouse(st.WarehouseCode(), st.Name+" Backroom", &st.ID)
	if err != nil {
		return nil, err
	}
	if err := persistence.NewGormWarehouseRepository(s.db).Save(s.ctx, wh); err != nil {
		return nil, err
	}

	if _, err := s.user("", identity.RoleShiftLeader, &st.ID); err != nil {
		return nil, err
	}
	for range s.opts.staff {
		if _, err := s.user("", identity.RoleSalesAssociate, &st.ID); err != nil {
			return nil, err
		}
	}
	s.log.Info("Seeded store", zap.String("code", st.Code), zap.String("name", st.Name))
	return wh, nil
}

// user saves a staff member with pay terms typical for the role. An empty
// username is derived from a fake name.
func (s *seeder) user(username string, role identity.Role, storeID *uuid.UUID) (*identity.User, error) {
	first, last := s.fake.FirstName(), s.fake.LastName()
	if username == "" {
		username = s.username(first, last)
	}
	u, err := identity.NewUser(username, s.opts.password, first+" "+last, role)
	if err != nil {
		return nil, err
	}
	if err := u.AssignStore(storeID); err != nil {
		return nil, err
	}
	_ = u.SetEmail(username + "@example.com")

	var pay identity.Compensation
	switch role {
	case identity.RoleDistrictManager:
		pay.BaseSalary = decimal.NewFromInt(9000)
	case identity.RoleStoreManager:
		pay.BaseSalary = decimal.NewFromInt(int64(s.fake.IntRange(5500, 7000)))
		pay.CommissionRate = decimal.RequireFromString("0.01")
	case identity.RoleShiftLeader:
		pay.HourlyWage = decimal.NewFromInt(int64(s.fake.IntRange(24, 30)))
		pay.CommissionRate = decimal.RequireFromString("0.02")
	default:
		pay.HourlyWage = decimal.NewFromInt(int64(s.fake.IntRange(17, 23)))
		pay.CommissionRate = decimal.RequireFromString("0.03")
	}
	if err := u.SetCompensation(pay); err != nil {
		return nil, err
	}
	hired := s.fake.DateRange(time.Now().AddDate(-5, 0, 0), time.Now().AddDate(0, -2, 0))
	u.SetHireDate(&hired)

	if err := persistence.NewGormUserRepository(s.db).Save(s.ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *seeder) username(first, last string) string {
	keep := func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToLower(r)
		}
		return -1
	}
	base := strings.Map(keep, first) + "." + strings.Map(keep, last)
	name := base
	for i := 2; s.usernames[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	s.usernames[name] = true
	return name
}

func (s *seeder) suppliers() ([]*partner.Supplier, error) {
	repo := persistence.NewGormSupplierRepository(s.db)
	out := make([]*partner.Supplier, 0, s.opts.suppliers)
	for i := 1; i <= s.opts.suppliers; i++ {
		sup, err := partner.NewSupplier(fmt.Sprintf("SUP%03d", i), partner.SupplierContact{
			Name:             s.fake.Company(),
			ContactName:      s.fake.Name(),
			Email:            s.fake.Email(),
			Phone:            s.fake.Phone(),
			Address:          s.fake.Street() + ", " + s.fake.City(),
			PaymentTermsDays: s.fake.RandomInt([]int{15, 30, 45, 60}),
		})
		if err != nil {
			return nil, err
		}
		if err := repo.Save(s.ctx, sup); err != nil {
			return nil, err
		}
		out = append(out, sup)
	}
	return out, nil
}

func (s *seeder) catalog(suppliers []*partner.Supplier) ([]*catalog.Product, error) {
	catRepo := persistence.NewGormCategoryRepository(s.db)
	cats := make([]*catalog.Category, 0, len(categories))
	for _, c := range categories {
		cat, err := catalog.NewCategory(c.code, c.name, nil)
		if err != nil {
			return nil, err
		}
		if err := catRepo.Save(s.ctx, cat); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}

	productRepo := persistence.NewGormProductRepository(s.db)
	products := make([]*catalog.Product, 0, s.opts.products)
	for i := 1; i <= s.opts.products; i++ {
		cat := cats[s.fake.IntRange(0, len(cats)-1)]
		metal := metals[s.fake.IntRange(0, len(metals)-1)]
		cost := decimal.NewFromFloat(s.fake.Price(80, 4000)).Round(2)
		markup := decimal.NewFromFloat(s.fake.Float64Range(1.8, 2.6))

		var supplierID *uuid.UUID
		if len(suppliers) > 0 {
			supplierID = &suppliers[s.fake.IntRange(0, len(suppliers)-1)].ID
		}
		p, err := catalog.NewProduct(fmt.Sprintf("%s-%04d", cat.Code, i), catalog.ProductDetails{
			Name:         strings.ReplaceAll(string(metal), "_", " ") + " " + strings.ToLower(strings.TrimSuffix(cat.Name, "s")),
			Description:  s.fake.ProductDescription(),
			CategoryID:   &cat.ID,
			SupplierID:   supplierID,
			Metal:        metal,
			Purity:       s.fake.RandomString([]string{"14K", "18K", "22K", "925", "950"}),
			WeightGrams:  decimal.NewFromFloat(s.fake.Float64Range(1.5, 40)).Round(3),
			CostPrice:    cost,
			RetailPrice:  cost.Mul(markup).Round(0),
			ReorderLevel: s.fake.IntRange(1, 3),
		})
		if err != nil {
			return nil, err
		}
		if err := productRepo.Save(s.ctx, p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// stock puts a few pieces of most products in every warehouse, more in the vault
func (s *seeder) stock(warehouses []*inventory.Warehouse, products []*catalog.Product) error {
	repo := persistence.NewGormInventoryItemRepository(s.db)
	for _, wh := range warehouses {
		maxQty := 5
		if wh.StoreID == nil {
			maxQty = 20
		}
		for _, p := range products {
			if s.fake.Float32Range(0, 1) < 0.2 {
				continue
			}
			item, err := inventory.NewInventoryItem(wh.ID, p.ID)
			if err != nil {
				return err
			}
			cost := p.CostPrice
			if err := item.Increase(s.fake.IntRange(1, maxQty), &cost); err != nil {
				return err
			}
			if err := repo.Save(s.ctx, item); err != nil {
				return err
			}
		}
	}
	return nil
}
