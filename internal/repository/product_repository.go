package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for menu data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// InMemoryProductRepository implements ProductRepository with in-memory storage
type InMemoryProductRepository struct {
	products map[int64]models.Product
}

// NewInMemoryProductRepository creates a new in-memory menu with seed data
func NewInMemoryProductRepository() *InMemoryProductRepository {
	products := map[int64]models.Product{
		1:  {ID: 1, Name: "Beef Pho", TitleKey: "menu.pho_bo", Price: 5.99, Category: "Noodles"},
		2:  {ID: 2, Name: "Grilled Pork Banh Mi", TitleKey: "menu.banh_mi", Price: 7.50, Category: "Sandwich"},
		3:  {ID: 3, Name: "Fresh Spring Rolls", TitleKey: "menu.goi_cuon", Price: 4.25, Category: "Starter"},
		4:  {ID: 4, Name: "Bun Cha Hanoi", TitleKey: "menu.bun_cha", Price: 8.90, Category: "Noodles"},
		5:  {ID: 5, Name: "Broken Rice with Pork Chop", TitleKey: "menu.com_tam", Price: 8.50, Category: "Rice"},
		6:  {ID: 6, Name: "Shaking Beef", TitleKey: "menu.bo_luc_lac", Price: 12.99, Category: "Main"},
		7:  {ID: 7, Name: "Sweet and Sour Fish Soup", TitleKey: "menu.canh_chua", Price: 9.75, Category: "Soup"},
		8:  {ID: 8, Name: "Iced Milk Coffee", TitleKey: "menu.ca_phe_sua_da", Price: 3.20, Category: "Drink"},
		9:  {ID: 9, Name: "Peach Tea", TitleKey: "menu.tra_dao", Price: 2.80, Category: "Drink"},
		10: {ID: 10, Name: "Three Color Dessert", TitleKey: "menu.che_ba_mau", Price: 3.60, Category: "Dessert"},
	}

	return &InMemoryProductRepository{
		products: products,
	}
}

// GetAll returns all menu items ordered by id
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// GetByID returns a menu item by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}
