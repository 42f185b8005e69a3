package db

import (
	"github.com/aryankm/modacart-backend/internal/app/model"
	"github.com/aryankm/modacart-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartLine{},
		&model.CheckoutSession{},
		&model.CheckoutItem{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the initial product catalog if the table is empty
func Seed() error {
	var count int64
	if err := DB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding product catalog...")

	products := []model.Product{
		{
			Name:        "Classic Cotton Tee",
			Description: "Soft combed cotton crew neck t-shirt",
			Price:       24.99,
			Image:       "/images/classic-cotton-tee.jpg",
			Category:    "tshirts",
			Gender:      "men",
			Sizes:       "S,M,L,XL",
			Colors:      "Black,White,Navy",
		},
		{
			Name:        "Slim Fit Denim Jeans",
			Description: "Stretch denim with a tapered leg",
			Price:       59.99,
			Image:       "/images/slim-fit-denim.jpg",
			Category:    "jeans",
			Gender:      "men",
			Sizes:       "28,30,32,34,36",
			Colors:      "Indigo,Washed Blue,Black",
		},
		{
			Name:        "Floral Summer Dress",
			Description: "Lightweight viscose dress with floral print",
			Price:       49.99,
			Image:       "/images/floral-summer-dress.jpg",
			Category:    "dresses",
			Gender:      "women",
			Sizes:       "XS,S,M,L",
			Colors:      "Red,Yellow",
		},
		{
			Name:        "Hooded Zip Sweatshirt",
			Description: "Fleece-lined hoodie with front pockets",
			Price:       44.99,
			Image:       "/images/hooded-zip-sweatshirt.jpg",
			Category:    "hoodies",
			Gender:      "unisex",
			Sizes:       "S,M,L,XL,XXL",
			Colors:      "Grey,Black,Olive",
		},
		{
			Name:        "Canvas Low-Top Sneakers",
			Description: "Everyday canvas sneakers with rubber sole",
			Price:       39.99,
			Image:       "/images/canvas-low-top.jpg",
			Category:    "shoes",
			Gender:      "unisex",
			Sizes:       "7,8,9,10,11",
			Colors:      "White,Black",
		},
		{
			Name:        "High-Waist Leggings",
			Description: "Four-way stretch leggings for training",
			Price:       34.99,
			Image:       "/images/high-waist-leggings.jpg",
			Category:    "activewear",
			Gender:      "women",
			Sizes:       "XS,S,M,L",
			Colors:      "Black,Maroon,Teal",
		},
	}

	for _, product := range products {
		if err := DB.Create(&product).Error; err != nil {
			logger.Error("Failed to create product", err, map[string]interface{}{
				"name": product.Name,
			})
			return err
		}
	}

	logger.Info("Product catalog seeded successfully", map[string]interface{}{
		"total_products": len(products),
	})
	return nil
}
