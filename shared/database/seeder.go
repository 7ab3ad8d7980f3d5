package database

import (
	"log"

	"github.com/google/uuid"

	"taskvault-backend/shared/config"
	"taskvault-backend/shared/database/models"
	utils "taskvault-backend/shared/utils/auth"
)

// SeedDatabase creates the demo account with sample categories and todos.
// Safe to run repeatedly, an existing demo user short-circuits the seed.
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	user, created, err := seedDemoUser()
	if err != nil {
		return err
	}
	if !created {
		log.Println("✅ Database seed data is up to date")
		return nil
	}

	categories, err := seedCategories(user.ID)
	if err != nil {
		return err
	}

	todosCreated, err := seedTodos(user.ID, categories)
	if err != nil {
		return err
	}

	log.Printf("✅ Database seeding completed (1 user, %d categories, %d todos created)",
		len(categories), todosCreated)
	return nil
}

func seedDemoUser() (*models.User, bool, error) {
	cfg := config.GetConfig()
	email := utils.NormalizeEmail(cfg.SeedUserEmail)

	var existing models.User
	if err := DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return &existing, false, nil
	}

	hashedPassword, err := utils.HashPassword(cfg.SeedUserPassword)
	if err != nil {
		return nil, false, err
	}

	user := models.User{
		Email:    email,
		Password: hashedPassword,
	}
	if err := DB.Create(&user).Error; err != nil {
		return nil, false, err
	}

	log.Printf("✅ Demo user created: %s", email)
	return &user, true, nil
}

func seedCategories(userID uuid.UUID) (map[string]uuid.UUID, error) {
	categories := []models.Category{
		{UserID: userID, Name: "Work", Color: "#3b82f6"},
		{UserID: userID, Name: "Personal", Color: "#10b981"},
		{UserID: userID, Name: "Shopping", Color: "#f59e0b"},
	}

	ids := make(map[string]uuid.UUID, len(categories))
	for i := range categories {
		if err := DB.Create(&categories[i]).Error; err != nil {
			return nil, err
		}
		ids[categories[i].Name] = categories[i].ID
	}

	return ids, nil
}

func seedTodos(userID uuid.UUID, categories map[string]uuid.UUID) (int, error) {
	workID := categories["Work"]
	personalID := categories["Personal"]
	shoppingID := categories["Shopping"]

	todos := []models.Todo{
		{UserID: userID, Title: "Review quarterly report", Description: "Check the numbers before Friday's meeting", CategoryID: &workID},
		{UserID: userID, Title: "Prepare sprint demo", CategoryID: &workID, Completed: true},
		{UserID: userID, Title: "Book dentist appointment", CategoryID: &personalID},
		{UserID: userID, Title: "Buy groceries", Description: "Milk, eggs, coffee", CategoryID: &shoppingID},
		{UserID: userID, Title: "Plan weekend trip"},
	}

	for i := range todos {
		if err := DB.Create(&todos[i]).Error; err != nil {
			return i, err
		}
	}

	return len(todos), nil
}
