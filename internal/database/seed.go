package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/andresilva/courseapi/internal/entities"
)

var seedCategories = []entities.Category{
	{Name: "Frontend", Description: "Interface development", Color: "#2563eb"},
	{Name: "Backend", Description: "Servers and APIs", Color: "#16a34a"},
	{Name: "Mobile", Description: "Mobile application development", Color: "#db2777"},
	{Name: "DevOps", Description: "Infrastructure and CI/CD", Color: "#9333ea"},
	{Name: "Data Science", Description: "Data analysis and machine learning", Color: "#ea580c"},
	{Name: "UX/UI", Description: "Interface design and user experience", Color: "#4f46e5"},
}

var seedTags = []entities.Tag{
	{Name: "beginner", Color: "#22c55e"},
	{Name: "intermediate", Color: "#eab308"},
	{Name: "advanced", Color: "#ef4444"},
}

// Seed inserts the default categories and tags, skipping any that
// already exist. Safe to run repeatedly.
func (d *Database) Seed() error {
	for _, category := range seedCategories {
		var existing entities.Category
		err := d.DB.Where("name = ?", category.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&category).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
			}
			log.Printf("Created category: %s", category.Name)
		} else if err != nil {
			return err
		}
	}

	for _, tag := range seedTags {
		var existing entities.Tag
		err := d.DB.Where("name = ?", tag.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&tag).Error; err != nil {
				return fmt.Errorf("failed to seed tag %s: %w", tag.Name, err)
			}
			log.Printf("Created tag: %s", tag.Name)
		} else if err != nil {
			return err
		}
	}

	return nil
}
