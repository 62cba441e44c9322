package repository

import (
	"database/sql"
	"fmt"

	"tiakaly/internal/database"
	"tiakaly/internal/models"
)

// MenuRepository handles database operations for menu tags
type MenuRepository struct {
	db *database.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *database.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// CreateMenu inserts a new menu tag
func (r *MenuRepository) CreateMenu(name string) (*models.Menu, error) {
	id, err := r.db.ExecReturningID("INSERT INTO menus (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}
	return &models.Menu{ID: id, Name: name}, nil
}

// GetMenuByID retrieves a menu tag by ID
func (r *MenuRepository) GetMenuByID(id int64) (*models.Menu, error) {
	menu := &models.Menu{}
	err := r.db.QueryRow("SELECT id, name FROM menus WHERE id = ?", id).Scan(&menu.ID, &menu.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	return menu, nil
}

// GetAllMenus retrieves all menu tags
func (r *MenuRepository) GetAllMenus() ([]models.Menu, error) {
	rows, err := r.db.Query("SELECT id, name FROM menus ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}
	defer rows.Close()

	var menus []models.Menu
	for rows.Next() {
		var menu models.Menu
		if err := rows.Scan(&menu.ID, &menu.Name); err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		menus = append(menus, menu)
	}
	return menus, rows.Err()
}

// DeleteMenu deletes a menu tag; place links cascade
func (r *MenuRepository) DeleteMenu(id int64) error {
	if _, err := r.db.Exec("DELETE FROM menus WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	return nil
}
