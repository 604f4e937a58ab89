package category

import "errors"

// CreateCategoryDTO is the payload for adding a custom category.
type CreateCategoryDTO struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (dto CreateCategoryDTO) Validate() error {
	if dto.Type != TypeIncome && dto.Type != TypeExpense {
		return errors.New("type must be either 'income' or 'expense'")
	}
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Icon == "" {
		return errors.New("icon is required")
	}
	if dto.Color == "" {
		return errors.New("color is required")
	}
	return nil
}

// UpdateCategoryDTO carries a partial update; nil fields are left untouched.
type UpdateCategoryDTO struct {
	Name  *string `json:"name,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (dto UpdateCategoryDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Icon != nil && *dto.Icon == "" {
		return errors.New("icon cannot be empty")
	}
	if dto.Color != nil && *dto.Color == "" {
		return errors.New("color cannot be empty")
	}
	return nil
}

func (dto UpdateCategoryDTO) IsEmpty() bool {
	return dto.Name == nil && dto.Icon == nil && dto.Color == nil
}

type CategoriesResponse struct {
	Success    bool       `json:"success"`
	Categories []Category `json:"categories"`
}

type CategoryResponse struct {
	Success  bool     `json:"success"`
	Category Category `json:"category"`
}
