package model

import "time"

const (
	EquipmentStatusActive      = "active"
	EquipmentStatusRetired     = "retired"
	EquipmentStatusMaintenance = "maintenance"
	EquipmentStatusSold        = "sold"
)

// EquipmentCategories is the closed set of equipment kinds.
var EquipmentCategories = []string{
	"camera", "telescope", "lens", "filter", "mount", "focuser",
	"guide_camera", "guide_scope", "field_flattener", "reducer", "other",
}

type Equipment struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId" validate:"required"`
	Name           string         `json:"name" validate:"required,max=200"`
	Category       string         `json:"category" validate:"required,oneof=camera telescope lens filter mount focuser guide_camera guide_scope field_flattener reducer other"`
	Manufacturer   string         `json:"manufacturer,omitempty" validate:"max=100"`
	Model          string         `json:"model,omitempty" validate:"max=100"`
	SerialNumber   string         `json:"serialNumber,omitempty" validate:"max=100"`
	Specifications map[string]any `json:"specifications" validate:"dive,scalar"`
	PurchaseDate   string         `json:"purchaseDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PurchasePrice  *float64       `json:"purchasePrice,omitempty" validate:"omitnil,gte=0"`
	Notes          string         `json:"notes,omitempty" validate:"max=5000"`
	Status         string         `json:"status" validate:"required,oneof=active retired maintenance sold"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (e *Equipment) Normalize() {
	if e.Specifications == nil {
		e.Specifications = map[string]any{}
	}
}

// Equipment is private to its owner.
func (e *Equipment) CanRead(userID string) bool  { return userID != "" && e.UserID == userID }
func (e *Equipment) CanWrite(userID string) bool { return e.CanRead(userID) }

type EquipmentInput struct {
	Name           string         `json:"name" validate:"required,max=200"`
	Category       string         `json:"category" validate:"required,oneof=camera telescope lens filter mount focuser guide_camera guide_scope field_flattener reducer other"`
	Manufacturer   string         `json:"manufacturer" validate:"max=100"`
	Model          string         `json:"model" validate:"max=100"`
	SerialNumber   string         `json:"serialNumber" validate:"max=100"`
	Specifications map[string]any `json:"specifications" validate:"dive,scalar"`
	PurchaseDate   string         `json:"purchaseDate" validate:"omitempty,datetime=2006-01-02"`
	PurchasePrice  *float64       `json:"purchasePrice" validate:"omitnil,gte=0"`
	Notes          string         `json:"notes" validate:"max=5000"`
	Status         string         `json:"status" validate:"omitempty,oneof=active retired maintenance sold"`
}

func (in EquipmentInput) ToEquipment(userID string) *Equipment {
	e := &Equipment{
		UserID:         userID,
		Name:           in.Name,
		Category:       in.Category,
		Manufacturer:   in.Manufacturer,
		Model:          in.Model,
		SerialNumber:   in.SerialNumber,
		Specifications: in.Specifications,
		PurchaseDate:   in.PurchaseDate,
		PurchasePrice:  in.PurchasePrice,
		Notes:          in.Notes,
		Status:         in.Status,
	}
	if e.Status == "" {
		e.Status = EquipmentStatusActive
	}
	e.Normalize()
	return e
}

type EquipmentPatch struct {
	Name           *string         `json:"name" validate:"omitnil,min=1,max=200"`
	Category       *string         `json:"category" validate:"omitnil,oneof=camera telescope lens filter mount focuser guide_camera guide_scope field_flattener reducer other"`
	Manufacturer   *string         `json:"manufacturer" validate:"omitnil,max=100"`
	Model          *string         `json:"model" validate:"omitnil,max=100"`
	SerialNumber   *string         `json:"serialNumber" validate:"omitnil,max=100"`
	Specifications *map[string]any `json:"specifications" validate:"omitnil,dive,scalar"`
	PurchaseDate   *string         `json:"purchaseDate" validate:"omitnil,omitempty,datetime=2006-01-02"`
	PurchasePrice  *float64        `json:"purchasePrice" validate:"omitnil,gte=0"`
	Notes          *string         `json:"notes" validate:"omitnil,max=5000"`
	Status         *string         `json:"status" validate:"omitnil,oneof=active retired maintenance sold"`
}

func (in EquipmentPatch) Apply(e *Equipment) {
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.Category != nil {
		e.Category = *in.Category
	}
	if in.Manufacturer != nil {
		e.Manufacturer = *in.Manufacturer
	}
	if in.Model != nil {
		e.Model = *in.Model
	}
	if in.SerialNumber != nil {
		e.SerialNumber = *in.SerialNumber
	}
	if in.PurchasePrice != nil {
		price := *in.PurchasePrice
		e.PurchasePrice = &price
	}
	if in.Specifications != nil {
		e.Specifications = *in.Specifications
	}
	if in.PurchaseDate != nil {
		e.PurchaseDate = *in.PurchaseDate
	}
	if in.Notes != nil {
		e.Notes = *in.Notes
	}
	if in.Status != nil {
		e.Status = *in.Status
	}
	e.Normalize()
}
