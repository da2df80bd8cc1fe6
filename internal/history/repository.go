package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rshade/zerodesign/internal/footprint"
)

type constError string

func (e constError) Error() string { return string(e) }

const (
	ErrUnsupportedDriver = constError("unsupported history driver")
	ErrMissingDSN        = constError("postgres history requires a dsn")
	ErrNotFound          = constError("calculation not found")
)

// DefaultRecentLimit is used when Recent is called with a non-positive
// limit.
const DefaultRecentLimit = 50

// CalculationModel is the persisted row.
type CalculationModel struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	ProductName string    `gorm:"column:product_name;not null"`
	Category    string    `gorm:"column:category"`
	TotalCO2    float64   `gorm:"column:total_co2"`
	Score       int       `gorm:"column:score"`
	Details     string    `gorm:"column:calculation_details;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index"`
}

// TableName pins the table name.
func (CalculationModel) TableName() string { return "co2_calculations" }

// Details is the structured calculation input and output kept with a
// record.
type Details struct {
	Fibers      []footprint.FiberComponent `json:"fibers"`
	Processes   footprint.ProcessConfig    `json:"processes"`
	WeightGrams float64                    `json:"weight_grams"`
	Breakdown   footprint.BreakdownResult  `json:"breakdown"`
}

// Calculation is one history entry.
type Calculation struct {
	ID          string    `json:"id"`
	ProductName string    `json:"product_name"`
	Category    string    `json:"category,omitempty"`
	TotalCO2    float64   `json:"total_co2"`
	Score       int       `json:"score"`
	Details     Details   `json:"details"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository reads and writes calculation history.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository wraps db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Record stores c under a fresh ID and returns the stored entry.
func (r *Repository) Record(ctx context.Context, c Calculation) (Calculation, error) {
	details, err := json.Marshal(c.Details)
	if err != nil {
		return Calculation{}, fmt.Errorf("encoding calculation details: %w", err)
	}

	c.ID = uuid.NewString()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now().UTC()
	}
	model := CalculationModel{
		ID:          c.ID,
		ProductName: c.ProductName,
		Category:    c.Category,
		TotalCO2:    c.TotalCO2,
		Score:       c.Score,
		Details:     string(details),
		CreatedAt:   c.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return Calculation{}, fmt.Errorf("recording calculation: %w", err)
	}
	return c, nil
}

// Recent returns up to limit entries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Calculation, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var models []CalculationModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing calculations: %w", err)
	}

	out := make([]Calculation, 0, len(models))
	for i := range models {
		c, err := modelToCalculation(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Get returns the entry with id.
func (r *Repository) Get(ctx context.Context, id string) (Calculation, error) {
	var model CalculationModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Calculation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Calculation{}, fmt.Errorf("finding calculation: %w", err)
	}
	return modelToCalculation(&model)
}

// Count returns the number of stored entries.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&CalculationModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting calculations: %w", err)
	}
	return n, nil
}

func modelToCalculation(m *CalculationModel) (Calculation, error) {
	c := Calculation{
		ID:          m.ID,
		ProductName: m.ProductName,
		Category:    m.Category,
		TotalCO2:    m.TotalCO2,
		Score:       m.Score,
		CreatedAt:   m.CreatedAt,
	}
	if m.Details != "" {
		if err := json.Unmarshal([]byte(m.Details), &c.Details); err != nil {
			return Calculation{}, fmt.Errorf("decoding calculation %s details: %w", m.ID, err)
		}
	}
	return c, nil
}
