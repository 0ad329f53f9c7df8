package models

import "time"

// Wine is a single catalog record. Nullable columns are pointers so that an
// absent value is distinguishable from a zero value; the sommelier document
// builder relies on that distinction to omit empty fields.
type Wine struct {
	ID                 uint     `gorm:"primaryKey" json:"id"`
	Name               string   `gorm:"index;not null;size:255" json:"name"`
	BrandName          *string  `gorm:"size:255" json:"brand_name,omitempty"`
	Type               string   `gorm:"size:64" json:"type"`
	Varietal           *string  `gorm:"size:255" json:"varietal,omitempty"`
	Vintage            *int     `json:"vintage,omitempty"`
	Region             *string  `gorm:"size:255" json:"region,omitempty"`
	SubRegion          *string  `gorm:"size:255" json:"sub_region,omitempty"`
	Country            *string  `gorm:"size:128" json:"country,omitempty"`
	Price              float64  `json:"price"`
	Description        *string  `gorm:"type:text" json:"description,omitempty"`
	FoodPairing        *string  `gorm:"type:text" json:"food_pairing,omitempty"`
	AlcoholContent     *float64 `json:"alcohol_content,omitempty"`
	Body               *string  `gorm:"size:128" json:"body,omitempty"`
	Aroma              *string  `gorm:"type:text" json:"aroma,omitempty"`
	Taste              *string  `gorm:"type:text" json:"taste,omitempty"`
	Winemaking         *string  `gorm:"type:text" json:"winemaking,omitempty"`
	Awards             *string  `gorm:"type:text" json:"awards,omitempty"`
	ServingTemperature *string  `gorm:"size:128" json:"serving_temperature,omitempty"`
	StoragePotential   *string  `gorm:"size:128" json:"storage_potential,omitempty"`
	ImageURL           *string  `gorm:"size:512" json:"image_url,omitempty"`
	Source             *string  `gorm:"size:255" json:"source,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name instead of relying on gorm's pluralization.
func (Wine) TableName() string { return "wines" }

// FieldMap renders the record as a mapping of non-null fields keyed by column
// name. This is the read shape the sommelier core consumes; the model itself
// never crosses that boundary.
func (w *Wine) FieldMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":    w.ID,
		"name":  w.Name,
		"type":  w.Type,
		"price": w.Price,
	}
	putString := func(key string, v *string) {
		if v != nil && *v != "" {
			m[key] = *v
		}
	}
	putString("brand_name", w.BrandName)
	putString("varietal", w.Varietal)
	putString("region", w.Region)
	putString("sub_region", w.SubRegion)
	putString("country", w.Country)
	putString("description", w.Description)
	putString("food_pairing", w.FoodPairing)
	putString("body", w.Body)
	putString("aroma", w.Aroma)
	putString("taste", w.Taste)
	putString("winemaking", w.Winemaking)
	putString("awards", w.Awards)
	putString("serving_temperature", w.ServingTemperature)
	putString("storage_potential", w.StoragePotential)
	putString("image_url", w.ImageURL)
	putString("source", w.Source)
	if w.Vintage != nil {
		m["vintage"] = *w.Vintage
	}
	if w.AlcoholContent != nil {
		m["alcohol_content"] = *w.AlcoholContent
	}
	return m
}
