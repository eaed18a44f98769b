package model

// Item is one catalog record as listed on a page.
// Only the fields the cards render are decoded; the API sends more.
type Item struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// Named is a nested reference the API returns as {"name": ...}.
type Named struct {
	Name string `json:"name"`
}

// ItemDetail is the full product record shown in the detail drawer.
type ItemDetail struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Brand       *Named    `json:"brand"`
	Manufacture *Named    `json:"manufacture"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// BrandName returns the brand name or "" when the API sent none.
func (d ItemDetail) BrandName() string {
	if d.Brand == nil {
		return ""
	}
	return d.Brand.Name
}

// ManufactureName returns the manufacturer name or "".
func (d ItemDetail) ManufactureName() string {
	if d.Manufacture == nil {
		return ""
	}
	return d.Manufacture.Name
}

// Page is one page of catalog results. It is never mutated after
// receipt; a newer fetch replaces it wholesale.
type Page struct {
	Items      []Item
	Page       int
	TotalPages int
}
