package types

type ProductId = int

type Review struct {
	Rating        float64 `json:"rating"`
	Comment       string  `json:"comment"`
	Date          string  `json:"date"`
	ReviewerName  string  `json:"reviewerName,omitempty"`
	ReviewerEmail string  `json:"reviewerEmail,omitempty"`
}

type Product struct {
	Id                 ProductId `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Price              float64   `json:"price"`
	Rating             float64   `json:"rating"`
	Brand              string    `json:"brand"`
	Category           string    `json:"category"`
	Stock              int       `json:"stock"`
	Thumbnail          string    `json:"thumbnail"`
	Images             []string  `json:"images,omitempty"`
	DiscountPercentage *float64  `json:"discountPercentage,omitempty"`
	Reviews            []Review  `json:"reviews,omitempty"`
}

type StockStatus = string

const (
	InStock    StockStatus = "In Stock"
	LowStock   StockStatus = "Low Stock"
	OutOfStock StockStatus = "Out of Stock"
)

// LowStockLimit is the highest stock count still reported as low stock.
const LowStockLimit = 20

var StockStatuses = []StockStatus{InStock, LowStock, OutOfStock}

func StockStatusOf(stock int) StockStatus {
	if stock <= 0 {
		return OutOfStock
	}
	if stock <= LowStockLimit {
		return LowStock
	}
	return InStock
}

func (p *Product) StockStatus() StockStatus {
	return StockStatusOf(p.Stock)
}

func MaxPrice(products []*Product) float64 {
	m := 0.0
	for _, p := range products {
		if p.Price > m {
			m = p.Price
		}
	}
	return m
}
