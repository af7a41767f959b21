package dto

import (
	"time"

	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
)

// Category is the public feed shape for a catalog category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromModel(c models.Category) Category {
	return Category{
		ID:   c.ID.String(),
		Name: c.Name,
		Slug: c.Slug,
	}
}

// Product is the public feed shape for a catalog product.
type Product struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PriceCents   int       `json:"price_cents"`
	IsPreorder   bool      `json:"is_preorder"`
	PhotoFileIDs []string  `json:"photo_file_ids,omitempty"`
	Category     *Category `json:"category,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ProductFromModel(p models.Product) Product {
	out := Product{
		ID:           p.ID.String(),
		Title:        p.Title,
		Description:  p.Description,
		PriceCents:   p.PriceCents,
		IsPreorder:   p.IsPreorder,
		PhotoFileIDs: p.PhotoFileIDs,
		CreatedAt:    p.CreatedAt,
	}
	if p.Category != nil {
		category := CategoryFromModel(*p.Category)
		out.Category = &category
	}
	return out
}

// Review is the public feed shape for an approved review.
type Review struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	PhotoFileIDs []string  `json:"photo_file_ids,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ReviewFromModel(r models.Review) Review {
	return Review{
		ID:           r.ID.String(),
		Text:         r.Text,
		PhotoFileIDs: r.PhotoFileIDs,
		CreatedAt:    r.CreatedAt,
	}
}

// OrderItem is the admin shape for one snapshot line.
type OrderItem struct {
	ProductID      string `json:"product_id"`
	Title          string `json:"title,omitempty"`
	Size           string `json:"size"`
	Qty            int    `json:"qty"`
	UnitPriceCents int    `json:"unit_price_cents"`
}

// Order is the admin shape for an order with its financial snapshot.
type Order struct {
	ID                     string      `json:"id"`
	OrderNumber            int64       `json:"order_number"`
	UserChatID             int64       `json:"user_chat_id"`
	Status                 string      `json:"status"`
	TotalCents             int         `json:"total_cents"`
	DiscountPercent        int         `json:"discount_percent"`
	FinalTotalCents        int         `json:"final_total_cents"`
	PromoCode              *string     `json:"promo_code,omitempty"`
	PartnerCommissionCents int         `json:"partner_commission_cents"`
	PartnerPaid            bool        `json:"partner_paid"`
	Items                  []OrderItem `json:"items,omitempty"`
	CreatedAt              time.Time   `json:"created_at"`
}

func OrderFromModel(o models.Order) Order {
	out := Order{
		ID:                     o.ID.String(),
		OrderNumber:            o.OrderNumber,
		UserChatID:             o.UserChatID,
		Status:                 string(o.Status),
		TotalCents:             o.TotalCents,
		DiscountPercent:        o.DiscountPercent,
		FinalTotalCents:        o.FinalTotalCents,
		PromoCode:              o.PromoCode,
		PartnerCommissionCents: o.PartnerCommissionCents,
		PartnerPaid:            o.PartnerPaid,
		CreatedAt:              o.CreatedAt,
	}
	for _, item := range o.Items {
		title := ""
		if item.Product != nil {
			title = item.Product.Title
		}
		out.Items = append(out.Items, OrderItem{
			ProductID:      item.ProductID.String(),
			Title:          title,
			Size:           item.Size,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return out
}
