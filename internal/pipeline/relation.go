package pipeline

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/zeebo/xxh3"
)

// Row is one (order, item) line of the consolidated relation. Pointer fields
// are nil when the value is missing.
//
// Rows handed out by a Relation are shallow copies. The values behind pointer
// fields are shared by every view built from the same run and must not be
// written through; reassign the field or call Clone first.
type Row struct {
	// orders
	OrderID     string
	CustomerID  *string
	OrderStatus *string
	PurchasedAt *time.Time
	ApprovedAt  *time.Time
	DeliveredAt *time.Time
	EstimatedAt *time.Time

	// customers
	CustomerZip   *string
	CustomerCity  *string
	CustomerState *string

	// order_items; Price and Freight are nil only when the order has no item.
	OrderItemID *int
	ProductID   *string
	SellerID    *string
	Price       *float64
	Freight     *float64

	// products
	Category  *string
	WeightG   *float64
	LengthCM  *float64
	HeightCM  *float64
	WidthCM   *float64
	PhotosQty *int

	// sellers
	SellerState *string

	// dominant payment leg
	PaymentType         *string
	PaymentInstallments *int
	PaymentValue        *float64

	// first review
	ReviewScore   *float64
	ReviewComment *string

	// derived
	LineTotal        float64
	OrderRevenue     float64
	OrderItemCount   int
	DaysToDelivery   *int
	OnTime           *bool
	DeliveryStatus   *string
	PackageVolume    *float64
	ShippingLocality string
	CustomerProxyKey *string
	RepeatCustomer   bool
	CustomerType     string
	CategoryLabel    *string
}

// Clone returns a copy of r that shares no pointer targets with r.
func (r Row) Clone() Row {
	c := r
	c.CustomerID = clonePtr(r.CustomerID)
	c.OrderStatus = clonePtr(r.OrderStatus)
	c.PurchasedAt = clonePtr(r.PurchasedAt)
	c.ApprovedAt = clonePtr(r.ApprovedAt)
	c.DeliveredAt = clonePtr(r.DeliveredAt)
	c.EstimatedAt = clonePtr(r.EstimatedAt)
	c.CustomerZip = clonePtr(r.CustomerZip)
	c.CustomerCity = clonePtr(r.CustomerCity)
	c.CustomerState = clonePtr(r.CustomerState)
	c.OrderItemID = clonePtr(r.OrderItemID)
	c.ProductID = clonePtr(r.ProductID)
	c.SellerID = clonePtr(r.SellerID)
	c.Price = clonePtr(r.Price)
	c.Freight = clonePtr(r.Freight)
	c.Category = clonePtr(r.Category)
	c.WeightG = clonePtr(r.WeightG)
	c.LengthCM = clonePtr(r.LengthCM)
	c.HeightCM = clonePtr(r.HeightCM)
	c.WidthCM = clonePtr(r.WidthCM)
	c.PhotosQty = clonePtr(r.PhotosQty)
	c.SellerState = clonePtr(r.SellerState)
	c.PaymentType = clonePtr(r.PaymentType)
	c.PaymentInstallments = clonePtr(r.PaymentInstallments)
	c.PaymentValue = clonePtr(r.PaymentValue)
	c.ReviewScore = clonePtr(r.ReviewScore)
	c.ReviewComment = clonePtr(r.ReviewComment)
	c.DaysToDelivery = clonePtr(r.DaysToDelivery)
	c.OnTime = clonePtr(r.OnTime)
	c.DeliveryStatus = clonePtr(r.DeliveryStatus)
	c.PackageVolume = clonePtr(r.PackageVolume)
	c.CustomerProxyKey = clonePtr(r.CustomerProxyKey)
	c.CategoryLabel = clonePtr(r.CategoryLabel)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Relation is an immutable, named sequence of rows. Every stage returns a new
// Relation instead of changing its input.
type Relation struct {
	name string
	rows []Row
}

func newRelation(name string, rows []Row) *Relation {
	return &Relation{name: name, rows: rows}
}

// NewRelation builds a relation from a copy of rows. Derived fields are
// taken as given; use Run to compute them from source tables.
func NewRelation(name string, rows []Row) *Relation {
	return newRelation(name, append([]Row(nil), rows...))
}

// Name returns the view name ("full", "orders", "delivery").
func (r *Relation) Name() string { return r.name }

// Len returns the number of rows.
func (r *Relation) Len() int { return len(r.rows) }

// Row returns a shallow copy of row i.
func (r *Relation) Row(i int) Row { return r.rows[i] }

// Rows returns a copy of the row slice. Pointer targets are shared with r.
func (r *Relation) Rows() []Row {
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}

// Each calls fn for every row in order until fn returns false.
func (r *Relation) Each(fn func(Row) bool) {
	for _, row := range r.rows {
		if !fn(row) {
			return
		}
	}
}

// Filter returns a new relation named name holding the rows accepted by keep.
func (r *Relation) Filter(name string, keep func(Row) bool) *Relation {
	out := make([]Row, 0, len(r.rows))
	for _, row := range r.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return newRelation(name, out)
}

// Columns returns the relation as column name -> values, one entry per
// schema column, each slice Len() long. Missing values are nil.
func (r *Relation) Columns() map[string][]any {
	out := make(map[string][]any, len(Schema))
	for _, c := range Schema {
		vals := make([]any, len(r.rows))
		for i := range r.rows {
			vals[i] = c.value(&r.rows[i])
		}
		out[c.Name] = vals
	}
	return out
}

// Slice returns rows [offset, offset+limit) as column name -> values.
// Out-of-range bounds are clamped.
func (r *Relation) Slice(offset, limit int) map[string][]any {
	if offset < 0 {
		offset = 0
	}
	if offset > len(r.rows) {
		offset = len(r.rows)
	}
	end := len(r.rows)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return newRelation(r.name, r.rows[offset:end]).Columns()
}

// Fingerprint hashes every value of every row in schema order. Two relations
// with equal content have equal fingerprints.
func (r *Relation) Fingerprint() uint64 {
	h := xxh3.New()
	var buf [8]byte
	put := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		_, _ = h.Write(buf[:])
	}
	for i := range r.rows {
		for _, c := range Schema {
			switch v := c.value(&r.rows[i]).(type) {
			case nil:
				_, _ = h.Write([]byte{0})
			case string:
				_, _ = h.Write([]byte{1})
				put(uint64(len(v)))
				_, _ = h.Write([]byte(v))
			case int:
				_, _ = h.Write([]byte{2})
				put(uint64(v))
			case float64:
				_, _ = h.Write([]byte{3})
				put(math.Float64bits(v))
			case bool:
				if v {
					_, _ = h.Write([]byte{4})
				} else {
					_, _ = h.Write([]byte{5})
				}
			case time.Time:
				_, _ = h.Write([]byte{6})
				put(uint64(v.UnixNano()))
			}
		}
	}
	return h.Sum64()
}
