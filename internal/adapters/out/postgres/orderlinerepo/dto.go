package orderlinerepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/orderline"

	"github.com/shopspring/decimal"
)

type OrderLineDTO struct {
	UniqueID string `gorm:"primaryKey"`
	OrderID  string `gorm:"index;not null"`

	SKU               string
	ProductName       string
	Quantity          int
	SellingPrice      decimal.Decimal `gorm:"type:numeric(12,2)"`
	CollectableAmount decimal.Decimal `gorm:"type:numeric(12,2)"`

	CustomerName string
	Phone        string
	Address      string
	City         string
	State        string
	Pincode      string `gorm:"size:6"`
	PaymentType  string `gorm:"size:16"`
	OrderDate    time.Time

	Status        string  `gorm:"size:32;index;not null"`
	ClaimedBy     *string `gorm:"index"`
	ClaimedAt     *time.Time
	LastClaimedBy *string
	LastClaimedAt *time.Time

	CloneStatus   string `gorm:"size:16;not null;default:not_cloned"`
	ClonedOrderID *string

	LabelDownloaded bool `gorm:"not null;default:false"`
	PriorityCarrier *string
}

func (OrderLineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(line *orderline.OrderLine) OrderLineDTO {
	s := line.Snapshot()
	return OrderLineDTO{
		UniqueID:          s.UniqueID,
		OrderID:           s.OrderID,
		SKU:               s.Product.SKU,
		ProductName:       s.Product.Name,
		Quantity:          s.Product.Quantity,
		SellingPrice:      s.Product.SellingPrice,
		CollectableAmount: s.Product.CollectableAmount,
		CustomerName:      s.Shipping.CustomerName,
		Phone:             s.Shipping.Phone,
		Address:           s.Shipping.Address,
		City:              s.Shipping.City,
		State:             s.Shipping.State,
		Pincode:           s.Shipping.Pincode.String(),
		PaymentType:       s.PaymentType.String(),
		OrderDate:         s.OrderDate,
		Status:            s.Status.String(),
		ClaimedBy:         s.ClaimedBy,
		ClaimedAt:         s.ClaimedAt,
		LastClaimedBy:     s.LastClaimedBy,
		LastClaimedAt:     s.LastClaimedAt,
		CloneStatus:       s.CloneStatus.String(),
		ClonedOrderID:     s.ClonedOrderID,
		LabelDownloaded:   s.LabelDownloaded,
		PriorityCarrier:   s.PriorityCarrier,
	}
}

func toDomain(dto OrderLineDTO) (*orderline.OrderLine, error) {
	pincode, err := kernel.NewPincode(dto.Pincode)
	if err != nil {
		return nil, err
	}
	paymentType, err := kernel.ParsePaymentType(dto.PaymentType)
	if err != nil {
		return nil, err
	}
	status, err := orderline.ParseClaimStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	cloneStatus, err := orderline.ParseCloneStatus(dto.CloneStatus)
	if err != nil {
		return nil, err
	}

	return orderline.RestoreOrderLine(orderline.Snapshot{
		UniqueID: dto.UniqueID,
		OrderID:  dto.OrderID,
		Product: orderline.Product{
			SKU:               dto.SKU,
			Name:              dto.ProductName,
			Quantity:          dto.Quantity,
			SellingPrice:      dto.SellingPrice,
			CollectableAmount: dto.CollectableAmount,
		},
		Shipping: orderline.Shipping{
			CustomerName: dto.CustomerName,
			Phone:        dto.Phone,
			Address:      dto.Address,
			City:         dto.City,
			State:        dto.State,
			Pincode:      pincode,
		},
		PaymentType:     paymentType,
		OrderDate:       dto.OrderDate,
		Status:          status,
		ClaimedBy:       dto.ClaimedBy,
		ClaimedAt:       dto.ClaimedAt,
		LastClaimedBy:   dto.LastClaimedBy,
		LastClaimedAt:   dto.LastClaimedAt,
		CloneStatus:     cloneStatus,
		ClonedOrderID:   dto.ClonedOrderID,
		LabelDownloaded: dto.LabelDownloaded,
		PriorityCarrier: dto.PriorityCarrier,
	})
}

func toDomainList(dtos []OrderLineDTO) ([]*orderline.OrderLine, error) {
	lines := make([]*orderline.OrderLine, 0, len(dtos))
	for _, dto := range dtos {
		line, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
