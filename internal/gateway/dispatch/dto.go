package dispatch

import (
	"time"

	"dispatch-admin/internal/domain"
)

// Wire names follow the backend API, which speaks Spanish.

type courierDTO struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

type merchantDTO struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
}

type courierSummaryDTO struct {
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

type merchantSummaryDTO struct {
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
}

type orderDTO struct {
	ID               string              `json:"id"`
	UsuarioID        string              `json:"usuarioId"`
	ComercioID       string              `json:"comercioId"`
	ValorFinal       int64               `json:"valorFinal"`
	ValorDomicilio   *int64              `json:"valorDomicilio,omitempty"`
	DireccionDestino string              `json:"direccionDestino"`
	Estado           string              `json:"estado"`
	CreatedAt        time.Time           `json:"createdAt"`
	AsignadoPor      string              `json:"asignadoPor,omitempty"`
	Domiciliario     *courierSummaryDTO  `json:"domiciliario,omitempty"`
	Comercio         *merchantSummaryDTO `json:"comercio,omitempty"`
}

type createOrderRequest struct {
	UsuarioID        string `json:"usuarioId"`
	ComercioID       string `json:"comercioId"`
	ValorFinal       int64  `json:"valorFinal"`
	ValorDomicilio   *int64 `json:"valorDomicilio,omitempty"`
	DireccionDestino string `json:"direccionDestino"`
}

type updateStatusRequest struct {
	Estado string `json:"estado"`
}

func toCourier(dto courierDTO) domain.Courier {
	return domain.Courier{ID: dto.ID, Name: dto.Nombre, Email: dto.Email}
}

func toMerchant(dto merchantDTO) domain.Merchant {
	return domain.Merchant{ID: dto.ID, Name: dto.Nombre, Address: dto.Direccion}
}

func toOrder(dto orderDTO) domain.Order {
	o := domain.Order{
		ID:          dto.ID,
		CourierID:   dto.UsuarioID,
		MerchantID:  dto.ComercioID,
		FinalValue:  dto.ValorFinal,
		DeliveryFee: dto.ValorDomicilio,
		Destination: dto.DireccionDestino,
		Status:      domain.OrderStatus(dto.Estado),
		CreatedAt:   dto.CreatedAt,
		AssignedBy:  dto.AsignadoPor,
	}
	if dto.Domiciliario != nil {
		o.CourierName = dto.Domiciliario.Nombre
	}
	if dto.Comercio != nil {
		o.MerchantName = dto.Comercio.Nombre
		o.MerchantAddr = dto.Comercio.Direccion
	}
	return o
}

func toOrders(dtos []orderDTO) []domain.Order {
	orders := make([]domain.Order, 0, len(dtos))
	for _, dto := range dtos {
		orders = append(orders, toOrder(dto))
	}
	return orders
}
