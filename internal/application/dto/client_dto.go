package dto

import "time"

// CreateClientRequest entrada para crear un cliente del vendedor autenticado.
type CreateClientRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	LastName string `json:"last_name" validate:"required,min=1,max=200"`
	Company  string `json:"company"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
}

// UpdateClientRequest campos opcionales; el vendedor dueño no se puede cambiar.
type UpdateClientRequest struct {
	Name     *string `json:"name"`
	LastName *string `json:"last_name"`
	Company  *string `json:"company"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string    `json:"id"`
	SellerID  string    `json:"seller_id"`
	Name      string    `json:"name"`
	LastName  string    `json:"last_name"`
	Company   string    `json:"company"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
