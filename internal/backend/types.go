package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// flexID accepts an id sent either as a JSON string or a JSON number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
	Address   string `json:"direccion"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        *UserPayload `json:"user,omitempty"`
}

// UserPayload is the user object as the backend sends it.
type UserPayload struct {
	ID        flexID `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
	Address   string `json:"direccion"`
}

// ProfileUpdateRequest is the body of PUT /users/{id}.
type ProfileUpdateRequest struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
	Email     string `json:"email"`
}

type emailExistsResponse struct {
	Exists bool `json:"exists"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// WalletPayload is the response of GET /wallet.
type WalletPayload struct {
	BalanceFiat     decimal.Decimal `json:"saldoPesos"`
	BalanceCrypto   decimal.Decimal `json:"saldoCrypto"`
	CryptoUnitPrice decimal.Decimal `json:"precioCrypto"`
}

// TransactionPayload is one entry of GET /wallet/transacciones.
type TransactionPayload struct {
	ID           flexID           `json:"id"`
	Type         string           `json:"tipo"`
	Status       string           `json:"estado"`
	Amount       decimal.Decimal  `json:"monto"`
	CreatedAt    string           `json:"fechaCreacion"`
	CryptoAmount *decimal.Decimal `json:"cantidadCrypto"`
	Description  string           `json:"descripcion"`
}

// Amounts go out as JSON numbers, not the quoted strings decimal marshals to.
type depositRequest struct {
	Amount json.Number `json:"monto"`
}

// PreferenceResponse is the response of POST /wallet/create-preference.
type PreferenceResponse struct {
	InitPoint string `json:"init_point"`
	Status    string `json:"status"`
	Error     string `json:"error"`
}

type cryptoPurchaseRequest struct {
	FiatAmount json.Number `json:"montoPesos"`
}

// CryptoPurchaseResponse is the response of POST /wallet/comprar-crypto.
type CryptoPurchaseResponse struct {
	CryptoAmount decimal.Decimal `json:"cantidadCrypto"`
}

type cryptoPriceResponse struct {
	Price decimal.Decimal `json:"precio"`
}

// timestamp layouts seen from the backend, most specific first.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime reads a backend timestamp. Values without a zone are taken as UTC.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
