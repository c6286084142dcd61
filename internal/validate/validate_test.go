package validate

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/g7food/client/internal/apperr"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"ana@example.com", true},
		{"a.b+c@sub.domain.ar", true},
		{"", false},
		{"ana", false},
		{"ana@example", false},
		{"ana @example.com", false},
		{"ana@@example.com", false},
		{"@example.com", false},
	}

	for _, tt := range tests {
		if got := Email(tt.input); got != tt.want {
			t.Errorf("Email(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPasswordProblem(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", MsgPasswordRequired},
		{"abc", MsgPasswordTooShort},
		{"abcdefgh", MsgPasswordUpper},
		{"ABCDEFGH", MsgPasswordLower},
		{"Abcdefgh", MsgPasswordDigit},
		{"Abcdefg1", MsgPasswordSymbol},
		{"Abcdef1#", MsgPasswordSymbol},
		{"Abcdef1!", ""},
		{"Zz9?Zz9?", ""},
	}

	for _, tt := range tests {
		if got := PasswordProblem(tt.input); got != tt.want {
			t.Errorf("PasswordProblem(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"100", "100", false},
		{" 250.50 ", "250.5", false},
		{"", "", true},
		{"abc", "", true},
		{"0", "", true},
		{"-5", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err != nil {
			if apperr.KindOf(err) != apperr.Validation {
				t.Errorf("ParseAmount(%q) kind = %v, want Validation", tt.input, apperr.KindOf(err))
			}
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestDepositAmount(t *testing.T) {
	tests := []struct {
		amount  int64
		wantMsg string
	}{
		{50, MsgDepositMinimum},
		{60000, MsgDepositMaximum},
		{0, MsgInvalidAmount},
		{100, ""},
		{50000, ""},
		{1234, ""},
	}

	for _, tt := range tests {
		err := DepositAmount(decimal.NewFromInt(tt.amount))
		if tt.wantMsg == "" {
			if err != nil {
				t.Errorf("DepositAmount(%d) = %v, want nil", tt.amount, err)
			}
			continue
		}
		if got := apperr.PublicMessage(err); got != tt.wantMsg {
			t.Errorf("DepositAmount(%d) message = %q, want %q", tt.amount, got, tt.wantMsg)
		}
	}
}

func TestCryptoPurchaseAmount(t *testing.T) {
	balance := decimal.NewFromInt(1000)

	tests := []struct {
		amount  int64
		wantMsg string
	}{
		{50, MsgPurchaseMinimum},
		{1001, MsgInsufficientFunds},
		{100, ""},
		{1000, ""},
	}

	for _, tt := range tests {
		err := CryptoPurchaseAmount(decimal.NewFromInt(tt.amount), balance)
		if tt.wantMsg == "" {
			if err != nil {
				t.Errorf("CryptoPurchaseAmount(%d) = %v, want nil", tt.amount, err)
			}
			continue
		}
		if got := apperr.PublicMessage(err); got != tt.wantMsg {
			t.Errorf("CryptoPurchaseAmount(%d) message = %q, want %q", tt.amount, got, tt.wantMsg)
		}
		ae, ok := apperr.As(err)
		if !ok || ae.Fields[FieldAmount] != tt.wantMsg {
			t.Errorf("CryptoPurchaseAmount(%d) fields = %v", tt.amount, ae)
		}
	}
}

func TestFormRegistration(t *testing.T) {
	valid := Registration{
		Email:     "ana@example.com",
		Password:  "Abcdef1!",
		FirstName: "Ana",
		LastName:  "Pérez",
		Phone:     "1122334455",
		Address:   "Calle 1",
	}
	if err := Form(valid); err != nil {
		t.Fatalf("Form(valid) = %v", err)
	}

	bad := valid
	bad.Email = "nope"
	bad.Password = "abcdefgh"
	bad.Address = ""

	err := Form(&bad)
	if err == nil {
		t.Fatal("expected error")
	}
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.Validation {
		t.Fatalf("err = %v, want Validation AppError", err)
	}

	wantFields := map[string]string{
		"email":     MsgInvalidEmail,
		"password":  MsgPasswordUpper,
		"direccion": "This field is required",
	}
	if len(ae.Fields) != len(wantFields) {
		t.Errorf("fields = %v, want %v", ae.Fields, wantFields)
	}
	for k, v := range wantFields {
		if ae.Fields[k] != v {
			t.Errorf("fields[%q] = %q, want %q", k, ae.Fields[k], v)
		}
	}
	if ae.PublicMsg != MsgInvalidEmail {
		t.Errorf("PublicMsg = %q, want first field message %q", ae.PublicMsg, MsgInvalidEmail)
	}
}

func TestFormProfileUpdate(t *testing.T) {
	err := Form(ProfileUpdate{FirstName: "Ana", LastName: "P", Phone: "1", Email: ""})
	ae, ok := apperr.As(err)
	if !ok {
		t.Fatalf("err = %v, want AppError", err)
	}
	if ae.Fields["email"] != "This field is required" {
		t.Errorf("fields = %v", ae.Fields)
	}
}

func TestRegistrationTrimmed(t *testing.T) {
	r := Registration{Email: " ana@example.com ", Password: " Abcdef1! ", FirstName: " Ana "}.Trimmed()
	if r.Email != "ana@example.com" || r.FirstName != "Ana" {
		t.Errorf("Trimmed = %+v", r)
	}
	if r.Password != " Abcdef1! " {
		t.Errorf("password was trimmed: %q", r.Password)
	}
}
